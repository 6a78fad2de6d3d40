package extsort_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/appaquet/extsort"
)

// The gob convenience codec must survive the disk round trip for common
// ordered types.
func TestOrderedInts(t *testing.T) {
	config := extsort.DefaultConfig()
	config.SegmentSize = 50

	data := make([]int64, 1000)
	for i := range data {
		data[i] = rand.Int63n(10000) - 5000
	}

	it, err := extsort.SortOrdered(slices.Values(data), config)
	if err != nil {
		t.Fatalf("SortOrdered: %v", err)
	}
	defer it.Close()

	want := slices.Clone(data)
	slices.Sort(want)

	var got []int64
	for v, err := range it.All() {
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, v)
	}
	if !slices.Equal(got, want) {
		t.Error("gob round trip changed the dataset")
	}
}

func TestOrderedFloats(t *testing.T) {
	config := extsort.DefaultConfig()
	config.SegmentSize = 30

	data := make([]float64, 500)
	for i := range data {
		data[i] = rand.NormFloat64()
	}

	it, err := extsort.SortOrdered(slices.Values(data), config)
	if err != nil {
		t.Fatalf("SortOrdered: %v", err)
	}
	defer it.Close()

	var got []float64
	for v, err := range it.All() {
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, v)
	}
	if !slices.IsSorted(got) || len(got) != len(data) {
		t.Errorf("bad output: %d items sorted=%v", len(got), slices.IsSorted(got))
	}
}

func TestOrderedPushIncremental(t *testing.T) {
	sorter := extsort.NewOrdered[string](nil)
	for _, s := range []string{"delta", "alpha", "charlie", "bravo"} {
		if err := sorter.Push(s); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	it, err := sorter.Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	defer it.Close()

	var got []string
	for v, err := range it.All() {
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, v)
	}
	want := []string{"alpha", "bravo", "charlie", "delta"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
