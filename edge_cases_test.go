package extsort_test

import (
	"slices"
	"testing"

	"github.com/appaquet/extsort"
)

// The input ending exactly on a spill boundary leaves an empty buffer with
// segments on disk; the merge must still produce every spilled record.
func TestExactSpillBoundary(t *testing.T) {
	config := extsort.DefaultConfig()
	config.SegmentSize = 100

	// push exactly enough to trigger one spill and nothing more: the spill
	// fires on the 101st push and drains the whole buffer
	it, err := extsort.Sort(slices.Values(reversed(101)), encodeInt, decodeInt, compareInt, config)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	defer it.Close()

	if n := it.DiskSegmentCount(); n != 1 {
		t.Errorf("DiskSegmentCount = %d, want 1", n)
	}
	got := collect(t, it)
	if len(got) != 101 || !slices.IsSorted(got) {
		t.Errorf("bad output: %d items sorted=%v", len(got), slices.IsSorted(got))
	}
}

func TestSingleItem(t *testing.T) {
	sorter := extsort.New(encodeInt, decodeInt, compareInt, nil)
	if err := sorter.Push(42); err != nil {
		t.Fatalf("Push: %v", err)
	}
	it, err := sorter.Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	defer it.Close()

	got := collect(t, it)
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("got %v, want [42]", got)
	}
}

func TestSegmentSizeOne(t *testing.T) {
	config := extsort.DefaultConfig()
	config.SegmentSize = 1

	it, err := extsort.Sort(slices.Values(reversed(50)), encodeInt, decodeInt, compareInt, config)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	defer it.Close()

	got := collect(t, it)
	if len(got) != 50 || !slices.IsSorted(got) {
		t.Errorf("bad output with segment size 1: %d items", len(got))
	}
}

func TestAllEqualRecords(t *testing.T) {
	config := extsort.DefaultConfig()
	config.SegmentSize = 10

	data := make([]int, 200)
	for i := range data {
		data[i] = 7
	}
	it, err := extsort.Sort(slices.Values(data), encodeInt, decodeInt, compareInt, config)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	defer it.Close()

	got := collect(t, it)
	if len(got) != 200 {
		t.Fatalf("got %d items, want 200", len(got))
	}
	for _, v := range got {
		if v != 7 {
			t.Fatalf("unexpected value %d", v)
		}
	}
}

// Already-sorted and reverse-sorted inputs through every merge mode.
func TestPresortedInputs(t *testing.T) {
	for _, tc := range []struct {
		name        string
		segmentSize int
	}{
		{"passthrough", 100000},
		{"linear", 300},
		{"heap", 40},
	} {
		t.Run(tc.name, func(t *testing.T) {
			config := extsort.DefaultConfig()
			config.SegmentSize = tc.segmentSize

			asc := make([]int, 1000)
			for i := range asc {
				asc[i] = i
			}

			it, err := extsort.Sort(slices.Values(asc), encodeInt, decodeInt, compareInt, config)
			if err != nil {
				t.Fatalf("Sort: %v", err)
			}
			defer it.Close()
			if got := collect(t, it); !slices.Equal(got, asc) {
				t.Error("already-sorted input came back different")
			}
		})
	}
}
