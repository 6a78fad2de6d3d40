package extsort

import (
	"slices"

	"golang.org/x/sync/errgroup"
)

// Parallel sorting only pays off once the buffer is large enough to amortize
// goroutine coordination; below this length the sequential path is used even
// when ParallelSort is enabled.
const minParallelSortLen = 4096

// parallelSort sorts data in place across workers goroutines: the buffer is
// split into equal runs, each run is sorted independently, then runs are
// merged pairwise round by round until one remains. The result is identical
// to a sequential slices.SortFunc up to the order of equal records.
func parallelSort[E any](data []E, cmp CompareFunc[E], workers int) {
	n := len(data)
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	runLen := (n + workers - 1) / workers

	bounds := []int{0}
	var g errgroup.Group
	for lo := 0; lo < n; lo += runLen {
		hi := min(lo+runLen, n)
		run := data[lo:hi]
		g.Go(func() error {
			slices.SortFunc(run, cmp)
			return nil
		})
		bounds = append(bounds, hi)
	}
	_ = g.Wait() // workers only sort, they cannot fail

	// merge runs pairwise between data and a scratch buffer, swapping the
	// roles each round
	scratch := make([]E, n)
	src, dst := data, scratch
	for len(bounds) > 2 {
		next := []int{0}
		var mg errgroup.Group
		i := 0
		for ; i+2 < len(bounds); i += 2 {
			lo, mid, hi := bounds[i], bounds[i+1], bounds[i+2]
			mg.Go(func() error {
				mergeRuns(dst[lo:hi], src[lo:mid], src[mid:hi], cmp)
				return nil
			})
			next = append(next, hi)
		}
		if i+1 < len(bounds) {
			// odd run out, carried over as-is
			lo, hi := bounds[i], bounds[i+1]
			copy(dst[lo:hi], src[lo:hi])
			next = append(next, hi)
		}
		_ = mg.Wait()
		bounds = next
		src, dst = dst, src
	}

	if n > 0 && &src[0] != &data[0] {
		copy(data, src)
	}
}

// mergeRuns merges the sorted runs a and b into dst, which must have length
// len(a)+len(b). Ties go to a.
func mergeRuns[E any](dst, a, b []E, cmp CompareFunc[E]) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if cmp(b[j], a[i]) < 0 {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}
