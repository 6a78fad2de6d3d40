package extsort

import "iter"

// Uniq filters a sorted sequence down to one representative per run of
// records the comparison judges equal, keeping the first occurrence. It
// assumes the input is already sorted by cmp, which makes duplicates
// consecutive, and is meant for post-processing a SortedIterator's output.
// Errors pass through untouched.
func Uniq[E any](seq iter.Seq2[E, error], cmp CompareFunc[E]) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var prior E
		priorSet := false
		for item, err := range seq {
			if err != nil {
				yield(item, err)
				return
			}
			if priorSet && cmp(item, prior) == 0 {
				continue
			}
			priorSet = true
			prior = item
			if !yield(item, nil) {
				return
			}
		}
	}
}
