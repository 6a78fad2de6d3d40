package extsort

import "iter"

// Sort fully consumes seq through a push sorter and returns the iterator
// over the sorted output. It is the one-shot equivalent of New + PushAll +
// Done; no output is available until the input is exhausted.
func Sort[E any](seq iter.Seq[E], encode EncodeFunc[E], decode DecodeFunc[E], compare CompareFunc[E], config *Config) (*SortedIterator[E], error) {
	s := New(encode, decode, compare, config)
	if err := s.PushAll(seq); err != nil {
		return nil, err
	}
	return s.Done()
}
