package extsort

import (
	"cmp"
	"encoding/gob"
	"io"
	"iter"
)

// encodeGob writes one record as a self-contained gob message. A fresh
// encoder per record keeps each message independently decodable, at the cost
// of repeating the type description.
func encodeGob[T any](w io.Writer, item T) error {
	return gob.NewEncoder(w).Encode(item)
}

// decodeGob reads one gob message from r. gob reports a clean end of stream
// as io.EOF and a truncated message as io.ErrUnexpectedEOF, which matches the
// DecodeFunc contract directly.
func decodeGob[T any](r io.Reader) (T, error) {
	var v T
	err := gob.NewDecoder(r).Decode(&v)
	return v, err
}

// NewOrdered returns a sorter for any naturally ordered type, using gob
// encoding for segment files and cmp.Compare for ordering.
func NewOrdered[T cmp.Ordered](config *Config) *Sorter[T] {
	return New(encodeGob[T], decodeGob[T], cmp.Compare[T], config)
}

// SortOrdered fully consumes seq through a NewOrdered sorter and returns the
// iterator over the sorted output.
func SortOrdered[T cmp.Ordered](seq iter.Seq[T], config *Config) (*SortedIterator[T], error) {
	s := NewOrdered[T](config)
	if err := s.PushAll(seq); err != nil {
		return nil, err
	}
	return s.Done()
}
