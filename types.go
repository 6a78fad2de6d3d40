package extsort

import (
	"cmp"
	"io"
)

// EncodeFunc writes the byte representation of one record to w. Framing
// (length prefix, fixed width, ...) is entirely up to the codec; segment
// files are a flat concatenation of whatever this function writes.
// It returns an error if the writer fails.
type EncodeFunc[E any] func(w io.Writer, item E) error

// DecodeFunc reads the next record from r and is the inverse of the
// corresponding EncodeFunc.
//
// A clean end of stream (no more bytes at a record boundary) must be
// signalled by returning io.EOF; the merge silently retires the segment that
// produced it. Any other failure, including a partial record
// (io.ErrUnexpectedEOF), is treated as corruption and surfaced to the caller.
//
// The reader handed to a DecodeFunc is buffered and implements io.ByteReader,
// so codecs can use binary.ReadUvarint and friends directly.
type DecodeFunc[E any] func(r io.Reader) (E, error)

// CompareFunc is a total order over records. It returns a negative integer if
// a orders before b, zero if they are equal, and a positive integer
// otherwise, following the same semantics as cmp.Compare. It must be
// side-effect-free and consistent across calls: the same function drives both
// the in-memory sort and the merge.
type CompareFunc[E any] func(a, b E) int

// CompareKey derives a CompareFunc that orders records by the key extracted
// with key.
func CompareKey[E any, K cmp.Ordered](key func(E) K) CompareFunc[E] {
	return func(a, b E) int {
		return cmp.Compare(key(a), key(b))
	}
}
