package extsort

import (
	"cmp"
	"encoding/binary"
	"io"
	"iter"
	"math"
	"strings"
)

// EncodeString writes s as a uvarint length prefix followed by its bytes.
func EncodeString(w io.Writer, s string) error {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(s)))
	if _, err := w.Write(scratch[:n]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// maxStringPrealloc bounds how much DecodeString allocates up front from the
// length prefix alone. The prefix comes from the stream, so a corrupt one
// must not translate into an arbitrarily large allocation; longer strings are
// still decoded, growing as bytes actually arrive.
const maxStringPrealloc = 1 << 20

// DecodeString reads one length-prefixed string. io.EOF before the first
// length byte is a clean end of stream; a truncated length or body is
// reported as io.ErrUnexpectedEOF.
func DecodeString(r io.Reader) (string, error) {
	n, err := binary.ReadUvarint(asByteReader(r))
	if err != nil {
		return "", err
	}
	if n > math.MaxInt64 {
		return "", io.ErrUnexpectedEOF
	}
	var sb strings.Builder
	sb.Grow(int(min(n, maxStringPrealloc)))
	if _, err := io.CopyN(&sb, r, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return sb.String(), nil
}

// NewStrings returns a sorter for strings in lexicographic order, using the
// length-prefixed string codec for segment files.
func NewStrings(config *Config) *Sorter[string] {
	return New(EncodeString, DecodeString, cmp.Compare[string], config)
}

// SortStrings fully consumes seq through a NewStrings sorter and returns the
// iterator over the sorted output.
func SortStrings(seq iter.Seq[string], config *Config) (*SortedIterator[string], error) {
	s := NewStrings(config)
	if err := s.PushAll(seq); err != nil {
		return nil, err
	}
	return s.Done()
}

// asByteReader adapts r without buffering ahead, so record boundaries are
// preserved for the next decode call. Segment readers already implement
// io.ByteReader; the fallback only exists for codec use outside the engine.
func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return singleByteReader{r}
}

type singleByteReader struct {
	r io.Reader
}

func (s singleByteReader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(s.r, b[:])
	return b[0], err
}
