package extsort

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// segmentWriter streams encoded records into one segment file, optionally
// through a compressor. The file handle is retained by the caller for the
// later read phase.
type segmentWriter struct {
	w         io.Writer
	buf       *bufio.Writer
	finishers []func() error // compressor Close, in write order
}

func newSegmentWriter(f *os.File, cfg *Config) (*segmentWriter, error) {
	sw := &segmentWriter{}
	sw.buf = bufio.NewWriterSize(f, cfg.FileBufferSize)
	sw.w = sw.buf

	switch cfg.Compression {
	case CompressionZstd:
		zw, err := zstd.NewWriter(sw.buf)
		if err != nil {
			return nil, err
		}
		sw.w = zw
		sw.finishers = append(sw.finishers, zw.Close)
	case CompressionLZ4:
		lw := lz4.NewWriter(sw.buf)
		sw.w = lw
		sw.finishers = append(sw.finishers, lw.Close)
	}
	return sw, nil
}

// finish flushes the compressor frame (if any) and the file buffer.
func (sw *segmentWriter) finish() error {
	for _, fn := range sw.finishers {
		if err := fn(); err != nil {
			return err
		}
	}
	return sw.buf.Flush()
}

// segment is one sorted run of encoded records backed by a single on-disk
// file, plus the read cursor used during the merge. Segments are written once
// and never mutated afterwards.
type segment[E any] struct {
	index  int
	file   *os.File
	r      io.Reader // buffered; implements io.ByteReader
	decode DecodeFunc[E]
	// releases decompressor resources, nil when uncompressed
	closeDecoder func()

	// linear-scan merge state
	head        E
	hasHead     bool
	needsRefill bool

	// heap merge state
	live int // candidates of this segment currently in the queue
	done bool
}

// openSegment rewinds the segment file and prepares its read cursor. The
// reader passed to the codec is always buffered so that it satisfies
// io.ByteReader even when a decompressor sits in between.
func openSegment[E any](index int, f *os.File, decode DecodeFunc[E], cfg *Config) (*segment[E], error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, newDiskError(err, "seek segment", f.Name())
	}

	sg := &segment[E]{index: index, file: f, decode: decode}
	br := bufio.NewReaderSize(f, cfg.FileBufferSize)
	switch cfg.Compression {
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, newDiskError(err, "open segment reader", f.Name())
		}
		sg.closeDecoder = zr.Close
		sg.r = bufio.NewReader(zr)
	case CompressionLZ4:
		sg.r = bufio.NewReader(lz4.NewReader(br))
	default:
		sg.r = br
	}
	return sg, nil
}

// readNext decodes the next record from the segment. A clean end of stream is
// reported as ok=false with a nil error; anything else is corruption and is
// returned as a DeserializationError.
func (sg *segment[E]) readNext() (E, bool, error) {
	item, err := sg.decode(sg.r)
	if err != nil {
		var zero E
		if errors.Is(err, io.EOF) {
			return zero, false, nil
		}
		return zero, false, &DeserializationError{Segment: sg.index, Cause: err}
	}
	return item, true, nil
}

// close releases the read cursor and the backing file handle. The file itself
// is removed by whoever owns the sort directory.
func (sg *segment[E]) close() error {
	if sg.closeDecoder != nil {
		sg.closeDecoder()
		sg.closeDecoder = nil
	}
	if sg.file == nil {
		return nil
	}
	err := sg.file.Close()
	sg.file = nil
	return err
}
