package extsort

import (
	"cmp"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
)

// Sorter accumulates pushed records, spilling sorted segments to disk when
// the in-memory buffer exceeds the configured segment size. Once all records
// have been pushed, Done finalizes the sorter and returns a SortedIterator
// over the merged output.
//
// A Sorter is single-writer: Push and PushAll must not be called
// concurrently. After a push or spill failure the sorter is unusable and
// every later call returns the same error.
type Sorter[E any] struct {
	config Config
	logger *slog.Logger
	encode EncodeFunc[E]
	decode DecodeFunc[E]
	cmp    CompareFunc[E]

	buffer   []E
	count    uint64
	segments []*os.File

	sortDir  string // resolved lazily on the first spill
	ownedDir bool   // sortDir was created by us and ownership moves to the iterator

	err      error
	consumed bool
}

// New returns a push-based external sorter for records of type E.
// encode/decode form the byte codec for segment files, compare supplies the
// total order, and config may be nil to use the defaults.
func New[E any](encode EncodeFunc[E], decode DecodeFunc[E], compare CompareFunc[E], config *Config) *Sorter[E] {
	cfg := mergeConfig(config)
	return &Sorter[E]{
		config: *cfg,
		logger: cfg.logger(),
		encode: encode,
		decode: decode,
		cmp:    compare,
		buffer: make([]E, 0, cfg.SegmentSize),
	}
}

// NewByKey returns a sorter ordering records by the key extracted with key.
func NewByKey[E any, K cmp.Ordered](encode EncodeFunc[E], decode DecodeFunc[E], key func(E) K, config *Config) *Sorter[E] {
	return New(encode, decode, CompareKey(key), config)
}

// Push appends one record to the in-memory buffer, spilling a segment to
// disk if the buffer grew past the configured segment size.
func (s *Sorter[E]) Push(item E) error {
	if s.err != nil {
		return s.err
	}
	if s.consumed {
		return ErrSorterConsumed
	}
	s.buffer = append(s.buffer, item)
	s.count++
	if len(s.buffer) > s.config.SegmentSize {
		if err := s.spill(); err != nil {
			return s.fail(err)
		}
	}
	return nil
}

// PushAll pushes every record of seq in order, stopping at the first error.
func (s *Sorter[E]) PushAll(seq iter.Seq[E]) error {
	for item := range seq {
		if err := s.Push(item); err != nil {
			return err
		}
	}
	return nil
}

// Done finalizes the sorter and returns the iterator over the sorted output.
// If segments were spilled, any buffered remainder is flushed as one final
// segment so the whole dataset lives on disk; otherwise the buffer is sorted
// one last time and served directly from memory with zero I/O.
//
// Done consumes the sorter. Ownership of the segment files, and of the temp
// directory if one was created, moves to the returned iterator; release them
// with its Close method.
func (s *Sorter[E]) Done() (*SortedIterator[E], error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.consumed {
		return nil, ErrSorterConsumed
	}
	s.consumed = true

	var memQueue []E
	switch {
	case len(s.segments) == 0:
		s.sortBuffer()
		memQueue = s.buffer
	case len(s.buffer) > 0:
		if err := s.spill(); err != nil {
			return nil, s.fail(err)
		}
	}

	ownedDir := ""
	if s.ownedDir {
		ownedDir = s.sortDir
	}
	it, err := newSortedIterator(&s.config, s.logger, ownedDir, memQueue, s.segments, s.decode, s.cmp, s.count)
	if err != nil {
		s.err = err
		s.segments = nil // already released by the failed constructor
		return nil, err
	}
	s.buffer = nil
	s.segments = nil
	return it, nil
}

// spill sorts the buffer in place and writes it out as the next segment,
// retaining the open file handle for the merge phase. The buffer is drained
// but keeps its capacity.
func (s *Sorter[E]) spill() error {
	s.sortBuffer()

	dir, err := s.lazySortDir()
	if err != nil {
		return err
	}

	// segment files are named by their ordinal within this sort
	path := filepath.Join(dir, strconv.Itoa(len(s.segments)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o600)
	if err != nil {
		return newDiskError(err, "create segment", path)
	}

	sw, err := newSegmentWriter(f, &s.config)
	if err != nil {
		f.Close()
		return newDiskError(err, "open segment writer", path)
	}
	for _, item := range s.buffer {
		if err := s.encode(sw.w, item); err != nil {
			f.Close()
			return newDiskError(err, "encode record", path)
		}
	}
	if err := sw.finish(); err != nil {
		f.Close()
		return newDiskError(err, "flush segment", path)
	}

	s.logger.Debug("segment spilled",
		"segment", len(s.segments),
		"records", len(s.buffer),
		"path", path)

	s.buffer = s.buffer[:0]
	s.segments = append(s.segments, f)
	return nil
}

// lazySortDir resolves the sort directory, creating it on the first spill
// only so that datasets fitting in memory never touch the filesystem.
func (s *Sorter[E]) lazySortDir() (string, error) {
	if s.sortDir != "" {
		return s.sortDir, nil
	}
	if s.config.SortDir != "" {
		if err := os.MkdirAll(s.config.SortDir, 0o700); err != nil {
			return "", newDiskError(err, "create sort directory", s.config.SortDir)
		}
		s.sortDir = s.config.SortDir
		return s.sortDir, nil
	}
	dir, err := os.MkdirTemp("", "extsort")
	if err != nil {
		return "", newDiskError(err, "create temp directory", "")
	}
	s.logger.Debug("temp sort directory created", "dir", dir)
	s.sortDir = dir
	s.ownedDir = true
	return dir, nil
}

func (s *Sorter[E]) sortBuffer() {
	if s.config.ParallelSort && s.config.NumWorkers > 1 && len(s.buffer) >= minParallelSortLen {
		parallelSort(s.buffer, s.cmp, s.config.NumWorkers)
		return
	}
	slices.SortFunc(s.buffer, s.cmp)
}

// fail marks the sorter unusable and releases everything accumulated so far.
func (s *Sorter[E]) fail(err error) error {
	s.err = err
	for _, f := range s.segments {
		f.Close()
	}
	s.segments = nil
	s.buffer = nil
	if s.ownedDir {
		os.RemoveAll(s.sortDir)
	}
	return err
}
