package extsort

import (
	"io"
	"iter"
	"log/slog"
	"os"

	"github.com/appaquet/extsort/queue"
)

// mergeMode is fixed for the whole lifetime of a SortedIterator, chosen once
// at construction from the number of on-disk segments.
type mergeMode int

const (
	// modePassthrough serves the pre-sorted in-memory buffer directly; the
	// dataset never hit the disk.
	modePassthrough mergeMode = iota
	// modeLinearScan keeps one cached head per segment and picks the minimum
	// by scanning them all; cheapest for few segments.
	modeLinearScan
	// modeHeap keeps a priority queue of candidate records with batched
	// per-segment refills; wins once scanning many segments would dominate.
	modeHeap
)

func (m mergeMode) String() string {
	switch m {
	case modeLinearScan:
		return "linear-scan"
	case modeHeap:
		return "heap"
	default:
		return "passthrough"
	}
}

// heapRefillBatch is the number of records decoded from a depleted segment in
// one refill pass of the heap merge, so the queue is not refilled one record
// at a time.
const heapRefillBatch = 20

// candidate tags a decoded record with the segment it came from so the heap
// can track per-segment depletion.
type candidate[E any] struct {
	value E
	seg   *segment[E]
}

// SortedIterator lazily produces the globally sorted record sequence from the
// in-memory remainder and all spilled segments. It is single-consumer and
// performs a bounded amount of synchronous I/O per call.
//
// The iterator exclusively owns the segment file handles and, if the sorter
// created one, the temporary sort directory; Close releases both. A
// caller-supplied sort directory is never deleted.
type SortedIterator[E any] struct {
	mode  mergeMode
	cmp   CompareFunc[E]
	count uint64

	// passthrough backing store, consumed from the front
	memQueue []E

	segments []*segment[E]
	pq       *queue.PriorityQueue[candidate[E]]
	// set when the previous call depleted a segment's heap candidates;
	// refilling is deferred so decode errors surface in place of the record
	// they would have produced
	refillPending bool

	ownedDir string
	closed   bool
}

func newSortedIterator[E any](cfg *Config, logger *slog.Logger, ownedDir string, memQueue []E,
	files []*os.File, decode DecodeFunc[E], cmp CompareFunc[E], count uint64) (*SortedIterator[E], error) {

	it := &SortedIterator[E]{
		cmp:      cmp,
		count:    count,
		ownedDir: ownedDir,
	}

	// on any construction failure every resource handed to us is released
	fail := func(err error) (*SortedIterator[E], error) {
		for _, sg := range it.segments {
			sg.close()
		}
		for i := len(it.segments); i < len(files); i++ {
			files[i].Close()
		}
		if ownedDir != "" {
			os.RemoveAll(ownedDir)
		}
		return nil, err
	}

	if len(files) == 0 {
		it.mode = modePassthrough
		it.memQueue = memQueue
		logger.Debug("merge ready", "mode", it.mode, "segments", 0, "records", count)
		return it, nil
	}

	for i, f := range files {
		sg, err := openSegment(i, f, decode, cfg)
		if err != nil {
			return fail(err)
		}
		it.segments = append(it.segments, sg)
	}

	if len(files) < cfg.HeapMergeThreshold {
		it.mode = modeLinearScan
		for _, sg := range it.segments {
			item, ok, err := sg.readNext()
			if err != nil {
				return fail(err)
			}
			if ok {
				sg.head = item
				sg.hasHead = true
			}
		}
	} else {
		it.mode = modeHeap
		it.pq = queue.NewPriorityQueue(func(a, b candidate[E]) bool {
			return cmp(a.value, b.value) < 0
		})
		if err := it.refillDepleted(); err != nil {
			return fail(err)
		}
	}

	logger.Debug("merge ready", "mode", it.mode, "segments", len(files), "records", count)
	return it, nil
}

// Next returns the next record in ascending order. It returns io.EOF once the
// sequence is exhausted. A segment decode failure is returned as a
// *DeserializationError in place of a record; after such an error the only
// guarantee is that it is safe to stop calling Next.
func (it *SortedIterator[E]) Next() (E, error) {
	switch it.mode {
	case modePassthrough:
		var zero E
		if len(it.memQueue) == 0 {
			return zero, io.EOF
		}
		item := it.memQueue[0]
		it.memQueue = it.memQueue[1:]
		return item, nil
	case modeLinearScan:
		return it.nextLinear()
	default:
		return it.nextHeap()
	}
}

// nextLinear scans every live cached head and returns the minimum, the first
// occurrence winning among exact ties. Replacing the consumed head is
// deferred to the following call so a decode failure is returned in place of
// the record it destroyed.
func (it *SortedIterator[E]) nextLinear() (E, error) {
	var zero E
	for _, sg := range it.segments {
		if !sg.needsRefill {
			continue
		}
		sg.needsRefill = false
		item, ok, err := sg.readNext()
		if err != nil {
			return zero, err
		}
		if ok {
			sg.head = item
			sg.hasHead = true
		}
	}

	var best *segment[E]
	for _, sg := range it.segments {
		if !sg.hasHead {
			continue
		}
		if best == nil || it.cmp(sg.head, best.head) < 0 {
			best = sg
		}
	}
	if best == nil {
		return zero, io.EOF
	}
	item := best.head
	best.hasHead = false
	best.needsRefill = true
	return item, nil
}

// nextHeap pops the queue minimum and schedules a batched refill once the
// originating segment has no candidates left in the queue.
func (it *SortedIterator[E]) nextHeap() (E, error) {
	var zero E
	if it.refillPending {
		it.refillPending = false
		if err := it.refillDepleted(); err != nil {
			return zero, err
		}
	}
	if it.pq.Len() == 0 {
		return zero, io.EOF
	}
	c := it.pq.Pop()
	c.seg.live--
	if c.seg.live == 0 && !c.seg.done {
		it.refillPending = true
	}
	return c.value, nil
}

// refillDepleted pushes up to heapRefillBatch freshly decoded records from
// every segment whose queue candidates dropped to zero, marking segments done
// on clean end of stream.
func (it *SortedIterator[E]) refillDepleted() error {
	for _, sg := range it.segments {
		if sg.done || sg.live > 0 {
			continue
		}
		for range heapRefillBatch {
			item, ok, err := sg.readNext()
			if err != nil {
				return err
			}
			if !ok {
				sg.done = true
				break
			}
			it.pq.Push(candidate[E]{value: item, seg: sg})
			sg.live++
		}
	}
	return nil
}

// All returns a range-over-func view of the iterator. Iteration stops after
// the first non-EOF error is yielded. Close must still be called to release
// disk resources.
func (it *SortedIterator[E]) All() iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		for {
			item, err := it.Next()
			if err == io.EOF {
				return
			}
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// SortedCount returns the total number of records the iterator will produce,
// known up front from the accumulation phase.
func (it *SortedIterator[E]) SortedCount() uint64 {
	return it.count
}

// DiskSegmentCount returns the number of segments on disk. It is 0 when the
// whole dataset fit in memory.
func (it *SortedIterator[E]) DiskSegmentCount() int {
	return len(it.segments)
}

// Close releases all segment file handles and deletes the temporary sort
// directory if the sorter created one, along with the segment files in it.
// Segment files in a caller-supplied sort directory are left in place. Close
// is idempotent and safe to call before the iterator is exhausted.
func (it *SortedIterator[E]) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true

	var firstErr error
	for _, sg := range it.segments {
		if err := sg.close(); err != nil && firstErr == nil {
			firstErr = newDiskError(err, "close segment", "")
		}
	}
	if it.ownedDir != "" {
		if err := os.RemoveAll(it.ownedDir); err != nil && firstErr == nil {
			firstErr = newDiskError(err, "remove sort directory", it.ownedDir)
		}
	}
	return firstErr
}
