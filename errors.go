package extsort

import (
	"errors"
	"fmt"
)

// ErrSorterConsumed is returned by Push, PushAll and Done after the sorter
// has already been finalized by a call to Done.
var ErrSorterConsumed = errors.New("extsort: sorter already consumed")

// DeserializationError reports a record that could not be decoded from a
// segment file during the merge. A clean end of stream is never wrapped in a
// DeserializationError; only corruption (partial or malformed records) is.
type DeserializationError struct {
	// Segment is the index of the segment file the record was read from.
	Segment int
	// Cause is the error returned by the DecodeFunc.
	Cause error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode record from segment %d: %v", e.Segment, e.Cause)
}

func (e *DeserializationError) Unwrap() error {
	return e.Cause
}

// newDiskError wraps an underlying I/O error with the failing operation
func newDiskError(err error, operation, path string) error {
	if path != "" {
		return fmt.Errorf("disk error during %s on %s: %w", operation, path, err)
	}
	return fmt.Errorf("disk error during %s: %w", operation, err)
}
