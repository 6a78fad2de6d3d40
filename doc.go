// Package extsort implements an unstable external merge sort for record
// sequences that may not fit in memory.
//
// Records are accumulated in an in-memory buffer through a push API. When the
// buffer grows past the configured segment size it is sorted and spilled to a
// sorted segment file on disk. Finalizing the sorter returns a SortedIterator
// that lazily merges the buffered remainder and all on-disk segments into a
// single ascending sequence.
//
// The engine never interprets record bytes: each record type supplies its own
// EncodeFunc/DecodeFunc pair, and ordering is supplied separately as a
// CompareFunc. Datasets that fit within one segment never touch the
// filesystem.
//
// extsort is NOT a stable sort: the relative order of records that compare
// equal is unspecified.
package extsort
