package extsort

import (
	"log/slog"
	"runtime"
)

// Compression selects the codec used to compress segment files on disk.
type Compression int

const (
	// CompressionNone writes segment files uncompressed.
	CompressionNone Compression = iota
	// CompressionZstd compresses segment files with zstandard. Good ratio,
	// still fast enough for spill-bound workloads.
	CompressionZstd
	// CompressionLZ4 compresses segment files with lz4. Lower ratio than
	// zstd but the cheapest on CPU.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Config holds configuration settings for a sort operation.
type Config struct {
	SegmentSize        int          // max records buffered in memory before a spill is triggered
	SortDir            string       // directory for segment files; empty to lazily create a temp directory
	ParallelSort       bool         // sort each buffer across NumWorkers cores before spilling
	HeapMergeThreshold int          // segment count at which the merge switches from linear scan to a heap
	NumWorkers         int          // workers used by the parallel sort
	FileBufferSize     int          // file IO buffer size for each segment
	Compression        Compression  // compression codec for segment files
	Logger             *slog.Logger // optional debug logging; nil discards
}

// DefaultConfig returns the default configuration options used if none provided
func DefaultConfig() *Config {
	return &Config{
		SegmentSize:        10000,
		SortDir:            "",
		ParallelSort:       false,
		HeapMergeThreshold: 20,
		NumWorkers:         runtime.NumCPU(),
		FileBufferSize:     1 << 16, // 64KB
		Compression:        CompressionNone,
	}
}

// mergeConfig takes a provided config and replaces any values not set with the defaults
func mergeConfig(c *Config) *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	merged := *c
	if merged.SegmentSize <= 0 {
		merged.SegmentSize = d.SegmentSize
	}
	if merged.HeapMergeThreshold <= 1 {
		merged.HeapMergeThreshold = d.HeapMergeThreshold
	}
	if merged.NumWorkers <= 0 {
		merged.NumWorkers = d.NumWorkers
	}
	if merged.FileBufferSize <= 0 {
		merged.FileBufferSize = d.FileBufferSize
	}
	// SortDir, ParallelSort and Compression keep their zero values
	return &merged
}

// logger returns the configured logger, or a discarding one.
func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
