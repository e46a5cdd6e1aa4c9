// Package parallel provides parallel execution utilities for the classifier.
package parallel

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on the logical core count.
func DefaultConfig() Config {
	n := LogicalCores()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16, // One backward pass per item; small chunks already pay off.
	}
}

// Sequential returns a Config that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// WithWorkers returns a copy of cfg using n workers. n <= 0 keeps cfg.
func (cfg Config) WithWorkers(n int) Config {
	if n <= 0 {
		return cfg
	}
	cfg.NumWorkers = n
	cfg.Enabled = n > 1
	return cfg
}

// LogicalCores reports the number of logical cores, preferring cpuid and
// falling back to the Go runtime when detection fails.
func LogicalCores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// sequential reports whether n items should run on the calling goroutine.
func (cfg Config) sequential(n int) bool {
	return !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize
}

// chunkSize returns the number of items per chunk for n items.
func (cfg Config) chunkSize(n int) int {
	return max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
}

// NumChunks returns how many chunks ForChunks will use for n items.
func NumChunks(n int, cfg Config) int {
	if n <= 0 {
		return 0
	}
	if cfg.sequential(n) {
		return 1
	}
	size := cfg.chunkSize(n)
	return (n + size - 1) / size
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	ForChunks(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// ForChunks splits [0, n) into NumChunks(n, cfg) contiguous ranges and calls
// f(chunk, start, end) once per range, concurrently when enabled.
//
// Chunk indices are dense and ordered by start, so callers can keep one
// partial result per chunk and reduce them in index order afterwards.
// ForChunks returns after every call has finished.
func ForChunks(n int, f func(chunk, start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if cfg.sequential(n) {
		f(0, 0, n)
		return
	}

	var wg sync.WaitGroup
	size := cfg.chunkSize(n)

	for chunk, start := 0, 0; start < n; chunk, start = chunk+1, start+size {
		end := min(start+size, n)
		wg.Add(1)
		go func(c, s, e int) {
			defer wg.Done()
			f(c, s, e)
		}(chunk, start, end)
	}
	wg.Wait()
}
