package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestFor_Sequential(t *testing.T) {
	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, Sequential())

	assert.Equal(t, int64(100), counter)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
	assert.Equal(t, 1, NumChunks(n, cfg))
}

func TestForChunks_CoversRangeOnce(t *testing.T) {
	tests := []struct {
		name string
		n    int
		cfg  Config
	}{
		{"sequential", 10, Sequential()},
		{"even split", 100, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}},
		{"uneven split", 101, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}},
		{"more workers than items", 3, Config{Enabled: true, NumWorkers: 8, MinChunkSize: 1}},
		{"min chunk dominates", 50, Config{Enabled: true, NumWorkers: 8, MinChunkSize: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := NumChunks(tt.n, tt.cfg)
			seen := make([]int32, tt.n)
			starts := make([]int, chunks)
			var calls int32

			ForChunks(tt.n, func(c, s, e int) {
				atomic.AddInt32(&calls, 1)
				assert.Less(t, c, chunks)
				starts[c] = s
				for i := s; i < e; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			}, tt.cfg)

			assert.Equal(t, int32(chunks), calls)
			for i, v := range seen {
				assert.Equal(t, int32(1), v, "index %d", i)
			}
			for c := 1; c < chunks; c++ {
				assert.Less(t, starts[c-1], starts[c], "chunks must be ordered by start")
			}
		})
	}
}

func TestForChunks_Empty(t *testing.T) {
	called := false
	ForChunks(0, func(_, _, _ int) { called = true }, DefaultConfig())
	assert.False(t, called)
	assert.Equal(t, 0, NumChunks(0, DefaultConfig()))
}

func TestWithWorkers(t *testing.T) {
	cfg := DefaultConfig().WithWorkers(1)
	assert.False(t, cfg.Enabled)

	cfg = Sequential().WithWorkers(6)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 6, cfg.NumWorkers)

	assert.Equal(t, Sequential(), Sequential().WithWorkers(0))
}

func TestLogicalCores(t *testing.T) {
	assert.Greater(t, LogicalCores(), 0)
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, Sequential())
		}
	})
}
