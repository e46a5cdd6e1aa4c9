package nn

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/born-ml/mlp/internal/parallel"
)

func benchmarkNetwork(b *testing.B, workers parallel.Config) (*Network, []Example) {
	b.Helper()
	rng := rand.New(rand.NewSource(1))
	cfg := DefaultConfig(784, 30, 10)
	cfg.Parallel = workers
	net, err := NewNetwork(cfg, rng)
	if err != nil {
		b.Fatal(err)
	}
	return net, randomExamples(rng, 256, 784, 10)
}

func BenchmarkNetwork_Forward(b *testing.B) {
	net, data := benchmarkNetwork(b, parallel.Sequential())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = net.Forward(data[i%len(data)].Features)
	}
}

func BenchmarkNetwork_Accuracy(b *testing.B) {
	for _, workers := range []int{1, parallel.LogicalCores()} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			net, data := benchmarkNetwork(b, parallel.DefaultConfig().WithWorkers(workers))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = net.Accuracy(data)
			}
		})
	}
}

func BenchmarkTotalNegativeGradient(b *testing.B) {
	for _, workers := range []int{1, parallel.LogicalCores()} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			net, data := benchmarkNetwork(b, parallel.DefaultConfig().WithWorkers(workers))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = net.TotalNegativeGradient(data)
			}
		})
	}
}
