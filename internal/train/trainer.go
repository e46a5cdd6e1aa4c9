// Package train drives mini-batch gradient descent over an nn.Network.
package train

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/chewxy/math32"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/parallel"
)

// ErrDiverged is returned when a gradient or cost stops being finite under
// the Halt policy.
var ErrDiverged = errors.New("train: numerical divergence")

// Trainer runs training epochs according to its Config.
type Trainer struct {
	cfg    Config
	logger *log.Logger
}

// NewTrainer validates cfg and returns a Trainer. A nil logger discards
// progress output.
func NewTrainer(cfg Config, logger *log.Logger) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Trainer{cfg: cfg, logger: logger}, nil
}

// Config returns the trainer's configuration.
func (t *Trainer) Config() Config {
	return t.cfg
}

func (t *Trainer) optimizer(net *nn.Network) optim.Optimizer {
	if t.cfg.Optimizer == Adam {
		return optim.NewAdam(net, optim.AdamConfig{LR: t.cfg.LearningRate, ClipNorm: t.cfg.ClipNorm})
	}
	return optim.NewSGD(net, optim.SGDConfig{
		LR:       t.cfg.LearningRate,
		Momentum: t.cfg.Momentum,
		ClipNorm: t.cfg.ClipNorm,
	})
}

// Run trains net on trainSet for the configured number of epochs and
// evaluates on testSet (which may be empty) after each one.
//
// Cancellation is checked between batches; the history gathered so far is
// returned together with ctx.Err(). Under the Halt policy a non-finite
// gradient or cost ends the run with an error wrapping ErrDiverged.
func (t *Trainer) Run(ctx context.Context, net *nn.Network, trainSet, testSet []nn.Example) (*History, error) {
	if net == nil {
		return nil, fmt.Errorf("%w: nil network", ErrInvalidConfig)
	}
	if len(trainSet) == 0 {
		return nil, fmt.Errorf("%w: empty training set", ErrInvalidConfig)
	}
	if t.cfg.Workers > 0 {
		net.SetParallel(parallel.DefaultConfig().WithWorkers(t.cfg.Workers))
	}

	rng := rand.New(rand.NewSource(t.cfg.Seed)) //nolint:gosec // G404: shuffling only
	opt := t.optimizer(net)
	hist := &History{Epochs: make([]EpochStats, 0, t.cfg.Epochs)}

	order := make([]nn.Example, len(trainSet))
	copy(order, trainSet)

	batchSize := t.cfg.BatchSize
	if batchSize == 0 || batchSize > len(order) {
		batchSize = len(order)
	}

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		start := time.Now()
		stats := EpochStats{Epoch: epoch, LearningRate: opt.GetLR()}

		if t.cfg.Shuffle {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		for lo := 0; lo < len(order); lo += batchSize {
			if err := ctx.Err(); err != nil {
				return hist, err
			}
			hi := min(lo+batchSize, len(order))

			grad := net.TotalNegativeGradient(order[lo:hi])
			if !grad.IsFinite() {
				if err := t.diverged(opt, &stats, fmt.Sprintf("gradient at batch %d", lo/batchSize)); err != nil {
					hist.Epochs = append(hist.Epochs, stats)
					return hist, err
				}
				continue
			}
			opt.Step(grad)
			stats.Steps++
		}

		stats.TrainCost = net.Cost(trainSet)
		stats.TrainAccuracy = net.Accuracy(trainSet)
		if len(testSet) > 0 {
			stats.Tested = true
			stats.TestCost = net.Cost(testSet)
			stats.TestAccuracy = net.Accuracy(testSet)
		}
		stats.Duration = time.Since(start)
		hist.Epochs = append(hist.Epochs, stats)
		t.logEpoch(stats)

		if math32.IsNaN(stats.TrainCost) || math32.IsInf(stats.TrainCost, 0) {
			if t.cfg.OnDivergence == Halt {
				return hist, fmt.Errorf("%w: cost %v after epoch %d", ErrDiverged, stats.TrainCost, epoch)
			}
			t.logger.Printf("epoch %d: non-finite cost %v", epoch, stats.TrainCost)
		}

		if t.cfg.Decay > 0 {
			opt.SetLR(opt.GetLR() * (1 - t.cfg.Decay))
		}
	}
	return hist, nil
}

// diverged applies the divergence policy to a dropped update.
func (t *Trainer) diverged(opt optim.Optimizer, stats *EpochStats, what string) error {
	stats.Skipped++
	switch t.cfg.OnDivergence {
	case Skip:
		t.logger.Printf("epoch %d: skipping non-finite %s", stats.Epoch, what)
	case HalveLR:
		opt.SetLR(opt.GetLR() / 2)
		opt.Reset()
		t.logger.Printf("epoch %d: non-finite %s, learning rate now %g", stats.Epoch, what, opt.GetLR())
	default:
		return fmt.Errorf("%w: %s in epoch %d", ErrDiverged, what, stats.Epoch)
	}
	return nil
}

func (t *Trainer) logEpoch(s EpochStats) {
	if s.Tested {
		t.logger.Printf("epoch %2d/%d: lr=%.4g cost=%.4f acc=%.2f%% test_cost=%.4f test_acc=%.2f%% skipped=%d (%v)",
			s.Epoch, t.cfg.Epochs, s.LearningRate, s.TrainCost, s.TrainAccuracy*100,
			s.TestCost, s.TestAccuracy*100, s.Skipped, s.Duration.Round(time.Millisecond))
		return
	}
	t.logger.Printf("epoch %2d/%d: lr=%.4g cost=%.4f acc=%.2f%% skipped=%d (%v)",
		s.Epoch, t.cfg.Epochs, s.LearningRate, s.TrainCost, s.TrainAccuracy*100,
		s.Skipped, s.Duration.Round(time.Millisecond))
}
