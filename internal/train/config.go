package train

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("train: invalid config")

// DivergencePolicy selects what the trainer does with a non-finite gradient.
type DivergencePolicy int

const (
	// Halt stops training and returns ErrDiverged.
	Halt DivergencePolicy = iota
	// Skip drops the offending batch update and continues.
	Skip
	// HalveLR drops the update and halves the learning rate.
	HalveLR
)

func (p DivergencePolicy) String() string {
	switch p {
	case Halt:
		return "halt"
	case Skip:
		return "skip"
	case HalveLR:
		return "halve-lr"
	default:
		return fmt.Sprintf("DivergencePolicy(%d)", int(p))
	}
}

// ParseDivergencePolicy parses the String form of a policy.
func ParseDivergencePolicy(s string) (DivergencePolicy, error) {
	switch strings.ToLower(s) {
	case "halt", "stop":
		return Halt, nil
	case "skip":
		return Skip, nil
	case "halve-lr", "halve":
		return HalveLR, nil
	}
	return 0, fmt.Errorf("%w: unknown divergence policy %q", ErrInvalidConfig, s)
}

// OptimizerKind selects the update rule.
type OptimizerKind int

const (
	SGD OptimizerKind = iota
	Adam
)

func (k OptimizerKind) String() string {
	switch k {
	case SGD:
		return "sgd"
	case Adam:
		return "adam"
	default:
		return fmt.Sprintf("OptimizerKind(%d)", int(k))
	}
}

// ParseOptimizer parses "sgd" or "adam".
func ParseOptimizer(s string) (OptimizerKind, error) {
	switch strings.ToLower(s) {
	case "sgd":
		return SGD, nil
	case "adam":
		return Adam, nil
	}
	return 0, fmt.Errorf("%w: unknown optimizer %q", ErrInvalidConfig, s)
}

// Config holds training hyperparameters.
type Config struct {
	Epochs       int
	BatchSize    int     // 0 trains on the full set each step
	LearningRate float32 // initial learning rate
	Momentum     float32 // SGD only, in [0, 1)
	Decay        float32 // per-epoch decay: lr *= 1 - Decay
	ClipNorm     float32 // 0 disables gradient clipping
	Shuffle      bool
	Seed         int64
	OnDivergence DivergencePolicy
	Optimizer    OptimizerKind
	Workers      int // 0 keeps the network's parallel setting
}

// DefaultConfig returns the settings used by the command-line tool.
func DefaultConfig() Config {
	return Config{
		Epochs:       10,
		BatchSize:    32,
		LearningRate: 0.5,
		Shuffle:      true,
		Seed:         1,
		OnDivergence: Halt,
		Optimizer:    SGD,
	}
}

// Validate checks that the hyperparameters are usable.
func (c Config) Validate() error {
	switch {
	case c.Epochs <= 0:
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, c.Epochs)
	case c.BatchSize < 0:
		return fmt.Errorf("%w: batch size must be non-negative, got %d", ErrInvalidConfig, c.BatchSize)
	case !(c.LearningRate > 0):
		return fmt.Errorf("%w: learning rate must be positive, got %g", ErrInvalidConfig, c.LearningRate)
	case c.Momentum < 0 || c.Momentum >= 1:
		return fmt.Errorf("%w: momentum must be in [0, 1), got %g", ErrInvalidConfig, c.Momentum)
	case c.Decay < 0 || c.Decay >= 1:
		return fmt.Errorf("%w: decay must be in [0, 1), got %g", ErrInvalidConfig, c.Decay)
	case c.ClipNorm < 0:
		return fmt.Errorf("%w: clip norm must be non-negative, got %g", ErrInvalidConfig, c.ClipNorm)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.OnDivergence < Halt || c.OnDivergence > HalveLR {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.OnDivergence)
	}
	if c.Optimizer != SGD && c.Optimizer != Adam {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Optimizer)
	}
	return nil
}
