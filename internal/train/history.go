package train

import "time"

// EpochStats records one epoch of training.
type EpochStats struct {
	Epoch         int // 1-based
	LearningRate  float32
	TrainCost     float32
	TrainAccuracy float32
	Tested        bool // test metrics are valid
	TestCost      float32
	TestAccuracy  float32
	Steps         int // updates applied
	Skipped       int // updates dropped as divergent
	Duration      time.Duration
}

// History is the per-epoch record of a training run.
type History struct {
	Epochs []EpochStats
}

// Last returns the most recent epoch.
func (h *History) Last() (EpochStats, bool) {
	if h == nil || len(h.Epochs) == 0 {
		return EpochStats{}, false
	}
	return h.Epochs[len(h.Epochs)-1], true
}

// Best returns the epoch with the highest test accuracy, using training
// accuracy when no test set was evaluated. Earlier epochs win ties.
func (h *History) Best() (EpochStats, bool) {
	if h == nil || len(h.Epochs) == 0 {
		return EpochStats{}, false
	}
	best := h.Epochs[0]
	for _, e := range h.Epochs[1:] {
		if score(e) > score(best) {
			best = e
		}
	}
	return best, true
}

func score(e EpochStats) float32 {
	if e.Tested {
		return e.TestAccuracy
	}
	return e.TrainAccuracy
}
