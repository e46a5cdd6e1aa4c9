// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides update rules that turn a batch gradient into a
// network parameter update.
//
// Supported optimizers:
//   - SGD: with optional momentum and gradient clipping
//   - Adam: adaptive moment estimation with bias correction
//
// Example:
//
//	opt := optim.NewSGD(net, optim.SGDConfig{LR: 0.5, Momentum: 0.9})
//	for range epochs {
//	    opt.Step(net.TotalNegativeGradient(batch))
//	}
package optim
