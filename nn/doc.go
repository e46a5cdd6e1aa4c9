// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a fully-connected feedforward classifier.
//
// # Overview
//
// This package contains:
//   - Layer: one dense transformation with its activation
//   - Network: an ordered stack of layers with cost, accuracy and backprop
//   - Delta: per-layer weight and bias gradients, combinable by addition
//   - Costs: Quadratic, CrossEntropy (with optional L2 regularization)
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/mlp/nn"
//	)
//
//	func main() {
//	    net, err := nn.NewNetwork(nn.DefaultConfig(784, 30, 10), rand.New(rand.NewSource(1)))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for range epochs {
//	        grad := net.TotalNegativeGradient(batch)
//	        grad.Scale(0.5)
//	        net.ApplyDelta(grad)
//	    }
//	    fmt.Println(net.Accuracy(test))
//	}
//
// # Sign convention
//
// A Delta holds the negative gradient of the cost, so applying an update is
// always addition: weights += delta.
//
// # Concurrency
//
// Dataset operations fan out per example over worker goroutines. Readers
// never observe a partially applied Delta.
package nn
