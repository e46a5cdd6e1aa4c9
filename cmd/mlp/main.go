// Package main trains a fully-connected MNIST classifier from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/cpuid/v2"

	"github.com/born-ml/mlp/internal/mnist"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/parallel"
	"github.com/born-ml/mlp/internal/train"
)

const version = "v0.1.0-dev"

func main() {
	dataDir := flag.String("data", "./data", "Directory holding the MNIST IDX files")
	download := flag.Bool("download", false, "Download and extract missing MNIST files before training")
	baseURL := flag.String("url", mnist.DefaultBaseURL, "Base URL of the gzipped MNIST files")
	maxTrain := flag.Int("samples", 0, "Max training samples to load (0 = all)")
	maxTest := flag.Int("test-samples", 0, "Max test samples to load (0 = all)")
	synthetic := flag.Int("synthetic", 0, "Train on N synthetic samples instead of MNIST (0 = off)")
	hidden := flag.String("hidden", "30", "Comma-separated hidden layer widths")
	output := flag.String("output", "", "Output activation: sigmoid|softmax (default: matches -cost)")
	costName := flag.String("cost", "cross-entropy", "Cost function: quadratic|cross-entropy")
	epochs := flag.Int("epochs", 10, "Number of training epochs")
	batch := flag.Int("batch", 32, "Mini-batch size (0 = full batch)")
	lr := flag.Float64("lr", 0.5, "Initial learning rate")
	momentum := flag.Float64("momentum", 0, "SGD momentum in [0, 1)")
	decay := flag.Float64("decay", 0, "Per-epoch learning rate decay in [0, 1)")
	lambda := flag.Float64("lambda", 0, "L2 regularization coefficient")
	clip := flag.Float64("clip", 0, "Gradient norm clip (0 = off)")
	optName := flag.String("optimizer", "sgd", "Update rule: sgd|adam")
	initName := flag.String("init", "uniform", "Weight init: uniform|xavier")
	initLow := flag.Float64("init-low", -1, "Lower bound of uniform weight init")
	initHigh := flag.Float64("init-high", 1, "Upper bound of uniform weight init")
	zeroBias := flag.Bool("zero-bias", true, "Start biases at zero instead of the weight range")
	seed := flag.Int64("seed", 1, "Seed for initialization and shuffling")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = logical cores)")
	onNaN := flag.String("on-nan", "halt", "Divergence policy: halt|skip|halve-lr")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion || flag.Arg(0) == "version" {
		fmt.Printf("mlp %s\n", version)
		return
	}

	log.SetFlags(log.Ltime)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("MLP - MNIST digit classifier")
	fmt.Printf("CPU: %s (%d physical / %d logical cores, AVX2=%v)\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, parallel.LogicalCores(), cpuid.CPU.Supports(cpuid.AVX2))

	netCfg, err := networkConfig(*hidden, *output, *costName, *initName, *initLow, *initHigh, *zeroBias, *lambda)
	if err != nil {
		log.Fatalf("Invalid network flags: %v", err)
	}

	trainCfg := train.DefaultConfig()
	trainCfg.Epochs = *epochs
	trainCfg.BatchSize = *batch
	trainCfg.LearningRate = float32(*lr)
	trainCfg.Momentum = float32(*momentum)
	trainCfg.Decay = float32(*decay)
	trainCfg.ClipNorm = float32(*clip)
	trainCfg.Seed = *seed
	trainCfg.Workers = *workers
	if trainCfg.OnDivergence, err = train.ParseDivergencePolicy(*onNaN); err != nil {
		log.Fatalf("Invalid -on-nan: %v", err)
	}
	if trainCfg.Optimizer, err = train.ParseOptimizer(*optName); err != nil {
		log.Fatalf("Invalid -optimizer: %v", err)
	}

	trainer, err := train.NewTrainer(trainCfg, log.Default())
	if err != nil {
		log.Fatalf("Invalid training flags: %v", err)
	}

	var trainSet, testSet []nn.Example
	if *synthetic > 0 {
		fmt.Printf("\nUsing %d synthetic samples\n", *synthetic)
		rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // G404: synthetic data only
		trainSet, testSet = mnist.Split(mnist.Synthetic(*synthetic, rng), 0.2, rng)
	} else {
		if *download {
			f := mnist.NewFetcher(*dataDir)
			f.BaseURL = *baseURL

			start := time.Now()
			if err := f.Download(ctx); err != nil {
				log.Fatalf("Download failed: %v", err)
			}
			log.Printf("download: %v", time.Since(start).Round(time.Millisecond))

			start = time.Now()
			if err := f.Extract(ctx); err != nil {
				log.Fatalf("Extract failed: %v", err)
			}
			log.Printf("extract: %v", time.Since(start).Round(time.Millisecond))
		}

		fmt.Printf("\nLoading MNIST from: %s\n", *dataDir)
		start := time.Now()
		trainSet, testSet, err = mnist.Load(ctx, *dataDir, *maxTrain, *maxTest)
		if err != nil {
			log.Fatalf("Failed to load MNIST: %v (use -download or -synthetic)", err)
		}
		log.Printf("parse: %v", time.Since(start).Round(time.Millisecond))
	}
	fmt.Printf("   Train: %d samples, Test: %d samples\n", len(trainSet), len(testSet))

	start := time.Now()
	net, err := nn.NewNetwork(netCfg, rand.New(rand.NewSource(*seed))) //nolint:gosec // G404: weight init
	if err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}
	log.Printf("construct: %v", time.Since(start).Round(time.Millisecond))

	fmt.Printf("\nNetwork: sizes=%v hidden=%v output=%v cost=%v lambda=%g (%d parameters)\n",
		net.Sizes(), netCfg.Hidden, netCfg.Output, netCfg.Cost, netCfg.Lambda, net.ParameterCount())
	fmt.Printf("Training: %v lr=%g batch=%d epochs=%d momentum=%g decay=%g on-nan=%v\n\n",
		trainCfg.Optimizer, trainCfg.LearningRate, trainCfg.BatchSize, trainCfg.Epochs,
		trainCfg.Momentum, trainCfg.Decay, trainCfg.OnDivergence)

	start = time.Now()
	hist, err := trainer.Run(ctx, net, trainSet, testSet)
	log.Printf("train: %v", time.Since(start).Round(time.Millisecond))
	if err != nil {
		log.Printf("Training stopped: %v", err)
	}

	if best, ok := hist.Best(); ok {
		fmt.Printf("\nBest epoch %d: test accuracy %.2f%%, train accuracy %.2f%%\n",
			best.Epoch, best.TestAccuracy*100, best.TrainAccuracy*100)
	}
	if len(testSet) > 0 {
		fmt.Printf("Final test: cost %.4f, accuracy %.2f%%\n", net.Cost(testSet), net.Accuracy(testSet)*100)
	}
	if err != nil {
		os.Exit(1)
	}
}

// networkConfig assembles an nn.Config for MNIST from the command-line flags.
func networkConfig(hidden, output, costName, initName string, low, high float64, zeroBias bool, lambda float64) (nn.Config, error) {
	sizes := []int{mnist.ImageSize}
	for _, f := range strings.Split(hidden, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		w, err := strconv.Atoi(f)
		if err != nil {
			return nn.Config{}, fmt.Errorf("hidden width %q: %w", f, err)
		}
		sizes = append(sizes, w)
	}
	sizes = append(sizes, mnist.NumClasses)

	cfg := nn.DefaultConfig(sizes...)
	cost, err := nn.ParseCost(costName)
	if err != nil {
		return nn.Config{}, err
	}
	cfg.Cost = cost
	cfg.Output = cost.OutputActivation()
	if output != "" {
		if cfg.Output, err = nn.ParseActivation(output); err != nil {
			return nn.Config{}, err
		}
	}

	switch strings.ToLower(initName) {
	case "uniform":
		cfg.Init = nn.Init{Scheme: nn.Uniform, Low: float32(low), High: float32(high)}
	case "xavier":
		cfg.Init = nn.Init{Scheme: nn.Xavier}
	default:
		return nn.Config{}, fmt.Errorf("%w: unknown init %q", nn.ErrInvalidConfig, initName)
	}
	if !zeroBias {
		cfg.Init.Bias = nn.BiasRandom
	}
	cfg.Lambda = float32(lambda)
	return cfg, cfg.Validate()
}
