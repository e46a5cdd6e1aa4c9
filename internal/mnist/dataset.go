// Package mnist fetches, decodes and prepares the MNIST handwritten digit
// dataset as labelled examples for the nn package.
package mnist

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// Dataset geometry.
const (
	ImageWidth = 28
	ImageSize  = ImageWidth * ImageWidth
	NumClasses = 10
)

// Raw (decompressed) file names.
const (
	TrainImagesFile = "train-images-idx3-ubyte"
	TrainLabelsFile = "train-labels-idx1-ubyte"
	TestImagesFile  = "t10k-images-idx3-ubyte"
	TestLabelsFile  = "t10k-labels-idx1-ubyte"
)

// Files lists the four raw file names in download order.
var Files = []string{TrainImagesFile, TrainLabelsFile, TestImagesFile, TestLabelsFile}

// pixelScale maps a byte intensity to [0, 1].
var pixelScale = func() [256]float32 {
	var t [256]float32
	for i := range t {
		t[i] = float32(i) / 255
	}
	return t
}()

// OneHot returns a vector of the given width with a 1 at index label.
func OneHot(label, width int) tensor.Vector {
	if label < 0 || label >= width {
		panic(errors.Errorf("mnist: label %d out of range [0, %d)", label, width))
	}
	v := tensor.NewVector(width)
	v[label] = 1
	return v
}

// Decode pairs an image file with a label file and converts them into
// examples. maxSamples <= 0 keeps every entry.
func Decode(images, labels []byte, maxSamples int) ([]nn.Example, error) {
	return decode(bytes.NewReader(images), bytes.NewReader(labels), maxSamples)
}

// LoadSet reads one split from dir. train selects the 60k training files,
// otherwise the 10k test files are read.
func LoadSet(dir string, train bool, maxSamples int) ([]nn.Example, error) {
	imageFile, labelFile := TestImagesFile, TestLabelsFile
	if train {
		imageFile, labelFile = TrainImagesFile, TrainLabelsFile
	}

	imgF, err := os.Open(filepath.Join(dir, imageFile))
	if err != nil {
		return nil, errors.Wrap(err, "open images")
	}
	defer imgF.Close()

	lblF, err := os.Open(filepath.Join(dir, labelFile))
	if err != nil {
		return nil, errors.Wrap(err, "open labels")
	}
	defer lblF.Close()

	examples, err := decode(imgF, lblF, maxSamples)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", imageFile)
	}
	return examples, nil
}

// Load reads the training and test splits from dir concurrently.
func Load(ctx context.Context, dir string, maxTrain, maxTest int) (train, test []nn.Example, err error) {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		train, err = LoadSet(dir, true, maxTrain)
		return err
	})
	g.Go(func() error {
		var err error
		test, err = LoadSet(dir, false, maxTest)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// decode validates both headers before reading any body, then streams the
// images one at a time. Allocation is bounded by the bytes actually present.
func decode(imageR, labelR io.Reader, maxSamples int) ([]nn.Example, error) {
	imgBuf, lblBuf := bufio.NewReader(imageR), bufio.NewReader(labelR)

	header, err := readImageHeader(imgBuf)
	if err != nil {
		return nil, err
	}
	labelCount, err := readLabelHeader(lblBuf)
	if err != nil {
		return nil, err
	}
	if labelCount != header.count {
		return nil, errors.Wrapf(ErrCountMismatch, "%d images, %d labels", header.count, labelCount)
	}

	n := header.count
	if maxSamples > 0 && n > maxSamples {
		n = maxSamples
	}

	labels, err := readLabels(lblBuf, n)
	if err != nil {
		return nil, err
	}

	images := newImageReader(imgBuf, header)
	examples := make([]nn.Example, 0, len(labels))
	for i, label := range labels {
		if int(label) >= NumClasses {
			return nil, errors.Errorf("mnist: label %d at index %d out of range", label, i)
		}
		pixels, err := images.next()
		if err != nil {
			return nil, errors.Wrapf(err, "read image %d of %d", i, n)
		}
		features := tensor.NewVector(ImageSize)
		for j, px := range pixels {
			features[j] = pixelScale[px]
		}
		examples = append(examples, nn.Example{
			Label:    OneHot(int(label), NumClasses),
			Features: features,
		})
	}
	return examples, nil
}

// Synthetic builds a small MNIST-shaped dataset of n samples for exercising
// the pipeline without network access. Each digit d is a bright horizontal
// band starting at row 2d; noise in [0, 0.2) is added from rng.
func Synthetic(n int, rng *rand.Rand) []nn.Example {
	examples := make([]nn.Example, n)
	for i := range examples {
		digit := i % NumClasses
		features := tensor.NewVector(ImageSize)
		startRow := digit * 2
		for row := startRow; row < startRow+8 && row < ImageWidth; row++ {
			for col := 5; col < 23; col++ {
				features[row*ImageWidth+col] = 0.8
			}
		}
		if rng != nil {
			for j := range features {
				features[j] += 0.2 * rng.Float32() //nolint:gosec // G404: noise only
			}
		}
		examples[i] = nn.Example{
			Label:    OneHot(digit, NumClasses),
			Features: features,
		}
	}
	return examples
}

// Split shuffles a copy of examples with rng and splits off the last
// fraction as a held-out set.
func Split(examples []nn.Example, fraction float64, rng *rand.Rand) (train, test []nn.Example) {
	shuffled := make([]nn.Example, len(examples))
	copy(shuffled, examples)
	if rng != nil {
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	}
	cut := len(shuffled) - int(float64(len(shuffled))*fraction)
	if cut < 0 {
		cut = 0
	}
	return shuffled[:cut], shuffled[cut:]
}
