package mnist

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idxImageBytes encodes count images of rows x cols, pixel k of image i set
// to byte(i+k).
func idxImageBytes(t *testing.T, magic uint32, count, rows, cols int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, [4]uint32{magic, uint32(count), uint32(rows), uint32(cols)}))
	for i := 0; i < count; i++ {
		for k := 0; k < rows*cols; k++ {
			buf.WriteByte(byte(i + k))
		}
	}
	return buf.Bytes()
}

func idxLabelBytes(t *testing.T, magic uint32, labels ...byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, [2]uint32{magic, uint32(len(labels))}))
	buf.Write(labels)
	return buf.Bytes()
}

// idxHeader encodes big-endian header words with no body.
func idxHeader(t *testing.T, words ...uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, words))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	images := idxImageBytes(t, imageMagic, 3, ImageWidth, ImageWidth)
	labels := idxLabelBytes(t, labelMagic, 7, 0, 9)

	examples, err := Decode(images, labels, 0)
	require.NoError(t, err)
	require.Len(t, examples, 3)

	for i, want := range []int{7, 0, 9} {
		ex := examples[i]
		require.Len(t, ex.Features, ImageSize)
		require.Len(t, ex.Label, NumClasses)
		for k, v := range ex.Label {
			if k == want {
				assert.Equal(t, float32(1), v)
			} else {
				assert.Zero(t, v)
			}
		}
		assert.InDelta(t, float32(byte(i))/255, ex.Features[0], 1e-7)
		assert.InDelta(t, float32(byte(i+300))/255, ex.Features[300], 1e-7)
	}
}

func TestDecode_PixelRange(t *testing.T) {
	examples, err := Decode(idxImageBytes(t, imageMagic, 2, ImageWidth, ImageWidth), idxLabelBytes(t, labelMagic, 1, 2), 0)
	require.NoError(t, err)
	for _, ex := range examples {
		for _, v := range ex.Features {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
		}
	}
	assert.Equal(t, float32(1), pixelScale[255])
	assert.Zero(t, pixelScale[0])
}

func TestDecode_MaxSamples(t *testing.T) {
	examples, err := Decode(idxImageBytes(t, imageMagic, 5, ImageWidth, ImageWidth), idxLabelBytes(t, labelMagic, 1, 2, 3, 4, 5), 2)
	require.NoError(t, err)
	assert.Len(t, examples, 2)
}

func TestDecode_Errors(t *testing.T) {
	goodImages := idxImageBytes(t, imageMagic, 2, ImageWidth, ImageWidth)
	goodLabels := idxLabelBytes(t, labelMagic, 1, 2)

	tests := []struct {
		name   string
		images []byte
		labels []byte
		target error
	}{
		{"image magic", idxImageBytes(t, labelMagic, 2, ImageWidth, ImageWidth), goodLabels, ErrBadMagic},
		{"label magic", goodImages, idxLabelBytes(t, imageMagic, 1, 2), ErrBadMagic},
		{"count mismatch", goodImages, idxLabelBytes(t, labelMagic, 1, 2, 3), ErrCountMismatch},
		{"dimensions", idxImageBytes(t, imageMagic, 2, 14, 14), goodLabels, ErrBadDimensions},
		{"huge dimensions header only", idxHeader(t, imageMagic, 60000, 4096, 4096), idxLabelBytes(t, labelMagic, 1), ErrBadDimensions},
		{"max header only", idxHeader(t, imageMagic, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF), idxLabelBytes(t, labelMagic, 1), ErrBadDimensions},
		{"huge count mismatch", idxHeader(t, imageMagic, 0xFFFFFFFF, ImageWidth, ImageWidth), goodLabels, ErrCountMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.images, tt.labels, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(goodImages[:len(goodImages)-10], goodLabels, 0)
		assert.Error(t, err)
	})
	t.Run("huge count without body", func(t *testing.T) {
		_, err := Decode(idxHeader(t, imageMagic, 0xFFFFFFFF, ImageWidth, ImageWidth), idxHeader(t, labelMagic, 0xFFFFFFFF), 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, io.EOF), "got %v", err)
	})
	t.Run("huge count with max samples", func(t *testing.T) {
		images := append(idxHeader(t, imageMagic, 0xFFFFFFFF, ImageWidth, ImageWidth), make([]byte, ImageSize)...)
		labels := append(idxHeader(t, labelMagic, 0xFFFFFFFF), 3)
		examples, err := Decode(images, labels, 1)
		require.NoError(t, err)
		require.Len(t, examples, 1)
		assert.Equal(t, float32(1), examples[0].Label[3])
	})
	t.Run("label out of range", func(t *testing.T) {
		_, err := Decode(goodImages, idxLabelBytes(t, labelMagic, 1, 12), 0)
		assert.Error(t, err)
	})
}

func TestOneHot(t *testing.T) {
	v := OneHot(3, 5)
	assert.Equal(t, []float32{0, 0, 0, 1, 0}, []float32(v))
	assert.Panics(t, func() { OneHot(5, 5) })
	assert.Panics(t, func() { OneHot(-1, 5) })
}

func TestSynthetic(t *testing.T) {
	examples := Synthetic(25, rand.New(rand.NewSource(1)))
	require.Len(t, examples, 25)
	for i, ex := range examples {
		require.Len(t, ex.Features, ImageSize)
		assert.Equal(t, float32(1), ex.Label[i%NumClasses])
	}

	// Without noise the pattern for digit d starts at row 2d.
	clean := Synthetic(NumClasses, nil)
	for d, ex := range clean {
		assert.Equal(t, float32(0.8), ex.Features[(2*d)*ImageWidth+5])
		assert.Zero(t, ex.Features[(2*d)*ImageWidth+4])
	}
}

func TestSplit(t *testing.T) {
	examples := Synthetic(20, nil)
	train, test := Split(examples, 0.25, rand.New(rand.NewSource(2)))
	assert.Len(t, train, 15)
	assert.Len(t, test, 5)

	// Input order is untouched.
	assert.Equal(t, float32(1), examples[0].Label[0])
}

// writeDataset stores the four raw files with n entries each in dir.
func writeDataset(t *testing.T, dir string, n int) map[string][]byte {
	t.Helper()
	labels := make([]byte, n)
	for i := range labels {
		labels[i] = byte(i % NumClasses)
	}
	files := map[string][]byte{
		TrainImagesFile: idxImageBytes(t, imageMagic, n, ImageWidth, ImageWidth),
		TrainLabelsFile: idxLabelBytes(t, labelMagic, labels...),
		TestImagesFile:  idxImageBytes(t, imageMagic, n, ImageWidth, ImageWidth),
		TestLabelsFile:  idxLabelBytes(t, labelMagic, labels...),
	}
	if dir != "" {
		for name, data := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
		}
	}
	return files
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, 6)

	train, test, err := Load(context.Background(), dir, 0, 4)
	require.NoError(t, err)
	assert.Len(t, train, 6)
	assert.Len(t, test, 4)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, 3)
	require.NoError(t, os.Remove(filepath.Join(dir, TestLabelsFile)))

	_, _, err := Load(context.Background(), dir, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetcher_Prepare(t *testing.T) {
	raw := writeDataset(t, "", 4)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/mnist/"), ".gz")
		data, ok := raw[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(gzipBytes(t, data))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(dir)
	f.BaseURL = srv.URL + "/mnist/"
	f.Client = srv.Client()

	require.NoError(t, f.Prepare(context.Background()))
	assert.Equal(t, int32(4), hits.Load())

	for name, want := range raw {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	// Second run finds everything on disk.
	require.NoError(t, f.Prepare(context.Background()))
	assert.Equal(t, int32(4), hits.Load())

	f.Overwrite = true
	require.NoError(t, f.Prepare(context.Background()))
	assert.Equal(t, int32(8), hits.Load())

	train, test, err := Load(context.Background(), dir, 0, 0)
	require.NoError(t, err)
	assert.Len(t, train, 4)
	assert.Len(t, test, 4)
}

func TestFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(dir)
	f.BaseURL = srv.URL + "/"
	f.Client = srv.Client()

	err := f.Download(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	// No partial files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetcher_BadArchive(t *testing.T) {
	dir := t.TempDir()
	for _, name := range Files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".gz"), []byte("not gzip"), 0o600))
	}
	err := NewFetcher(dir).Extract(context.Background())
	assert.Error(t, err)
}
