package mnist

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// IDX magic numbers for the two MNIST file kinds.
const (
	imageMagic = 2051 // 0x00000803: unsigned bytes, 3 dimensions
	labelMagic = 2049 // 0x00000801: unsigned bytes, 1 dimension
)

var (
	// ErrBadMagic is returned when a file does not start with the expected
	// IDX magic number.
	ErrBadMagic = errors.New("mnist: bad IDX magic number")

	// ErrCountMismatch is returned when the image and label files disagree
	// on the number of entries.
	ErrCountMismatch = errors.New("mnist: image and label counts differ")

	// ErrBadDimensions is returned when images are not ImageWidth x ImageWidth.
	ErrBadDimensions = errors.New("mnist: unexpected image dimensions")
)

// imageHeader is the header of an IDX image file.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
type imageHeader struct {
	count int
	rows  int
	cols  int
}

// readImageHeader decodes and checks an IDX image header. Nothing past the
// header is read, so a hostile count or size costs no memory.
func readImageHeader(r io.Reader) (imageHeader, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return imageHeader{}, errors.Wrap(err, "read image header")
	}
	if header[0] != imageMagic {
		return imageHeader{}, errors.Wrapf(ErrBadMagic, "image file: got %d, want %d", header[0], imageMagic)
	}
	if header[2] != ImageWidth || header[3] != ImageWidth {
		return imageHeader{}, errors.Wrapf(ErrBadDimensions, "got %dx%d, want %dx%d",
			header[2], header[3], ImageWidth, ImageWidth)
	}
	return imageHeader{count: int(header[1]), rows: ImageWidth, cols: ImageWidth}, nil
}

// readLabelHeader decodes an IDX label header and returns the label count.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func readLabelHeader(r io.Reader) (int, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return 0, errors.Wrap(err, "read label header")
	}
	if header[0] != labelMagic {
		return 0, errors.Wrapf(ErrBadMagic, "label file: got %d, want %d", header[0], labelMagic)
	}
	return int(header[1]), nil
}

// readLabels reads n label bytes. The buffer grows with the data actually
// present, so a truncated file fails without allocating n up front.
func readLabels(r io.Reader, n int) ([]byte, error) {
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r, int64(n))
	if err != nil {
		return nil, errors.Wrapf(err, "read labels: got %d of %d", got, n)
	}
	return buf.Bytes(), nil
}

// imageReader yields one image at a time from an IDX image body.
type imageReader struct {
	r     *bufio.Reader
	pixel []byte
}

func newImageReader(r *bufio.Reader, h imageHeader) *imageReader {
	return &imageReader{r: r, pixel: make([]byte, h.rows*h.cols)}
}

// next returns the pixels of the next image. The slice is reused by the
// following call.
func (ir *imageReader) next() ([]byte, error) {
	if _, err := io.ReadFull(ir.r, ir.pixel); err != nil {
		return nil, err
	}
	return ir.pixel, nil
}
