//go:build !unix

package raw

import (
	"os"

	"github.com/pkg/errors"
)

// ErrSize is returned if the file size does not match the dimensions.
var ErrSize = errors.New("file size does not match dimensions")

// Image holds the content of a raw pixel file.
type Image struct {
	Width  int
	Height int
	Alpha  bool
	// Pix holds the pixels, top row first, in R, G, B[, A] order.
	Pix []byte
}

// Open reads the file at path, which has to contain exactly width*height
// pixels of 3 (or, if alpha is set, 4) bytes each.
func Open(path string, width, height int, alpha bool) (*Image, error) {
	size, err := Size(width, height, alpha)
	if err != nil {
		return nil, err
	}
	pix, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if int64(len(pix)) != size {
		return nil, errors.Wrapf(ErrSize, "%s has %d bytes, want %d for %dx%d", path, len(pix), size, width, height)
	}
	return &Image{Width: width, Height: height, Alpha: alpha, Pix: pix}, nil
}

// Close releases the image.
func (im *Image) Close() error {
	im.Pix = nil
	return nil
}
