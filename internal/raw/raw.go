//go:build unix

package raw

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ErrSize is returned if the file size does not match the dimensions.
var ErrSize = errors.New("file size does not match dimensions")

// Image is a read-only memory mapping of a raw pixel file.
type Image struct {
	Width  int
	Height int
	Alpha  bool
	// Pix holds the pixels, top row first, in R, G, B[, A] order. It must
	// not be modified and is invalid after Close.
	Pix []byte
}

// Open maps the file at path, which has to contain exactly width*height
// pixels of 3 (or, if alpha is set, 4) bytes each.
func Open(path string, width, height int, alpha bool) (*Image, error) {
	size, err := Size(width, height, alpha)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if st.Size != size {
		return nil, errors.Wrapf(ErrSize, "%s has %d bytes, want %d for %dx%d", path, st.Size, size, width, height)
	}

	pix, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %s", path)
	}
	return &Image{Width: width, Height: height, Alpha: alpha, Pix: pix}, nil
}

// Close unmaps the image.
func (im *Image) Close() error {
	if im.Pix == nil {
		return nil
	}
	err := unix.Munmap(im.Pix)
	im.Pix = nil
	return err
}
