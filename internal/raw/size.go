// Package raw gives access to headerless RGB and RGBA pixel files, such as
// dumps of a framebuffer or the output of "ffmpeg -f rawvideo".
package raw

import (
	"math"

	"github.com/pkg/errors"
)

// ErrDimensions is returned for dimensions no file can have.
var ErrDimensions = errors.New("invalid dimensions")

// Size returns the size in bytes of a raw image of the given dimensions.
func Size(width, height int, alpha bool) (int64, error) {
	if width <= 0 || height <= 0 {
		return 0, errors.Wrapf(ErrDimensions, "%dx%d", width, height)
	}
	bpp := int64(3)
	if alpha {
		bpp = 4
	}
	if int64(width) > math.MaxInt32 || int64(height) > math.MaxInt32/(int64(width)*bpp) {
		return 0, errors.Wrapf(ErrDimensions, "%dx%d", width, height)
	}
	return int64(width) * int64(height) * bpp, nil
}
