// Package pattern renders test images as packed RGB or RGBA bytes.
package pattern

import (
	"github.com/pkg/errors"

	"github.com/Merovius/svpng/internal/png"
)

// ErrUnknown is returned by New for names not in Names.
var ErrUnknown = errors.New("unknown pattern")

// Image is a generated image.
type Image struct {
	Width  int
	Height int
	Alpha  bool
	Pix    []byte
}

// Names lists the patterns known to New.
var Names = []string{"rgb", "rgba", "wallpaper"}

// New renders the named pattern. A zero width or height selects the
// pattern's default size. Sizes png.Encode would reject are rejected before
// anything is rendered.
func New(name string, width, height int) (*Image, error) {
	var (
		render func(width, height int) *Image
		alpha  = true
	)
	switch name {
	case "rgb":
		width, height = defaultSize(width, height, 256, 256)
		render, alpha = RGB, false
	case "rgba":
		width, height = defaultSize(width, height, 256, 256)
		render = RGBA
	case "wallpaper":
		width, height = defaultSize(width, height, 3840, 2160)
		render = Wallpaper
	default:
		return nil, errors.Wrapf(ErrUnknown, "%q", name)
	}
	if err := png.CheckSize(width, height, alpha); err != nil {
		return nil, err
	}
	return render(width, height), nil
}

func defaultSize(width, height, dw, dh int) (int, int) {
	if width == 0 {
		width = dw
	}
	if height == 0 {
		height = dh
	}
	return width, height
}

// RGB renders an opaque gradient: red grows to the right, green to the
// bottom.
func RGB(width, height int) *Image {
	im := &Image{Width: width, Height: height, Pix: make([]byte, 0, width*height*3)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			im.Pix = append(im.Pix, byte(x), byte(y), 128)
		}
	}
	return im
}

// RGBA renders the RGB gradient with alpha growing along the diagonal.
func RGBA(width, height int) *Image {
	im := &Image{Width: width, Height: height, Alpha: true, Pix: make([]byte, 0, width*height*4)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			im.Pix = append(im.Pix, byte(x), byte(y), 128, byte((x+y)/2))
		}
	}
	return im
}

// Wallpaper renders repeating diagonal color bands, meant for large sizes.
func Wallpaper(width, height int) *Image {
	im := &Image{Width: width, Height: height, Alpha: true, Pix: make([]byte, 0, width*height*4)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			im.Pix = append(im.Pix,
				byte(2*x+2*y),
				byte(3*x+5*y),
				byte(5*x+2*y),
				byte(x+y),
			)
		}
	}
	return im
}
