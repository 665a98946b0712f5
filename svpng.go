// Copyright 2018 Axel Wagner
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command svpng writes uncompressed PNG files from raw pixel data, test
// patterns or other images.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Merovius/svpng/internal/pattern"
	"github.com/Merovius/svpng/internal/png"
	"github.com/Merovius/svpng/internal/raw"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/webp"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("svpng: ")
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("svpng", flag.ContinueOnError)
	out := fs.String("out", "", "PNG file to write")
	pat := fs.String("pattern", "", "Render a test pattern ("+strings.Join(pattern.Names, ", ")+")")
	rawFile := fs.String("raw", "", "Read raw pixels from the given file")
	width := fs.Int("width", 0, "Image width")
	height := fs.Int("height", 0, "Image height")
	alpha := fs.Bool("alpha", false, "Raw pixels are RGBA instead of RGB")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return errors.New("usage: svpng -out <file> [<flags>] [<image>]")
	}
	if *out == "" {
		return errors.New("-out is required")
	}

	n := 0
	for _, set := range []bool{*pat != "", *rawFile != "", fs.NArg() == 1} {
		if set {
			n++
		}
	}
	if n != 1 {
		return errors.New("exactly one of -pattern, -raw or an input image is required")
	}

	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })
	if *rawFile == "" && given["alpha"] {
		return errors.New("-alpha is only valid with -raw")
	}
	if fs.NArg() == 1 && (given["width"] || given["height"]) {
		return errors.New("-width and -height are not valid with an input image")
	}

	var (
		w, h int
		a    bool
		pix  []byte
	)
	switch {
	case *pat != "":
		im, err := pattern.New(*pat, *width, *height)
		if err != nil {
			return err
		}
		w, h, a, pix = im.Width, im.Height, im.Alpha, im.Pix
	case *rawFile != "":
		im, err := raw.Open(*rawFile, *width, *height, *alpha)
		if err != nil {
			return err
		}
		defer im.Close()
		w, h, a, pix = im.Width, im.Height, im.Alpha, im.Pix
	default:
		var err error
		if w, h, a, pix, err = load(fs.Arg(0)); err != nil {
			return err
		}
	}

	if err := png.EncodeFile(*out, w, h, pix, a); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "svpng: image saved in file %q (%s)\n", *out, humanize.Bytes(uint64(png.EncodedLen(w, h, a))))
	return nil
}

// load decodes the image file at path into packed pixels. The alpha channel
// is dropped if the image is fully opaque.
func load(path string) (width, height int, alpha bool, pix []byte, err error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, false, nil, err
	}
	im := imaging.Clone(src)
	width, height = im.Rect.Dx(), im.Rect.Dy()
	if !im.Opaque() {
		return width, height, true, im.Pix, nil
	}
	return width, height, false, stripAlpha(im), nil
}

func stripAlpha(im *image.NRGBA) []byte {
	pix := make([]byte, 0, len(im.Pix)/4*3)
	for i := 0; i < len(im.Pix); i += 4 {
		pix = append(pix, im.Pix[i:i+3]...)
	}
	return pix
}
