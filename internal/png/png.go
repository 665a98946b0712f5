// Package png writes RGB and RGBA images as uncompressed PNG files.
//
// Every scanline is stored as its own uncompressed DEFLATE block inside a
// single zlib stream, so no compressor is needed and all chunk lengths are
// known before the first byte is written.
package png

import (
	"io"

	"github.com/pkg/errors"
)

const (
	signature = "\x89PNG\r\n\x1a\n"

	// maxPitch is the largest row (filter byte included) a stored block
	// can hold.
	maxPitch = 0xffff

	// maxChunkLen is the largest chunk length PNG allows.
	maxChunkLen = 1<<31 - 1

	// Overhead of an empty IDAT payload: zlib header and Adler trailer.
	zlibOverhead = 2 + 4
	// Overhead of a stored block: BFINAL/BTYPE byte, LEN and NLEN.
	blockOverhead = 1 + 2 + 2
	// Overhead of a chunk: length, type and CRC.
	chunkOverhead = 4 + 4 + 4
	ihdrLen       = 13
)

var (
	// ErrInvalidDimensions is returned for non-positive dimensions and for
	// rows too wide to fit into a single stored block.
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	// ErrTooLarge is returned if the image data does not fit into a single
	// IDAT chunk.
	ErrTooLarge = errors.New("image too large")
	// ErrPixelLength is returned if the pixel buffer does not match the
	// dimensions.
	ErrPixelLength = errors.New("pixel buffer length does not match dimensions")
)

func channels(alpha bool) int {
	if alpha {
		return 4
	}
	return 3
}

func colorType(alpha bool) byte {
	if alpha {
		return 6 // truecolor with alpha
	}
	return 2 // truecolor
}

// pitch returns the number of bytes of a scanline, including its filter
// byte.
func pitch(width int, alpha bool) int {
	return width*channels(alpha) + 1
}

func idatLen(width, height int, alpha bool) int64 {
	return zlibOverhead + int64(height)*int64(blockOverhead+pitch(width, alpha))
}

// EncodedLen returns the size in bytes of the PNG file Encode produces for
// an image with the given dimensions.
func EncodedLen(width, height int, alpha bool) int64 {
	return int64(len(signature)) +
		chunkOverhead + ihdrLen +
		chunkOverhead + idatLen(width, height, alpha) +
		chunkOverhead
}

// CheckSize reports whether Encode accepts an image of the given
// dimensions.
func CheckSize(width, height int, alpha bool) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}
	if width > maxPitch || pitch(width, alpha) > maxPitch {
		return errors.Wrapf(ErrInvalidDimensions, "width %d exceeds stored block size", width)
	}
	if height > maxChunkLen || idatLen(width, height, alpha) > maxChunkLen {
		return errors.Wrapf(ErrTooLarge, "%dx%d", width, height)
	}
	return nil
}

func validate(width, height int, pix []byte, alpha bool) error {
	if err := CheckSize(width, height, alpha); err != nil {
		return err
	}
	if n := int64(width) * int64(height) * int64(channels(alpha)); int64(len(pix)) != n {
		return errors.Wrapf(ErrPixelLength, "got %d bytes, want %d", len(pix), n)
	}
	return nil
}

// Encode writes pix as a PNG to w. pix holds height rows of width pixels,
// top row first, each pixel being R, G, B and, if alpha is set, A.
//
// Encode issues only small writes; callers writing to a file should wrap
// it in a bufio.Writer.
func Encode(w io.Writer, width, height int, pix []byte, alpha bool) error {
	if err := validate(width, height, pix, alpha); err != nil {
		return err
	}
	e := newEncoder(w)
	e.writeHeader(width, height, alpha)
	e.writeIDAT(width, height, pix, alpha)
	e.writeIEND()
	return e.err
}

type encoder struct {
	w   io.Writer
	bw  io.ByteWriter
	err error
	buf [1]byte

	crc   uint32
	adler adler
}

func newEncoder(w io.Writer) *encoder {
	e := &encoder{w: w}
	e.bw, _ = w.(io.ByteWriter)
	return e
}

// put writes a single byte to the output. After the first error, put does
// nothing.
func (e *encoder) put(u byte) {
	if e.err != nil {
		return
	}
	if e.bw != nil {
		e.err = e.bw.WriteByte(u)
		return
	}
	e.buf[0] = u
	_, e.err = e.w.Write(e.buf[:])
}

func (e *encoder) putCRC(u byte) {
	e.put(u)
	e.crc = updateCRC(e.crc, u)
}

func (e *encoder) putCRCAdler(u byte) {
	e.putCRC(u)
	e.adler.update(u)
}

func (e *encoder) putBE32(u uint32) {
	e.put(byte(u >> 24))
	e.put(byte(u >> 16))
	e.put(byte(u >> 8))
	e.put(byte(u))
}

func (e *encoder) putBE32CRC(u uint32) {
	e.putCRC(byte(u >> 24))
	e.putCRC(byte(u >> 16))
	e.putCRC(byte(u >> 8))
	e.putCRC(byte(u))
}

func (e *encoder) putLE16CRC(u uint16) {
	e.putCRC(byte(u))
	e.putCRC(byte(u >> 8))
}

// begin starts a chunk of type typ with n bytes of data. The data has to be
// written with the CRC variants of put, followed by a call to end.
func (e *encoder) begin(typ string, n uint32) {
	if len(typ) != 4 {
		panic("len(typ) != 4")
	}
	e.putBE32(n)
	e.crc = ^uint32(0)
	for i := 0; i < len(typ); i++ {
		e.putCRC(typ[i])
	}
}

func (e *encoder) end() {
	e.putBE32(^e.crc)
}

func (e *encoder) writeHeader(width, height int, alpha bool) {
	for i := 0; i < len(signature); i++ {
		e.put(signature[i])
	}
	e.begin("IHDR", ihdrLen)
	e.putBE32CRC(uint32(width))
	e.putBE32CRC(uint32(height))
	e.putCRC(8) // bit-depth
	e.putCRC(colorType(alpha))
	e.putCRC(0) // compression-method
	e.putCRC(0) // filter-method
	e.putCRC(0) // interlace-method
	e.end()
}

func (e *encoder) writeIDAT(width, height int, pix []byte, alpha bool) {
	p := pitch(width, alpha)
	stride := p - 1

	e.begin("IDAT", uint32(idatLen(width, height, alpha)))

	// zlib-header: deflate, 32K window, no dictionary, fastest
	e.putCRC(0x78)
	e.putCRC(0x01)

	e.adler = newAdler()
	for y := 0; y < height; y++ {
		var final byte
		if y == height-1 {
			final = 1
		}
		e.putCRC(final)
		e.putLE16CRC(uint16(p))
		e.putLE16CRC(^uint16(p))

		e.putCRCAdler(0) // filter-type none
		for _, u := range pix[y*stride : (y+1)*stride] {
			e.putCRCAdler(u)
		}
		if e.err != nil {
			return
		}
	}

	// zlib-footer
	e.putBE32CRC(e.adler.sum())
	e.end()
}

func (e *encoder) writeIEND() {
	e.begin("IEND", 0)
	e.end()
}
