/*
Package sprite converts between the pixel data held in an image table and
image.Image.

Two encodings are understood. A BMP image is width*height palette indices
stored row by row. An RLE image starts with one 16-bit offset per row,
relative to the start of the image, pointing at a list of segments; each
segment is a length byte with the top bit marking the last segment of the row,
an x position byte, and length palette indices. Palette index 0 is never
drawn and so is treated as transparent.
*/
package sprite

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/rctobj/imagetable"
)

var (
	// ErrUnsupported is returned for images that are neither BMP nor RLE
	// encoded.
	ErrUnsupported = errors.New("sprite: unsupported image encoding")

	errNotEnough = errors.New("sprite: not enough pixel data")
	errBadSize   = errors.New("sprite: invalid image size")
	errBadRow    = errors.New("sprite: segment outside of row")
)

const lastSegment = 0x80

// Decode returns image el, whose pixels are as returned by the table, as a
// paletted image using palette p. A nil palette selects Grayscale.
func Decode(el imagetable.Element, pixels []byte, p color.Palette) (*image.Paletted, error) {
	if el.Width < 0 || el.Height < 0 {
		return nil, errBadSize
	}

	// Sizes come from the file, check there is enough data before allocating
	w, h := int(el.Width), int(el.Height)
	var decode func(*image.Paletted, []byte) error
	switch {
	case el.Flags&imagetable.FlagBMP != 0:
		if len(pixels) < w*h {
			return nil, errNotEnough
		}
		decode = decodeBMP
	case el.Flags&imagetable.FlagRLE != 0:
		if len(pixels) < 2*h {
			return nil, errNotEnough
		}
		decode = decodeRLE
	default:
		return nil, ErrUnsupported
	}

	if p == nil {
		p = Grayscale()
	}

	m := image.NewPaletted(image.Rect(0, 0, w, h), p)
	if err := decode(m, pixels); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeBMP(m *image.Paletted, pixels []byte) error {
	if len(pixels) < len(m.Pix) {
		return errNotEnough
	}
	copy(m.Pix, pixels)
	return nil
}

func decodeRLE(m *image.Paletted, pixels []byte) error {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if len(pixels) < h*2 {
		return errNotEnough
	}

	for y := 0; y < h; y++ {
		i := int(binary.LittleEndian.Uint16(pixels[y*2:]))
		for {
			if i+2 > len(pixels) {
				return errNotEnough
			}
			n := int(pixels[i] &^ lastSegment)
			last := pixels[i]&lastSegment != 0
			x := int(pixels[i+1])
			i += 2

			if i+n > len(pixels) {
				return errNotEnough
			}
			if x+n > w {
				return errBadRow
			}
			copy(m.Pix[y*m.Stride+x:], pixels[i:i+n])
			i += n

			if last {
				break
			}
		}
	}
	return nil
}

// Grayscale returns a 256 entry palette ramping from black to white with
// index 0 transparent.
func Grayscale() color.Palette {
	p := make(color.Palette, 256)
	p[0] = color.Transparent
	for i := 1; i < len(p); i++ {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}
