package sprite

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/bodgit/rctobj/imagetable"
	"github.com/ericpauley/go-quantize/quantize"
)

const maxColors = 256

var errTooBig = errors.New("sprite: image is too big")

// Quantize returns a palette suitable for all of the passed images. Index 0
// is transparent followed by up to 255 colors picked by median cut.
func Quantize(images ...image.Image) color.Palette {
	// Stack the images on top of each other so one palette covers them all
	var w, h int
	for _, m := range images {
		b := m.Bounds()
		if b.Dx() > w {
			w = b.Dx()
		}
		h += b.Dy()
	}

	p := color.Palette{color.Transparent}
	if w == 0 || h == 0 {
		return p
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	y := 0
	for _, m := range images {
		b := m.Bounds()
		draw.Draw(canvas, image.Rect(0, y, b.Dx(), y+b.Dy()), m, b.Min, draw.Src)
		y += b.Dy()
	}

	q := quantize.MedianCutQuantizer{}
	return append(p, q.Quantize(make(color.Palette, 0, maxColors-1), canvas)...)
}

// Encode returns an uncompressed element and its pixels for m, mapping every
// pixel to the closest color in p. If p is nil a paletted image keeps its own
// indices, anything else is quantized first.
func Encode(m image.Image, p color.Palette) (imagetable.Element, []byte, error) {
	b := m.Bounds()
	if b.Dx() > math.MaxInt16 || b.Dy() > math.MaxInt16 {
		return imagetable.Element{}, nil, errTooBig
	}

	pm, _ := m.(*image.Paletted)
	if p != nil || pm == nil || len(pm.Palette) > maxColors {
		if p == nil {
			p = Quantize(m)
		}
		pm = image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), p)
		draw.Draw(pm, pm.Rect, m, b.Min, draw.Src)
	}

	pixels := make([]byte, 0, b.Dx()*b.Dy())
	for y := pm.Rect.Min.Y; y < pm.Rect.Max.Y; y++ {
		i := pm.PixOffset(pm.Rect.Min.X, y)
		pixels = append(pixels, pm.Pix[i:i+pm.Rect.Dx()]...)
	}

	return imagetable.Element{
		Width:  int16(b.Dx()),
		Height: int16(b.Dy()),
		Flags:  imagetable.FlagBMP,
	}, pixels, nil
}
