package sprite

import (
	"encoding/binary"
	"image/color"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/riff"
)

var (
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const (
	palVersion    = 3
	maxPaletteLen = 4 + 4*math.MaxUint16
)

// LoadPalette reads the first palette from a RIFF PAL file. Index 0 is
// replaced with transparent to match how images are drawn.
func LoadPalette(r io.Reader) (color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "sprite: could not open RIFF stream")
	}
	if formType != palType {
		return nil, errors.Errorf("sprite: unsupported RIFF content type %q", string(formType[:]))
	}

	for {
		id, size, data, err := rd.Next()
		if err == io.EOF {
			return nil, errors.New("sprite: no palette in RIFF stream")
		}
		if err != nil {
			return nil, errors.Wrap(err, "sprite: could not read chunk")
		}
		if id != dataType {
			continue
		}
		if size > maxPaletteLen {
			return nil, errors.Errorf("sprite: palette chunk too large: %d bytes", size)
		}

		b := make([]byte, size)
		if _, err := io.ReadFull(data, b); err != nil {
			return nil, errors.Wrap(err, "sprite: could not read palette chunk")
		}
		return parsePalette(b)
	}
}

func parsePalette(b []byte) (color.Palette, error) {
	if len(b) < 4 {
		return nil, errors.New("sprite: palette chunk too short")
	}
	if ver := binary.BigEndian.Uint16(b); ver != palVersion {
		return nil, errors.Errorf("sprite: unsupported palette version %d", ver)
	}

	count := int(binary.LittleEndian.Uint16(b[2:]))
	if len(b) < 4+count*4 {
		return nil, errors.Errorf("sprite: palette chunk holds fewer than %d colors", count)
	}

	p := make(color.Palette, count)
	for i := range p {
		c := b[4+i*4:]
		p[i] = color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
	}
	if count > 0 {
		p[0] = color.Transparent
	}
	return p, nil
}
