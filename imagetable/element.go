package imagetable

import (
	"encoding/binary"
	"strings"
)

const (
	headerSize  = 8
	elementSize = 18
)

// Flags selects how the pixels of an image are encoded and drawn. The table
// itself never interprets them.
type Flags uint32

// Flag bits understood by the renderer.
const (
	FlagBMP        Flags = 1 << iota // Raw width*height palette indices
	Flag1                            // Unused by the loader, kept for round trips
	FlagRLE                          // Run-length encoded rows
	FlagPalette                      // Image is a palette, not a sprite
	FlagHasZoom                      // ZoomedOffset refers to a smaller sprite
	FlagNoZoomDraw                   // Do not draw when zoomed out
)

var flagNames = []string{"bmp", "1", "rle", "palette", "zoom", "nozoomdraw"}

func (f Flags) String() string {
	var s []string
	for i, n := range flagNames {
		if f&(1<<uint(i)) != 0 {
			s = append(s, n)
		}
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "|")
}

// Element describes a single image in the table.
type Element struct {
	// Offset of the first pixel byte, relative to the start of the
	// payload.
	Offset       uint32
	Width        int16
	Height       int16
	Flags        Flags
	XOffset      int16
	YOffset      int16
	ZoomedOffset int16
}

func (e *Element) unmarshal(b []byte) {
	e.Offset = binary.LittleEndian.Uint32(b[0:])
	e.Width = int16(binary.LittleEndian.Uint16(b[4:]))
	e.Height = int16(binary.LittleEndian.Uint16(b[6:]))
	e.Flags = Flags(binary.LittleEndian.Uint32(b[8:]))
	e.XOffset = int16(binary.LittleEndian.Uint16(b[12:]))
	e.YOffset = int16(binary.LittleEndian.Uint16(b[14:]))
	e.ZoomedOffset = int16(binary.LittleEndian.Uint16(b[16:]))
}

func (e *Element) marshal(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], e.Offset)
	binary.LittleEndian.PutUint16(b[4:], uint16(e.Width))
	binary.LittleEndian.PutUint16(b[6:], uint16(e.Height))
	binary.LittleEndian.PutUint32(b[8:], uint32(e.Flags))
	binary.LittleEndian.PutUint16(b[12:], uint16(e.XOffset))
	binary.LittleEndian.PutUint16(b[14:], uint16(e.YOffset))
	binary.LittleEndian.PutUint16(b[16:], uint16(e.ZoomedOffset))
}
