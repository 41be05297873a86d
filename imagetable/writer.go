package imagetable

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var errBuilderFull = errors.New("imagetable: pixel data would exceed 4 GiB")

// WriteTo writes the table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var n int64
	var tmp [elementSize]byte

	binary.LittleEndian.PutUint32(tmp[0:], uint32(len(t.entries)))
	binary.LittleEndian.PutUint32(tmp[4:], uint32(len(t.data)))
	c, err := w.Write(tmp[:headerSize])
	n += int64(c)
	if err != nil {
		return n, err
	}

	for i := range t.entries {
		t.entries[i].marshal(tmp[:])
		c, err := w.Write(tmp[:])
		n += int64(c)
		if err != nil {
			return n, err
		}
	}

	c, err = w.Write(t.data)
	n += int64(c)
	return n, err
}

// Builder assembles a new table one image at a time.
type Builder struct {
	entries []Element
	data    []byte
}

// Add appends an image and returns its index. The Offset field of el is
// ignored and replaced with the position of pixels in the payload.
func (b *Builder) Add(el Element, pixels []byte) (int, error) {
	if uint64(len(b.data))+uint64(len(pixels)) > math.MaxUint32 {
		return 0, errBuilderFull
	}
	el.Offset = uint32(len(b.data))
	b.entries = append(b.entries, el)
	b.data = append(b.data, pixels...)
	return len(b.entries) - 1, nil
}

// Len returns the number of images added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Table returns a table holding a copy of everything added so far.
func (b *Builder) Table() *Table {
	entries := append([]Element(nil), b.entries...)
	data := append([]byte(nil), b.data...)
	return &Table{
		entries: entries,
		data:    data,
		ends:    spanEnds(entries, uint32(len(data))),
	}
}
