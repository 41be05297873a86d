package imagetable

import (
	"bytes"
	"io"
)

// Table is a loaded image table. It owns a single pixel buffer; elements only
// ever refer into it by offset.
//
// The zero value is an empty table ready to Read into. A Table is not safe for
// concurrent use while it is being read.
type Table struct {
	limits Limits

	entries []Element
	data    []byte
	ends    []uint32
}

// New returns an empty table.
func New(opts ...Option) *Table {
	t := new(Table)
	for _, o := range opts {
		o(t)
	}
	return t
}

// ReadTable reads a single image table from r.
func ReadTable(ctx ReadContext, r io.Reader, opts ...Option) (*Table, error) {
	t := New(opts...)
	if err := t.Read(ctx, r); err != nil {
		return nil, err
	}
	return t, nil
}

// Read replaces the contents of the table with the image table read from r,
// which must be positioned at the start of the table.
//
// Any problem is reported once to ctx, if it is not nil, and returned as a
// *FormatError. On failure the table keeps whatever it held before.
func (t *Table) Read(ctx ReadContext, r io.Reader) error {
	d := decoder{limits: t.limits}
	if err := d.decode(r); err != nil {
		return t.fail(ctx, err)
	}
	t.commit(&d)
	return nil
}

func (t *Table) fail(ctx ReadContext, err error) error {
	if ctx != nil {
		ctx.LogError(ErrBadImageTable, "Bad image table: "+err.Error())
	}
	return err
}

func (t *Table) commit(d *decoder) {
	t.entries, t.data, t.ends = d.entries, d.data, d.ends
}

// Count returns the number of images in the table.
func (t *Table) Count() int {
	return len(t.entries)
}

// Images returns the elements of the table, indexed by image number. The
// slice is shared with the table and must not be modified; it stays valid
// until the table is read into again or closed.
func (t *Table) Images() []Element {
	return t.entries
}

// Image returns the element for image i.
func (t *Table) Image(i int) (Element, bool) {
	if i < 0 || i >= len(t.entries) {
		return Element{}, false
	}
	return t.entries[i], true
}

// Pixels returns the pixel bytes of image i. The result aliases the table's
// buffer and is empty for an image positioned at the very end of it.
func (t *Table) Pixels(i int) []byte {
	if i < 0 || i >= len(t.entries) {
		return nil
	}
	start, end := t.entries[i].Offset, t.ends[i]
	return t.data[start:end:end]
}

// PixelData returns the whole pixel payload.
func (t *Table) PixelData() []byte {
	return t.data
}

// DataSize returns the size in bytes of the pixel payload.
func (t *Table) DataSize() int {
	return len(t.data)
}

// Close releases the pixel buffer and elements. Closing an empty table does
// nothing.
func (t *Table) Close() error {
	t.entries, t.data, t.ends = nil, nil, nil
	return nil
}

// UnmarshalBinary decodes an image table that must span all of b.
func (t *Table) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)
	d := decoder{limits: t.limits}
	if err := d.decode(r); err != nil {
		return err
	}
	if r.Len() > 0 {
		return formatError("table", errTooMuch)
	}
	t.commit(&d)
	return nil
}

// MarshalBinary encodes the table in the same form Read expects.
func (t *Table) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	b.Grow(headerSize + len(t.entries)*elementSize + len(t.data))
	if _, err := t.WriteTo(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
