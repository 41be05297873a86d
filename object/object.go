/*
Package object reads legacy object definitions.

An object file starts with a 16 byte entry naming the object, followed by a
single chunk holding the object data. The data begins with a fixed header
specific to the object type and one or more string tables, and ends with the
image table holding all of the object's sprites.

Only the parts needed to reach and load the image table are interpreted; the
rest is kept verbatim so the object can be written back out.
*/
package object

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/bodgit/rctobj/imagetable"
	"github.com/bodgit/rctobj/sawyer"
	"github.com/pkg/errors"
)

// Definition is a loaded object.
type Definition struct {
	Entry    Entry
	Encoding sawyer.Encoding

	// SceneryGroup is the group the object is listed under, for types
	// that have one.
	SceneryGroup *Entry

	Images *imagetable.Table

	preamble    []byte
	diagnostics []Diagnostic
}

// Read loads an object from r. Problems that do not stop the image table
// from being loaded, such as a checksum mismatch, are logged and kept as
// diagnostics. logger may be nil.
func Read(r io.Reader, logger *log.Logger, opts ...imagetable.Option) (*Definition, error) {
	entry, err := ReadEntry(r)
	if err != nil {
		return nil, errors.Wrap(err, "object: reading entry")
	}
	id := entry.Identifier()
	ctx := newReadContext(id, logger)

	chunk, err := sawyer.ReadChunk(r)
	if err != nil {
		ctx.LogError(imagetable.ErrBadEncoding, "Unable to decode object data: "+err.Error())
		return nil, errors.Wrapf(err, "object %q", id)
	}

	if sum := entry.Sum(chunk.Data); sum != entry.Checksum {
		ctx.LogWarning(imagetable.ErrInvalidProperty, fmt.Sprintf("Checksum mismatch: got %08X, want %08X", sum, entry.Checksum))
	}

	l, ok := layouts[entry.Type()]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedType, "object %q is %s", id, entry.Type())
	}

	br := bytes.NewReader(chunk.Data)
	group, err := l.preamble(ctx, br)
	if err != nil {
		return nil, errors.Wrapf(err, "object %q", id)
	}
	preamble := chunk.Data[:len(chunk.Data)-br.Len()]

	images := imagetable.New(opts...)
	if l.images {
		if err := images.Read(ctx, br); err != nil {
			return nil, errors.Wrapf(err, "object %q", id)
		}
	}

	if n := br.Len(); n > 0 {
		if l.images {
			ctx.LogWarning(imagetable.ErrBadImageTable, fmt.Sprintf("Image table size longer than expected: %d bytes left over", n))
		} else {
			ctx.LogWarning(imagetable.ErrInvalidProperty, fmt.Sprintf("Object data longer than expected: %d bytes left over", n))
		}
	}

	return &Definition{
		Entry:        entry,
		Encoding:     chunk.Encoding,
		SceneryGroup: group,
		Images:       images,
		preamble:     preamble,
		diagnostics:  ctx.diagnostics,
	}, nil
}

// Diagnostics returns the warnings raised while the object was read.
func (d *Definition) Diagnostics() []Diagnostic {
	return d.diagnostics
}

// Data returns the decoded object data as it would be written.
func (d *Definition) Data() ([]byte, error) {
	b := bytes.NewBuffer(append([]byte(nil), d.preamble...))
	if layouts[d.Entry.Type()].images {
		if _, err := d.Images.WriteTo(b); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

// WriteTo writes the object to w, recomputing the checksum.
func (d *Definition) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Data()
	if err != nil {
		return 0, err
	}

	entry := d.Entry
	entry.Checksum = entry.Sum(data)

	n, err := entry.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := (&sawyer.Chunk{Encoding: d.Encoding, Data: data}).WriteTo(w)
	return n + m, err
}

// Close releases the image table.
func (d *Definition) Close() error {
	return d.Images.Close()
}

// New returns an object of type t called name whose data is preamble
// followed by images. It is mostly useful for building test fixtures and new
// objects from scratch.
func New(t Type, name string, enc sawyer.Encoding, preamble []byte, images *imagetable.Table) *Definition {
	if images == nil {
		images = imagetable.New()
	}
	return &Definition{
		Entry:    NewEntry(t, name),
		Encoding: enc,
		Images:   images,
		preamble: append([]byte(nil), preamble...),
	}
}
