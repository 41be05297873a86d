package object

import (
	"bytes"
	"io"

	"github.com/bodgit/rctobj/imagetable"
	"github.com/pkg/errors"
)

const stringTableEnd = 0xFF

var (
	// ErrUnsupportedType is returned for object types whose legacy layout
	// cannot be walked to reach the image table.
	ErrUnsupportedType = errors.New("object: unsupported object type")
	// ErrTruncated is returned when the object data ends before the image
	// table.
	ErrTruncated = errors.New("object: unexpected end of data")
)

// layout describes what precedes the image table in the decoded data of a
// legacy object.
type layout struct {
	header       int
	stringTables int
	sceneryGroup bool
	images       bool
}

var layouts = map[Type]layout{
	TypeWater:        {header: 16, stringTables: 1, images: true},
	TypeParkEntrance: {header: 8, stringTables: 1, images: true},
	TypePaths:        {header: 14, stringTables: 1, images: true},
	TypeBanners:      {header: 12, stringTables: 1, sceneryGroup: true, images: true},
	TypePathBits:     {header: 14, stringTables: 1, sceneryGroup: true, images: true},
	TypeWalls:        {header: 14, stringTables: 1, sceneryGroup: true, images: true},
	TypeScenarioText: {header: 6, stringTables: 3},
}

// Supported reports whether objects of type t can be read.
func Supported(t Type) bool {
	_, ok := layouts[t]
	return ok
}

// skipStringTable steps over a list of language-tagged NUL terminated
// strings ending with 0xFF.
func skipStringTable(r *bytes.Reader) error {
	for {
		lang, err := r.ReadByte()
		if err != nil {
			return ErrTruncated
		}
		if lang == stringTableEnd {
			return nil
		}
		for {
			c, err := r.ReadByte()
			if err != nil {
				return ErrTruncated
			}
			if c == 0 {
				break
			}
		}
	}
}

// preamble walks r up to the image table, returning the scenery group the
// object is attached to, if it has one.
func (l layout) preamble(ctx imagetable.ReadContext, r *bytes.Reader) (*Entry, error) {
	if r.Len() < l.header {
		ctx.LogError(imagetable.ErrUnexpectedEOF, "Object header is truncated")
		return nil, ErrTruncated
	}
	if _, err := r.Seek(int64(l.header), io.SeekCurrent); err != nil {
		return nil, err
	}

	for i := 0; i < l.stringTables; i++ {
		if err := skipStringTable(r); err != nil {
			ctx.LogError(imagetable.ErrBadStringTable, "Bad string table")
			return nil, err
		}
	}

	if !l.sceneryGroup {
		return nil, nil
	}

	group, err := ReadEntry(r)
	if err != nil {
		ctx.LogError(imagetable.ErrUnexpectedEOF, "Scenery group entry is truncated")
		return nil, ErrTruncated
	}
	return &group, nil
}
