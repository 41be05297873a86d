package object

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/bodgit/rctobj/checksum"
)

// EntrySize is the size in bytes of an Entry on disk.
const EntrySize = 16

// Entry is the header identifying an object. Objects reference each other by
// entry, for example a wall names the scenery group it belongs to.
type Entry struct {
	Flags    uint32
	Name     [8]byte
	Checksum uint32
}

// NewEntry returns an entry for an object of type t called name. Names longer
// than eight bytes are truncated, shorter ones are padded with spaces.
func NewEntry(t Type, name string) Entry {
	e := Entry{Flags: uint32(t) & 0x0f}
	copy(e.Name[:], "        ")
	copy(e.Name[:], name)
	return e
}

// Type returns the object type.
func (e Entry) Type() Type {
	return Type(e.Flags & 0x0f)
}

// Source returns where the object comes from.
func (e Entry) Source() Source {
	return Source(e.Flags >> 4 & 0x0f)
}

// Identifier returns the name with its padding removed.
func (e Entry) Identifier() string {
	return strings.TrimRight(string(e.Name[:]), " \x00")
}

// Sum computes the checksum of the decoded object data. Only the low byte of
// the flags and the name are covered from the entry itself.
func (e Entry) Sum(data []byte) uint32 {
	h := checksum.New()
	h.Write([]byte{byte(e.Flags)})
	h.Write(e.Name[:])
	h.Write(data)
	return h.Sum32()
}

// ReadEntry reads an entry from r.
func ReadEntry(r io.Reader) (Entry, error) {
	var e Entry
	if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Entry{}, err
	}
	return e, nil
}

// WriteTo writes the entry to w.
func (e Entry) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.LittleEndian, &e); err != nil {
		return 0, err
	}
	return EntrySize, nil
}
