package imagetable

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/golang/glog"
)

// Default allocation limits applied to tables read from untrusted streams.
const (
	DefaultMaxImages   = 1 << 20
	DefaultMaxDataSize = 256 << (10 * 2)
)

// Limits bounds how much a single Read will allocate.
type Limits struct {
	MaxImages   uint32
	MaxDataSize uint32
}

// Option configures a Table.
type Option func(*Table)

// WithLimits overrides the default allocation limits. A zero field keeps the
// corresponding default.
func WithLimits(l Limits) Option {
	return func(t *Table) {
		t.limits = l
	}
}

func (l Limits) maxImages() uint32 {
	if l.MaxImages == 0 {
		return DefaultMaxImages
	}
	return l.MaxImages
}

func (l Limits) maxDataSize() uint32 {
	if l.MaxDataSize == 0 {
		return DefaultMaxDataSize
	}
	return l.MaxDataSize
}

// lener is implemented by in-memory readers such as *bytes.Reader that know
// how many unread bytes remain.
type lener interface {
	Len() int
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r      io.Reader
	limits Limits

	count, size uint32

	entries []Element
	data    []byte
	ends    []uint32

	// Enough to hold either the header or a single element
	tmp [elementSize]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:headerSize]); err != nil {
		return formatError("header", err)
	}
	d.count = binary.LittleEndian.Uint32(d.tmp[0:])
	d.size = binary.LittleEndian.Uint32(d.tmp[4:])

	if d.count > d.limits.maxImages() || uint64(d.count)*elementSize > math.MaxInt32 {
		return formatError("header", fmt.Errorf("%w: %d, want <= %d", errTooManyImages, d.count, d.limits.maxImages()))
	}
	if d.size > d.limits.maxDataSize() {
		return formatError("header", fmt.Errorf("%w: %d bytes, want <= %d", errTooLarge, d.size, d.limits.maxDataSize()))
	}

	// Refuse to allocate for something the stream cannot possibly hold
	if l, ok := d.r.(lener); ok {
		if want := uint64(d.count)*elementSize + uint64(d.size); uint64(l.Len()) < want {
			return formatError("header", fmt.Errorf("%w: %d bytes remaining, want %d", errNotEnough, l.Len(), want))
		}
	}

	return nil
}

func (d *decoder) readElements() error {
	d.entries = make([]Element, d.count)
	for i := range d.entries {
		if err := readFull(d.r, d.tmp[:]); err != nil {
			return formatError(fmt.Sprintf("element %d", i), err)
		}
		d.entries[i].unmarshal(d.tmp[:])
	}
	return nil
}

func (d *decoder) readPixelData() error {
	d.data = make([]byte, d.size)
	if err := readFull(d.r, d.data); err != nil {
		d.data = nil
		return formatError("pixel data", err)
	}
	return nil
}

// relocate checks every element against the now complete buffer and works
// out where each image's pixels end.
func (d *decoder) relocate() error {
	for i, e := range d.entries {
		switch {
		case e.Offset > d.size:
			return formatError(fmt.Sprintf("element %d", i), fmt.Errorf("%w: offset %d, size %d", errOutOfBounds, e.Offset, d.size))
		case e.Offset == d.size && e.Width != 0 && e.Height != 0:
			// Only an empty image may start at the end of the payload
			return formatError(fmt.Sprintf("element %d", i), fmt.Errorf("%w: %dx%d image at end of payload", errOutOfBounds, e.Width, e.Height))
		}
	}
	d.ends = spanEnds(d.entries, d.size)
	return nil
}

func (d *decoder) decode(r io.Reader) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return err
	}
	if err := d.readElements(); err != nil {
		return err
	}
	if err := d.readPixelData(); err != nil {
		return err
	}
	if err := d.relocate(); err != nil {
		return err
	}

	glog.V(2).Infof("imagetable: read %d images, %d bytes of pixel data", d.count, d.size)

	return nil
}

// spanEnds returns, for each element, the end of its pixels; that is the next
// larger distinct offset or the end of the payload.
func spanEnds(entries []Element, size uint32) []uint32 {
	offsets := make([]uint32, 0, len(entries))
	for _, e := range entries {
		offsets = append(offsets, e.Offset)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	ends := make([]uint32, len(entries))
	for i, e := range entries {
		j := sort.Search(len(offsets), func(k int) bool { return offsets[k] > e.Offset })
		if j < len(offsets) {
			ends[i] = offsets[j]
		} else {
			ends[i] = size
		}
	}
	return ends
}
