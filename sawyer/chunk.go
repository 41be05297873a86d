/*
Package sawyer implements the chunk encoding used to store the body of legacy
object definitions.

A chunk is a one byte encoding followed by a 32-bit little endian length and
that many encoded bytes. The body is either stored verbatim, run-length
encoded, run-length encoded on top of a simple back-reference scheme, or has
every byte rotated by a varying amount.
*/
package sawyer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// Encoding identifies how a chunk body is stored.
type Encoding uint8

// Supported encodings.
const (
	EncodingNone Encoding = iota
	EncodingRLE
	EncodingRLECompressed
	EncodingRotate
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "none"
	case EncodingRLE:
		return "rle"
	case EncodingRLECompressed:
		return "rle compressed"
	case EncodingRotate:
		return "rotate"
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// MaxChunkSize bounds both the encoded and the decoded size of a chunk.
const MaxChunkSize = 16 << (10 * 2)

const chunkHeaderSize = 5

var (
	// ErrCorrupt is returned when the encoded data is inconsistent.
	ErrCorrupt = errors.New("sawyer: corrupt chunk")
	// ErrTooLarge is returned when a chunk exceeds MaxChunkSize.
	ErrTooLarge = errors.New("sawyer: chunk too large")
	// ErrEncoding is returned for an unknown encoding.
	ErrEncoding = errors.New("sawyer: unknown encoding")
)

// Chunk is a decoded chunk along with the encoding it was stored with.
type Chunk struct {
	Encoding Encoding
	Data     []byte
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// ReadChunk reads and decodes the next chunk from r.
func ReadChunk(r io.Reader) (*Chunk, error) {
	var tmp [chunkHeaderSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		return nil, err
	}

	enc := Encoding(tmp[0])
	length := binary.LittleEndian.Uint32(tmp[1:])
	if length > MaxChunkSize {
		return nil, ErrTooLarge
	}

	b := make([]byte, length)
	if err := readFull(r, b); err != nil {
		return nil, err
	}

	data, err := Decode(enc, b)
	if err != nil {
		return nil, err
	}

	glog.V(2).Infof("sawyer: %s chunk, %d bytes encoded, %d bytes decoded", enc, length, len(data))

	return &Chunk{Encoding: enc, Data: data}, nil
}

// WriteTo encodes the chunk with its encoding and writes it to w.
func (c *Chunk) WriteTo(w io.Writer) (int64, error) {
	b, err := Encode(c.Encoding, c.Data)
	if err != nil {
		return 0, err
	}
	if len(b) > MaxChunkSize {
		return 0, ErrTooLarge
	}

	var tmp [chunkHeaderSize]byte
	tmp[0] = byte(c.Encoding)
	binary.LittleEndian.PutUint32(tmp[1:], uint32(len(b)))

	n, err := w.Write(tmp[:])
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(b)
	return int64(n + m), err
}

// Decode returns the decoded form of src.
func Decode(enc Encoding, src []byte) ([]byte, error) {
	switch enc {
	case EncodingNone:
		return append(make([]byte, 0, len(src)), src...), nil
	case EncodingRLE:
		return decodeRLE(src)
	case EncodingRLECompressed:
		b, err := decodeRLE(src)
		if err != nil {
			return nil, err
		}
		return decodeRepeat(b)
	case EncodingRotate:
		return decodeRotate(src), nil
	}
	return nil, ErrEncoding
}

// Encode returns src encoded with enc.
func Encode(enc Encoding, src []byte) ([]byte, error) {
	switch enc {
	case EncodingNone:
		return append(make([]byte, 0, len(src)), src...), nil
	case EncodingRLE:
		return encodeRLE(src), nil
	case EncodingRLECompressed:
		return encodeRLE(encodeRepeat(src)), nil
	case EncodingRotate:
		return encodeRotate(src), nil
	}
	return nil, ErrEncoding
}
