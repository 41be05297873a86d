package sawyer

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		enc  Encoding
		in   []byte
		want []byte
		err  error
	}{
		{
			name: "none",
			enc:  EncodingNone,
			in:   []byte("plain"),
			want: []byte("plain"),
		},
		{
			name: "rle literal and run",
			enc:  EncodingRLE,
			in:   []byte{0x02, 'a', 'b', 'c', 0xFE, 'x'},
			want: []byte("abcxxx"),
		},
		{
			name: "rle longest run",
			enc:  EncodingRLE,
			in:   []byte{0x80, 'z'},
			want: bytes.Repeat([]byte{'z'}, 129),
		},
		{
			name: "rle missing run byte",
			enc:  EncodingRLE,
			in:   []byte{0xFE},
			err:  ErrCorrupt,
		},
		{
			name: "rle short literal",
			enc:  EncodingRLE,
			in:   []byte{0x03, 'a'},
			err:  ErrCorrupt,
		},
		{
			name: "rle compressed back reference",
			enc:  EncodingRLECompressed,
			in:   []byte{0x04, 0xFF, 'a', 0xFF, 'b', 0xF3},
			want: []byte("ababab"),
		},
		{
			name: "rle compressed reference before start",
			enc:  EncodingRLECompressed,
			in:   []byte{0x02, 0xFF, 'a', 0xF3},
			err:  ErrCorrupt,
		},
		{
			name: "rle compressed missing literal",
			enc:  EncodingRLECompressed,
			in:   []byte{0x00, 0xFF},
			err:  ErrCorrupt,
		},
		{
			name: "rotate",
			enc:  EncodingRotate,
			in:   []byte{0x02, 0x08, 0x20, 0x80, 0x02},
			want: []byte{0x01, 0x01, 0x01, 0x01, 0x01},
		},
		{
			name: "unknown",
			enc:  Encoding(9),
			in:   []byte{0},
			err:  ErrEncoding,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.enc, tc.in)
			if tc.err != nil {
				assert.Equal(t, tc.err, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	noise := make([]byte, 1000)
	rng.Read(noise)

	runs := new(bytes.Buffer)
	for i := 0; i < 50; i++ {
		runs.Write(bytes.Repeat([]byte{byte(rng.Intn(4))}, rng.Intn(300)+1))
	}

	pattern := bytes.Repeat([]byte("abcdefgh"), 64)

	inputs := map[string][]byte{
		"empty":   {},
		"single":  {0x42},
		"noise":   noise,
		"runs":    runs.Bytes(),
		"pattern": pattern,
		"zeros":   make([]byte, 4096),
	}

	for _, enc := range []Encoding{EncodingNone, EncodingRLE, EncodingRLECompressed, EncodingRotate} {
		for name, in := range inputs {
			t.Run(enc.String()+"/"+name, func(t *testing.T) {
				b, err := Encode(enc, in)
				require.NoError(t, err)

				out, err := Decode(enc, b)
				require.NoError(t, err)
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestEncodeCompresses(t *testing.T) {
	zeros := make([]byte, 4096)

	rle, err := Encode(EncodingRLE, zeros)
	require.NoError(t, err)
	assert.Less(t, len(rle), 100)

	compressed, err := Encode(EncodingRLECompressed, bytes.Repeat([]byte("abcdefgh"), 64))
	require.NoError(t, err)
	assert.Less(t, len(compressed), 512)
}

func TestChunk(t *testing.T) {
	c := &Chunk{Encoding: EncodingRLE, Data: []byte("aaaaaaaaaabcd")}

	b := new(bytes.Buffer)
	n, err := c.WriteTo(b)
	require.NoError(t, err)
	assert.Equal(t, int64(b.Len()), n)
	assert.Equal(t, byte(EncodingRLE), b.Bytes()[0])

	got, err := ReadChunk(b)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, 0, b.Len())
}

func TestReadChunkErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		err  error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"short header", []byte{0, 1, 0}, io.ErrUnexpectedEOF},
		{"short body", []byte{0, 4, 0, 0, 0, 'a'}, io.ErrUnexpectedEOF},
		{"too large", []byte{0, 0, 0, 0, 0x7F}, ErrTooLarge},
		{"bad encoding", []byte{7, 0, 0, 0, 0}, ErrEncoding},
		{"corrupt body", []byte{1, 1, 0, 0, 0, 0xFE}, ErrCorrupt},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadChunk(bytes.NewReader(tc.in))
			assert.Equal(t, tc.err, err)
		})
	}
}

func TestEncodingString(t *testing.T) {
	assert.Equal(t, "rle compressed", EncodingRLECompressed.String())
	assert.Equal(t, "Encoding(9)", Encoding(9).String())
}
