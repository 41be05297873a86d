/*
Package checksum implements the rotating xor checksum stored in the header of
legacy object definitions.

Each byte is xored into the low byte of the running value which is then
rotated left by eleven bits. The running value starts from a fixed seed.
*/
package checksum

import (
	"hash"
	"math/bits"
)

// Seed is the initial value of every checksum.
const Seed uint32 = 0xF369A75B

// Size of a checksum in bytes.
const Size = 4

const rotation = 11

type digest struct {
	sum uint32
}

// New creates a new hash.Hash32 computing the object checksum. Its Sum method
// will lay the value out in big-endian byte order.
func New() hash.Hash32 {
	return &digest{Seed}
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return 1 }

func (d *digest) Reset() { d.sum = Seed }

// Update returns the result of adding the bytes in p to sum.
func Update(sum uint32, p []byte) uint32 {
	for _, b := range p {
		sum = bits.RotateLeft32(sum^uint32(b), rotation)
	}
	return sum
}

func (d *digest) Write(p []byte) (n int, err error) {
	d.sum = Update(d.sum, p)
	return len(p), nil
}

func (d *digest) Sum32() uint32 { return d.sum }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

// Checksum returns the checksum of data starting from Seed.
func Checksum(data []byte) uint32 { return Update(Seed, data) }
