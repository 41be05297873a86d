package sawyer

import "math/bits"

const (
	maxRun     = 128
	maxLiteral = 128

	repeatLiteral = 0xFF
	maxRepeat     = 8
	maxDistance   = 32
)

// A code byte with the top bit set repeats the following byte 257-code
// times, otherwise the following code+1 bytes are copied verbatim.
func decodeRLE(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		code := src[i]
		if code&0x80 != 0 {
			i++
			if i >= len(src) {
				return nil, ErrCorrupt
			}
			n := 257 - int(code)
			if len(dst)+n > MaxChunkSize {
				return nil, ErrTooLarge
			}
			for j := 0; j < n; j++ {
				dst = append(dst, src[i])
			}
			continue
		}

		n := int(code) + 1
		if i+1+n > len(src) {
			return nil, ErrCorrupt
		}
		if len(dst)+n > MaxChunkSize {
			return nil, ErrTooLarge
		}
		dst = append(dst, src[i+1:i+1+n]...)
		i += n
	}
	return dst, nil
}

func encodeRLE(src []byte) []byte {
	dst := make([]byte, 0, len(src)+len(src)/maxLiteral+1)
	for i := 0; i < len(src); {
		run := 1
		for i+run < len(src) && run < maxRun && src[i+run] == src[i] {
			run++
		}
		if run >= 3 {
			dst = append(dst, byte(257-run), src[i])
			i += run
			continue
		}

		start := i
		for i < len(src) && i-start < maxLiteral {
			if i+2 < len(src) && src[i] == src[i+1] && src[i] == src[i+2] {
				break
			}
			i++
		}
		dst = append(dst, byte(i-start-1))
		dst = append(dst, src[start:i]...)
	}
	return dst
}

// 0xFF copies the next byte verbatim, any other byte copies (b&7)+1 bytes
// starting 32-(b>>3) bytes back from the end of the output.
func decodeRepeat(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		b := src[i]
		if b == repeatLiteral {
			i++
			if i >= len(src) {
				return nil, ErrCorrupt
			}
			dst = append(dst, src[i])
			continue
		}

		n := int(b&7) + 1
		start := len(dst) - (maxDistance - int(b>>3))
		if start < 0 {
			return nil, ErrCorrupt
		}
		if len(dst)+n > MaxChunkSize {
			return nil, ErrTooLarge
		}
		for j := 0; j < n; j++ {
			dst = append(dst, dst[start+j])
		}
	}
	return dst, nil
}

// encodeRepeat greedily picks the longest back-reference at each position,
// falling back to literals.
func encodeRepeat(src []byte) []byte {
	dst := make([]byte, 0, len(src)*2)
	for i := 0; i < len(src); {
		bestLen, bestDist := 0, 0
		for dist := 1; dist <= maxDistance && dist <= i; dist++ {
			n := 0
			for n < maxRepeat && i+n < len(src) && src[i+n] == src[i-dist+n] {
				n++
			}
			// Distance 1 with a full length would encode as the literal marker
			if dist == 1 && n == maxRepeat {
				n--
			}
			if n > bestLen {
				bestLen, bestDist = n, dist
			}
		}

		if bestLen < 2 {
			dst = append(dst, repeatLiteral, src[i])
			i++
			continue
		}

		dst = append(dst, byte((maxDistance-bestDist)<<3|(bestLen-1)))
		i += bestLen
	}
	return dst
}

func decodeRotate(src []byte) []byte {
	dst := make([]byte, len(src))
	code := 1
	for i, b := range src {
		dst[i] = bits.RotateLeft8(b, -code)
		code = (code + 2) & 7
	}
	return dst
}

func encodeRotate(src []byte) []byte {
	dst := make([]byte, len(src))
	code := 1
	for i, b := range src {
		dst[i] = bits.RotateLeft8(b, code)
		code = (code + 2) & 7
	}
	return dst
}
