package sprite

import (
	"image"

	"github.com/nfnt/resize"
)

// Scale enlarges m by factor without smoothing so individual pixels stay
// visible. A factor of 0 or 1 returns m unchanged.
func Scale(m image.Image, factor uint) image.Image {
	if factor <= 1 {
		return m
	}
	b := m.Bounds()
	return resize.Resize(uint(b.Dx())*factor, uint(b.Dy())*factor, m, resize.NearestNeighbor)
}
