package dither

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpfielding/dither.go/pkg/raster"
)

// gradient builds a horizontal colour ramp with varying alpha.
func gradient(w, h int) *raster.Buffer {
	b := raster.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(w-1, 1))
			b.Set(x, y, raster.ARGB(uint8(y*31), v, 255-v, uint8((x+y)*17)))
		}
	}
	return b
}

// noise builds a deterministic random buffer.
func noise(w, h int, seed uint64) *raster.Buffer {
	r := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	b := raster.NewBuffer(w, h)
	for i := range b.Data {
		b.Data[i] = r.Uint32()
	}
	return b
}

func assertAlphaUnchanged(t *testing.T, before, after *raster.Buffer) {
	t.Helper()
	for i := range before.Data {
		if before.Data[i]>>24 != after.Data[i]>>24 {
			assert.Failf(t, "alpha changed", "pixel %d: %#x -> %#x", i, before.Data[i]>>24, after.Data[i]>>24)
			return
		}
	}
}
