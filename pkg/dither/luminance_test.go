package dither

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/dither.go/pkg/raster"
)

// grayStrip builds a 1 x n buffer of opaque gray pixels.
func grayStrip(values ...uint8) *raster.Buffer {
	b := raster.NewBuffer(len(values), 1)
	for x, v := range values {
		b.Set(x, 0, raster.ARGB(255, v, v, v))
	}
	return b
}

func TestComputeRange_Scenario(t *testing.T) {
	r, err := ComputeRange(grayStrip(10, 50, 90), false)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, r.Min, 1e-9)
	assert.InDelta(t, 90.0, r.Max, 1e-9)
	assert.InDelta(t, 50.0, r.Mid(), 1e-9)
}

func TestComputeRange_Symmetric(t *testing.T) {
	tests := []struct {
		name   string
		values []uint8
		mean   float64
		min    float64
		max    float64
	}{
		{"skewed high", []uint8{0, 0, 0, 200}, 50, 0, 100},
		{"skewed low", []uint8{255, 255, 255, 55}, 205, 155, 255},
		{"two values", []uint8{20, 60}, 40, 20, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ComputeRange(grayStrip(tt.values...), false)
			require.NoError(t, err)
			assert.InDelta(t, tt.min, r.Min, 1e-9)
			assert.InDelta(t, tt.max, r.Max, 1e-9)
			assert.InDelta(t, tt.mean-r.Min, r.Max-tt.mean, 1e-9)
		})
	}
}

func TestComputeRange_HSB(t *testing.T) {
	b := raster.NewBuffer(3, 1)
	b.Set(0, 0, raster.ARGB(255, 255, 0, 0))
	b.Set(1, 0, raster.ARGB(255, 0, 0, 0))
	b.Set(2, 0, raster.ARGB(255, 0, 128, 0))

	r, err := ComputeRange(b, true)
	require.NoError(t, err)

	mean := (1.0 + 0 + 128.0/255) / 3
	assert.InDelta(t, mean-r.Min, r.Max-mean, 1e-9)
	assert.Greater(t, r.Min, 0.0)
	assert.InDelta(t, 1.0, r.Max, 1e-9)
}

func TestComputeRange_IgnoresAlpha(t *testing.T) {
	b := raster.NewBuffer(2, 1)
	b.Set(0, 0, raster.ARGB(0, 10, 10, 10))
	b.Set(1, 0, raster.ARGB(255, 30, 30, 30))

	r, err := ComputeRange(b, false)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, r.Min, 1e-9)
	assert.InDelta(t, 30.0, r.Max, 1e-9)
}

func TestComputeRange_Empty(t *testing.T) {
	_, err := ComputeRange(raster.NewBuffer(0, 5), false)
	assert.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestComputeRange_Flat(t *testing.T) {
	r, err := ComputeRange(grayStrip(80, 80, 80), false)
	require.NoError(t, err)
	assert.ErrorIs(t, r.Validate(), ErrDegenerateRange)
}

func TestLuma(t *testing.T) {
	assert.InDelta(t, 0.7152*255, Luma(raster.Pixel{255, 0, 255, 0}), 1e-9)
	assert.InDelta(t, 0.2126*255, Luma(raster.Pixel{255, 255, 0, 0}), 1e-9)
	assert.InDelta(t, 128.0, Luma(raster.Pixel{0, 128, 128, 128}), 1e-9)
}

func TestBrightness(t *testing.T) {
	assert.InDelta(t, 200.0/255, Brightness(raster.Pixel{255, 10, 200, 30}), 1e-12)
	assert.Equal(t, 0.0, Brightness(raster.Pixel{255, 0, 0, 0}))
}
