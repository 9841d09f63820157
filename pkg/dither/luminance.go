package dither

import (
	"fmt"
	"math"

	"github.com/jpfielding/dither.go/pkg/raster"
)

// Rec. 709 luma weights.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Range is a symmetric measurement window around an image's mean luma
// (0-255) or HSB brightness (0-1).
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Width returns Max - Min.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Mid returns the centre of the window.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Validate reports ErrDegenerateRange when the window has no width or is not
// a finite interval.
func (r Range) Validate() error {
	w := r.Width()
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return fmt.Errorf("%w: [%g, %g]", ErrDegenerateRange, r.Min, r.Max)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%.4f, %.4f]", r.Min, r.Max)
}

// Luma returns the Rec. 709 weighted luma of p in 0-255.
func Luma(p raster.Pixel) float64 {
	return lumaR*float64(p[raster.Red]) + lumaG*float64(p[raster.Green]) + lumaB*float64(p[raster.Blue])
}

// Brightness returns the HSB brightness of p in 0-1.
func Brightness(p raster.Pixel) float64 {
	m := p[raster.Red]
	if p[raster.Green] > m {
		m = p[raster.Green]
	}
	if p[raster.Blue] > m {
		m = p[raster.Blue]
	}
	return float64(m) / 255.0
}

// ComputeRange makes one pass over buf, measuring luma (or HSB brightness when
// useHSB is set) per pixel, and returns the widest window centred on the mean
// that still fits inside the observed [min, max]:
//
//	d = min(mean-observedMin, observedMax-mean)
//	range = [mean-d, mean+d]
//
// The range is never cached; every call rescans the buffer.
func ComputeRange(buf *raster.Buffer, useHSB bool) (Range, error) {
	if err := buf.Validate(); err != nil {
		return Range{}, err
	}
	if buf.Len() == 0 {
		return Range{}, ErrEmptyBuffer
	}

	measure := Luma
	if useHSB {
		measure = Brightness
	}

	minV, maxV := math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, argb := range buf.Data {
		v := measure(raster.Unpack(argb))
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
		sum += v
	}

	mean := sum / float64(buf.Len())
	d := math.Min(mean-minV, maxV-mean)
	return Range{Min: mean - d, Max: mean + d}, nil
}
