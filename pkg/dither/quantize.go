package dither

import (
	"fmt"
	"math"
)

// Level count bounds accepted by every quantizer.
const (
	MinLevels = 2
	MaxLevels = 256
)

// ValidateLevels checks that levels lies in [MinLevels, MaxLevels].
func ValidateLevels(levels int) error {
	if levels < MinLevels || levels > MaxLevels {
		return fmt.Errorf("%w: got %d", ErrInvalidLevelCount, levels)
	}
	return nil
}

// QuantizeUniform maps a 0-255 channel value onto the nearest of levels
// evenly spaced centres. The result is truncated, not rounded, back to 0-255.
//
// Because of the truncation, quantizing an output again is stable only up to
// 131 levels (and for 136, 137, 154, 171 and 256). Above that a result may
// drop one level on a second pass.
func QuantizeUniform(value, levels int) (int, error) {
	if err := ValidateLevels(levels); err != nil {
		return 0, err
	}
	return quantizeUniform(value, levels), nil
}

// QuantizeWithRange quantizes value relative to the window [r.Min, r.Max] and
// rescales the quantized position within that window onto 0-255.
//
// The value is clamped into the window and normalized, snapped to a level
// centre, mapped back into the window, then re-normalized against the window
// and multiplied by 255. Both remaps are kept so the output matches the
// reference behaviour exactly.
func QuantizeWithRange(value, levels int, r Range) (int, error) {
	if err := ValidateLevels(levels); err != nil {
		return 0, err
	}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return quantizeWithRange(value, levels, r.Min, r.Max), nil
}

// QuantizeUnit is QuantizeUniform for a value in [0, 1], as used for HSB
// brightness.
func QuantizeUnit(value float64, levels int) (float64, error) {
	if err := ValidateLevels(levels); err != nil {
		return 0, err
	}
	return quantizeUnit(value, levels), nil
}

// QuantizeUnitWithRange quantizes a [0, 1] value inside [r.Min, r.Max] and
// returns the snapped value, still expressed inside that window.
func QuantizeUnitWithRange(value float64, levels int, r Range) (float64, error) {
	if err := ValidateLevels(levels); err != nil {
		return 0, err
	}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return quantizeUnitWithRange(value, levels, r.Min, r.Max), nil
}

// snap rounds a normalized value to the nearest level centre, ties up.
func snap(norm float64, levels int) float64 {
	step := float64(levels - 1)
	return math.Floor(norm*step+0.5) / step
}

func quantizeUniform(value, levels int) int {
	c := snap(float64(value)/255.0, levels)
	return int(c * 255)
}

func quantizeWithRange(value, levels int, lo, hi float64) int {
	v := math.Max(lo, math.Min(hi, float64(value)))
	norm := (v - lo) / (hi - lo)
	quantized := snap(norm, levels)*(hi-lo) + lo
	return int(math.Floor((quantized-lo)/(hi-lo)*255 + 0.5))
}

func quantizeUnit(value float64, levels int) float64 {
	return clamp01(snap(value, levels))
}

func quantizeUnitWithRange(value float64, levels int, lo, hi float64) float64 {
	v := math.Max(lo, math.Min(hi, value))
	norm := (v - lo) / (hi - lo)
	return clamp01(snap(norm, levels)*(hi-lo) + lo)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
