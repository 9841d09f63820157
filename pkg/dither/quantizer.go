package dither

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jpfielding/dither.go/pkg/raster"
)

// Quantizer maps a pixel onto the reduced colour set of one colour space.
type Quantizer interface {
	// Prepare computes any per-image state. In range mode it measures the
	// buffer's luminance window; otherwise it does nothing. The state lives
	// until the next Prepare call.
	Prepare(buf *raster.Buffer) error
	// QuantizePixel returns the quantized pixel. Alpha is passed through.
	QuantizePixel(p raster.Pixel) raster.Pixel
	// ColorSpace reports which variant this is.
	ColorSpace() ColorSpace
}

// NewQuantizer builds the quantizer for space. Levels are validated here, so
// QuantizePixel never fails.
func NewQuantizer(space ColorSpace, levels int, rangeMode bool) (Quantizer, error) {
	if err := ValidateLevels(levels); err != nil {
		return nil, err
	}
	switch space {
	case RGB:
		return &rgbQuantizer{levels: levels, rangeMode: rangeMode, rng: Range{Min: 0, Max: 255}}, nil
	case HSB:
		return &hsbQuantizer{levels: levels, rangeMode: rangeMode, rng: Range{Min: 0, Max: 1}}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownColorSpace, int(space))
}

// rgbQuantizer quantizes R, G and B independently. In range mode all three
// channels share the luma window measured by Prepare.
type rgbQuantizer struct {
	levels    int
	rangeMode bool
	rng       Range
}

func (q *rgbQuantizer) ColorSpace() ColorSpace { return RGB }

func (q *rgbQuantizer) Prepare(buf *raster.Buffer) error {
	if !q.rangeMode {
		return nil
	}
	r, err := ComputeRange(buf, false)
	if err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	q.rng = r
	return nil
}

func (q *rgbQuantizer) QuantizePixel(p raster.Pixel) raster.Pixel {
	out := p
	for c := raster.Red; c <= raster.Blue; c++ {
		if q.rangeMode {
			out[c] = quantizeWithRange(p[c], q.levels, q.rng.Min, q.rng.Max)
		} else {
			out[c] = quantizeUniform(p[c], q.levels)
		}
	}
	return out
}

// hsbQuantizer quantizes only brightness; hue and saturation pass through.
type hsbQuantizer struct {
	levels    int
	rangeMode bool
	rng       Range
}

func (q *hsbQuantizer) ColorSpace() ColorSpace { return HSB }

func (q *hsbQuantizer) Prepare(buf *raster.Buffer) error {
	if !q.rangeMode {
		return nil
	}
	r, err := ComputeRange(buf, true)
	if err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	q.rng = r
	return nil
}

func (q *hsbQuantizer) QuantizePixel(p raster.Pixel) raster.Pixel {
	col := colorful.Color{
		R: float64(raster.Clamp(p[raster.Red])) / 255.0,
		G: float64(raster.Clamp(p[raster.Green])) / 255.0,
		B: float64(raster.Clamp(p[raster.Blue])) / 255.0,
	}
	h, s, v := col.Hsv()

	if q.rangeMode {
		v = quantizeUnitWithRange(v, q.levels, q.rng.Min, q.rng.Max)
	} else {
		v = quantizeUnit(v, q.levels)
	}

	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return raster.Pixel{p[raster.Alpha], int(r), int(g), int(b)}
}

// QuantizeBuffer applies q to every pixel of buf with no dithering.
func QuantizeBuffer(buf *raster.Buffer, q Quantizer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := q.Prepare(buf); err != nil {
		return err
	}
	for i, argb := range buf.Data {
		buf.Data[i] = q.QuantizePixel(raster.Unpack(argb)).Pack()
	}
	return nil
}
