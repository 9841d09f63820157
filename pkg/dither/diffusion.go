package dither

import (
	"github.com/jpfielding/dither.go/pkg/raster"
)

// ErrorDiffuser quantizes pixels in raster order and pushes each pixel's
// rounding error onto its unvisited neighbours.
//
// The scan order is strict: top to bottom, left to right. Each pixel reads
// error already diffused into it by earlier pixels, so rows cannot be split
// across goroutines without changing the output.
type ErrorDiffuser struct {
	Quantizer Quantizer
	// Spread scales every kernel weight; 0 disables diffusion entirely.
	Spread float64
}

// NewErrorDiffuser returns a diffuser for q with the given strength.
func NewErrorDiffuser(q Quantizer, spread float64) *ErrorDiffuser {
	return &ErrorDiffuser{Quantizer: q, Spread: spread}
}

// Apply dithers buf in place using kernel k.
//
// Per pixel: quantize the current (possibly already diffused) value, write it
// back, compute residual = original - quantized per channel, then for every
// non-zero weight add int(residual*weight*spread) to R, G and B of the target
// pixel, clamped to 0-255. Targets outside the buffer are skipped. Alpha
// residuals are never diffused.
func (d *ErrorDiffuser) Apply(buf *raster.Buffer, k Kernel) error {
	if err := k.Validate(); err != nil {
		return err
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := d.Quantizer.Prepare(buf); err != nil {
		return err
	}

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			old := buf.PixelAt(x, y)
			quantized := d.Quantizer.QuantizePixel(old)
			quantized[raster.Alpha] = old[raster.Alpha]
			buf.SetPixel(x, y, quantized)

			var residual raster.Pixel
			for c := range residual {
				residual[c] = old[c] - quantized[c]
			}

			for dy, row := range k.Weights {
				for dx, w := range row {
					factor := w * d.Spread
					if factor == 0 {
						continue
					}
					diffuse(buf, x+dx-k.Center, y+dy, residual, factor)
				}
			}
		}
	}
	return nil
}

func diffuse(buf *raster.Buffer, x, y int, residual raster.Pixel, factor float64) {
	if !buf.In(x, y) {
		return
	}
	p := buf.PixelAt(x, y)
	for c := raster.Red; c <= raster.Blue; c++ {
		p[c] = raster.Clamp(p[c] + int(float64(residual[c])*factor))
	}
	buf.SetPixel(x, y, p)
}

// FloydSteinberg applies Floyd-Steinberg diffusion.
func (d *ErrorDiffuser) FloydSteinberg(buf *raster.Buffer) error {
	return d.Apply(buf, FloydSteinbergKernel)
}

// JarvisJudiceNinke applies Jarvis, Judice and Ninke diffusion.
func (d *ErrorDiffuser) JarvisJudiceNinke(buf *raster.Buffer) error {
	return d.Apply(buf, JarvisJudiceNinkeKernel)
}

// Stucki applies Stucki diffusion.
func (d *ErrorDiffuser) Stucki(buf *raster.Buffer) error {
	return d.Apply(buf, StuckiKernel)
}

// Atkinson applies Atkinson diffusion.
func (d *ErrorDiffuser) Atkinson(buf *raster.Buffer) error {
	return d.Apply(buf, AtkinsonKernel)
}

// Burkes applies Burkes diffusion.
func (d *ErrorDiffuser) Burkes(buf *raster.Buffer) error {
	return d.Apply(buf, BurkesKernel)
}

// Sierra applies full three-row Sierra diffusion.
func (d *ErrorDiffuser) Sierra(buf *raster.Buffer) error {
	return d.Apply(buf, SierraKernel)
}

// TwoRowSierra applies two-row Sierra diffusion.
func (d *ErrorDiffuser) TwoRowSierra(buf *raster.Buffer) error {
	return d.Apply(buf, TwoRowSierraKernel)
}

// SierraLite applies Sierra Lite diffusion.
func (d *ErrorDiffuser) SierraLite(buf *raster.Buffer) error {
	return d.Apply(buf, SierraLiteKernel)
}
