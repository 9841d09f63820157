package dither

import (
	"math"

	"github.com/jpfielding/dither.go/pkg/raster"
)

// DefaultBayerSize is the threshold matrix used when none is given.
const DefaultBayerSize = 2

// OrderedDitherer adds a repeating Bayer threshold to every pixel before
// quantizing it.
type OrderedDitherer struct {
	size  int
	field [][]float64
}

// NewOrderedDitherer builds the normalized threshold field for an n x n Bayer
// matrix. n must be a power of two >= 2.
func NewOrderedDitherer(n int) (*OrderedDitherer, error) {
	m, err := BayerMatrix(n)
	if err != nil {
		return nil, err
	}
	return &OrderedDitherer{size: n, field: ThresholdField(m)}, nil
}

// DefaultOrderedDitherer returns a ditherer over the DefaultBayerSize matrix.
func DefaultOrderedDitherer() *OrderedDitherer {
	o, err := NewOrderedDitherer(DefaultBayerSize)
	if err != nil {
		panic(err)
	}
	return o
}

// Size returns the matrix dimension.
func (o *OrderedDitherer) Size() int {
	return o.size
}

// Threshold returns the signed bias applied at (x, y) before spread scaling.
func (o *OrderedDitherer) Threshold(x, y int) float64 {
	return o.field[y%o.size][x%o.size]
}

// Apply dithers buf in place. For each pixel the threshold times spread is
// added to one normalized channel at a time; the perturbed pixel goes through
// q and only that channel is kept from the result. Later channels see the
// already-quantized values of earlier ones.
//
// Pixels are independent of each other, so the scan order does not matter.
func (o *OrderedDitherer) Apply(buf *raster.Buffer, q Quantizer, spread float64) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := q.Prepare(buf); err != nil {
		return err
	}

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			p := buf.PixelAt(x, y)
			d := o.Threshold(x, y) * spread

			for c := raster.Red; c <= raster.Blue; c++ {
				v := float64(p[c])/255.0 + d
				v = math.Min(1.0, math.Max(0.0, v))

				tmp := p
				tmp[c] = int(v * 255)
				p[c] = q.QuantizePixel(tmp)[c]
			}

			buf.SetPixel(x, y, p)
		}
	}
	return nil
}
