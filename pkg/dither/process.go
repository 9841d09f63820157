package dither

import (
	"fmt"

	"github.com/jpfielding/dither.go/pkg/raster"
)

// Process runs the operation described by cfg over buf, in place.
//
// All configuration is validated first, and the quantizer is prepared (range
// analysis included) before any pixel is written, so a returned error always
// leaves buf untouched.
func Process(buf *raster.Buffer, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.Len() == 0 {
		return nil
	}

	q, err := NewQuantizer(cfg.ColorSpace, cfg.Levels, cfg.RangeMode)
	if err != nil {
		return err
	}
	if err := q.Prepare(buf); err != nil {
		return fmt.Errorf("%s: %w", cfg.Operation, err)
	}
	q = prepared{q}

	switch {
	case cfg.Operation == Simple:
		return QuantizeBuffer(buf, q)
	case cfg.Operation == Bayer8x8:
		o, err := NewOrderedDitherer(cfg.OrderedSize())
		if err != nil {
			return err
		}
		return o.Apply(buf, q, cfg.Spread)
	case cfg.Operation.IsDiffusion():
		k, _ := cfg.Operation.Kernel()
		return NewErrorDiffuser(q, cfg.Spread).Apply(buf, k)
	}
	return fmt.Errorf("%w: %s", ErrUnknownOperation, cfg.Operation)
}

// prepared wraps a quantizer whose state is already computed so the engines
// do not measure the buffer a second time.
type prepared struct {
	Quantizer
}

func (prepared) Prepare(*raster.Buffer) error { return nil }
