package dither

import (
	"errors"
	"fmt"
	"math"
)

// DefaultOrderedSize is the Bayer matrix size used by the Bayer8x8 operation.
const DefaultOrderedSize = 8

// Config is the caller-owned description of one processing run. It is read,
// never modified, by Process.
type Config struct {
	Operation  Operation  `yaml:"operation" json:"operation"`
	Levels     int        `yaml:"levels" json:"levels"`
	RangeMode  bool       `yaml:"range" json:"range"`
	ColorSpace ColorSpace `yaml:"color_space" json:"color_space"`
	Spread     float64    `yaml:"spread" json:"spread"`
	// BayerSize is the ordered-dither matrix dimension; 0 means DefaultOrderedSize.
	BayerSize int `yaml:"bayer_size" json:"bayer_size"`
}

// DefaultConfig returns two-level RGB quantization with no dithering.
func DefaultConfig() Config {
	return Config{
		Operation:  Simple,
		Levels:     MinLevels,
		ColorSpace: RGB,
		Spread:     1.0,
		BayerSize:  DefaultOrderedSize,
	}
}

// OrderedSize returns the effective Bayer matrix dimension.
func (c Config) OrderedSize() int {
	if c.BayerSize == 0 {
		return DefaultOrderedSize
	}
	return c.BayerSize
}

// Validate checks every field and joins all problems into one error.
func (c Config) Validate() error {
	var errs []error
	if !c.Operation.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownOperation, int(c.Operation)))
	}
	if err := ValidateLevels(c.Levels); err != nil {
		errs = append(errs, err)
	}
	if !c.ColorSpace.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownColorSpace, int(c.ColorSpace)))
	}
	if math.IsNaN(c.Spread) || math.IsInf(c.Spread, 0) || c.Spread < 0 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidSpread, c.Spread))
	}
	if c.Operation == Bayer8x8 {
		if n := c.OrderedSize(); n < 2 || n&(n-1) != 0 {
			errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidDimension, n))
		}
	}
	return errors.Join(errs...)
}

func (c Config) String() string {
	return fmt.Sprintf("%s levels=%d range=%t space=%s spread=%g", c.Operation, c.Levels, c.RangeMode, c.ColorSpace, c.Spread)
}
