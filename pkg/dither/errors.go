package dither

import "errors"

var (
	// ErrInvalidDimension is returned for Bayer sizes below 2 or not a power of two.
	ErrInvalidDimension = errors.New("dither: bayer dimension must be a power of two >= 2")
	// ErrInvalidLevelCount is returned for level counts outside [MinLevels, MaxLevels].
	ErrInvalidLevelCount = errors.New("dither: levels must be between 2 and 256")
	// ErrDegenerateRange is returned when a measured range has min == max.
	ErrDegenerateRange = errors.New("dither: degenerate luminance range")
	// ErrEmptyBuffer is returned when a range is requested for a buffer with no pixels.
	ErrEmptyBuffer = errors.New("dither: empty buffer")
	// ErrInvalidSpread is returned for negative or non-finite spread factors.
	ErrInvalidSpread = errors.New("dither: spread must be a finite value >= 0")
	// ErrUnknownOperation is returned for operations outside the catalog.
	ErrUnknownOperation = errors.New("dither: unknown operation")
	// ErrUnknownColorSpace is returned for colour spaces other than RGB and HSB.
	ErrUnknownColorSpace = errors.New("dither: unknown color space")
	// ErrInvalidKernel is returned for empty or non-causal diffusion kernels.
	ErrInvalidKernel = errors.New("dither: invalid diffusion kernel")
)
