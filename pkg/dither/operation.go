package dither

import (
	"fmt"
	"strings"
)

// Operation is one entry of the algorithm catalog.
type Operation int

const (
	// Simple quantizes with no dithering.
	Simple Operation = iota
	// Bayer8x8 is ordered dithering followed by quantization. The matrix size
	// comes from Config.BayerSize and defaults to 8.
	Bayer8x8
	FloydSteinberg
	JarvisJudiceNinke
	Stucki
	Atkinson
	Burkes
	Sierra
	TwoRowSierra
	SierraLite
	FalseFloydSteinberg
	Simple2D
	StevenPigeon

	operationCount
)

var operationNames = [operationCount]string{
	"simple",
	"bayer8x8",
	"floyd-steinberg",
	"jjn",
	"stucki",
	"atkinson",
	"burkes",
	"sierra",
	"two-row-sierra",
	"sierra-lite",
	"false-floyd-steinberg",
	"simple-2d",
	"steven-pigeon",
}

var operationKernels = map[Operation]Kernel{
	FloydSteinberg:      FloydSteinbergKernel,
	JarvisJudiceNinke:   JarvisJudiceNinkeKernel,
	Stucki:              StuckiKernel,
	Atkinson:            AtkinsonKernel,
	Burkes:              BurkesKernel,
	Sierra:              SierraKernel,
	TwoRowSierra:        TwoRowSierraKernel,
	SierraLite:          SierraLiteKernel,
	FalseFloydSteinberg: FalseFloydSteinbergKernel,
	Simple2D:            Simple2DKernel,
	StevenPigeon:        StevenPigeonKernel,
}

// aliases accepted by ParseOperation besides the canonical names.
var operationAliases = map[string]Operation{
	"none":                Simple,
	"bayer":               Bayer8x8,
	"ordered":             Bayer8x8,
	"fs":                  FloydSteinberg,
	"floydsteinberg":      FloydSteinberg,
	"jarvis-judice-ninke": JarvisJudiceNinke,
	"jarvisjudiceninke":   JarvisJudiceNinke,
	"sierra3":             Sierra,
	"sierra2":             TwoRowSierra,
	"tworowsierra":        TwoRowSierra,
	"sierra2-4a":          SierraLite,
	"sierralite":          SierraLite,
}

// Operations returns the full catalog in declaration order.
func Operations() []Operation {
	ops := make([]Operation, 0, operationCount)
	for op := Operation(0); op < operationCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// String returns the canonical catalog name.
func (op Operation) String() string {
	if op.Valid() {
		return operationNames[op]
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// Valid reports whether op is in the catalog.
func (op Operation) Valid() bool {
	return op >= 0 && op < operationCount
}

// IsDiffusion reports whether op is an error-diffusion kernel.
func (op Operation) IsDiffusion() bool {
	_, ok := operationKernels[op]
	return ok
}

// Kernel returns the diffusion kernel for op.
func (op Operation) Kernel() (Kernel, bool) {
	k, ok := operationKernels[op]
	return k, ok
}

// ParseOperation looks up an operation by name. Matching ignores case and
// treats '_' and ' ' like '-', so "Floyd_Steinberg" and "Two Row Sierra" work.
func ParseOperation(s string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	for op, name := range operationNames {
		if name == key {
			return Operation(op), nil
		}
	}
	if op, ok := operationAliases[key]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// MarshalText implements encoding.TextMarshaler.
func (op Operation) MarshalText() ([]byte, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *Operation) UnmarshalText(text []byte) error {
	v, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*op = v
	return nil
}
