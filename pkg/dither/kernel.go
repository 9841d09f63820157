package dither

import (
	"fmt"

	ditherlib "github.com/makeworld-the-better-one/dither/v2"
)

// Kernel is an error-diffusion weight table. Row 0 is the current row;
// Center is the column aligned with the current pixel. Weights at or left of
// Center in row 0 must be zero since those pixels are already done.
type Kernel struct {
	Name    string
	Weights [][]float64
	Center  int
}

// NewKernel builds a kernel from integer numerators over a common divisor.
// The centre column is the middle of the table.
func NewKernel(name string, divisor int, rows ...[]int) Kernel {
	weights := make([][]float64, len(rows))
	for i, row := range rows {
		weights[i] = make([]float64, len(row))
		for j, n := range row {
			weights[i][j] = float64(n) / float64(divisor)
		}
	}
	center := 0
	if len(rows) > 0 {
		center = len(rows[0]) / 2
	}
	return Kernel{Name: name, Weights: weights, Center: center}
}

// KernelFromMatrix adapts a matrix from the dither library. The current pixel
// sits just before the first non-zero weight of the first row.
func KernelFromMatrix(name string, m ditherlib.ErrorDiffusionMatrix) Kernel {
	weights := make([][]float64, len(m))
	for i, row := range m {
		weights[i] = make([]float64, len(row))
		for j, w := range row {
			weights[i][j] = float64(w)
		}
	}
	center := 0
	if len(m) > 0 {
		for i, w := range m[0] {
			if w != 0 {
				center = i - 1
				break
			}
		}
	}
	return Kernel{Name: name, Weights: weights, Center: center}
}

// Sum returns the total of all weights.
func (k Kernel) Sum() float64 {
	sum := 0.0
	for _, row := range k.Weights {
		for _, w := range row {
			sum += w
		}
	}
	return sum
}

// Validate checks the kernel is non-empty, rectangular and causal.
func (k Kernel) Validate() error {
	if len(k.Weights) == 0 || len(k.Weights[0]) == 0 {
		return fmt.Errorf("%w: %s has no weights", ErrInvalidKernel, k.Name)
	}
	width := len(k.Weights[0])
	if k.Center < 0 || k.Center >= width {
		return fmt.Errorf("%w: %s center %d outside width %d", ErrInvalidKernel, k.Name, k.Center, width)
	}
	for i, row := range k.Weights {
		if len(row) != width {
			return fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrInvalidKernel, k.Name, i, len(row), width)
		}
	}
	for j := 0; j <= k.Center; j++ {
		if k.Weights[0][j] != 0 {
			return fmt.Errorf("%w: %s weights an already visited pixel", ErrInvalidKernel, k.Name)
		}
	}
	return nil
}

// Canonical diffusion kernels.
var (
	FloydSteinbergKernel = NewKernel("floyd-steinberg", 16,
		[]int{0, 0, 7},
		[]int{3, 5, 1},
	)
	JarvisJudiceNinkeKernel = NewKernel("jjn", 48,
		[]int{0, 0, 0, 7, 5},
		[]int{3, 5, 7, 5, 3},
		[]int{1, 3, 5, 3, 1},
	)
	StuckiKernel = NewKernel("stucki", 42,
		[]int{0, 0, 0, 8, 4},
		[]int{2, 4, 8, 4, 2},
		[]int{1, 2, 4, 2, 1},
	)
	// Atkinson spreads only 6/8 of the error.
	AtkinsonKernel = NewKernel("atkinson", 8,
		[]int{0, 0, 0, 1, 1},
		[]int{0, 1, 1, 1, 0},
		[]int{0, 0, 1, 0, 0},
	)
	BurkesKernel = NewKernel("burkes", 32,
		[]int{0, 0, 0, 8, 4},
		[]int{2, 4, 8, 4, 2},
	)
	SierraKernel = NewKernel("sierra", 32,
		[]int{0, 0, 0, 5, 3},
		[]int{2, 4, 5, 4, 2},
		[]int{0, 2, 3, 2, 0},
	)
	TwoRowSierraKernel = NewKernel("two-row-sierra", 16,
		[]int{0, 0, 0, 4, 3},
		[]int{1, 2, 3, 2, 1},
	)
	SierraLiteKernel = NewKernel("sierra-lite", 4,
		[]int{0, 0, 2},
		[]int{1, 1, 0},
	)
)

// Extended kernels taken from the dither library's published matrices.
var (
	FalseFloydSteinbergKernel = KernelFromMatrix("false-floyd-steinberg", ditherlib.FalseFloydSteinberg)
	Simple2DKernel            = KernelFromMatrix("simple-2d", ditherlib.Simple2D)
	StevenPigeonKernel        = KernelFromMatrix("steven-pigeon", ditherlib.StevenPigeon)
)
