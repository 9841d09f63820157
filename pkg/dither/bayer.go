package dither

import (
	"fmt"
	"sync"
)

// bayerCache memoizes generated matrices by dimension.
var bayerCache sync.Map // map[int][][]int

// BayerMatrix returns the n x n Bayer index matrix, a permutation of 0..n*n-1.
//
// The matrix follows M(2n) = 4*M(n) + D, with D = 0, 2, 3, 1 for the top-left,
// top-right, bottom-left and bottom-right quadrants, from the base case
//
//	[0 2]
//	[3 1]
//
// n must be a power of two and at least 2. The returned matrix is a fresh copy
// the caller may modify.
func BayerMatrix(n int) ([][]int, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDimension, n)
	}
	if m, ok := bayerCache.Load(n); ok {
		return copyMatrix(m.([][]int)), nil
	}
	m := computeBayer(n)
	bayerCache.Store(n, m)
	return copyMatrix(m), nil
}

func computeBayer(n int) [][]int {
	if n == 2 {
		return [][]int{
			{0, 2},
			{3, 1},
		}
	}

	half := n / 2
	smaller := computeBayer(half)
	result := make([][]int, n)
	for i := range result {
		result[i] = make([]int, n)
	}

	for i := 0; i < half; i++ {
		for j := 0; j < half; j++ {
			base := 4 * smaller[i][j]
			result[i][j] = base
			result[i][j+half] = base + 2
			result[i+half][j] = base + 3
			result[i+half][j+half] = base + 1
		}
	}
	return result
}

func copyMatrix(m [][]int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// ThresholdField normalizes a Bayer matrix into a signed dither bias:
// every value is divided by n*n and then shifted down by half the largest
// normalized value, centring the field near zero.
func ThresholdField(m [][]int) [][]float64 {
	n := len(m)
	n2 := float64(n * n)
	field := make([][]float64, n)

	hi := 0.0
	for y, row := range m {
		field[y] = make([]float64, len(row))
		for x, v := range row {
			field[y][x] = float64(v) / n2
			if field[y][x] > hi {
				hi = field[y][x]
			}
		}
	}

	shift := 0.5 * hi
	for y := range field {
		for x := range field[y] {
			field[y][x] -= shift
		}
	}
	return field
}
