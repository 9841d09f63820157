package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dither.go/pkg/dither"
)

// NewBayerCmd prints Bayer threshold matrices
func NewBayerCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bayer <n>",
		Short: "print an n x n Bayer matrix",
		Long:  "Prints the Bayer index matrix for a power of two n, or with --normalized the signed threshold field used by ordered dithering.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("matrix size: %w", err)
			}
			m, err := dither.BayerMatrix(n)
			if err != nil {
				return err
			}
			normalized, _ := cmd.Flags().GetBool("normalized")
			if normalized {
				printField(cmd.OutOrStdout(), dither.ThresholdField(m))
			} else {
				printMatrix(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.BoolP("normalized", "n", false, "print the threshold field in [-0.5, 0.5)")
	return cmd
}

func printMatrix(w io.Writer, m [][]int) {
	width := len(strconv.Itoa(len(m)*len(m) - 1))
	for _, row := range m {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%*d", width, v)
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

func printField(w io.Writer, f [][]float64) {
	for _, row := range f {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%7.4f", v)
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}
