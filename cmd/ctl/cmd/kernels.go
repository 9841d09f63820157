package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dither.go/pkg/dither"
)

// NewKernelsCmd lists the operation catalog
func NewKernelsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kernels [operation]",
		Short: "list operations and their diffusion weights",
		Long:  "Lists every operation. Diffusion kernels are printed with their weights, the column of the current pixel and the weight sum.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := dither.Operations()
			if len(args) == 1 {
				op, err := dither.ParseOperation(args[0])
				if err != nil {
					return err
				}
				ops = []dither.Operation{op}
			}
			for _, op := range ops {
				printOperation(cmd.OutOrStdout(), op)
			}
			return nil
		},
	}
	return cmd
}

func printOperation(w io.Writer, op dither.Operation) {
	k, ok := op.Kernel()
	switch {
	case op == dither.Simple:
		fmt.Fprintf(w, "%s: quantization only\n", op)
		return
	case op == dither.Bayer8x8:
		fmt.Fprintf(w, "%s: ordered dithering (default %dx%d)\n", op, dither.DefaultOrderedSize, dither.DefaultOrderedSize)
		return
	case !ok:
		fmt.Fprintf(w, "%s\n", op)
		return
	}
	fmt.Fprintf(w, "%s: error diffusion, center column %d, sum %.4f\n", op, k.Center, k.Sum())
	for _, row := range k.Weights {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%.4f", v)
		}
		fmt.Fprintf(w, "\t%s\n", strings.Join(cells, " "))
	}
}
