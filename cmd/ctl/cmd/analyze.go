package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jpfielding/dither.go/pkg/dither"
	"github.com/jpfielding/dither.go/pkg/imageio"
)

// Analysis is the report printed by the analyze command.
type Analysis struct {
	File       string       `json:"file"`
	Format     string       `json:"format"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Luma       dither.Range `json:"luma"`
	Brightness dither.Range `json:"brightness"`
}

// NewAnalyzeCmd creates the analyze cobra command
func NewAnalyzeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "report an image's luminance and brightness range",
		Long: "Prints the symmetric range around the mean luminance (rgb) and mean brightness (hsb) " +
			"that --range quantization would use for the image.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grayscale, _ := cmd.Flags().GetBool("grayscale")
			format, _ := cmd.Flags().GetString("format")
			a, err := runAnalyze(args[0], grayscale)
			if err != nil {
				return err
			}
			return printAnalysis(cmd.OutOrStdout(), a, format)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("grayscale", "g", false, "convert to grayscale on load")
	pf.StringP("format", "f", "text", "output format (text|json)")
	return cmd
}

func runAnalyze(path string, grayscale bool) (Analysis, error) {
	buf, format, err := imageio.Read(path, imageio.ReadOptions{Grayscale: grayscale})
	if err != nil {
		return Analysis{}, err
	}
	a := Analysis{File: path, Format: format, Width: buf.Width, Height: buf.Height}
	if a.Luma, err = dither.ComputeRange(buf, false); err != nil {
		return a, fmt.Errorf("%s: %w", path, err)
	}
	if a.Brightness, err = dither.ComputeRange(buf, true); err != nil {
		return a, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func printAnalysis(w io.Writer, a Analysis, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case "text":
		fmt.Fprintf(w, "File: %s (%s, %dx%d)\n", a.File, a.Format, a.Width, a.Height)
		fmt.Fprintf(w, "Luma: %s width=%.3f\n", a.Luma, a.Luma.Width())
		fmt.Fprintf(w, "Brightness: %s width=%.4f\n", a.Brightness, a.Brightness.Width())
		if a.Luma.Validate() != nil {
			fmt.Fprintln(w, "Range quantization is not possible: the image has no luminance spread.")
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}
