package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jpfielding/dither.go/pkg/config"
	"github.com/jpfielding/dither.go/pkg/dither"
	"github.com/jpfielding/dither.go/pkg/imageio"
	"github.com/jpfielding/dither.go/pkg/pipeline"
)

// NewProcessCmd dithers image files and directories of images
func NewProcessCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <file|dir>...",
		Short: "quantize and dither images",
		Long: "Reads each image, optionally shrinks it by --scale, applies the operation and " +
			"writes <name>_Quantize[<op>,<levels>,<scale>,<spread>].<ext> next to it or into --out-dir.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd.Flags(), &s); err != nil {
				return err
			}
			r, err := pipeline.New(s)
			if err != nil {
				return err
			}
			files, err := pipeline.Expand(args)
			if err != nil {
				return err
			}

			quiet, _ := cmd.Flags().GetBool("quiet")
			out := cmd.OutOrStdout()
			batch, err := r.RunBatch(ctx, files, func(p pipeline.Progress) {
				if quiet {
					return
				}
				if p.Result.Err != nil {
					fmt.Fprintf(out, "[%d/%d] %s: %v\n", p.Done, p.Total, p.Result.Source, p.Result.Err)
					return
				}
				fmt.Fprintf(out, "[%d/%d] %s -> %s (%s)\n", p.Done, p.Total, p.Result.Source, p.Result.Output, p.Result.Elapsed())
			})
			if err != nil {
				return fmt.Errorf("%d of %d files failed: %w", len(batch.Failed()), len(files), err)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("operation", "o", dither.Simple.String(), "one of: "+strings.Join(operationNames(), ", "))
	pf.IntP("levels", "l", dither.MinLevels, "colour levels per channel (2-256)")
	pf.BoolP("range", "r", false, "quantize within the image's own luminance range")
	pf.String("color-space", dither.RGB.String(), "rgb or hsb")
	pf.Float64("spread", 1.0, "dither strength, 0 disables the perturbation")
	pf.Int("bayer-size", dither.DefaultOrderedSize, "Bayer matrix size for bayer8x8, a power of two")
	pf.IntP("scale", "s", config.MinScale, fmt.Sprintf("pixel-art factor (%d-%d)", config.MinScale, config.MaxScale))
	pf.BoolP("grayscale", "g", false, "convert to grayscale on load")
	pf.String("out-dir", "", "write results here instead of next to the sources")
	pf.StringP("format", "f", "", "output format ("+strings.Join(writableFormats(), ", ")+"), default keeps the source format")
	pf.IntP("workers", "w", 0, "files processed at once, 0 means one per CPU")
	pf.BoolP("quiet", "q", false, "do not print per-file progress")
	return cmd
}

// applyFlags overrides s with every flag set on the command line.
func applyFlags(flags *pflag.FlagSet, s *config.Settings) error {
	if flags.Changed("operation") {
		v, _ := flags.GetString("operation")
		op, err := dither.ParseOperation(v)
		if err != nil {
			return err
		}
		s.Operation = op
	}
	if flags.Changed("color-space") {
		v, _ := flags.GetString("color-space")
		cs, err := dither.ParseColorSpace(v)
		if err != nil {
			return err
		}
		s.ColorSpace = cs
	}
	if flags.Changed("levels") {
		s.Levels, _ = flags.GetInt("levels")
	}
	if flags.Changed("range") {
		s.RangeMode, _ = flags.GetBool("range")
	}
	if flags.Changed("spread") {
		s.Spread, _ = flags.GetFloat64("spread")
	}
	if flags.Changed("bayer-size") {
		s.BayerSize, _ = flags.GetInt("bayer-size")
	}
	if flags.Changed("scale") {
		s.Scale, _ = flags.GetInt("scale")
	}
	if flags.Changed("grayscale") {
		s.Grayscale, _ = flags.GetBool("grayscale")
	}
	if flags.Changed("out-dir") {
		s.OutputDir, _ = flags.GetString("out-dir")
	}
	if flags.Changed("format") {
		s.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("workers") {
		s.Workers, _ = flags.GetInt("workers")
	}
	return nil
}

func operationNames() []string {
	var names []string
	for _, op := range dither.Operations() {
		names = append(names, op.String())
	}
	return names
}

func writableFormats() []string {
	var names []string
	for _, f := range imageio.Formats() {
		if imageio.Writable(f) {
			names = append(names, f)
		}
	}
	return names
}
