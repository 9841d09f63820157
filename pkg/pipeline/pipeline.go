// Package pipeline runs the dither operation over image files: read, scale
// down, process, scale up, save.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jpfielding/dither.go/pkg/config"
	"github.com/jpfielding/dither.go/pkg/dither"
	"github.com/jpfielding/dither.go/pkg/imageio"
	"github.com/jpfielding/dither.go/pkg/logging"
	"github.com/jpfielding/dither.go/pkg/raster"
	"github.com/jpfielding/dither.go/pkg/util"
)

// Stage names, in execution order.
const (
	StageRead      = "read"
	StageScaleDown = "scale-down"
	StageDither    = "dither"
	StageScaleUp   = "scale-up"
	StageSave      = "save"
)

// StageTiming is how long one stage of a job took.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// Result describes one processed file.
type Result struct {
	// ID is stable for a given source path and settings.
	ID     string
	Source string
	Output string
	Width  int
	Height int
	Stages []StageTiming
	Err    error
}

// Elapsed sums the stage timings.
func (r Result) Elapsed() time.Duration {
	var d time.Duration
	for _, s := range r.Stages {
		d += s.Duration
	}
	return d
}

type jobKey struct {
	Source   string
	Settings config.Settings
}

// Runner processes files with a fixed set of settings. It is safe for
// concurrent use.
type Runner struct {
	settings config.Settings
}

// New validates s and returns a Runner for it.
func New(s config.Settings) (*Runner, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.OutputFormat != "" && !imageio.Writable(s.OutputFormat) {
		if _, err := imageio.Lookup(s.OutputFormat); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", imageio.ErrDecodeOnly, s.OutputFormat)
	}
	return &Runner{settings: s}, nil
}

// Settings returns the settings the runner was built with.
func (r *Runner) Settings() config.Settings {
	return r.settings
}

// Run processes a single file. The returned Result carries the same error.
func (r *Runner) Run(ctx context.Context, src string) (Result, error) {
	s := r.settings
	res := Result{
		ID:     util.HashUUID(jobKey{Source: src, Settings: s}),
		Source: src,
	}
	ctx = logging.AppendCtx(ctx, slog.String("job", res.ID))
	fail := func(err error) (Result, error) {
		res.Err = err
		return res, err
	}

	format := s.OutputFormat
	var buf *raster.Buffer
	err := res.stage(ctx, StageRead, func() (err error) {
		var decoded string
		buf, decoded, err = imageio.Read(src, imageio.ReadOptions{Grayscale: s.Grayscale})
		if format == "" {
			format = writableOr(decoded, "png")
		}
		return err
	})
	if err != nil {
		return fail(err)
	}
	res.Width, res.Height = buf.Width, buf.Height

	out, err := imageio.OutputPath(src, s.OutputDir, s.Config, s.Scale, format)
	if err != nil {
		return fail(err)
	}
	res.Output = out

	if err := res.stage(ctx, StageScaleDown, func() (err error) {
		buf, err = imageio.ScaleDown(buf, s.Scale)
		return err
	}); err != nil {
		return fail(fmt.Errorf("%s: %w", src, err))
	}
	if err := res.stage(ctx, StageDither, func() error {
		return dither.Process(buf, s.Config)
	}); err != nil {
		return fail(fmt.Errorf("%s: %w", src, err))
	}
	if err := res.stage(ctx, StageScaleUp, func() (err error) {
		buf, err = imageio.ScaleUp(buf, s.Scale)
		return err
	}); err != nil {
		return fail(fmt.Errorf("%s: %w", src, err))
	}
	if err := res.stage(ctx, StageSave, func() error {
		return imageio.Write(out, buf, format)
	}); err != nil {
		return fail(err)
	}

	slog.InfoContext(ctx, "processed", "src", src, "out", out, "elapsed", res.Elapsed())
	return res, nil
}

// stage runs fn and records its duration. Stages are skipped once ctx is done.
func (res *Result) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	d := time.Since(start)
	res.Stages = append(res.Stages, StageTiming{Stage: name, Duration: d})
	slog.DebugContext(ctx, "stage", "name", name, "took", d, "error", err)
	return err
}

// writableOr returns format when it can be encoded, otherwise fallback.
func writableOr(format, fallback string) string {
	if format != "" && imageio.Writable(format) {
		return format
	}
	return fallback
}

// Expand turns the arguments into a sorted list of image files. Directories
// contribute the image files directly inside them. Previous output, whose
// names carry the _Quantize[ marker, is skipped when found in a directory.
func Expand(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !imageio.IsImage(name) || strings.Contains(name, "_Quantize[") {
				continue
			}
			files = append(files, filepath.Join(arg, name))
		}
	}
	if len(files) == 0 {
		return nil, errors.New("pipeline: no image files found")
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}
