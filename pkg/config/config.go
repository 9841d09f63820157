// Package config layers ditherctl settings from defaults, a YAML file and the
// environment. Command line flags are applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/jpfielding/dither.go/pkg/dither"
)

// Environment variable prefix.
const Prefix = "DITHER_"

const (
	MinScale = 1
	MaxScale = 5
)

var ErrInvalidScale = errors.New("config: scale out of range")

// Settings is everything a run needs: the dither configuration plus the
// surrounding pipeline knobs.
type Settings struct {
	dither.Config `yaml:",inline"`

	// Scale is the pixel-art factor: images are shrunk by it before
	// dithering and enlarged by it afterwards.
	Scale     int  `yaml:"scale"`
	Grayscale bool `yaml:"grayscale"`
	// OutputDir defaults to the directory of each source file.
	OutputDir string `yaml:"output_dir"`
	// OutputFormat defaults to the format of each source file.
	OutputFormat string `yaml:"output_format"`
	// Workers bounds the number of files processed at once; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	LogJSON  bool   `yaml:"log_json"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Config:   dither.DefaultConfig(),
		Scale:    MinScale,
		LogLevel: "INFO",
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped when
// path is empty) and then with env.
func Load(path string, env Lookup) (Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return s, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	if env != nil {
		if err := s.ApplyEnv(env); err != nil {
			return s, err
		}
	}
	return s, nil
}

// ApplyEnv overrides fields with any DITHER_* variables that are set. Every
// malformed number or boolean is reported; those fields keep their value.
func (s *Settings) ApplyEnv(env Lookup) error {
	if v := env.Get(Prefix+"OPERATION", ""); v != "" {
		op, err := dither.ParseOperation(v)
		if err != nil {
			return fmt.Errorf("config: %sOPERATION: %w", Prefix, err)
		}
		s.Operation = op
	}
	if v := env.Get(Prefix+"COLOR_SPACE", ""); v != "" {
		cs, err := dither.ParseColorSpace(v)
		if err != nil {
			return fmt.Errorf("config: %sCOLOR_SPACE: %w", Prefix, err)
		}
		s.ColorSpace = cs
	}
	var errs []error
	setInt := func(name string, dst *int) {
		v, err := env.GetInt(Prefix+name, *dst)
		errs = append(errs, err)
		*dst = v
	}
	setBool := func(name string, dst *bool) {
		v, err := env.GetBool(Prefix+name, *dst)
		errs = append(errs, err)
		*dst = v
	}
	setInt("LEVELS", &s.Levels)
	setBool("RANGE", &s.RangeMode)
	spread, err := env.GetFloat(Prefix+"SPREAD", s.Spread)
	errs = append(errs, err)
	s.Spread = spread
	setInt("BAYER_SIZE", &s.BayerSize)

	setInt("SCALE", &s.Scale)
	setBool("GRAYSCALE", &s.Grayscale)
	s.OutputDir = env.Get(Prefix+"OUTPUT_DIR", s.OutputDir)
	s.OutputFormat = env.Get(Prefix+"OUTPUT_FORMAT", s.OutputFormat)
	setInt("WORKERS", &s.Workers)

	s.LogLevel = env.Get(Prefix+"LOG_LEVEL", s.LogLevel)
	s.LogFile = env.Get(Prefix+"LOG_FILE", s.LogFile)
	setBool("LOG_JSON", &s.LogJSON)
	return errors.Join(errs...)
}

// Validate checks the dither configuration and the pipeline knobs.
func (s Settings) Validate() error {
	errs := []error{s.Config.Validate()}
	if s.Scale < MinScale || s.Scale > MaxScale {
		errs = append(errs, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidScale, s.Scale, MinScale, MaxScale))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("config: workers must not be negative: %d", s.Workers))
	}
	return errors.Join(errs...)
}

// Concurrency returns the effective worker count.
func (s Settings) Concurrency() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}
