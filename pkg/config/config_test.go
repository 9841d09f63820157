package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/dither.go/pkg/dither"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.NoError(t, s.Validate())
	assert.Equal(t, dither.Simple, s.Operation)
	assert.Equal(t, 1, s.Scale)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "dither.yaml", `
operation: Floyd_Steinberg
levels: 4
range: true
color_space: hsb
spread: 0.75
scale: 3
grayscale: true
output_dir: out
workers: 2
`)
	s, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, dither.FloydSteinberg, s.Operation)
	assert.Equal(t, 4, s.Levels)
	assert.True(t, s.RangeMode)
	assert.Equal(t, dither.HSB, s.ColorSpace)
	assert.InDelta(t, 0.75, s.Spread, 1e-12)
	assert.Equal(t, 8, s.BayerSize, "unset keys keep their defaults")
	assert.Equal(t, 3, s.Scale)
	assert.True(t, s.Grayscale)
	assert.Equal(t, "out", s.OutputDir)
	assert.Equal(t, 2, s.Concurrency())
}

func TestLoad_YAMLErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":       "levles: 3\n",
		"unknown operation": "operation: halftone\n",
		"bad type":          "levels: many\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.yaml", body), nil)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	s, err := Load(writeFile(t, "empty.yaml", ""), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "dither.yaml", "levels: 4\nscale: 2\noperation: stucki\n")
	secret := writeFile(t, "levels", " 16\n")

	s, err := Load(path, MapLookup(map[string]string{
		"DITHER_LEVELS_FILE":   secret,
		"DITHER_OPERATION":     "Bayer8x8",
		"DITHER_BAYER_SIZE":    "4",
		"DITHER_GRAYSCALE":     "yes",
		"DITHER_SPREAD":        "0.5",
		"DITHER_WORKERS":       " 3 ",
		"DITHER_COLOR_SPACE":   "HSV",
		"DITHER_OUTPUT_FORMAT": "png",
	}))
	require.NoError(t, err)
	assert.Equal(t, 16, s.Levels)
	assert.Equal(t, 2, s.Scale)
	assert.Equal(t, dither.Bayer8x8, s.Operation)
	assert.Equal(t, 4, s.BayerSize)
	assert.True(t, s.Grayscale)
	assert.InDelta(t, 0.5, s.Spread, 1e-12)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, dither.HSB, s.ColorSpace)
	assert.Equal(t, "png", s.OutputFormat)
}

func TestApplyEnv_BadEnum(t *testing.T) {
	s := Default()
	assert.ErrorIs(t, s.ApplyEnv(MapLookup(map[string]string{"DITHER_OPERATION": "x"})), dither.ErrUnknownOperation)
	assert.ErrorIs(t, s.ApplyEnv(MapLookup(map[string]string{"DITHER_COLOR_SPACE": "cmyk"})), dither.ErrUnknownColorSpace)
}

func TestEnviron_DotEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(first, []byte("DITHER_TEST_SCALE=2\nDITHER_TEST_LEVELS=3\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("DITHER_TEST_LEVELS=5\n"), 0o644))
	t.Setenv("DITHER_TEST_SCALE", "4")

	env, err := Environ(first, second, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	scale, err := env.GetInt("DITHER_TEST_SCALE", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, scale, "process environment wins")
	levels, err := env.GetInt("DITHER_TEST_LEVELS", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, levels, "later files win")
	assert.Equal(t, "d", env.Get("DITHER_TEST_UNSET", "d"))
}

func TestLookup_GetBool(t *testing.T) {
	env := MapLookup(map[string]string{"T": "Y", "F": "0", "X": "maybe"})
	v, err := env.GetBool("T", false)
	require.NoError(t, err)
	assert.True(t, v)
	v, err = env.GetBool("F", true)
	require.NoError(t, err)
	assert.False(t, v)
	v, err = env.GetBool("UNSET", true)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = env.GetBool("X", true)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.True(t, v)
}

func TestApplyEnv_MalformedValues(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{"DITHER_LEVELS", "abc"},
		{"DITHER_LEVELS", "4.5"},
		{"DITHER_BAYER_SIZE", "eight"},
		{"DITHER_SCALE", "2x"},
		{"DITHER_WORKERS", "not-a-number"},
		{"DITHER_SPREAD", "half"},
		{"DITHER_RANGE", "maybe"},
		{"DITHER_GRAYSCALE", "2"},
		{"DITHER_LOG_JSON", "on"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			s := Default()
			err := s.ApplyEnv(MapLookup(map[string]string{tt.key: tt.val}))
			require.ErrorIs(t, err, ErrInvalidValue)
			assert.Contains(t, err.Error(), tt.key)
			assert.Equal(t, Default(), s, "malformed values leave settings untouched")
		})
	}
}

func TestApplyEnv_ReportsEveryMalformedValue(t *testing.T) {
	s := Default()
	err := s.ApplyEnv(MapLookup(map[string]string{
		"DITHER_LEVELS":  "abc",
		"DITHER_SPREAD":  "half",
		"DITHER_WORKERS": "2",
	}))
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "DITHER_LEVELS")
	assert.Contains(t, err.Error(), "DITHER_SPREAD")
	assert.Equal(t, 2, s.Workers)
}

func TestLoad_MalformedEnv(t *testing.T) {
	_, err := Load("", MapLookup(map[string]string{"DITHER_SCALE": "big"}))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSettings_Validate(t *testing.T) {
	s := Default()
	s.Scale = 6
	s.Workers = -1
	s.Levels = 1
	err := s.Validate()
	assert.ErrorIs(t, err, ErrInvalidScale)
	assert.ErrorIs(t, err, dither.ErrInvalidLevelCount)
	assert.ErrorContains(t, err, "workers")

	s = Default()
	s.Scale = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidScale)
}
