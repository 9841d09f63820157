package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Lookup resolves a variable name to its value, "" when unset.
type Lookup func(key string) string

// Environ returns the process environment layered over the variables found in
// the given .env files. Missing files are skipped; later files override
// earlier ones and the process environment overrides them all.
func Environ(dotenv ...string) (Lookup, error) {
	vars := map[string]string{}
	for _, p := range dotenv {
		m, err := godotenv.Read(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", p, err)
		}
		maps.Copy(vars, m)
	}
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return vars[key]
	}, nil
}

// MapLookup serves variables from m, mostly for tests.
func MapLookup(m map[string]string) Lookup {
	return func(key string) string { return m[key] }
}

// Get returns the value of `key` if set.
// If not set, and `key + "_FILE"` is set, the file at that path is read and
// its trimmed contents are returned. If neither are set, def is returned.
func (l Lookup) Get(key, def string) string {
	if val := l(key); val != "" {
		return val
	}
	if path := l(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return def
}

// ErrInvalidValue is returned when a variable is set but cannot be parsed.
var ErrInvalidValue = errors.New("config: invalid value")

// GetInt parses the result of Get(key, ""). An unset variable yields def; a
// malformed one yields def and an error wrapping ErrInvalidValue.
func (l Lookup) GetInt(key string, def int) (int, error) {
	val := strings.TrimSpace(l.Get(key, ""))
	if val == "" {
		return def, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, key, val)
	}
	return i, nil
}

// GetFloat is GetInt for float64 values.
func (l Lookup) GetFloat(key string, def float64) (float64, error) {
	val := strings.TrimSpace(l.Get(key, ""))
	if val == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidValue, key, val)
	}
	return f, nil
}

// GetBool returns the boolean value of `key`.
// Recognised true values are: 1, t, true, y, yes (case-insensitive).
// Recognised false values are: 0, f, false, n, no.
func (l Lookup) GetBool(key string, def bool) (bool, error) {
	val := strings.TrimSpace(l.Get(key, ""))
	switch strings.ToLower(val) {
	case "":
		return def, nil
	case "1", "t", "true", "y", "yes":
		return true, nil
	case "0", "f", "false", "n", "no":
		return false, nil
	}
	return def, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidValue, key, val)
}
