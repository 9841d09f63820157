package dither

import (
	"fmt"
	"strings"
)

// ColorSpace selects the channels a quantizer works on.
type ColorSpace int

const (
	// RGB quantizes red, green and blue independently.
	RGB ColorSpace = iota
	// HSB quantizes only the brightness of the hue/saturation/brightness form.
	HSB
)

var colorSpaceNames = [...]string{"rgb", "hsb"}

// String returns the lowercase name of the colour space.
func (c ColorSpace) String() string {
	if c.Valid() {
		return colorSpaceNames[c]
	}
	return fmt.Sprintf("ColorSpace(%d)", int(c))
}

// Valid reports whether c is RGB or HSB.
func (c ColorSpace) Valid() bool {
	return c >= 0 && int(c) < len(colorSpaceNames)
}

// ParseColorSpace accepts "rgb" or "hsb" (also "hsv"), case-insensitively.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb":
		return RGB, nil
	case "hsb", "hsv":
		return HSB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColorSpace, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c ColorSpace) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColorSpace, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ColorSpace) UnmarshalText(text []byte) error {
	v, err := ParseColorSpace(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
