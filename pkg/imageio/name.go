package imageio

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jpfielding/dither.go/pkg/dither"
)

// OutputName builds the file name for a processed image:
//
//	<base>_Quantize[<operation>,<levels>,<scale>,<spread>].<ext>
//
// ext is the extension of the first one registered for format, or the source
// extension when format is empty.
func OutputName(src string, cfg dither.Config, scale int, format string) (string, error) {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	if format != "" {
		c, err := Lookup(format)
		if err != nil {
			return "", err
		}
		ext = "." + c.Extensions()[0]
	}
	return fmt.Sprintf("%s_Quantize[%s,%d,%d,%s]%s", base, cfg.Operation, cfg.Levels, scale, formatSpread(cfg.Spread), ext), nil
}

// OutputPath joins OutputName with dir, or with the directory of src when dir
// is empty.
func OutputPath(src, dir string, cfg dither.Config, scale int, format string) (string, error) {
	name, err := OutputName(src, cfg, scale, format)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, name), nil
}

// formatSpread always shows a decimal point: 1 -> "1.0", 0.25 -> "0.25".
func formatSpread(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
