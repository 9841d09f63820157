package imageio

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/jpfielding/dither.go/pkg/raster"
)

// ReadOptions tune how an image is loaded.
type ReadOptions struct {
	// Grayscale converts the image to gray before it is returned. Alpha is kept.
	Grayscale bool
}

// Decode reads one image from r, sniffing the format from its header. It
// returns the pixels and the format name.
func Decode(r io.Reader, opts ReadOptions) (*raster.Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	if opts.Grayscale {
		img = imaging.Grayscale(img)
	}
	return raster.FromImage(img), format, nil
}

// Read loads the image file at path.
func Read(path string, opts ReadOptions) (*raster.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	buf, format, err := Decode(bufio.NewReader(f), opts)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return buf, format, nil
}

// Encode writes buf to w in the named format.
func Encode(w io.Writer, buf *raster.Buffer, format string) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	c, err := Lookup(format)
	if err != nil {
		return err
	}
	return c.Encode(w, buf.ToImage())
}

// Write saves buf to path, creating parent directories as needed. An empty
// format is inferred from the extension of path. A partially written file is
// removed on error.
func Write(path string, buf *raster.Buffer, format string) (err error) {
	if format == "" {
		c, err := ForPath(path)
		if err != nil {
			return err
		}
		format = c.Name()
	}
	if !Writable(format) {
		if _, err := Lookup(format); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrDecodeOnly, format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, buf, format); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return bw.Flush()
}

// IsImage reports whether path has an extension of a known format.
func IsImage(path string) bool {
	_, err := ForPath(path)
	return err == nil
}
