// Package imageio reads, writes, scales and names the image files handled by
// the dither pipeline.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	ErrUnknownFormat = errors.New("imageio: unknown image format")
	ErrDecodeOnly    = errors.New("imageio: format cannot be encoded")
)

// Codec reads and writes one image file format.
type Codec interface {
	// Name returns the format identifier, as reported by image.Decode.
	Name() string
	// Extensions lists the file extensions for the format, without dots.
	Extensions() []string
	Decode(r io.Reader) (image.Image, error)
	// Encode writes img to w. Decode-only formats return ErrDecodeOnly.
	Encode(w io.Writer, img image.Image) error
}

type pngCodec struct{}

func (pngCodec) Name() string                            { return "png" }
func (pngCodec) Extensions() []string                    { return []string{"png"} }
func (pngCodec) Decode(r io.Reader) (image.Image, error) { return png.Decode(r) }
func (pngCodec) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// jpegCodec drops alpha on encode.
type jpegCodec struct {
	quality int
}

func (jpegCodec) Name() string                            { return "jpeg" }
func (jpegCodec) Extensions() []string                    { return []string{"jpg", "jpeg"} }
func (jpegCodec) Decode(r io.Reader) (image.Image, error) { return jpeg.Decode(r) }
func (c jpegCodec) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: c.quality})
}

// gifCodec keeps the exact colours of images with at most 256 of them, which
// is the common case for dithered output. Anything else is mapped onto the
// Plan 9 palette without further dithering.
type gifCodec struct{}

func (gifCodec) Name() string                            { return "gif" }
func (gifCodec) Extensions() []string                    { return []string{"gif"} }
func (gifCodec) Decode(r io.Reader) (image.Image, error) { return gif.Decode(r) }
func (gifCodec) Encode(w io.Writer, img image.Image) error {
	pal := exactPalette(img, 256)
	if pal == nil {
		pal = palette.Plan9
	}
	b := img.Bounds()
	dst := image.NewPaletted(b, pal)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return gif.Encode(w, dst, &gif.Options{NumColors: len(pal)})
}

func exactPalette(img image.Image, limit int) color.Palette {
	seen := make(map[color.NRGBA]struct{})
	var pal color.Palette
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == limit {
				return nil
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal
}

type bmpCodec struct{}

func (bmpCodec) Name() string                              { return "bmp" }
func (bmpCodec) Extensions() []string                      { return []string{"bmp"} }
func (bmpCodec) Decode(r io.Reader) (image.Image, error)   { return bmp.Decode(r) }
func (bmpCodec) Encode(w io.Writer, img image.Image) error { return bmp.Encode(w, img) }

type tiffCodec struct{}

func (tiffCodec) Name() string                            { return "tiff" }
func (tiffCodec) Extensions() []string                    { return []string{"tif", "tiff"} }
func (tiffCodec) Decode(r io.Reader) (image.Image, error) { return tiff.Decode(r) }
func (tiffCodec) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

type webpCodec struct{}

func (webpCodec) Name() string                            { return "webp" }
func (webpCodec) Extensions() []string                    { return []string{"webp"} }
func (webpCodec) Decode(r io.Reader) (image.Image, error) { return webp.Decode(r) }
func (webpCodec) Encode(io.Writer, image.Image) error {
	return fmt.Errorf("%w: webp", ErrDecodeOnly)
}

var codecs = []Codec{
	pngCodec{},
	jpegCodec{quality: 95},
	gifCodec{},
	bmpCodec{},
	tiffCodec{},
	webpCodec{},
}

// codecsByKey maps format names and extensions to codecs
var codecsByKey = func() map[string]Codec {
	m := make(map[string]Codec)
	for _, c := range codecs {
		m[c.Name()] = c
		for _, ext := range c.Extensions() {
			m[ext] = c
		}
	}
	return m
}()

// Lookup finds a codec by format name or extension ("png", ".JPG", "tif").
func Lookup(name string) (Codec, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	if c, ok := codecsByKey[key]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ForPath finds the codec matching the extension of path.
func ForPath(path string) (Codec, error) {
	return Lookup(filepath.Ext(path))
}

// Formats returns the names of all known formats, sorted.
func Formats() []string {
	names := make([]string, 0, len(codecs))
	for _, c := range codecs {
		names = append(names, c.Name())
	}
	slices.Sort(names)
	return names
}

// Writable reports whether the named format can be encoded.
func Writable(name string) bool {
	c, err := Lookup(name)
	if err != nil {
		return false
	}
	_, decodeOnly := c.(webpCodec)
	return !decodeOnly
}
