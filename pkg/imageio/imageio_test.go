package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/dither.go/pkg/dither"
	"github.com/jpfielding/dither.go/pkg/raster"
)

// checker builds a two-colour buffer, opaque unless alpha is given.
func checker(w, h int, alpha uint8) *raster.Buffer {
	b := raster.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				b.Set(x, y, raster.ARGB(alpha, 255, 255, 255))
			} else {
				b.Set(x, y, raster.ARGB(alpha, 0, 0, 0))
			}
		}
	}
	return b
}

func TestLookup(t *testing.T) {
	tests := map[string]string{
		"png":   "png",
		".PNG":  "png",
		"jpg":   "jpeg",
		"jpeg":  "jpeg",
		".tif":  "tiff",
		"tiff":  "tiff",
		"bmp":   "bmp",
		"gif":   "gif",
		"webp":  "webp",
		" Gif ": "gif",
	}
	for in, want := range tests {
		c, err := Lookup(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, c.Name(), in)
	}

	_, err := Lookup("psd")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	c, err := ForPath("/tmp/a/cat.JPEG")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", c.Name())

	assert.Equal(t, []string{"bmp", "gif", "jpeg", "png", "tiff", "webp"}, Formats())
	assert.True(t, Writable("png"))
	assert.False(t, Writable("webp"))
	assert.False(t, Writable("psd"))
	assert.True(t, IsImage("x.bmp"))
	assert.False(t, IsImage("notes.txt"))
}

func TestRoundTrip_Lossless(t *testing.T) {
	src := raster.NewBuffer(5, 3)
	for i := range src.Data {
		src.Data[i] = raster.ARGB(255, uint8(i*17), uint8(255-i*13), uint8(i*5))
	}

	for _, format := range []string{"png", "bmp", "tiff", "gif"} {
		t.Run(format, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, Encode(&out, src, format))

			got, sniffed, err := Decode(&out, ReadOptions{})
			require.NoError(t, err)
			assert.Equal(t, format, sniffed)
			assert.Equal(t, src.Width, got.Width)
			assert.Equal(t, src.Height, got.Height)
			assert.Equal(t, src.Data, got.Data)
		})
	}
}

func TestRoundTrip_PNGAlpha(t *testing.T) {
	src := checker(4, 4, 0x40)
	var out bytes.Buffer
	require.NoError(t, Encode(&out, src, "png"))
	got, _, err := Decode(&out, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, src.Data, got.Data)
}

func TestEncode_JPEG(t *testing.T) {
	src := raster.NewUniform(8, 8, raster.ARGB(255, 120, 120, 120))
	var out bytes.Buffer
	require.NoError(t, Encode(&out, src, "jpg"))
	got, format, err := Decode(&out, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	p := got.PixelAt(3, 3)
	assert.InDelta(t, 120, p[raster.Red], 3)
	assert.Equal(t, 255, p[raster.Alpha])
}

func TestEncode_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, Encode(&out, checker(2, 2, 255), "webp"), ErrDecodeOnly)
	assert.ErrorIs(t, Encode(&out, checker(2, 2, 255), "psd"), ErrUnknownFormat)
	assert.Error(t, Encode(&out, &raster.Buffer{Width: 3, Height: 1}, "png"))

	_, _, err := Decode(bytes.NewReader([]byte("not an image")), ReadOptions{})
	assert.Error(t, err)
}

func TestDecode_Grayscale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 0x80})
	img.SetNRGBA(1, 0, color.NRGBA{G: 200, B: 10, A: 255})
	var out bytes.Buffer
	require.NoError(t, png.Encode(&out, img))

	got, _, err := Decode(&out, ReadOptions{Grayscale: true})
	require.NoError(t, err)
	for x := 0; x < 2; x++ {
		p := got.PixelAt(x, 0)
		assert.Equal(t, p[raster.Red], p[raster.Green])
		assert.Equal(t, p[raster.Red], p[raster.Blue])
	}
	assert.Equal(t, 0x80, got.PixelAt(0, 0)[raster.Alpha])
	assert.InDelta(t, 76, got.PixelAt(0, 0)[raster.Red], 1)
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	src := checker(6, 4, 255)

	path := filepath.Join(dir, "nested", "out.png")
	require.NoError(t, Write(path, src, ""))

	got, format, err := Read(path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, src.Data, got.Data)

	// explicit format wins over the extension
	odd := filepath.Join(dir, "odd.img")
	require.NoError(t, Write(odd, src, "bmp"))
	_, format, err = Read(odd, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)

	_, _, err = Read(filepath.Join(dir, "missing.png"), ReadOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.webp")
	assert.ErrorIs(t, Write(bad, src, ""), ErrDecodeOnly)
	assert.NoFileExists(t, bad)
	assert.ErrorIs(t, Write(filepath.Join(dir, "x.psd"), src, ""), ErrUnknownFormat)
}

func TestScaleDown(t *testing.T) {
	src := raster.NewBuffer(7, 5)
	for i := range src.Data {
		src.Data[i] = uint32(i) | 0x7f000000
	}

	got, err := ScaleDown(src, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Width)
	assert.Equal(t, 2, got.Height)
	for y := 0; y < got.Height; y++ {
		for x := 0; x < got.Width; x++ {
			assert.Equal(t, src.At(x*2, y*2), got.At(x, y), "(%d,%d)", x, y)
		}
	}

	same, err := ScaleDown(src, 1)
	require.NoError(t, err)
	assert.Equal(t, src.Data, same.Data)
	same.Data[0] = 0
	assert.NotEqual(t, src.Data[0], same.Data[0])

	_, err = ScaleDown(src, 6)
	assert.ErrorIs(t, err, ErrTooSmall)
}

func TestScaleDown_TopLeftOfEachCell(t *testing.T) {
	src := raster.NewBuffer(23, 17)
	for i := range src.Data {
		src.Data[i] = uint32(i*2654435761) | 0x01000000
	}

	for factor := 2; factor <= 5; factor++ {
		t.Run(fmt.Sprintf("x%d", factor), func(t *testing.T) {
			got, err := ScaleDown(src, factor)
			require.NoError(t, err)
			require.Equal(t, 23/factor, got.Width)
			require.Equal(t, 17/factor, got.Height)
			for y := 0; y < got.Height; y++ {
				for x := 0; x < got.Width; x++ {
					require.Equal(t, src.At(x*factor, y*factor), got.At(x, y), "(%d,%d)", x, y)
				}
			}
		})
	}
}

func TestScaleUp(t *testing.T) {
	src := checker(3, 2, 0x10)
	src.Set(2, 1, raster.ARGB(0, 12, 34, 56))

	got, err := ScaleUp(src, 3)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Width)
	assert.Equal(t, 6, got.Height)
	for y := 0; y < got.Height; y++ {
		for x := 0; x < got.Width; x++ {
			assert.Equal(t, src.At(x/3, y/3), got.At(x, y), "(%d,%d)", x, y)
		}
	}

	down, err := ScaleDown(got, 3)
	require.NoError(t, err)
	assert.Equal(t, src.Data, down.Data, "scaling is exact for fully transparent pixels too")
}

func TestOutputName(t *testing.T) {
	cfg := dither.Config{Operation: dither.FloydSteinberg, Levels: 4, Spread: 1}

	name, err := OutputName("/photos/cat.jpeg", cfg, 2, "")
	require.NoError(t, err)
	assert.Equal(t, "cat_Quantize[floyd-steinberg,4,2,1.0].jpeg", name)

	cfg.Spread = 0.25
	name, err = OutputName("cat.tar.gif", cfg, 1, "tiff")
	require.NoError(t, err)
	assert.Equal(t, "cat.tar_Quantize[floyd-steinberg,4,1,0.25].tif", name)

	_, err = OutputName("cat.png", cfg, 1, "psd")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	path, err := OutputPath(filepath.Join("in", "dog.png"), "", cfg, 1, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("in", "dog_Quantize[floyd-steinberg,4,1,0.25].png"), path)

	path, err = OutputPath(filepath.Join("in", "dog.png"), "out", cfg, 1, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "dog_Quantize[floyd-steinberg,4,1,0.25].png"), path)
}
