package imageio

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/jpfielding/dither.go/pkg/raster"
)

var ErrTooSmall = errors.New("imageio: image smaller than scale factor")

// ScaleDown shrinks buf by an integer factor, keeping the top-left pixel of
// every factor x factor cell. Trailing rows and columns that do not fill a
// whole cell are dropped. A factor of 1 or less returns a copy.
func ScaleDown(buf *raster.Buffer, factor int) (*raster.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if factor <= 1 {
		return buf.Clone(), nil
	}
	w, h := buf.Width/factor, buf.Height/factor
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: %dx%d by %d", ErrTooSmall, buf.Width, buf.Height, factor)
	}
	// Plain nearest-neighbour scaling samples cell centres; the translation
	// moves each destination pixel centre onto src (x*factor+0.5, y*factor+0.5).
	inv := 1 / float64(factor)
	t := 0.5 - 0.5*inv
	src := buf.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Transform(dst, f64.Aff3{inv, 0, t, 0, inv, t}, asRGBA(src), src.Bounds(), draw.Src, nil)
	return fromRGBA(dst), nil
}

// ScaleUp enlarges buf by an integer factor, turning each pixel into a
// factor x factor block. A factor of 1 or less returns a copy.
func ScaleUp(buf *raster.Buffer, factor int) (*raster.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if factor <= 1 {
		return buf.Clone(), nil
	}
	src := buf.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, buf.Width*factor, buf.Height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), asRGBA(src), src.Bounds(), draw.Src, nil)
	return fromRGBA(dst), nil
}

// The scalers run over the raw samples: NRGBA bytes are presented as RGBA so
// draw copies them verbatim instead of round-tripping through premultiplied
// colour.
func asRGBA(n *image.NRGBA) *image.RGBA {
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}

func fromRGBA(m *image.RGBA) *raster.Buffer {
	return raster.FromImage(&image.NRGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect})
}
