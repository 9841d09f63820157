package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is a mutable width x height grid of packed ARGB pixels.
type Buffer struct {
	Width  int
	Height int

	// Pixel data (row-major order)
	Data []uint32
}

// NewBuffer creates a zeroed (transparent black) buffer.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Data:   make([]uint32, width*height),
	}
}

// NewUniform creates a buffer with every pixel set to argb.
func NewUniform(width, height int, argb uint32) *Buffer {
	b := NewBuffer(width, height)
	for i := range b.Data {
		b.Data[i] = argb
	}
	return b
}

// Len returns the number of pixels.
func (b *Buffer) Len() int {
	return b.Width * b.Height
}

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At returns the packed pixel at (x, y), or 0 outside the buffer.
func (b *Buffer) At(x, y int) uint32 {
	if !b.In(x, y) {
		return 0
	}
	return b.Data[y*b.Width+x]
}

// Set writes the packed pixel at (x, y). Writes outside the buffer are ignored.
func (b *Buffer) Set(x, y int, argb uint32) {
	if !b.In(x, y) {
		return
	}
	b.Data[y*b.Width+x] = argb
}

// PixelAt returns the unpacked pixel at (x, y).
func (b *Buffer) PixelAt(x, y int) Pixel {
	return Unpack(b.At(x, y))
}

// SetPixel packs and writes p at (x, y).
func (b *Buffer) SetPixel(x, y int, p Pixel) {
	b.Set(x, y, p.Pack())
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Width: b.Width, Height: b.Height, Data: make([]uint32, len(b.Data))}
	copy(c.Data, b.Data)
	return c
}

// Validate checks that Data matches the declared dimensions.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("raster: nil buffer")
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("raster: negative dimensions %dx%d", b.Width, b.Height)
	}
	if len(b.Data) != b.Width*b.Height {
		return fmt.Errorf("raster: data length %d does not match %dx%d", len(b.Data), b.Width, b.Height)
	}
	return nil
}

// FromImage copies any image into a new buffer with non-premultiplied
// channels, origin at (0, 0).
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := NewBuffer(bounds.Dx(), bounds.Dy())

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Height; y++ {
			off := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := nrgba.Pix[off : off+b.Width*4]
			for x := 0; x < b.Width; x++ {
				i := x * 4
				b.Data[y*b.Width+x] = ARGB(row[i+3], row[i], row[i+1], row[i+2])
			}
		}
		return b
	}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			b.Data[y*b.Width+x] = ARGB(c.A, c.R, c.G, c.B)
		}
	}
	return b
}

// ToImage converts the buffer back to an *image.NRGBA.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := b.Data[y*b.Width+x]
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(p >> 16),
				G: uint8(p >> 8),
				B: uint8(p),
				A: uint8(p >> 24),
			})
		}
	}
	return img
}
