package raster

// Channel indices into an unpacked Pixel.
const (
	Alpha = iota
	Red
	Green
	Blue
)

// Pixel is an unpacked ARGB pixel, each channel 0-255.
// Channels are kept as int so intermediate arithmetic can leave 0-255
// before being clamped.
type Pixel [4]int

// Unpack splits a packed 0xAARRGGBB value into its channels.
func Unpack(argb uint32) Pixel {
	return Pixel{
		int(argb>>24) & 0xFF,
		int(argb>>16) & 0xFF,
		int(argb>>8) & 0xFF,
		int(argb) & 0xFF,
	}
}

// Pack joins the channels back into 0xAARRGGBB. Channels are clamped to 0-255.
func (p Pixel) Pack() uint32 {
	return uint32(Clamp(p[Alpha]))<<24 |
		uint32(Clamp(p[Red]))<<16 |
		uint32(Clamp(p[Green]))<<8 |
		uint32(Clamp(p[Blue]))
}

// ARGB builds a packed pixel from individual channels.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Clamp limits v to 0-255.
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
