// Package dither reduces the colour precision of a raster.Buffer and hides the
// lost precision with ordered (Bayer) or error-diffusion dithering.
//
// Quantization runs either on the R, G and B channels directly or on the HSB
// brightness only, and either across the full 0-255 scale or inside a
// symmetric luminance window measured from the image itself ("range mode").
//
// Every operation mutates the buffer in place and never touches alpha.
// Configuration is validated, and any range analysis is done, before the first
// pixel is written.
//
// Basic usage:
//
//	cfg := dither.DefaultConfig()
//	cfg.Operation = dither.FloydSteinberg
//	cfg.Levels = 4
//	err := dither.Process(buf, cfg)
package dither
