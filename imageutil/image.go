// Package imageutil saves and compares rendered surfaces as ordinary
// images, so framebuffer output can be checked without a display.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Diff counts the pixels whose RGB value differs between a and b. Pixels
// covered by only one of the two images count as different.
func Diff(a, b image.Image) int {
	ab, bb := a.Bounds(), b.Bounds()
	union := ab.Union(bb)
	n := 0
	for y := union.Min.Y; y < union.Max.Y; y++ {
		for x := union.Min.X; x < union.Max.X; x++ {
			p := image.Point{X: x, Y: y}
			inA, inB := p.In(ab), p.In(bb)
			if inA != inB {
				n++
				continue
			}
			if !inA {
				continue
			}
			if RGBFromColor(a.At(x, y)) != RGBFromColor(b.At(x, y)) {
				n++
			}
		}
	}
	return n
}

// Equal reports whether a and b have the same bounds and RGB pixels.
func Equal(a, b image.Image) bool {
	return a.Bounds() == b.Bounds() && Diff(a, b) == 0
}

// Histogram counts pixels per RGB value.
func Histogram(img image.Image) map[RGB]int {
	h := make(map[RGB]int)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			h[RGBFromColor(img.At(x, y))]++
		}
	}
	return h
}
