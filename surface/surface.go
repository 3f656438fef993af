// Package surface provides linear 32-bit pixel buffers addressed the way
// Linux framebuffers are: a row stride in bytes, a bytes-per-pixel depth
// and an (x, y) offset into a larger virtual area.
//
// Pixels are stored little-endian BGRA. A packed 0xAARRGGBB value is
// split with explicit shifts, so the byte order in memory does not depend
// on the host.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// BytesPerPixel is the only depth Buffer supports.
const BytesPerPixel = 4

var (
	// ErrDepth is returned for geometries that are not 32 bits per pixel.
	ErrDepth = errors.New("unsupported pixel depth")
	// ErrGeometry is returned when the pixel memory is too small for the
	// geometry that describes it.
	ErrGeometry = errors.New("invalid surface geometry")
)

// Geometry describes how a visible area maps onto linear pixel memory.
type Geometry struct {
	Width, Height    int // visible area in pixels
	XOffset, YOffset int // top-left of the visible area in the memory
	Stride           int // bytes per row
	BytesPerPixel    int
}

// Offset returns the byte offset of pixel (x, y).
func (g Geometry) Offset(x, y int) int {
	return (x+g.XOffset)*g.BytesPerPixel + (y+g.YOffset)*g.Stride
}

// Size returns the smallest memory size that holds the visible area.
func (g Geometry) Size() int {
	if g.Width <= 0 || g.Height <= 0 {
		return 0
	}
	return g.Offset(g.Width-1, g.Height-1) + g.BytesPerPixel
}

// Buffer is a Geometry over a byte slice. It satisfies the Surface
// interface of the fbtext package and draw.Image.
type Buffer struct {
	Geometry
	Pix []byte
}

// NewBuffer allocates a zeroed width x height buffer with a tight stride.
func NewBuffer(width, height int) *Buffer {
	g := Geometry{
		Width:         width,
		Height:        height,
		Stride:        width * BytesPerPixel,
		BytesPerPixel: BytesPerPixel,
	}
	return &Buffer{Geometry: g, Pix: make([]byte, g.Size())}
}

// New wraps existing pixel memory, such as a mapped framebuffer.
func New(pix []byte, g Geometry) (*Buffer, error) {
	if g.BytesPerPixel != BytesPerPixel {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrDepth, g.BytesPerPixel*8)
	}
	if g.Width <= 0 || g.Height <= 0 || g.Stride < g.Width*g.BytesPerPixel {
		return nil, fmt.Errorf("%w: %dx%d stride %d", ErrGeometry, g.Width, g.Height, g.Stride)
	}
	if need := g.Size(); len(pix) < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrGeometry, need, len(pix))
	}
	return &Buffer{Geometry: g, Pix: pix}, nil
}

// Width returns the visible width in pixels.
func (b *Buffer) Width() int {
	return b.Geometry.Width
}

// Height returns the visible height in pixels.
func (b *Buffer) Height() int {
	return b.Geometry.Height
}

// WritePixel stores packed (0xAARRGGBB) at (x, y) as the bytes B, G, R, A.
// Coordinates are not checked.
func (b *Buffer) WritePixel(x, y int, packed uint32) {
	loc := b.Offset(x, y)
	b.Pix[loc] = byte(packed)
	b.Pix[loc+1] = byte(packed >> 8)
	b.Pix[loc+2] = byte(packed >> 16)
	b.Pix[loc+3] = byte(packed >> 24)
}

// PixelAt returns the packed value stored at (x, y).
func (b *Buffer) PixelAt(x, y int) uint32 {
	loc := b.Offset(x, y)
	return uint32(b.Pix[loc]) |
		uint32(b.Pix[loc+1])<<8 |
		uint32(b.Pix[loc+2])<<16 |
		uint32(b.Pix[loc+3])<<24
}

// Clear fills the visible area with packed.
func (b *Buffer) Clear(packed uint32) {
	for y := 0; y < b.Geometry.Height; y++ {
		for x := 0; x < b.Geometry.Width; x++ {
			b.WritePixel(x, y, packed)
		}
	}
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Geometry.Width, b.Geometry.Height)
}

// At implements image.Image. The alpha byte is a device channel and is
// ignored; every pixel reads as opaque.
func (b *Buffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return color.RGBA{}
	}
	p := b.PixelAt(x, y)
	return color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xff}
}

// Set implements draw.Image so the buffer can be a font.Drawer target.
// Out of range points are ignored, matching image.RGBA.
func (b *Buffer) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return
	}
	r, g, bl, _ := c.RGBA()
	b.WritePixel(x, y, uint32(r>>8)<<16|uint32(g>>8)<<8|uint32(bl>>8))
}

// Snapshot copies the visible area into an opaque image.RGBA.
func (b *Buffer) Snapshot() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	for y := 0; y < b.Geometry.Height; y++ {
		for x := 0; x < b.Geometry.Width; x++ {
			p := b.PixelAt(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(p >> 16)
			img.Pix[i+1] = uint8(p >> 8)
			img.Pix[i+2] = uint8(p)
			img.Pix[i+3] = 0xff
		}
	}
	return img
}
