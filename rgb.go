package fbtext

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque 32-bit color packed as 0xAARRGGBB: alpha in bits
// 24-31, red in 16-23, green in 8-15 and blue in 0-7. Writes using a Color
// overwrite the destination; there is no blending.
type Color uint32

// Common colors. The alpha byte is left at zero, which is what most
// framebuffer drivers expect for the unused X channel of XRGB8888.
const (
	Black Color = 0x00000000
	White Color = 0x00ffffff
	Red   Color = 0x00ff0000
	Green Color = 0x0000ff00
	Blue  Color = 0x000000ff
)

// RGBA packs the four channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Channels unpacks c into its red, green, blue and alpha bytes.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// RGBA implements color.Color. The alpha byte of a packed Color is a
// device channel, not coverage, so the conversion always reports an
// opaque color.
func (c Color) RGBA() (r, g, b, a uint32) {
	cr, cg, cb, _ := c.Channels()
	return color.RGBA{R: cr, G: cg, B: cb, A: 0xff}.RGBA()
}

// String formats c as #rrggbbaa.
func (c Color) String() string {
	r, g, b, a := c.Channels()
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// ColorFrom converts any color.Color to a packed Color with the given
// alpha byte.
func ColorFrom(c color.Color, alpha uint8) Color {
	r, g, b, _ := c.RGBA()
	return RGBA(uint8(r>>8), uint8(g>>8), uint8(b>>8), alpha)
}

// ParseColor parses "#rrggbb", "#rrggbbaa", "rrggbb" or "0xAARRGGBB".
// Six-digit forms get a zero alpha byte.
func ParseColor(s string) (Color, error) {
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color(v), nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("invalid color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return Color(v), nil
	}
	// rrggbbaa -> aarrggbb
	return Color(uint32(v)>>8 | uint32(v)<<24), nil
}
