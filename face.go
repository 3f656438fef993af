package fbtext

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Face exposes a GlyphTable as a font.Face so it can be drawn with
// font.Drawer onto any draw.Image. Glyph boxes keep the one-cell border
// of DrawGlyph: the advance is (width+2)*scale and the ink starts one
// cell in. Only foreground cells are inked.
//
// Like the faces in golang.org/x/image, a Face caches masks and is not
// safe for concurrent use.
type Face struct {
	table *GlyphTable
	scale int
	masks map[byte]*image.Alpha
}

var _ font.Face = (*Face)(nil)

// NewFace returns a Face drawing table at the given magnification.
func NewFace(table *GlyphTable, scale int) *Face {
	if scale < 1 {
		scale = 1
	}
	return &Face{
		table: table,
		scale: scale,
		masks: make(map[byte]*image.Alpha),
	}
}

// Close implements font.Face.
func (f *Face) Close() error {
	f.masks = nil
	return nil
}

// Metrics implements font.Face. The baseline sits one cell above the
// bottom of the box, under the bottom border.
func (f *Face) Metrics() font.Metrics {
	h := f.table.Height()
	return font.Metrics{
		Height:     fixed.I((h + 2) * f.scale),
		Ascent:     fixed.I((h + 1) * f.scale),
		Descent:    fixed.I(f.scale),
		XHeight:    fixed.I(h * f.scale),
		CapHeight:  fixed.I(h * f.scale),
		CaretSlope: image.Point{X: 0, Y: 1},
	}
}

// Kern implements font.Face. Bitmap glyphs are never kerned.
func (f *Face) Kern(r0, r1 rune) fixed.Int26_6 {
	return 0
}

func (f *Face) lookup(r rune) (Glyph, bool) {
	if r < 0 || r > 0xff {
		return Glyph{}, false
	}
	return f.table.Lookup(byte(r))
}

// GlyphAdvance implements font.Face.
func (f *Face) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	g, ok := f.lookup(r)
	if !ok {
		return 0, false
	}
	return fixed.I((g.Width + 2) * f.scale), true
}

// GlyphBounds implements font.Face.
func (f *Face) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	g, ok := f.lookup(r)
	if !ok {
		return fixed.Rectangle26_6{}, 0, false
	}
	s := f.scale
	bounds := fixed.Rectangle26_6{
		Min: fixed.P(s, -g.Height*s),
		Max: fixed.P((g.Width+1)*s, 0),
	}
	return bounds, fixed.I((g.Width + 2) * s), true
}

// Glyph implements font.Face.
func (f *Face) Glyph(dot fixed.Point26_6, r rune) (
	dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {

	g, ok := f.lookup(r)
	if !ok {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	m := f.mask(g)
	s := f.scale
	x := dot.X.Round() + s
	y := dot.Y.Round() - g.Height*s
	dr = image.Rect(x, y, x+g.Width*s, y+g.Height*s)
	return dr, m, image.Point{}, fixed.I((g.Width + 2) * s), true
}

// mask renders g's cells into a scaled alpha mask.
func (f *Face) mask(g Glyph) *image.Alpha {
	if m, ok := f.masks[g.Code]; ok {
		return m
	}
	s := f.scale
	m := image.NewAlpha(image.Rect(0, 0, g.Width*s, g.Height*s))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.Cell(x, y) {
				continue
			}
			for dy := 0; dy < s; dy++ {
				for dx := 0; dx < s; dx++ {
					m.Pix[m.PixOffset(x*s+dx, y*s+dy)] = 0xff
				}
			}
		}
	}
	if f.masks != nil {
		f.masks[g.Code] = m
	}
	return m
}
