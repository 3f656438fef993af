package fbtext

// Surface is a pixel target addressed in physical pixels. WritePixel
// receives a packed 0xAARRGGBB value and must store it opaquely; callers
// keep coordinates inside Width x Height.
type Surface interface {
	Width() int
	Height() int
	WritePixel(x, y int, packed uint32)
}

// DrawGlyph paints g with its one-cell border at logical origin
// (originX, originY), each logical cell becoming a scale x scale block.
// The border is background for real glyphs and foreground for the
// fallback block. It returns the horizontal advance, g.Width+2.
func DrawGlyph(s Surface, originX, originY int, g Glyph, scale int, fg, bg Color) int {
	if scale < 1 {
		scale = 1
	}
	border := bg
	if g.fallback {
		border = fg
	}

	w, h := g.Width+2, g.Height+2
	var next uint
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			c := border
			if i > 0 && i < w-1 && j > 0 && j < h-1 {
				c = bg
				if g.cell(next) {
					c = fg
				}
				next++
			}
			fillCell(s, originX+i, originY+j, scale, c)
		}
	}
	return w
}

// fillCell expands logical cell (cx, cy) into its scaled pixel block.
func fillCell(s Surface, cx, cy, scale int, c Color) {
	px, py := cx*scale, cy*scale
	for dy := 0; dy < scale; dy++ {
		for dx := 0; dx < scale; dx++ {
			s.WritePixel(px+dx, py+dy, uint32(c))
		}
	}
}
