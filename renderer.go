package fbtext

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrSurfaceFull is returned by Render when the text needs more lines than
// the surface has room for. Glyphs drawn before that point stay drawn.
var ErrSurfaceFull = errors.New("text does not fit on surface")

// Renderer lays text out on a Surface glyph by glyph, wrapping to a new
// line before a glyph that would cross the right edge.
//
// A Renderer records statistics for its last Render call and must not be
// used by more than one goroutine at a time. The GlyphTable it draws from
// can be shared.
type Renderer struct {
	table *GlyphTable
	scale int
	fg    Color
	bg    Color
	log   logrus.FieldLogger

	stats Stats
}

// Stats counts what the last Render call did.
type Stats struct {
	Glyphs    int // glyphs drawn, fallback blocks included
	Fallbacks int // characters missing from the table
	Wraps     int // line breaks inserted
	Skipped   int // glyphs wider than the whole surface
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a Renderer drawing glyphs from table.
// Default values: scale 1, foreground Red, background Black, no logging.
func NewRenderer(table *GlyphTable, opts ...RendererOption) *Renderer {
	r := &Renderer{
		table: table,
		scale: 1,
		fg:    Red,
		bg:    Black,
		log:   discardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithScale sets the integer magnification; values below 1 mean 1.
func WithScale(scale int) RendererOption {
	return func(r *Renderer) {
		if scale < 1 {
			scale = 1
		}
		r.scale = scale
	}
}

// WithColors sets the foreground and background colors.
func WithColors(fg, bg Color) RendererOption {
	return func(r *Renderer) {
		r.fg = fg
		r.bg = bg
	}
}

// WithLogger sets the logger used for layout warnings.
func WithLogger(l logrus.FieldLogger) RendererOption {
	return func(r *Renderer) {
		r.log = l
	}
}

// Scale returns the magnification in use.
func (r *Renderer) Scale() int {
	return r.scale
}

// Stats returns the counters of the last Render call.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Render draws text starting at the top-left corner of s. Every byte is
// one glyph; bytes missing from the table, newlines included, draw the
// fallback block. A line break happens only when the next glyph would
// overflow the usable width s.Width()/scale, and it is decided before the
// glyph is drawn.
func (r *Renderer) Render(s Surface, text string) error {
	r.stats = Stats{}
	maxX := s.Width() / r.scale
	maxY := s.Height() / r.scale
	lineHeight := r.table.Height() + 2

	x, y := 0, 0
	for i := 0; i < len(text); i++ {
		g := r.table.Glyph(text[i])
		advance := g.Width + 2

		if advance > maxX {
			r.log.WithFields(logrus.Fields{
				"offset": i,
				"code":   string(rune(g.Code)),
				"width":  advance,
				"limit":  maxX,
			}).Warn("glyph wider than surface, skipped")
			r.stats.Skipped++
			continue
		}
		if x > 0 && x+advance > maxX {
			x = 0
			y += lineHeight
			r.stats.Wraps++
		}
		if y+lineHeight > maxY {
			return fmt.Errorf("%w: stopped at byte %d of %d", ErrSurfaceFull, i, len(text))
		}

		if g.IsFallback() {
			r.stats.Fallbacks++
			r.log.WithField("code", fmt.Sprintf("%#02x", g.Code)).Debug("no glyph, drawing fallback")
		}
		x += DrawGlyph(s, x, y, g, r.scale, r.fg, r.bg)
		r.stats.Glyphs++
	}
	return nil
}

// Measure returns the logical size, in unscaled cells, that Render would
// cover for text on a surface usableWidth cells wide.
func (r *Renderer) Measure(text string, usableWidth int) (width, height int) {
	lineHeight := r.table.Height() + 2
	x, lines := 0, 0
	for i := 0; i < len(text); i++ {
		advance := r.table.Glyph(text[i]).Width + 2
		if advance > usableWidth {
			continue
		}
		if lines == 0 {
			lines = 1
		}
		if x > 0 && x+advance > usableWidth {
			x = 0
			lines++
		}
		x += advance
		if x > width {
			width = x
		}
	}
	return width, lines * lineHeight
}
