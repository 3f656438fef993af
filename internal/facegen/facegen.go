// Package facegen rasterizes glyphs of any font.Face into the on/off cells
// of a bitmap font, so TrueType and BDF fonts can be converted into glyph
// definitions.
package facegen

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/wbrown/fbtext"
)

// DefaultThreshold is the alpha cut-off for a cell to count as ink. 25%
// keeps thin strokes and dots of anti-aliased outlines.
const DefaultThreshold = 64

// ASCII is the printable ASCII range.
const ASCII = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// Options controls how a face is cut into cells.
type Options struct {
	// Height of every glyph in cells. Zero uses the face's ascent plus
	// descent.
	Height int
	// Ascent places the baseline this many cells below the top. Zero uses
	// the face's ascent.
	Ascent int
	// Threshold is the alpha above which a cell is foreground. Zero uses
	// DefaultThreshold.
	Threshold uint8
	Log       logrus.FieldLogger
}

func (o *Options) fill(face font.Face) {
	m := face.Metrics()
	if o.Ascent == 0 {
		o.Ascent = m.Ascent.Ceil()
	}
	if o.Height == 0 {
		o.Height = o.Ascent + m.Descent.Ceil()
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Log = l
	}
}

// ErrNoGlyphs is returned when none of the requested characters exist in
// the face.
var ErrNoGlyphs = errors.New("face has none of the requested glyphs")

// Rasterize renders one character. The cell width is the glyph's advance
// rounded up, never less than one. ok is false when the face has no glyph
// for r.
func Rasterize(face font.Face, r rune, opts Options) (g fbtext.Glyph, ok bool) {
	opts.fill(face)
	if r < 0 || r > 0xff {
		return fbtext.Glyph{}, false
	}

	dot := fixed.P(0, opts.Ascent)
	dr, mask, maskp, advance, ok := face.Glyph(dot, r)
	if !ok {
		return fbtext.Glyph{}, false
	}
	width := advance.Ceil()
	if width < 1 {
		width = 1
	}

	img := image.NewAlpha(image.Rect(0, 0, width, opts.Height))
	if mask != nil {
		draw.DrawMask(img, dr, image.Opaque, image.Point{}, mask, maskp, draw.Over)
	}

	bits := make([]byte, 0, width*opts.Height)
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < width; x++ {
			if img.AlphaAt(x, y).A > opts.Threshold {
				bits = append(bits, '1')
			} else {
				bits = append(bits, '0')
			}
		}
	}
	return fbtext.NewGlyph(byte(r), width, opts.Height, string(bits)), true
}

// Build rasterizes every character of chars that the face knows and
// returns them as a table. Characters the face lacks are logged and left
// out.
func Build(face font.Face, chars string, opts Options) (*fbtext.GlyphTable, error) {
	opts.fill(face)
	if opts.Height <= 0 {
		return nil, fmt.Errorf("invalid glyph height %d", opts.Height)
	}

	glyphs := make([]fbtext.Glyph, 0, len(chars))
	for _, r := range chars {
		g, ok := Rasterize(face, r, opts)
		if !ok {
			opts.Log.WithField("char", string(r)).Debug("glyph not in face")
			continue
		}
		glyphs = append(glyphs, g)
	}
	if len(glyphs) == 0 {
		return nil, ErrNoGlyphs
	}
	opts.Log.Infof("Computed %d glyphs of height %d", len(glyphs), opts.Height)
	return fbtext.BuildTable(opts.Height, glyphs), nil
}
