package fbtext

import (
	"github.com/bits-and-blooms/bitset"
)

// FallbackWidth is the width in cells of the glyph drawn for characters
// missing from a GlyphTable.
const FallbackWidth = 4

// Glyph is a single character's bitmap. Cells are stored row-major; a set
// bit is foreground. Only the first n cells are backed by font data, any
// cell past that reads as background.
type Glyph struct {
	Code   byte
	Width  int
	Height int

	bits     *bitset.BitSet
	n        uint
	fallback bool
}

// NewGlyph builds a glyph from a bit string. Any byte other than '0' is a
// foreground cell. Bytes past width*height are dropped. A non-positive
// size yields an invalid glyph.
func NewGlyph(code byte, width, height int, bitstring string) Glyph {
	if width <= 0 || height <= 0 {
		return Glyph{}
	}
	area := uint(width * height)
	n := uint(len(bitstring))
	if n > area {
		n = area
	}
	bits := bitset.New(area)
	for i := uint(0); i < n; i++ {
		if bitstring[i] != '0' {
			bits.Set(i)
		}
	}
	return Glyph{Code: code, Width: width, Height: height, bits: bits, n: n}
}

// fallbackGlyph is the solid block drawn for unknown characters.
func fallbackGlyph(code byte, height int) Glyph {
	area := uint(FallbackWidth * height)
	return Glyph{
		Code:     code,
		Width:    FallbackWidth,
		Height:   height,
		bits:     bitset.New(area).FlipRange(0, area),
		n:        area,
		fallback: true,
	}
}

// Valid reports whether g holds a parsed glyph.
func (g Glyph) Valid() bool {
	return g.bits != nil && g.Width > 0
}

// IsFallback reports whether g is the placeholder for a missing character.
func (g Glyph) IsFallback() bool {
	return g.fallback
}

// Len returns the number of cells backed by font data. It is Width*Height
// unless the definition line was short.
func (g Glyph) Len() int {
	return int(g.n)
}

// Cell reports whether the cell at column x, row y is foreground.
func (g Glyph) Cell(x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	return g.cell(uint(y*g.Width + x))
}

// cell reads the i-th cell in row-major order; exhausted cells are off.
func (g Glyph) cell(i uint) bool {
	if i >= g.n {
		return false
	}
	return g.bits.Test(i)
}

// BitString renders the glyph's backed cells back into definition form.
func (g Glyph) BitString() string {
	b := make([]byte, g.n)
	for i := uint(0); i < g.n; i++ {
		if g.bits.Test(i) {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// GlyphTable maps single-byte character codes to glyphs that share one
// height. It is immutable once built and may be shared freely.
type GlyphTable struct {
	height  int
	slots   []Glyph
	index   [256]int
	skipped []*GlyphError
}

// newGlyphTable creates an empty table with room for n slots.
func newGlyphTable(height, n int) *GlyphTable {
	t := &GlyphTable{
		height: height,
		slots:  make([]Glyph, 0, n),
	}
	for i := range t.index {
		t.index[i] = -1
	}
	return t
}

// add appends a slot. Invalid glyphs take a slot but are never indexed,
// and a code already present keeps its first definition.
func (t *GlyphTable) add(g Glyph) (duplicate bool) {
	t.slots = append(t.slots, g)
	if !g.Valid() {
		return false
	}
	if t.index[g.Code] >= 0 {
		return true
	}
	t.index[g.Code] = len(t.slots) - 1
	return false
}

// BuildTable creates a table from glyphs in load order. Glyphs whose
// height differs from height or that are not valid take a slot but never
// resolve, like a malformed definition line.
func BuildTable(height int, glyphs []Glyph) *GlyphTable {
	t := newGlyphTable(height, len(glyphs))
	for _, g := range glyphs {
		if g.Height != height {
			g = Glyph{}
		}
		t.add(g)
	}
	return t
}

// Height returns the shared glyph height in cells.
func (t *GlyphTable) Height() int {
	return t.height
}

// Lookup returns the first glyph loaded for code. A zero GlyphTable
// resolves nothing.
func (t *GlyphTable) Lookup(code byte) (Glyph, bool) {
	i := t.index[code]
	if i < 0 || i >= len(t.slots) {
		return Glyph{}, false
	}
	return t.slots[i], true
}

// Glyph returns the glyph for code, or the fallback block when the table
// has no entry for it.
func (t *GlyphTable) Glyph(code byte) Glyph {
	if g, ok := t.Lookup(code); ok {
		return g
	}
	return fallbackGlyph(code, t.height)
}

// Len returns the number of codes that resolve to a glyph.
func (t *GlyphTable) Len() int {
	n := 0
	for _, i := range t.index {
		if i >= 0 && i < len(t.slots) {
			n++
		}
	}
	return n
}

// Glyphs returns the resolvable glyphs in load order.
func (t *GlyphTable) Glyphs() []Glyph {
	out := make([]Glyph, 0, t.Len())
	for i, g := range t.slots {
		if g.Valid() && t.index[g.Code] == i {
			out = append(out, g)
		}
	}
	return out
}

// Skipped returns the definition lines that could not be parsed.
func (t *GlyphTable) Skipped() []*GlyphError {
	return t.skipped
}
