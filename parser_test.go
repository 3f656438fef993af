package fbtext

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestParseFontGlyphs(t *testing.T) {
	t.Parallel()

	table := loadTestFont(t)
	if table.Height() != 5 {
		t.Errorf("Expected height 5, got %d", table.Height())
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 glyphs, got %d", table.Len())
	}

	a, ok := table.Lookup('A')
	if !ok {
		t.Fatal("Expected glyph for 'A'")
	}
	if a.Width != 4 || a.Height != 5 {
		t.Errorf("Expected 4x5 glyph, got %dx%d", a.Width, a.Height)
	}
	if got := a.BitString(); got != "01101001111110011001" {
		t.Errorf("Unexpected bits for 'A': %s", got)
	}
	for y, row := range glyphA {
		for x := range row {
			if a.Cell(x, y) != (row[x] == '1') {
				t.Errorf("Cell (%d,%d) of 'A' should be %c", x, y, row[x])
			}
		}
	}

	space, ok := table.Lookup(' ')
	if !ok {
		t.Fatal("Expected glyph for ' '")
	}
	if strings.Contains(space.BitString(), "1") {
		t.Error("Space should have no foreground cells")
	}

	if _, ok := table.Lookup('B'); ok {
		t.Error("Lookup of a missing code should fail")
	}
}

func TestParseFontNonZeroIsForeground(t *testing.T) {
	table, err := ParseFont(strings.NewReader("1 1\nx|3|0x.\n"))
	if err != nil {
		t.Fatal(err)
	}
	g, _ := table.Lookup('x')
	if g.Cell(0, 0) || !g.Cell(1, 0) || !g.Cell(2, 0) {
		t.Errorf("Expected only '0' to be background, got %s", g.BitString())
	}
}

func TestParseFontDuplicateFirstWins(t *testing.T) {
	logger, hook := test.NewNullLogger()
	doc := "3 1\n" +
		"A|2|10\n" +
		"A|3|111\n" +
		"B|1|1\n"

	table, err := ParseFont(strings.NewReader(doc), WithParseLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		g, ok := table.Lookup('A')
		if !ok || g.Width != 2 || g.BitString() != "10" {
			t.Errorf("Lookup %d: expected first definition of 'A', got width %d bits %s", i, g.Width, g.BitString())
		}
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 resolvable codes, got %d", table.Len())
	}
	if got := len(table.Glyphs()); got != 2 {
		t.Errorf("Expected Glyphs to list 2 entries, got %d", got)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Data["line"] != 3 {
		t.Errorf("Expected a warning about line 3, got %+v", entry)
	}
}

func TestParseFontMalformedLineSkipped(t *testing.T) {
	logger, hook := test.NewNullLogger()
	doc := "3 5\n" +
		"A|4|01101001111110011001\n" +
		"B|4|\n" +
		" |4|00000000000000000000\n"

	table, err := ParseFont(strings.NewReader(doc), WithParseLogger(logger))
	if err != nil {
		t.Fatalf("Malformed glyph line should not be fatal: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Expected num_of_char-1 = 2 usable glyphs, got %d", table.Len())
	}
	if _, ok := table.Lookup('B'); ok {
		t.Error("Malformed glyph must never resolve")
	}
	if a, ok := table.Lookup('A'); !ok || a.BitString() != "01101001111110011001" {
		t.Error("Glyph loaded before the malformed line should be unaffected")
	}

	skipped := table.Skipped()
	if len(skipped) != 1 {
		t.Fatalf("Expected 1 skipped line, got %d", len(skipped))
	}
	if skipped[0].Line != 3 || skipped[0].Fields != 2 || skipped[0].Text != "B|4|" {
		t.Errorf("Unexpected skip report: %+v", skipped[0])
	}
	if !errors.Is(skipped[0], errNoBitString) {
		t.Errorf("Expected missing bit string error, got %v", skipped[0].Err)
	}

	warned := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["fields"] == 2 {
			warned++
		}
	}
	if warned != 1 {
		t.Errorf("Expected one warning with fields=2, got %d", warned)
	}
}

func TestParseGlyphLineFields(t *testing.T) {
	tests := []struct {
		line   string
		fields int
		err    error
	}{
		{"", 0, errEmptyLine},
		{"A", 1, errNoWidth},
		{"A4|1111", 1, errNoWidth},
		{"A|", 1, errNoWidth},
		{"A|4", 2, errNoBitString},
		{"A|4x|1111", 2, errBadWidth},
		{"A|x|1111", 1, errBadWidth},
		{"A|0|1111", 1, errBadWidth},
		{"A|-2|1111", 1, errBadWidth},
		{"A|4|", 2, errNoBitString},
		{"A|4|1111", 3, nil},
		{"||2|11", 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, fields, err := parseGlyphLine(tt.line, 1)
			if fields != tt.fields {
				t.Errorf("Expected %d fields, got %d", tt.fields, fields)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected error %v, got %v", tt.err, err)
			}
		})
	}
}

func TestParseFontFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "", ErrInvalidHeader},
		{"one number", "3\n", ErrInvalidHeader},
		{"not numbers", "three five\n", ErrInvalidHeader},
		{"zero glyphs", "0 5\n", ErrInvalidHeader},
		{"zero height", "1 0\nA|1|\n", ErrInvalidHeader},
		{"too many glyphs", "100000000 5\n", ErrTooLarge},
		{"huge glyph", "1 1024\nA|4096|1\n", ErrTooLarge},
		{"truncated", "3 1\nA|1|1\nB|1|1\n", ErrTruncated},
		{"truncated after header", "1 1\n", ErrTruncated},
		{"overlong line", "1 1\nA|1|" + strings.Repeat("1", MaxGlyphArea+100) + "\n", ErrTooLarge},
		{"overlong header", strings.Repeat(" ", MaxGlyphArea+100) + "1 1\n", ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseFont(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if table != nil {
				t.Error("No table may be returned on a fatal error")
			}
		})
	}
}

func TestParseFontShortAndLongBitStrings(t *testing.T) {
	doc := "2 2\n" +
		"s|2|1\n" +
		"l|2|1111111\n"
	table, err := ParseFont(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	s, _ := table.Lookup('s')
	if s.Len() != 1 {
		t.Errorf("Expected 1 backed cell, got %d", s.Len())
	}
	if !s.Cell(0, 0) || s.Cell(1, 0) || s.Cell(0, 1) || s.Cell(1, 1) {
		t.Error("Cells past a short bit string should be background")
	}

	l, _ := table.Lookup('l')
	if l.Len() != 4 || l.BitString() != "1111" {
		t.Errorf("Expected bit string cut to 4 cells, got %q", l.BitString())
	}
}

func TestParseFontIgnoresTrailingLinesAndCR(t *testing.T) {
	doc := "1 1\r\n" +
		"A|2|10\r\n" +
		"this line is not part of the font\n"
	table, err := ParseFont(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := table.Lookup('A')
	if !ok || a.BitString() != "10" {
		t.Errorf("Expected CR to be dropped, got %q", a.BitString())
	}
	if table.Len() != 1 {
		t.Errorf("Expected 1 glyph, got %d", table.Len())
	}
}

func TestWriteFontRoundTrip(t *testing.T) {
	t.Parallel()

	table := loadTestFont(t)
	var buf bytes.Buffer
	if err := WriteFont(&buf, table); err != nil {
		t.Fatal(err)
	}
	if buf.String() != testFont {
		t.Errorf("Expected written font to match source:\n%s\ngot:\n%s", testFont, buf.String())
	}

	again, err := ParseFont(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range table.Glyphs() {
		h, ok := again.Lookup(g.Code)
		if !ok || h.Width != g.Width || h.BitString() != g.BitString() {
			t.Errorf("Glyph %q changed in round trip", g.Code)
		}
	}
}

func TestWriteFontHighByteCode(t *testing.T) {
	table := BuildTable(1, []Glyph{NewGlyph(0xe9, 1, 1, "1")})
	var buf bytes.Buffer
	if err := WriteFont(&buf, table); err != nil {
		t.Fatal(err)
	}
	if want := "1 1\n\xe9|1|1\n"; buf.String() != want {
		t.Errorf("Expected raw byte code, got %q", buf.String())
	}
}

func TestWriteFontPadsMissingCells(t *testing.T) {
	table := BuildTable(1, []Glyph{
		NewGlyph('A', 2, 1, ""),
		NewGlyph('B', 3, 1, "1"),
	})
	var buf bytes.Buffer
	if err := WriteFont(&buf, table); err != nil {
		t.Fatal(err)
	}
	if want := "2 1\nA|2|00\nB|3|100\n"; buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}

	again, err := ParseFont(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Skipped()) != 0 {
		t.Errorf("Written font has malformed lines: %v", again.Skipped())
	}
	for _, g := range table.Glyphs() {
		h, ok := again.Lookup(g.Code)
		if !ok {
			t.Errorf("Glyph %q lost in round trip", g.Code)
			continue
		}
		for x := 0; x < g.Width; x++ {
			if h.Cell(x, 0) != g.Cell(x, 0) {
				t.Errorf("Glyph %q cell %d changed in round trip", g.Code, x)
			}
		}
	}
}

func TestZeroGlyphTable(t *testing.T) {
	var table GlyphTable
	if _, ok := table.Lookup('A'); ok {
		t.Error("A zero table should resolve nothing")
	}
	if table.Len() != 0 {
		t.Errorf("Expected 0 glyphs, got %d", table.Len())
	}
	if g := table.Glyph('A'); !g.IsFallback() {
		t.Error("A zero table should hand out the fallback glyph")
	}
}

func TestLoadFontEmbedded(t *testing.T) {
	t.Parallel()

	names := EmbeddedFonts()
	if len(names) == 0 || names[0] != "default" {
		t.Fatalf("Expected embedded default font, got %v", names)
	}

	table, err := LoadFont("default")
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Skipped()) != 0 {
		t.Errorf("Embedded font has malformed lines: %v", table.Skipped())
	}
	for _, c := range []byte("AZaz09 .!?") {
		g, ok := table.Lookup(c)
		if !ok {
			t.Errorf("Embedded font is missing %q", c)
			continue
		}
		if g.Len() != g.Width*g.Height {
			t.Errorf("Glyph %q has %d cells, expected %d", c, g.Len(), g.Width*g.Height)
		}
	}
}

func TestLoadFontMissingFile(t *testing.T) {
	_, err := LoadFont("/nonexistent/font.font")
	if !errors.Is(err, ErrFontOpen) {
		t.Errorf("Expected ErrFontOpen, got %v", err)
	}
}
