package fbtext

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Limits applied while loading a font. A definition asking for more than
// this is treated as an allocation failure.
const (
	MaxGlyphs    = 1 << 16
	MaxGlyphArea = 1 << 20
)

var (
	// ErrInvalidHeader is returned when the first line does not hold the
	// glyph count and the shared height.
	ErrInvalidHeader = errors.New("invalid font header")
	// ErrTruncated is returned when the stream ends before every
	// announced glyph line was read.
	ErrTruncated = errors.New("font definition truncated")
	// ErrTooLarge is returned when the header or a glyph line asks for
	// more memory than the loader allows.
	ErrTooLarge = errors.New("font definition too large")
	// ErrFontOpen wraps failures to open a font file.
	ErrFontOpen = errors.New("cannot open font")
)

// GlyphError describes a definition line that was skipped.
type GlyphError struct {
	Line   int    // 1-based line number in the definition
	Fields int    // fields parsed before the scan stopped
	Text   string // the raw line
	Err    error
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("line %d: parsed %d of 3 fields: %v", e.Line, e.Fields, e.Err)
}

func (e *GlyphError) Unwrap() error {
	return e.Err
}

var (
	errEmptyLine   = errors.New("empty line")
	errNoWidth     = errors.New("missing width field")
	errBadWidth    = errors.New("width is not a positive integer")
	errNoBitString = errors.New("missing bit string")
)

// ParseOption configures ParseFont.
type ParseOption func(*parseConfig)

type parseConfig struct {
	log logrus.FieldLogger
}

// WithParseLogger routes per-glyph parse reports to l.
func WithParseLogger(l logrus.FieldLogger) ParseOption {
	return func(c *parseConfig) {
		c.log = l
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ParseFont reads a glyph definition:
//
//	<num_of_char> <height>
//	<char>|<width>|<bitstring>
//	...
//
// with exactly num_of_char glyph lines. The header and the number of
// lines are strict: a bad header, an oversized request or a stream that
// ends early fails the whole load. A malformed glyph line only loses that
// glyph; it is logged and reported through GlyphTable.Skipped.
func ParseFont(r io.Reader, opts ...ParseOption) (*GlyphTable, error) {
	cfg := parseConfig{log: discardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxGlyphArea+64)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return nil, fmt.Errorf("%w: header exceeds %d bytes: %w", ErrTooLarge, MaxGlyphArea+64, err)
			}
			return nil, fmt.Errorf("failed to read font header: %w", err)
		}
		return nil, fmt.Errorf("%w: empty definition", ErrInvalidHeader)
	}
	count, height, err := parseHeader(strings.TrimSuffix(scanner.Text(), "\r"))
	if err != nil {
		return nil, err
	}

	table := newGlyphTable(height, count)
	line := 1
	for i := 0; i < count; i++ {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				if errors.Is(err, bufio.ErrTooLong) {
					return nil, fmt.Errorf("%w: line %d exceeds %d bytes: %w", ErrTooLarge, line+1, MaxGlyphArea+64, err)
				}
				return nil, fmt.Errorf("failed to read glyph line %d: %w", line+1, err)
			}
			return nil, fmt.Errorf("%w: got %d of %d glyph lines", ErrTruncated, i, count)
		}
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")

		g, fields, err := parseGlyphLine(text, height)
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			gerr := &GlyphError{Line: line, Fields: fields, Text: text, Err: err}
			cfg.log.WithFields(logrus.Fields{
				"line":   line,
				"fields": fields,
			}).Warnf("skipping glyph definition: %v", err)
			table.skipped = append(table.skipped, gerr)
			table.add(Glyph{})
			continue
		}

		if cells := glyphBits(text); cells != g.Width*height {
			cfg.log.WithFields(logrus.Fields{
				"line":  line,
				"code":  string(rune(g.Code)),
				"cells": cells,
				"want":  g.Width * height,
			}).Debug("bit string length does not match width*height")
		}

		if table.add(g) {
			cfg.log.WithFields(logrus.Fields{
				"line": line,
				"code": string(rune(g.Code)),
			}).Warn("duplicate glyph ignored, first definition wins")
		}
	}

	return table, nil
}

// parseHeader reads "<num_of_char> <height>".
func parseHeader(s string) (count, height int, err error) {
	n, err := fmt.Sscanf(s, "%d %d", &count, &height)
	if n != 2 {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrInvalidHeader, s, err)
	}
	if count <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %q: count and height must be positive", ErrInvalidHeader, s)
	}
	if count > MaxGlyphs || height > MaxGlyphArea {
		return 0, 0, fmt.Errorf("%w: %d glyphs of height %d", ErrTooLarge, count, height)
	}
	return count, height, nil
}

// parseGlyphLine scans "<char>|<width>|<bitstring>" and reports how many
// of the three fields it got through.
func parseGlyphLine(s string, height int) (Glyph, int, error) {
	if len(s) == 0 {
		return Glyph{}, 0, errEmptyLine
	}
	code := s[0]

	rest := s[1:]
	if !strings.HasPrefix(rest, "|") {
		return Glyph{}, 1, errNoWidth
	}
	rest = rest[1:]
	n := intPrefix(rest)
	if n == 0 {
		if rest == "" {
			return Glyph{}, 1, errNoWidth
		}
		return Glyph{}, 1, errBadWidth
	}
	width, err := strconv.Atoi(rest[:n])
	if err != nil || width <= 0 {
		return Glyph{}, 1, errBadWidth
	}
	if width > MaxGlyphArea/height {
		return Glyph{}, 2, fmt.Errorf("%w: glyph %q is %dx%d", ErrTooLarge, code, width, height)
	}

	// the width counts as scanned even when the separator after it is wrong
	rest = rest[n:]
	if rest == "" {
		return Glyph{}, 2, errNoBitString
	}
	if rest[0] != '|' {
		return Glyph{}, 2, errBadWidth
	}
	bits := rest[1:]
	if len(bits) == 0 {
		return Glyph{}, 2, errNoBitString
	}
	return NewGlyph(code, width, height, bits), 3, nil
}

// intPrefix returns the length of the optionally signed decimal integer
// at the start of s, or 0 if there is none.
func intPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	return i
}

// glyphBits returns the length of a line's bit string field.
func glyphBits(s string) int {
	if len(s) < 2 {
		return 0
	}
	i := strings.IndexByte(s[2:], '|')
	if i < 0 {
		return 0
	}
	return len(s) - (i + 3)
}

//go:embed fontdata/*.font
var fontFS embed.FS

// LoadFont loads a font by name. Names of embedded fonts ("default") are
// resolved first; anything else is read from the filesystem.
func LoadFont(name string, opts ...ParseOption) (*GlyphTable, error) {
	if data, err := fontFS.Open("fontdata/" + name + ".font"); err == nil {
		defer data.Close()
		table, err := ParseFont(data, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded font %s: %w", name, err)
		}
		return table, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFontOpen, name, err)
	}
	defer f.Close()

	table, err := ParseFont(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return table, nil
}

// EmbeddedFonts lists the fonts LoadFont resolves without touching the
// filesystem.
func EmbeddedFonts() []string {
	entries, err := fontFS.ReadDir("fontdata")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".font"))
	}
	return names
}

// WriteFont writes the resolvable glyphs of t in definition form. The
// output parses back into an equivalent table.
func WriteFont(w io.Writer, t *GlyphTable) error {
	glyphs := t.Glyphs()
	if len(glyphs) == 0 {
		return errors.New("failed to write font: table has no glyphs")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(glyphs), t.Height())
	for _, g := range glyphs {
		// the code is a raw byte, not a rune
		bw.WriteByte(g.Code)
		// cells past the data are background, so pad them explicitly
		bits := g.BitString()
		if pad := g.Width*g.Height - len(bits); pad > 0 {
			bits += strings.Repeat("0", pad)
		}
		fmt.Fprintf(bw, "|%d|%s\n", g.Width, bits)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write font: %w", err)
	}
	return nil
}
