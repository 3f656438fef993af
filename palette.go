package fbtext

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed colordata/ansi16.json
//go:embed colordata/ansi256.json
var paletteFS embed.FS

// Palette maps color names to packed colors. Names are matched without
// regard to case.
type Palette map[string]Color

// LoadPalette reads a palette by name. Embedded palettes (ansi16 with
// names like "bright-red", ansi256 indexed "0" to "255") are tried first,
// then name is read as a JSON file mapping names to "#rrggbb" strings.
func LoadPalette(name string) (Palette, error) {
	data, vfsErr := paletteFS.ReadFile(fmt.Sprintf("colordata/%s.json", name))
	if vfsErr != nil {
		var err error
		data, err = os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read palette: %w", err)
		}
	}

	var colorMap map[string]string
	if err := json.Unmarshal(data, &colorMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal palette %s: %w", name, err)
	}

	p := make(Palette, len(colorMap))
	for key, hex := range colorMap {
		c, err := ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("palette %s entry %q: %w", name, key, err)
		}
		p[strings.ToLower(key)] = c
	}
	return p, nil
}

// EmbeddedPalettes lists the palettes LoadPalette finds without a file.
func EmbeddedPalettes() []string {
	entries, err := paletteFS.ReadDir("colordata")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Resolve returns the color named s, or parses s as a hex color when the
// palette has no such name. A nil Palette only parses.
func (p Palette) Resolve(s string) (Color, error) {
	if c, ok := p[strings.ToLower(s)]; ok {
		return c, nil
	}
	return ParseColor(s)
}

// Names returns the palette's color names in sorted order.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
