package main

import (
	"path/filepath"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/wbrown/fbtext"
	"github.com/wbrown/fbtext/internal/facegen"
)

func TestSaveTableLoadsBack(t *testing.T) {
	table, err := facegen.Build(basicfont.Face7x13, "HI!", facegen.Options{})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "face7x13.font")
	if err := saveTable(table, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := fbtext.LoadFont(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Height() != 13 || loaded.Len() != 3 {
		t.Errorf("Expected 3 glyphs of height 13, got %d of height %d", loaded.Len(), loaded.Height())
	}
	for _, g := range table.Glyphs() {
		h, ok := loaded.Lookup(g.Code)
		if !ok || h.BitString() != g.BitString() {
			t.Errorf("Glyph %q did not survive the file", g.Code)
		}
	}
}

func TestLoadFaceErrors(t *testing.T) {
	if _, err := loadFace(filepath.Join(t.TempDir(), "missing.ttf"), 8); err == nil {
		t.Error("Expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "fake.font")
	table := fbtext.BuildTable(1, []fbtext.Glyph{fbtext.NewGlyph('x', 1, 1, "1")})
	if err := saveTable(table, path); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFace(path, 8); err == nil {
		t.Error("Expected a parse error for a file that is not TrueType")
	}
}
