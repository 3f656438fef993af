// Command fontgen converts a TrueType or BDF font into a bitmap font
// definition file that fbtext can load.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/sirupsen/logrus"
	"github.com/zachomedia/go-bdf"
	"golang.org/x/image/font"

	"github.com/wbrown/fbtext"
	"github.com/wbrown/fbtext/internal/facegen"
)

// loadFace opens a font file as a face. TrueType faces are built at the
// given pixel size; BDF faces keep their native size.
func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bdf":
		f, err := bdf.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse BDF font: %w", err)
		}
		return f.NewFace(), nil
	default:
		f, err := freetype.ParseFont(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TrueType font: %w", err)
		}
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		}), nil
	}
}

// saveTable writes table to path in the font definition format.
func saveTable(table *fbtext.GlyphTable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w := bufio.NewWriter(f)
	err = fbtext.WriteFont(w, table)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write font: %w", err)
	}
	return nil
}

func main() {
	inputFont := flag.String("font", "",
		"Path to the input font file, .ttf or .bdf (required)")
	outputFile := flag.String("output", "",
		"Path to save the font definition file (required)")
	size := flag.Float64("size", 8,
		"Pixel size for TrueType fonts")
	chars := flag.String("chars", facegen.ASCII,
		"Characters to convert")
	height := flag.Int("height", 0,
		"Glyph height in cells (0 uses the face's ascent plus descent)")
	threshold := flag.Int("threshold", facegen.DefaultThreshold,
		"Alpha above which a cell is foreground (1-255)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *inputFont == "" || *outputFile == "" {
		fmt.Println("Both -font and -output flags are required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *threshold < 1 || *threshold > 255 {
		log.Fatalf("Threshold %d out of range 1-255", *threshold)
	}

	log.Infof("Computing glyphs for font: %s", *inputFont)

	face, err := loadFace(*inputFont, *size)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	defer face.Close()

	table, err := facegen.Build(face, *chars, facegen.Options{
		Height:    *height,
		Threshold: uint8(*threshold),
		Log:       log,
	})
	if err != nil {
		log.Fatalf("Failed to compute glyphs: %v", err)
	}

	if err := saveTable(table, *outputFile); err != nil {
		log.Fatalf("Failed to save glyph data: %v", err)
	}

	fileInfo, err := os.Stat(*outputFile)
	if err == nil {
		log.Infof("Saved %d glyphs to %s (%.2f KB)",
			table.Len(), *outputFile, float64(fileInfo.Size())/1024)
	}
}
