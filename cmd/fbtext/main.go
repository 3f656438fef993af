// Command fbtext draws a line of text onto a Linux framebuffer, or into an
// image file with -png.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wbrown/fbtext"
	"github.com/wbrown/fbtext/imageutil"
	"github.com/wbrown/fbtext/surface"
	"github.com/wbrown/fbtext/surface/fbdev"
)

// Exit codes, one per failure stage.
const (
	exitOK = iota
	exitDeviceOpen
	exitFixedInfo
	exitVarInfo
	exitMmap
	exitFontOpen
	exitFontParse
	exitInput
	exitSnapshot
	exitSurfaceFull
	exitUsage
)

type target interface {
	fbtext.Surface
	Clear(packed uint32)
}

func main() {
	os.Exit(run())
}

func run() int {
	devicePath := flag.String("device", fbdev.DefaultPath,
		"Framebuffer device to draw on")
	fontName := flag.String("font", "default",
		"Font definition file "+
			"(Embedded: "+strings.Join(fbtext.EmbeddedFonts(), ", ")+")")
	text := flag.String("text", "",
		"Text to draw (if not specified, read one line from stdin)")
	scale := flag.Int("scale", 1,
		"Integer magnification of every glyph cell")
	paletteName := flag.String("palette", "ansi16",
		"Palette for color names "+
			"(Embedded: "+strings.Join(fbtext.EmbeddedPalettes(), ", ")+")")
	fgFlag := flag.String("fg", "#ff0000",
		"Foreground color: a palette name, #rrggbb, #rrggbbaa or 0xAARRGGBB")
	bgFlag := flag.String("bg", "#000000",
		"Background color")
	clearFirst := flag.Bool("clear", false,
		"Fill the whole surface with the background color first")
	pngFile := flag.String("png", "",
		"Render into memory and save the image here instead of the device "+
			"(png, jpg, gif, tif)")
	width := flag.Int("width", 640, "Image width for -png")
	height := flag.Int("height", 480, "Image height for -png")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	palette, err := fbtext.LoadPalette(*paletteName)
	if err != nil {
		log.WithError(err).Error("Failed to load palette")
		return exitUsage
	}
	fg, err := palette.Resolve(*fgFlag)
	if err != nil {
		log.WithError(err).Error("Invalid -fg")
		return exitUsage
	}
	bg, err := palette.Resolve(*bgFlag)
	if err != nil {
		log.WithError(err).Error("Invalid -bg")
		return exitUsage
	}

	var dst target
	if *pngFile != "" {
		if *width <= 0 || *height <= 0 {
			log.Errorf("Invalid image size %dx%d", *width, *height)
			return exitUsage
		}
		dst = surface.NewBuffer(*width, *height)
		log.Infof("Rendering to %dx%d image %s", *width, *height, *pngFile)
	} else {
		dev, err := fbdev.Open(*devicePath)
		if err != nil {
			log.WithError(err).Error("Failed to open framebuffer")
			return deviceExitCode(err)
		}
		defer dev.Close()
		log.Infof("Detected display: %s", dev.Var)
		dst = dev
	}

	table, err := fbtext.LoadFont(*fontName, fbtext.WithParseLogger(log))
	if err != nil {
		log.WithError(err).Error("Failed to load font")
		if errors.Is(err, fbtext.ErrFontOpen) {
			return exitFontOpen
		}
		return exitFontParse
	}
	if n := len(table.Skipped()); n > 0 {
		log.Warnf("Font %s: %d malformed glyph lines skipped", *fontName, n)
	}

	input := *text
	if input == "" {
		input, err = promptLine(os.Stdin, os.Stdout)
		if err != nil {
			log.WithError(err).Error("Failed to read input text")
			return exitInput
		}
	}

	if *clearFirst {
		dst.Clear(uint32(bg))
	}

	r := fbtext.NewRenderer(table,
		fbtext.WithScale(*scale),
		fbtext.WithColors(fg, bg),
		fbtext.WithLogger(log))
	renderErr := r.Render(dst, input)
	stats := r.Stats()
	log.WithFields(logrus.Fields{
		"glyphs":    stats.Glyphs,
		"fallbacks": stats.Fallbacks,
		"wraps":     stats.Wraps,
		"skipped":   stats.Skipped,
	}).Debug("Rendered text")

	// whatever was drawn before the surface filled up is still saved
	if buf, ok := dst.(*surface.Buffer); ok {
		if err := imageutil.SaveImage(buf.Snapshot(), *pngFile); err != nil {
			log.WithError(err).Error("Failed to write image")
			return exitSnapshot
		}
		log.Infof("Image written to %s", *pngFile)
	}

	if renderErr != nil {
		log.WithError(renderErr).Error("Text truncated")
		return exitSurfaceFull
	}
	return exitOK
}

// deviceExitCode maps a framebuffer failure to its exit code.
func deviceExitCode(err error) int {
	switch {
	case errors.Is(err, fbdev.ErrFixedInfo):
		return exitFixedInfo
	case errors.Is(err, fbdev.ErrVarInfo):
		return exitVarInfo
	case errors.Is(err, fbdev.ErrMmap), errors.Is(err, surface.ErrDepth):
		return exitMmap
	default:
		return exitDeviceOpen
	}
}

// promptLine asks for the text and reads one line from in, without the
// line terminator.
func promptLine(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Input text: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read line: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
