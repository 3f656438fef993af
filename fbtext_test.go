package fbtext

import (
	"strings"
	"testing"

	"github.com/wbrown/fbtext/surface"
)

// Bits of the 4x5 'A' used throughout the tests, row by row.
var glyphA = []string{
	"0110",
	"1001",
	"1111",
	"1001",
	"1001",
}

// testFont is a height-5 font with 'A' and an all-background space.
const testFont = "2 5\n" +
	"A|4|01101001111110011001\n" +
	" |4|00000000000000000000\n"

func loadTestFont(t *testing.T) *GlyphTable {
	t.Helper()
	table, err := ParseFont(strings.NewReader(testFont))
	if err != nil {
		t.Fatalf("Failed to parse test font: %v", err)
	}
	return table
}

// assertBlock checks that the (w+2)x(h+2) logical block at (ox, oy) has a
// background border and the given interior rows.
func assertBlock(t *testing.T, buf *surface.Buffer, ox, oy, scale int, rows []string, fg, bg Color) {
	t.Helper()
	h := len(rows) + 2
	w := len(rows[0]) + 2
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			want := bg
			if i > 0 && i < w-1 && j > 0 && j < h-1 && rows[j-1][i-1] != '0' {
				want = fg
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					x, y := (ox+i)*scale+dx, (oy+j)*scale+dy
					if got := Color(buf.PixelAt(x, y)); got != want {
						t.Errorf("pixel (%d,%d) of cell (%d,%d): expected %v, got %v", x, y, i, j, want, got)
					}
				}
			}
		}
	}
}
