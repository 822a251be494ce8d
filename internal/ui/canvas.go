package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const upperHalf = "▀"

// renderPixels scales img onto a cols × rows grid of half-block cells. The
// upper half of a cell takes the foreground colour and the lower half the
// background, so each cell shows two pixels.
func renderPixels(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		// Runs of identical cells share one styled segment.
		start := 0
		for col := 1; col <= cols; col++ {
			if col < cols && sameCell(dst, col, start, row) {
				continue
			}
			top, bottom := dst.RGBAAt(start, row*2), dst.RGBAAt(start, row*2+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top))).
				Background(lipgloss.Color(hex(bottom)))
			b.WriteString(style.Render(strings.Repeat(upperHalf, col-start)))
			start = col
		}
	}
	return b.String()
}

func sameCell(img *image.RGBA, a, b, row int) bool {
	return img.RGBAAt(a, row*2) == img.RGBAAt(b, row*2) &&
		img.RGBAAt(a, row*2+1) == img.RGBAAt(b, row*2+1)
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// blankCanvas fills the page area with the theme background.
func blankCanvas(bg string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	line := lipgloss.NewStyle().Background(lipgloss.Color(bg)).Render(strings.Repeat(" ", cols))
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
