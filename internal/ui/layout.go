package ui

import (
	"time"

	"github.com/five82/foldview/internal/geometry"
)

// Screen rows taken by the bars around the page canvas.
const (
	HeaderRows = 1
	FooterRows = 1
)

// Timing constants.
const (
	// DefaultPollTick is how often the UI reads the deck store.
	DefaultPollTick = time.Second

	// DefaultFrameInterval paces animation frames when no frame rate is configured.
	DefaultFrameInterval = time.Second / 30
)

// canvas maps the terminal grid onto the controller's point space. Each cell
// holds two stacked half-block pixels, so a cell spans pointsPerCell points
// across and twice that down.
type canvas struct {
	cols, rows    int
	pointsPerCell float64
}

func newCanvas(width, height int, pointsPerCell float64) canvas {
	rows := height - HeaderRows - FooterRows
	if rows < 0 {
		rows = 0
	}
	if width < 0 {
		width = 0
	}
	return canvas{cols: width, rows: rows, pointsPerCell: pointsPerCell}
}

// Bounds is the page rectangle in points.
func (c canvas) Bounds() geometry.Rect {
	return geometry.Rect{
		W: float64(c.cols) * c.pointsPerCell,
		H: float64(c.rows) * 2 * c.pointsPerCell,
	}
}

// Point maps a screen cell to the point at its centre. ok is false outside
// the canvas.
func (c canvas) Point(col, row int) (geometry.Point, bool) {
	row -= HeaderRows
	p := geometry.Point{
		X: (float64(col) + 0.5) * c.pointsPerCell,
		Y: float64(row)*2*c.pointsPerCell + c.pointsPerCell,
	}
	return p, col >= 0 && col < c.cols && row >= 0 && row < c.rows
}
