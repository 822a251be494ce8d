package geometry

import (
	"image"
	"math"
)

const (
	// Epsilon keeps the rotation sense stable at the wrap-around boundary.
	Epsilon = 0.000001

	// Perspective is the m34 depth term handed to the renderer.
	Perspective = 1.0 / 850

	edgeSweep = 1.5
)

// Angles holds the hinge rotation of a flip in radians.
type Angles struct {
	Current float64
	Start   float64
	End     float64
}

// Lerp interpolates linearly between Start and End.
func (a Angles) Lerp(progress float64) float64 {
	return a.Start + progress*(a.End-a.Start)
}

// Sweep is the absolute size of the full rotation.
func (a Angles) Sweep() float64 {
	return math.Abs(a.End - a.Start)
}

// farSign is the sign of the angle at which a leaf lies over the end half.
func farSign(o Orientation) float64 {
	if o == Vertical {
		return 1
	}
	return -1
}

// AnglesFor returns the endpoints for a direction. Angle 0 lays the leaf over
// the start half; ±π lays it over the end half.
func AnglesFor(o Orientation, d Direction) Angles {
	switch {
	case o == Horizontal && d == DirectionStart:
		return Angles{Current: -math.Pi, Start: -math.Pi, End: 0 - Epsilon}
	case o == Horizontal && d == DirectionEnd:
		return Angles{Current: 0, Start: 0, End: -math.Pi}
	case o == Vertical && d == DirectionStart:
		return Angles{Current: math.Pi, Start: math.Pi, End: 0 + Epsilon}
	case o == Vertical && d == DirectionEnd:
		return Angles{Current: 0 + Epsilon, Start: 0 + Epsilon, End: math.Pi - Epsilon}
	default:
		return Angles{Current: 0, Start: 0, End: math.Pi}
	}
}

// EdgeEndAngle is the shortened end angle for a flip with no neighbouring page.
func EdgeEndAngle(o Orientation, d Direction) float64 {
	s := farSign(o)
	if d == DirectionStart {
		return s * edgeSweep
	}
	return s * (math.Pi - edgeSweep)
}

type edgeLimits struct {
	startPeek float64
	endPeek   float64
}

var peekLimits = map[Orientation]edgeLimits{
	Horizontal: {startPeek: 1.8, endPeek: 1.4},
	Vertical:   {startPeek: 2.0, endPeek: 1.0},
}

// ClampEdge restricts the angle of an edge-page flip. Without peek the leaf
// stays on its hinge; with peek it may over-rotate up to a fixed limit.
func ClampEdge(o Orientation, d Direction, angle float64, allowPeek bool) float64 {
	s := farSign(o)
	limits := peekLimits[o]
	switch d {
	case DirectionStart:
		limit := s * math.Pi
		if allowPeek {
			limit = s * limits.startPeek
		}
		// travelling from s·π toward 0
		if s*angle < s*limit {
			return limit
		}
	case DirectionEnd:
		limit := 0.0
		if allowPeek {
			limit = s * limits.endPeek
		}
		// travelling from 0 toward s·π
		if s*angle > s*limit {
			return limit
		}
	}
	return angle
}

// PassedHalfway reports whether a leaf travelling in d has crossed the
// perpendicular. The renderer's decomposed rotation flips its primary-axis
// component at that point, so the comparison is made on |angle| against π/2.
func PassedHalfway(d Direction, angle float64) bool {
	mag := math.Abs(angle)
	switch d {
	case DirectionStart:
		return mag < math.Pi/2+Epsilon
	case DirectionEnd:
		return mag > math.Pi/2-Epsilon
	default:
		return true
	}
}

// Progress maps a drag onto [0,1] for a leaf travelling in d. Drags against
// the travel sign clamp to 0.
func Progress(d Direction, translation, extent float64) float64 {
	if extent <= 0 {
		return 0
	}
	p := translation / extent
	if d == DirectionStart {
		p = -p
	}
	return math.Min(math.Max(p, 0), 1)
}

// ReleaseSpeed is the projected drag fraction at release.
func ReleaseSpeed(translation, velocity, extent float64) float64 {
	if extent <= 0 {
		return 0
	}
	return (translation + velocity/4) / extent
}

// Duration scales base by the remaining fraction of the full sweep.
func Duration(base float64, a Angles, target float64) float64 {
	sweep := a.Sweep()
	if sweep == 0 {
		return 0
	}
	return base * math.Abs((target-a.Current)/sweep)
}

// HalfCrop returns the device-pixel rectangle of one half of a snapshot whose
// logical size is w×h at the given scale. Origin and size are both scaled so
// the crop keeps full resolution.
func HalfCrop(o Orientation, side Side, w, h, scale float64) image.Rectangle {
	half := Rect{W: w, H: h}.Half(o, side)
	x0 := int(math.Round(half.X * scale))
	y0 := int(math.Round(half.Y * scale))
	x1 := int(math.Round((half.X + half.W) * scale))
	y1 := int(math.Round((half.Y + half.H) * scale))
	return image.Rect(x0, y0, x1, y1)
}
