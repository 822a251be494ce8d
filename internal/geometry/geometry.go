// Package geometry maps orientation and drag direction onto hinge angles,
// surface halves and crop rectangles. Everything here is pure.
package geometry

import "fmt"

// Orientation selects the drag axis and the rotation axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// ParseOrientation accepts "horizontal" or "vertical".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("unknown orientation %q", s)
	}
}

// Direction is the travel direction of a flip. Start-side flips are driven
// by a negative drag delta (leftward or upward) and advance to the next
// page; end-side flips are driven by a positive delta and go back.
type Direction int

const (
	DirectionUnset Direction = iota
	DirectionStart
	DirectionEnd
)

func (d Direction) String() string {
	switch d {
	case DirectionStart:
		return "start"
	case DirectionEnd:
		return "end"
	default:
		return "unset"
	}
}

// Opposite returns the reverse travel direction. Unset maps to start-side.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionStart:
		return DirectionEnd
	case DirectionEnd:
		return DirectionStart
	default:
		return DirectionStart
	}
}

// Side names one half of a two-sided surface: left/top or right/bottom.
type Side int

const (
	SideStart Side = iota
	SideEnd
)

func (s Side) String() string {
	if s == SideEnd {
		return "end"
	}
	return "start"
}

// Point is a location in logical points.
type Point struct {
	X, Y float64
}

// Vec is a displacement or velocity in logical points.
type Vec struct {
	X, Y float64
}

// Along returns the component on the orientation's drag axis.
func (v Vec) Along(o Orientation) float64 {
	if o == Vertical {
		return v.Y
	}
	return v.X
}

// Rect is an axis-aligned rectangle in logical points.
type Rect struct {
	X, Y, W, H float64
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Extent returns the size along the orientation's drag axis.
func (r Rect) Extent(o Orientation) float64 {
	if o == Vertical {
		return r.H
	}
	return r.W
}

// Half splits r into exact halves along the orientation's axis and returns
// the requested one.
func (r Rect) Half(o Orientation, side Side) Rect {
	out := r
	if o == Vertical {
		out.H = r.H / 2
		if side == SideEnd {
			out.Y = r.Y + out.H
		}
		return out
	}
	out.W = r.W / 2
	if side == SideEnd {
		out.X = r.X + out.W
	}
	return out
}

// DirectionForDelta resolves a raw drag delta. Positive deltas travel to the
// end side; zero and negative deltas travel to the start side.
func DirectionForDelta(delta float64) Direction {
	if delta > 0 {
		return DirectionEnd
	}
	return DirectionStart
}

// DirectionSide is the surface half a settled flip writes into.
func DirectionSide(d Direction) Side {
	if d == DirectionEnd {
		return SideEnd
	}
	return SideStart
}
