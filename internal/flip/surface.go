package flip

import (
	"image"

	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/snapshot"
)

// StaticSurface is the resting two-sided container drawn beneath the leaves
// while any flip is in the air.
type StaticSurface struct {
	orientation geometry.Orientation
	r           Renderer
	frame       geometry.Rect
	slots       [2]image.Image
	attached    bool
}

// NewStaticSurface returns a detached, empty surface covering frame.
func NewStaticSurface(o geometry.Orientation, r Renderer, frame geometry.Rect) *StaticSurface {
	return &StaticSurface{orientation: o, r: r, frame: frame}
}

// Set crops s the same way a leaf face is cropped and shows it in side's
// slot. The swap is instant and never animates.
func (s *StaticSurface) Set(snap *snapshot.Snapshot, side geometry.Side) {
	s.setImage(side, snap.Half(s.orientation, side))
}

func (s *StaticSurface) setImage(side geometry.Side, img image.Image) {
	s.slots[side] = img
	s.r.SetStaticContent(side, img, s.frame.Half(s.orientation, side))
}

// Content returns what side currently shows.
func (s *StaticSurface) Content(side geometry.Side) image.Image {
	return s.slots[side]
}

// Frame returns the container frame.
func (s *StaticSurface) Frame() geometry.Rect { return s.frame }

// UpdateFrame resizes both slots to exact halves of frame.
func (s *StaticSurface) UpdateFrame(frame geometry.Rect) {
	s.frame = frame
	for _, side := range []geometry.Side{geometry.SideStart, geometry.SideEnd} {
		s.r.SetStaticContent(side, s.slots[side], frame.Half(s.orientation, side))
	}
}

// Clear empties both slots.
func (s *StaticSurface) Clear() {
	s.setImage(geometry.SideStart, nil)
	s.setImage(geometry.SideEnd, nil)
}

// Attached reports whether the surface is in the render tree.
func (s *StaticSurface) Attached() bool { return s.attached }

func (s *StaticSurface) Attach() {
	if s.attached {
		return
	}
	s.attached = true
	s.r.SetStaticAttached(true)
}

func (s *StaticSurface) Detach() {
	if !s.attached {
		return
	}
	s.attached = false
	s.r.SetStaticAttached(false)
}
