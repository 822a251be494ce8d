package flip

import (
	"fmt"
	"image"
	"math"

	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/snapshot"
)

// UnitID is a stable arena identifier. Zero is never issued.
type UnitID uint64

// Status is the lifecycle state of a Unit.
type Status int

const (
	StatusNone Status = iota
	StatusBeginning
	StatusActive
	StatusCompleting
	StatusComplete
	StatusInterrupt
	StatusFail
)

var statusNames = map[Status]string{
	StatusNone:       "none",
	StatusBeginning:  "beginning",
	StatusActive:     "active",
	StatusCompleting: "completing",
	StatusComplete:   "complete",
	StatusInterrupt:  "interrupt",
	StatusFail:       "fail",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFail
}

var transitions = map[Status][]Status{
	StatusNone:       {StatusBeginning},
	StatusBeginning:  {StatusActive, StatusCompleting},
	StatusActive:     {StatusCompleting},
	StatusCompleting: {StatusComplete, StatusInterrupt},
	StatusInterrupt:  {StatusCompleting},
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusFail {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Unit is one hinge rotation in flight.
type Unit struct {
	id          UnitID
	status      Status
	direction   geometry.Direction
	angles      geometry.Angles
	edge        bool
	z           float64
	orientation geometry.Orientation
	frame       geometry.Rect

	r        Renderer
	layer    LayerID
	front    image.Image
	back     image.Image
	attached bool
	released bool
	pending  Token
}

// newUnit allocates the layer, then registers its two faces.
func newUnit(id UnitID, o geometry.Orientation, frame geometry.Rect, r Renderer) *Unit {
	anchor := geometry.Point{X: 1, Y: 0.5}
	if o == geometry.Vertical {
		anchor = geometry.Point{X: 0.5, Y: 1}
	}
	u := &Unit{
		id:          id,
		orientation: o,
		frame:       frame,
		r:           r,
		angles:      geometry.Angles{End: math.Pi},
	}
	u.layer = r.CreateLayer(LayerSpec{Orientation: o, Frame: frame, Anchor: anchor})
	r.AddFace(u.layer, FaceFront)
	r.AddFace(u.layer, FaceBack)
	u.setStatus(StatusBeginning)
	return u
}

func (u *Unit) ID() UnitID { return u.id }
func (u *Unit) Status() Status { return u.status }
func (u *Unit) Direction() geometry.Direction { return u.direction }
func (u *Unit) Angles() geometry.Angles { return u.angles }
func (u *Unit) IsEdgePage() bool { return u.edge }
func (u *Unit) ZOrder() float64 { return u.z }
func (u *Unit) Layer() LayerID { return u.layer }
func (u *Unit) Front() image.Image { return u.front }
func (u *Unit) Back() image.Image { return u.back }
func (u *Unit) Orientation() geometry.Orientation { return u.orientation }

func (u *Unit) setStatus(to Status) bool {
	if !CanTransition(u.status, to) {
		return false
	}
	u.status = to
	return true
}

// SetDirection fixes the travel direction, resets the angles to its
// endpoints and orients the hinge to the start angle.
func (u *Unit) SetDirection(d geometry.Direction) {
	u.direction = d
	u.angles = geometry.AnglesFor(u.orientation, d)
	u.r.Rotate(u.layer, u.angles.Current, Transaction{Perspective: geometry.Perspective})
}

// reverse swaps the travel direction while the leaf is in motion. The hinge
// is left where the renderer currently shows it.
func (u *Unit) reverse() {
	at := u.r.PresentationAngle(u.layer)
	u.direction = u.direction.Opposite()
	u.angles = geometry.AnglesFor(u.orientation, u.direction)
	u.angles.Current = at
}

func (u *Unit) markEdge() {
	u.edge = true
	u.angles.End = geometry.EdgeEndAngle(u.orientation, u.direction)
}

// SetFrontContent shows the end half of s on the front face.
func (u *Unit) SetFrontContent(s *snapshot.Snapshot) {
	u.front = s.Half(u.orientation, geometry.SideEnd)
	u.r.SetFaceContent(u.layer, FaceFront, u.front)
}

// SetBackContent shows the start half of s on the back face.
func (u *Unit) SetBackContent(s *snapshot.Snapshot) {
	u.back = s.Half(u.orientation, geometry.SideStart)
	u.r.SetFaceContent(u.layer, FaceBack, u.back)
}

func (u *Unit) setZ(z float64) {
	u.z = z
	u.r.SetZOrder(u.layer, z)
}

func (u *Unit) attach() {
	if u.attached || u.released {
		return
	}
	u.attached = true
	u.r.Attach(u.layer)
}

// release removes the layer from the render tree for good, whether or not it
// was ever attached.
func (u *Unit) release() {
	if u.released {
		return
	}
	u.released = true
	u.attached = false
	u.r.Detach(u.layer)
}

// UnitInfo is a read-only copy of a Unit's state.
type UnitInfo struct {
	ID        UnitID
	Status    Status
	Direction geometry.Direction
	Angles    geometry.Angles
	Edge      bool
	ZOrder    float64
}

func (u *Unit) info() UnitInfo {
	return UnitInfo{
		ID:        u.id,
		Status:    u.status,
		Direction: u.direction,
		Angles:    u.angles,
		Edge:      u.edge,
		ZOrder:    u.z,
	}
}
