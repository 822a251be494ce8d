package flip

import (
	"image"
	"time"

	"github.com/five82/foldview/internal/geometry"
)

// LayerID identifies a two-sided layer owned by the renderer.
type LayerID uint64

// Face selects one side of a two-sided layer.
type Face int

const (
	FaceFront Face = iota
	FaceBack
)

// LayerSpec describes a new layer. Frame is in container points and Anchor
// is the hinge position in unit coordinates of the frame.
type LayerSpec struct {
	Orientation geometry.Orientation
	Frame       geometry.Rect
	Anchor      geometry.Point
}

// Token names one scheduled completion. The zero Token means no completion.
type Token struct {
	Unit UnitID
	Seq  uint64
}

// Valid reports whether t refers to a scheduled completion.
func (t Token) Valid() bool { return t.Seq != 0 }

// Transaction carries the timing of a transform change. A zero Duration
// applies the change instantly.
type Transaction struct {
	Duration    time.Duration
	Perspective float64
	Completion  Token
}

// Renderer is the layer engine the controller drives. Implementations must
// report every Completion token exactly once, including tokens whose
// transaction was replaced by a later Rotate on the same layer before it
// finished. Reports are delivered back to Controller.Complete on the control
// thread.
type Renderer interface {
	CreateLayer(spec LayerSpec) LayerID
	AddFace(id LayerID, face Face)
	SetFaceContent(id LayerID, face Face, img image.Image)
	SetZOrder(id LayerID, z float64)
	Attach(id LayerID)
	Detach(id LayerID)
	Rotate(id LayerID, angle float64, tx Transaction)
	PresentationAngle(id LayerID) float64

	SetStaticContent(side geometry.Side, img image.Image, frame geometry.Rect)
	SetStaticAttached(attached bool)

	ShowActive(img image.Image)
	HideActive()
}
