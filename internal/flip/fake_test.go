package flip

import (
	"image"
	"image/color"
	"time"

	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/snapshot"
)

type fakeLayer struct {
	spec     LayerSpec
	faces    []Face
	content  map[Face]image.Image
	z        float64
	attached bool
	angle    float64
	lastTx   Transaction
}

type staticWrite struct {
	side geometry.Side
	img  image.Image
}

// fakeRenderer applies every change instantly and queues completion tokens
// in issue order until flush.
type fakeRenderer struct {
	next         LayerID
	layers       map[LayerID]*fakeLayer
	detached     map[LayerID]*fakeLayer
	presentation map[LayerID]float64

	static         [2]image.Image
	staticFrames   [2]geometry.Rect
	staticAttached bool
	staticWrites   []staticWrite

	active image.Image
	queue  []Token
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		layers:       map[LayerID]*fakeLayer{},
		detached:     map[LayerID]*fakeLayer{},
		presentation: map[LayerID]float64{},
	}
}

var _ Renderer = (*fakeRenderer)(nil)

func (f *fakeRenderer) CreateLayer(spec LayerSpec) LayerID {
	f.next++
	f.layers[f.next] = &fakeLayer{spec: spec, content: map[Face]image.Image{}}
	return f.next
}

func (f *fakeRenderer) layer(id LayerID) *fakeLayer {
	if l, ok := f.layers[id]; ok {
		return l
	}
	return f.detached[id]
}

func (f *fakeRenderer) AddFace(id LayerID, face Face) {
	l := f.layer(id)
	l.faces = append(l.faces, face)
}

func (f *fakeRenderer) SetFaceContent(id LayerID, face Face, img image.Image) {
	f.layer(id).content[face] = img
}

func (f *fakeRenderer) SetZOrder(id LayerID, z float64) { f.layer(id).z = z }

func (f *fakeRenderer) Attach(id LayerID) { f.layer(id).attached = true }

func (f *fakeRenderer) Detach(id LayerID) {
	l := f.layers[id]
	if l == nil {
		return
	}
	l.attached = false
	delete(f.layers, id)
	f.detached[id] = l
}

func (f *fakeRenderer) Rotate(id LayerID, angle float64, tx Transaction) {
	l := f.layer(id)
	l.angle = angle
	l.lastTx = tx
	delete(f.presentation, id)
	if tx.Completion.Valid() {
		f.queue = append(f.queue, tx.Completion)
	}
}

func (f *fakeRenderer) PresentationAngle(id LayerID) float64 {
	if a, ok := f.presentation[id]; ok {
		return a
	}
	return f.layer(id).angle
}

func (f *fakeRenderer) SetStaticContent(side geometry.Side, img image.Image, frame geometry.Rect) {
	f.static[side] = img
	f.staticFrames[side] = frame
	f.staticWrites = append(f.staticWrites, staticWrite{side: side, img: img})
}

func (f *fakeRenderer) SetStaticAttached(attached bool) { f.staticAttached = attached }

func (f *fakeRenderer) ShowActive(img image.Image) { f.active = img }

func (f *fakeRenderer) HideActive() { f.active = nil }

// flush reports every queued token to c, including ones queued while
// flushing.
func (f *fakeRenderer) flush(c *Controller) {
	for len(f.queue) > 0 {
		tok := f.queue[0]
		f.queue = f.queue[1:]
		c.Complete(tok)
	}
}

func (f *fakeRenderer) attachedLayers() int {
	n := 0
	for _, l := range f.layers {
		if l.attached {
			n++
		}
	}
	return n
}

// fakePage is a solid-colour page whose left half is darker than its right
// half, so half crops are distinguishable.
type fakePage struct {
	index    int
	captures *int
	missing  bool
}

func pageColor(index int, side geometry.Side) color.RGBA {
	base := uint8(20 * (index + 1))
	if side == geometry.SideEnd {
		return color.RGBA{R: base, G: 200, B: 0, A: 255}
	}
	return color.RGBA{R: base, G: 100, B: 0, A: 255}
}

func (p fakePage) TakeSnapshot(bounds geometry.Rect, scale float64) *snapshot.Snapshot {
	if p.missing {
		return nil
	}
	*p.captures++
	w := int(bounds.W * scale)
	h := int(bounds.H * scale)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			side := geometry.SideStart
			if x >= w/2 {
				side = geometry.SideEnd
			}
			img.SetRGBA(x, y, pageColor(p.index, side))
		}
	}
	return snapshot.New(img, scale)
}

type fakeSource struct {
	pages    int
	captures int
	missing  map[int]bool
}

func (s *fakeSource) PageCount() int { return s.pages }

func (s *fakeSource) ContentForPage(i int) Content {
	return fakePage{index: i, captures: &s.captures, missing: s.missing[i]}
}

type fakeRecorder struct {
	started, committed                 map[geometry.Direction]int
	snapped, edge, conflicts, rejected int
	cancelled, stale                   int
	durations                          []time.Duration
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		started:   map[geometry.Direction]int{},
		committed: map[geometry.Direction]int{},
	}
}

func (r *fakeRecorder) FlipStarted(d geometry.Direction) { r.started[d]++ }
func (r *fakeRecorder) FlipCommitted(d geometry.Direction) { r.committed[d]++ }
func (r *fakeRecorder) SnappedBack() { r.snapped++ }
func (r *fakeRecorder) EdgeFlip() { r.edge++ }
func (r *fakeRecorder) Conflict() { r.conflicts++ }
func (r *fakeRecorder) GestureRejected() { r.rejected++ }
func (r *fakeRecorder) Cancelled() { r.cancelled++ }
func (r *fakeRecorder) StaleCompletion() { r.stale++ }
func (r *fakeRecorder) AnimationScheduled(d time.Duration) { r.durations = append(r.durations, d) }
