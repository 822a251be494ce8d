// Package render is a software layer engine for the flip controller. Leaves
// are rasterized with gogpu/gg as perspective strips; transform changes are
// animated linearly against an injected clock.
package render

import (
	"image"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/gogpu/gg"

	"github.com/five82/foldview/internal/flip"
	"github.com/five82/foldview/internal/geometry"
)

// Options configures a Compositor.
type Options struct {
	// Size is the canvas in points.
	Size geometry.Rect
	// Scale is device pixels per point.
	Scale      float64
	Background gg.RGBA
	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger logr.Logger
}

type face struct {
	buf  *gg.ImageBuf
	w, h int
}

func newFace(img image.Image) *face {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	return &face{buf: gg.ImageBufFromImage(img), w: b.Dx(), h: b.Dy()}
}

type animation struct {
	from, to    float64
	start       time.Time
	duration    time.Duration
	perspective float64
	token       flip.Token
}

func (a animation) at(now time.Time) float64 {
	if a.duration <= 0 {
		return a.to
	}
	elapsed := now.Sub(a.start)
	if elapsed >= a.duration {
		return a.to
	}
	if elapsed <= 0 {
		return a.from
	}
	return a.from + (a.to-a.from)*float64(elapsed)/float64(a.duration)
}

func (a animation) done(now time.Time) bool {
	return a.duration <= 0 || !now.Before(a.start.Add(a.duration))
}

type layer struct {
	id       flip.LayerID
	spec     flip.LayerSpec
	faces    map[flip.Face]*face
	z        float64
	attached bool
	anim     animation
}

// Compositor implements flip.Renderer. Like the controller it is driven from
// a single goroutine.
type Compositor struct {
	size       geometry.Rect
	scale      float64
	background gg.RGBA
	now        func() time.Time
	log        logr.Logger

	next   flip.LayerID
	layers map[flip.LayerID]*layer

	static         [2]*face
	staticFrames   [2]geometry.Rect
	staticAttached bool
	active         *face

	ready []flip.Token
}

var _ flip.Renderer = (*Compositor)(nil)

// New returns an empty compositor.
func New(opts Options) *Compositor {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	return &Compositor{
		size:       opts.Size,
		scale:      opts.Scale,
		background: opts.Background,
		now:        opts.Clock,
		log:        opts.Logger.WithName("render"),
		layers:     map[flip.LayerID]*layer{},
	}
}

// Resize changes the canvas size in points.
func (c *Compositor) Resize(size geometry.Rect) { c.size = size }

// SetBackground changes the colour behind every layer.
func (c *Compositor) SetBackground(bg gg.RGBA) { c.background = bg }

func (c *Compositor) CreateLayer(spec flip.LayerSpec) flip.LayerID {
	c.next++
	c.layers[c.next] = &layer{id: c.next, spec: spec, faces: map[flip.Face]*face{}}
	return c.next
}

func (c *Compositor) AddFace(id flip.LayerID, f flip.Face) {
	if l := c.layers[id]; l != nil {
		l.faces[f] = nil
	}
}

func (c *Compositor) SetFaceContent(id flip.LayerID, f flip.Face, img image.Image) {
	l := c.layers[id]
	if l == nil {
		return
	}
	if _, ok := l.faces[f]; !ok {
		c.log.V(1).Info("content for unregistered face", "layer", id, "face", f)
		return
	}
	l.faces[f] = newFace(img)
}

func (c *Compositor) SetZOrder(id flip.LayerID, z float64) {
	if l := c.layers[id]; l != nil {
		l.z = z
	}
}

func (c *Compositor) Attach(id flip.LayerID) {
	if l := c.layers[id]; l != nil {
		l.attached = true
	}
}

// Detach drops the layer. A completion it still owed is reported on the next
// Tick.
func (c *Compositor) Detach(id flip.LayerID) {
	l := c.layers[id]
	if l == nil {
		return
	}
	if l.anim.token.Valid() {
		c.ready = append(c.ready, l.anim.token)
	}
	delete(c.layers, id)
}

// Rotate starts a linear animation from the presented angle to angle. A
// running animation that still owed a completion is superseded and its token
// is reported on the next Tick.
func (c *Compositor) Rotate(id flip.LayerID, angle float64, tx flip.Transaction) {
	l := c.layers[id]
	if l == nil {
		return
	}
	now := c.now()
	from := l.anim.at(now)
	if l.anim.token.Valid() {
		c.ready = append(c.ready, l.anim.token)
	}
	l.anim = animation{
		from:        from,
		to:          angle,
		start:       now,
		duration:    tx.Duration,
		perspective: tx.Perspective,
		token:       tx.Completion,
	}
	if tx.Duration <= 0 && tx.Completion.Valid() {
		c.ready = append(c.ready, tx.Completion)
		l.anim.token = flip.Token{}
	}
}

func (c *Compositor) PresentationAngle(id flip.LayerID) float64 {
	l := c.layers[id]
	if l == nil {
		return 0
	}
	return l.anim.at(c.now())
}

func (c *Compositor) SetStaticContent(side geometry.Side, img image.Image, frame geometry.Rect) {
	c.static[side] = newFace(img)
	c.staticFrames[side] = frame
}

func (c *Compositor) SetStaticAttached(attached bool) { c.staticAttached = attached }

func (c *Compositor) ShowActive(img image.Image) { c.active = newFace(img) }

func (c *Compositor) HideActive() { c.active = nil }

// Tick returns the completion tokens that are due at now, superseded ones
// first, in a stable order.
func (c *Compositor) Tick(now time.Time) []flip.Token {
	out := c.ready
	c.ready = nil
	for _, l := range c.sortedLayers(func(l *layer) float64 { return float64(l.id) }) {
		if l.anim.token.Valid() && l.anim.done(now) {
			out = append(out, l.anim.token)
			l.anim.token = flip.Token{}
		}
	}
	return out
}

// Animating reports whether a frame tick could change the picture or report
// a completion.
func (c *Compositor) Animating() bool {
	if len(c.ready) > 0 {
		return true
	}
	now := c.now()
	for _, l := range c.layers {
		if l.anim.token.Valid() || !l.anim.done(now) {
			return true
		}
	}
	return false
}

func (c *Compositor) sortedLayers(key func(*layer) float64) []*layer {
	out := make([]*layer, 0, len(c.layers))
	for _, l := range c.layers {
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := key(out[i]), key(out[j])
		if ki == kj {
			return out[i].id < out[j].id
		}
		return ki < kj
	})
	return out
}
