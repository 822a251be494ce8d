package flip

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/snapshot"
)

// Verbosity levels used for controller diagnostics.
const (
	logDebug = 1
	logTrace = 2
)

// Content is a page view that can be captured into an immutable bitmap.
type Content interface {
	TakeSnapshot(bounds geometry.Rect, scale float64) *snapshot.Snapshot
}

// DataSource supplies the pages.
type DataSource interface {
	PageCount() int
	ContentForPage(index int) Content
}

// Mode is the coarse interaction gate.
type Mode int

const (
	ModeInactive Mode = iota
	ModeBegan
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeInactive:
		return "inactive"
	case ModeBegan:
		return "began"
	case ModeActive:
		return "active"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Tuning holds the timing and threshold constants.
type Tuning struct {
	// SpeedThreshold is the |releaseSpeed| a release must exceed to turn the page.
	SpeedThreshold float64
	// Duration is the full-sweep animation time of a normal flip.
	Duration time.Duration
	// EdgeDuration is the full-sweep time of a flip with no neighbouring page.
	EdgeDuration time.Duration
	// FastSwipeVelocity is the drag speed at or above which a flip completes
	// on its own instead of tracking the pointer.
	FastSwipeVelocity float64
	// Scale is device pixels per point for captured snapshots.
	Scale float64
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		SpeedThreshold:    0.3,
		Duration:          300 * time.Millisecond,
		EdgeDuration:      500 * time.Millisecond,
		FastSwipeVelocity: 700,
		Scale:             1,
	}
}

// Options configures a Controller.
type Options struct {
	Orientation   geometry.Orientation
	Source        DataSource
	Renderer      Renderer
	Bounds        geometry.Rect
	AllowEdgePeek bool
	Tuning        Tuning
	Logger        logr.Logger
	Metrics       Recorder
	// Strict panics on snapshot-cache invariant violations instead of
	// logging and skipping the flip.
	Strict bool
}

// Controller runs the flip state machine. It is not safe for concurrent use;
// every call must come from the single control thread.
type Controller struct {
	orientation geometry.Orientation
	source      DataSource
	r           Renderer
	bounds      geometry.Rect
	allowPeek   bool
	tuning      Tuning
	log         logr.Logger
	metrics     Recorder
	strict      bool

	surface *StaticSurface
	cache   *snapshot.Cache
	units   arena
	seq     uint64
	current int
	mode    Mode
	tracked UnitID
}

// NewController builds a controller and loads the first page.
func NewController(opts Options) *Controller {
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopRecorder{}
	}
	def := DefaultTuning()
	t := opts.Tuning
	if t.SpeedThreshold <= 0 {
		t.SpeedThreshold = def.SpeedThreshold
	}
	if t.Duration <= 0 {
		t.Duration = def.Duration
	}
	if t.EdgeDuration <= 0 {
		t.EdgeDuration = def.EdgeDuration
	}
	if t.FastSwipeVelocity <= 0 {
		t.FastSwipeVelocity = def.FastSwipeVelocity
	}
	if t.Scale <= 0 {
		t.Scale = def.Scale
	}

	c := &Controller{
		orientation: opts.Orientation,
		source:      opts.Source,
		r:           opts.Renderer,
		bounds:      opts.Bounds,
		allowPeek:   opts.AllowEdgePeek,
		tuning:      t,
		log:         opts.Logger.WithName("flip"),
		metrics:     opts.Metrics,
		strict:      opts.Strict,
		cache:       snapshot.NewCache(0),
	}
	c.surface = NewStaticSurface(c.orientation, c.r, c.bounds)
	c.Reload()
	return c
}

// Orientation is fixed for the controller's lifetime.
func (c *Controller) Orientation() geometry.Orientation { return c.orientation }

// Mode returns the interaction gate.
func (c *Controller) Mode() Mode { return c.mode }

// CurrentPage returns the page index. While a flip is in the air it already
// names the target page.
func (c *Controller) CurrentPage() int { return c.current }

// AllowEdgePeek reports whether edge pages may over-rotate.
func (c *Controller) AllowEdgePeek() bool { return c.allowPeek }

// SetAllowEdgePeek toggles over-rotation on edge pages. It applies to the
// next angle update.
func (c *Controller) SetAllowEdgePeek(allow bool) { c.allowPeek = allow }

// Surface exposes the static surface for inspection.
func (c *Controller) Surface() *StaticSurface { return c.surface }

// CachedPages lists pages whose snapshot is cached.
func (c *Controller) CachedPages() []int { return c.cache.Populated() }

// Units returns copies of the in-flight units, oldest first.
func (c *Controller) Units() []UnitInfo {
	out := make([]UnitInfo, 0, c.units.len())
	for _, u := range c.units.units {
		out = append(out, u.info())
	}
	return out
}

// Idle reports whether nothing is in flight.
func (c *Controller) Idle() bool {
	return c.mode == ModeInactive && c.units.len() == 0
}

func (c *Controller) pageCount() int {
	if c.source == nil {
		return 0
	}
	return c.source.PageCount()
}

// Reload discards every cached snapshot, resizes the cache to the page count
// and refreshes the active content.
func (c *Controller) Reload() {
	c.cache.Reset(c.pageCount())
	c.updateActive()
	c.log.V(logDebug).Info("reloaded", "pages", c.cache.Len(), "page", c.current)
}

// SetSource replaces the data source and reloads. Flips in flight are
// cancelled first; the page index is kept and clamped.
func (c *Controller) SetSource(src DataSource) {
	if !c.Idle() {
		c.ClearAll()
	}
	c.source = src
	c.Reload()
}

// PageCount returns the number of pages in the source.
func (c *Controller) PageCount() int { return c.pageCount() }

// Bounds returns the layout rectangle in points.
func (c *Controller) Bounds() geometry.Rect { return c.bounds }

// SetCurrentPage jumps to index. Flips in flight are cancelled first.
func (c *Controller) SetCurrentPage(index int) {
	if !c.Idle() {
		c.ClearAll()
	}
	n := c.pageCount()
	if index >= n {
		index = n - 1
	}
	if index < 0 {
		index = 0
	}
	c.current = index
	c.updateActive()
}

// Resize lays the controller out in bounds. Cached snapshots were captured at
// the old size, so an idle controller drops them.
func (c *Controller) Resize(bounds geometry.Rect) {
	if bounds == c.bounds {
		return
	}
	c.bounds = bounds
	c.surface.UpdateFrame(bounds)
	if c.Idle() {
		c.cache.Reset(c.pageCount())
		c.updateActive()
	}
}

// OnSuspend is called when the host is backgrounded.
func (c *Controller) OnSuspend() {
	c.ClearAll()
}

// OnOrientationChange is called when the host's layout orientation changes.
func (c *Controller) OnOrientationChange() {
	c.ClearAll()
}

// ClearAll hard-cancels every flip. Units fail without committing and leave
// the render tree at once; the static surface is emptied.
func (c *Controller) ClearAll() {
	if c.Idle() {
		return
	}
	c.updateActive()
	n := 0
	for _, u := range c.units.clear() {
		u.setStatus(StatusFail)
		u.pending = Token{}
		u.release()
		n++
	}
	c.surface.Detach()
	c.surface.Clear()
	c.mode = ModeInactive
	c.tracked = 0
	c.metrics.Cancelled()
	c.log.V(logDebug).Info("cleared flips", "units", n, "page", c.current)
}

// updateActive clamps the page and shows its live content.
func (c *Controller) updateActive() {
	n := c.pageCount()
	if n == 0 {
		c.current = 0
		c.r.HideActive()
		return
	}
	if c.current >= n {
		c.current = n - 1
	}
	if c.current < 0 {
		c.current = 0
	}
	snap := c.capture(c.current)
	if snap == nil {
		c.r.HideActive()
		return
	}
	c.r.ShowActive(snap.Image())
}

func (c *Controller) capture(index int) *snapshot.Snapshot {
	content := c.source.ContentForPage(index)
	if content == nil {
		return nil
	}
	return content.TakeSnapshot(c.bounds, c.tuning.Scale)
}

// refreshSnapshots recaptures the current page and fills empty neighbours.
func (c *Controller) refreshSnapshots() {
	n := c.pageCount()
	if c.current < 0 || c.current >= n || c.cache.Len() != n {
		return
	}
	c.cache.Put(c.current, c.capture(c.current))
	c.fillNeighbours()
}

// fillNeighbours captures the pages adjacent to the current one that have no
// snapshot yet.
func (c *Controller) fillNeighbours() {
	n := c.cache.Len()
	for _, i := range []int{c.current + 1, c.current - 1} {
		if i >= 0 && i < n && !c.cache.Has(i) {
			c.cache.Put(i, c.capture(i))
		}
	}
}

// invariant reports a broken precondition.
func (c *Controller) invariant(msg string, keysAndValues ...any) {
	if c.strict {
		panic(fmt.Sprintf("flip: %s %v", msg, keysAndValues))
	}
	c.log.Error(nil, msg, keysAndValues...)
}
