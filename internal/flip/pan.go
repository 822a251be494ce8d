package flip

import (
	"math"
	"time"

	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/gesture"
)

// Response tells the gesture source whether to keep delivering this drag.
type Response int

const (
	Continue Response = iota
	// Disable asks the source to drop the rest of the current drag.
	Disable
)

// HandlePan advances the state machine with one pan event.
func (c *Controller) HandlePan(ev gesture.Event) Response {
	switch ev.Phase {
	case gesture.Began:
		return c.panBegan()
	case gesture.Changed:
		return c.panChanged(ev)
	case gesture.Ended:
		c.panEnded(ev)
	case gesture.Cancelled:
		c.panCancelled(ev)
	}
	return Continue
}

func (c *Controller) trackedUnit() *Unit {
	if c.tracked == 0 {
		return nil
	}
	return c.units.get(c.tracked)
}

func (c *Controller) disable() Response {
	c.tracked = 0
	return Disable
}

func (c *Controller) panBegan() Response {
	if c.tracked != 0 {
		c.panCancelled(gesture.Event{Phase: gesture.Cancelled})
	}
	if c.pageCount() == 0 || c.bounds.Empty() {
		return c.disable()
	}
	if !c.passedHalfway() {
		c.metrics.GestureRejected()
		c.log.V(logDebug).Info("gesture rejected, flips not past halfway", "units", c.units.len())
		return c.disable()
	}
	if c.mode == ModeInactive {
		c.mode = ModeBegan
	}

	frame := c.bounds.Half(c.orientation, geometry.SideStart)
	u := newUnit(c.units.alloc(), c.orientation, frame, c.r)
	z := 0.0
	if top := c.units.highestZ(); top != nil {
		z = top.z + frame.H
	}
	u.setZ(z)
	c.units.add(u)
	c.tracked = u.id
	return Continue
}

// passedHalfway reports whether every flip in the air has crossed its
// perpendicular, which is when a new flip may start.
func (c *Controller) passedHalfway() bool {
	if c.mode == ModeInactive {
		return true
	}
	for _, u := range c.units.units {
		if u.direction == geometry.DirectionUnset {
			continue
		}
		if !geometry.PassedHalfway(u.direction, c.r.PresentationAngle(u.layer)) {
			return false
		}
	}
	return true
}

func (c *Controller) panChanged(ev gesture.Event) Response {
	u := c.trackedUnit()
	if u == nil {
		return Continue
	}
	translation := ev.Translation.Along(c.orientation)
	velocity := ev.Velocity.Along(c.orientation)

	switch u.status {
	case StatusBeginning:
		return c.beginFlip(u, translation, velocity)
	case StatusActive:
		c.track(u, translation)
	case StatusCompleting:
		if !u.pending.Valid() {
			c.setUpForFlip(u, 1, true)
		}
		return c.disable()
	}
	return Continue
}

// beginFlip resolves direction on the first movement, checks for a
// conflicting flip, loads the faces and puts the leaf in the air.
func (c *Controller) beginFlip(u *Unit, translation, velocity float64) Response {
	c.mode = ModeActive
	u.SetDirection(geometry.DirectionForDelta(translation))

	if c.resolveConflict(u) {
		return c.disable()
	}
	if !c.prepare(u) {
		c.evict(u)
		return c.disable()
	}
	if math.Abs(velocity) < c.tuning.FastSwipeVelocity && !u.edge {
		u.setStatus(StatusActive)
	} else {
		u.setStatus(StatusCompleting)
	}
	c.launch(u)

	if u.status == StatusActive {
		c.track(u, translation)
	}
	return Continue
}

// launch puts the static surface and the leaf in the render tree and removes
// the live page.
func (c *Controller) launch(u *Unit) {
	c.surface.Attach()
	u.attach()
	c.r.HideActive()
	c.metrics.FlipStarted(u.direction)
	if u.edge {
		c.metrics.EdgeFlip()
	}
	c.log.V(logDebug).Info("flip started", "unit", u.id, "direction", u.direction,
		"status", u.status, "edge", u.edge, "page", c.current)
}

// prepare captures snapshots, assigns the leaf faces, moves currentPage to
// the target and fills the static surface. It changes nothing when a needed
// snapshot is missing.
func (c *Controller) prepare(u *Unit) bool {
	c.refreshSnapshots()

	n := c.pageCount()
	cur := c.current
	need := []int{cur}
	for _, i := range []int{cur - 1, cur + 1} {
		if i >= 0 && i < n {
			need = append(need, i)
		}
	}
	for _, i := range need {
		if !c.cache.Has(i) {
			c.invariant("snapshot cache miss", "page", i, "current", cur)
			return false
		}
	}

	switch u.direction {
	case geometry.DirectionStart:
		u.SetFrontContent(c.cache.Get(cur))
		if cur+1 > n-1 {
			u.markEdge()
		} else {
			c.current = cur + 1
			u.SetBackContent(c.cache.Get(c.current))
		}
	case geometry.DirectionEnd:
		u.SetBackContent(c.cache.Get(cur))
		if cur-1 < 0 {
			u.markEdge()
		} else {
			c.current = cur - 1
			u.SetFrontContent(c.cache.Get(c.current))
		}
	}
	c.prepareSurface(u)
	c.fillNeighbours()
	return true
}

// prepareSurface shows, under the leaf, the halves that are not moving.
func (c *Controller) prepareSurface(u *Unit) {
	cur := c.current
	get := c.cache.Get
	switch u.direction {
	case geometry.DirectionStart:
		if u.edge {
			c.surface.Set(get(cur), geometry.SideStart)
			return
		}
		c.surface.Set(get(cur-1), geometry.SideStart)
		c.surface.Set(get(cur), geometry.SideEnd)
	case geometry.DirectionEnd:
		if u.edge && c.units.len() <= 1 {
			c.surface.Set(get(cur), geometry.SideEnd)
			return
		}
		// another flip is sweeping toward cur, so the end half belongs to
		// the page it is leaving
		next := get(cur + 1)
		if next == nil {
			next = get(cur)
		}
		c.surface.Set(next, geometry.SideEnd)
		c.surface.Set(get(cur), geometry.SideStart)
	}
}

// track drives the leaf directly from the pointer.
func (c *Controller) track(u *Unit, translation float64) {
	progress := geometry.Progress(u.direction, translation, c.bounds.Extent(c.orientation))
	c.setUpForFlip(u, progress, false)
}

func (c *Controller) panEnded(ev gesture.Event) {
	u := c.trackedUnit()
	c.tracked = 0
	if u == nil {
		return
	}
	translation := ev.Translation.Along(c.orientation)
	velocity := ev.Velocity.Along(c.orientation)

	if u.direction == geometry.DirectionUnset {
		c.mode = ModeActive
		u.SetDirection(geometry.DirectionForDelta(translation))
		if c.resolveConflict(u) {
			return
		}
		if !c.prepare(u) {
			c.evict(u)
			return
		}
		u.setStatus(StatusCompleting)
		c.launch(u)
		c.setUpForFlip(u, 1, true)
		return
	}

	if u.status == StatusActive {
		u.setStatus(StatusCompleting)
	}
	if u.status != StatusCompleting || u.pending.Valid() {
		return
	}
	c.settle(u, translation, velocity)
}

// settle decides whether a released leaf turns the page. A leaf that does
// not is reversed so the same forward animation carries it back.
func (c *Controller) settle(u *Unit, translation, velocity float64) {
	speed := geometry.ReleaseSpeed(translation, velocity, c.bounds.Extent(c.orientation))
	if !DidFlipToNewPage(u.direction, u.edge, speed, c.tuning.SpeedThreshold) && !u.edge {
		c.reverseDirection(u)
		c.metrics.SnappedBack()
		c.log.V(logDebug).Info("snapping back", "unit", u.id, "releaseSpeed", speed, "page", c.current)
	}
	c.setUpForFlip(u, 1, true)
}

// DidFlipToNewPage reports whether a release with the given speed turns the
// page for a leaf travelling in d.
func DidFlipToNewPage(d geometry.Direction, edge bool, releaseSpeed, threshold float64) bool {
	if edge || math.Abs(releaseSpeed) <= threshold {
		return false
	}
	switch d {
	case geometry.DirectionStart:
		return releaseSpeed < 0
	case geometry.DirectionEnd:
		return releaseSpeed > 0
	default:
		return false
	}
}

func (c *Controller) panCancelled(ev gesture.Event) {
	u := c.trackedUnit()
	c.tracked = 0
	if u == nil {
		return
	}
	switch u.status {
	case StatusBeginning:
		c.evict(u)
	case StatusActive:
		u.setStatus(StatusCompleting)
		c.settle(u, ev.Translation.Along(c.orientation), 0)
	}
}

// setUpForFlip moves the leaf to the given progress, animated at constant
// angular speed or instantly. Animated moves carry a completion token.
func (c *Controller) setUpForFlip(u *Unit, progress float64, animated bool) {
	target := u.angles.Lerp(progress)
	var d time.Duration
	if animated {
		base := c.tuning.Duration
		if u.edge {
			base = c.tuning.EdgeDuration
		}
		d = time.Duration(geometry.Duration(base.Seconds(), u.angles, target) * float64(time.Second))
	}
	u.angles.Current = target
	if u.edge {
		u.angles.Current = geometry.ClampEdge(c.orientation, u.direction, target, c.allowPeek)
	}

	tx := Transaction{Duration: d, Perspective: geometry.Perspective}
	if animated {
		c.seq++
		tx.Completion = Token{Unit: u.id, Seq: c.seq}
		u.pending = tx.Completion
		c.metrics.AnimationScheduled(d)
	}
	c.log.V(logTrace).Info("rotate", "unit", u.id, "angle", u.angles.Current, "duration", d)
	c.r.Rotate(u.layer, u.angles.Current, tx)
}
