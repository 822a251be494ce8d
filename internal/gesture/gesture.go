// Package gesture turns raw pointer samples into classified pan events.
//
// A drag is recognized once the pointer leaves a small dead zone around the
// press point. From then on every move produces a Changed event carrying the
// translation from the press point and a velocity measured over a short
// sliding window. A recognizer that has been disabled swallows the rest of
// the current drag and re-arms on the next press.
package gesture

import (
	"fmt"
	"math"
	"time"

	"github.com/five82/foldview/internal/geometry"
)

const (
	DefaultDeadZone       = 4.0 // points
	DefaultVelocityWindow = 100 * time.Millisecond
)

// Phase is the recognizer state an event reports.
type Phase int

const (
	Began Phase = iota
	Changed
	Ended
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Event is one classified pan sample. Velocity is in points per second.
type Event struct {
	Phase       Phase
	Translation geometry.Vec
	Velocity    geometry.Vec
}

type sample struct {
	at geometry.Point
	t  time.Time
}

// Recognizer classifies pointer samples for a single drag stream.
type Recognizer struct {
	deadZone float64
	window   time.Duration

	down     bool
	began    bool
	disabled bool
	origin   geometry.Point
	samples  []sample
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithDeadZone sets the minimum travel before a drag begins.
func WithDeadZone(points float64) Option {
	return func(r *Recognizer) { r.deadZone = points }
}

// WithVelocityWindow sets how far back velocity samples reach.
func WithVelocityWindow(d time.Duration) Option {
	return func(r *Recognizer) { r.window = d }
}

// NewRecognizer returns an idle recognizer.
func NewRecognizer(opts ...Option) *Recognizer {
	r := &Recognizer{deadZone: DefaultDeadZone, window: DefaultVelocityWindow}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tracking reports whether a recognized drag is in progress.
func (r *Recognizer) Tracking() bool {
	return r.began && !r.disabled
}

// Press starts a new pointer stream and re-enables a disabled recognizer.
func (r *Recognizer) Press(p geometry.Point, now time.Time) {
	r.down = true
	r.began = false
	r.disabled = false
	r.origin = p
	r.samples = append(r.samples[:0], sample{at: p, t: now})
}

// Move feeds a pointer position. It returns the events the move produced:
// none inside the dead zone, Began followed by Changed when the drag is first
// recognized, and a single Changed afterwards.
func (r *Recognizer) Move(p geometry.Point, now time.Time) []Event {
	if !r.down || r.disabled {
		return nil
	}
	r.record(p, now)

	if !r.began {
		dx := p.X - r.origin.X
		dy := p.Y - r.origin.Y
		if math.Hypot(dx, dy) <= r.deadZone {
			return nil
		}
		r.began = true
		return []Event{r.event(Began, p), r.event(Changed, p)}
	}
	return []Event{r.event(Changed, p)}
}

// Release ends the stream. A recognized, enabled drag reports Ended.
func (r *Recognizer) Release(p geometry.Point, now time.Time) []Event {
	if !r.down {
		return nil
	}
	defer r.reset()
	if !r.began || r.disabled {
		return nil
	}
	r.record(p, now)
	return []Event{r.event(Ended, p)}
}

// Disable cancels the current drag. It reports Cancelled once; further
// moves and the release are swallowed.
func (r *Recognizer) Disable() []Event {
	if !r.down || r.disabled {
		return nil
	}
	r.disabled = true
	if !r.began {
		return nil
	}
	last := r.origin
	if n := len(r.samples); n > 0 {
		last = r.samples[n-1].at
	}
	return []Event{r.event(Cancelled, last)}
}

func (r *Recognizer) reset() {
	r.down = false
	r.began = false
	r.samples = r.samples[:0]
}

func (r *Recognizer) record(p geometry.Point, now time.Time) {
	r.samples = append(r.samples, sample{at: p, t: now})
	cutoff := now.Add(-r.window)
	drop := 0
	// keep at least two samples so a slow drag still has a velocity
	for drop < len(r.samples)-2 && r.samples[drop].t.Before(cutoff) {
		drop++
	}
	if drop > 0 {
		r.samples = append(r.samples[:0], r.samples[drop:]...)
	}
}

func (r *Recognizer) event(phase Phase, p geometry.Point) Event {
	return Event{
		Phase:       phase,
		Translation: geometry.Vec{X: p.X - r.origin.X, Y: p.Y - r.origin.Y},
		Velocity:    r.velocity(),
	}
}

func (r *Recognizer) velocity() geometry.Vec {
	if len(r.samples) < 2 {
		return geometry.Vec{}
	}
	first := r.samples[0]
	last := r.samples[len(r.samples)-1]
	dt := last.t.Sub(first.t).Seconds()
	if dt <= 0 {
		return geometry.Vec{}
	}
	return geometry.Vec{
		X: (last.at.X - first.at.X) / dt,
		Y: (last.at.Y - first.at.Y) / dt,
	}
}

// Flick returns the event sequence of an instantaneous drag with the given
// translation and release velocity. Keyboard navigation feeds it through the
// same path as pointer drags.
func Flick(translation, velocity geometry.Vec) []Event {
	return []Event{
		{Phase: Began},
		{Phase: Changed, Translation: translation, Velocity: velocity},
		{Phase: Ended, Translation: translation, Velocity: velocity},
	}
}
