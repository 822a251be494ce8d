package flip

import (
	"time"

	"github.com/five82/foldview/internal/geometry"
)

// Recorder receives flip lifecycle observations.
type Recorder interface {
	FlipStarted(d geometry.Direction)
	FlipCommitted(d geometry.Direction)
	SnappedBack()
	EdgeFlip()
	Conflict()
	GestureRejected()
	Cancelled()
	StaleCompletion()
	AnimationScheduled(d time.Duration)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) FlipStarted(geometry.Direction) {}
func (NopRecorder) FlipCommitted(geometry.Direction) {}
func (NopRecorder) SnappedBack() {}
func (NopRecorder) EdgeFlip() {}
func (NopRecorder) Conflict() {}
func (NopRecorder) GestureRejected() {}
func (NopRecorder) Cancelled() {}
func (NopRecorder) StaleCompletion() {}
func (NopRecorder) AnimationScheduled(time.Duration) {}

var _ Recorder = NopRecorder{}
