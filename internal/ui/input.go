package ui

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/foldview/internal/flip"
	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/gesture"
)

// handleMouse feeds left-button drags on the page canvas through the pan
// recognizer.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	p, inside := m.canvas.Point(msg.X, msg.Y)
	now := m.now()

	var events []gesture.Event
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m, nil
		}
		m.recognizer.Press(p, now)
		return m, nil
	case tea.MouseActionMotion:
		events = m.recognizer.Move(p, now)
	case tea.MouseActionRelease:
		events = m.recognizer.Release(p, now)
	}
	if len(events) == 0 {
		return m, nil
	}
	m.dispatch(events)
	return m.afterControl()
}

// dispatch hands pan events to the controller in order. A Disable response
// cancels the rest of the drag; the cancellation goes back to the controller
// and the remaining events are dropped.
func (m *Model) dispatch(events []gesture.Event) {
	for _, ev := range events {
		if m.controller.HandlePan(ev) != flip.Disable {
			continue
		}
		for _, cancel := range m.recognizer.Disable() {
			m.controller.HandlePan(cancel)
		}
		return
	}
}

// flick turns the page from the keyboard with a synthetic fast swipe. A drag
// toward the start side turns to the next page.
func (m *Model) flick(d geometry.Direction) {
	if m.recognizer.Tracking() {
		return
	}
	o := m.controller.Orientation()
	extent := m.controller.Bounds().Extent(o)
	if extent <= 0 {
		return
	}
	sign := -1.0
	if d == geometry.DirectionEnd {
		sign = 1
	}
	travel := sign * extent / 6
	speed := sign * math.Max(3*extent, 1000)

	var translation, velocity geometry.Vec
	if o == geometry.Vertical {
		translation.Y, velocity.Y = travel, speed
	} else {
		translation.X, velocity.X = travel, speed
	}
	for _, ev := range gesture.Flick(translation, velocity) {
		if m.controller.HandlePan(ev) == flip.Disable {
			return
		}
	}
}
