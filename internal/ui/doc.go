// Package ui provides the terminal front end for foldview.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model.Update is the single control thread
// for the flip machinery: mouse samples, key presses, animation frame ticks,
// redispatched animation completions and deck store snapshots all arrive as
// messages and are applied one at a time.
//
// # Package Structure
//
//   - app.go: Model, message handling, frame loop and the Run function
//   - input.go: mouse drags through gesture.Recognizer and keyboard flicks
//   - canvas.go: half-block rendering of compositor frames
//   - layout.go: screen rows, canvas size and cell to point mapping
//   - header.go: status bar and command bar
//   - help.go: keyboard shortcut overlay
//   - keys.go: key bindings via bubbles/key
//   - theme.go: color themes and Lipgloss styles
//
// # Frame Loop
//
// While the compositor reports animations, a frame tick is scheduled at the
// configured frame rate. Each tick collects the completion tokens that are
// due and sends every one back through the program as its own message, so a
// completion never runs inside the handler of another event.
//
// # Deck Updates
//
// Snapshots are read from state.Store on every poll tick. A new deck version
// is held back while flips are in flight and swapped in once the controller
// is idle.
package ui
