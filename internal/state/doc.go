// Package state provides thread-safe state management for foldview.
//
// # Overview
//
// The Store shares the current page deck between the background deck poller
// and the UI. It is the one place where scanning meets rendering.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌──────────────────┐
//	│ deck.LoadDir() │            │                  │
//	│      ↓         │            │                  │
//	│ store.Update() │───────────→│ store.Version()  │
//	│      ↓         │  (mutex)   │ store.Snapshot() │
//	│  repeat...     │            │ controller.Reload│
//	└────────────────┘            └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace the deck if its content changed
//	store.Update(&d, nil)
//	→ snapshot.Deck = d, Version++ (only when the fingerprint differs)
//	→ snapshot.LastError = nil, ConsecutiveFailures = 0
//
//	// Error: keep the old deck, record the error
//	store.Update(nil, err)
//	→ snapshot.Deck = <unchanged>
//	→ snapshot.LastError = err, ConsecutiveFailures++
//
// The UI compares Version against the version it last loaded and reloads the
// flip controller only when they differ and no flip is in flight. A rescan
// that finds identical files therefore never interrupts the reader.
//
// # Copying
//
// Snapshot returns the deck with its page slice cloned and the error wrapped,
// so the UI can hold on to a snapshot while the poller keeps writing.
//
// The zero Store is ready to use; Snapshot returns a zero Snapshot until the
// first successful Update.
package state
