// Package app provides the orchestration layer for foldview.
//
// # Overview
//
// This package wires together configuration, preferences, logging, metrics,
// the deck store and the UI. It is the composition root where every
// dependency is initialized and connected.
//
// # Architecture
//
//  1. Load ~/.config/foldview/config.toml and apply command-line overrides
//  2. Load preferences (theme, edge peek), falling back to defaults
//  3. Open the JSON log file and, when configured, the /metrics endpoint
//  4. Load the deck into a shared state.Store: a directory of pages or the
//     built-in sample deck
//  5. For a deck directory, launch the background poller
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      Read config.toml
//	       ├─────> logging.New()      zap core behind logr
//	       ├─────> metrics.New()      Prometheus collectors
//	       ├─────> state.Store{}      Shared deck container
//	       ├─────> StartPoller()      Rescan the deck directory
//	       └─────> ui.Run()           Start TUI (blocks)
//
// # Polling Behavior
//
// The poller rescans the deck directory at the configured interval (default:
// 5 seconds). A failed scan keeps the previous deck, records the error and
// doubles the wait, up to 30 seconds. An unchanged directory keeps the store
// version, so the UI only reloads the flip controller when pages change.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration file
//   - Log file that cannot be opened
//   - Deck directory that cannot be read on startup
//
// Recoverable errors (logged, polling continues):
//   - Deck rescans that fail or find no pages
//   - Metrics endpoint failures
package app
