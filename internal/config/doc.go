// Package config loads foldview's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/foldview/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but keys are missing, those keys keep their defaults
//
// # Keys
//
//	orientation      = "horizontal"   # or "vertical"; fixed for a session
//	deck_dir         = ""             # *.txt / *.md pages; empty = sample deck
//	allow_edge_peek  = false          # prefs.toml may override
//	speed_threshold  = 0.3            # release speed needed to turn a page
//	duration_seconds = 0.3            # full-sweep animation time
//	points_per_cell  = 4              # logical points per canvas pixel
//	scale            = 1              # device pixels per point
//	frame_rate       = 30             # animation ticks per second
//	poll_seconds     = 5              # deck directory rescan; 0 disables
//	log_file         = "~/.local/state/foldview/foldview.log"
//	log_level        = "info"         # info, debug or trace
//	metrics_addr     = ""             # e.g. "127.0.0.1:9464"
//
// Numeric keys are validated; an out-of-range value is an error rather than
// a silent clamp, so a typo in the file is reported at startup.
//
// # Path Expansion
//
// Tilde paths are expanded to the home directory and relative paths are made
// absolute. Expansion applies to the config path, deck_dir and log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - Values outside their documented range
//
// Command-line flags in cmd/foldview override the loaded values.
package config
