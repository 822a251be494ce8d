package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/foldview/internal/geometry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Orientation != geometry.Horizontal {
		t.Fatalf("Orientation = %v, want horizontal", cfg.Orientation)
	}
	if cfg.SpeedThreshold != defaultSpeedThreshold {
		t.Fatalf("SpeedThreshold = %v, want %v", cfg.SpeedThreshold, defaultSpeedThreshold)
	}
	if cfg.Duration != defaultDuration {
		t.Fatalf("Duration = %v, want %v", cfg.Duration, defaultDuration)
	}
	if cfg.DeckDir != "" {
		t.Fatalf("DeckDir = %q, want empty", cfg.DeckDir)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
orientation = "  Vertical "
deck_dir = "  ~/pages  "
allow_edge_peek = true
speed_threshold = 0.5
duration_seconds = 0.45
points_per_cell = 2.5
scale = 2
frame_rate = 60
poll_seconds = 0
log_level = "TRACE"
metrics_addr = " 127.0.0.1:9464 "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Orientation != geometry.Vertical {
		t.Fatalf("Orientation = %v, want vertical", cfg.Orientation)
	}
	if cfg.DeckDir != filepath.Join(home, "pages") {
		t.Fatalf("DeckDir = %q, want it under HOME %q", cfg.DeckDir, home)
	}
	if !cfg.AllowEdgePeek {
		t.Fatal("AllowEdgePeek = false, want true")
	}
	if cfg.SpeedThreshold != 0.5 || cfg.PointsPerCell != 2.5 || cfg.Scale != 2 {
		t.Fatalf("numbers = %v/%v/%v, want 0.5/2.5/2", cfg.SpeedThreshold, cfg.PointsPerCell, cfg.Scale)
	}
	if cfg.Duration != 450*time.Millisecond {
		t.Fatalf("Duration = %v, want 450ms", cfg.Duration)
	}
	if cfg.FrameInterval() != time.Second/60 {
		t.Fatalf("FrameInterval = %v, want %v", cfg.FrameInterval(), time.Second/60)
	}
	if cfg.PollInterval != 0 {
		t.Fatalf("PollInterval = %v, want 0", cfg.PollInterval)
	}
	if cfg.LogLevel != "trace" {
		t.Fatalf("LogLevel = %q, want trace", cfg.LogLevel)
	}
	if cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Fatalf("MetricsAddr = %q, want 127.0.0.1:9464", cfg.MetricsAddr)
	}
}

func TestLoad_RejectsOutOfRangeValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		body string
	}{
		{"orientation", `orientation = "diagonal"`},
		{"speed threshold", `speed_threshold = 1.5`},
		{"zero duration", `duration_seconds = 0`},
		{"points per cell", `points_per_cell = -1`},
		{"scale", `scale = 0`},
		{"frame rate", `frame_rate = 500`},
		{"poll", `poll_seconds = -3`},
		{"log level", `log_level = "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error for %s", tt.body)
			}
			if !strings.Contains(err.Error(), "validate config") {
				t.Fatalf("Load error = %q, want it to mention validate config", err.Error())
			}
		})
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `orientation = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
	if ExpandPath("~/a/b") != want {
		t.Fatalf("ExpandPath = %q, want %q", ExpandPath("~/a/b"), want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
	if got := ExpandPath("   "); got != "   " {
		t.Fatalf("ExpandPath = %q, want input unchanged", got)
	}
}
