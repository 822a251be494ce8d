package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/foldview/internal/geometry"
)

// Config holds foldview's settings after defaults and validation.
type Config struct {
	Orientation    geometry.Orientation
	DeckDir        string // empty uses the built-in sample deck
	AllowEdgePeek  bool
	SpeedThreshold float64
	Duration       time.Duration
	PointsPerCell  float64
	Scale          float64
	FrameRate      int
	PollInterval   time.Duration
	LogFile        string
	LogLevel       string
	MetricsAddr    string
}

const (
	defaultConfigPath     = "~/.config/foldview/config.toml"
	defaultLogFile        = "~/.local/state/foldview/foldview.log"
	defaultSpeedThreshold = 0.3
	defaultDuration       = 300 * time.Millisecond
	defaultPointsPerCell  = 4
	defaultScale          = 1
	defaultFrameRate      = 30
	defaultPollInterval   = 5 * time.Second
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Orientation:    geometry.Horizontal,
		SpeedThreshold: defaultSpeedThreshold,
		Duration:       defaultDuration,
		PointsPerCell:  defaultPointsPerCell,
		Scale:          defaultScale,
		FrameRate:      defaultFrameRate,
		PollInterval:   defaultPollInterval,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

type rawConfig struct {
	Orientation     string   `toml:"orientation"`
	DeckDir         string   `toml:"deck_dir"`
	AllowEdgePeek   *bool    `toml:"allow_edge_peek"`
	SpeedThreshold  *float64 `toml:"speed_threshold"`
	DurationSeconds *float64 `toml:"duration_seconds"`
	PointsPerCell   *float64 `toml:"points_per_cell"`
	Scale           *float64 `toml:"scale"`
	FrameRate       *int     `toml:"frame_rate"`
	PollSeconds     *int     `toml:"poll_seconds"`
	LogFile         string   `toml:"log_file"`
	LogLevel        string   `toml:"log_level"`
	MetricsAddr     string   `toml:"metrics_addr"`
}

// Load locates and parses the config file, falling back to defaults when it
// is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := raw.apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (raw rawConfig) apply(cfg *Config) error {
	if o := strings.ToLower(strings.TrimSpace(raw.Orientation)); o != "" {
		parsed, err := geometry.ParseOrientation(o)
		if err != nil {
			return err
		}
		cfg.Orientation = parsed
	}
	if dir := strings.TrimSpace(raw.DeckDir); dir != "" {
		cfg.DeckDir = mustExpand(dir)
	}
	if raw.AllowEdgePeek != nil {
		cfg.AllowEdgePeek = *raw.AllowEdgePeek
	}
	if v := raw.SpeedThreshold; v != nil {
		if *v <= 0 || *v > 1 {
			return fmt.Errorf("speed_threshold %v out of range (0, 1]", *v)
		}
		cfg.SpeedThreshold = *v
	}
	if v := raw.DurationSeconds; v != nil {
		if *v <= 0 {
			return fmt.Errorf("duration_seconds must be positive, got %v", *v)
		}
		cfg.Duration = time.Duration(*v * float64(time.Second))
	}
	if v := raw.PointsPerCell; v != nil {
		if *v <= 0 {
			return fmt.Errorf("points_per_cell must be positive, got %v", *v)
		}
		cfg.PointsPerCell = *v
	}
	if v := raw.Scale; v != nil {
		if *v <= 0 {
			return fmt.Errorf("scale must be positive, got %v", *v)
		}
		cfg.Scale = *v
	}
	if v := raw.FrameRate; v != nil {
		if *v < 1 || *v > 120 {
			return fmt.Errorf("frame_rate %d out of range [1, 120]", *v)
		}
		cfg.FrameRate = *v
	}
	if v := raw.PollSeconds; v != nil {
		if *v < 0 {
			return fmt.Errorf("poll_seconds must not be negative, got %d", *v)
		}
		cfg.PollInterval = time.Duration(*v) * time.Second
	}
	if f := strings.TrimSpace(raw.LogFile); f != "" {
		cfg.LogFile = mustExpand(f)
	}
	if lvl := strings.ToLower(strings.TrimSpace(raw.LogLevel)); lvl != "" {
		switch lvl {
		case "info", "debug", "trace":
			cfg.LogLevel = lvl
		default:
			return fmt.Errorf("unknown log_level %q", raw.LogLevel)
		}
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	return nil
}

// FrameInterval is the time between animation ticks.
func (c Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / defaultFrameRate
	}
	return time.Second / time.Duration(c.FrameRate)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// ExpandPath resolves a leading ~ and returns an absolute path; on failure
// the input is returned unchanged.
func ExpandPath(path string) string { return mustExpand(path) }

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
