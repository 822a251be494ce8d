package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/foldview/internal/config"
	"github.com/five82/foldview/internal/deck"
	"github.com/five82/foldview/internal/flip"
	"github.com/five82/foldview/internal/geometry"
	"github.com/five82/foldview/internal/logging"
	"github.com/five82/foldview/internal/metrics"
	"github.com/five82/foldview/internal/prefs"
	"github.com/five82/foldview/internal/state"
	"github.com/five82/foldview/internal/ui"
)

// Options configure the foldview application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/foldview/prefs.toml
	DeckDir    string
	Vertical   bool
	PollEvery  int // seconds; zero uses the config value
	// Seed picks the sample deck colours when no deck directory is set.
	Seed uint64
}

// Run boots the foldview TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		// Preferences are cosmetic; carry on with the defaults.
		userPrefs = prefs.Prefs{}
	}

	log, closeLog, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()
	log.Info("starting", "orientation", cfg.Orientation.String(), "deckDir", cfg.DeckDir, "logLevel", cfg.LogLevel)

	recorder, err := startMetrics(ctx, cfg.MetricsAddr, log)
	if err != nil {
		return err
	}

	store := &state.Store{}
	if cfg.DeckDir != "" {
		load := DirLoader(cfg.DeckDir)
		if err := refresh(ctx, store, load, log); err != nil {
			return fmt.Errorf("load deck: %w", err)
		}
		StartPoller(ctx, store, load, cfg.PollInterval, log)
	} else {
		seed := opts.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		sample := deck.Sample(deck.SampleSize, seed)
		store.Update(&sample, nil)
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Store:     store,
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Logger:    log,
		Metrics:   recorder,
	}
	if err := ui.Run(uiOpts); err != nil {
		log.Error(err, "ui exited")
		return err
	}
	log.Info("stopped")
	return nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.DeckDir != "" {
		cfg.DeckDir = config.ExpandPath(opts.DeckDir)
	}
	if opts.Vertical {
		cfg.Orientation = geometry.Vertical
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
}

// startMetrics registers the flip collectors and, when addr is set, serves
// them in the background.
func startMetrics(ctx context.Context, addr string, log logr.Logger) (flip.Recorder, error) {
	reg := prometheus.NewRegistry()
	recorder, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	if addr == "" {
		return recorder, nil
	}
	go func() {
		if err := metrics.Serve(ctx, addr, reg, log.WithName("metrics")); err != nil {
			log.Error(err, "metrics endpoint stopped", "addr", addr)
		}
	}()
	return recorder, nil
}
