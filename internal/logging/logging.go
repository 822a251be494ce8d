// Package logging builds foldview's structured logger. Records are JSON
// lines in a file because the terminal belongs to the UI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/gogpu/gg"
	uberzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logr's V.
const (
	DEFAULT = 0
	DEBUG   = 1
	TRACE   = 2
)

// Options configure New.
type Options struct {
	Path        string
	Level       string // info, debug or trace
	Development bool
}

// ParseLevel maps a level name to a logr verbosity.
func ParseLevel(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return DEFAULT, nil
	case "debug":
		return DEBUG, nil
	case "trace":
		return TRACE, nil
	default:
		return DEFAULT, fmt.Errorf("unknown log level %q", name)
	}
}

// New opens the log file and returns a logger writing to it plus a close
// function that flushes and closes the file.
func New(opts Options) (logr.Logger, func() error, error) {
	verbosity, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), nil, err
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return logr.Discard(), nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("open log file: %w", err)
	}

	zl := newZap(file, verbosity, opts.Development)
	logger := zapr.NewLogger(zl)
	if verbosity >= TRACE {
		gg.SetLogger(slog.New(logr.ToSlogHandler(logger.WithName("gg"))))
	}

	closeFn := func() error {
		_ = zl.Sync()
		return file.Close()
	}
	return logger, closeFn, nil
}

// NewWriter returns a logger writing to w; used by tests and tools that
// want records in memory.
func NewWriter(w io.Writer, verbosity int) logr.Logger {
	return zapr.NewLogger(newZap(w, verbosity, false))
}

func newZap(w io.Writer, verbosity int, development bool) *uberzap.Logger {
	encCfg := uberzap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	level := uberzap.NewAtomicLevelAt(zapcore.Level(int8(-verbosity)))
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), level)

	opts := []uberzap.Option{uberzap.AddCaller()}
	if development {
		opts = append(opts, uberzap.Development())
	}
	return uberzap.New(core, opts...)
}
