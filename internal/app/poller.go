package app

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/five82/foldview/internal/deck"
	"github.com/five82/foldview/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// DeckLoader produces the current deck.
type DeckLoader func(ctx context.Context) (deck.Deck, error)

// DirLoader rescans dir on every call.
func DirLoader(dir string) DeckLoader {
	return func(context.Context) (deck.Deck, error) {
		return deck.LoadDir(dir)
	}
}

// StartPoller launches a background goroutine that refreshes the store. The
// interval doubles with each consecutive failure, up to maxBackoff. It
// returns immediately.
func StartPoller(ctx context.Context, store *state.Store, load DeckLoader, interval time.Duration, log logr.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, load, log)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, load DeckLoader, log logr.Logger) error {
	d, err := load(ctx)
	if err != nil {
		store.Update(nil, err)
		log.Error(err, "deck poll failed")
		return err
	}
	before := store.Version()
	store.Update(&d, nil)
	if after := store.Version(); after != before {
		log.V(1).Info("deck changed", "pages", d.Len(), "version", after)
	}
	return nil
}

// calculateBackoff returns base doubled once per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
