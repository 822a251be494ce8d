package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/foldview/internal/deck"
)

// Snapshot represents the latest deck available to the UI.
type Snapshot struct {
	Deck                deck.Deck
	HasDeck             bool
	Version             uint64 // bumped whenever the deck content changes
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive scan failures
}

// IsStale returns true when the deck source has failed repeatedly.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu          sync.RWMutex
	snapshot    Snapshot
	fingerprint uint64
}

// Update replaces the stored deck. When err is non-nil the previous deck is
// kept but the error is recorded for visibility. The version only moves when
// the deck's content differs from what is stored.
func (s *Store) Update(d *deck.Deck, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	if d == nil {
		return
	}

	fp := d.Fingerprint()
	if s.snapshot.HasDeck && fp == s.fingerprint {
		return
	}
	s.snapshot.Deck = cloneDeck(*d)
	s.snapshot.HasDeck = true
	s.snapshot.Version++
	s.fingerprint = fp
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Deck = cloneDeck(s.snapshot.Deck)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Version returns the current deck version without copying the deck.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

func cloneDeck(d deck.Deck) deck.Deck {
	if len(d.Pages) == 0 {
		d.Pages = nil
		return d
	}
	pages := make([]deck.Page, len(d.Pages))
	copy(pages, d.Pages)
	d.Pages = pages
	return d
}
