// Package dashboard caches the reconciliation of the ledgers.
package dashboard

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/messmill/backend/internal/events"
	"github.com/messmill/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// Loader computes a fresh reconciliation.
type Loader func() (models.Reconciliation, error)

// View holds the last computed reconciliation. It is recomputed on the
// first read after a change event.
type View struct {
	load       Loader
	generation atomic.Uint64

	mu         sync.Mutex
	valid      bool
	computed   uint64
	computedAt time.Time
	snapshot   models.Reconciliation
}

func New(load Loader) *View {
	return &View{load: load}
}

// Snapshot returns the current reconciliation and the time it was computed.
func (v *View) Snapshot() (models.Reconciliation, time.Time, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	generation := v.generation.Load()
	if v.valid && v.computed == generation {
		return v.snapshot, v.computedAt, nil
	}

	r, err := v.load()
	if err != nil {
		return models.Reconciliation{}, time.Time{}, err
	}

	v.snapshot = r
	v.computed = generation
	v.computedAt = time.Now().UTC()
	v.valid = true

	log.Debug().Uint64("generation", generation).Msg("dashboard recomputed")
	return v.snapshot, v.computedAt, nil
}

// Invalidate marks the snapshot stale.
func (v *View) Invalidate() {
	v.generation.Add(1)
}

// Watch invalidates the snapshot on every event published on the bus.
// The returned function stops watching.
func (v *View) Watch(bus *events.Bus) func() {
	return bus.Observe(func(events.Event) {
		v.Invalidate()
	})
}
