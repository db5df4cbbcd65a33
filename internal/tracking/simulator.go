// Package tracking implements the simulated delivery progress pipeline.
package tracking

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"trackify/internal/cart"
	"trackify/internal/model"
	"trackify/internal/obs"
)

// ErrAlreadyWatching reports that the tracking id already has an active
// watch; at most one timer may run per entry.
var ErrAlreadyWatching = errors.New("tracking: watch already active")

// ErrDelivered reports that the entry reached 100 and cannot be watched
// again.
var ErrDelivered = errors.New("tracking: already delivered")

// Snapshot is the externally visible tracking state of one entry.
type Snapshot struct {
	Entry    model.CartEntry   `json:"entry"`
	Progress int               `json:"progress"`
	Status   string            `json:"status"`
	Location model.Coordinates `json:"location"`
}

// Simulator advances delivery progress for watched entries on a fixed-period
// timer and exposes the same advance as a synchronous Tick for callers that
// schedule it themselves.
type Simulator struct {
	cart     *cart.Store
	interval time.Duration
	step     func() int

	mu      sync.Mutex
	watches map[string]context.CancelFunc
}

// New builds a Simulator. Each tick advances progress by a uniform random
// integer in [stepMin, stepMax).
func New(store *cart.Store, interval time.Duration, stepMin, stepMax int) *Simulator {
	if stepMin < 1 {
		stepMin = 1
	}
	if stepMax <= stepMin {
		stepMax = stepMin + 1
	}
	return &Simulator{
		cart:     store,
		interval: interval,
		step:     func() int { return stepMin + rand.Intn(stepMax-stepMin) },
		watches:  make(map[string]context.CancelFunc),
	}
}

// Snapshot looks up the current tracking state. A miss is an empty result,
// not an error.
func (s *Simulator) Snapshot(trackingID string) (Snapshot, bool) {
	e, ok := s.cart.FindByTracking(trackingID)
	if !ok {
		return Snapshot{}, false
	}
	return s.snapshotOf(e), true
}

func (s *Simulator) snapshotOf(e model.CartEntry) Snapshot {
	return Snapshot{
		Entry:    e,
		Progress: e.Progress,
		Status:   StatusFor(e.Progress),
		Location: WaypointFor(e.Progress),
	}
}

// Watch starts the timer for a tracking id. Unknown ids report
// cart.ErrNotFound, delivered entries ErrDelivered, and a second Watch for
// the same id ErrAlreadyWatching.
func (s *Simulator) Watch(ctx context.Context, trackingID string) error {
	e, ok := s.cart.FindByTracking(trackingID)
	if !ok {
		return cart.ErrNotFound
	}
	if e.Progress >= 100 {
		return ErrDelivered
	}
	s.mu.Lock()
	if _, exists := s.watches[trackingID]; exists {
		s.mu.Unlock()
		return ErrAlreadyWatching
	}
	wctx, cancel := context.WithCancel(ctx)
	s.watches[trackingID] = cancel
	s.mu.Unlock()
	go s.loop(wctx, trackingID)
	obs.Logger.Info("watch_started", "tracking_id", trackingID, "progress", e.Progress)
	return nil
}

// Unwatch cancels the timer for a tracking id, reporting whether one was
// active.
func (s *Simulator) Unwatch(trackingID string) bool {
	s.mu.Lock()
	cancel, ok := s.watches[trackingID]
	if ok {
		delete(s.watches, trackingID)
	}
	s.mu.Unlock()
	if ok {
		cancel()
		obs.Logger.Info("watch_stopped", "tracking_id", trackingID)
	}
	return ok
}

// StopAll cancels every active watch.
func (s *Simulator) StopAll() {
	s.mu.Lock()
	for id, cancel := range s.watches {
		cancel()
		delete(s.watches, id)
	}
	s.mu.Unlock()
}

// IsWatching reports whether a watch timer is active for the tracking id.
func (s *Simulator) IsWatching(trackingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.watches[trackingID]
	return ok
}

// ActiveWatches returns the number of running watch timers.
func (s *Simulator) ActiveWatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}

// Tick advances one entry by a single random step, clamping at exactly 100.
// Reaching 100 permanently stops the entry's timer. An entry already at 100
// is left unchanged.
func (s *Simulator) Tick(trackingID string) (Snapshot, error) {
	e, ok := s.cart.FindByTracking(trackingID)
	if !ok {
		return Snapshot{}, cart.ErrNotFound
	}
	if e.Progress >= 100 {
		s.Unwatch(trackingID)
		return s.snapshotOf(e), nil
	}
	next := e.Progress + s.step()
	if next >= 100 {
		next = 100
	}
	p, err := s.cart.SetProgress(trackingID, next)
	if err != nil {
		return Snapshot{}, err
	}
	e.Progress = p
	if p >= 100 {
		s.Unwatch(trackingID)
	}
	return s.snapshotOf(e), nil
}

func (s *Simulator) loop(ctx context.Context, trackingID string) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			snap, err := s.Tick(trackingID)
			if err != nil {
				obs.Logger.Warn("tick_failed", "tracking_id", trackingID, "error", err)
				s.Unwatch(trackingID)
				return
			}
			obs.Logger.Debug("tick", "tracking_id", trackingID, "progress", snap.Progress, "status", snap.Status)
			if snap.Progress >= 100 {
				obs.Logger.Info("delivered", "tracking_id", trackingID)
				return
			}
		}
	}
}
