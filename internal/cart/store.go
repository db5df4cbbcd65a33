// Package cart implements the authoritative cart store backed by an
// injected persistence port.
package cart

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"trackify/internal/model"
)

// ErrNotFound reports that no entry matches the requested id.
var ErrNotFound = errors.New("cart: entry not found")

// Port is the durable backing for the cart collection.
type Port interface {
	Load() ([]model.CartEntry, error)
	Save(entries []model.CartEntry) error
}

// Store owns the in-memory cart collection and keeps it durable. Every
// mutation saves through the port before the in-memory state is committed,
// so a failed save leaves both sides untouched.
type Store struct {
	mu      sync.RWMutex
	port    Port
	entries []model.CartEntry
	newTrk  func() string
}

func New(port Port) *Store {
	return &Store{port: port, newTrk: newTrackingID}
}

func newTrackingID() string {
	return fmt.Sprintf("TRK-%d", rand.Intn(1000000))
}

// Load reads the persisted collection, back-fills missing tracking ids and
// quantities, and writes the back-filled collection back immediately.
// Entry order is preserved.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loaded, err := s.port.Load()
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	changed := false
	for i := range loaded {
		if loaded[i].TrackingID == "" {
			loaded[i].TrackingID = s.newTrk()
			changed = true
		}
		if loaded[i].Quantity < 1 {
			loaded[i].Quantity = 1
			changed = true
		}
	}
	if changed {
		if err := s.port.Save(loaded); err != nil {
			return fmt.Errorf("save back-filled cart: %w", err)
		}
	}
	s.entries = loaded
	return nil
}

// Entries returns a copy of the current collection in insertion order.
func (s *Store) Entries() []model.CartEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CartEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Add merges a catalog product into the cart. An existing entry with the
// same id has its quantity incremented by qty; otherwise a new entry is
// inserted with a fresh tracking id. qty below 1 counts as 1.
func (s *Store) Add(p model.Product, qty int) (model.CartEntry, error) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.CartEntry, len(s.entries))
	copy(next, s.entries)
	idx := -1
	for i := range next {
		if next[i].ID == p.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		next[idx].Quantity += qty
	} else {
		next = append(next, model.CartEntry{
			ID:         p.ID,
			Title:      p.Title,
			Image:      p.Image,
			Price:      p.Price,
			Quantity:   qty,
			TrackingID: s.newTrk(),
		})
		idx = len(next) - 1
	}
	if err := s.port.Save(next); err != nil {
		return model.CartEntry{}, fmt.Errorf("save cart: %w", err)
	}
	s.entries = next
	return next[idx], nil
}

// Remove deletes the entry with the matching id. Removing an absent id is
// a no-op; the (unchanged) collection is still persisted.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.CartEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if err := s.port.Save(next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.entries = next
	return nil
}

// AdjustQuantity shifts an entry's quantity by delta, flooring at 1, and
// returns the new quantity.
func (s *Store) AdjustQuantity(id int64, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.entries {
		if s.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrNotFound
	}
	next := make([]model.CartEntry, len(s.entries))
	copy(next, s.entries)
	q := next[idx].Quantity + delta
	if q < 1 {
		q = 1
	}
	next[idx].Quantity = q
	if err := s.port.Save(next); err != nil {
		return 0, fmt.Errorf("save cart: %w", err)
	}
	s.entries = next
	return q, nil
}

// Total sums price*quantity over all entries, rounded to two decimals.
// Unusable prices count as zero.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var t float64
	for _, e := range s.entries {
		price := e.Price
		if math.IsNaN(price) || math.IsInf(price, 0) {
			price = 0
		}
		t += price * float64(e.Quantity)
	}
	return math.Round(t*100) / 100
}

// FindByTracking scans the collection for the entry with the given
// tracking id. A miss is an empty result, not an error.
func (s *Store) FindByTracking(trackingID string) (model.CartEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.TrackingID == trackingID {
			return e, true
		}
	}
	return model.CartEntry{}, false
}

// SetProgress advances an entry's delivery progress. Progress never
// decreases and clamps at 100. Returns the stored progress.
func (s *Store) SetProgress(trackingID string, progress int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.entries {
		if s.entries[i].TrackingID == trackingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrNotFound
	}
	if progress > 100 {
		progress = 100
	}
	if progress <= s.entries[idx].Progress {
		return s.entries[idx].Progress, nil
	}
	next := make([]model.CartEntry, len(s.entries))
	copy(next, s.entries)
	next[idx].Progress = progress
	if err := s.port.Save(next); err != nil {
		return 0, fmt.Errorf("save cart: %w", err)
	}
	s.entries = next
	return progress, nil
}
