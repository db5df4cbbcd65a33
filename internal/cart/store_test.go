package cart

import (
	"errors"
	"testing"

	"trackify/internal/model"
)

type memPort struct {
	entries []model.CartEntry
	saves   int
	failSav bool
	failLod bool
}

func (p *memPort) Load() ([]model.CartEntry, error) {
	if p.failLod {
		return nil, errors.New("boom")
	}
	out := make([]model.CartEntry, len(p.entries))
	copy(out, p.entries)
	return out, nil
}

func (p *memPort) Save(entries []model.CartEntry) error {
	if p.failSav {
		return errors.New("boom")
	}
	p.saves++
	p.entries = make([]model.CartEntry, len(entries))
	copy(p.entries, entries)
	return nil
}

func newStore(t *testing.T, port *memPort) *Store {
	t.Helper()
	s := New(port)
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func shoe() model.Product {
	return model.Product{ID: 1, Title: "Shoe", Image: "shoe.png", Price: 20}
}

func TestAddMergesDuplicates(t *testing.T) {
	p := &memPort{}
	s := newStore(t, p)
	if _, err := s.Add(shoe(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	e, err := s.Add(shoe(), 2)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected one entry, got %d", s.Len())
	}
	if e.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", e.Quantity)
	}
	if got := s.Total(); got != 60.00 {
		t.Fatalf("expected total 60.00, got %v", got)
	}
	if len(p.entries) != 1 || p.entries[0].Quantity != 3 {
		t.Fatalf("persisted state diverged: %+v", p.entries)
	}
}

func TestAddAssignsStableTrackingID(t *testing.T) {
	s := newStore(t, &memPort{})
	e, _ := s.Add(shoe(), 1)
	if e.TrackingID == "" {
		t.Fatalf("expected tracking id")
	}
	e2, _ := s.Add(shoe(), 1)
	if e2.TrackingID != e.TrackingID {
		t.Fatalf("tracking id changed on merge: %q vs %q", e.TrackingID, e2.TrackingID)
	}
}

func TestLoadBackfillsAndPreservesOrder(t *testing.T) {
	p := &memPort{entries: []model.CartEntry{
		{ID: 2, Title: "Hat", Price: 5},
		{ID: 1, Title: "Shoe", Price: 20, Quantity: 2, TrackingID: "TRK-7"},
		{ID: 3, Title: "Bag", Price: 9},
	}}
	s := newStore(t, p)
	got := s.Entries()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 1 || got[2].ID != 3 {
		t.Fatalf("order not preserved: %+v", got)
	}
	for _, e := range got {
		if e.TrackingID == "" {
			t.Fatalf("missing tracking id on %d", e.ID)
		}
		if e.Quantity < 1 {
			t.Fatalf("quantity below 1 on %d", e.ID)
		}
	}
	if got[1].TrackingID != "TRK-7" {
		t.Fatalf("existing tracking id rewritten: %q", got[1].TrackingID)
	}
	if p.saves != 1 {
		t.Fatalf("back-filled collection not written back, saves=%d", p.saves)
	}
}

func TestLoadIdempotentBackfill(t *testing.T) {
	p := &memPort{entries: []model.CartEntry{{ID: 1, Title: "Shoe", Price: 20}}}
	s := newStore(t, p)
	first := s.Entries()[0].TrackingID
	if err := s.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := s.Entries()[0].TrackingID; got != first {
		t.Fatalf("tracking id changed on reload: %q vs %q", got, first)
	}
	if p.saves != 1 {
		t.Fatalf("clean reload should not rewrite, saves=%d", p.saves)
	}
}

func TestRemove(t *testing.T) {
	s := newStore(t, &memPort{})
	s.Add(shoe(), 1)
	s.Add(model.Product{ID: 2, Title: "Hat", Price: 5}, 1)
	if err := s.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Len() != 1 || s.Entries()[0].ID != 2 {
		t.Fatalf("unexpected entries: %+v", s.Entries())
	}
}

func TestRemoveAbsentLeavesCollectionUnchanged(t *testing.T) {
	p := &memPort{}
	s := newStore(t, p)
	s.Add(shoe(), 1)
	before := s.Entries()
	if err := s.Remove(99); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	after := s.Entries()
	if len(before) != len(after) || before[0] != after[0] {
		t.Fatalf("collection changed: %+v vs %+v", before, after)
	}
	if len(p.entries) != 1 || p.entries[0] != before[0] {
		t.Fatalf("persisted collection changed: %+v", p.entries)
	}
}

func TestAdjustQuantityFloorsAtOne(t *testing.T) {
	s := newStore(t, &memPort{})
	s.Add(shoe(), 2)
	q, err := s.AdjustQuantity(1, -5)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if q != 1 {
		t.Fatalf("expected floor at 1, got %d", q)
	}
	q, _ = s.AdjustQuantity(1, 3)
	if q != 4 {
		t.Fatalf("expected 4, got %d", q)
	}
	if _, err := s.AdjustQuantity(42, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvariantsAfterMixedOps(t *testing.T) {
	s := newStore(t, &memPort{})
	s.Add(shoe(), 1)
	s.Add(model.Product{ID: 2, Title: "Hat", Price: 5}, 1)
	s.Add(shoe(), 4)
	s.AdjustQuantity(2, -9)
	s.Remove(3)
	seen := map[int64]bool{}
	for _, e := range s.Entries() {
		if seen[e.ID] {
			t.Fatalf("duplicate id %d", e.ID)
		}
		seen[e.ID] = true
		if e.Quantity < 1 {
			t.Fatalf("quantity %d below 1 for id %d", e.Quantity, e.ID)
		}
	}
}

func TestTotalTreatsBadPriceAsZero(t *testing.T) {
	p := &memPort{entries: []model.CartEntry{
		{ID: 1, Quantity: 2, TrackingID: "TRK-1"},
		{ID: 2, Price: 10.555, Quantity: 1, TrackingID: "TRK-2"},
	}}
	s := newStore(t, p)
	if got := s.Total(); got != 10.56 {
		t.Fatalf("expected 10.56, got %v", got)
	}
}

func TestFindByTrackingNotFound(t *testing.T) {
	s := newStore(t, &memPort{})
	if _, ok := s.FindByTracking("TRK-000000"); ok {
		t.Fatalf("expected not found on empty cart")
	}
	s.Add(shoe(), 1)
	if _, ok := s.FindByTracking("TRK-000000"); ok {
		t.Fatalf("expected not found for mismatched id")
	}
	trk := s.Entries()[0].TrackingID
	e, ok := s.FindByTracking(trk)
	if !ok || e.ID != 1 {
		t.Fatalf("expected hit for %q, got %+v ok=%v", trk, e, ok)
	}
}

func TestSetProgressMonotonicAndClamped(t *testing.T) {
	s := newStore(t, &memPort{})
	s.Add(shoe(), 1)
	trk := s.Entries()[0].TrackingID
	if got, _ := s.SetProgress(trk, 40); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
	if got, _ := s.SetProgress(trk, 20); got != 40 {
		t.Fatalf("progress decreased to %d", got)
	}
	if got, _ := s.SetProgress(trk, 107); got != 100 {
		t.Fatalf("expected clamp at 100, got %d", got)
	}
	if _, err := s.SetProgress("TRK-nope", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	p := &memPort{}
	s := newStore(t, p)
	s.Add(shoe(), 1)
	p.failSav = true
	if _, err := s.Add(model.Product{ID: 2, Title: "Hat", Price: 5}, 1); err == nil {
		t.Fatalf("expected save failure")
	}
	if s.Len() != 1 {
		t.Fatalf("in-memory state mutated after failed save: %+v", s.Entries())
	}
	if _, err := s.AdjustQuantity(1, 1); err == nil {
		t.Fatalf("expected save failure")
	}
	if got := s.Entries()[0].Quantity; got != 1 {
		t.Fatalf("quantity mutated after failed save: %d", got)
	}
}
