package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trackify/internal/model"
)

func openTestDB(t *testing.T) *SQLitePort {
	t.Helper()
	p, err := NewSQLitePort(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestSQLitePortRoundTrip(t *testing.T) {
	p := openTestDB(t)

	entries, err := p.Load()
	require.NoError(t, err)
	require.Empty(t, entries)

	want := []model.CartEntry{
		{ID: 2, Title: "Hat", Price: 5.5, Quantity: 1, TrackingID: "TRK-7"},
		{ID: 1, Title: "Shoe", Image: "shoe.png", Price: 20, Quantity: 3, TrackingID: "TRK-123456", Progress: 40},
	}
	require.NoError(t, p.Save(want))

	got, err := p.Load()
	require.NoError(t, err)
	require.Equal(t, want, got, "load must preserve insertion order")
}

func TestSQLitePortSaveReplacesCollection(t *testing.T) {
	p := openTestDB(t)
	require.NoError(t, p.Save([]model.CartEntry{
		{ID: 1, Title: "Shoe", Price: 20, Quantity: 1, TrackingID: "TRK-1"},
		{ID: 2, Title: "Hat", Price: 5, Quantity: 2, TrackingID: "TRK-2"},
	}))
	require.NoError(t, p.Save([]model.CartEntry{
		{ID: 2, Title: "Hat", Price: 5, Quantity: 9, TrackingID: "TRK-2"},
	}))
	got, err := p.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, 9, got[0].Quantity)
}

func TestSQLitePortDuplicateIDRejected(t *testing.T) {
	p := openTestDB(t)
	err := p.Save([]model.CartEntry{
		{ID: 1, Title: "Shoe", Price: 20, Quantity: 1, TrackingID: "TRK-1"},
		{ID: 1, Title: "Shoe", Price: 20, Quantity: 2, TrackingID: "TRK-1"},
	})
	require.Error(t, err, "unique id constraint must hold at the storage layer")

	got, err := p.Load()
	require.NoError(t, err)
	require.Empty(t, got, "failed save must not leave a partial write")
}
