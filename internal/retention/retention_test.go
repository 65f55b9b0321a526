package retention

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the storage collaborator
type memStore struct {
	bookings  map[int]fakeBooking // id -> booking
	logs      map[int]time.Time   // id -> timestamp
	customers map[uint]bool       // customer ids

	failBookings bool
}

type fakeBooking struct {
	customerID uint
	checkIn    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		bookings:  make(map[int]fakeBooking),
		logs:      make(map[int]time.Time),
		customers: make(map[uint]bool),
	}
}

func (m *memStore) DeleteBookingsBefore(cutoff time.Time) (int64, error) {
	if m.failBookings {
		return 0, errors.New("connection reset")
	}
	var n int64
	for id, b := range m.bookings {
		if b.checkIn.Before(cutoff) {
			delete(m.bookings, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteSupportLogsBefore(cutoff time.Time) (int64, error) {
	var n int64
	for id, ts := range m.logs {
		if ts.Before(cutoff) {
			delete(m.logs, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteCustomersWithoutBookings() (int64, error) {
	referenced := make(map[uint]bool)
	for _, b := range m.bookings {
		referenced[b.customerID] = true
	}
	var n int64
	for id := range m.customers {
		if !referenced[id] {
			delete(m.customers, id)
			n++
		}
	}
	return n, nil
}

const fiveYears = 5 * 365 * 24 * time.Hour

func TestCleanupRemovesOldDataAndOrphans(t *testing.T) {
	now := time.Now()
	store := newMemStore()

	// Customer 1: only an expired booking - purged along with it
	store.customers[1] = true
	store.bookings[10] = fakeBooking{customerID: 1, checkIn: now.Add(-fiveYears - 24*time.Hour)}

	// Customer 2: one expired and one recent booking - kept
	store.customers[2] = true
	store.bookings[20] = fakeBooking{customerID: 2, checkIn: now.Add(-fiveYears - 48*time.Hour)}
	store.bookings[21] = fakeBooking{customerID: 2, checkIn: now.AddDate(0, -1, 0)}

	// Customer 3: recent booking only - untouched
	store.customers[3] = true
	store.bookings[30] = fakeBooking{customerID: 3, checkIn: now.AddDate(0, 0, -10)}

	// One old and one recent support log
	store.logs[100] = now.Add(-fiveYears - 24*time.Hour)
	store.logs[101] = now.AddDate(0, 0, -3)

	svc := NewService(store, fiveYears)
	result, err := svc.Cleanup(now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.BookingsRemoved)
	assert.Equal(t, int64(1), result.LogsRemoved)
	assert.Equal(t, int64(1), result.CustomersRemoved)

	assert.False(t, store.customers[1], "customer with only expired bookings must be purged")
	assert.True(t, store.customers[2], "customer with a surviving booking must be kept")
	assert.True(t, store.customers[3])
	assert.Len(t, store.bookings, 2)
	assert.Len(t, store.logs, 1)
}

func TestCleanupIsIdempotent(t *testing.T) {
	now := time.Now()
	store := newMemStore()
	store.customers[1] = true
	store.bookings[10] = fakeBooking{customerID: 1, checkIn: now.Add(-fiveYears - 24*time.Hour)}
	store.logs[100] = now.Add(-fiveYears - 24*time.Hour)

	svc := NewService(store, fiveYears)

	first, err := svc.Cleanup(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.BookingsRemoved)

	second, err := svc.Cleanup(now)
	require.NoError(t, err)
	assert.Zero(t, second.BookingsRemoved)
	assert.Zero(t, second.LogsRemoved)
	assert.Zero(t, second.CustomersRemoved)
}

func TestCleanupEmptyDataset(t *testing.T) {
	svc := NewService(newMemStore(), fiveYears)

	result, err := svc.Cleanup(time.Now())
	require.NoError(t, err)
	assert.Zero(t, result.BookingsRemoved)
	assert.Zero(t, result.LogsRemoved)
	assert.Zero(t, result.CustomersRemoved)
}

func TestCleanupCutoff(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(newMemStore(), fiveYears)

	result, err := svc.Cleanup(now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-fiveYears), result.Cutoff)
	assert.Equal(t, now, result.ExecutedAt)
}

func TestCleanupPropagatesStoreErrors(t *testing.T) {
	now := time.Now()
	store := newMemStore()
	store.failBookings = true
	store.customers[1] = true

	svc := NewService(store, fiveYears)
	_, err := svc.Cleanup(now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bookings")

	// Orphan scan must not have run after the failed booking purge
	assert.True(t, store.customers[1])
}
