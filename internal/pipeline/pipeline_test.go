package pipeline

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"hotel-pipeline/internal/config"
	"hotel-pipeline/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with failure injection per capability
type fakeStore struct {
	customers []models.Customer
	bookings  []models.Booking
	logs      []models.SupportLog
	nextID    uint

	schemaCreated bool

	pingErr           error
	deleteBookingsErr error
	insertBookingsErr error
	insertLogsErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) Ping() error { return f.pingErr }

func (f *fakeStore) InitSchema() error {
	f.schemaCreated = true
	return nil
}

func (f *fakeStore) InsertCustomers(customers []*models.Customer) error {
	for _, c := range customers {
		c.CustomerID = f.nextID
		f.nextID++
		f.customers = append(f.customers, *c)
	}
	return nil
}

func (f *fakeStore) InsertBookings(bookings []models.Booking) error {
	if f.insertBookingsErr != nil {
		return f.insertBookingsErr
	}
	f.bookings = append(f.bookings, bookings...)
	return nil
}

func (f *fakeStore) InsertSupportLogs(logs []models.SupportLog) error {
	if f.insertLogsErr != nil {
		return f.insertLogsErr
	}
	f.logs = append(f.logs, logs...)
	return nil
}

func (f *fakeStore) ListCustomers() ([]models.Customer, error) {
	return append([]models.Customer(nil), f.customers...), nil
}

func (f *fakeStore) ListBookings() ([]models.Booking, error) {
	return append([]models.Booking(nil), f.bookings...), nil
}

func (f *fakeStore) ListSupportLogs() ([]models.SupportLog, error) {
	return append([]models.SupportLog(nil), f.logs...), nil
}

func (f *fakeStore) CountCustomers() (int64, error)   { return int64(len(f.customers)), nil }
func (f *fakeStore) CountBookings() (int64, error)    { return int64(len(f.bookings)), nil }
func (f *fakeStore) CountSupportLogs() (int64, error) { return int64(len(f.logs)), nil }

func (f *fakeStore) DeleteBookingsBefore(cutoff time.Time) (int64, error) {
	if f.deleteBookingsErr != nil {
		return 0, f.deleteBookingsErr
	}
	var kept []models.Booking
	var n int64
	for _, b := range f.bookings {
		if b.CheckInDate.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, b)
	}
	f.bookings = kept
	return n, nil
}

func (f *fakeStore) DeleteSupportLogsBefore(cutoff time.Time) (int64, error) {
	var kept []models.SupportLog
	var n int64
	for _, l := range f.logs {
		if l.Date.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	f.logs = kept
	return n, nil
}

func (f *fakeStore) DeleteCustomersWithoutBookings() (int64, error) {
	referenced := make(map[uint]bool)
	for _, b := range f.bookings {
		referenced[b.CustomerID] = true
	}
	var kept []models.Customer
	var n int64
	for _, c := range f.customers {
		if !referenced[c.CustomerID] {
			n++
			continue
		}
		kept = append(kept, c)
	}
	f.customers = kept
	return n, nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.DataGeneration.Historical.NumCustomers = 50
	cfg.DataGeneration.Weekly.NewCustomersPerWeek = 5
	cfg.DataGeneration.Weekly.BookingsPerWeek = 20
	return cfg
}

func newTestPipeline(cfg *config.Config, store Store, seed int64) *Pipeline {
	return NewWithSource(cfg, store, rand.New(rand.NewSource(seed)))
}

func TestHistoricalRun(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	p := newTestPipeline(cfg, store, 1)

	require.NoError(t, p.RunHistorical())

	assert.Len(t, store.customers, 50)
	assert.GreaterOrEqual(t, len(store.bookings), 50, "every customer yields at least one booking")
	assert.LessOrEqual(t, len(store.logs), 50*5, "at most 5 logs per customer")

	// All bookings reference persisted customers
	ids := make(map[uint]bool)
	for _, c := range store.customers {
		assert.Greater(t, c.CustomerID, uint(0))
		ids[c.CustomerID] = true
	}
	for _, b := range store.bookings {
		assert.True(t, ids[b.CustomerID], "booking references an unknown customer")
	}
	for _, l := range store.logs {
		assert.True(t, ids[l.CustomerID], "support log references an unknown customer")
	}
}

func TestHistoricalRunConnectivityFailure(t *testing.T) {
	store := newFakeStore()
	store.pingErr = errors.New("dial tcp: connection refused")
	p := newTestPipeline(testConfig(), store, 1)

	err := p.RunHistorical()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectivity)
	assert.Empty(t, store.customers, "nothing may be persisted when the connection check fails")
}

func TestHistoricalRunBookingPersistFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.insertBookingsErr = errors.New("server closed the connection unexpectedly")
	p := newTestPipeline(testConfig(), store, 1)

	err := p.RunHistorical()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist bookings")
	assert.Empty(t, store.logs, "stages after the failure must not run")
}

func TestWeeklyRun(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	p := newTestPipeline(cfg, store, 2)

	require.NoError(t, p.RunWeekly())

	assert.Len(t, store.customers, 5)
	// One booking per requested slot
	assert.Len(t, store.bookings, 20)

	weekAgo := time.Now().AddDate(0, 0, -8)
	for _, b := range store.bookings {
		assert.True(t, b.CheckInDate.After(weekAgo), "weekly bookings use a 7-day window")
	}
}

func TestWeeklyRunToleratesCleanupFailure(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	store.deleteBookingsErr = errors.New("deadlock detected")
	p := newTestPipeline(cfg, store, 3)

	// Cleanup failure is logged and swallowed; the run still succeeds
	require.NoError(t, p.RunWeekly())
	assert.Len(t, store.customers, 5)
	assert.Len(t, store.bookings, 20)
}

func TestWeeklyRunPurgesExpiredData(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	p := newTestPipeline(cfg, store, 4)

	// Seed a customer whose only booking is far outside the window
	old := &models.Customer{JoinDate: time.Now().AddDate(-6, 0, 0), Age: 50, Segment: models.SegmentOccasional}
	require.NoError(t, store.InsertCustomers([]*models.Customer{old}))
	store.bookings = append(store.bookings, models.Booking{
		BookingID:   uuid.New(),
		CustomerID:  old.CustomerID,
		CheckInDate: time.Now().AddDate(-6, 0, 0),
	})

	require.NoError(t, p.RunWeekly())

	for _, c := range store.customers {
		assert.NotEqual(t, old.CustomerID, c.CustomerID, "customer with only expired bookings must be purged")
	}
}

func TestWeeklyRunNoCustomersAvailable(t *testing.T) {
	cfg := testConfig()
	cfg.DataGeneration.Weekly.NewCustomersPerWeek = 0
	store := newFakeStore()
	p := newTestPipeline(cfg, store, 5)

	err := p.RunWeekly()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no customers")
}

func TestWeeklyRunPersistFailureIsFatal(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	store.insertBookingsErr = errors.New("out of disk space")
	p := newTestPipeline(cfg, store, 6)

	err := p.RunWeekly()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist bookings")
}

func TestCreateTables(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(testConfig(), store, 1)

	require.NoError(t, p.CreateTables())
	assert.True(t, store.schemaCreated)
}

func TestAuditPassesOnCleanData(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	p := newTestPipeline(cfg, store, 7)

	require.NoError(t, p.RunHistorical())
	assert.NoError(t, p.Audit())
}

func TestAuditFlagsBadRows(t *testing.T) {
	cfg := testConfig()
	store := newFakeStore()
	p := newTestPipeline(cfg, store, 8)
	require.NoError(t, p.RunHistorical())

	store.bookings[0].AmountSpent = cfg.QualityChecks.MaxBookingAmount * 2

	err := p.Audit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestStats(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(testConfig(), store, 9)
	require.NoError(t, p.RunHistorical())

	customers, bookings, logs, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(50), customers)
	assert.Equal(t, int64(len(store.bookings)), bookings)
	assert.Equal(t, int64(len(store.logs)), logs)
}
