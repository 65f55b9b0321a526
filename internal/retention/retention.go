package retention

import (
	"fmt"
	"log"
	"time"
)

// Store is the storage capability set the retention manager needs. The
// bulk deletes run against the live dataset, not a cached view.
type Store interface {
	DeleteBookingsBefore(cutoff time.Time) (int64, error)
	DeleteSupportLogsBefore(cutoff time.Time) (int64, error)
	DeleteCustomersWithoutBookings() (int64, error)
}

// Service enforces the rolling retention window to bound dataset size while
// preserving referential integrity across tables.
type Service struct {
	store  Store
	window time.Duration
}

// NewService creates a retention service with the given rolling window
func NewService(store Store, window time.Duration) *Service {
	return &Service{store: store, window: window}
}

// Result holds the outcome of a cleanup run
type Result struct {
	Cutoff           time.Time `json:"cutoff"`
	ExecutedAt       time.Time `json:"executed_at"`
	BookingsRemoved  int64     `json:"bookings_removed"`
	LogsRemoved      int64     `json:"logs_removed"`
	CustomersRemoved int64     `json:"customers_removed"`
}

// Cleanup removes all data older than the rolling window as of now.
// Order matters: bookings and support logs are purged first, then every
// customer whose booking set became empty. Running it twice in a row
// deletes nothing on the second pass.
func (s *Service) Cleanup(now time.Time) (*Result, error) {
	result := &Result{
		Cutoff:     now.Add(-s.window),
		ExecutedAt: now,
	}

	log.Printf("Cleanup: removing data older than %s", result.Cutoff.Format("2006-01-02"))

	bookings, err := s.store.DeleteBookingsBefore(result.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete old bookings: %w", err)
	}
	result.BookingsRemoved = bookings

	logs, err := s.store.DeleteSupportLogsBefore(result.Cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete old support logs: %w", err)
	}
	result.LogsRemoved = logs

	// Orphan scan runs last so a customer whose only bookings were just
	// purged is removed, and one with a surviving booking is kept.
	customers, err := s.store.DeleteCustomersWithoutBookings()
	if err != nil {
		return nil, fmt.Errorf("failed to delete orphaned customers: %w", err)
	}
	result.CustomersRemoved = customers

	log.Printf("Cleanup: deleted %d bookings, %d support logs, %d customers with no remaining bookings",
		result.BookingsRemoved, result.LogsRemoved, result.CustomersRemoved)

	return result, nil
}
