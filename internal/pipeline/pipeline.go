package pipeline

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"hotel-pipeline/internal/config"
	"hotel-pipeline/internal/generator"
	"hotel-pipeline/internal/models"
	"hotel-pipeline/internal/quality"
	"hotel-pipeline/internal/retention"
)

// ErrConnectivity reports that the database was unreachable before any
// pipeline stage ran.
var ErrConnectivity = errors.New("database unreachable")

// Store is the storage capability set the pipeline needs. Every insert is
// transactional: a batch is committed as a single unit or not at all.
type Store interface {
	retention.Store

	Ping() error
	InitSchema() error
	InsertCustomers(customers []*models.Customer) error
	InsertBookings(bookings []models.Booking) error
	InsertSupportLogs(logs []models.SupportLog) error
	ListCustomers() ([]models.Customer, error)
	ListBookings() ([]models.Booking, error)
	ListSupportLogs() ([]models.SupportLog, error)
	CountCustomers() (int64, error)
	CountBookings() (int64, error)
	CountSupportLogs() (int64, error)
}

// Pipeline sequences generation, validation, persistence and verification
// for the two run modes. Execution is single-threaded and synchronous; each
// persistence stage completes before the next stage starts.
type Pipeline struct {
	cfg       *config.Config
	store     Store
	gen       *generator.Generator
	gate      *quality.Gate
	retention *retention.Service
	rng       *rand.Rand
}

// New creates a pipeline with a time-seeded random source
func New(cfg *config.Config, store Store) *Pipeline {
	return NewWithSource(cfg, store, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithSource creates a pipeline with an explicit random source,
// allowing deterministic runs in tests.
func NewWithSource(cfg *config.Config, store Store, rng *rand.Rand) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     store,
		gen:       generator.NewWithSource(cfg, rng),
		gate:      quality.NewGate(cfg),
		retention: retention.NewService(store, cfg.RetentionWindow()),
		rng:       rng,
	}
}

// CreateTables provisions the schema. Safe to call when tables exist.
func (p *Pipeline) CreateTables() error {
	if err := p.checkConnection(); err != nil {
		return err
	}
	return p.store.InitSchema()
}

// RunHistorical executes the one-time historical bootstrap: 4 years of
// customers, bookings and support logs. Any generation, validation or
// persistence failure aborts the run; the current batch's transaction
// rolls back inside the store.
func (p *Pipeline) RunHistorical() error {
	log.Println("Pipeline: starting historical run")

	if err := p.checkConnection(); err != nil {
		return err
	}

	// Customers are persisted first so bookings can reference their
	// database-assigned ids.
	customers := p.gen.Customers(p.cfg.DataGeneration.Historical.NumCustomers)
	if err := p.gate.ValidateCustomers(customers); err != nil {
		return fmt.Errorf("customer batch rejected: %w", err)
	}
	if err := p.store.InsertCustomers(customers); err != nil {
		return fmt.Errorf("failed to persist customers: %w", err)
	}
	log.Printf("Pipeline: saved %d customers", len(customers))

	now := time.Now()
	start := now.AddDate(0, 0, -4*365)

	var bookings []models.Booking
	for _, c := range customers {
		bookings = append(bookings, p.gen.BookingsForCustomer(c, start, now)...)
	}
	if err := p.gate.ValidateBookings(bookings); err != nil {
		return fmt.Errorf("booking batch rejected: %w", err)
	}
	if err := p.store.InsertBookings(bookings); err != nil {
		return fmt.Errorf("failed to persist bookings: %w", err)
	}
	log.Printf("Pipeline: saved %d bookings", len(bookings))

	// Roughly 30% of customers have 1-5 support interactions
	var logs []models.SupportLog
	for _, c := range customers {
		if p.rng.Float64() < 0.3 {
			logs = append(logs, p.gen.SupportLogsForCustomer(c, 1+p.rng.Intn(5))...)
		}
	}
	if err := p.gate.ValidateSupportLogs(logs); err != nil {
		return fmt.Errorf("support log batch rejected: %w", err)
	}
	if err := p.store.InsertSupportLogs(logs); err != nil {
		return fmt.Errorf("failed to persist support logs: %w", err)
	}
	log.Printf("Pipeline: saved %d support logs", len(logs))

	if err := p.verify(); err != nil {
		return err
	}

	log.Println("Pipeline: historical run completed")
	return nil
}

// RunWeekly executes the weekly incremental run: retention cleanup, a few
// new customers, and one new booking per requested slot over a 7-day
// window. Cleanup failure is logged and tolerated; everything after it is
// fatal on error.
func (p *Pipeline) RunWeekly() error {
	log.Println("Pipeline: starting weekly run")

	if err := p.checkConnection(); err != nil {
		return err
	}

	if _, err := p.retention.Cleanup(time.Now()); err != nil {
		// Cleanup failure should not stop new data generation
		log.Printf("Pipeline: cleanup failed: %v - continuing", err)
	}

	newCustomers := p.gen.Customers(p.cfg.DataGeneration.Weekly.NewCustomersPerWeek)
	if err := p.gate.ValidateCustomers(newCustomers); err != nil {
		return fmt.Errorf("customer batch rejected: %w", err)
	}
	if err := p.store.InsertCustomers(newCustomers); err != nil {
		return fmt.Errorf("failed to persist customers: %w", err)
	}
	log.Printf("Pipeline: saved %d new customers", len(newCustomers))

	// The new customers are already persisted, so this pool is the union
	// of existing and new.
	pool, err := p.store.ListCustomers()
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	if len(pool) == 0 {
		return errors.New("no customers available for weekly bookings")
	}

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	// One booking per requested slot: each slot picks a uniform customer
	// and takes the first booking generated for the 7-day window.
	bookings := make([]models.Booking, 0, p.cfg.DataGeneration.Weekly.BookingsPerWeek)
	for i := 0; i < p.cfg.DataGeneration.Weekly.BookingsPerWeek; i++ {
		c := pool[p.rng.Intn(len(pool))]
		if generated := p.gen.BookingsForCustomer(&c, weekAgo, now); len(generated) > 0 {
			bookings = append(bookings, generated[0])
		}
	}
	if err := p.gate.ValidateBookings(bookings); err != nil {
		return fmt.Errorf("booking batch rejected: %w", err)
	}
	if err := p.store.InsertBookings(bookings); err != nil {
		return fmt.Errorf("failed to persist bookings: %w", err)
	}
	log.Printf("Pipeline: saved %d new bookings", len(bookings))

	if err := p.verify(); err != nil {
		return err
	}

	log.Println("Pipeline: weekly run completed")
	return nil
}

// Audit runs the quality gate over the data already in the database.
// Useful for checking existing data after generator changes.
func (p *Pipeline) Audit() error {
	if err := p.checkConnection(); err != nil {
		return err
	}

	bookings, err := p.store.ListBookings()
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}
	var failures []error
	if err := p.gate.ValidateBookings(bookings); err != nil {
		log.Printf("Audit: booking validation failed: %v", err)
		failures = append(failures, err)
	} else {
		log.Printf("Audit: all %d bookings are valid", len(bookings))
	}

	customers, err := p.store.ListCustomers()
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	ptrs := make([]*models.Customer, len(customers))
	for i := range customers {
		ptrs[i] = &customers[i]
	}
	if err := p.gate.ValidateCustomers(ptrs); err != nil {
		log.Printf("Audit: customer validation failed: %v", err)
		failures = append(failures, err)
	} else {
		log.Printf("Audit: all %d customers are valid", len(customers))
	}

	logs, err := p.store.ListSupportLogs()
	if err != nil {
		return fmt.Errorf("failed to load support logs: %w", err)
	}
	if err := p.gate.ValidateSupportLogs(logs); err != nil {
		log.Printf("Audit: support log validation failed: %v", err)
		failures = append(failures, err)
	} else {
		log.Printf("Audit: all %d support logs are valid", len(logs))
	}

	if len(failures) > 0 {
		return fmt.Errorf("audit found %d failing tables, first: %w", len(failures), failures[0])
	}
	return nil
}

// Cleanup runs the retention manager on its own, outside a weekly run
func (p *Pipeline) Cleanup() (*retention.Result, error) {
	if err := p.checkConnection(); err != nil {
		return nil, err
	}
	return p.retention.Cleanup(time.Now())
}

// Stats returns current row counts per table
func (p *Pipeline) Stats() (customers, bookings, logs int64, err error) {
	if customers, err = p.store.CountCustomers(); err != nil {
		return
	}
	if bookings, err = p.store.CountBookings(); err != nil {
		return
	}
	logs, err = p.store.CountSupportLogs()
	return
}

func (p *Pipeline) checkConnection() error {
	if err := p.store.Ping(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	return nil
}

func (p *Pipeline) verify() error {
	customers, bookings, logs, err := p.Stats()
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	log.Printf("Pipeline: database now contains %d customers, %d bookings, %d support logs",
		customers, bookings, logs)
	return nil
}
