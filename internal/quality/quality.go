package quality

import (
	"fmt"

	"hotel-pipeline/internal/config"
	"hotel-pipeline/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Error reports a failed quality check: the violated rule and how many rows
// in the batch broke it.
type Error struct {
	Rule string
	Rows int
}

func (e *Error) Error() string {
	if e.Rows > 0 {
		return fmt.Sprintf("quality check %q failed: %d offending rows", e.Rule, e.Rows)
	}
	return fmt.Sprintf("quality check %q failed", e.Rule)
}

var validate = validator.New()

// Gate validates batches against schema and business rules before they
// reach storage. It never mutates data and performs no I/O; each check is a
// pure predicate over the batch plus configuration.
type Gate struct {
	cfg *config.Config
}

// NewGate creates a quality gate bound to the given configuration
func NewGate(cfg *config.Config) *Gate {
	return &Gate{cfg: cfg}
}

// ValidateBookings checks a booking batch. Checks run in order - per-field
// schema ranges and enumerations, check-out after check-in, duplicate ids,
// nights within the configured band - and the first failing check
// short-circuits. A nil return means the batch passed.
func (g *Gate) ValidateBookings(batch []models.Booking) error {
	// Check 1: field types, enumerations and ranges
	schemaViolations := 0
	for i := range batch {
		b := &batch[i]
		if validate.Struct(b) != nil || b.AmountSpent > g.cfg.QualityChecks.MaxBookingAmount {
			schemaViolations++
		}
	}
	if schemaViolations > 0 {
		return &Error{Rule: "schema", Rows: schemaViolations}
	}

	// Check 2: check-out date must be strictly after check-in date
	invalidDates := 0
	for i := range batch {
		if !batch[i].CheckOutDate.After(batch[i].CheckInDate) {
			invalidDates++
		}
	}
	if invalidDates > 0 {
		return &Error{Rule: "check_out after check_in", Rows: invalidDates}
	}

	// Check 3: no duplicate booking ids within the batch
	if dupes := duplicateUUIDs(batch); dupes > 0 {
		return &Error{Rule: "duplicate booking_id", Rows: dupes}
	}

	// Check 4: nights stayed within the configured range
	invalidNights := 0
	for i := range batch {
		nights := batch[i].Nights()
		if nights < g.cfg.QualityChecks.MinNightsStay || nights > g.cfg.QualityChecks.MaxNightsStay {
			invalidNights++
		}
	}
	if invalidNights > 0 {
		return &Error{Rule: "nights out of range", Rows: invalidNights}
	}

	return nil
}

// ValidateCustomers checks a customer batch: field ranges and enumerations,
// then duplicate ids. Unassigned (zero) ids are ignored by the duplicate
// check since they are only allocated at persistence time.
func (g *Gate) ValidateCustomers(batch []*models.Customer) error {
	schemaViolations := 0
	for _, c := range batch {
		if validate.Struct(c) != nil {
			schemaViolations++
		}
	}
	if schemaViolations > 0 {
		return &Error{Rule: "schema", Rows: schemaViolations}
	}

	seen := make(map[uint]bool, len(batch))
	dupes := 0
	for _, c := range batch {
		if c.CustomerID == 0 {
			continue
		}
		if seen[c.CustomerID] {
			dupes++
		}
		seen[c.CustomerID] = true
	}
	if dupes > 0 {
		return &Error{Rule: "duplicate customer_id", Rows: dupes}
	}

	return nil
}

// ValidateSupportLogs checks a support-log batch: required fields, non-empty
// text and a positive customer reference.
func (g *Gate) ValidateSupportLogs(batch []models.SupportLog) error {
	emptyText := 0
	for i := range batch {
		if batch[i].LogText == "" {
			emptyText++
		}
	}
	if emptyText > 0 {
		return &Error{Rule: "empty log_text", Rows: emptyText}
	}

	badCustomer := 0
	for i := range batch {
		if batch[i].CustomerID == 0 {
			badCustomer++
		}
	}
	if badCustomer > 0 {
		return &Error{Rule: "invalid customer_id", Rows: badCustomer}
	}

	missingDate := 0
	for i := range batch {
		if batch[i].Date.IsZero() {
			missingDate++
		}
	}
	if missingDate > 0 {
		return &Error{Rule: "missing date", Rows: missingDate}
	}

	return nil
}

func duplicateUUIDs(batch []models.Booking) int {
	seen := make(map[uuid.UUID]bool, len(batch))
	dupes := 0
	for i := range batch {
		if seen[batch[i].BookingID] {
			dupes++
		}
		seen[batch[i].BookingID] = true
	}
	return dupes
}
