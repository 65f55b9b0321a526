package generator

import (
	"math"
	"math/rand"
	"time"

	"hotel-pipeline/internal/config"
	"hotel-pipeline/internal/models"

	"github.com/google/uuid"
)

// Generator produces statistically plausible batches of customers, bookings
// and support logs. Booking volume and stay length are conditioned on the
// customer's segment; randomness is intentionally coarse (uniform and normal
// draws) since the goal is plausible volume and shape, not fidelity.
type Generator struct {
	cfg *config.Config
	rng *rand.Rand
}

// New creates a generator with a time-seeded random source
func New(cfg *config.Config) *Generator {
	return NewWithSource(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithSource creates a generator with an explicit random source,
// allowing deterministic output in tests.
func NewWithSource(cfg *config.Config, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, rng: rng}
}

// Customers generates n customer records with a uniform segment, an age in
// 21-75 and a join date uniform over the last 4 years through today.
func (g *Generator) Customers(n int) []*models.Customer {
	customers := make([]*models.Customer, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		customers = append(customers, &models.Customer{
			JoinDate: dateOnly(g.randomTime(now.AddDate(-4, 0, 0), now)),
			Age:      21 + g.rng.Intn(55),
			Segment:  models.Segments[g.rng.Intn(len(models.Segments))],
		})
	}
	return customers
}

// yearlyBookingRate returns the expected bookings per year for a segment
func yearlyBookingRate(segment models.CustomerSegment) float64 {
	switch segment {
	case models.SegmentBusiness:
		return 12 // ~1 booking per month
	case models.SegmentVacation:
		return 4
	default: // occasional_visitor
		return 1
	}
}

// BookingsForCustomer generates the booking history of a single customer
// over [start, end]. The booking count is years-in-range times the segment's
// yearly rate, scaled by a uniform factor in [0.5, 1.5] and floored at 1.
func (g *Generator) BookingsForCustomer(c *models.Customer, start, end time.Time) []models.Booking {
	yearsInRange := end.Sub(start).Hours() / 24 / 365
	numBookings := int(yearsInRange * yearlyBookingRate(c.Segment))
	numBookings = int(float64(numBookings) * (0.5 + g.rng.Float64()))
	if numBookings < 1 {
		numBookings = 1
	}

	avgNights := g.cfg.AvgNights(string(c.Segment))
	bookings := make([]models.Booking, 0, numBookings)

	for i := 0; i < numBookings; i++ {
		checkIn := dateOnly(g.randomTime(start, end))

		// Stay length: normal around the segment mean, floored at 1 night
		nights := int(g.rng.NormFloat64()*2 + avgNights)
		if nights < 1 {
			nights = 1
		}
		checkOut := checkIn.AddDate(0, 0, nights)

		roomType := models.RoomTypes[g.rng.Intn(len(models.RoomTypes))]
		amount := models.BaseNightlyRate[roomType] * float64(nights) * (0.8 + 0.4*g.rng.Float64())

		status := models.StatusCheckedOut
		if g.rng.Float64() < g.cfg.BusinessRules.CancellationRate {
			if g.rng.Intn(2) == 0 {
				status = models.StatusCancelled
			} else {
				status = models.StatusNoShow
			}
		}

		bookings = append(bookings, models.Booking{
			BookingID:      uuid.New(),
			CustomerID:     c.CustomerID,
			CheckInDate:    checkIn,
			CheckOutDate:   checkOut,
			AmountSpent:    math.Round(amount*100) / 100,
			RoomType:       roomType,
			BookingChannel: models.BookingChannels[g.rng.Intn(len(models.BookingChannels))],
			NumAdults:      1 + g.rng.Intn(4),
			NumChildren:    g.rng.Intn(4),
			SpecialRequest: models.SpecialRequests[g.rng.Intn(len(models.SpecialRequests))],
			Status:         status,
		})
	}

	return bookings
}

// supportLogTemplates are the canned interaction texts, spanning complaints
// and praise.
var supportLogTemplates = []string{
	"Guest complained about slow Wi-Fi in room.",
	"Customer reported noisy neighbors on floor above.",
	"Request for late checkout was denied, guest unhappy.",
	"Room service took over 2 hours to deliver food.",
	"Air conditioning not working properly, maintenance called.",
	"Guest praised the friendly staff and mountain view.",
	"Complimentary upgrade to suite, customer very satisfied.",
	"Billing error resolved, guest appreciative of quick response.",
	"Guest requested extra blankets due to cold weather.",
	"Heating system malfunction reported, technician dispatched.",
}

// SupportLogsForCustomer generates n support interaction logs for a
// customer, timestamped uniformly over the last 2 years.
func (g *Generator) SupportLogsForCustomer(c *models.Customer, n int) []models.SupportLog {
	logs := make([]models.SupportLog, 0, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		logs = append(logs, models.SupportLog{
			InteractionID: uuid.New(),
			CustomerID:    c.CustomerID,
			Date:          g.randomTime(now.AddDate(-2, 0, 0), now),
			LogText:       supportLogTemplates[g.rng.Intn(len(supportLogTemplates))],
		})
	}
	return logs
}

// randomTime returns a uniform random instant in [start, end]
func (g *Generator) randomTime(start, end time.Time) time.Time {
	span := end.Unix() - start.Unix()
	if span <= 0 {
		return start
	}
	return time.Unix(start.Unix()+g.rng.Int63n(span+1), 0)
}

// dateOnly truncates a timestamp to midnight UTC, matching the date-typed
// columns in the schema.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
