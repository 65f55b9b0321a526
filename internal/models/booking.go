package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking stores a single booking transaction. This is the main table of
// the dataset; bookings are generated per customer, validated as a batch
// and persisted as one atomic unit.
type Booking struct {
	BookingID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"booking_id"`
	CustomerID     uint      `gorm:"not null;index" json:"customer_id" validate:"gt=0"`
	CheckInDate    time.Time `gorm:"type:date;not null;index" json:"check_in_date" validate:"required"`
	CheckOutDate   time.Time `gorm:"type:date;not null" json:"check_out_date" validate:"required"`
	AmountSpent    float64   `gorm:"type:decimal(10,2);not null" json:"amount_spent" validate:"gte=0"`
	RoomType       string    `gorm:"type:varchar(50);not null" json:"room_type" validate:"oneof='Queen Bed' 'King Bed' 'Suite'"`
	BookingChannel string    `gorm:"type:varchar(50);not null" json:"booking_channel" validate:"oneof='Direct Website' 'Agent' 'OTA (Booking.com)' 'Walk-in'"`
	NumAdults      int       `gorm:"type:int;not null" json:"num_adults" validate:"min=1,max=10"`
	NumChildren    int       `gorm:"type:int;not null" json:"num_children" validate:"min=0,max=10"`
	SpecialRequest string    `gorm:"type:varchar(100)" json:"special_requests,omitempty" validate:"omitempty,oneof='None' 'Pet Friendly' 'Accessible Room' 'Crib' 'High Floor'"`
	Status         string    `gorm:"type:varchar(20);not null" json:"status" validate:"oneof=Checked-Out Cancelled No-Show"`
}

// Room types offered by the hotel with their base nightly rates
const (
	RoomQueen = "Queen Bed"
	RoomKing  = "King Bed"
	RoomSuite = "Suite"
)

// RoomTypes lists all offered room types
var RoomTypes = []string{RoomQueen, RoomKing, RoomSuite}

// BaseNightlyRate maps a room type to its base price per night
var BaseNightlyRate = map[string]float64{
	RoomQueen: 120,
	RoomKing:  150,
	RoomSuite: 300,
}

// Booking channels
var BookingChannels = []string{"Direct Website", "Agent", "OTA (Booking.com)", "Walk-in"}

// Special request tags ("None" is stored explicitly, matching the source data)
var SpecialRequests = []string{"None", "Pet Friendly", "Accessible Room", "Crib", "High Floor"}

// Booking status values
const (
	StatusCheckedOut = "Checked-Out"
	StatusCancelled  = "Cancelled"
	StatusNoShow     = "No-Show"
)

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// Nights returns the stay length in nights
func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}
