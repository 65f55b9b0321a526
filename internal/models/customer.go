package models

import "time"

// Customer stores static customer information. Updated rarely - only when
// new customers sign up. The segment is fixed at creation and never changes.
type Customer struct {
	CustomerID uint            `gorm:"primaryKey;autoIncrement" json:"customer_id"`
	JoinDate   time.Time       `gorm:"type:date;not null" json:"join_date" validate:"required"`
	Age        int             `gorm:"type:int;not null" json:"age" validate:"min=18,max=100"`
	Segment    CustomerSegment `gorm:"type:varchar(50);not null" json:"segment" validate:"oneof=business_traveler vacation_traveler occasional_visitor"`
}

// CustomerSegment is a customer's declared travel-frequency category.
// It controls booking-rate and stay-length statistics during generation.
type CustomerSegment string

const (
	SegmentBusiness   CustomerSegment = "business_traveler"
	SegmentVacation   CustomerSegment = "vacation_traveler"
	SegmentOccasional CustomerSegment = "occasional_visitor"
)

// Segments lists all valid customer segments
var Segments = []CustomerSegment{SegmentBusiness, SegmentVacation, SegmentOccasional}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}
