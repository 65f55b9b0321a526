package models

import (
	"time"

	"github.com/google/uuid"
)

// SupportLog stores unstructured text from a customer support interaction.
type SupportLog struct {
	InteractionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"interaction_id"`
	CustomerID    uint      `gorm:"not null;index" json:"customer_id" validate:"gt=0"`
	Date          time.Time `gorm:"not null;index" json:"date" validate:"required"`
	LogText       string    `gorm:"type:text;not null" json:"log_text" validate:"required"`
}

// TableName specifies the table name
func (SupportLog) TableName() string {
	return "support_logs"
}
