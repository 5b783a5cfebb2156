package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DurationUnit is accepted on input and normalized to hours for storage.
type DurationUnit string

var (
	Hours  DurationUnit = "HOURS"
	Days   DurationUnit = "DAYS"
	Weeks  DurationUnit = "WEEKS"
	Months DurationUnit = "MONTHS"
)

// HoursPer returns the hour multiplier for a unit, or 0 when unknown.
func HoursPer(unit DurationUnit) int32 {
	switch unit {
	case Hours, "":
		return 1
	case Days:
		return 24
	case Weeks:
		return 168
	case Months:
		return 720
	default:
		return 0
	}
}

// TicketType is a sellable time-boxed access credential definition.
// Prices are minor currency units (centavos).
type TicketType struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	Name             string       `json:"name" gorm:"type:text;not null"`
	DurationHours    int32        `json:"duration_hours" gorm:"not null"`
	DefaultSalePrice int64        `json:"default_sale_price_cents" gorm:"not null;default:0"`
	PurchasePrice    int64        `json:"purchase_price_cents" gorm:"not null;default:0"`
	CreatedAt        time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TicketType) TableName() string { return "ticket_types" }
