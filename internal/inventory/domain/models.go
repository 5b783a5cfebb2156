package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AdjustField selects which cumulative counter a direct adjustment moves.
type AdjustField string

var (
	FieldDelivered AdjustField = "delivered"
	FieldSold      AdjustField = "sold"
)

// InventoryRecord is the canonical per-(reseller, ticket type) ledger row.
// Both counters are cumulative; StockActual is persisted redundantly but
// recomputed inside the same transaction as every mutation, so
// StockActual == DeliveredCount - SoldCount always holds.
type InventoryRecord struct {
	ResellerID     snowflake.ID `json:"reseller_id" gorm:"primaryKey"`
	TicketTypeID   snowflake.ID `json:"ticket_type_id" gorm:"primaryKey"`
	DeliveredCount int64        `json:"delivered_count" gorm:"not null;default:0"`
	SoldCount      int64        `json:"sold_count" gorm:"not null;default:0"`
	StockActual    int64        `json:"stock_actual" gorm:"not null;default:0"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InventoryRecord) TableName() string { return "inventory_records" }

// CheckInvariant reports whether 0 <= sold <= delivered would hold.
func CheckInvariant(delivered, sold int64) bool {
	return sold >= 0 && delivered >= sold
}

// Recompute refreshes the derived stock figure.
func (r *InventoryRecord) Recompute() {
	r.StockActual = r.DeliveredCount - r.SoldCount
}
