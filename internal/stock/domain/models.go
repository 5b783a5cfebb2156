package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// GlobalStockEntry tracks undelivered quantity per ticket type. BasePrice
// is the purchase-price snapshot taken at the last replenishment.
type GlobalStockEntry struct {
	TicketTypeID      snowflake.ID `json:"ticket_type_id" gorm:"primaryKey"`
	QuantityAvailable int64        `json:"quantity_available" gorm:"not null;default:0"`
	BasePrice         int64        `json:"base_price_cents" gorm:"not null;default:0"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (GlobalStockEntry) TableName() string { return "global_stock_entries" }

// StockReplenishment is an append-only audit row for owner restocks.
type StockReplenishment struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	TicketTypeID snowflake.ID `json:"ticket_type_id" gorm:"not null;index"`
	Quantity     int64        `json:"quantity" gorm:"not null"`
	SupplierNote string       `json:"supplier_note" gorm:"type:text;not null;default:''"`
	ActorType    string       `json:"actor_type" gorm:"type:text;not null;default:''"`
	ActorID      string       `json:"actor_id" gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StockReplenishment) TableName() string { return "stock_replenishments" }
