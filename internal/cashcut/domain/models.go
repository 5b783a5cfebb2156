package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CashCut is one committed settlement for one reseller. Totals are the
// exact sums of its lines; owner + reseller shares always equal revenue.
type CashCut struct {
	ID                 snowflake.ID  `json:"id" gorm:"primaryKey"`
	ResellerID         snowflake.ID  `json:"reseller_id" gorm:"not null"`
	CutDate            Date          `json:"cut_date" gorm:"column:cut_date;type:date;not null"`
	TotalRevenue       int64         `json:"total_revenue" gorm:"not null;default:0"`
	TotalOwnerShare    int64         `json:"total_owner_share" gorm:"not null;default:0"`
	TotalResellerShare int64         `json:"total_reseller_share" gorm:"not null;default:0"`
	ActorType          string        `json:"actor_type" gorm:"type:text;not null;default:''"`
	ActorID            string        `json:"actor_id" gorm:"type:text;not null;default:''"`
	CreatedAt          time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	Lines              []CashCutLine `json:"lines,omitempty" gorm:"-"`
}

func (CashCut) TableName() string { return "cash_cuts" }

// CashCutLine freezes the per-type settlement: quantity sold since the
// previous cut, the unit price in force, and the exact split applied.
type CashCutLine struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	CashCutID     snowflake.ID `json:"cash_cut_id" gorm:"not null"`
	TicketTypeID  snowflake.ID `json:"ticket_type_id" gorm:"not null"`
	SoldNow       int64        `json:"sold_now" gorm:"not null"`
	UnitPrice     int64        `json:"unit_price" gorm:"not null"`
	Revenue       int64        `json:"revenue" gorm:"not null"`
	OwnerShare    int64        `json:"owner_share" gorm:"not null"`
	ResellerShare int64        `json:"reseller_share" gorm:"not null"`
}

func (CashCutLine) TableName() string { return "cash_cut_lines" }

// PreparedLine is the pre-commit snapshot the client fills sold_now
// against. StockActual is the ceiling a commit will re-validate.
type PreparedLine struct {
	TicketTypeID   snowflake.ID `json:"ticket_type_id"`
	TicketTypeName string       `json:"ticket_type_name"`
	DeliveredCount int64        `json:"delivered_count"`
	SoldCount      int64        `json:"sold_count"`
	StockActual    int64        `json:"stock_actual"`
	UnitPrice      int64        `json:"unit_price"`
	PriceSource    string       `json:"price_source"`
}

type PreparedCut struct {
	ResellerID      snowflake.ID   `json:"reseller_id"`
	OwnerPercentBps int32          `json:"owner_percent_bps"`
	Lines           []PreparedLine `json:"lines"`
}

// CutTotals aggregates committed cuts for reporting.
type CutTotals struct {
	Count              int64 `json:"count"`
	TotalRevenue       int64 `json:"total_revenue"`
	TotalOwnerShare    int64 `json:"total_owner_share"`
	TotalResellerShare int64 `json:"total_reseller_share"`
}
