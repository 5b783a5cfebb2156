package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultOwnerPercentBps is the owner's share applied when neither a global
// config row nor a per-reseller override exists. Basis points: 2000 = 20%.
const DefaultOwnerPercentBps int32 = 2000

// MaxBps is 100% expressed in basis points.
const MaxBps int32 = 10000

// PriceOverride pins a per-reseller sale price for one ticket type.
type PriceOverride struct {
	ResellerID   snowflake.ID `json:"reseller_id" gorm:"primaryKey"`
	TicketTypeID snowflake.ID `json:"ticket_type_id" gorm:"primaryKey"`
	Price        int64        `json:"price" gorm:"not null"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PriceOverride) TableName() string { return "price_overrides" }

// CommissionConfig is the global owner-share singleton (always row id=1).
// Version increments on every update so writers can detect lost updates.
type CommissionConfig struct {
	ID              int64     `json:"-" gorm:"primaryKey"`
	OwnerPercentBps int32     `json:"owner_percent_bps" gorm:"not null"`
	Version         int64     `json:"version" gorm:"not null;default:1"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CommissionConfig) TableName() string { return "commission_config" }

// ResolvedPrice is the effective unit price for a (reseller, ticket type)
// pair after override resolution.
type ResolvedPrice struct {
	TicketTypeID   snowflake.ID `json:"ticket_type_id"`
	TicketTypeName string       `json:"ticket_type_name,omitempty"`
	UnitPrice      int64        `json:"unit_price"`
	Source         string       `json:"source"`
}

const (
	PriceSourceOverride = "override"
	PriceSourceDefault  = "default"
)

// EffectiveSalePrice picks the override price when one is set, otherwise
// the catalog default.
func EffectiveSalePrice(override *PriceOverride, defaultSalePrice int64) (int64, string) {
	if override != nil && override.Price > 0 {
		return override.Price, PriceSourceOverride
	}
	return defaultSalePrice, PriceSourceDefault
}

// EffectiveCommissionBps resolves the owner share: per-reseller override
// first, then the global config, then the built-in default.
func EffectiveCommissionBps(resellerOverride *int32, global *CommissionConfig) int32 {
	if resellerOverride != nil && *resellerOverride > 0 {
		return ClampBps(*resellerOverride)
	}
	if global != nil {
		return ClampBps(global.OwnerPercentBps)
	}
	return DefaultOwnerPercentBps
}

// ClampBps forces a basis-point value into [0, 10000].
func ClampBps(bps int32) int32 {
	if bps < 0 {
		return 0
	}
	if bps > MaxBps {
		return MaxBps
	}
	return bps
}

// SplitRevenue divides revenue between owner and reseller with no residue:
// the owner share truncates and the reseller keeps the remainder, so
// owner + reseller == revenue exactly.
func SplitRevenue(revenue int64, ownerBps int32) (owner, reseller int64) {
	owner = revenue * int64(ClampBps(ownerBps)) / int64(MaxBps)
	reseller = revenue - owner
	return owner, reseller
}
