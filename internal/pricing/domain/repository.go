package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindOverride(ctx context.Context, db *gorm.DB, resellerID, ticketTypeID snowflake.ID) (*PriceOverride, error)
	ListOverrides(ctx context.Context, db *gorm.DB, resellerID snowflake.ID) ([]PriceOverride, error)
	UpsertOverride(ctx context.Context, db *gorm.DB, override *PriceOverride) error
	// DeleteOverride reports whether a row was actually removed.
	DeleteOverride(ctx context.Context, db *gorm.DB, resellerID, ticketTypeID snowflake.ID) (bool, error)

	GetCommissionConfig(ctx context.Context, db *gorm.DB) (*CommissionConfig, error)
	GetCommissionConfigForUpdate(ctx context.Context, db *gorm.DB) (*CommissionConfig, error)
	SaveCommissionConfig(ctx context.Context, db *gorm.DB, cfg *CommissionConfig) error
}
