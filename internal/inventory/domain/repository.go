package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindForUpdate locks the record row for the surrounding transaction.
	// Returns nil when the pair has no record yet.
	FindForUpdate(ctx context.Context, db *gorm.DB, resellerID, ticketTypeID snowflake.ID) (*InventoryRecord, error)
	Find(ctx context.Context, db *gorm.DB, resellerID, ticketTypeID snowflake.ID) (*InventoryRecord, error)
	Upsert(ctx context.Context, db *gorm.DB, record *InventoryRecord) error
	ListByReseller(ctx context.Context, db *gorm.DB, resellerID snowflake.ID) ([]InventoryRecord, error)
}
