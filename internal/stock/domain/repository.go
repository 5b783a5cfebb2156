package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindEntryForUpdate locks the stock row for the duration of the
	// surrounding transaction. Returns nil when no entry exists yet.
	FindEntryForUpdate(ctx context.Context, db *gorm.DB, ticketTypeID snowflake.ID) (*GlobalStockEntry, error)
	UpsertEntry(ctx context.Context, db *gorm.DB, entry *GlobalStockEntry) error
	ListEntries(ctx context.Context, db *gorm.DB) ([]GlobalStockEntry, error)
	InsertReplenishment(ctx context.Context, db *gorm.DB, row *StockReplenishment) error
	ListReplenishments(ctx context.Context, db *gorm.DB, ticketTypeID snowflake.ID) ([]StockReplenishment, error)
}
