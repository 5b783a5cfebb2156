package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// QueryFilter is the parsed form of HistoryFilter repositories consume.
type QueryFilter struct {
	ResellerID snowflake.ID
	From       Date
	To         Date
	Limit      int
}

type Repository interface {
	// LockReseller takes the per-reseller commit lock for the transaction.
	// Reports false when the reseller does not exist.
	LockReseller(ctx context.Context, db *gorm.DB, resellerID snowflake.ID) (bool, error)
	InsertCut(ctx context.Context, db *gorm.DB, cut *CashCut) error
	InsertLines(ctx context.Context, db *gorm.DB, lines []CashCutLine) error
	FindCutByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CashCut, error)
	ListLines(ctx context.Context, db *gorm.DB, cutID snowflake.ID) ([]CashCutLine, error)
	ListCuts(ctx context.Context, db *gorm.DB, filter QueryFilter) ([]CashCut, error)
	Totals(ctx context.Context, db *gorm.DB, filter QueryFilter) (*CutTotals, error)
}
