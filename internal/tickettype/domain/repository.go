package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// References counts rows in other ledgers that point at a ticket type.
type References struct {
	InventoryRecords int64
	PriceOverrides   int64
	CashCutLines     int64
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, t *TicketType) error
	Update(ctx context.Context, db *gorm.DB, t *TicketType) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TicketType, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*TicketType, error)
	List(ctx context.Context, db *gorm.DB) ([]TicketType, error)
	CountReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (References, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DeleteDependents(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
