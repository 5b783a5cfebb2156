package repository

import (
	"context"

	stockdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() stockdomain.Repository {
	return &repo{}
}

func (r *repo) FindEntryForUpdate(ctx context.Context, db *gorm.DB, ticketTypeID snowflake.ID) (*stockdomain.GlobalStockEntry, error) {
	var entry stockdomain.GlobalStockEntry
	err := db.WithContext(ctx).Raw(
		`SELECT ticket_type_id, quantity_available, base_price, updated_at
		 FROM global_stock_entries
		 WHERE ticket_type_id = ?
		 FOR UPDATE`,
		ticketTypeID,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.TicketTypeID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) UpsertEntry(ctx context.Context, db *gorm.DB, entry *stockdomain.GlobalStockEntry) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE global_stock_entries
		 SET quantity_available = ?, base_price = ?, updated_at = ?
		 WHERE ticket_type_id = ?`,
		entry.QuantityAvailable,
		entry.BasePrice,
		entry.UpdatedAt,
		entry.TicketTypeID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO global_stock_entries (ticket_type_id, quantity_available, base_price, updated_at)
		 VALUES (?, ?, ?, ?)`,
		entry.TicketTypeID,
		entry.QuantityAvailable,
		entry.BasePrice,
		entry.UpdatedAt,
	).Error
}

func (r *repo) ListEntries(ctx context.Context, db *gorm.DB) ([]stockdomain.GlobalStockEntry, error) {
	var items []stockdomain.GlobalStockEntry
	err := db.WithContext(ctx).Raw(
		`SELECT ticket_type_id, quantity_available, base_price, updated_at
		 FROM global_stock_entries ORDER BY ticket_type_id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertReplenishment(ctx context.Context, db *gorm.DB, row *stockdomain.StockReplenishment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO stock_replenishments (
			id, ticket_type_id, quantity, supplier_note, actor_type, actor_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID,
		row.TicketTypeID,
		row.Quantity,
		row.SupplierNote,
		row.ActorType,
		row.ActorID,
		row.CreatedAt,
	).Error
}

func (r *repo) ListReplenishments(ctx context.Context, db *gorm.DB, ticketTypeID snowflake.ID) ([]stockdomain.StockReplenishment, error) {
	query := `SELECT id, ticket_type_id, quantity, supplier_note, actor_type, actor_id, created_at
	 FROM stock_replenishments`
	args := []any{}
	if ticketTypeID != 0 {
		query += ` WHERE ticket_type_id = ?`
		args = append(args, ticketTypeID)
	}
	query += ` ORDER BY created_at DESC`

	var items []stockdomain.StockReplenishment
	err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
