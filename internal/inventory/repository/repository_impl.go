package repository

import (
	"context"

	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() inventorydomain.Repository {
	return &repo{}
}

const recordColumns = `reseller_id, ticket_type_id, delivered_count, sold_count, stock_actual, created_at, updated_at`

func (r *repo) FindForUpdate(ctx context.Context, db *gorm.DB, resellerID, ticketTypeID snowflake.ID) (*inventorydomain.InventoryRecord, error) {
	var record inventorydomain.InventoryRecord
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+`
		 FROM inventory_records
		 WHERE reseller_id = ? AND ticket_type_id = ?
		 FOR UPDATE`,
		resellerID, ticketTypeID,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ResellerID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, resellerID, ticketTypeID snowflake.ID) (*inventorydomain.InventoryRecord, error) {
	var record inventorydomain.InventoryRecord
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+`
		 FROM inventory_records
		 WHERE reseller_id = ? AND ticket_type_id = ?`,
		resellerID, ticketTypeID,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ResellerID == 0 {
		return nil, nil
	}
	return &record, nil
}

// Upsert writes the ledger row in one statement so two first-touch writers
// for the same (reseller, type) pair cannot both take an insert path; the
// loser lands on the primary key and becomes an update.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *inventorydomain.InventoryRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO inventory_records (
			reseller_id, ticket_type_id, delivered_count, sold_count, stock_actual, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (reseller_id, ticket_type_id) DO UPDATE SET
			delivered_count = excluded.delivered_count,
			sold_count = excluded.sold_count,
			stock_actual = excluded.stock_actual,
			updated_at = excluded.updated_at`,
		record.ResellerID,
		record.TicketTypeID,
		record.DeliveredCount,
		record.SoldCount,
		record.StockActual,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) ListByReseller(ctx context.Context, db *gorm.DB, resellerID snowflake.ID) ([]inventorydomain.InventoryRecord, error) {
	var items []inventorydomain.InventoryRecord
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+`
		 FROM inventory_records
		 WHERE reseller_id = ?
		 ORDER BY ticket_type_id ASC`,
		resellerID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
