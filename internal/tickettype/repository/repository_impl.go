package repository

import (
	"context"
	"strings"

	tickettypedomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tickettypedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *tickettypedomain.TicketType) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO ticket_types (
			id, name, duration_hours, default_sale_price, purchase_price, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		t.DurationHours,
		t.DefaultSalePrice,
		t.PurchasePrice,
		t.CreatedAt,
		t.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, t *tickettypedomain.TicketType) error {
	return db.WithContext(ctx).Exec(
		`UPDATE ticket_types
		 SET name = ?, duration_hours = ?, default_sale_price = ?, purchase_price = ?, updated_at = ?
		 WHERE id = ?`,
		t.Name,
		t.DurationHours,
		t.DefaultSalePrice,
		t.PurchasePrice,
		t.UpdatedAt,
		t.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tickettypedomain.TicketType, error) {
	var t tickettypedomain.TicketType
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, duration_hours, default_sale_price, purchase_price, created_at, updated_at
		 FROM ticket_types WHERE id = ?`,
		id,
	).Scan(&t).Error
	if err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return &t, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*tickettypedomain.TicketType, error) {
	var t tickettypedomain.TicketType
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, duration_hours, default_sale_price, purchase_price, created_at, updated_at
		 FROM ticket_types WHERE LOWER(name) = ?`,
		strings.ToLower(strings.TrimSpace(name)),
	).Scan(&t).Error
	if err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return &t, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]tickettypedomain.TicketType, error) {
	var items []tickettypedomain.TicketType
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, duration_hours, default_sale_price, purchase_price, created_at, updated_at
		 FROM ticket_types ORDER BY duration_hours ASC, name ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (tickettypedomain.References, error) {
	var refs tickettypedomain.References
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT COUNT(*) FROM inventory_records WHERE ticket_type_id = ?) AS inventory_records,
			(SELECT COUNT(*) FROM price_overrides WHERE ticket_type_id = ?) AS price_overrides,
			(SELECT COUNT(*) FROM cash_cut_lines WHERE ticket_type_id = ?) AS cash_cut_lines`,
		id, id, id,
	).Scan(&refs).Error
	return refs, err
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM ticket_types WHERE id = ?`, id).Error
}

func (r *repo) DeleteDependents(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	statements := []string{
		`DELETE FROM price_overrides WHERE ticket_type_id = ?`,
		`DELETE FROM inventory_records WHERE ticket_type_id = ?`,
		`DELETE FROM stock_replenishments WHERE ticket_type_id = ?`,
		`DELETE FROM global_stock_entries WHERE ticket_type_id = ?`,
	}
	for _, stmt := range statements {
		if err := db.WithContext(ctx).Exec(stmt, id).Error; err != nil {
			return err
		}
	}
	return nil
}
