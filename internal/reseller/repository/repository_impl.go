package repository

import (
	"context"

	resellerdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() resellerdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entity *resellerdomain.Reseller) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resellers (
			id, business_name, responsible_name, phone, address, active,
			commission_override_bps, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entity.ID,
		entity.BusinessName,
		entity.ResponsibleName,
		entity.Phone,
		entity.Address,
		entity.Active,
		entity.CommissionOverrideBps,
		entity.CreatedAt,
		entity.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, entity *resellerdomain.Reseller) error {
	return db.WithContext(ctx).Exec(
		`UPDATE resellers
		 SET business_name = ?, responsible_name = ?, phone = ?, address = ?,
		     active = ?, commission_override_bps = ?, updated_at = ?
		 WHERE id = ?`,
		entity.BusinessName,
		entity.ResponsibleName,
		entity.Phone,
		entity.Address,
		entity.Active,
		entity.CommissionOverrideBps,
		entity.UpdatedAt,
		entity.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*resellerdomain.Reseller, error) {
	var entity resellerdomain.Reseller
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_name, responsible_name, phone, address, active,
		        commission_override_bps, created_at, updated_at
		 FROM resellers WHERE id = ?`,
		id,
	).Scan(&entity).Error
	if err != nil {
		return nil, err
	}
	if entity.ID == 0 {
		return nil, nil
	}
	return &entity, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]resellerdomain.Reseller, error) {
	query := `SELECT id, business_name, responsible_name, phone, address, active,
	        commission_override_bps, created_at, updated_at
	 FROM resellers`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY business_name ASC`

	var items []resellerdomain.Reseller
	err := db.WithContext(ctx).Raw(query).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM resellers WHERE id = ?`, id).Error
}

func (r *repo) DeleteDependents(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	statements := []string{
		`DELETE FROM cash_cut_lines WHERE cash_cut_id IN (SELECT id FROM cash_cuts WHERE reseller_id = ?)`,
		`DELETE FROM cash_cuts WHERE reseller_id = ?`,
		`DELETE FROM price_overrides WHERE reseller_id = ?`,
		`DELETE FROM inventory_records WHERE reseller_id = ?`,
	}
	for _, stmt := range statements {
		if err := db.WithContext(ctx).Exec(stmt, id).Error; err != nil {
			return err
		}
	}
	return nil
}
