package repository

import (
	"context"

	pricingdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pricingdomain.Repository {
	return &repo{}
}

func (r *repo) FindOverride(ctx context.Context, db *gorm.DB, resellerID, ticketTypeID snowflake.ID) (*pricingdomain.PriceOverride, error) {
	var override pricingdomain.PriceOverride
	err := db.WithContext(ctx).Raw(
		`SELECT reseller_id, ticket_type_id, price, updated_at
		 FROM price_overrides
		 WHERE reseller_id = ? AND ticket_type_id = ?`,
		resellerID, ticketTypeID,
	).Scan(&override).Error
	if err != nil {
		return nil, err
	}
	if override.ResellerID == 0 {
		return nil, nil
	}
	return &override, nil
}

func (r *repo) ListOverrides(ctx context.Context, db *gorm.DB, resellerID snowflake.ID) ([]pricingdomain.PriceOverride, error) {
	var items []pricingdomain.PriceOverride
	err := db.WithContext(ctx).Raw(
		`SELECT reseller_id, ticket_type_id, price, updated_at
		 FROM price_overrides
		 WHERE reseller_id = ?
		 ORDER BY ticket_type_id ASC`,
		resellerID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpsertOverride(ctx context.Context, db *gorm.DB, override *pricingdomain.PriceOverride) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE price_overrides
		 SET price = ?, updated_at = ?
		 WHERE reseller_id = ? AND ticket_type_id = ?`,
		override.Price,
		override.UpdatedAt,
		override.ResellerID,
		override.TicketTypeID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO price_overrides (reseller_id, ticket_type_id, price, updated_at)
		 VALUES (?, ?, ?, ?)`,
		override.ResellerID,
		override.TicketTypeID,
		override.Price,
		override.UpdatedAt,
	).Error
}

func (r *repo) DeleteOverride(ctx context.Context, db *gorm.DB, resellerID, ticketTypeID snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`DELETE FROM price_overrides WHERE reseller_id = ? AND ticket_type_id = ?`,
		resellerID, ticketTypeID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) GetCommissionConfig(ctx context.Context, db *gorm.DB) (*pricingdomain.CommissionConfig, error) {
	var cfg pricingdomain.CommissionConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_percent_bps, version, updated_at
		 FROM commission_config WHERE id = 1`,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (r *repo) GetCommissionConfigForUpdate(ctx context.Context, db *gorm.DB) (*pricingdomain.CommissionConfig, error) {
	var cfg pricingdomain.CommissionConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, owner_percent_bps, version, updated_at
		 FROM commission_config WHERE id = 1
		 FOR UPDATE`,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (r *repo) SaveCommissionConfig(ctx context.Context, db *gorm.DB, cfg *pricingdomain.CommissionConfig) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE commission_config
		 SET owner_percent_bps = ?, version = ?, updated_at = ?
		 WHERE id = 1`,
		cfg.OwnerPercentBps,
		cfg.Version,
		cfg.UpdatedAt,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO commission_config (id, owner_percent_bps, version, updated_at)
		 VALUES (1, ?, ?, ?)`,
		cfg.OwnerPercentBps,
		cfg.Version,
		cfg.UpdatedAt,
	).Error
}
