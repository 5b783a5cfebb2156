package seed

import (
	"context"
	"errors"
	"time"

	pricingdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/domain"
	"gorm.io/gorm"
)

// EnsureCommissionConfig seeds the commission-config singleton so the
// resolver always has a row to read.
func EnsureCommissionConfig(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.WithContext(ctx).Raw(
			`SELECT COUNT(*) FROM commission_config WHERE id = 1`,
		).Scan(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		return tx.WithContext(ctx).Exec(
			`INSERT INTO commission_config (id, owner_percent_bps, version, updated_at)
			 VALUES (1, ?, 1, ?)`,
			pricingdomain.DefaultOwnerPercentBps,
			time.Now().UTC(),
		).Error
	})
}
