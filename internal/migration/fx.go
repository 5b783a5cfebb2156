package migration

import (
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Non-postgres deployments manage their schema out of band.
			return seed.EnsureCommissionConfig(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		return seed.EnsureCommissionConfig(conn)
	}),
)
