package repository

import (
	"context"
	"testing"
	"time"

	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(
		`CREATE TABLE inventory_records (
			reseller_id INTEGER NOT NULL,
			ticket_type_id INTEGER NOT NULL,
			delivered_count INTEGER NOT NULL DEFAULT 0,
			sold_count INTEGER NOT NULL DEFAULT 0,
			stock_actual INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME,
			PRIMARY KEY (reseller_id, ticket_type_id)
		)`,
	).Error)

	return db
}

func TestUpsert_InsertThenConflictUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := Provide()
	ctx := context.Background()
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	first := &inventorydomain.InventoryRecord{
		ResellerID:     10,
		TicketTypeID:   100,
		DeliveredCount: 5,
		StockActual:    5,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.Upsert(ctx, db, first))

	// A second writer that also took the insert path must land as an
	// update, not a duplicate-key failure.
	second := &inventorydomain.InventoryRecord{
		ResellerID:     10,
		TicketTypeID:   100,
		DeliveredCount: 8,
		SoldCount:      2,
		StockActual:    6,
		CreatedAt:      now,
		UpdatedAt:      now.Add(time.Minute),
	}
	require.NoError(t, repo.Upsert(ctx, db, second))

	got, err := repo.Find(ctx, db, 10, 100)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(8), got.DeliveredCount)
	assert.Equal(t, int64(2), got.SoldCount)
	assert.Equal(t, int64(6), got.StockActual)

	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM inventory_records`).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}
