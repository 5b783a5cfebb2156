package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	inventoryrepo "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// SQLite support hack: remove FOR UPDATE clauses
	stripForUpdate := func(d *gorm.DB) {
		sql := d.Statement.SQL.String()
		if strings.Contains(sql, "FOR UPDATE") {
			newSQL := strings.ReplaceAll(sql, "FOR UPDATE", "")
			d.Statement.SQL.Reset()
			d.Statement.SQL.WriteString(newSQL)
		}
	}
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("sqlite_skip_locked", stripForUpdate))
	require.NoError(t, db.Callback().Row().Before("gorm:row").Register("sqlite_skip_locked_row", stripForUpdate))

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

func newService(t *testing.T, db *gorm.DB) inventorydomain.Service {
	t.Helper()
	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)),
		Ops:   config.NewStaticOpsConfigHolder(config.DefaultOpsConfig()),
		Repo:  inventoryrepo.Provide(),
	})
}

func seedRecord(t *testing.T, db *gorm.DB, resellerID, typeID, delivered, sold int64) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO inventory_records (reseller_id, ticket_type_id, delivered_count, sold_count, stock_actual, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, '2025-09-01', '2025-09-01')`,
		resellerID, typeID, delivered, sold, delivered-sold,
	).Error)
}

func TestAdjust_AppliesDeltaAndRecomputesStock(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	seedRecord(t, db, 10, 100, 20, 5)

	record, err := svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID:   "10",
		TicketTypeID: "100",
		Field:        inventorydomain.FieldSold,
		Delta:        3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), record.DeliveredCount)
	assert.Equal(t, int64(8), record.SoldCount)
	assert.Equal(t, int64(12), record.StockActual)

	record, err = svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID:   "10",
		TicketTypeID: "100",
		Field:        inventorydomain.FieldDelivered,
		Delta:        -2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(18), record.DeliveredCount)
	assert.Equal(t, int64(10), record.StockActual)
}

func TestAdjust_CreatesRecordOnFirstTouch(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)

	record, err := svc.Adjust(context.Background(), inventorydomain.AdjustRequest{
		ResellerID:   "10",
		TicketTypeID: "100",
		Field:        inventorydomain.FieldDelivered,
		Delta:        7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.DeliveredCount)
	assert.Equal(t, int64(0), record.SoldCount)
	assert.Equal(t, int64(7), record.StockActual)
}

func TestAdjust_RejectsInvariantViolations(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	seedRecord(t, db, 10, 100, 10, 8)

	// Sold would exceed delivered.
	_, err := svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID:   "10",
		TicketTypeID: "100",
		Field:        inventorydomain.FieldSold,
		Delta:        3,
	})
	assert.ErrorIs(t, err, inventorydomain.ErrInvariantViolation)

	// Delivered would fall below sold.
	_, err = svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID:   "10",
		TicketTypeID: "100",
		Field:        inventorydomain.FieldDelivered,
		Delta:        -3,
	})
	assert.ErrorIs(t, err, inventorydomain.ErrInvariantViolation)

	// Sold would go negative.
	_, err = svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID:   "10",
		TicketTypeID: "100",
		Field:        inventorydomain.FieldSold,
		Delta:        -9,
	})
	assert.ErrorIs(t, err, inventorydomain.ErrInvariantViolation)

	// The rejected adjustments left the row as it was.
	record, err := svc.Get(ctx, "10", "100")
	require.NoError(t, err)
	assert.Equal(t, int64(10), record.DeliveredCount)
	assert.Equal(t, int64(8), record.SoldCount)
	assert.Equal(t, int64(2), record.StockActual)
}

func TestAdjust_RequestValidation(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID: "10", TicketTypeID: "100", Field: "price", Delta: 1,
	})
	assert.ErrorIs(t, err, inventorydomain.ErrInvalidField)

	_, err = svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID: "10", TicketTypeID: "100", Field: inventorydomain.FieldSold, Delta: 0,
	})
	assert.ErrorIs(t, err, inventorydomain.ErrInvalidDelta)

	maxDelta := config.DefaultOpsConfig().MaxAdjustDelta
	_, err = svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID: "10", TicketTypeID: "100", Field: inventorydomain.FieldSold, Delta: maxDelta + 1,
	})
	assert.ErrorIs(t, err, inventorydomain.ErrDeltaTooLarge)

	_, err = svc.Adjust(ctx, inventorydomain.AdjustRequest{
		ResellerID: "0", TicketTypeID: "100", Field: inventorydomain.FieldSold, Delta: 1,
	})
	assert.ErrorIs(t, err, inventorydomain.ErrInvalidID)
}

func TestSetSoldAbsolute_OverwritesWithinRange(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	seedRecord(t, db, 10, 100, 20, 5)

	record, err := svc.SetSoldAbsolute(ctx, inventorydomain.SetSoldRequest{
		ResellerID:   "10",
		TicketTypeID: "100",
		SoldCount:    12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), record.SoldCount)
	assert.Equal(t, int64(8), record.StockActual)

	// Zero and the full delivered count are both valid bounds.
	record, err = svc.SetSoldAbsolute(ctx, inventorydomain.SetSoldRequest{
		ResellerID: "10", TicketTypeID: "100", SoldCount: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), record.StockActual)

	record, err = svc.SetSoldAbsolute(ctx, inventorydomain.SetSoldRequest{
		ResellerID: "10", TicketTypeID: "100", SoldCount: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), record.StockActual)
}

func TestSetSoldAbsolute_RejectsOutOfRange(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	seedRecord(t, db, 10, 100, 20, 5)

	_, err := svc.SetSoldAbsolute(ctx, inventorydomain.SetSoldRequest{
		ResellerID: "10", TicketTypeID: "100", SoldCount: 21,
	})
	var rangeErr *inventorydomain.SoldRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, int64(21), rangeErr.Requested)
	assert.Equal(t, int64(20), rangeErr.Max)

	_, err = svc.SetSoldAbsolute(ctx, inventorydomain.SetSoldRequest{
		ResellerID: "10", TicketTypeID: "100", SoldCount: -1,
	})
	require.ErrorAs(t, err, &rangeErr)

	_, err = svc.SetSoldAbsolute(ctx, inventorydomain.SetSoldRequest{
		ResellerID: "10", TicketTypeID: "999", SoldCount: 1,
	})
	assert.ErrorIs(t, err, inventorydomain.ErrNotFound)
}

func TestListByReseller_ReturnsOnlyTheirRecords(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)

	seedRecord(t, db, 10, 100, 20, 5)
	seedRecord(t, db, 10, 101, 8, 0)
	seedRecord(t, db, 11, 100, 3, 1)

	records, err := svc.ListByReseller(context.Background(), "10")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, int64(10), int64(record.ResellerID))
		assert.Equal(t, record.DeliveredCount-record.SoldCount, record.StockActual)
	}
}
