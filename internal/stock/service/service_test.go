package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/actorcontext"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	stockdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/domain"
	stockrepo "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/repository"
	tickettyperepo "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/repository"
	"github.com/bwmarrin/snowflake"
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

	for _, ddl := range []string{
		`CREATE TABLE ticket_types (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			duration_hours INTEGER NOT NULL,
			default_sale_price INTEGER NOT NULL DEFAULT 0,
			purchase_price INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE global_stock_entries (
			ticket_type_id INTEGER PRIMARY KEY,
			quantity_available INTEGER NOT NULL DEFAULT 0,
			base_price INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME
		)`,
		`CREATE TABLE stock_replenishments (
			id INTEGER PRIMARY KEY,
			ticket_type_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			supplier_note TEXT NOT NULL DEFAULT '',
			actor_type TEXT NOT NULL DEFAULT '',
			actor_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

func newService(t *testing.T, db *gorm.DB) stockdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(Params{
		DB:             db,
		Log:            zap.NewNop(),
		GenID:          node,
		Clock:          clock.NewFakeClock(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)),
		Ops:            config.NewStaticOpsConfigHolder(config.DefaultOpsConfig()),
		Repo:           stockrepo.Provide(),
		TicketTypeRepo: tickettyperepo.Provide(),
	})
}

func seedTicketType(t *testing.T, db *gorm.DB, id, purchasePrice int64) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO ticket_types (id, name, duration_hours, default_sale_price, purchase_price, created_at, updated_at)
		 VALUES (?, 'Ficha 24h', 24, ?, ?, '2025-09-01', '2025-09-01')`,
		id, purchasePrice*2, purchasePrice,
	).Error)
}

func TestReplenish_CreatesEntryAndAuditRow(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)
	ctx := actorcontext.WithActor(context.Background(), actorcontext.ActorOwner, "1")

	seedTicketType(t, db, 100, 750)

	entry, err := svc.Replenish(ctx, stockdomain.ReplenishRequest{
		TicketTypeID: "100",
		Quantity:     200,
		SupplierNote: "  lote agosto  ",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(200), entry.QuantityAvailable)
	assert.Equal(t, int64(750), entry.BasePrice)

	// A second replenishment accumulates.
	entry, err = svc.Replenish(ctx, stockdomain.ReplenishRequest{TicketTypeID: "100", Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(250), entry.QuantityAvailable)

	rows, err := svc.ListReplenishments(ctx, "100")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, actorcontext.ActorOwner, row.ActorType)
	}
	notes := []string{rows[0].SupplierNote, rows[1].SupplierNote}
	assert.Contains(t, notes, "lote agosto")
}

func TestReplenish_Validation(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	seedTicketType(t, db, 100, 750)

	_, err := svc.Replenish(ctx, stockdomain.ReplenishRequest{TicketTypeID: "100", Quantity: 0})
	assert.ErrorIs(t, err, stockdomain.ErrInvalidQuantity)

	_, err = svc.Replenish(ctx, stockdomain.ReplenishRequest{TicketTypeID: "100", Quantity: -5})
	assert.ErrorIs(t, err, stockdomain.ErrInvalidQuantity)

	tooMany := config.DefaultOpsConfig().MaxReplenishQuantity + 1
	_, err = svc.Replenish(ctx, stockdomain.ReplenishRequest{TicketTypeID: "100", Quantity: tooMany})
	assert.ErrorIs(t, err, stockdomain.ErrQuantityTooLarge)

	_, err = svc.Replenish(ctx, stockdomain.ReplenishRequest{TicketTypeID: "999", Quantity: 10})
	assert.ErrorIs(t, err, stockdomain.ErrInvalidTicketType)

	_, err = svc.Replenish(ctx, stockdomain.ReplenishRequest{TicketTypeID: "abc", Quantity: 10})
	assert.ErrorIs(t, err, stockdomain.ErrInvalidTicketType)
}

func TestList_OrdersEntriesByType(t *testing.T) {
	db := openTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	seedTicketType(t, db, 100, 750)
	seedTicketType(t, db, 101, 400)

	_, err := svc.Replenish(ctx, stockdomain.ReplenishRequest{TicketTypeID: "101", Quantity: 30})
	require.NoError(t, err)
	_, err = svc.Replenish(ctx, stockdomain.ReplenishRequest{TicketTypeID: "100", Quantity: 10})
	require.NoError(t, err)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(100), int64(entries[0].TicketTypeID))
	assert.Equal(t, int64(10), entries[0].QuantityAvailable)
	assert.Equal(t, int64(101), int64(entries[1].TicketTypeID))
	assert.Equal(t, int64(30), entries[1].QuantityAvailable)
}
