package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cashcutdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/domain"
	cashcutrepo "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/repository"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/events"
	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	inventoryrepo "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/repository"
	pricingrepo "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/repository"
	resellerrepo "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/repository"
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
		`CREATE TABLE resellers (
			id INTEGER PRIMARY KEY,
			business_name TEXT NOT NULL,
			responsible_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT 1,
			commission_override_bps INTEGER,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE ticket_types (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			duration_hours INTEGER NOT NULL,
			default_sale_price INTEGER NOT NULL DEFAULT 0,
			purchase_price INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
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
		`CREATE TABLE price_overrides (
			reseller_id INTEGER NOT NULL,
			ticket_type_id INTEGER NOT NULL,
			price INTEGER NOT NULL,
			updated_at DATETIME,
			PRIMARY KEY (reseller_id, ticket_type_id)
		)`,
		`CREATE TABLE commission_config (
			id INTEGER PRIMARY KEY,
			owner_percent_bps INTEGER NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME
		)`,
		`CREATE TABLE cash_cuts (
			id INTEGER PRIMARY KEY,
			reseller_id INTEGER NOT NULL,
			cut_date DATE NOT NULL,
			total_revenue INTEGER NOT NULL DEFAULT 0,
			total_owner_share INTEGER NOT NULL DEFAULT 0,
			total_reseller_share INTEGER NOT NULL DEFAULT 0,
			actor_type TEXT NOT NULL DEFAULT '',
			actor_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME
		)`,
		`CREATE TABLE cash_cut_lines (
			id INTEGER PRIMARY KEY,
			cash_cut_id INTEGER NOT NULL,
			ticket_type_id INTEGER NOT NULL,
			sold_now INTEGER NOT NULL,
			unit_price INTEGER NOT NULL,
			revenue INTEGER NOT NULL,
			owner_share INTEGER NOT NULL,
			reseller_share INTEGER NOT NULL
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

type fixture struct {
	db    *gorm.DB
	svc   cashcutdomain.Service
	hub   *events.Hub
	clock *clock.FakeClock
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := openTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))
	hub := events.NewHub()

	svc := New(Params{
		DB:             db,
		Log:            zap.NewNop(),
		GenID:          node,
		Clock:          fake,
		Ops:            config.NewStaticOpsConfigHolder(config.DefaultOpsConfig()),
		Repo:           cashcutrepo.Provide(),
		InventoryRepo:  inventoryrepo.Provide(),
		PricingRepo:    pricingrepo.Provide(),
		ResellerRepo:   resellerrepo.Provide(),
		TicketTypeRepo: tickettyperepo.Provide(),
		Hub:            hub,
	})

	return &fixture{db: db, svc: svc, hub: hub, clock: fake, genID: node}
}

func (f *fixture) seedReseller(t *testing.T, id int64, overrideBps *int32) {
	t.Helper()
	require.NoError(t, f.db.Exec(
		`INSERT INTO resellers (id, business_name, active, commission_override_bps, created_at, updated_at)
		 VALUES (?, 'Papeleria Lupita', 1, ?, ?, ?)`,
		id, overrideBps, f.clock.Now(), f.clock.Now(),
	).Error)
}

func (f *fixture) seedTicketType(t *testing.T, id, salePrice int64) {
	t.Helper()
	require.NoError(t, f.db.Exec(
		`INSERT INTO ticket_types (id, name, duration_hours, default_sale_price, purchase_price, created_at, updated_at)
		 VALUES (?, ?, 24, ?, ?, ?, ?)`,
		id, "Ficha "+snowflake.ParseInt64(id).String(), salePrice, salePrice/2, f.clock.Now(), f.clock.Now(),
	).Error)
}

func (f *fixture) seedInventory(t *testing.T, resellerID, typeID, delivered, sold int64) {
	t.Helper()
	require.NoError(t, f.db.Exec(
		`INSERT INTO inventory_records (reseller_id, ticket_type_id, delivered_count, sold_count, stock_actual, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		resellerID, typeID, delivered, sold, delivered-sold, f.clock.Now(), f.clock.Now(),
	).Error)
}

func (f *fixture) seedCommission(t *testing.T, bps int32) {
	t.Helper()
	require.NoError(t, f.db.Exec(
		`INSERT INTO commission_config (id, owner_percent_bps, version, updated_at) VALUES (1, ?, 1, ?)`,
		bps, f.clock.Now(),
	).Error)
}

func (f *fixture) inventory(t *testing.T, resellerID, typeID int64) inventorydomain.InventoryRecord {
	t.Helper()
	var record inventorydomain.InventoryRecord
	require.NoError(t, f.db.Raw(
		`SELECT reseller_id, ticket_type_id, delivered_count, sold_count, stock_actual
		 FROM inventory_records WHERE reseller_id = ? AND ticket_type_id = ?`,
		resellerID, typeID,
	).Scan(&record).Error)
	return record
}

func TestCommit_SettlesLinesAndBumpsSold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReseller(t, 10, nil)
	f.seedCommission(t, 2000)
	f.seedTicketType(t, 100, 1500)
	f.seedTicketType(t, 101, 3000)
	f.seedInventory(t, 10, 100, 20, 5) // stock 15
	f.seedInventory(t, 10, 101, 8, 0)  // stock 8

	cut, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		CutDate:    "2025-09-01",
		Lines: []cashcutdomain.CommitLine{
			{TicketTypeID: "100", SoldNow: 3},
			{TicketTypeID: "101", SoldNow: 2},
		},
	})
	require.NoError(t, err)

	// 3*1500 + 2*3000 = 10500; owner at 20% = 2100
	assert.Equal(t, int64(10500), cut.TotalRevenue)
	assert.Equal(t, int64(2100), cut.TotalOwnerShare)
	assert.Equal(t, int64(8400), cut.TotalResellerShare)
	assert.Equal(t, "2025-09-01", cut.CutDate.String())
	require.Len(t, cut.Lines, 2)
	for _, line := range cut.Lines {
		assert.Equal(t, line.Revenue, line.OwnerShare+line.ResellerShare)
	}

	first := f.inventory(t, 10, 100)
	assert.Equal(t, int64(8), first.SoldCount)
	assert.Equal(t, int64(12), first.StockActual)
	second := f.inventory(t, 10, 101)
	assert.Equal(t, int64(2), second.SoldCount)
	assert.Equal(t, int64(6), second.StockActual)
}

func TestCommit_EmptyCutRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReseller(t, 10, nil)
	f.seedCommission(t, 2000)

	_, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		Lines: []cashcutdomain.CommitLine{
			{TicketTypeID: "100", SoldNow: 0},
		},
	})
	assert.ErrorIs(t, err, cashcutdomain.ErrEmptyCut)

	_, err = f.svc.Commit(ctx, cashcutdomain.CommitRequest{ResellerID: "10"})
	assert.ErrorIs(t, err, cashcutdomain.ErrEmptyCut)
}

func TestCommit_StaleInventoryRejectedWhole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReseller(t, 10, nil)
	f.seedCommission(t, 2000)
	f.seedTicketType(t, 100, 1500)
	f.seedTicketType(t, 101, 3000)
	f.seedInventory(t, 10, 100, 10, 0) // stock 10
	f.seedInventory(t, 10, 101, 3, 1)  // stock 2

	_, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		Lines: []cashcutdomain.CommitLine{
			{TicketTypeID: "100", SoldNow: 4},
			{TicketTypeID: "101", SoldNow: 5}, // exceeds stock 2
		},
	})
	var stale *cashcutdomain.StaleInventoryError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, int64(5), stale.SoldNow)
	assert.Equal(t, int64(2), stale.StockActual)

	// The whole commit rolled back, including the valid first line.
	untouched := f.inventory(t, 10, 100)
	assert.Equal(t, int64(0), untouched.SoldCount)
	assert.Equal(t, int64(10), untouched.StockActual)

	var cuts int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM cash_cuts`).Scan(&cuts).Error)
	assert.Zero(t, cuts)
}

func TestCommit_UsesPriceOverrideAndResellerCommission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	override := int32(3500)
	f.seedReseller(t, 10, &override)
	f.seedCommission(t, 2000)
	f.seedTicketType(t, 100, 1500)
	f.seedInventory(t, 10, 100, 10, 0)
	require.NoError(t, f.db.Exec(
		`INSERT INTO price_overrides (reseller_id, ticket_type_id, price, updated_at) VALUES (10, 100, 2000, ?)`,
		f.clock.Now(),
	).Error)

	cut, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: 4}},
	})
	require.NoError(t, err)

	// 4 * 2000 override price, owner at 35%
	assert.Equal(t, int64(8000), cut.TotalRevenue)
	assert.Equal(t, int64(2800), cut.TotalOwnerShare)
	assert.Equal(t, int64(5200), cut.TotalResellerShare)
	assert.Equal(t, int64(2000), cut.Lines[0].UnitPrice)
}

func TestCommit_GlobalCommissionChangeAppliesToNextCut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReseller(t, 10, nil)
	f.seedCommission(t, 2000)
	f.seedTicketType(t, 100, 1000)
	f.seedInventory(t, 10, 100, 20, 0)

	first, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), first.TotalOwnerShare) // 20% of 5000

	require.NoError(t, f.db.Exec(`UPDATE commission_config SET owner_percent_bps = 3000, version = 2 WHERE id = 1`).Error)

	second, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), second.TotalOwnerShare) // 30% of 5000

	// The first cut's recorded split is untouched.
	stored, err := f.svc.Get(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stored.TotalOwnerShare)
}

func TestCommit_LineValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReseller(t, 10, nil)
	f.seedCommission(t, 2000)

	_, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: -1}},
	})
	assert.ErrorIs(t, err, cashcutdomain.ErrLineOutOfRange)

	_, err = f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		Lines: []cashcutdomain.CommitLine{
			{TicketTypeID: "100", SoldNow: 1},
			{TicketTypeID: "100", SoldNow: 2},
		},
	})
	assert.ErrorIs(t, err, cashcutdomain.ErrDuplicateLine)

	_, err = f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		CutDate:    "09/01/2025",
		Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: 1}},
	})
	assert.ErrorIs(t, err, cashcutdomain.ErrInvalidCutDate)

	_, err = f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "999",
		Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: 1}},
	})
	assert.ErrorIs(t, err, cashcutdomain.ErrNotFound)
}

func TestCommit_SplitIsAlwaysExact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReseller(t, 10, nil)
	f.seedCommission(t, 3333)
	f.seedTicketType(t, 100, 777)
	f.seedInventory(t, 10, 100, 1000, 0)

	for _, soldNow := range []int64{1, 3, 7, 13} {
		cut, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
			ResellerID: "10",
			Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: soldNow}},
		})
		require.NoError(t, err)
		assert.Equal(t, cut.TotalRevenue, cut.TotalOwnerShare+cut.TotalResellerShare)
	}
}

func TestPrepare_SnapshotsInventoryWithPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReseller(t, 10, nil)
	f.seedCommission(t, 2500)
	f.seedTicketType(t, 100, 1500)
	f.seedTicketType(t, 101, 3000)
	f.seedInventory(t, 10, 100, 20, 5)
	f.seedInventory(t, 10, 101, 0, 0) // no movement, excluded

	prepared, err := f.svc.Prepare(ctx, "10")
	require.NoError(t, err)

	assert.Equal(t, int32(2500), prepared.OwnerPercentBps)
	require.Len(t, prepared.Lines, 1)
	line := prepared.Lines[0]
	assert.Equal(t, int64(20), line.DeliveredCount)
	assert.Equal(t, int64(5), line.SoldCount)
	assert.Equal(t, int64(15), line.StockActual)
	assert.Equal(t, int64(1500), line.UnitPrice)
	assert.Equal(t, "default", line.PriceSource)
}

func TestHistory_FiltersAndTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReseller(t, 10, nil)
	f.seedReseller(t, 11, nil)
	f.seedCommission(t, 2000)
	f.seedTicketType(t, 100, 1000)
	f.seedInventory(t, 10, 100, 50, 0)
	f.seedInventory(t, 11, 100, 50, 0)

	for _, tc := range []struct {
		reseller string
		cutDate  string
		soldNow  int64
	}{
		{"10", "2025-08-30", 2},
		{"10", "2025-09-01", 3},
		{"11", "2025-09-01", 4},
	} {
		_, err := f.svc.Commit(ctx, cashcutdomain.CommitRequest{
			ResellerID: tc.reseller,
			CutDate:    tc.cutDate,
			Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: tc.soldNow}},
		})
		require.NoError(t, err)
	}

	cuts, err := f.svc.List(ctx, cashcutdomain.HistoryFilter{ResellerID: "10"})
	require.NoError(t, err)
	assert.Len(t, cuts, 2)

	cuts, err = f.svc.List(ctx, cashcutdomain.HistoryFilter{From: "2025-09-01"})
	require.NoError(t, err)
	assert.Len(t, cuts, 2)

	totals, err := f.svc.Totals(ctx, cashcutdomain.HistoryFilter{ResellerID: "10"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Count)
	assert.Equal(t, int64(5000), totals.TotalRevenue)
	assert.Equal(t, totals.TotalRevenue, totals.TotalOwnerShare+totals.TotalResellerShare)
}

func TestCommit_PublishesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, backlog, err := f.hub.Subscribe(events.TopicCashCutCommitted)
	require.NoError(t, err)
	defer sub.Close()
	assert.Empty(t, backlog)

	f.seedReseller(t, 10, nil)
	f.seedCommission(t, 2000)
	f.seedTicketType(t, 100, 1000)
	f.seedInventory(t, 10, 100, 10, 0)

	_, err = f.svc.Commit(ctx, cashcutdomain.CommitRequest{
		ResellerID: "10",
		Lines:      []cashcutdomain.CommitLine{{TicketTypeID: "100", SoldNow: 2}},
	})
	require.NoError(t, err)

	select {
	case event := <-sub.Events():
		assert.Equal(t, events.TopicCashCutCommitted, event.Topic)
		assert.Equal(t, "10", event.ResellerID)
	default:
		t.Fatal("expected a committed event")
	}
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "12345")
	assert.True(t, errors.Is(err, cashcutdomain.ErrNotFound))
}
