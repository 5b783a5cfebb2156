package repository

import (
	"context"

	cashcutdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() cashcutdomain.Repository {
	return &repo{}
}

const cutColumns = `id, reseller_id, cut_date, total_revenue, total_owner_share, total_reseller_share, actor_type, actor_id, created_at`

func (r *repo) LockReseller(ctx context.Context, db *gorm.DB, resellerID snowflake.ID) (bool, error) {
	var id int64
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM resellers WHERE id = ? FOR UPDATE`,
		resellerID,
	).Scan(&id).Error
	if err != nil {
		return false, err
	}
	return id != 0, nil
}

func (r *repo) InsertCut(ctx context.Context, db *gorm.DB, cut *cashcutdomain.CashCut) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO cash_cuts (
			id, reseller_id, cut_date, total_revenue, total_owner_share, total_reseller_share,
			actor_type, actor_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cut.ID,
		cut.ResellerID,
		cut.CutDate,
		cut.TotalRevenue,
		cut.TotalOwnerShare,
		cut.TotalResellerShare,
		cut.ActorType,
		cut.ActorID,
		cut.CreatedAt,
	).Error
}

func (r *repo) InsertLines(ctx context.Context, db *gorm.DB, lines []cashcutdomain.CashCutLine) error {
	for i := range lines {
		line := &lines[i]
		err := db.WithContext(ctx).Exec(
			`INSERT INTO cash_cut_lines (
				id, cash_cut_id, ticket_type_id, sold_now, unit_price, revenue, owner_share, reseller_share
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			line.ID,
			line.CashCutID,
			line.TicketTypeID,
			line.SoldNow,
			line.UnitPrice,
			line.Revenue,
			line.OwnerShare,
			line.ResellerShare,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindCutByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*cashcutdomain.CashCut, error) {
	var cut cashcutdomain.CashCut
	err := db.WithContext(ctx).Raw(
		`SELECT `+cutColumns+` FROM cash_cuts WHERE id = ?`,
		id,
	).Scan(&cut).Error
	if err != nil {
		return nil, err
	}
	if cut.ID == 0 {
		return nil, nil
	}
	return &cut, nil
}

func (r *repo) ListLines(ctx context.Context, db *gorm.DB, cutID snowflake.ID) ([]cashcutdomain.CashCutLine, error) {
	var lines []cashcutdomain.CashCutLine
	err := db.WithContext(ctx).Raw(
		`SELECT id, cash_cut_id, ticket_type_id, sold_now, unit_price, revenue, owner_share, reseller_share
		 FROM cash_cut_lines
		 WHERE cash_cut_id = ?
		 ORDER BY ticket_type_id ASC`,
		cutID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) ListCuts(ctx context.Context, db *gorm.DB, filter cashcutdomain.QueryFilter) ([]cashcutdomain.CashCut, error) {
	query, args := buildFilter(`SELECT `+cutColumns+` FROM cash_cuts`, filter)
	query += ` ORDER BY cut_date DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var cuts []cashcutdomain.CashCut
	err := db.WithContext(ctx).Raw(query, args...).Scan(&cuts).Error
	if err != nil {
		return nil, err
	}
	return cuts, nil
}

func (r *repo) Totals(ctx context.Context, db *gorm.DB, filter cashcutdomain.QueryFilter) (*cashcutdomain.CutTotals, error) {
	query, args := buildFilter(
		`SELECT COUNT(*) AS count,
			COALESCE(SUM(total_revenue), 0) AS total_revenue,
			COALESCE(SUM(total_owner_share), 0) AS total_owner_share,
			COALESCE(SUM(total_reseller_share), 0) AS total_reseller_share
		 FROM cash_cuts`, filter)

	var totals cashcutdomain.CutTotals
	err := db.WithContext(ctx).Raw(query, args...).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func buildFilter(query string, filter cashcutdomain.QueryFilter) (string, []any) {
	where := ``
	args := []any{}
	and := func(clause string, arg any) {
		if where == "" {
			where = ` WHERE ` + clause
		} else {
			where += ` AND ` + clause
		}
		args = append(args, arg)
	}
	if filter.ResellerID != 0 {
		and(`reseller_id = ?`, filter.ResellerID)
	}
	if !filter.From.IsZero() {
		and(`cut_date >= ?`, filter.From)
	}
	if !filter.To.IsZero() {
		and(`cut_date <= ?`, filter.To)
	}
	return query + where, args
}
