package domain

import (
	"context"
	"errors"
	"fmt"
)

type Service interface {
	// Prepare snapshots the reseller's inventory with effective prices so
	// the client can fill in sold_now per line.
	Prepare(ctx context.Context, resellerID string) (*PreparedCut, error)
	// Commit settles the cut atomically: either every line applies and
	// the cut is recorded, or nothing changes.
	Commit(ctx context.Context, req CommitRequest) (*CashCut, error)
	List(ctx context.Context, filter HistoryFilter) ([]CashCut, error)
	Get(ctx context.Context, id string) (*CashCut, error)
	Totals(ctx context.Context, filter HistoryFilter) (*CutTotals, error)
}

type CommitRequest struct {
	ResellerID string       `json:"reseller_id"`
	CutDate    string       `json:"cut_date"`
	Lines      []CommitLine `json:"lines"`
}

type CommitLine struct {
	TicketTypeID string `json:"ticket_type_id"`
	SoldNow      int64  `json:"sold_now"`
}

// HistoryFilter narrows cut listings. Dates are inclusive "YYYY-MM-DD"
// bounds; empty strings mean unbounded.
type HistoryFilter struct {
	ResellerID string
	From       string
	To         string
	Limit      int
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCutDate  = errors.New("invalid_cut_date")
	ErrNotFound        = errors.New("not_found")
	ErrEmptyCut        = errors.New("empty_cut")
	ErrTooManyLines    = errors.New("too_many_lines")
	ErrDuplicateLine   = errors.New("duplicate_line")
	ErrLineOutOfRange  = errors.New("line_out_of_range")
	ErrUnpriceableType = errors.New("unpriceable_type")
	ErrCommitBusy      = errors.New("commit_in_progress")
)

// StaleInventoryError means sold_now exceeds the stock the reseller holds
// right now: the ledger moved between prepare and commit.
type StaleInventoryError struct {
	TicketTypeID string
	SoldNow      int64
	StockActual  int64
}

func (e *StaleInventoryError) Error() string {
	return fmt.Sprintf("stale_inventory: ticket type %s sold_now %d exceeds stock %d",
		e.TicketTypeID, e.SoldNow, e.StockActual)
}
