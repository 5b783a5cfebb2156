package domain

import (
	"context"
	"errors"
	"fmt"
)

type Service interface {
	// Adjust applies a signed delta to one counter, for bookkeeping
	// corrections. It bypasses pricing entirely.
	Adjust(ctx context.Context, req AdjustRequest) (*InventoryRecord, error)
	// SetSoldAbsolute overwrites the cumulative sold counter.
	SetSoldAbsolute(ctx context.Context, req SetSoldRequest) (*InventoryRecord, error)
	ListByReseller(ctx context.Context, resellerID string) ([]InventoryRecord, error)
	Get(ctx context.Context, resellerID, ticketTypeID string) (*InventoryRecord, error)
}

type AdjustRequest struct {
	ResellerID   string      `json:"reseller_id"`
	TicketTypeID string      `json:"ticket_type_id"`
	Field        AdjustField `json:"field"`
	Delta        int64       `json:"delta"`
}

type SetSoldRequest struct {
	ResellerID   string `json:"reseller_id"`
	TicketTypeID string `json:"ticket_type_id"`
	SoldCount    int64  `json:"sold_count"`
}

var (
	ErrInvalidField       = errors.New("invalid_field")
	ErrInvalidDelta       = errors.New("invalid_delta")
	ErrDeltaTooLarge      = errors.New("delta_too_large")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvariantViolation = errors.New("invariant_violation")
	ErrNotFound           = errors.New("not_found")
)

// SoldRangeError rejects an absolute sold value outside the valid range.
type SoldRangeError struct {
	Requested int64
	Max       int64
}

func (e *SoldRangeError) Error() string {
	return fmt.Sprintf("sold_count %d out of range [0, %d]", e.Requested, e.Max)
}
