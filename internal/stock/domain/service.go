package domain

import (
	"context"
	"errors"
)

type Service interface {
	Replenish(ctx context.Context, req ReplenishRequest) (*GlobalStockEntry, error)
	List(ctx context.Context) ([]GlobalStockEntry, error)
	ListReplenishments(ctx context.Context, ticketTypeID string) ([]StockReplenishment, error)
}

type ReplenishRequest struct {
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int64  `json:"quantity"`
	SupplierNote string `json:"supplier_note"`
}

var (
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrQuantityTooLarge  = errors.New("quantity_too_large")
	ErrInvalidTicketType = errors.New("invalid_ticket_type")
	ErrNotFound          = errors.New("not_found")
)
