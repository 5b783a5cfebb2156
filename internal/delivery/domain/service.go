package domain

import (
	"context"
	"errors"
	"fmt"

	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Deliver moves quantity tickets from the global pool to one
	// reseller's inventory, atomically.
	Deliver(ctx context.Context, req DeliverRequest) (*DeliverResult, error)
}

type DeliverRequest struct {
	ResellerID   string `json:"reseller_id"`
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int64  `json:"quantity"`
	Note         string `json:"note"`
}

type DeliverResult struct {
	ResellerID     snowflake.ID                    `json:"reseller_id"`
	TicketTypeID   snowflake.ID                    `json:"ticket_type_id"`
	Quantity       int64                           `json:"quantity"`
	StockRemaining int64                           `json:"stock_remaining"`
	Record         *inventorydomain.InventoryRecord `json:"record"`
}

var (
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidID        = errors.New("invalid_id")
	ErrUnknownReseller  = errors.New("unknown_reseller")
	ErrResellerInactive = errors.New("reseller_inactive")
)

// InsufficientStockError means the global pool cannot cover the request.
// The delivery is rejected whole; no partial quantity is applied.
type InsufficientStockError struct {
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient_stock: requested %d, available %d", e.Requested, e.Available)
}
