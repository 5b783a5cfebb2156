package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TicketType, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*TicketType, error)
	// Delete removes a ticket type. With cascade it also removes dependent
	// inventory records, price overrides and stock rows; without it any
	// reference is a conflict.
	Delete(ctx context.Context, id string, cascade bool) error
	Get(ctx context.Context, id string) (*TicketType, error)
	List(ctx context.Context) ([]TicketType, error)
}

type CreateRequest struct {
	Name             string       `json:"name"`
	Duration         int32        `json:"duration"`
	DurationUnit     DurationUnit `json:"duration_unit"`
	DefaultSalePrice int64        `json:"default_sale_price_cents"`
	PurchasePrice    int64        `json:"purchase_price_cents"`
}

type UpdateRequest struct {
	Name             *string       `json:"name"`
	Duration         *int32        `json:"duration"`
	DurationUnit     *DurationUnit `json:"duration_unit"`
	DefaultSalePrice *int64        `json:"default_sale_price_cents"`
	PurchasePrice    *int64        `json:"purchase_price_cents"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNameTaken       = errors.New("ticket_type_name_taken")
	ErrInUse           = errors.New("ticket_type_in_use")
	ErrHasHistory      = errors.New("ticket_type_has_history")
	ErrNotFound        = errors.New("not_found")
)
