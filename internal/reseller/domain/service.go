package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reseller, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Reseller, error)
	// Delete deactivates by default; hard delete cascades ledger rows and
	// committed history for the reseller.
	Delete(ctx context.Context, id string, hard bool) error
	Get(ctx context.Context, id string) (*Reseller, error)
	List(ctx context.Context, activeOnly bool) ([]Reseller, error)
	SetCommissionOverride(ctx context.Context, id string, bps *int32) (*Reseller, error)
}

type CreateRequest struct {
	BusinessName          string `json:"business_name"`
	ResponsibleName       string `json:"responsible_name"`
	Phone                 string `json:"phone"`
	Address               string `json:"address"`
	CommissionOverrideBps *int32 `json:"commission_override_bps"`
}

type UpdateRequest struct {
	BusinessName    *string `json:"business_name"`
	ResponsibleName *string `json:"responsible_name"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Active          *bool   `json:"active"`
}

var (
	ErrInvalidBusinessName = errors.New("invalid_business_name")
	ErrInvalidCommission   = errors.New("invalid_commission")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
