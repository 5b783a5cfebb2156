package domain

import (
	"context"
	"errors"
)

type Service interface {
	// EffectivePrice resolves the unit price one reseller pays out per
	// sold ticket of the given type.
	EffectivePrice(ctx context.Context, resellerID, ticketTypeID string) (*ResolvedPrice, error)
	// PriceList resolves the effective price for every catalog entry.
	PriceList(ctx context.Context, resellerID string) ([]ResolvedPrice, error)
	SetOverride(ctx context.Context, req SetOverrideRequest) (*PriceOverride, error)
	ClearOverride(ctx context.Context, resellerID, ticketTypeID string) error
	ListOverrides(ctx context.Context, resellerID string) ([]PriceOverride, error)

	// EffectiveCommissionBps resolves the owner share for one reseller.
	EffectiveCommissionBps(ctx context.Context, resellerID string) (int32, error)
	GetCommission(ctx context.Context) (*CommissionConfig, error)
	UpdateCommission(ctx context.Context, req UpdateCommissionRequest) (*CommissionConfig, error)
}

type SetOverrideRequest struct {
	ResellerID   string `json:"reseller_id"`
	TicketTypeID string `json:"ticket_type_id"`
	Price        int64  `json:"price"`
}

type UpdateCommissionRequest struct {
	OwnerPercentBps int32 `json:"owner_percent_bps"`
	// ExpectedVersion, when set, rejects the update if another writer
	// bumped the config first.
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

var (
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidPercent  = errors.New("invalid_percent")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrVersionConflict = errors.New("version_conflict")
)
