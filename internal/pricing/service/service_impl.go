package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cache"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/events"
	pricingdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/domain"
	resellerdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/domain"
	tickettypedomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	commissionCacheKey = "global"
	commissionCacheTTL = 30 * time.Second
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Clock          clock.Clock
	Repo           pricingdomain.Repository
	ResellerRepo   resellerdomain.Repository
	TicketTypeRepo tickettypedomain.Repository
	Hub            *events.Hub            `optional:"true"`
	AuditSvc       auditdomain.Service    `optional:"true"`
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	clock           clock.Clock
	repo            pricingdomain.Repository
	resellerRepo    resellerdomain.Repository
	ticketTypeRepo  tickettypedomain.Repository
	hub             *events.Hub
	auditSvc        auditdomain.Service
	commissionCache cache.Cache[string, *pricingdomain.CommissionConfig]
}

func New(p Params) pricingdomain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("pricing.service"),
		clock:           p.Clock,
		repo:            p.Repo,
		resellerRepo:    p.ResellerRepo,
		ticketTypeRepo:  p.TicketTypeRepo,
		hub:             p.Hub,
		auditSvc:        p.AuditSvc,
		commissionCache: cache.NewTTLCache[string, *pricingdomain.CommissionConfig](),
	}
}

func (s *Service) EffectivePrice(ctx context.Context, resellerID, ticketTypeID string) (*pricingdomain.ResolvedPrice, error) {
	rid, err := parseID(resellerID)
	if err != nil {
		return nil, err
	}
	tid, err := parseID(ticketTypeID)
	if err != nil {
		return nil, err
	}

	ticketType, err := s.ticketTypeRepo.FindByID(ctx, s.db, tid)
	if err != nil {
		return nil, err
	}
	if ticketType == nil {
		return nil, pricingdomain.ErrNotFound
	}
	override, err := s.repo.FindOverride(ctx, s.db, rid, tid)
	if err != nil {
		return nil, err
	}

	price, source := pricingdomain.EffectiveSalePrice(override, ticketType.DefaultSalePrice)
	return &pricingdomain.ResolvedPrice{
		TicketTypeID:   tid,
		TicketTypeName: ticketType.Name,
		UnitPrice:      price,
		Source:         source,
	}, nil
}

func (s *Service) PriceList(ctx context.Context, resellerID string) ([]pricingdomain.ResolvedPrice, error) {
	rid, err := parseID(resellerID)
	if err != nil {
		return nil, err
	}

	types, err := s.ticketTypeRepo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	overrides, err := s.repo.ListOverrides(ctx, s.db, rid)
	if err != nil {
		return nil, err
	}
	byType := make(map[snowflake.ID]*pricingdomain.PriceOverride, len(overrides))
	for i := range overrides {
		byType[overrides[i].TicketTypeID] = &overrides[i]
	}

	resolved := make([]pricingdomain.ResolvedPrice, 0, len(types))
	for _, t := range types {
		price, source := pricingdomain.EffectiveSalePrice(byType[t.ID], t.DefaultSalePrice)
		resolved = append(resolved, pricingdomain.ResolvedPrice{
			TicketTypeID:   t.ID,
			TicketTypeName: t.Name,
			UnitPrice:      price,
			Source:         source,
		})
	}
	return resolved, nil
}

func (s *Service) SetOverride(ctx context.Context, req pricingdomain.SetOverrideRequest) (*pricingdomain.PriceOverride, error) {
	if req.Price <= 0 {
		return nil, pricingdomain.ErrInvalidPrice
	}
	rid, err := parseID(req.ResellerID)
	if err != nil {
		return nil, err
	}
	tid, err := parseID(req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	reseller, err := s.resellerRepo.FindByID(ctx, s.db, rid)
	if err != nil {
		return nil, err
	}
	if reseller == nil {
		return nil, pricingdomain.ErrNotFound
	}
	ticketType, err := s.ticketTypeRepo.FindByID(ctx, s.db, tid)
	if err != nil {
		return nil, err
	}
	if ticketType == nil {
		return nil, pricingdomain.ErrNotFound
	}

	override := &pricingdomain.PriceOverride{
		ResellerID:   rid,
		TicketTypeID: tid,
		Price:        req.Price,
		UpdatedAt:    s.clock.Now(),
	}
	if err := s.repo.UpsertOverride(ctx, s.db, override); err != nil {
		return nil, err
	}

	s.audit(ctx, "pricing.override.set", "reseller", rid, map[string]any{
		"ticket_type_id": tid.String(),
		"price":          req.Price,
	})
	return override, nil
}

func (s *Service) ClearOverride(ctx context.Context, resellerID, ticketTypeID string) error {
	rid, err := parseID(resellerID)
	if err != nil {
		return err
	}
	tid, err := parseID(ticketTypeID)
	if err != nil {
		return err
	}

	removed, err := s.repo.DeleteOverride(ctx, s.db, rid, tid)
	if err != nil {
		return err
	}
	if !removed {
		return pricingdomain.ErrNotFound
	}

	s.audit(ctx, "pricing.override.clear", "reseller", rid, map[string]any{
		"ticket_type_id": tid.String(),
	})
	return nil
}

func (s *Service) ListOverrides(ctx context.Context, resellerID string) ([]pricingdomain.PriceOverride, error) {
	rid, err := parseID(resellerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOverrides(ctx, s.db, rid)
}

func (s *Service) EffectiveCommissionBps(ctx context.Context, resellerID string) (int32, error) {
	rid, err := parseID(resellerID)
	if err != nil {
		return 0, err
	}
	reseller, err := s.resellerRepo.FindByID(ctx, s.db, rid)
	if err != nil {
		return 0, err
	}
	if reseller == nil {
		return 0, pricingdomain.ErrNotFound
	}

	global, err := s.cachedCommission(ctx)
	if err != nil {
		return 0, err
	}
	return pricingdomain.EffectiveCommissionBps(reseller.CommissionOverrideBps, global), nil
}

func (s *Service) GetCommission(ctx context.Context) (*pricingdomain.CommissionConfig, error) {
	cfg, err := s.repo.GetCommissionConfig(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, pricingdomain.ErrNotFound
	}
	return cfg, nil
}

func (s *Service) UpdateCommission(ctx context.Context, req pricingdomain.UpdateCommissionRequest) (*pricingdomain.CommissionConfig, error) {
	if req.OwnerPercentBps < 0 || req.OwnerPercentBps > pricingdomain.MaxBps {
		return nil, pricingdomain.ErrInvalidPercent
	}

	now := s.clock.Now()
	var updated *pricingdomain.CommissionConfig
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cfg, err := s.repo.GetCommissionConfigForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if cfg == nil {
			cfg = &pricingdomain.CommissionConfig{ID: 1}
		}
		if req.ExpectedVersion != nil && cfg.Version != *req.ExpectedVersion {
			return pricingdomain.ErrVersionConflict
		}
		cfg.OwnerPercentBps = req.OwnerPercentBps
		cfg.Version++
		cfg.UpdatedAt = now
		if err := s.repo.SaveCommissionConfig(ctx, tx, cfg); err != nil {
			return err
		}
		updated = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.commissionCache.Delete(commissionCacheKey)
	s.hub.Publish(events.Event{
		Topic: events.TopicCommissionUpdated,
		Payload: map[string]any{
			"owner_percent_bps": updated.OwnerPercentBps,
			"version":           updated.Version,
		},
		OccurredAt: now,
	})
	s.audit(ctx, "pricing.commission.update", "commission_config", snowflake.ID(1), map[string]any{
		"owner_percent_bps": updated.OwnerPercentBps,
		"version":           updated.Version,
	})
	return updated, nil
}

// cachedCommission reads the global config through a short TTL cache. A
// missing row is not cached so the seeded default keeps winning until an
// explicit update lands.
func (s *Service) cachedCommission(ctx context.Context) (*pricingdomain.CommissionConfig, error) {
	if cfg, ok := s.commissionCache.Get(commissionCacheKey); ok {
		return cfg, nil
	}
	cfg, err := s.repo.GetCommissionConfig(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		s.commissionCache.Set(commissionCacheKey, cfg, commissionCacheTTL)
	}
	return cfg, nil
}

func (s *Service) audit(ctx context.Context, action, targetType string, targetID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	target := targetID.String()
	if err := s.auditSvc.AuditLog(ctx, action, targetType, &target, metadata); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, pricingdomain.ErrInvalidID
	}
	return snowflake.ParseInt64(parsed), nil
}
