package service

import (
	"context"
	"strconv"
	"strings"

	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	resellerdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     resellerdomain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     resellerdomain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) resellerdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("reseller.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req resellerdomain.CreateRequest) (*resellerdomain.Reseller, error) {
	businessName := strings.TrimSpace(req.BusinessName)
	if businessName == "" {
		return nil, resellerdomain.ErrInvalidBusinessName
	}
	override, err := normalizeOverride(req.CommissionOverrideBps)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entity := &resellerdomain.Reseller{
		ID:                    s.genID.Generate(),
		BusinessName:          businessName,
		ResponsibleName:       strings.TrimSpace(req.ResponsibleName),
		Phone:                 strings.TrimSpace(req.Phone),
		Address:               strings.TrimSpace(req.Address),
		Active:                true,
		CommissionOverrideBps: override,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		return nil, err
	}

	s.audit(ctx, "reseller.create", entity.ID, map[string]any{"business_name": entity.BusinessName})
	return entity, nil
}

func (s *Service) Update(ctx context.Context, id string, req resellerdomain.UpdateRequest) (*resellerdomain.Reseller, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BusinessName != nil {
		businessName := strings.TrimSpace(*req.BusinessName)
		if businessName == "" {
			return nil, resellerdomain.ErrInvalidBusinessName
		}
		entity.BusinessName = businessName
	}
	if req.ResponsibleName != nil {
		entity.ResponsibleName = strings.TrimSpace(*req.ResponsibleName)
	}
	if req.Phone != nil {
		entity.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		entity.Address = strings.TrimSpace(*req.Address)
	}
	if req.Active != nil {
		entity.Active = *req.Active
	}

	entity.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, entity); err != nil {
		return nil, err
	}

	s.audit(ctx, "reseller.update", entity.ID, map[string]any{"active": entity.Active})
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string, hard bool) error {
	entity, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !hard {
		entity.Active = false
		entity.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, s.db, entity); err != nil {
			return err
		}
		s.audit(ctx, "reseller.deactivate", entity.ID, nil)
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteDependents(ctx, tx, entity.ID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, entity.ID); err != nil {
			return err
		}
		s.audit(ctx, "reseller.delete", entity.ID, map[string]any{"business_name": entity.BusinessName})
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id string) (*resellerdomain.Reseller, error) {
	return s.load(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]resellerdomain.Reseller, error) {
	return s.repo.List(ctx, s.db, activeOnly)
}

func (s *Service) SetCommissionOverride(ctx context.Context, id string, bps *int32) (*resellerdomain.Reseller, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	override, err := normalizeOverride(bps)
	if err != nil {
		return nil, err
	}

	entity.CommissionOverrideBps = override
	entity.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, entity); err != nil {
		return nil, err
	}

	metadata := map[string]any{}
	if override != nil {
		metadata["commission_override_bps"] = *override
	} else {
		metadata["commission_override_bps"] = nil
	}
	s.audit(ctx, "reseller.commission_override", entity.ID, metadata)
	return entity, nil
}

func (s *Service) load(ctx context.Context, id string) (*resellerdomain.Reseller, error) {
	resellerID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.FindByID(ctx, s.db, resellerID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, resellerdomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) audit(ctx context.Context, action string, targetID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	target := targetID.String()
	if err := s.auditSvc.AuditLog(ctx, action, "reseller", &target, metadata); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

// normalizeOverride maps 0 to nil so "no override" has one representation.
func normalizeOverride(bps *int32) (*int32, error) {
	if bps == nil || *bps == 0 {
		return nil, nil
	}
	if *bps < 0 || *bps > 10000 {
		return nil, resellerdomain.ErrInvalidCommission
	}
	value := *bps
	return &value, nil
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, resellerdomain.ErrInvalidID
	}
	return snowflake.ParseInt64(parsed), nil
}
