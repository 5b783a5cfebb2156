package service

import (
	"context"
	"strconv"
	"strings"

	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	tickettypedomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/pkg/db"
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
	Repo     tickettypedomain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     tickettypedomain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) tickettypedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("tickettype.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req tickettypedomain.CreateRequest) (*tickettypedomain.TicketType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, tickettypedomain.ErrInvalidName
	}
	hours, err := normalizeDuration(req.Duration, req.DurationUnit)
	if err != nil {
		return nil, err
	}
	if req.DefaultSalePrice < 0 || req.PurchasePrice < 0 {
		return nil, tickettypedomain.ErrInvalidPrice
	}

	existing, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, tickettypedomain.ErrNameTaken
	}

	now := s.clock.Now()
	entity := &tickettypedomain.TicketType{
		ID:               s.genID.Generate(),
		Name:             name,
		DurationHours:    hours,
		DefaultSalePrice: req.DefaultSalePrice,
		PurchasePrice:    req.PurchasePrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		// A concurrent create of the same name can slip past the
		// pre-check and lose on ux_ticket_types_name instead.
		if db.IsDuplicateKeyErr(err) {
			return nil, tickettypedomain.ErrNameTaken
		}
		return nil, err
	}

	s.audit(ctx, "ticket_type.create", entity.ID, map[string]any{
		"name":           entity.Name,
		"duration_hours": entity.DurationHours,
	})
	return entity, nil
}

func (s *Service) Update(ctx context.Context, id string, req tickettypedomain.UpdateRequest) (*tickettypedomain.TicketType, error) {
	typeID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.FindByID(ctx, s.db, typeID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, tickettypedomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, tickettypedomain.ErrInvalidName
		}
		other, err := s.repo.FindByName(ctx, s.db, name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != entity.ID {
			return nil, tickettypedomain.ErrNameTaken
		}
		entity.Name = name
	}
	if req.Duration != nil {
		unit := tickettypedomain.Hours
		if req.DurationUnit != nil {
			unit = *req.DurationUnit
		}
		hours, err := normalizeDuration(*req.Duration, unit)
		if err != nil {
			return nil, err
		}
		entity.DurationHours = hours
	}
	if req.DefaultSalePrice != nil {
		if *req.DefaultSalePrice < 0 {
			return nil, tickettypedomain.ErrInvalidPrice
		}
		entity.DefaultSalePrice = *req.DefaultSalePrice
	}
	if req.PurchasePrice != nil {
		if *req.PurchasePrice < 0 {
			return nil, tickettypedomain.ErrInvalidPrice
		}
		entity.PurchasePrice = *req.PurchasePrice
	}

	entity.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, tickettypedomain.ErrNameTaken
		}
		return nil, err
	}

	s.audit(ctx, "ticket_type.update", entity.ID, map[string]any{"name": entity.Name})
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string, cascade bool) error {
	typeID, err := parseID(id)
	if err != nil {
		return err
	}
	entity, err := s.repo.FindByID(ctx, s.db, typeID)
	if err != nil {
		return err
	}
	if entity == nil {
		return tickettypedomain.ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs, err := s.repo.CountReferences(ctx, tx, typeID)
		if err != nil {
			return err
		}
		// Committed cash-cut lines are immutable history and pin the type
		// regardless of the cascade flag.
		if refs.CashCutLines > 0 {
			return tickettypedomain.ErrHasHistory
		}
		if !cascade && (refs.InventoryRecords > 0 || refs.PriceOverrides > 0) {
			return tickettypedomain.ErrInUse
		}
		if err := s.repo.DeleteDependents(ctx, tx, typeID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, typeID); err != nil {
			return err
		}
		s.audit(ctx, "ticket_type.delete", typeID, map[string]any{
			"name":    entity.Name,
			"cascade": cascade,
		})
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id string) (*tickettypedomain.TicketType, error) {
	typeID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.FindByID(ctx, s.db, typeID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, tickettypedomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context) ([]tickettypedomain.TicketType, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) audit(ctx context.Context, action string, targetID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	target := targetID.String()
	if err := s.auditSvc.AuditLog(ctx, action, "ticket_type", &target, metadata); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

// maxDurationHours caps normalized durations at one year. Fichas are
// short-lived access windows; anything longer is an input mistake, and the
// cap keeps the int64 product safely inside int32.
const maxDurationHours = int64(24 * 366)

func normalizeDuration(value int32, unit tickettypedomain.DurationUnit) (int32, error) {
	if value <= 0 {
		return 0, tickettypedomain.ErrInvalidDuration
	}
	multiplier := tickettypedomain.HoursPer(unit)
	if multiplier == 0 {
		return 0, tickettypedomain.ErrInvalidDuration
	}
	hours := int64(value) * int64(multiplier)
	if hours > maxDurationHours {
		return 0, tickettypedomain.ErrInvalidDuration
	}
	return int32(hours), nil
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, tickettypedomain.ErrInvalidID
	}
	return snowflake.ParseInt64(parsed), nil
}
