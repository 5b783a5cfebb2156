package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/actorcontext"
	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/observability/metrics"
	stockdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/domain"
	tickettypedomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Clock          clock.Clock
	Ops            *config.OpsConfigHolder
	Repo           stockdomain.Repository
	TicketTypeRepo tickettypedomain.Repository
	AuditSvc       auditdomain.Service    `optional:"true"`
	Metrics        *metrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	clock          clock.Clock
	ops            *config.OpsConfigHolder
	repo           stockdomain.Repository
	ticketTypeRepo tickettypedomain.Repository
	auditSvc       auditdomain.Service
	metrics        *metrics.LedgerMetrics
}

func New(p Params) stockdomain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("stock.service"),
		genID:          p.GenID,
		clock:          p.Clock,
		ops:            p.Ops,
		repo:           p.Repo,
		ticketTypeRepo: p.TicketTypeRepo,
		auditSvc:       p.AuditSvc,
		metrics:        p.Metrics,
	}
}

func (s *Service) Replenish(ctx context.Context, req stockdomain.ReplenishRequest) (*stockdomain.GlobalStockEntry, error) {
	if req.Quantity <= 0 {
		return nil, stockdomain.ErrInvalidQuantity
	}
	if s.ops != nil && req.Quantity > s.ops.Get().MaxReplenishQuantity {
		return nil, stockdomain.ErrQuantityTooLarge
	}
	typeID, err := parseID(req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	ticketType, err := s.ticketTypeRepo.FindByID(ctx, s.db, typeID)
	if err != nil {
		return nil, err
	}
	if ticketType == nil {
		return nil, stockdomain.ErrInvalidTicketType
	}

	now := s.clock.Now()
	var updated *stockdomain.GlobalStockEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.repo.FindEntryForUpdate(ctx, tx, typeID)
		if err != nil {
			return err
		}
		if entry == nil {
			entry = &stockdomain.GlobalStockEntry{TicketTypeID: typeID}
		}
		entry.QuantityAvailable += req.Quantity
		entry.BasePrice = ticketType.PurchasePrice
		entry.UpdatedAt = now
		if err := s.repo.UpsertEntry(ctx, tx, entry); err != nil {
			return err
		}

		actorType, actorID := actorcontext.ActorFromContext(ctx)
		if err := s.repo.InsertReplenishment(ctx, tx, &stockdomain.StockReplenishment{
			ID:           s.genID.Generate(),
			TicketTypeID: typeID,
			Quantity:     req.Quantity,
			SupplierNote: strings.TrimSpace(req.SupplierNote),
			ActorType:    actorType,
			ActorID:      actorID,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordReplenishment()
	s.audit(ctx, "stock.replenish", typeID, map[string]any{
		"quantity":      req.Quantity,
		"supplier_note": strings.TrimSpace(req.SupplierNote),
	})
	return updated, nil
}

func (s *Service) List(ctx context.Context) ([]stockdomain.GlobalStockEntry, error) {
	return s.repo.ListEntries(ctx, s.db)
}

func (s *Service) ListReplenishments(ctx context.Context, ticketTypeID string) ([]stockdomain.StockReplenishment, error) {
	var typeID snowflake.ID
	if strings.TrimSpace(ticketTypeID) != "" {
		parsed, err := parseID(ticketTypeID)
		if err != nil {
			return nil, err
		}
		typeID = parsed
	}
	return s.repo.ListReplenishments(ctx, s.db, typeID)
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

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, stockdomain.ErrInvalidTicketType
	}
	return snowflake.ParseInt64(parsed), nil
}
