package service

import (
	"context"
	"strconv"
	"strings"

	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	deliverydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/delivery/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/events"
	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/observability/metrics"
	resellerdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/domain"
	stockdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	StockRepo     stockdomain.Repository
	InventoryRepo inventorydomain.Repository
	ResellerRepo  resellerdomain.Repository
	Hub           *events.Hub            `optional:"true"`
	AuditSvc      auditdomain.Service    `optional:"true"`
	Metrics       *metrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	clock         clock.Clock
	stockRepo     stockdomain.Repository
	inventoryRepo inventorydomain.Repository
	resellerRepo  resellerdomain.Repository
	hub           *events.Hub
	auditSvc      auditdomain.Service
	metrics       *metrics.LedgerMetrics
}

func New(p Params) deliverydomain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("delivery.service"),
		clock:         p.Clock,
		stockRepo:     p.StockRepo,
		inventoryRepo: p.InventoryRepo,
		resellerRepo:  p.ResellerRepo,
		hub:           p.Hub,
		auditSvc:      p.AuditSvc,
		metrics:       p.Metrics,
	}
}

func (s *Service) Deliver(ctx context.Context, req deliverydomain.DeliverRequest) (*deliverydomain.DeliverResult, error) {
	if req.Quantity <= 0 {
		return nil, deliverydomain.ErrInvalidQuantity
	}
	resellerID, err := parseID(req.ResellerID)
	if err != nil {
		return nil, err
	}
	typeID, err := parseID(req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	reseller, err := s.resellerRepo.FindByID(ctx, s.db, resellerID)
	if err != nil {
		return nil, err
	}
	if reseller == nil {
		return nil, deliverydomain.ErrUnknownReseller
	}
	if !reseller.Active {
		return nil, deliverydomain.ErrResellerInactive
	}

	now := s.clock.Now()
	var result *deliverydomain.DeliverResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.stockRepo.FindEntryForUpdate(ctx, tx, typeID)
		if err != nil {
			return err
		}
		available := int64(0)
		if entry != nil {
			available = entry.QuantityAvailable
		}
		if available < req.Quantity {
			return &deliverydomain.InsufficientStockError{
				Requested: req.Quantity,
				Available: available,
			}
		}
		entry.QuantityAvailable -= req.Quantity
		entry.UpdatedAt = now
		if err := s.stockRepo.UpsertEntry(ctx, tx, entry); err != nil {
			return err
		}

		record, err := s.inventoryRepo.FindForUpdate(ctx, tx, resellerID, typeID)
		if err != nil {
			return err
		}
		if record == nil {
			record = &inventorydomain.InventoryRecord{
				ResellerID:   resellerID,
				TicketTypeID: typeID,
				CreatedAt:    now,
			}
		}
		record.DeliveredCount += req.Quantity
		record.Recompute()
		record.UpdatedAt = now
		if err := s.inventoryRepo.Upsert(ctx, tx, record); err != nil {
			return err
		}

		result = &deliverydomain.DeliverResult{
			ResellerID:     resellerID,
			TicketTypeID:   typeID,
			Quantity:       req.Quantity,
			StockRemaining: entry.QuantityAvailable,
			Record:         record,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDelivery()
	s.hub.Publish(events.Event{
		Topic:      events.TopicDeliveryCreated,
		ResellerID: resellerID.String(),
		Payload: map[string]any{
			"ticket_type_id":  typeID.String(),
			"quantity":        req.Quantity,
			"stock_remaining": result.StockRemaining,
			"note":            strings.TrimSpace(req.Note),
		},
		OccurredAt: now,
	})
	s.audit(ctx, resellerID, map[string]any{
		"ticket_type_id": typeID.String(),
		"quantity":       req.Quantity,
		"note":           strings.TrimSpace(req.Note),
	})
	return result, nil
}

func (s *Service) audit(ctx context.Context, resellerID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	target := resellerID.String()
	if err := s.auditSvc.AuditLog(ctx, "delivery.create", "reseller", &target, metadata); err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, deliverydomain.ErrInvalidID
	}
	return snowflake.ParseInt64(parsed), nil
}
