package service

import (
	"context"
	"strconv"
	"strings"

	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/observability/metrics"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Ops      *config.OpsConfigHolder
	Repo     inventorydomain.Repository
	AuditSvc auditdomain.Service    `optional:"true"`
	Metrics  *metrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	ops      *config.OpsConfigHolder
	repo     inventorydomain.Repository
	auditSvc auditdomain.Service
	metrics  *metrics.LedgerMetrics
}

func New(p Params) inventorydomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("inventory.service"),
		clock:    p.Clock,
		ops:      p.Ops,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Adjust(ctx context.Context, req inventorydomain.AdjustRequest) (*inventorydomain.InventoryRecord, error) {
	if req.Field != inventorydomain.FieldDelivered && req.Field != inventorydomain.FieldSold {
		return nil, inventorydomain.ErrInvalidField
	}
	if req.Delta == 0 {
		return nil, inventorydomain.ErrInvalidDelta
	}
	if s.ops != nil {
		max := s.ops.Get().MaxAdjustDelta
		if req.Delta > max || req.Delta < -max {
			return nil, inventorydomain.ErrDeltaTooLarge
		}
	}
	resellerID, typeID, err := parseIDs(req.ResellerID, req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var updated *inventorydomain.InventoryRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindForUpdate(ctx, tx, resellerID, typeID)
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

		delivered := record.DeliveredCount
		sold := record.SoldCount
		switch req.Field {
		case inventorydomain.FieldDelivered:
			delivered += req.Delta
		case inventorydomain.FieldSold:
			sold += req.Delta
		}
		if !inventorydomain.CheckInvariant(delivered, sold) {
			return inventorydomain.ErrInvariantViolation
		}

		record.DeliveredCount = delivered
		record.SoldCount = sold
		record.Recompute()
		record.UpdatedAt = now
		if err := s.repo.Upsert(ctx, tx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAdjustment(string(req.Field))
	s.audit(ctx, "inventory.adjust", resellerID, map[string]any{
		"ticket_type_id": typeID.String(),
		"field":          string(req.Field),
		"delta":          req.Delta,
	})
	return updated, nil
}

func (s *Service) SetSoldAbsolute(ctx context.Context, req inventorydomain.SetSoldRequest) (*inventorydomain.InventoryRecord, error) {
	resellerID, typeID, err := parseIDs(req.ResellerID, req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var updated *inventorydomain.InventoryRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindForUpdate(ctx, tx, resellerID, typeID)
		if err != nil {
			return err
		}
		if record == nil {
			return inventorydomain.ErrNotFound
		}
		if req.SoldCount < 0 || req.SoldCount > record.DeliveredCount {
			return &inventorydomain.SoldRangeError{Requested: req.SoldCount, Max: record.DeliveredCount}
		}

		record.SoldCount = req.SoldCount
		record.Recompute()
		record.UpdatedAt = now
		if err := s.repo.Upsert(ctx, tx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAdjustment("sold_absolute")
	s.audit(ctx, "inventory.set_sold", resellerID, map[string]any{
		"ticket_type_id": typeID.String(),
		"sold_count":     req.SoldCount,
	})
	return updated, nil
}

func (s *Service) ListByReseller(ctx context.Context, resellerID string) ([]inventorydomain.InventoryRecord, error) {
	id, err := parseID(resellerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByReseller(ctx, s.db, id)
}

func (s *Service) Get(ctx context.Context, resellerID, ticketTypeID string) (*inventorydomain.InventoryRecord, error) {
	rid, tid, err := parseIDs(resellerID, ticketTypeID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Find(ctx, s.db, rid, tid)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, inventorydomain.ErrNotFound
	}
	return record, nil
}

func (s *Service) audit(ctx context.Context, action string, resellerID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	target := resellerID.String()
	if err := s.auditSvc.AuditLog(ctx, action, "reseller", &target, metadata); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func parseIDs(resellerID, ticketTypeID string) (snowflake.ID, snowflake.ID, error) {
	rid, err := parseID(resellerID)
	if err != nil {
		return 0, 0, err
	}
	tid, err := parseID(ticketTypeID)
	if err != nil {
		return 0, 0, err
	}
	return rid, tid, nil
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, inventorydomain.ErrInvalidID
	}
	return snowflake.ParseInt64(parsed), nil
}
