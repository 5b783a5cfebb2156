package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/actorcontext"
	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	cashcutdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/clock"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/events"
	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/locking"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/observability/metrics"
	pricingdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/domain"
	resellerdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/domain"
	tickettypedomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const commitLockTTL = 30 * time.Second

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Clock          clock.Clock
	Ops            *config.OpsConfigHolder
	Repo           cashcutdomain.Repository
	InventoryRepo  inventorydomain.Repository
	PricingRepo    pricingdomain.Repository
	ResellerRepo   resellerdomain.Repository
	TicketTypeRepo tickettypedomain.Repository
	Locker         *locking.Locker        `optional:"true"`
	Hub            *events.Hub            `optional:"true"`
	AuditSvc       auditdomain.Service    `optional:"true"`
	Metrics        *metrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	clock          clock.Clock
	ops            *config.OpsConfigHolder
	repo           cashcutdomain.Repository
	inventoryRepo  inventorydomain.Repository
	pricingRepo    pricingdomain.Repository
	resellerRepo   resellerdomain.Repository
	ticketTypeRepo tickettypedomain.Repository
	locker         *locking.Locker
	hub            *events.Hub
	auditSvc       auditdomain.Service
	metrics        *metrics.LedgerMetrics
}

func New(p Params) cashcutdomain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("cashcut.service"),
		genID:          p.GenID,
		clock:          p.Clock,
		ops:            p.Ops,
		repo:           p.Repo,
		inventoryRepo:  p.InventoryRepo,
		pricingRepo:    p.PricingRepo,
		resellerRepo:   p.ResellerRepo,
		ticketTypeRepo: p.TicketTypeRepo,
		locker:         p.Locker,
		hub:            p.Hub,
		auditSvc:       p.AuditSvc,
		metrics:        p.Metrics,
	}
}

func (s *Service) Prepare(ctx context.Context, resellerID string) (*cashcutdomain.PreparedCut, error) {
	rid, err := parseID(resellerID)
	if err != nil {
		return nil, err
	}
	reseller, err := s.resellerRepo.FindByID(ctx, s.db, rid)
	if err != nil {
		return nil, err
	}
	if reseller == nil {
		return nil, cashcutdomain.ErrNotFound
	}

	records, err := s.inventoryRepo.ListByReseller(ctx, s.db, rid)
	if err != nil {
		return nil, err
	}
	global, err := s.pricingRepo.GetCommissionConfig(ctx, s.db)
	if err != nil {
		return nil, err
	}
	bps := pricingdomain.EffectiveCommissionBps(reseller.CommissionOverrideBps, global)

	lines := make([]cashcutdomain.PreparedLine, 0, len(records))
	for _, record := range records {
		if record.DeliveredCount == 0 && record.SoldCount == 0 {
			continue
		}
		ticketType, err := s.ticketTypeRepo.FindByID(ctx, s.db, record.TicketTypeID)
		if err != nil {
			return nil, err
		}
		if ticketType == nil {
			continue
		}
		override, err := s.pricingRepo.FindOverride(ctx, s.db, rid, record.TicketTypeID)
		if err != nil {
			return nil, err
		}
		price, source := pricingdomain.EffectiveSalePrice(override, ticketType.DefaultSalePrice)
		lines = append(lines, cashcutdomain.PreparedLine{
			TicketTypeID:   record.TicketTypeID,
			TicketTypeName: ticketType.Name,
			DeliveredCount: record.DeliveredCount,
			SoldCount:      record.SoldCount,
			StockActual:    record.StockActual,
			UnitPrice:      price,
			PriceSource:    source,
		})
	}

	return &cashcutdomain.PreparedCut{
		ResellerID:      rid,
		OwnerPercentBps: bps,
		Lines:           lines,
	}, nil
}

type commitLine struct {
	typeID  snowflake.ID
	soldNow int64
}

func (s *Service) Commit(ctx context.Context, req cashcutdomain.CommitRequest) (*cashcutdomain.CashCut, error) {
	cut, err := s.commit(ctx, req)
	if err != nil {
		s.metrics.RecordCutRejected(rejectionReason(err))
		return nil, err
	}
	s.metrics.RecordCutCommitted()
	return cut, nil
}

func (s *Service) commit(ctx context.Context, req cashcutdomain.CommitRequest) (*cashcutdomain.CashCut, error) {
	rid, err := parseID(req.ResellerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	cutDate := cashcutdomain.DateOf(now)
	if strings.TrimSpace(req.CutDate) != "" {
		cutDate, err = cashcutdomain.ParseDate(strings.TrimSpace(req.CutDate))
		if err != nil {
			return nil, err
		}
	}

	lines, err := s.normalizeLines(req.Lines)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		key := "fichas:cashcut:" + rid.String()
		token, ok, err := s.locker.TryLock(ctx, key, commitLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, cashcutdomain.ErrCommitBusy
		}
		defer func() {
			if err := s.locker.Release(ctx, key, token); err != nil {
				s.log.Warn("commit lock release failed", zap.Error(err))
			}
		}()
	}

	actorType, actorID := actorcontext.ActorFromContext(ctx)
	var committed *cashcutdomain.CashCut
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The reseller row is the commit mutex: two cuts for the same
		// reseller serialize here while other resellers proceed.
		exists, err := s.repo.LockReseller(ctx, tx, rid)
		if err != nil {
			return err
		}
		if !exists {
			return cashcutdomain.ErrNotFound
		}
		reseller, err := s.resellerRepo.FindByID(ctx, tx, rid)
		if err != nil {
			return err
		}
		if reseller == nil {
			return cashcutdomain.ErrNotFound
		}
		global, err := s.pricingRepo.GetCommissionConfig(ctx, tx)
		if err != nil {
			return err
		}
		bps := pricingdomain.EffectiveCommissionBps(reseller.CommissionOverrideBps, global)

		cut := &cashcutdomain.CashCut{
			ID:         s.genID.Generate(),
			ResellerID: rid,
			CutDate:    cutDate,
			ActorType:  actorType,
			ActorID:    actorID,
			CreatedAt:  now,
		}
		cutLines := make([]cashcutdomain.CashCutLine, 0, len(lines))
		for _, line := range lines {
			record, err := s.inventoryRepo.FindForUpdate(ctx, tx, rid, line.typeID)
			if err != nil {
				return err
			}
			stock := int64(0)
			if record != nil {
				stock = record.StockActual
			}
			if line.soldNow > stock {
				return &cashcutdomain.StaleInventoryError{
					TicketTypeID: line.typeID.String(),
					SoldNow:      line.soldNow,
					StockActual:  stock,
				}
			}

			ticketType, err := s.ticketTypeRepo.FindByID(ctx, tx, line.typeID)
			if err != nil {
				return err
			}
			if ticketType == nil {
				return cashcutdomain.ErrUnpriceableType
			}
			override, err := s.pricingRepo.FindOverride(ctx, tx, rid, line.typeID)
			if err != nil {
				return err
			}
			price, _ := pricingdomain.EffectiveSalePrice(override, ticketType.DefaultSalePrice)
			if price <= 0 {
				return cashcutdomain.ErrUnpriceableType
			}

			revenue := price * line.soldNow
			ownerShare, resellerShare := pricingdomain.SplitRevenue(revenue, bps)

			record.SoldCount += line.soldNow
			record.Recompute()
			record.UpdatedAt = now
			if err := s.inventoryRepo.Upsert(ctx, tx, record); err != nil {
				return err
			}

			cutLines = append(cutLines, cashcutdomain.CashCutLine{
				ID:            s.genID.Generate(),
				CashCutID:     cut.ID,
				TicketTypeID:  line.typeID,
				SoldNow:       line.soldNow,
				UnitPrice:     price,
				Revenue:       revenue,
				OwnerShare:    ownerShare,
				ResellerShare: resellerShare,
			})
			cut.TotalRevenue += revenue
			cut.TotalOwnerShare += ownerShare
			cut.TotalResellerShare += resellerShare
		}

		if err := s.repo.InsertCut(ctx, tx, cut); err != nil {
			return err
		}
		if err := s.repo.InsertLines(ctx, tx, cutLines); err != nil {
			return err
		}
		cut.Lines = cutLines
		committed = cut
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(events.Event{
		Topic:      events.TopicCashCutCommitted,
		ResellerID: rid.String(),
		Payload: map[string]any{
			"cash_cut_id":          committed.ID.String(),
			"cut_date":             committed.CutDate.String(),
			"total_revenue":        committed.TotalRevenue,
			"total_owner_share":    committed.TotalOwnerShare,
			"total_reseller_share": committed.TotalResellerShare,
			"line_count":           len(committed.Lines),
		},
		OccurredAt: now,
	})
	s.audit(ctx, committed)
	return committed, nil
}

// normalizeLines drops zero lines, rejects malformed ones, and orders the
// survivors by ticket type so row locks are always taken in the same order.
func (s *Service) normalizeLines(raw []cashcutdomain.CommitLine) ([]commitLine, error) {
	seen := make(map[snowflake.ID]bool, len(raw))
	lines := make([]commitLine, 0, len(raw))
	for _, line := range raw {
		if line.SoldNow < 0 {
			return nil, cashcutdomain.ErrLineOutOfRange
		}
		typeID, err := parseID(line.TicketTypeID)
		if err != nil {
			return nil, err
		}
		if seen[typeID] {
			return nil, cashcutdomain.ErrDuplicateLine
		}
		seen[typeID] = true
		if line.SoldNow == 0 {
			continue
		}
		lines = append(lines, commitLine{typeID: typeID, soldNow: line.SoldNow})
	}
	if len(lines) == 0 {
		return nil, cashcutdomain.ErrEmptyCut
	}
	if s.ops != nil && len(lines) > s.ops.Get().MaxCutLines {
		return nil, cashcutdomain.ErrTooManyLines
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].typeID < lines[j].typeID })
	return lines, nil
}

func (s *Service) List(ctx context.Context, filter cashcutdomain.HistoryFilter) ([]cashcutdomain.CashCut, error) {
	parsed, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.ListCuts(ctx, s.db, parsed)
}

func (s *Service) Get(ctx context.Context, id string) (*cashcutdomain.CashCut, error) {
	cutID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	cut, err := s.repo.FindCutByID(ctx, s.db, cutID)
	if err != nil {
		return nil, err
	}
	if cut == nil {
		return nil, cashcutdomain.ErrNotFound
	}
	lines, err := s.repo.ListLines(ctx, s.db, cutID)
	if err != nil {
		return nil, err
	}
	cut.Lines = lines
	return cut, nil
}

func (s *Service) Totals(ctx context.Context, filter cashcutdomain.HistoryFilter) (*cashcutdomain.CutTotals, error) {
	parsed, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.Totals(ctx, s.db, parsed)
}

func (s *Service) audit(ctx context.Context, cut *cashcutdomain.CashCut) {
	if s.auditSvc == nil {
		return
	}
	target := cut.ID.String()
	err := s.auditSvc.AuditLog(ctx, "cashcut.commit", "cash_cut", &target, map[string]any{
		"reseller_id":   cut.ResellerID.String(),
		"cut_date":      cut.CutDate.String(),
		"total_revenue": cut.TotalRevenue,
		"line_count":    len(cut.Lines),
	})
	if err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
}

func rejectionReason(err error) string {
	var stale *cashcutdomain.StaleInventoryError
	switch {
	case errors.Is(err, cashcutdomain.ErrEmptyCut):
		return "empty_cut"
	case errors.Is(err, cashcutdomain.ErrTooManyLines):
		return "too_many_lines"
	case errors.Is(err, cashcutdomain.ErrDuplicateLine):
		return "duplicate_line"
	case errors.Is(err, cashcutdomain.ErrLineOutOfRange):
		return "line_out_of_range"
	case errors.Is(err, cashcutdomain.ErrUnpriceableType):
		return "unpriceable_type"
	case errors.Is(err, cashcutdomain.ErrInvalidCutDate):
		return "invalid_cut_date"
	case errors.Is(err, cashcutdomain.ErrCommitBusy):
		return "commit_busy"
	case errors.Is(err, cashcutdomain.ErrNotFound):
		return "not_found"
	case errors.Is(err, cashcutdomain.ErrInvalidID):
		return "invalid_id"
	case errors.As(err, &stale):
		return "stale_inventory"
	default:
		return "internal"
	}
}

func parseFilter(filter cashcutdomain.HistoryFilter) (cashcutdomain.QueryFilter, error) {
	parsed := cashcutdomain.QueryFilter{Limit: filter.Limit}
	if strings.TrimSpace(filter.ResellerID) != "" {
		rid, err := parseID(filter.ResellerID)
		if err != nil {
			return parsed, err
		}
		parsed.ResellerID = rid
	}
	if strings.TrimSpace(filter.From) != "" {
		from, err := cashcutdomain.ParseDate(strings.TrimSpace(filter.From))
		if err != nil {
			return parsed, err
		}
		parsed.From = from
	}
	if strings.TrimSpace(filter.To) != "" {
		to, err := cashcutdomain.ParseDate(strings.TrimSpace(filter.To))
		if err != nil {
			return parsed, err
		}
		parsed.To = to
	}
	return parsed, nil
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, cashcutdomain.ErrInvalidID
	}
	return snowflake.ParseInt64(parsed), nil
}
