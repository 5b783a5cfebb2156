package server

import (
	"context"
	"net/http"
	"time"

	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit"
	auditdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/audit/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut"
	cashcutdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/config"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/delivery"
	deliverydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/delivery/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/events"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory"
	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/locking"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/observability"
	obslogger "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/observability/logger"
	obsmetrics "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/observability/metrics"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing"
	pricingdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller"
	resellerdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock"
	stockdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/domain"
	"github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype"
	tickettypedomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	events.Module,
	locking.Module,
	tickettype.Module,
	reseller.Module,
	stock.Module,
	inventory.Module,
	delivery.Module,
	pricing.Module,
	cashcut.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ActorMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	ticketTypeSvc tickettypedomain.Service
	resellerSvc   resellerdomain.Service
	stockSvc      stockdomain.Service
	deliverySvc   deliverydomain.Service
	inventorySvc  inventorydomain.Service
	pricingSvc    pricingdomain.Service
	cashCutSvc    cashcutdomain.Service
	auditSvc      auditdomain.Service
	hub           *events.Hub
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	TicketTypeSvc tickettypedomain.Service
	ResellerSvc   resellerdomain.Service
	StockSvc      stockdomain.Service
	DeliverySvc   deliverydomain.Service
	InventorySvc  inventorydomain.Service
	PricingSvc    pricingdomain.Service
	CashCutSvc    cashcutdomain.Service
	AuditSvc      auditdomain.Service
	Hub           *events.Hub `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		ticketTypeSvc: p.TicketTypeSvc,
		resellerSvc:   p.ResellerSvc,
		stockSvc:      p.StockSvc,
		deliverySvc:   p.DeliverySvc,
		inventorySvc:  p.InventorySvc,
		pricingSvc:    p.PricingSvc,
		cashCutSvc:    p.CashCutSvc,
		auditSvc:      p.AuditSvc,
		hub:           p.Hub,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Ticket types --------
	api.GET("/ticket-types", s.ListTicketTypes)
	api.POST("/ticket-types", s.CreateTicketType)
	api.GET("/ticket-types/:id", s.GetTicketTypeByID)
	api.PATCH("/ticket-types/:id", s.UpdateTicketType)
	api.DELETE("/ticket-types/:id", s.DeleteTicketType)

	// -------- Resellers --------
	api.GET("/resellers", s.ListResellers)
	api.POST("/resellers", s.CreateReseller)
	api.GET("/resellers/:id", s.GetResellerByID)
	api.PATCH("/resellers/:id", s.UpdateReseller)
	api.DELETE("/resellers/:id", s.DeleteReseller)
	api.PUT("/resellers/:id/commission", s.SetResellerCommission)
	api.GET("/resellers/:id/prices", s.ListResellerPrices)
	api.GET("/resellers/:id/price-overrides", s.ListPriceOverrides)
	api.PUT("/resellers/:id/price-overrides/:typeId", s.SetPriceOverride)
	api.DELETE("/resellers/:id/price-overrides/:typeId", s.ClearPriceOverride)
	api.GET("/resellers/:id/inventory", s.ListResellerInventory)

	// -------- Global stock --------
	api.GET("/stock", s.ListStock)
	api.POST("/stock/replenish", s.ReplenishStock)
	api.GET("/stock/replenishments", s.ListReplenishments)

	// -------- Deliveries --------
	api.POST("/deliveries", s.CreateDelivery)

	// -------- Inventory corrections --------
	api.POST("/inventory/adjust", s.AdjustInventory)
	api.PUT("/inventory/sold", s.SetInventorySold)

	// -------- Cash cuts --------
	api.POST("/cash-cuts/prepare", s.PrepareCashCut)
	api.POST("/cash-cuts", s.CommitCashCut)
	api.GET("/cash-cuts", s.ListCashCuts)
	api.GET("/cash-cuts/totals", s.CashCutTotals)
	api.GET("/cash-cuts/:id", s.GetCashCutByID)

	// -------- Commission config --------
	api.GET("/config/commission", s.GetCommission)
	api.PUT("/config/commission", s.UpdateCommission)

	// -------- Events / audit --------
	api.GET("/events/feed", s.StreamEvents)
	api.GET("/audit-logs", s.ListAuditLogs)
}
