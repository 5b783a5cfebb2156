package server

import (
	"net/http"
	"strings"

	deliverydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/delivery/domain"
	stockdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/domain"
	"github.com/gin-gonic/gin"
)

type replenishStockRequest struct {
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int64  `json:"quantity"`
	SupplierNote string `json:"supplier_note"`
}

type createDeliveryRequest struct {
	ResellerID   string `json:"reseller_id"`
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int64  `json:"quantity"`
	Note         string `json:"note"`
}

func (s *Server) ListStock(c *gin.Context) {
	resp, err := s.stockSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReplenishStock(c *gin.Context) {
	var req replenishStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.stockSvc.Replenish(c.Request.Context(), stockdomain.ReplenishRequest{
		TicketTypeID: strings.TrimSpace(req.TicketTypeID),
		Quantity:     req.Quantity,
		SupplierNote: req.SupplierNote,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReplenishments(c *gin.Context) {
	resp, err := s.stockSvc.ListReplenishments(c.Request.Context(), c.Query("ticket_type_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateDelivery(c *gin.Context) {
	var req createDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.deliverySvc.Deliver(c.Request.Context(), deliverydomain.DeliverRequest{
		ResellerID:   strings.TrimSpace(req.ResellerID),
		TicketTypeID: strings.TrimSpace(req.TicketTypeID),
		Quantity:     req.Quantity,
		Note:         req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
