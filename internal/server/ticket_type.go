package server

import (
	"net/http"
	"strings"

	tickettypedomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/domain"
	"github.com/gin-gonic/gin"
)

type createTicketTypeRequest struct {
	Name             string `json:"name"`
	Duration         int32  `json:"duration"`
	DurationUnit     string `json:"duration_unit"`
	DefaultSalePrice int64  `json:"default_sale_price_cents"`
	PurchasePrice    int64  `json:"purchase_price_cents"`
}

type updateTicketTypeRequest struct {
	Name             *string `json:"name,omitempty"`
	Duration         *int32  `json:"duration,omitempty"`
	DurationUnit     *string `json:"duration_unit,omitempty"`
	DefaultSalePrice *int64  `json:"default_sale_price_cents,omitempty"`
	PurchasePrice    *int64  `json:"purchase_price_cents,omitempty"`
}

func (s *Server) CreateTicketType(c *gin.Context) {
	var req createTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketTypeSvc.Create(c.Request.Context(), tickettypedomain.CreateRequest{
		Name:             strings.TrimSpace(req.Name),
		Duration:         req.Duration,
		DurationUnit:     tickettypedomain.DurationUnit(strings.ToUpper(strings.TrimSpace(req.DurationUnit))),
		DefaultSalePrice: req.DefaultSalePrice,
		PurchasePrice:    req.PurchasePrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListTicketTypes(c *gin.Context) {
	resp, err := s.ticketTypeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTicketTypeByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.ticketTypeSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTicketType(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var unit *tickettypedomain.DurationUnit
	if req.DurationUnit != nil {
		parsed := tickettypedomain.DurationUnit(strings.ToUpper(strings.TrimSpace(*req.DurationUnit)))
		unit = &parsed
	}

	resp, err := s.ticketTypeSvc.Update(c.Request.Context(), id, tickettypedomain.UpdateRequest{
		Name:             trimStringPtr(req.Name),
		Duration:         req.Duration,
		DurationUnit:     unit,
		DefaultSalePrice: req.DefaultSalePrice,
		PurchasePrice:    req.PurchasePrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTicketType(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	cascade, err := parseOptionalBool(c.Query("cascade"))
	if err != nil {
		AbortWithError(c, newValidationError("cascade", "invalid_cascade", "invalid cascade"))
		return
	}

	if err := s.ticketTypeSvc.Delete(c.Request.Context(), id, cascade != nil && *cascade); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
