package server

import (
	"net/http"
	"strings"

	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	"github.com/gin-gonic/gin"
)

type adjustInventoryRequest struct {
	ResellerID   string `json:"reseller_id"`
	TicketTypeID string `json:"ticket_type_id"`
	Field        string `json:"field"`
	Delta        int64  `json:"delta"`
}

type setInventorySoldRequest struct {
	ResellerID   string `json:"reseller_id"`
	TicketTypeID string `json:"ticket_type_id"`
	SoldCount    int64  `json:"sold_count"`
}

func (s *Server) AdjustInventory(c *gin.Context) {
	var req adjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.Adjust(c.Request.Context(), inventorydomain.AdjustRequest{
		ResellerID:   strings.TrimSpace(req.ResellerID),
		TicketTypeID: strings.TrimSpace(req.TicketTypeID),
		Field:        inventorydomain.AdjustField(strings.ToLower(strings.TrimSpace(req.Field))),
		Delta:        req.Delta,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetInventorySold(c *gin.Context) {
	var req setInventorySoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.SetSoldAbsolute(c.Request.Context(), inventorydomain.SetSoldRequest{
		ResellerID:   strings.TrimSpace(req.ResellerID),
		TicketTypeID: strings.TrimSpace(req.TicketTypeID),
		SoldCount:    req.SoldCount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
