package server

import (
	"net/http"
	"strings"

	pricingdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/domain"
	resellerdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/domain"
	"github.com/gin-gonic/gin"
)

type createResellerRequest struct {
	BusinessName          string `json:"business_name"`
	ResponsibleName       string `json:"responsible_name"`
	Phone                 string `json:"phone"`
	Address               string `json:"address"`
	CommissionOverrideBps *int32 `json:"commission_override_bps"`
}

type updateResellerRequest struct {
	BusinessName    *string `json:"business_name,omitempty"`
	ResponsibleName *string `json:"responsible_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

type setCommissionRequest struct {
	CommissionOverrideBps *int32 `json:"commission_override_bps"`
}

type setPriceOverrideRequest struct {
	Price int64 `json:"price"`
}

func (s *Server) CreateReseller(c *gin.Context) {
	var req createResellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.resellerSvc.Create(c.Request.Context(), resellerdomain.CreateRequest{
		BusinessName:          strings.TrimSpace(req.BusinessName),
		ResponsibleName:       strings.TrimSpace(req.ResponsibleName),
		Phone:                 strings.TrimSpace(req.Phone),
		Address:               strings.TrimSpace(req.Address),
		CommissionOverrideBps: req.CommissionOverrideBps,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListResellers(c *gin.Context) {
	activeOnly, err := parseOptionalBool(c.Query("active"))
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.resellerSvc.List(c.Request.Context(), activeOnly != nil && *activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetResellerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.resellerSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateReseller(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateResellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.resellerSvc.Update(c.Request.Context(), id, resellerdomain.UpdateRequest{
		BusinessName:    trimStringPtr(req.BusinessName),
		ResponsibleName: trimStringPtr(req.ResponsibleName),
		Phone:           trimStringPtr(req.Phone),
		Address:         trimStringPtr(req.Address),
		Active:          req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteReseller(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	hard, err := parseOptionalBool(c.Query("hard"))
	if err != nil {
		AbortWithError(c, newValidationError("hard", "invalid_hard", "invalid hard"))
		return
	}

	if err := s.resellerSvc.Delete(c.Request.Context(), id, hard != nil && *hard); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) SetResellerCommission(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req setCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.resellerSvc.SetCommissionOverride(c.Request.Context(), id, req.CommissionOverrideBps)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListResellerPrices(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.pricingSvc.PriceList(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPriceOverrides(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.pricingSvc.ListOverrides(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetPriceOverride(c *gin.Context) {
	var req setPriceOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.SetOverride(c.Request.Context(), pricingdomain.SetOverrideRequest{
		ResellerID:   strings.TrimSpace(c.Param("id")),
		TicketTypeID: strings.TrimSpace(c.Param("typeId")),
		Price:        req.Price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ClearPriceOverride(c *gin.Context) {
	err := s.pricingSvc.ClearOverride(
		c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		strings.TrimSpace(c.Param("typeId")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListResellerInventory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.inventorySvc.ListByReseller(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
