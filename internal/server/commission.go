package server

import (
	"net/http"

	pricingdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/domain"
	"github.com/gin-gonic/gin"
)

type updateCommissionRequest struct {
	OwnerPercentBps int32  `json:"owner_percent_bps"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

func (s *Server) GetCommission(c *gin.Context) {
	resp, err := s.pricingSvc.GetCommission(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCommission(c *gin.Context) {
	var req updateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.UpdateCommission(c.Request.Context(), pricingdomain.UpdateCommissionRequest{
		OwnerPercentBps: req.OwnerPercentBps,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
