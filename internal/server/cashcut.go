package server

import (
	"net/http"
	"strings"

	cashcutdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/domain"
	"github.com/gin-gonic/gin"
)

type prepareCashCutRequest struct {
	ResellerID string `json:"reseller_id"`
}

type commitCashCutRequest struct {
	ResellerID string              `json:"reseller_id"`
	CutDate    string              `json:"cut_date"`
	Lines      []commitCutLineBody `json:"lines"`
}

type commitCutLineBody struct {
	TicketTypeID string `json:"ticket_type_id"`
	SoldNow      int64  `json:"sold_now"`
}

func (s *Server) PrepareCashCut(c *gin.Context) {
	var req prepareCashCutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.cashCutSvc.Prepare(c.Request.Context(), strings.TrimSpace(req.ResellerID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CommitCashCut(c *gin.Context) {
	var req commitCashCutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lines := make([]cashcutdomain.CommitLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, cashcutdomain.CommitLine{
			TicketTypeID: strings.TrimSpace(line.TicketTypeID),
			SoldNow:      line.SoldNow,
		})
	}

	resp, err := s.cashCutSvc.Commit(c.Request.Context(), cashcutdomain.CommitRequest{
		ResellerID: strings.TrimSpace(req.ResellerID),
		CutDate:    strings.TrimSpace(req.CutDate),
		Lines:      lines,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListCashCuts(c *gin.Context) {
	filter, err := cashCutFilterFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.cashCutSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CashCutTotals(c *gin.Context) {
	filter, err := cashCutFilterFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.cashCutSvc.Totals(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCashCutByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.cashCutSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func cashCutFilterFromQuery(c *gin.Context) (cashcutdomain.HistoryFilter, error) {
	filter := cashcutdomain.HistoryFilter{
		ResellerID: strings.TrimSpace(c.Query("reseller_id")),
		From:       strings.TrimSpace(c.Query("from")),
		To:         strings.TrimSpace(c.Query("to")),
	}
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil || (limit != nil && *limit < 0) {
		return filter, newValidationError("limit", "invalid_limit", "invalid limit")
	}
	if limit != nil {
		filter.Limit = *limit
	}
	return filter, nil
}
