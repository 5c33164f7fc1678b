package handler

import (
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"
	"custodial-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// StatementHandler handles CSV statement export.
type StatementHandler struct {
	statementSvc ports.StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementSvc ports.StatementService) *StatementHandler {
	return &StatementHandler{statementSvc: statementSvc}
}

// Export handles GET /api/statements?userId=.
func (h *StatementHandler) Export(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.Error(c, apperror.Validation("userId required"))
		return
	}

	csv, err := h.statementSvc.Render(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CSV(c, "statements.csv", csv)
}
