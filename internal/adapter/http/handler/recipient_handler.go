package handler

import (
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// RecipientHandler handles the recipient directory endpoint.
type RecipientHandler struct {
	recipientSvc ports.RecipientService
}

// NewRecipientHandler creates a new RecipientHandler.
func NewRecipientHandler(recipientSvc ports.RecipientService) *RecipientHandler {
	return &RecipientHandler{recipientSvc: recipientSvc}
}

// List handles GET /api/recipients.
func (h *RecipientHandler) List(c *gin.Context) {
	recipients, err := h.recipientSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recipients)
}
