package handler

import (
	"custodial-wallet/internal/adapter/http/dto"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"
	"custodial-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// TokenHandler issues demo identity tokens when the auth gate is enabled.
// In a real deployment the identity provider fills this role.
type TokenHandler struct {
	tokenSvc ports.TokenService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokenSvc ports.TokenService) *TokenHandler {
	return &TokenHandler{tokenSvc: tokenSvc}
}

// Issue handles POST /api/auth/token.
func (h *TokenHandler) Issue(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("email required"))
		return
	}

	token, expiry, err := h.tokenSvc.Generate(req.Email)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.TokenResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}
