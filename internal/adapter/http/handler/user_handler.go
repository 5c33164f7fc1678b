package handler

import (
	"custodial-wallet/internal/adapter/http/dto"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"
	"custodial-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user registration, lookup and reset.
type UserHandler struct {
	registrationSvc ports.RegistrationService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(registrationSvc ports.RegistrationService) *UserHandler {
	return &UserHandler{registrationSvc: registrationSvc}
}

// GetUser handles GET /api/user?email=.
func (h *UserHandler) GetUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, apperror.Validation("email required"))
		return
	}

	user, err := h.registrationSvc.Lookup(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}

// RegisterUser handles POST /api/user. Returns 201 for a newly created
// record, 200 for an existing one (including wallet/display-name updates).
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("email required"))
		return
	}
	dto.TrimStruct(&req)
	if req.Email == "" {
		response.Error(c, apperror.Validation("email required"))
		return
	}

	user, created, err := h.registrationSvc.Register(c.Request.Context(), ports.RegisterParams{
		Email:         req.Email,
		WalletAddress: req.WalletAddress,
		DisplayName:   req.DisplayName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if created {
		response.Created(c, user)
		return
	}
	response.OK(c, user)
}

// ResetUser handles DELETE /api/user?email=.
func (h *UserHandler) ResetUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, apperror.Validation("email required"))
		return
	}

	user, err := h.registrationSvc.Reset(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}
