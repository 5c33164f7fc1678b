package handler

import (
	"custodial-wallet/internal/adapter/http/dto"
	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"
	"custodial-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles the fiat and crypto transaction endpoints.
// mode=crypto dispatches to the crypto ledger, anything else to fiat.
type TransactionHandler struct {
	ledgerSvc ports.LedgerService
	cryptoSvc ports.CryptoLedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerSvc ports.LedgerService, cryptoSvc ports.CryptoLedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerSvc: ledgerSvc, cryptoSvc: cryptoSvc}
}

// List handles GET /api/transactions?userId=&mode=.
func (h *TransactionHandler) List(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.Error(c, apperror.Validation("userId required"))
		return
	}

	if c.Query("mode") == "crypto" {
		snapshot, err := h.cryptoSvc.Snapshot(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, snapshot)
		return
	}

	txns, err := h.ledgerSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txns)
}

// Create handles POST /api/transactions?mode=.
func (h *TransactionHandler) Create(c *gin.Context) {
	if c.Query("mode") == "crypto" {
		h.createCrypto(c)
		return
	}
	h.createFiat(c)
}

func (h *TransactionHandler) createFiat(c *gin.Context) {
	var req dto.FiatTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.TrimStruct(&req)

	txn, err := h.ledgerSvc.Apply(c.Request.Context(), ports.ApplyFiatParams{
		UserID:            req.UserID,
		Type:              domain.TransactionType(req.Type),
		AmountCents:       req.AmountCents,
		CounterpartyLabel: req.CounterpartyLabel,
		TxHash:            req.TxHash,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, txn)
}

func (h *TransactionHandler) createCrypto(c *gin.Context) {
	var req dto.CryptoTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.TrimStruct(&req)

	asset := domain.AssetETH
	if req.Asset != "" {
		parsed, err := domain.ParseAsset(req.Asset)
		if err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
		asset = parsed
	}

	txn, err := h.cryptoSvc.Apply(c.Request.Context(), ports.ApplyCryptoParams{
		UserID:  req.UserID,
		Type:    domain.TransactionType(req.Type),
		Asset:   asset,
		Amount:  req.Amount,
		Address: req.Address,
		TxHash:  req.TxHash,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, txn)
}
