package dto

// RegisterUserRequest is the request body for user registration.
type RegisterUserRequest struct {
	Email         string `json:"email" binding:"required"`
	WalletAddress string `json:"walletAddress"`
	DisplayName   string `json:"displayName"`
}

// FiatTransactionRequest is the request body for a fiat ledger write.
type FiatTransactionRequest struct {
	UserID            string `json:"userId" binding:"required"`
	Type              string `json:"type" binding:"required,oneof=send receive"`
	AmountCents       int64  `json:"amountCents" binding:"required"`
	CounterpartyLabel string `json:"counterpartyLabel" binding:"required"`
	TxHash            string `json:"txHash"`
}

// CryptoTransactionRequest is the request body for a crypto ledger write.
// Asset defaults to ETH when omitted.
type CryptoTransactionRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=send receive"`
	Asset   string `json:"asset" binding:"omitempty,oneof=ETH USDC"`
	Amount  string `json:"amount" binding:"required,positive_decimal"`
	Address string `json:"address" binding:"required"`
	TxHash  string `json:"txHash"`
}

// TokenRequest is the request body for issuing a demo identity token.
type TokenRequest struct {
	Email string `json:"email" binding:"required"`
}

// TokenResponse is the response body for an issued token.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}
