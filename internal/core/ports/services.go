package ports

import (
	"context"
	"time"

	"custodial-wallet/internal/core/domain"

	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// RegisterParams holds validated input for user registration.
type RegisterParams struct {
	Email         string
	WalletAddress string
	DisplayName   string
}

// RegistrationService resolves external identities to internal user records.
type RegistrationService interface {
	// Register gets or creates the user for an email. The boolean is true
	// when a new record (with seeded starter transactions) was created.
	Register(ctx context.Context, params RegisterParams) (*domain.User, bool, error)
	Lookup(ctx context.Context, email string) (*domain.User, error)
	// Reset deletes the user's transactions and record, then re-registers
	// from scratch with default seed data.
	Reset(ctx context.Context, email string) (*domain.User, error)
}

// ApplyFiatParams holds validated input for a fiat ledger write.
type ApplyFiatParams struct {
	UserID            string
	Type              domain.TransactionType
	AmountCents       int64
	CounterpartyLabel string
	TxHash            string
}

// LedgerService is the fiat balance and transaction engine.
type LedgerService interface {
	Apply(ctx context.Context, params ApplyFiatParams) (*domain.Transaction, error)
	List(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// ApplyCryptoParams holds validated input for a crypto ledger write.
type ApplyCryptoParams struct {
	UserID  string
	Type    domain.TransactionType
	Asset   domain.Asset
	Amount  string
	Address string
	TxHash  string
}

// CryptoSnapshot is the read-side view of a user's crypto ledger: derived
// per-asset balances at fixed precision plus the full transaction list.
type CryptoSnapshot struct {
	BalanceEth   string                     `json:"balanceEth"`
	BalanceUsdc  string                     `json:"balanceUsdc"`
	Transactions []domain.CryptoTransaction `json:"transactions"`
}

// CryptoLedgerService is the crypto balance and transaction engine.
type CryptoLedgerService interface {
	Apply(ctx context.Context, params ApplyCryptoParams) (*domain.CryptoTransaction, error)
	Snapshot(ctx context.Context, userID string) (*CryptoSnapshot, error)
}

// RecipientService lists the static recipient directory.
type RecipientService interface {
	List(ctx context.Context) ([]domain.Recipient, error)
}

// StatementService renders CSV statements over a user's fiat history.
type StatementService interface {
	Render(ctx context.Context, userID string) (string, error)
}

// ChainSubmitter is the external chain-submission collaborator: given a
// destination and amount it returns a transaction hash or fails. Failures
// are degraded to a synthetic hash by the caller, never surfaced as ledger
// rejections.
type ChainSubmitter interface {
	Submit(ctx context.Context, from, to string, asset domain.Asset, amount decimal.Decimal) (string, error)
}

// TokenClaims holds the parsed identity-provider token claims.
type TokenClaims struct {
	Email string
}

// TokenService verifies identity-provider-issued bearer tokens. The
// provider owns authentication; this only parses the email claim.
type TokenService interface {
	Generate(email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// RecipientCache is an optional read-through cache for the recipient
// directory (static reference data).
type RecipientCache interface {
	Get(ctx context.Context) ([]domain.Recipient, error) // nil, nil on miss
	Set(ctx context.Context, recipients []domain.Recipient, ttl time.Duration) error
}
