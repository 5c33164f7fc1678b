package ports

import (
	"context"
	"errors"

	"custodial-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ErrDuplicateEmail is returned by UserRepository.Create when the unique
// email constraint rejects a concurrent or repeated insert. Callers resolve
// it by falling into the lookup branch.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository defines persistence operations for users.
// Methods accepting pgx.Tx run inside transaction blocks; the ForUpdate
// variant locks the user's row for the duration of a check-and-write unit.
type UserRepository interface {
	Create(ctx context.Context, tx pgx.Tx, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.User, error)
	UpdateWalletAddress(ctx context.Context, id string, walletAddress string) error
	UpdateDisplayName(ctx context.Context, id string, displayName string) error
	// AdjustBalance applies a signed delta in the same statement that guards
	// against the balance going negative.
	AdjustBalance(ctx context.Context, tx pgx.Tx, id string, deltaCents int64) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
}

// TransactionRepository defines persistence operations for fiat transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	// ListByUser returns the user's transactions ordered by createdAt
	// descending; an unknown user yields an empty list, never an error.
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error
}

// CryptoTransactionRepository defines persistence for crypto transactions.
// Balances are never stored: SumByAsset derives them as the signed sum over
// matching rows.
type CryptoTransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.CryptoTransaction) error
	ListByUser(ctx context.Context, userID string) ([]domain.CryptoTransaction, error)
	SumByAsset(ctx context.Context, userID string, asset domain.Asset) (decimal.Decimal, error)
	// SumByAssetForUpdate derives the balance inside a transaction that
	// already holds the user's row lock.
	SumByAssetForUpdate(ctx context.Context, tx pgx.Tx, userID string, asset domain.Asset) (decimal.Decimal, error)
	DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error
}

// RecipientRepository defines read access to the static recipient directory.
type RecipientRepository interface {
	List(ctx context.Context) ([]domain.Recipient, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
