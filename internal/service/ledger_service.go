package service

import (
	"context"
	"fmt"
	"time"

	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"
	"custodial-wallet/pkg/ident"

	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService: the fiat balance and
// transaction engine. Every write runs as a locked read-check-write unit so
// two sends racing against the same balance serialize instead of
// double-spending.
type LedgerServiceImpl struct {
	userRepo   ports.UserRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	userRepo ports.UserRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		userRepo:   userRepo,
		txRepo:     txRepo,
		transactor: transactor,
		log:        log,
	}
}

// Apply records a fiat ledger movement and adjusts the balance atomically.
func (s *LedgerServiceImpl) Apply(ctx context.Context, params ports.ApplyFiatParams) (*domain.Transaction, error) {
	if !params.Type.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("Invalid transaction type: %s", params.Type))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get user
	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, params.UserID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound()
	}

	if params.AmountCents <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	// Business rule: sufficient funds
	if params.Type == domain.TransactionTypeSend && params.AmountCents > user.BalanceCents {
		return nil, apperror.ErrInsufficientBalance()
	}

	delta := params.AmountCents
	if params.Type == domain.TransactionTypeSend {
		delta = -params.AmountCents
	}

	txn := &domain.Transaction{
		ID:                ident.New(),
		UserID:            params.UserID,
		Type:              params.Type,
		AmountCents:       params.AmountCents,
		CounterpartyLabel: params.CounterpartyLabel,
		CreatedAt:         time.Now().UTC(),
	}
	if params.TxHash != "" {
		hash := params.TxHash
		txn.TxHash = &hash
	}

	if err := s.userRepo.AdjustBalance(ctx, dbTx, params.UserID, delta); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("adjust balance: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("user_id", params.UserID).
		Str("type", string(params.Type)).
		Int64("amount_cents", params.AmountCents).
		Msg("fiat transaction applied")

	return txn, nil
}

// List returns the user's fiat transactions, most recent first.
func (s *LedgerServiceImpl) List(ctx context.Context, userID string) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}
