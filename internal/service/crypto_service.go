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
	"github.com/shopspring/decimal"
)

// CryptoServiceImpl implements ports.CryptoLedgerService. Per-asset balances
// are never stored; each is derived as the signed sum over that asset's
// transaction rows, so the history is the single source of truth.
type CryptoServiceImpl struct {
	userRepo   ports.UserRepository
	cryptoRepo ports.CryptoTransactionRepository
	transactor ports.DBTransactor
	submitter  ports.ChainSubmitter // nil when chain submission is disabled
	network    string
	log        zerolog.Logger
}

// NewCryptoService creates a new CryptoServiceImpl. submitter may be nil,
// in which case sends settle with a locally generated hash.
func NewCryptoService(
	userRepo ports.UserRepository,
	cryptoRepo ports.CryptoTransactionRepository,
	transactor ports.DBTransactor,
	submitter ports.ChainSubmitter,
	network string,
	log zerolog.Logger,
) *CryptoServiceImpl {
	return &CryptoServiceImpl{
		userRepo:   userRepo,
		cryptoRepo: cryptoRepo,
		transactor: transactor,
		submitter:  submitter,
		network:    network,
		log:        log,
	}
}

// Apply records a crypto ledger movement. Sends are checked against the
// derived balance inside the same locked unit that inserts the row.
func (s *CryptoServiceImpl) Apply(ctx context.Context, params ports.ApplyCryptoParams) (*domain.CryptoTransaction, error) {
	if !params.Type.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("Invalid transaction type: %s", params.Type))
	}

	amount, err := decimal.NewFromString(params.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
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

	// Business rule: sufficient derived balance
	if params.Type == domain.TransactionTypeSend {
		balance, err := s.cryptoRepo.SumByAssetForUpdate(ctx, dbTx, params.UserID, params.Asset)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("derive balance: %w", err))
		}
		if amount.GreaterThan(balance) {
			return nil, apperror.ErrInsufficientAssetBalance(string(params.Asset))
		}
	}

	txHash := params.TxHash
	if txHash == "" {
		txHash = s.settle(ctx, user, params.Type, params.Asset, params.Address, amount)
	}

	txn := &domain.CryptoTransaction{
		ID:        ident.New(),
		UserID:    params.UserID,
		Type:      params.Type,
		Asset:     params.Asset,
		Amount:    params.Asset.FormatAmount(amount),
		Address:   params.Address,
		TxHash:    txHash,
		Network:   s.network,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.cryptoRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create crypto transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("user_id", params.UserID).
		Str("type", string(params.Type)).
		Str("asset", string(params.Asset)).
		Str("amount", txn.Amount).
		Str("tx_hash", txn.TxHash).
		Msg("crypto transaction applied")

	return txn, nil
}

// settle obtains a transaction hash for the movement. Chain submission is
// best-effort: any failure degrades to a locally generated hash, never to a
// ledger rejection.
func (s *CryptoServiceImpl) settle(ctx context.Context, user *domain.User, txType domain.TransactionType, asset domain.Asset, address string, amount decimal.Decimal) string {
	if s.submitter == nil || txType != domain.TransactionTypeSend {
		return ident.SyntheticTxHash()
	}

	hash, err := s.submitter.Submit(ctx, user.WalletAddress, address, asset, amount)
	if err != nil {
		s.log.Warn().Err(err).
			Str("user_id", user.ID).
			Str("asset", string(asset)).
			Msg("chain submission failed, falling back to simulated hash")
		return ident.SyntheticTxHash()
	}
	return hash
}

// Snapshot returns the derived per-asset balances plus the full transaction
// list, most recent first.
func (s *CryptoServiceImpl) Snapshot(ctx context.Context, userID string) (*ports.CryptoSnapshot, error) {
	eth, err := s.cryptoRepo.SumByAsset(ctx, userID, domain.AssetETH)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("derive ETH balance: %w", err))
	}
	usdc, err := s.cryptoRepo.SumByAsset(ctx, userID, domain.AssetUSDC)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("derive USDC balance: %w", err))
	}
	txns, err := s.cryptoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list crypto transactions: %w", err))
	}

	return &ports.CryptoSnapshot{
		BalanceEth:   domain.AssetETH.FormatAmount(eth),
		BalanceUsdc:  domain.AssetUSDC.FormatAmount(usdc),
		Transactions: txns,
	}, nil
}
