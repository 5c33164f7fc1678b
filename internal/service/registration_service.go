package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"
	"custodial-wallet/pkg/ident"

	"github.com/rs/zerolog"
)

// Seed data for freshly registered users. Timestamps are fixed so a demo
// account always renders the same history.
var (
	seedCreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	seedFiat = []struct {
		suffix            string
		amountCents       int64
		counterpartyLabel string
		createdAt         time.Time
	}{
		{"-seed-1", 100000, "Initial Deposit", time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)},
		{"-seed-2", 25000, "Acme Corp", time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)},
	}

	seedCrypto = []struct {
		suffix    string
		asset     domain.Asset
		amount    string
		address   string
		txHash    string
		createdAt time.Time
	}{
		{"-crypto-seed-1", domain.AssetETH, "0.5000",
			"0xabc1230000000000000000000000000000000001",
			"0xdead000000000000000000000000000000000000000000000000000000000001",
			time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)},
		{"-crypto-seed-2", domain.AssetETH, "0.1000",
			"0xabc1230000000000000000000000000000000002",
			"0xdead000000000000000000000000000000000000000000000000000000000002",
			time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)},
		{"-crypto-seed-3", domain.AssetUSDC, "250.00",
			"0xabc1230000000000000000000000000000000003",
			"0xdead000000000000000000000000000000000000000000000000000000000003",
			time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)},
	}
)

// RegistrationServiceImpl implements ports.RegistrationService.
type RegistrationServiceImpl struct {
	userRepo            ports.UserRepository
	txRepo              ports.TransactionRepository
	cryptoRepo          ports.CryptoTransactionRepository
	transactor          ports.DBTransactor
	network             string
	defaultBalanceCents int64
	log                 zerolog.Logger
}

// NewRegistrationService creates a new RegistrationServiceImpl.
func NewRegistrationService(
	userRepo ports.UserRepository,
	txRepo ports.TransactionRepository,
	cryptoRepo ports.CryptoTransactionRepository,
	transactor ports.DBTransactor,
	network string,
	defaultBalanceCents int64,
	log zerolog.Logger,
) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{
		userRepo:            userRepo,
		txRepo:              txRepo,
		cryptoRepo:          cryptoRepo,
		transactor:          transactor,
		network:             network,
		defaultBalanceCents: defaultBalanceCents,
		log:                 log,
	}
}

// Register gets or creates the user record for an email. Registration is
// idempotent: an existing user is returned as-is, except that a wallet
// address supplied later backfills an empty one and a changed display name
// is applied.
func (s *RegistrationServiceImpl) Register(ctx context.Context, params ports.RegisterParams) (*domain.User, bool, error) {
	existing, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("lookup user: %w", err))
	}
	if existing != nil {
		return s.refreshExisting(ctx, existing, params)
	}

	user, err := s.create(ctx, params)
	if err != nil {
		// A concurrent registration for the same email may have won the
		// insert race; resolve by returning the winner's record.
		if errors.Is(err, ports.ErrDuplicateEmail) {
			winner, lookupErr := s.userRepo.GetByEmail(ctx, params.Email)
			if lookupErr == nil && winner != nil {
				return winner, false, nil
			}
		}
		return nil, false, err
	}

	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	return user, true, nil
}

// Lookup resolves an email to its user record.
func (s *RegistrationServiceImpl) Lookup(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lookup user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound()
	}
	return user, nil
}

// Reset deletes the user's transactions and record, then re-registers from
// scratch with default seed data.
func (s *RegistrationServiceImpl) Reset(ctx context.Context, email string) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lookup user: %w", err))
	}

	if existing != nil {
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		if err := s.cryptoRepo.DeleteByUser(ctx, dbTx, existing.ID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("delete crypto transactions: %w", err))
		}
		if err := s.txRepo.DeleteByUser(ctx, dbTx, existing.ID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("delete transactions: %w", err))
		}
		if err := s.userRepo.Delete(ctx, dbTx, existing.ID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("delete user: %w", err))
		}
		if err := dbTx.Commit(ctx); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}

		s.log.Info().Str("user_id", existing.ID).Str("email", email).Msg("user reset")
	}

	user, _, err := s.Register(ctx, ports.RegisterParams{Email: email})
	return user, err
}

// refreshExisting applies the late-arriving profile fields registration is
// allowed to change on an existing record.
func (s *RegistrationServiceImpl) refreshExisting(ctx context.Context, user *domain.User, params ports.RegisterParams) (*domain.User, bool, error) {
	if user.WalletAddress == "" && params.WalletAddress != "" {
		if err := s.userRepo.UpdateWalletAddress(ctx, user.ID, params.WalletAddress); err != nil {
			return nil, false, apperror.ErrDatabaseError(fmt.Errorf("backfill wallet address: %w", err))
		}
		user.WalletAddress = params.WalletAddress
	}
	if params.DisplayName != "" && params.DisplayName != user.DisplayName {
		if err := s.userRepo.UpdateDisplayName(ctx, user.ID, params.DisplayName); err != nil {
			return nil, false, apperror.ErrDatabaseError(fmt.Errorf("update display name: %w", err))
		}
		user.DisplayName = params.DisplayName
	}
	return user, false, nil
}

// create inserts the user row plus its starter transactions in one unit.
func (s *RegistrationServiceImpl) create(ctx context.Context, params ports.RegisterParams) (*domain.User, error) {
	userID := ident.UserID(params.Email)

	displayName := params.DisplayName
	if displayName == "" {
		displayName = strings.Split(params.Email, "@")[0]
	}

	user := &domain.User{
		ID:            userID,
		Email:         params.Email,
		WalletAddress: params.WalletAddress,
		DisplayName:   displayName,
		BalanceCents:  s.defaultBalanceCents,
		CreatedAt:     seedCreatedAt,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.userRepo.Create(ctx, dbTx, user); err != nil {
		if errors.Is(err, ports.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create user: %w", err))
	}

	for _, seed := range seedFiat {
		txn := &domain.Transaction{
			ID:                userID + seed.suffix,
			UserID:            userID,
			Type:              domain.TransactionTypeReceive,
			AmountCents:       seed.amountCents,
			CounterpartyLabel: seed.counterpartyLabel,
			CreatedAt:         seed.createdAt,
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("seed transaction: %w", err))
		}
	}

	for _, seed := range seedCrypto {
		txn := &domain.CryptoTransaction{
			ID:        userID + seed.suffix,
			UserID:    userID,
			Type:      domain.TransactionTypeReceive,
			Asset:     seed.asset,
			Amount:    seed.amount,
			Address:   seed.address,
			TxHash:    seed.txHash,
			Network:   s.network,
			CreatedAt: seed.createdAt,
		}
		if err := s.cryptoRepo.Create(ctx, dbTx, txn); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("seed crypto transaction: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	return user, nil
}
