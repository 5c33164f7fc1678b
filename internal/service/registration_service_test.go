package service

import (
	"context"
	"testing"

	"custodial-wallet/internal/adapter/storage/memory"
	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"
	"custodial-wallet/pkg/ident"
	"custodial-wallet/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regFixture struct {
	store *memory.Store
	svc   *RegistrationServiceImpl
}

func newRegFixture(t *testing.T) *regFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.New("error", false)
	svc := NewRegistrationService(
		memory.NewUserRepo(store),
		memory.NewTransactionRepo(store),
		memory.NewCryptoRepo(store),
		memory.NewTransactor(store),
		"Base Sepolia",
		125000,
		log,
	)
	return &regFixture{store: store, svc: svc}
}

func TestRegister_NewUser(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	user, created, err := f.svc.Register(ctx, ports.RegisterParams{
		Email:         "alice@example.com",
		WalletAddress: "0xwallet",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, ident.UserID("alice@example.com"), user.ID)
	assert.Equal(t, "alice", user.DisplayName)
	assert.Equal(t, "0xwallet", user.WalletAddress)
	assert.Equal(t, int64(125000), user.BalanceCents)

	// Seeded fiat history
	txns, err := memory.NewTransactionRepo(f.store).ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "Acme Corp", txns[0].CounterpartyLabel)
	assert.Equal(t, int64(25000), txns[0].AmountCents)
	assert.Equal(t, "Initial Deposit", txns[1].CounterpartyLabel)
	assert.Equal(t, int64(100000), txns[1].AmountCents)

	// Seeded crypto history and derived balances
	cryptoRepo := memory.NewCryptoRepo(f.store)
	cryptoTxns, err := cryptoRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cryptoTxns, 3)

	eth, err := cryptoRepo.SumByAsset(ctx, user.ID, domain.AssetETH)
	require.NoError(t, err)
	assert.Equal(t, "0.6000", domain.AssetETH.FormatAmount(eth))

	usdc, err := cryptoRepo.SumByAsset(ctx, user.ID, domain.AssetUSDC)
	require.NoError(t, err)
	assert.Equal(t, "250.00", domain.AssetUSDC.FormatAmount(usdc))
}

func TestRegister_Idempotent(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	first, created, err := f.svc.Register(ctx, ports.RegisterParams{Email: "alice@example.com"})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.svc.Register(ctx, ports.RegisterParams{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	// Seeds were not duplicated.
	txns, err := memory.NewTransactionRepo(f.store).ListByUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestRegister_WalletBackfill(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, ports.RegisterParams{Email: "alice@example.com"})
	require.NoError(t, err)

	user, created, err := f.svc.Register(ctx, ports.RegisterParams{
		Email:         "alice@example.com",
		WalletAddress: "0xlate",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "0xlate", user.WalletAddress)

	// A third registration cannot overwrite it.
	user, _, err = f.svc.Register(ctx, ports.RegisterParams{
		Email:         "alice@example.com",
		WalletAddress: "0xother",
	})
	require.NoError(t, err)
	assert.Equal(t, "0xlate", user.WalletAddress)
}

func TestRegister_DisplayNameUpdate(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, ports.RegisterParams{Email: "alice@example.com"})
	require.NoError(t, err)

	user, _, err := f.svc.Register(ctx, ports.RegisterParams{
		Email:       "alice@example.com",
		DisplayName: "Alice Liddell",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", user.DisplayName)
}

func TestLookup(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, ports.RegisterParams{Email: "alice@example.com"})
	require.NoError(t, err)

	user, err := f.svc.Lookup(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestLookup_NotFound(t *testing.T) {
	f := newRegFixture(t)

	_, err := f.svc.Lookup(context.Background(), "nobody@example.com")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "USR_001", appErr.Code)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestReset_RestoresSeedState(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	user, _, err := f.svc.Register(ctx, ports.RegisterParams{
		Email:         "alice@example.com",
		WalletAddress: "0xwallet",
		DisplayName:   "Alice Liddell",
	})
	require.NoError(t, err)

	// Drain the balance so reset has something to undo.
	ledger := NewLedgerService(
		memory.NewUserRepo(f.store),
		memory.NewTransactionRepo(f.store),
		memory.NewTransactor(f.store),
		logger.New("error", false),
	)
	_, err = ledger.Apply(ctx, ports.ApplyFiatParams{
		UserID:            user.ID,
		Type:              domain.TransactionTypeSend,
		AmountCents:       50000,
		CounterpartyLabel: "Bob",
	})
	require.NoError(t, err)

	reset, err := f.svc.Reset(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, reset.ID)
	assert.Equal(t, int64(125000), reset.BalanceCents)
	assert.Equal(t, "alice", reset.DisplayName)
	assert.Empty(t, reset.WalletAddress)

	txns, err := memory.NewTransactionRepo(f.store).ListByUser(ctx, reset.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestReset_UnknownEmailRegisters(t *testing.T) {
	f := newRegFixture(t)

	user, err := f.svc.Reset(context.Background(), "fresh@example.com")
	require.NoError(t, err)
	assert.Equal(t, ident.UserID("fresh@example.com"), user.ID)
	assert.Equal(t, int64(125000), user.BalanceCents)
}
