package service

import (
	"context"
	"sync"
	"testing"

	"custodial-wallet/internal/adapter/storage/memory"
	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"
	"custodial-wallet/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	store  *memory.Store
	svc    *LedgerServiceImpl
	userID string
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.New("error", false)

	reg := NewRegistrationService(
		memory.NewUserRepo(store),
		memory.NewTransactionRepo(store),
		memory.NewCryptoRepo(store),
		memory.NewTransactor(store),
		"Base Sepolia",
		125000,
		log,
	)
	user, _, err := reg.Register(context.Background(), ports.RegisterParams{Email: "alice@example.com"})
	require.NoError(t, err)

	svc := NewLedgerService(
		memory.NewUserRepo(store),
		memory.NewTransactionRepo(store),
		memory.NewTransactor(store),
		log,
	)
	return &ledgerFixture{store: store, svc: svc, userID: user.ID}
}

func (f *ledgerFixture) balance(t *testing.T) int64 {
	t.Helper()
	user, err := memory.NewUserRepo(f.store).GetByID(context.Background(), f.userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user.BalanceCents
}

func TestLedgerApply_Receive(t *testing.T) {
	f := newLedgerFixture(t)

	txn, err := f.svc.Apply(context.Background(), ports.ApplyFiatParams{
		UserID:            f.userID,
		Type:              domain.TransactionTypeReceive,
		AmountCents:       5000,
		CounterpartyLabel: "Payroll",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, domain.TransactionTypeReceive, txn.Type)
	assert.Equal(t, int64(5000), txn.AmountCents)
	assert.Equal(t, "Payroll", txn.CounterpartyLabel)
	assert.Nil(t, txn.TxHash)

	assert.Equal(t, int64(130000), f.balance(t))
}

func TestLedgerApply_Send(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.Apply(context.Background(), ports.ApplyFiatParams{
		UserID:            f.userID,
		Type:              domain.TransactionTypeSend,
		AmountCents:       25000,
		CounterpartyLabel: "Bob",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), f.balance(t))
}

func TestLedgerApply_SendToZeroThenFail(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, ports.ApplyFiatParams{
		UserID:            f.userID,
		Type:              domain.TransactionTypeSend,
		AmountCents:       125000,
		CounterpartyLabel: "Bob",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.balance(t))

	_, err = f.svc.Apply(ctx, ports.ApplyFiatParams{
		UserID:            f.userID,
		Type:              domain.TransactionTypeSend,
		AmountCents:       1,
		CounterpartyLabel: "Bob",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_001", appErr.Code)
	assert.Equal(t, "Insufficient balance", appErr.Message)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestLedgerApply_InvalidAmount(t *testing.T) {
	f := newLedgerFixture(t)

	for _, amount := range []int64{0, -100} {
		_, err := f.svc.Apply(context.Background(), ports.ApplyFiatParams{
			UserID:            f.userID,
			Type:              domain.TransactionTypeReceive,
			AmountCents:       amount,
			CounterpartyLabel: "Bob",
		})
		require.Error(t, err)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VAL_001", appErr.Code)
		assert.Equal(t, "Amount must be positive", appErr.Message)
	}

	assert.Equal(t, int64(125000), f.balance(t))
}

func TestLedgerApply_InvalidType(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.Apply(context.Background(), ports.ApplyFiatParams{
		UserID:            f.userID,
		Type:              domain.TransactionType("transfer"),
		AmountCents:       100,
		CounterpartyLabel: "Bob",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestLedgerApply_UserNotFound(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.Apply(context.Background(), ports.ApplyFiatParams{
		UserID:            "does-not-exist",
		Type:              domain.TransactionTypeReceive,
		AmountCents:       100,
		CounterpartyLabel: "Bob",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "USR_001", appErr.Code)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestLedgerApply_StoresTxHash(t *testing.T) {
	f := newLedgerFixture(t)

	txn, err := f.svc.Apply(context.Background(), ports.ApplyFiatParams{
		UserID:            f.userID,
		Type:              domain.TransactionTypeReceive,
		AmountCents:       100,
		CounterpartyLabel: "Bridge",
		TxHash:            "0xcafe",
	})
	require.NoError(t, err)
	require.NotNil(t, txn.TxHash)
	assert.Equal(t, "0xcafe", *txn.TxHash)
}

func TestLedgerList_NewestFirst(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, ports.ApplyFiatParams{
		UserID:            f.userID,
		Type:              domain.TransactionTypeReceive,
		AmountCents:       100,
		CounterpartyLabel: "Latest",
	})
	require.NoError(t, err)

	txns, err := f.svc.List(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, txns, 3) // 2 seeds + 1 new
	assert.Equal(t, "Latest", txns[0].CounterpartyLabel)
}

func TestLedgerApply_ConcurrentSendsSerialize(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	// Ten racing sends of 25000 against 125000: exactly five may win.
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Apply(ctx, ports.ApplyFiatParams{
				UserID:            f.userID,
				Type:              domain.TransactionTypeSend,
				AmountCents:       25000,
				CounterpartyLabel: "Bob",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err != nil {
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "LED_001", appErr.Code)
			rejected++
		}
	}
	assert.Equal(t, 5, rejected)
	assert.Equal(t, int64(0), f.balance(t))
}
