// Package memory is the in-process store variant: users and transactions in
// process-lifetime maps behind the same ports as the Postgres adapter, so
// the engine is oblivious to the backend. The transactor brackets every
// check-and-write unit with a store-wide lock, which serializes concurrent
// sends the way row locking does on Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Store holds the ledger state. Constructed once at process start.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*domain.User // keyed by user id
	emails     map[string]string       // email -> user id
	fiat       map[string][]domain.Transaction
	crypto     map[string][]domain.CryptoTransaction
	recipients []domain.Recipient
}

// NewStore creates an empty store with the recipient directory seeded.
func NewStore() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
		fiat:   make(map[string][]domain.Transaction),
		crypto: make(map[string][]domain.CryptoTransaction),
		recipients: []domain.Recipient{
			{ID: "r1", Name: "Acme Corp", Nickname: "acme", CreatedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
			{ID: "r2", Name: "Jane Smith", Nickname: "jane", CreatedAt: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)},
			{ID: "r3", Name: "Global Payments Inc", Nickname: "gpi", CreatedAt: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)},
		},
	}
}

// --- Transactor ---

// memTx satisfies pgx.Tx for the ports' transaction-scoped methods. Begin
// takes the store-wide write lock; Commit/Rollback release it exactly once.
// Only Commit and Rollback are implemented; nothing else is ever called on
// an in-memory transaction.
type memTx struct {
	pgx.Tx
	release func()
	once    sync.Once
}

func (t *memTx) Commit(_ context.Context) error {
	t.once.Do(t.release)
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	t.once.Do(t.release)
	return nil
}

// Transactor implements ports.DBTransactor over the store lock.
type Transactor struct {
	store *Store
}

// NewTransactor creates a Transactor for the store.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// Begin acquires the store-wide lock. The returned transaction must be
// finished with Commit or Rollback or the store deadlocks.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.store.mu.Lock()
	return &memTx{release: t.store.mu.Unlock}, nil
}

// --- User repository ---

// UserRepo implements ports.UserRepository over the store.
type UserRepo struct {
	store *Store
}

// NewUserRepo creates a UserRepo for the store.
func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// Create inserts a user. The caller holds the store lock via the transactor.
func (r *UserRepo) Create(_ context.Context, _ pgx.Tx, u *domain.User) error {
	if _, exists := r.store.emails[u.Email]; exists {
		return ports.ErrDuplicateEmail
	}
	cp := *u
	r.store.users[u.ID] = &cp
	r.store.emails[u.Email] = u.ID
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.emails[email]
	if !ok {
		return nil, nil
	}
	return copyUser(r.store.users[id]), nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return copyUser(r.store.users[id]), nil
}

// GetByIDForUpdate reads under the lock already held by the transactor.
func (r *UserRepo) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id string) (*domain.User, error) {
	return copyUser(r.store.users[id]), nil
}

func (r *UserRepo) UpdateWalletAddress(_ context.Context, id string, walletAddress string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return errUserMissing(id)
	}
	u.WalletAddress = walletAddress
	return nil
}

func (r *UserRepo) UpdateDisplayName(_ context.Context, id string, displayName string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return errUserMissing(id)
	}
	u.DisplayName = displayName
	return nil
}

// AdjustBalance applies a signed delta, guarding the non-negative invariant.
func (r *UserRepo) AdjustBalance(_ context.Context, _ pgx.Tx, id string, deltaCents int64) error {
	u, ok := r.store.users[id]
	if !ok {
		return errUserMissing(id)
	}
	if u.BalanceCents+deltaCents < 0 {
		return errNegativeBalance(id)
	}
	u.BalanceCents += deltaCents
	return nil
}

func (r *UserRepo) Delete(_ context.Context, _ pgx.Tx, id string) error {
	u, ok := r.store.users[id]
	if !ok {
		return errUserMissing(id)
	}
	delete(r.store.emails, u.Email)
	delete(r.store.users, id)
	return nil
}

// --- Fiat transaction repository ---

// TransactionRepo implements ports.TransactionRepository over the store.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepo creates a TransactionRepo for the store.
func NewTransactionRepo(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

func (r *TransactionRepo) Create(_ context.Context, _ pgx.Tx, t *domain.Transaction) error {
	if _, ok := r.store.users[t.UserID]; !ok {
		return errUserMissing(t.UserID)
	}
	r.store.fiat[t.UserID] = append(r.store.fiat[t.UserID], *t)
	return nil
}

func (r *TransactionRepo) ListByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	txns := append([]domain.Transaction{}, r.store.fiat[userID]...)
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

func (r *TransactionRepo) DeleteByUser(_ context.Context, _ pgx.Tx, userID string) error {
	delete(r.store.fiat, userID)
	return nil
}

// --- Crypto transaction repository ---

// CryptoRepo implements ports.CryptoTransactionRepository over the store.
type CryptoRepo struct {
	store *Store
}

// NewCryptoRepo creates a CryptoRepo for the store.
func NewCryptoRepo(store *Store) *CryptoRepo {
	return &CryptoRepo{store: store}
}

func (r *CryptoRepo) Create(_ context.Context, _ pgx.Tx, t *domain.CryptoTransaction) error {
	if _, ok := r.store.users[t.UserID]; !ok {
		return errUserMissing(t.UserID)
	}
	r.store.crypto[t.UserID] = append(r.store.crypto[t.UserID], *t)
	return nil
}

func (r *CryptoRepo) ListByUser(_ context.Context, userID string) ([]domain.CryptoTransaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	txns := append([]domain.CryptoTransaction{}, r.store.crypto[userID]...)
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

func (r *CryptoRepo) SumByAsset(_ context.Context, userID string, asset domain.Asset) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return domain.SumBalance(r.store.crypto[userID], asset)
}

func (r *CryptoRepo) SumByAssetForUpdate(_ context.Context, _ pgx.Tx, userID string, asset domain.Asset) (decimal.Decimal, error) {
	return domain.SumBalance(r.store.crypto[userID], asset)
}

func (r *CryptoRepo) DeleteByUser(_ context.Context, _ pgx.Tx, userID string) error {
	delete(r.store.crypto, userID)
	return nil
}

// --- Recipient repository ---

// RecipientRepo implements ports.RecipientRepository over the store.
type RecipientRepo struct {
	store *Store
}

// NewRecipientRepo creates a RecipientRepo for the store.
func NewRecipientRepo(store *Store) *RecipientRepo {
	return &RecipientRepo{store: store}
}

func (r *RecipientRepo) List(_ context.Context) ([]domain.Recipient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.Recipient{}, r.store.recipients...), nil
}

// --- helpers ---

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
