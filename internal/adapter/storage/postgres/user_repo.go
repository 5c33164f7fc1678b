package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user within a database transaction. A concurrent
// insert for the same email surfaces as ports.ErrDuplicateEmail via the
// unique constraint.
func (r *UserRepo) Create(ctx context.Context, tx pgx.Tx, u *domain.User) error {
	query := `INSERT INTO users (id, email, wallet_address, display_name, balance_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		u.ID, u.Email, u.WalletAddress, u.DisplayName, u.BalanceCents, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ports.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail fetches a user by email (non-locking read).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, wallet_address, display_name, balance_cents, created_at
		FROM users WHERE email = $1`

	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetByID fetches a user by id (non-locking read).
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, email, wallet_address, display_name, balance_cents, created_at
		FROM users WHERE id = $1`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a user by id with pessimistic locking.
// This MUST be called within a transaction.
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.User, error) {
	query := `SELECT id, email, wallet_address, display_name, balance_cents, created_at
		FROM users WHERE id = $1 FOR UPDATE`

	return scanUser(tx.QueryRow(ctx, query, id))
}

// UpdateWalletAddress back-fills the wallet address on an existing user.
func (r *UserRepo) UpdateWalletAddress(ctx context.Context, id string, walletAddress string) error {
	query := `UPDATE users SET wallet_address = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, walletAddress, id)
	if err != nil {
		return fmt.Errorf("update wallet address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// UpdateDisplayName updates the display name on an existing user.
func (r *UserRepo) UpdateDisplayName(ctx context.Context, id string, displayName string) error {
	query := `UPDATE users SET display_name = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, displayName, id)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// AdjustBalance applies a signed delta within a transaction. The statement
// itself guards the non-negative invariant, backstopping the service-level
// check performed under the row lock.
func (r *UserRepo) AdjustBalance(ctx context.Context, tx pgx.Tx, id string, deltaCents int64) error {
	query := `UPDATE users SET balance_cents = balance_cents + $1
		WHERE id = $2 AND balance_cents + $1 >= 0`

	tag, err := tx.Exec(ctx, query, deltaCents, id)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance adjustment rejected for user %s", id)
	}
	return nil
}

// Delete removes a user row within a transaction. Dependent transaction
// rows must be deleted first to preserve referential integrity.
func (r *UserRepo) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// scanUser is a helper to scan a single row into a User.
func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.WalletAddress, &u.DisplayName, &u.BalanceCents, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
