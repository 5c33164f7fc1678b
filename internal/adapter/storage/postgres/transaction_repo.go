package postgres

import (
	"context"
	"fmt"

	"custodial-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts an immutable fiat transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, user_id, type, amount_cents, counterparty_label, tx_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.UserID, t.Type, t.AmountCents, t.CounterpartyLabel, t.TxHash, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByUser fetches a user's transactions, most recent first.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `SELECT id, user_id, type, amount_cents, counterparty_label, tx_hash, created_at
		FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.AmountCents, &t.CounterpartyLabel, &t.TxHash, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// DeleteByUser removes all of a user's transactions within a transaction.
func (r *TransactionRepo) DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}
