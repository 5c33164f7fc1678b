package postgres

import (
	"context"
	"fmt"

	"custodial-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// signedSumQuery derives the per-asset balance as the signed sum over all
// matching rows. Cast to text so the numeric survives the driver unchanged.
const signedSumQuery = `SELECT COALESCE(SUM(
		CASE WHEN type = 'receive' THEN amount::numeric
		     WHEN type = 'send' THEN -amount::numeric
		     ELSE 0 END
	), 0)::text
	FROM crypto_transactions WHERE user_id = $1 AND asset = $2`

// CryptoRepo implements ports.CryptoTransactionRepository.
type CryptoRepo struct {
	pool Pool
}

// NewCryptoRepo creates a new CryptoRepo.
func NewCryptoRepo(pool Pool) *CryptoRepo {
	return &CryptoRepo{pool: pool}
}

// Create inserts an immutable crypto transaction within a database transaction.
func (r *CryptoRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.CryptoTransaction) error {
	query := `INSERT INTO crypto_transactions (id, user_id, type, asset, amount, address, tx_hash, network, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.UserID, t.Type, t.Asset, t.Amount, t.Address, t.TxHash, t.Network, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert crypto transaction: %w", err)
	}
	return nil
}

// ListByUser fetches a user's crypto transactions across both assets,
// most recent first.
func (r *CryptoRepo) ListByUser(ctx context.Context, userID string) ([]domain.CryptoTransaction, error) {
	query := `SELECT id, user_id, type, asset, amount, address, tx_hash, network, created_at
		FROM crypto_transactions WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list crypto transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.CryptoTransaction{}
	for rows.Next() {
		t := domain.CryptoTransaction{}
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Asset, &t.Amount, &t.Address, &t.TxHash, &t.Network, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan crypto transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crypto transaction rows: %w", err)
	}
	return txns, nil
}

// SumByAsset derives the balance for (userID, asset) with a non-locking read.
func (r *CryptoRepo) SumByAsset(ctx context.Context, userID string, asset domain.Asset) (decimal.Decimal, error) {
	return scanSum(r.pool.QueryRow(ctx, signedSumQuery, userID, asset))
}

// SumByAssetForUpdate derives the balance inside a transaction that already
// holds the user's row lock, so the check-and-insert unit is serialized.
func (r *CryptoRepo) SumByAssetForUpdate(ctx context.Context, tx pgx.Tx, userID string, asset domain.Asset) (decimal.Decimal, error) {
	return scanSum(tx.QueryRow(ctx, signedSumQuery, userID, asset))
}

// DeleteByUser removes all of a user's crypto transactions within a transaction.
func (r *CryptoRepo) DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM crypto_transactions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete crypto transactions: %w", err)
	}
	return nil
}

func scanSum(row pgx.Row) (decimal.Decimal, error) {
	var raw string
	if err := row.Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("scan signed sum: %w", err)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse signed sum %q: %w", raw, err)
	}
	return d, nil
}
