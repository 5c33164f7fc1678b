package postgres

import (
	"context"
	"fmt"

	"custodial-wallet/internal/core/domain"
)

// RecipientRepo implements ports.RecipientRepository.
type RecipientRepo struct {
	pool Pool
}

// NewRecipientRepo creates a new RecipientRepo.
func NewRecipientRepo(pool Pool) *RecipientRepo {
	return &RecipientRepo{pool: pool}
}

// List fetches the static recipient directory.
func (r *RecipientRepo) List(ctx context.Context) ([]domain.Recipient, error) {
	query := `SELECT id, name, nickname, created_at FROM recipients ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	recipients := []domain.Recipient{}
	for rows.Next() {
		rec := domain.Recipient{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Nickname, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipient row: %w", err)
		}
		recipients = append(recipients, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipient rows: %w", err)
	}
	return recipients, nil
}
