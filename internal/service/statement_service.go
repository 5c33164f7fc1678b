package service

import (
	"context"
	"encoding/csv"
	"strings"
	"time"

	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/money"
)

var statementHeader = []string{"Date", "Type", "Amount", "Counterparty", "Reference"}

// StatementServiceImpl implements ports.StatementService: CSV statements
// over the fiat transaction history. Amounts are pre-formatted currency
// strings, so fields containing separators get quoted by the writer.
type StatementServiceImpl struct {
	ledger ports.LedgerService
}

// NewStatementService creates a new StatementServiceImpl.
func NewStatementService(ledger ports.LedgerService) *StatementServiceImpl {
	return &StatementServiceImpl{ledger: ledger}
}

// Render produces the CSV statement for one user: header row, then one row
// per transaction, most recent first. A user with no history gets the
// header only.
func (s *StatementServiceImpl) Render(ctx context.Context, userID string) (string, error) {
	txns, err := s.ledger.List(ctx, userID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(statementHeader); err != nil {
		return "", err
	}
	for _, t := range txns {
		reference := ""
		if t.TxHash != nil {
			reference = *t.TxHash
		}
		row := []string{
			t.CreatedAt.Format(time.RFC3339),
			string(t.Type),
			money.FormatCents(t.AmountCents),
			t.CounterpartyLabel,
			reference,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return b.String(), nil
}
