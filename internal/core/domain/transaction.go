package domain

import "time"

// TransactionType represents the direction of a ledger movement.
type TransactionType string

const (
	TransactionTypeSend    TransactionType = "send"
	TransactionTypeReceive TransactionType = "receive"
)

// Valid reports whether the type is one of the two known directions.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeSend || t == TransactionTypeReceive
}

// Transaction is an immutable fiat ledger entry in minor units.
type Transaction struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	Type              TransactionType `json:"type"`
	AmountCents       int64           `json:"amountCents"`
	CounterpartyLabel string          `json:"counterpartyLabel"`
	TxHash            *string         `json:"txHash,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}
