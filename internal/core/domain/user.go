package domain

import "time"

// User is the application-level ledger record for one authenticated
// identity. Authentication and wallet-key custody live with the external
// identity provider; this row owns only the fiat balance and display data.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"walletAddress"`
	DisplayName   string    `json:"displayName"`
	BalanceCents  int64     `json:"balanceCents"` // Minor units, never negative
	CreatedAt     time.Time `json:"createdAt"`
}
