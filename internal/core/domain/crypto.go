package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a supported crypto asset.
type Asset string

const (
	AssetETH  Asset = "ETH"
	AssetUSDC Asset = "USDC"
)

// ParseAsset validates an asset label.
func ParseAsset(s string) (Asset, error) {
	switch Asset(s) {
	case AssetETH, AssetUSDC:
		return Asset(s), nil
	}
	return "", fmt.Errorf("unknown asset: %q", s)
}

// Scale returns the fixed decimal precision amounts of this asset carry.
func (a Asset) Scale() int32 {
	if a == AssetUSDC {
		return 2
	}
	return 4
}

// FormatAmount renders a decimal at the asset's fixed precision.
func (a Asset) FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(a.Scale())
}

// CryptoTransaction is an immutable crypto ledger entry. Amounts are decimal
// strings at the asset's fixed precision; the per-asset balance is never
// stored, it is the signed sum over these rows.
type CryptoTransaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Type      TransactionType `json:"type"`
	Asset     Asset           `json:"asset"`
	Amount    string          `json:"amount"`
	Address   string          `json:"address"`
	TxHash    string          `json:"txHash"`
	Network   string          `json:"network"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Signed returns the amount with sends negated.
func (t CryptoTransaction) Signed() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", t.Amount, err)
	}
	if t.Type == TransactionTypeSend {
		return d.Neg(), nil
	}
	return d, nil
}

// SumBalance folds the signed amounts of all rows matching asset.
func SumBalance(txns []CryptoTransaction, asset Asset) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range txns {
		if t.Asset != asset {
			continue
		}
		signed, err := t.Signed()
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(signed)
	}
	return total, nil
}
