package ident

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// New returns a fresh opaque identifier. Uniqueness is probabilistic.
func New() string {
	return uuid.New().String()
}

// Deterministic derives a stable 12-character lowercase hex identifier from
// seed. The same seed always yields the same identifier, so repeated
// registration of one external identity resolves to one internal record.
func Deterministic(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:12]
}

// UserID derives the internal user id for an email address.
func UserID(email string) string {
	return Deterministic("user:" + email)
}

// SyntheticTxHash returns a locally generated 0x-prefixed 64-hex-character
// transaction hash, standing in for an on-chain identifier when no real
// chain submission occurred. Keccak-256 keeps the shape of an Ethereum hash.
func SyntheticTxHash() string {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing is unrecoverable for a demo ledger; fall back
		// to a uuid-derived digest rather than returning an error up-stack.
		copy(seed[:], uuid.New().String())
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(seed[:])
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
