package domain

import "time"

// Recipient is static reference data for the send flow, seeded out-of-band
// and read-only from the engine's perspective.
type Recipient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}
