package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"custodial-wallet/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const recipientKey = "recipients:directory"

// RecipientCache implements ports.RecipientCache using Redis. The recipient
// directory is static reference data, so a short TTL is plenty.
type RecipientCache struct {
	client *goredis.Client
}

// NewRecipientCache creates a new Redis-backed recipient cache.
func NewRecipientCache(client *goredis.Client) *RecipientCache {
	return &RecipientCache{client: client}
}

// Get retrieves the cached recipient directory.
// Returns nil, nil on a cache miss.
func (c *RecipientCache) Get(ctx context.Context) ([]domain.Recipient, error) {
	val, err := c.client.Get(ctx, recipientKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis recipient get: %w", err)
	}
	var recipients []domain.Recipient
	if err := json.Unmarshal(val, &recipients); err != nil {
		return nil, fmt.Errorf("unmarshaling cached recipients: %w", err)
	}
	return recipients, nil
}

// Set stores the recipient directory with TTL.
func (c *RecipientCache) Set(ctx context.Context, recipients []domain.Recipient, ttl time.Duration) error {
	val, err := json.Marshal(recipients)
	if err != nil {
		return fmt.Errorf("marshaling recipients: %w", err)
	}
	if err := c.client.Set(ctx, recipientKey, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis recipient set: %w", err)
	}
	return nil
}
