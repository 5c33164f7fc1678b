package service

import (
	"context"
	"testing"
	"time"

	"custodial-wallet/internal/adapter/storage/memory"
	redisadapter "custodial-wallet/internal/adapter/storage/redis"
	"custodial-wallet/internal/core/domain"
	"custodial-wallet/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRecipientRepo wraps the memory repo to observe store hits.
type countingRecipientRepo struct {
	inner *memory.RecipientRepo
	calls int
}

func (r *countingRecipientRepo) List(ctx context.Context) ([]domain.Recipient, error) {
	r.calls++
	return r.inner.List(ctx)
}

func TestRecipientList_NoCache(t *testing.T) {
	svc := NewRecipientService(memory.NewRecipientRepo(memory.NewStore()), nil, logger.New("error", false))

	recipients, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recipients, 3)
	assert.Equal(t, "Acme Corp", recipients[0].Name)
	assert.Equal(t, "acme", recipients[0].Nickname)
	assert.Equal(t, "Jane Smith", recipients[1].Name)
	assert.Equal(t, "Global Payments Inc", recipients[2].Name)
}

func TestRecipientList_ReadThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := &countingRecipientRepo{inner: memory.NewRecipientRepo(memory.NewStore())}
	svc := NewRecipientService(repo, redisadapter.NewRecipientCache(client), logger.New("error", false))
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, 1, repo.calls)

	// Second read is served from the cache.
	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)

	// Expired cache falls back to the store.
	mr.FastForward(recipientCacheTTL + time.Second)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
