package service

import (
	"context"
	"fmt"
	"time"

	"custodial-wallet/internal/core/domain"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

const recipientCacheTTL = 5 * time.Minute

// RecipientServiceImpl implements ports.RecipientService with an optional
// read-through cache in front of the directory.
type RecipientServiceImpl struct {
	repo  ports.RecipientRepository
	cache ports.RecipientCache // nil when caching is disabled
	log   zerolog.Logger
}

// NewRecipientService creates a new RecipientServiceImpl. cache may be nil.
func NewRecipientService(repo ports.RecipientRepository, cache ports.RecipientCache, log zerolog.Logger) *RecipientServiceImpl {
	return &RecipientServiceImpl{repo: repo, cache: cache, log: log}
}

// List returns the recipient directory, served from cache when possible.
func (s *RecipientServiceImpl) List(ctx context.Context) ([]domain.Recipient, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("recipient cache read failed, falling through to store")
		}
		if cached != nil {
			return cached, nil
		}
	}

	recipients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list recipients: %w", err))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, recipients, recipientCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("recipient cache write failed")
		}
	}

	return recipients, nil
}
