package repository

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// ThrottledRepository wraps a repository with a token-bucket write limit,
// protecting a shared target store from a full-speed migration.
type ThrottledRepository struct {
	inner   domain.Repository
	limiter *rate.Limiter
}

// NewThrottledRepository limits writes to rps sustained with the given
// burst. rps <= 0 disables throttling and returns the inner repository
// unchanged.
func NewThrottledRepository(inner domain.Repository, rps float64, burst int) domain.Repository {
	if rps <= 0 {
		return inner
	}
	if burst < 1 {
		burst = 1
	}
	return &ThrottledRepository{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *ThrottledRepository) Write(ctx context.Context, entityType domain.EntityType, record map[string]any) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.inner.Write(ctx, entityType, record)
}
