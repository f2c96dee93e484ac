package redis

import (
	"context"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
)

// CachedToolRepository serves GetByCode from the cache and falls back to the
// wrapped repository. Availability flips go straight to the wrapped repository
// and drop the cached entry, so a stale entry can never win a reservation.
// Only available tools are cached: a read that races a Release must not pin
// an out-of-date "rented" copy for the whole TTL.
type CachedToolRepository struct {
	next  repository.ToolRepository
	cache ToolCache
}

var _ repository.ToolRepository = (*CachedToolRepository)(nil)

func NewCachedToolRepository(next repository.ToolRepository, cache ToolCache) *CachedToolRepository {
	return &CachedToolRepository{next: next, cache: cache}
}

func (r *CachedToolRepository) Create(ctx context.Context, tool *domain.Tool) error {
	if err := r.next.Create(ctx, tool); err != nil {
		return err
	}
	r.invalidate(ctx, tool.Code)
	return nil
}

func (r *CachedToolRepository) GetByCode(ctx context.Context, code string) (*domain.Tool, error) {
	if tool, err := r.cache.Get(ctx, code); err == nil && tool != nil {
		return tool, nil
	}

	tool, err := r.next.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !tool.Available {
		return tool, nil
	}
	if err := r.cache.Set(ctx, tool); err != nil {
		logger.Warn("Failed to cache tool", "tool_code", code, "error", err)
	}
	return tool, nil
}

func (r *CachedToolRepository) List(ctx context.Context) ([]domain.Tool, error) {
	return r.next.List(ctx)
}

func (r *CachedToolRepository) TryReserve(ctx context.Context, code string) (bool, error) {
	ok, err := r.next.TryReserve(ctx, code)
	if err == nil && ok {
		r.invalidate(ctx, code)
	}
	return ok, err
}

func (r *CachedToolRepository) Release(ctx context.Context, code string) (bool, error) {
	ok, err := r.next.Release(ctx, code)
	if err == nil && ok {
		r.invalidate(ctx, code)
	}
	return ok, err
}

func (r *CachedToolRepository) invalidate(ctx context.Context, code string) {
	if err := r.cache.Delete(ctx, code); err != nil {
		logger.Warn("Failed to invalidate cached tool", "tool_code", code, "error", err)
	}
}
