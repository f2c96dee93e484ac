package redis

import (
	"context"
	"errors"
	"testing"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	tools   map[string]domain.Tool
	gets    int
	hits    int
	deletes int
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{tools: make(map[string]domain.Tool)}
}

func (c *fakeCache) Get(ctx context.Context, code string) (*domain.Tool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	t, ok := c.tools[code]
	if !ok {
		return nil, nil
	}
	c.hits++
	return &t, nil
}

func (c *fakeCache) Set(ctx context.Context, tool *domain.Tool) error {
	c.tools[tool.Code] = *tool
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, code string) error {
	c.deletes++
	delete(c.tools, code)
	return nil
}

func chainsaw() domain.Tool {
	return domain.Tool{
		Code:         "CHNS",
		Category:     domain.ToolCategoryChainsaw,
		Brand:        domain.ToolBrandStihl,
		DailyCharge:  decimal.RequireFromString("1.49"),
		ChargePolicy: domain.ChargePolicy{Weekday: true, Holiday: true},
		Available:    true,
	}
}

func TestCachedToolRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	repo := NewCachedToolRepository(memory.NewToolRepository(chainsaw()), cache)

	tool, err := repo.GetByCode(ctx, "CHNS")
	require.NoError(t, err)
	assert.Equal(t, "CHNS", tool.Code)
	assert.Equal(t, 0, cache.hits)

	tool, err = repo.GetByCode(ctx, "CHNS")
	require.NoError(t, err)
	assert.True(t, tool.Available)
	assert.Equal(t, 1, cache.hits)
}

func TestCachedToolRepository_ReserveInvalidates(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	repo := NewCachedToolRepository(memory.NewToolRepository(chainsaw()), cache)

	_, err := repo.GetByCode(ctx, "CHNS")
	require.NoError(t, err)

	ok, err := repo.TryReserve(ctx, "CHNS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotContains(t, cache.tools, "CHNS")

	tool, err := repo.GetByCode(ctx, "CHNS")
	require.NoError(t, err)
	assert.False(t, tool.Available)

	ok, _ = repo.TryReserve(ctx, "CHNS")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.deletes, "a lost reservation leaves the cache alone")

	ok, _ = repo.Release(ctx, "CHNS")
	assert.True(t, ok)
	assert.Equal(t, 2, cache.deletes)
}

func TestCachedToolRepository_CacheErrorFallsBack(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	repo := NewCachedToolRepository(memory.NewToolRepository(chainsaw()), cache)

	tool, err := repo.GetByCode(ctx, "CHNS")
	require.NoError(t, err)
	assert.Equal(t, "CHNS", tool.Code)

	_, err = repo.GetByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// releaseAfterRead frees the tool between the backing read and the cache write.
type releaseAfterRead struct {
	repository.ToolRepository
	released bool
}

func (r *releaseAfterRead) GetByCode(ctx context.Context, code string) (*domain.Tool, error) {
	tool, err := r.ToolRepository.GetByCode(ctx, code)
	if err == nil && !r.released {
		r.released = true
		if _, err := r.ToolRepository.Release(ctx, code); err != nil {
			return nil, err
		}
	}
	return tool, err
}

func TestCachedToolRepository_ReleaseDuringReadIsNotPinned(t *testing.T) {
	ctx := context.Background()
	rented := chainsaw()
	rented.Available = false
	cache := newFakeCache()
	backing := &releaseAfterRead{ToolRepository: memory.NewToolRepository(rented)}
	repo := NewCachedToolRepository(backing, cache)

	tool, err := repo.GetByCode(ctx, "CHNS")
	require.NoError(t, err)
	assert.False(t, tool.Available)
	assert.NotContains(t, cache.tools, "CHNS")

	tool, err = repo.GetByCode(ctx, "CHNS")
	require.NoError(t, err)
	assert.True(t, tool.Available)

	ok, err := repo.TryReserve(ctx, "CHNS")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCachedToolRepository_RentedToolNotCached(t *testing.T) {
	ctx := context.Background()
	rented := chainsaw()
	rented.Available = false
	cache := newFakeCache()
	repo := NewCachedToolRepository(memory.NewToolRepository(rented), cache)

	_, err := repo.GetByCode(ctx, "CHNS")
	require.NoError(t, err)
	assert.Empty(t, cache.tools)
	assert.Equal(t, 0, cache.hits)
}
