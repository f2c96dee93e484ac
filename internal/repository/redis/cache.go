package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
)

const (
	toolKeyPrefix   = "tool:"
	defaultCacheTTL = 5 * time.Minute
)

// ToolCache stores tools by code. Get returns nil, nil on a miss.
type ToolCache interface {
	Get(ctx context.Context, code string) (*domain.Tool, error)
	Set(ctx context.Context, tool *domain.Tool) error
	Delete(ctx context.Context, code string) error
}

// RedisToolCache keeps JSON encoded tools in redis
type RedisToolCache struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ ToolCache = (*RedisToolCache)(nil)

func NewRedisToolCache(cfg config.RedisConfig) *RedisToolCache {
	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisToolCacheWithClient(client, time.Duration(cfg.TTLSeconds)*time.Second)
}

func NewRedisToolCacheWithClient(client *goredis.Client, ttl time.Duration) *RedisToolCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisToolCache{client: client, ttl: ttl}
}

func (c *RedisToolCache) Get(ctx context.Context, code string) (*domain.Tool, error) {
	data, err := c.client.Get(ctx, toolKeyPrefix+code).Bytes()
	if err == goredis.Nil {
		logger.Debug("Tool cache miss", "tool_code", code)
		return nil, nil
	}
	if err != nil {
		logger.Error("Tool cache get error", "tool_code", code, "error", err)
		return nil, err
	}

	var tool domain.Tool
	if err := json.Unmarshal(data, &tool); err != nil {
		return nil, err
	}
	logger.Debug("Tool cache hit", "tool_code", code)
	return &tool, nil
}

func (c *RedisToolCache) Set(ctx context.Context, tool *domain.Tool) error {
	data, err := json.Marshal(tool)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, toolKeyPrefix+tool.Code, data, c.ttl).Err(); err != nil {
		logger.Error("Tool cache set error", "tool_code", tool.Code, "error", err)
		return err
	}
	return nil
}

func (c *RedisToolCache) Delete(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, toolKeyPrefix+code).Err(); err != nil {
		logger.Error("Tool cache delete error", "tool_code", code, "error", err)
		return err
	}
	return nil
}

// Ping checks the connection at startup
func (c *RedisToolCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisToolCache) Close() error {
	return c.client.Close()
}
