// Package cache fronts the page store with a Redis read-through cache keyed by page id.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/htmlpage/engine/internal/models"
	appErr "github.com/htmlpage/engine/pkg/errors"
	"github.com/htmlpage/engine/pkg/logger"
)

const keyPrefix = "htmlpage:page:"

// PageCache returns the cached page for id, or nil when no page exists.
type PageCache interface {
	GetPageByID(ctx context.Context, id int) (*models.HTMLPage, error)
}

// PageSource is the store consulted on a cache miss.
type PageSource interface {
	GetByID(ctx context.Context, id any, dest *models.HTMLPage) error
}

// RedisPageCache implements PageCache on top of Redis.
type RedisPageCache struct {
	rdb    redis.Cmdable
	source PageSource
	ttl    time.Duration
}

var _ PageCache = (*RedisPageCache)(nil)

func NewRedisPageCache(rdb redis.Cmdable, source PageSource, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{rdb: rdb, source: source, ttl: ttl}
}

// Key returns the Redis key holding page id.
func Key(id int) string {
	return keyPrefix + strconv.Itoa(id)
}

func (c *RedisPageCache) GetPageByID(ctx context.Context, id int) (*models.HTMLPage, error) {
	key := Key(id)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p models.HTMLPage
		if jerr := json.Unmarshal(raw, &p); jerr == nil {
			return &p, nil
		}
		logger.L().Warn("dropping undecodable cache entry", zap.String("key", key))
		_ = c.rdb.Del(ctx, key).Err()
	case errors.Is(err, redis.Nil):
	default:
		// Redis being down degrades to reading the store directly.
		logger.L().Warn("page cache read failed", zap.String("key", key), zap.Error(err))
	}

	var p models.HTMLPage
	if err := c.source.GetByID(ctx, id, &p); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if b, err := json.Marshal(&p); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			logger.L().Warn("page cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return &p, nil
}

// Invalidate evicts page id so the next read reloads it from the store.
func (c *RedisPageCache) Invalidate(ctx context.Context, id int) error {
	if err := c.rdb.Del(ctx, Key(id)).Err(); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "evict page failed").WithMeta("id", id)
	}
	return nil
}
