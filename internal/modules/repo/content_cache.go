package repo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const contentKeyPrefix = "pagedrop:content:"

// ContentCache keeps the served content of a project, keyed by project id.
// File content never changes once written, so entries only need eviction on delete.
type ContentCache interface {
	Get(ctx context.Context, projectID int64) (string, bool, error)
	Set(ctx context.Context, projectID int64, content string) error
	Delete(ctx context.Context, projectID int64) error
}

type redisContentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewContentCache returns a redis backed cache, or a no-op cache when rdb is nil.
func NewContentCache(rdb *redis.Client, ttl time.Duration) ContentCache {
	if rdb == nil {
		return noopContentCache{}
	}
	return &redisContentCache{rdb: rdb, ttl: ttl}
}

func contentKey(projectID int64) string {
	return contentKeyPrefix + strconv.FormatInt(projectID, 10)
}

func (c *redisContentCache) Get(ctx context.Context, projectID int64) (string, bool, error) {
	v, err := c.rdb.Get(ctx, contentKey(projectID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *redisContentCache) Set(ctx context.Context, projectID int64, content string) error {
	return c.rdb.Set(ctx, contentKey(projectID), content, c.ttl).Err()
}

func (c *redisContentCache) Delete(ctx context.Context, projectID int64) error {
	return c.rdb.Del(ctx, contentKey(projectID)).Err()
}

type noopContentCache struct{}

func (noopContentCache) Get(context.Context, int64) (string, bool, error) { return "", false, nil }
func (noopContentCache) Set(context.Context, int64, string) error         { return nil }
func (noopContentCache) Delete(context.Context, int64) error              { return nil }
