package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"

	"github.com/redis/go-redis/v9"
)

const publicDocKeyPrefix = "public_doc:"

// RedisPublicDocumentCache keeps recently served public documents keyed by
// their secure path. A cache failure is reported to the caller, which treats
// it as a miss.
type RedisPublicDocumentCache struct {
	client *redis.Client
}

func NewRedisPublicDocumentCache(client *redis.Client) *RedisPublicDocumentCache {
	return &RedisPublicDocumentCache{client: client}
}

func (c *RedisPublicDocumentCache) Get(ctx context.Context, securePath string) (models.Document, bool, error) {
	data, err := c.client.Get(ctx, publicDocKeyPrefix+securePath).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Document{}, false, nil
		}
		return models.Document{}, false, err
	}

	var document models.Document
	if err := json.Unmarshal(data, &document); err != nil {
		return models.Document{}, false, err
	}
	return document, true, nil
}

func (c *RedisPublicDocumentCache) Set(ctx context.Context, document models.Document, expireSeconds int) error {
	data, err := json.Marshal(document)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, publicDocKeyPrefix+document.SecurePath, data, time.Duration(expireSeconds)*time.Second).Err()
}

func (c *RedisPublicDocumentCache) Invalidate(ctx context.Context, securePath string) error {
	return c.client.Del(ctx, publicDocKeyPrefix+securePath).Err()
}
