// internal/storage/response_cache.go
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brv-workers/internal/models"
)

const responseCacheKey = "brv:form-responses"

// ResponseCache holds the most recently fetched batch of form responses in
// Redis, so repeated matcher runs do not hammer the Sheets API quota.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get returns the cached submissions, with found=false on a cache miss.
// A corrupt cache entry is treated as a miss, not an error.
func (c *ResponseCache) Get(ctx context.Context) ([]models.FormSubmission, bool, error) {
	val, err := c.client.Get(ctx, responseCacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read response cache: %w", err)
	}

	var subs []models.FormSubmission
	if err := json.Unmarshal([]byte(val), &subs); err != nil {
		return nil, false, nil
	}
	return subs, true, nil
}

func (c *ResponseCache) Set(ctx context.Context, subs []models.FormSubmission) error {
	data, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	if err := c.client.Set(ctx, responseCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write response cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached batch so the next read refetches from the
// source sheet.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, responseCacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate response cache: %w", err)
	}
	return nil
}
