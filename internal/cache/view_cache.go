package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"matching-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// ViewCache holds the rebuilt relationship views for a short TTL so the
// read path does not hit the canonical collection on every request. The
// cache is strictly a projection: a miss or a Redis outage falls through
// to a rebuild from the canonical records.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewViewCache(addr, password string, db int, ttl time.Duration) *ViewCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &ViewCache{client: client, ttl: ttl}
}

func agentKey(agentID string) string {
	return "matching:views:agent:" + agentID
}

func gigKey(gigID string) string {
	return "matching:views:gig:" + gigID
}

func (c *ViewCache) GetAgentViews(ctx context.Context, agentID string) ([]models.RelationshipView, error) {
	return c.get(ctx, agentKey(agentID))
}

func (c *ViewCache) SetAgentViews(ctx context.Context, agentID string, views []models.RelationshipView) error {
	return c.set(ctx, agentKey(agentID), views)
}

func (c *ViewCache) GetGigViews(ctx context.Context, gigID string) ([]models.RelationshipView, error) {
	return c.get(ctx, gigKey(gigID))
}

func (c *ViewCache) SetGigViews(ctx context.Context, gigID string, views []models.RelationshipView) error {
	return c.set(ctx, gigKey(gigID), views)
}

// Invalidate drops both sides of a relationship after any transition.
func (c *ViewCache) Invalidate(ctx context.Context, agentID, gigID string) error {
	if err := c.client.Del(ctx, agentKey(agentID), gigKey(gigID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate view cache: %w", err)
	}
	return nil
}

func (c *ViewCache) get(ctx context.Context, key string) ([]models.RelationshipView, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read view cache: %w", err)
	}
	var views []models.RelationshipView
	if err := json.Unmarshal(data, &views); err != nil {
		return nil, fmt.Errorf("failed to decode cached views: %w", err)
	}
	return views, nil
}

func (c *ViewCache) set(ctx context.Context, key string, views []models.RelationshipView) error {
	data, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("failed to encode views: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write view cache: %w", err)
	}
	return nil
}

func (c *ViewCache) Close() error {
	return c.client.Close()
}
