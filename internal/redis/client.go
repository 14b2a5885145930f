package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"genetix/internal/config"
	"genetix/internal/domain"
)

const lobbyKey = "lobby:open"

func New(config *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       0,
	})
}

func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// LobbyCache caches the list of battles waiting for an opponent. Any
// escrow state transition invalidates it; readers fall back to the
// database on a miss.
type LobbyCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLobbyCache(rdb *redis.Client) *LobbyCache {
	return &LobbyCache{rdb: rdb, ttl: 30 * time.Second}
}

func (c *LobbyCache) Get(ctx context.Context) ([]*domain.Battle, error) {
	value, err := c.rdb.Get(ctx, lobbyKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var battles []*domain.Battle
	if err := json.Unmarshal([]byte(value), &battles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lobby: %w", err)
	}

	return battles, nil
}

func (c *LobbyCache) Set(ctx context.Context, battles []*domain.Battle) error {
	data, err := json.Marshal(battles)
	if err != nil {
		return fmt.Errorf("failed to marshal lobby: %w", err)
	}

	return c.rdb.Set(ctx, lobbyKey, data, c.ttl).Err()
}

func (c *LobbyCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, lobbyKey).Err()
}
