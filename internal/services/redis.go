package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rulebound/adventure/pkg/state"
)

// DefaultGameStateTTL is how long an idle session survives in Redis.
const DefaultGameStateTTL = 7 * 24 * time.Hour

// RedisStorage implements Storage over Redis. Snapshots are stored as JSON
// under gamestate:<id>.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

var _ Storage = (*RedisStorage)(nil)

func NewRedisStorage(addr string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &RedisStorage{
		client: rdb,
		logger: logger,
		ttl:    DefaultGameStateTTL,
	}
}

func gameStateKey(id uuid.UUID) string {
	return "gamestate:" + id.String()
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}

	if err := r.client.Set(ctx, gameStateKey(id), data, r.ttl).Err(); err != nil {
		r.logger.Error("redis SET failed", "id", id, "error", err)
		return fmt.Errorf("failed to save gamestate: %w", err)
	}

	r.logger.Debug("gamestate saved", "id", id, "bytes", len(data))
	return nil
}

func (r *RedisStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	data, err := r.client.Get(ctx, gameStateKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("redis GET failed", "id", id, "error", err)
		return nil, fmt.Errorf("failed to load gamestate: %w", err)
	}

	var gs state.GameState
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}
	return &gs, nil
}

func (r *RedisStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, gameStateKey(id)).Err(); err != nil {
		r.logger.Error("redis DEL failed", "id", id, "error", err)
		return fmt.Errorf("failed to delete gamestate: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("failed to close redis connection", "error", err)
		return err
	}
	return nil
}

// WaitForConnection waits for Redis to be available with retries.
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}
