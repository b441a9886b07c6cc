package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	client := redis.NewClient(options)

	return client
}

func NewRedisViewCache(client *redis.Client, ttl time.Duration) *RedisViewCache {
	return &RedisViewCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisViewCache) GetItemView(ctx context.Context, itemID int64) (*models.ItemWithBookings, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("item_view:%d", itemID)
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item view from redis: %w", err)
	}

	var view models.ItemWithBookings
	if err := json.Unmarshal([]byte(val), &view); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item view: %w", err)
	}

	return &view, nil
}

func (r *RedisViewCache) SetItemView(ctx context.Context, view *models.ItemWithBookings) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("item_view:%d", view.ID)
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal item view: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set item view in redis: %w", err)
	}

	return nil
}

func (r *RedisViewCache) InvalidateItem(ctx context.Context, itemID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("item_view:%d", itemID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete item view from redis: %w", err)
	}
	return nil
}

func (r *RedisViewCache) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("rate_limit:%d", userID)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
