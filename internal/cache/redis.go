package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/web3-frozen/todo-board/internal/model"
)

const statisticsKey = "todos:statistics"

// RedisCache holds single todos and the statistics snapshot. Every write to
// the store must invalidate the snapshot.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client, ttl: 5 * time.Minute}, nil
}

func (c *RedisCache) Get(ctx context.Context, id int64) (*model.Todo, error) {
	var todo model.Todo
	if err := c.getJSON(ctx, todoKey(id), &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *RedisCache) Set(ctx context.Context, todo *model.Todo) error {
	return c.setJSON(ctx, todoKey(todo.ID), todo)
}

func (c *RedisCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, todoKey(id)).Err()
}

func (c *RedisCache) Statistics(ctx context.Context) (*model.Statistics, error) {
	var stats model.Statistics
	if err := c.getJSON(ctx, statisticsKey, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetStatistics uses a short TTL: overdue counts drift with the clock even
// without writes.
func (c *RedisCache) SetStatistics(ctx context.Context, stats model.Statistics) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statisticsKey, data, time.Minute).Err()
}

func (c *RedisCache) InvalidateStatistics(ctx context.Context) error {
	return c.client.Del(ctx, statisticsKey).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) getJSON(ctx context.Context, key string, v any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (c *RedisCache) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func todoKey(id int64) string {
	return "todo:" + strconv.FormatInt(id, 10)
}
