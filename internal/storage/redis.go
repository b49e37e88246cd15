package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisWriter keeps the latest catalog as a JSON blob under one key, with
// the producing run id stored beside it.
type RedisWriter struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisWriter parses a redis:// URL. A ttl of 0 keeps the snapshot forever.
func NewRedisWriter(redisURL, key string, ttl time.Duration) (*RedisWriter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisWriterFromClient(redis.NewClient(opts), key, ttl), nil
}

func NewRedisWriterFromClient(client *redis.Client, key string, ttl time.Duration) *RedisWriter {
	if key == "" {
		key = "catalog:latest"
	}
	return &RedisWriter{client: client, key: key, ttl: ttl}
}

func (r *RedisWriter) Name() string { return "redis" }

func (r *RedisWriter) Write(ctx context.Context, runID string, products []models.Product) error {
	data, err := Encode(products)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key, data, r.ttl)
		pipe.Set(ctx, r.key+":run_id", runID, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (r *RedisWriter) Read(ctx context.Context) ([]models.Product, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: redis key %s", ErrNotFound, r.key)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var products []models.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return products, nil
}

// RunID returns the id of the run that produced the stored snapshot.
func (r *RedisWriter) RunID(ctx context.Context) (string, error) {
	id, err := r.client.Get(ctx, r.key+":run_id").Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return id, err
}

func (r *RedisWriter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisWriter) Close() error {
	return r.client.Close()
}
