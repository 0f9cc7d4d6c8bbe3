package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"moodtrack.app/config"
)

// RedisStore is a KeyValueStore backed by a Redis instance. Records are
// durable for the lifetime of the Redis dataset; no TTL is applied.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	slog.Info("Redis storage connected successfully", "addr", cfg.Addr)

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrKeyNotFound
		}
		slog.Error("Redis get error", "error", err, "key", key)
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		slog.Error("Redis set error", "error", err, "key", key)
		return err
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
