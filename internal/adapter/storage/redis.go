package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/proexplore/pkg/retry"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RedisKVStorage struct {
	client *redis.Client
}

func NewRedisKVStorage(ctx context.Context, cfg RedisConfig) (RedisKVStorage, error) {
	const op = "NewRedisKVStorage"
	log := slog.With("op", op)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := retry.Do(ctx, pingRetry, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return RedisKVStorage{}, fmt.Errorf("%s: redis is unavailable: %w", op, err)
	}
	log.Info("redis is available", "addr", cfg.Addr)
	return RedisKVStorage{client}, nil
}

func (s RedisKVStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "RedisKVStorage.Get"

	v, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s RedisKVStorage) Set(ctx context.Context, key string, value []byte) error {
	const op = "RedisKVStorage.Set"

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisKVStorage) Close() {
	const op = "RedisKVStorage.Close"
	log := slog.With("op", op)

	log.Info("closing redis client...")
	if err := s.client.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("redis client is closed")
}
