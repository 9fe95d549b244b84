package models

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisDocuments stores each document as a plain Redis string under prefix+key.
type RedisDocuments struct {
	client *redis.Client
	prefix string
}

func NewRedisDocuments(client *redis.Client, prefix string) *RedisDocuments {
	return &RedisDocuments{client: client, prefix: prefix}
}

func (r *RedisDocuments) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return val, nil
}

func (r *RedisDocuments) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}
