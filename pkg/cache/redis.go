package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "crm:cache:"

// RedisBackend compartilha o cache entre réplicas da API. A validade fica
// dentro da entrada; a chave no Redis só expira após o período de retenção
// (zero mantém para sempre), para que o valor antigo continue disponível.
type RedisBackend struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisBackend(client *redis.Client, retention time.Duration) *RedisBackend {
	return &RedisBackend{client: client, retention: retention}
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return raw, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, redisKeyPrefix+key, payload, r.retention).Err()
}
