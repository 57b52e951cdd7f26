package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"staycal/internal/infra/storage/blob"
)

// KV stores blob collections as plain Redis strings without expiry.
type KV struct {
	client goredis.Cmdable
}

func NewKV(client goredis.Cmdable) *KV {
	return &KV{client: client}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := k.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, blob.ErrKeyNotFound
	}
	return v, err
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	return k.client.Set(ctx, key, value, 0).Err()
}

func (k *KV) Remove(ctx context.Context, key string) error {
	return k.client.Del(ctx, key).Err()
}

var _ blob.KV = (*KV)(nil)
