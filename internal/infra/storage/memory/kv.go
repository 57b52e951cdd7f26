package memory

import (
	"context"
	"sync"

	"staycal/internal/infra/storage/blob"
)

// KV is a process-local byte store. Values are copied on the way in and out.
type KV struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes map[string]int
}

func NewKV() *KV {
	return &KV{values: make(map[string][]byte), writes: make(map[string]int)}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.values[key]
	if !ok {
		return nil, blob.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = append([]byte(nil), value...)
	k.writes[key]++
	return nil
}

func (k *KV) Remove(ctx context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.values, key)
	return nil
}

// Writes counts Set calls per key.
func (k *KV) Writes(key string) int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.writes[key]
}

var _ blob.KV = (*KV)(nil)
