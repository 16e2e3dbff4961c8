package memory

import (
	"context"
	"sync/atomic"

	"github.com/symetrix360/portal-go/internal/storage"
	"github.com/symetrix360/portal-go/pkg/cmap"
)

// KV is an in-memory storage.KVEngine.
type KV struct {
	items  *cmap.Map[string, []byte]
	closed atomic.Bool
}

// NewKV creates an empty in-memory KV engine.
func NewKV() *KV {
	return &KV{items: cmap.New[string, []byte]()}
}

// Get retrieves a copy of the value stored under key.
func (kv *KV) Get(ctx context.Context, key []byte) ([]byte, error) {
	if kv.closed.Load() {
		return nil, storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := kv.items.Get(string(key))
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (kv *KV) Set(ctx context.Context, key, value []byte) error {
	if kv.closed.Load() {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	kv.items.Set(string(key), append([]byte(nil), value...))
	return nil
}

// Delete removes key.
func (kv *KV) Delete(ctx context.Context, key []byte) error {
	if kv.closed.Load() {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	kv.items.Delete(string(key))
	return nil
}

// Len returns the number of stored keys.
func (kv *KV) Len() int {
	return kv.items.Count()
}

// Close marks the engine closed; later calls return storage.ErrClosed.
func (kv *KV) Close() error {
	kv.closed.Store(true)
	return nil
}

var _ storage.KVEngine = (*KV)(nil)
