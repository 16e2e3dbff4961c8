package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/symetrix360/portal-go/internal/storage"
)

func TestKV_BasicOperations(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	if _, err := kv.Get(ctx, []byte("missing")); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrKeyNotFound", err)
	}

	value := []byte(`{"id":"1"}`)
	if err := kv.Set(ctx, []byte("k"), value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Mutating the caller's slice must not affect the stored value.
	value[0] = 'X'
	got, err := kv.Get(ctx, []byte("k"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"id":"1"}` {
		t.Errorf("Get() = %s", got)
	}

	if err := kv.Delete(ctx, []byte("k")); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if kv.Len() != 0 {
		t.Errorf("Len() = %d after delete", kv.Len())
	}
	if err := kv.Delete(ctx, []byte("k")); err != nil {
		t.Errorf("Delete of missing key error = %v", err)
	}
}

func TestKV_Closed(t *testing.T) {
	kv := NewKV()
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := kv.Get(ctx, []byte("k")); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Get after Close = %v", err)
	}
	if err := kv.Set(ctx, []byte("k"), nil); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Set after Close = %v", err)
	}
}

func TestKV_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewKV().Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("Set with canceled ctx = %v", err)
	}
}
