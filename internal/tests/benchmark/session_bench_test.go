package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/storage"
	"github.com/symetrix360/portal-go/internal/storage/memory"
	"github.com/symetrix360/portal-go/internal/telemetry/logger"
)

func sessionIdentity() *domain.Identity {
	return &domain.Identity{
		ID:         "4",
		Email:      "john.smith@company.com",
		Name:       "John Smith",
		Role:       domain.RoleClient,
		Department: "Finance",
		CreatedAt:  time.Now(),
	}
}

func benchSaveLoad(b *testing.B, kv storage.KVEngine) {
	ctx := context.Background()
	store := storage.NewSessionStore(kv, storage.WithSessionLogger(logger.Nop()))
	identity := sessionIdentity()

	b.Run("save", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			store.Save(ctx, identity)
		}
	})

	store.Save(ctx, identity)
	b.Run("load", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if store.Load(ctx) == nil {
				b.Fatal("session lost")
			}
		}
	})
}

func BenchmarkSessionStore_Memory(b *testing.B) {
	benchSaveLoad(b, memory.NewKV())
}

func BenchmarkSessionStore_Badger(b *testing.B) {
	cfg := storage.DefaultKVConfig(b.TempDir())
	cfg.Badger.GCInterval = 0

	for _, sync := range []bool{false, true} {
		name := "async"
		if sync {
			name = "sync"
		}
		b.Run(name, func(b *testing.B) {
			cfg.Dir = b.TempDir()
			cfg.Badger.SyncWrites = sync
			engine, err := storage.NewBadgerEngine(cfg, logger.Nop())
			if err != nil {
				b.Fatalf("NewBadgerEngine: %v", err)
			}
			defer engine.Close()
			benchSaveLoad(b, engine)
		})
	}
}
