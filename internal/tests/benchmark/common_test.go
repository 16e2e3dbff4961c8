package benchmark

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/storage/memory"
)

// DirectorySizes are the user counts directory benchmarks run against.
var DirectorySizes = []int{100, 1000, 10000}

// seedIdentities returns n identities on top of the demo accounts.
func seedIdentities(n int) []*domain.Identity {
	now := time.Now()
	seed := domain.DemoIdentities(now)
	roles := []domain.Role{domain.RoleClient, domain.RoleSupport, domain.RoleAdmin}
	for i := 0; i < n; i++ {
		seed = append(seed, &domain.Identity{
			ID:        fmt.Sprintf("%d", 1000+i),
			Email:     fmt.Sprintf("user%d@bench.example.com", i),
			Name:      fmt.Sprintf("Bench User %d", i),
			Role:      roles[i%len(roles)],
			CreatedAt: now,
		})
	}
	return seed
}

func newDirectory(b *testing.B, n int) *memory.Directory {
	b.Helper()
	dir, err := memory.NewDirectory(seedIdentities(n))
	if err != nil {
		b.Fatalf("NewDirectory: %v", err)
	}
	return dir
}

// reportMemory reports heap usage after a forced GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
}

func runWithSizes(b *testing.B, benchFn func(b *testing.B, size int)) {
	for _, size := range DirectorySizes {
		b.Run(fmt.Sprintf("users_%d", size), func(b *testing.B) {
			benchFn(b, size)
		})
	}
}
