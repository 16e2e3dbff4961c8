// Package cmap provides a sharded concurrent map.
//
// Each shard carries its own RWMutex, so unrelated keys do not contend.
// The HTTP layer keys per-client rate limiters by remote address here and
// the in-memory KV engine keeps its records here.
//
//	m := cmap.New[string, *rate.Limiter]()
//	lim, _ := m.GetOrSet(ip, rate.NewLimiter(r, b))
//
// Iteration is shard by shard and is not a consistent snapshot.
package cmap
