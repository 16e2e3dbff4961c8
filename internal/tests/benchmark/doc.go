// Package benchmark holds performance benchmarks for the portal core.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Directory benchmarks run against several directory sizes; compare runs
// with:
//
//	go test -bench=. -benchmem -count=5 ./internal/tests/benchmark/... | tee bench.txt
//	benchstat old.txt new.txt
package benchmark
