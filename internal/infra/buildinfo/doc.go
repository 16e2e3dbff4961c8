// Package buildinfo exposes build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/symetrix360/portal-go/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/symetrix360/portal-go/internal/infra/buildinfo.Commit=abc123"
//
// GoVersion falls back to the running toolchain when not injected.
package buildinfo
