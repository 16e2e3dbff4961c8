package config

import (
	"fmt"

	"github.com/symetrix360/portal-go/internal/infra/confloader"
)

// Load builds the configuration from defaults, the optional YAML file at
// path and PORTAL_ environment variables, then verifies it.
func Load(path string, overrides map[string]any) (*ServerConfig, error) {
	cfg := Default()

	l := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := l.Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
