// Package config provides the portal server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default configuration values
//   - verify.go: validation (addresses, TLS pairs, enums, paths)
//   - sanitize.go: log sanitization (hide sensitive values)
//
// Configuration is loaded via internal/infra/confloader from defaults,
// a YAML file and PORTAL_ environment variables, in that order.
package config
