package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/symetrix360/portal-go/internal/cli/output"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".portal", "cli.yaml")
}

// Load reads the CLI configuration. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cli config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode cli config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write cli config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write cli config: %w", err)
	}
	return nil
}

// Validate checks field values.
func (c *CLIConfig) Validate() error {
	if c.DefaultServer == "" {
		return errors.New("default_server must not be empty")
	}
	if _, err := output.ParseFormat(c.DefaultOutput); err != nil {
		return fmt.Errorf("default_output: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (c *CLIConfig) Get(key string) (string, error) {
	switch key {
	case "default_server":
		return c.DefaultServer, nil
	case "default_output":
		return c.DefaultOutput, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set assigns key and validates the result. cfg is unchanged on error.
func (c *CLIConfig) Set(key, value string) error {
	next := *c
	switch key {
	case "default_server":
		next.DefaultServer = value
	case "default_output":
		next.DefaultOutput = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
