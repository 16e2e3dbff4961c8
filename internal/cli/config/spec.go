package config

// CLIConfig is the configuration for portal-cli.
type CLIConfig struct {
	DefaultServer string `yaml:"default_server" json:"default_server"`
	DefaultOutput string `yaml:"default_output" json:"default_output"` // table, json, yaml
}

// DefaultServer is used when neither the file nor a flag names one.
const DefaultServer = "http://localhost:5080"

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: DefaultServer,
		DefaultOutput: "table",
	}
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{"default_server", "default_output"}
}
