package config

import "time"

// ServerConfig is the root configuration of portal-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server" yaml:"server" json:"server"`
	Storage StorageSection `koanf:"storage" yaml:"storage" json:"storage"`
	Auth    AuthSection    `koanf:"auth" yaml:"auth" json:"auth"`
	Log     LogSection     `koanf:"log" yaml:"log" json:"log"`
}

// ServerSection configures the HTTP surface.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http" yaml:"http" json:"http"`

	// Debug adds diagnostics to landing responses and enables debug routes.
	Debug bool `koanf:"debug" yaml:"debug" json:"debug"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// LoginRateLimit is the sustained login/register rate per client IP,
	// in requests per second. Zero disables limiting.
	LoginRateLimit float64 `koanf:"login_rate_limit" yaml:"login_rate_limit" json:"login_rate_limit"`
	LoginRateBurst int     `koanf:"login_rate_burst" yaml:"login_rate_burst" json:"login_rate_burst"`

	// TrustedProxies lists the reverse proxies (IPs or CIDRs) whose
	// X-Forwarded-For header names the client. Empty trusts only the peer.
	TrustedProxies []string `koanf:"trusted_proxies" yaml:"trusted_proxies" json:"trusted_proxies"`

	EnableAudit     bool          `koanf:"enable_audit" yaml:"enable_audit" json:"enable_audit"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr        string `koanf:"addr" yaml:"addr" json:"addr"`
	TLSCertFile string `koanf:"tls_cert_file" yaml:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file" yaml:"tls_key_file" json:"tls_key_file"`
}

// TLSEnabled reports whether both halves of the key pair are configured.
func (c HTTPConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// StorageSection configures session persistence.
type StorageSection struct {
	// Engine is "badger" (durable) or "memory".
	Engine     string        `koanf:"engine" yaml:"engine" json:"engine"`
	DataDir    string        `koanf:"data_dir" yaml:"data_dir" json:"data_dir"`
	SessionKey string        `koanf:"session_key" yaml:"session_key" json:"session_key"`
	GCInterval time.Duration `koanf:"gc_interval" yaml:"gc_interval" json:"gc_interval"`
	SyncWrites bool          `koanf:"sync_writes" yaml:"sync_writes" json:"sync_writes"`
}

// AuthSection configures credential checks and navigation.
type AuthSection struct {
	// Credentials is "demo" (any password) or "argon2".
	Credentials   string        `koanf:"credentials" yaml:"credentials" json:"credentials"`
	DemoPassword  string        `koanf:"demo_password" yaml:"demo_password" json:"demo_password"`
	SeedDemoUsers bool          `koanf:"seed_demo_users" yaml:"seed_demo_users" json:"seed_demo_users"`
	LoginPath     string        `koanf:"login_path" yaml:"login_path" json:"login_path"`
	SettleDelay   time.Duration `koanf:"settle_delay" yaml:"settle_delay" json:"settle_delay"`
}

// LogSection configures the process logger.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}
