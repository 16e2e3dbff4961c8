package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5080"
	DefaultLoginRateLimit  = 5.0
	DefaultLoginRateBurst  = 10
	DefaultShutdownTimeout = 15 * time.Second

	DefaultEngine     = EngineBadger
	DefaultDataDir    = "/var/lib/portal-server/data"
	DefaultSessionKey = "portal:session:current"
	DefaultGCInterval = 10 * time.Minute

	DefaultCredentials  = CredentialsDemo
	DefaultDemoPassword = "demo123"
	DefaultLoginPath    = "/login"
	DefaultSettleDelay  = 100 * time.Millisecond

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Storage engines.
const (
	EngineBadger = "badger"
	EngineMemory = "memory"
)

// Credential modes.
const (
	CredentialsDemo   = "demo"
	CredentialsArgon2 = "argon2"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
			LoginRateLimit:  DefaultLoginRateLimit,
			LoginRateBurst:  DefaultLoginRateBurst,
			EnableAudit:     true,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Storage: StorageSection{
			Engine:     DefaultEngine,
			DataDir:    DefaultDataDir,
			SessionKey: DefaultSessionKey,
			GCInterval: DefaultGCInterval,
			SyncWrites: true,
		},
		Auth: AuthSection{
			Credentials:   DefaultCredentials,
			DemoPassword:  DefaultDemoPassword,
			SeedDemoUsers: true,
			LoginPath:     DefaultLoginPath,
			SettleDelay:   DefaultSettleDelay,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
