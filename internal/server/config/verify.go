package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"slices"
	"strings"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// reservedPaths are routes the router registers itself. A login page
// mounted on one of them would collide with it.
var reservedPaths = []string{
	"/",
	"/health",
	"/ready",
	"/metrics",
	domain.DashboardAdminPath,
	domain.DashboardSupportPath,
	domain.DashboardClientPath,
}

var reservedPrefixes = []string{"/api/", "/tickets/"}

// Verify validates the configuration and reports every problem found.
//
// For the badger engine the data directory is created if missing.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	return errors.Join(
		verifyServer(&cfg.Server),
		verifyStorage(&cfg.Storage),
		verifyAuth(&cfg.Auth),
		verifyLog(&cfg.Log),
	)
}

func verifyServer(cfg *ServerSection) error {
	var errs []error

	if cfg.HTTP.Addr == "" {
		errs = append(errs, errors.New("server.http.addr is required"))
	} else if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err))
	}

	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		errs = append(errs, errors.New("server.http.tls_cert_file and tls_key_file must be set together"))
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			errs = append(errs, fmt.Errorf("tls file: %w", err))
		}
	}

	if cfg.LoginRateLimit < 0 {
		errs = append(errs, errors.New("server.login_rate_limit must not be negative"))
	}
	if cfg.LoginRateLimit > 0 && cfg.LoginRateBurst < 1 {
		errs = append(errs, errors.New("server.login_rate_burst must be at least 1 when limiting is enabled"))
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	for _, p := range cfg.TrustedProxies {
		if !validProxyEntry(p) {
			errs = append(errs, fmt.Errorf("server.trusted_proxies entry %q is not an IP or CIDR", p))
		}
	}
	for _, o := range cfg.CORSAllowedOrigins {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, errors.New("server.cors_allowed_origins contains an empty entry"))
			break
		}
	}

	return errors.Join(errs...)
}

func verifyStorage(cfg *StorageSection) error {
	var errs []error

	switch cfg.Engine {
	case EngineBadger:
		if cfg.DataDir == "" {
			errs = append(errs, errors.New("storage.data_dir is required for the badger engine"))
		} else if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			errs = append(errs, fmt.Errorf("cannot create data directory: %w", err))
		}
	case EngineMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.engine %q is not one of %s, %s", cfg.Engine, EngineBadger, EngineMemory))
	}

	if cfg.SessionKey == "" {
		errs = append(errs, errors.New("storage.session_key is required"))
	}
	if cfg.GCInterval < 0 {
		errs = append(errs, errors.New("storage.gc_interval must not be negative"))
	}

	return errors.Join(errs...)
}

func verifyAuth(cfg *AuthSection) error {
	var errs []error

	switch cfg.Credentials {
	case CredentialsDemo:
	case CredentialsArgon2:
		if cfg.SeedDemoUsers && cfg.DemoPassword == "" {
			errs = append(errs, errors.New("auth.demo_password is required to seed users in argon2 mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.credentials %q is not one of %s, %s", cfg.Credentials, CredentialsDemo, CredentialsArgon2))
	}

	if err := verifyLoginPath(cfg.LoginPath); err != nil {
		errs = append(errs, err)
	}
	if cfg.SettleDelay < 0 {
		errs = append(errs, errors.New("auth.settle_delay must not be negative"))
	}

	return errors.Join(errs...)
}

func validProxyEntry(e string) bool {
	e = strings.TrimSpace(e)
	if strings.Contains(e, "/") {
		_, err := netip.ParsePrefix(e)
		return err == nil
	}
	_, err := netip.ParseAddr(e)
	return err == nil
}

func verifyLoginPath(p string) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("auth.login_path %q must start with /", p)
	}
	if strings.ContainsAny(p, "{}?# \t") {
		return fmt.Errorf("auth.login_path %q must be a plain path", p)
	}
	if slices.Contains(reservedPaths, p) {
		return fmt.Errorf("auth.login_path %q is already served by the portal", p)
	}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(p, prefix) {
			return fmt.Errorf("auth.login_path %q is under the reserved prefix %s", p, prefix)
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	var errs []error

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is invalid", cfg.Level))
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is invalid", cfg.Format))
	}

	return errors.Join(errs...)
}
