package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/core/routing"
	"github.com/symetrix360/portal-go/internal/core/service"
	"github.com/symetrix360/portal-go/internal/infra/buildinfo"
	"github.com/symetrix360/portal-go/internal/infra/confloader"
	"github.com/symetrix360/portal-go/internal/infra/shutdown"
	"github.com/symetrix360/portal-go/internal/infra/tlsroots"
	"github.com/symetrix360/portal-go/internal/server/config"
	"github.com/symetrix360/portal-go/internal/server/httpserver"
	"github.com/symetrix360/portal-go/internal/server/httpserver/handler"
	"github.com/symetrix360/portal-go/internal/storage"
	"github.com/symetrix360/portal-go/internal/storage/memory"
	"github.com/symetrix360/portal-go/internal/telemetry/logger"
	"github.com/symetrix360/portal-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("portal-server " + buildinfo.String())
		return nil
	}

	cfg, err := config.Load(*configFile, nil)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  os.Stdout,
		Service: "portal-server",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting portal-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	reg := metric.NewRegistry()

	kv, err := openKV(cfg, log, reg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	app, err := newApp(cfg, kv, reg, log)
	if err != nil {
		kv.Close()
		return err
	}

	// Hooks run in reverse registration order: HTTP first, KV last.
	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)
	shutdownHandler.OnShutdown("storage", func(ctx context.Context) error {
		return kv.Close()
	})

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	ln, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		shutdownHandler.Shutdown()
		return fmt.Errorf("listen %s: %w", cfg.Server.HTTP.Addr, err)
	}
	var tlsConfig *tls.Config
	if cfg.Server.HTTP.TLSEnabled() {
		reloader, err := tlsroots.NewCertReloader(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithReloaderLogger(log))
		if err != nil {
			ln.Close()
			shutdownHandler.Shutdown()
			return fmt.Errorf("init tls: %w", err)
		}
		reloader.StartAsync()
		shutdownHandler.OnShutdown("tls-reloader", func(ctx context.Context) error {
			return reloader.Stop()
		})
		tlsConfig = reloader.ServerConfig()
	}

	httpServer := httpserver.New(ln.Addr().String(), app.router)
	shutdownHandler.OnShutdown("http", httpServer.Shutdown)

	serveCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() {
		log.Info("HTTP server listening", "addr", ln.Addr().String(), "tls", tlsConfig != nil)
		var err error
		if tlsConfig != nil {
			err = httpServer.ServeTLS(ln, tlsConfig)
		} else {
			err = httpServer.Serve(ln)
		}
		if err != nil {
			log.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Restore the persisted session after the listener is up so /ready
	// can report progress while it runs.
	app.auth.Initialize(serveCtx)

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.WaitContext(serveCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// openKV opens the configured session KV engine.
func openKV(cfg *config.ServerConfig, log logger.Logger, reg *metric.Registry) (storage.KVEngine, error) {
	switch cfg.Storage.Engine {
	case config.EngineMemory:
		log.Warn("using in-memory storage, the session will not survive a restart")
		return memory.NewKV(), nil
	default:
		kvCfg := storage.DefaultKVConfig(cfg.Storage.DataDir)
		kvCfg.Badger.GCInterval = cfg.Storage.GCInterval
		kvCfg.Badger.SyncWrites = cfg.Storage.SyncWrites

		engine, err := storage.NewBadgerEngine(kvCfg, log)
		if err != nil {
			return nil, err
		}
		if err := engine.RegisterMetrics(reg.Registerer()); err != nil {
			engine.Close()
			return nil, fmt.Errorf("register storage metrics: %w", err)
		}
		return engine, nil
	}
}

type app struct {
	auth   *service.AuthService
	router http.Handler
}

// newApp builds the directory, services and HTTP routes. The session is
// not restored yet; the caller runs auth.Initialize once serving.
func newApp(cfg *config.ServerConfig, kv storage.KVEngine, reg *metric.Registry, log logger.Logger) (*app, error) {
	creds, err := service.NewCredentialVerifier(cfg.Auth.Credentials)
	if err != nil {
		return nil, err
	}

	var seed []*domain.Identity
	if cfg.Auth.SeedDemoUsers {
		seed = domain.DemoIdentities(time.Now())
		if err := service.HashSeedPasswords(creds, seed, cfg.Auth.DemoPassword); err != nil {
			return nil, fmt.Errorf("hash demo passwords: %w", err)
		}
	}
	dir, err := memory.NewDirectory(seed)
	if err != nil {
		return nil, fmt.Errorf("init directory: %w", err)
	}

	store := storage.NewSessionStore(kv,
		storage.WithSessionKey(cfg.Storage.SessionKey),
		storage.WithSessionLogger(log))

	auth := service.NewAuthService(dir, store,
		service.WithCredentials(creds),
		service.WithObserver(reg),
		service.WithLogger(log))

	guard := routing.NewGuard(cfg.Auth.LoginPath)
	landing := routing.NewRedirector(auth,
		routing.WithLoginPath(cfg.Auth.LoginPath),
		routing.WithSettleDelay(cfg.Auth.SettleDelay))

	demoMode := cfg.Auth.Credentials == config.CredentialsDemo
	h := handler.New(handler.Config{
		Auth:         auth,
		Tickets:      service.NewTicketService(dir),
		Landing:      landing,
		Logger:       log,
		LoginPath:    cfg.Auth.LoginPath,
		Debug:        cfg.Server.Debug,
		DemoAccounts: cfg.Auth.SeedDemoUsers,
		DemoMode:     demoMode,
	})

	proxies, err := httpserver.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler:            h,
		Auth:               auth,
		Guard:              guard,
		Metrics:            reg,
		Logger:             log,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		LoginRateLimit:     cfg.Server.LoginRateLimit,
		LoginRateBurst:     cfg.Server.LoginRateBurst,
		TrustedProxies:     proxies,
		EnableAudit:        cfg.Server.EnableAudit,
	})

	log.Info("services initialized",
		"credentials", cfg.Auth.Credentials,
		"storage", cfg.Storage.Engine,
		"users", dir.Len())

	return &app{auth: auth, router: router}, nil
}

// watchConfig reloads log.level when the config file changes. Other
// settings need a restart.
func watchConfig(path string, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(changed string) {
		next, err := config.Load(changed, nil)
		if err != nil {
			log.Warn("config reload rejected", "path", changed, "error", err)
			return
		}
		if prev := logger.GetLevel(); prev != next.Log.Level {
			logger.SetLevel(next.Log.Level)
			log.Info("log level changed", "from", prev, "to", next.Log.Level)
		}
	})
	w.StartAsync()
	return w, nil
}
