package httpserver

import (
	"net/http"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/core/routing"
	"github.com/symetrix360/portal-go/internal/server/httpserver/handler"
	"github.com/symetrix360/portal-go/internal/telemetry/logger"
	"github.com/symetrix360/portal-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Handler *handler.Handler

	// Auth supplies the state the guards decide on.
	Auth AuthStateSource

	// Guard decides page and API access. Defaults to the /login guard.
	Guard *routing.Guard

	// Metrics, when set, records requests and guard decisions and
	// serves GET /metrics.
	Metrics *metric.Registry

	Logger logger.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// LoginRateLimit is the per-IP rate for login and register, in
	// requests per second. Zero disables limiting.
	LoginRateLimit float64
	LoginRateBurst int

	// TrustedProxies are the peers whose X-Forwarded-For is believed when
	// keying the rate limiter and audit log. Nil trusts nobody.
	TrustedProxies *TrustedProxies

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := cfg.Handler
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	guard := cfg.Guard
	if guard == nil {
		guard = routing.NewGuard("")
	}

	guardCfg := &GuardConfig{Guard: guard, Auth: cfg.Auth}
	if cfg.Metrics != nil {
		guardCfg.Observer = cfg.Metrics
	}

	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", h.Landing)
	mux.HandleFunc("GET "+guard.LoginPath(), h.LoginPage)
	mux.Handle("GET "+domain.DashboardAdminPath,
		RequireRoles(guardCfg, domain.RoleAdmin)(h.Dashboard(domain.RoleAdmin)))
	mux.Handle("GET "+domain.DashboardSupportPath,
		RequireRoles(guardCfg, domain.RoleSupport)(h.Dashboard(domain.RoleSupport)))
	mux.Handle("GET "+domain.DashboardClientPath,
		RequireRoles(guardCfg, domain.RoleClient)(h.Dashboard(domain.RoleClient)))
	mux.Handle("GET /tickets/{id}", RequireRoles(guardCfg)(http.HandlerFunc(h.TicketDetail)))

	// Auth API
	credential := func(next http.HandlerFunc) http.Handler { return next }
	if cfg.LoginRateLimit > 0 {
		limiter := NewIPRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)
		credential = func(next http.HandlerFunc) http.Handler { return RateLimit(limiter, cfg.TrustedProxies)(next) }
	}
	mux.Handle("POST /api/v1/auth/login", credential(h.Login))
	mux.Handle("POST /api/v1/auth/register", credential(h.Register))
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/v1/auth/state", h.State)

	// Admin user API
	admin := RequireRolesAPI(guardCfg, domain.RoleAdmin)
	mux.Handle("GET /api/v1/users", admin(http.HandlerFunc(h.ListUsers)))
	mux.Handle("POST /api/v1/users", admin(http.HandlerFunc(h.CreateUser)))
	mux.Handle("GET /api/v1/users/{id}", admin(http.HandlerFunc(h.GetUser)))
	mux.Handle("PATCH /api/v1/users/{id}", admin(http.HandlerFunc(h.UpdateUser)))
	mux.Handle("DELETE /api/v1/users/{id}", admin(http.HandlerFunc(h.DeleteUser)))

	// Health endpoints
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	var root http.Handler = mux
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
		root = Metrics(cfg.Metrics)(root)
	}

	// Order: RequestID -> Recover -> CORS -> Audit -> Metrics -> mux
	middlewares := []Middleware{RequestID(log), Recover(), CORS(cfg.CORSAllowedOrigins)}
	if cfg.EnableAudit {
		middlewares = append(middlewares, Audit(cfg.Auth, cfg.TrustedProxies))
	}
	return Chain(root, middlewares...)
}
