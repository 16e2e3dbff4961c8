package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/core/routing"
	"github.com/symetrix360/portal-go/internal/server/httpserver/handler"
	"github.com/symetrix360/portal-go/internal/telemetry/logger"
	"github.com/symetrix360/portal-go/pkg/cmap"
)

// Context keys for request-scoped values.
type contextKey string

// ContextKeyStartTime is the context key for request start time.
const ContextKeyStartTime contextKey = "start_time"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first one runs outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// AuthStateSource exposes the current auth state.
type AuthStateSource interface {
	State() domain.AuthState
}

// GuardObserver records guard outcomes.
type GuardObserver interface {
	GuardDecision(kind string)
}

// RequestObserver records finished requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestID adds a unique request ID to each request and a request-scoped
// logger carrying it.
func RequestID(base logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = "req-" + ulid.Make().String()
			}

			w.Header().Set("X-Request-ID", requestID)

			ctx := logger.WithRequestID(r.Context(), requestID)
			ctx = logger.WithLogger(ctx, base.With("request_id", requestID))
			ctx = context.WithValue(ctx, ContextKeyStartTime, time.Now())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover recovers from panics and returns 500 error.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.L(r.Context()).Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
					)
					handler.WriteError(w, r, domain.ErrInternalServer, nil)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Audit logs request/response for audit trail.
func Audit(auth AuthStateSource, proxies *TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			startTime, ok := r.Context().Value(ContextKeyStartTime).(time.Time)
			if !ok {
				startTime = time.Now()
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(startTime).Milliseconds(),
				"client_ip", proxies.ClientIP(r),
			}
			if auth != nil {
				if identity := auth.State().Identity; identity != nil {
					attrs = append(attrs, "user_id", identity.ID, "role", string(identity.Role))
				}
			}

			log := logger.L(r.Context())
			switch {
			case wrapped.statusCode >= 500:
				log.Error("request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.Warn("request completed with client error", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// Metrics records method, route pattern, status and latency.
// It must wrap the ServeMux directly: the mux sets r.Pattern on the
// request it receives, which is read after routing.
func Metrics(obs RequestObserver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveRequest(r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}

// CORS adds Cross-Origin Resource Sharing headers for allowed origins.
// An empty list allows any origin.
func CORS(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := len(allowedOrigins) == 0
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPRateLimiter keeps one token bucket per client IP.
// Buckets idle for longer than the idle window are pruned lazily.
type IPRateLimiter struct {
	limit     rate.Limit
	burst     int
	idle      time.Duration
	buckets   *cmap.Map[string, *ipBucket]
	lastPrune atomic.Int64
	now       func() time.Time
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// DefaultLimiterIdle is how long an unused bucket is kept.
const DefaultLimiterIdle = 10 * time.Minute

// NewIPRateLimiter allows perSecond requests per IP with the given burst.
func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &IPRateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    DefaultLimiterIdle,
		buckets: cmap.New[string, *ipBucket](),
		now:     time.Now,
	}
	l.lastPrune.Store(l.now().UnixNano())
	return l
}

// Allow reports whether a request from ip may proceed.
func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()

	b, ok := l.buckets.Get(ip)
	if !ok {
		b, _ = l.buckets.GetOrSet(ip, &ipBucket{limiter: rate.NewLimiter(l.limit, l.burst)})
	}
	b.lastSeen.Store(now.UnixNano())

	l.maybePrune(now)
	return b.limiter.AllowN(now, 1)
}

// Len returns the number of tracked IPs.
func (l *IPRateLimiter) Len() int {
	return l.buckets.Count()
}

func (l *IPRateLimiter) maybePrune(now time.Time) {
	last := l.lastPrune.Load()
	if now.UnixNano()-last < int64(l.idle) {
		return
	}
	if !l.lastPrune.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-l.idle).UnixNano()
	l.buckets.DeleteFunc(func(_ string, b *ipBucket) bool {
		return b.lastSeen.Load() < cutoff
	})
}

// RateLimit rejects requests beyond the per-IP budget with 429.
// Forwarding headers count only from trusted proxies.
func RateLimit(l *IPRateLimiter, proxies *TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(proxies.ClientIP(r)) {
				w.Header().Set("Retry-After", "1")
				handler.WriteError(w, r, domain.ErrRateLimited, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GuardConfig holds what the role guards need.
type GuardConfig struct {
	Guard    *routing.Guard
	Auth     AuthStateSource
	Observer GuardObserver
}

func (c *GuardConfig) decide(r *http.Request, roles []domain.Role) routing.Decision {
	d := c.Guard.Decide(c.Auth.State(), roles, r.URL.RequestURI())
	if c.Observer != nil {
		c.Observer.GuardDecision(d.Kind.String())
	}
	return d
}

// RequireRoles guards a page. While the auth state is settling the
// visitor gets 503 with Retry-After. Signed-out visitors are redirected
// to the login page with ?from=<requested path>, and visitors whose role
// is not listed are redirected to their own dashboard. No roles means
// any signed-in identity.
func RequireRoles(cfg *GuardConfig, roles ...domain.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := cfg.decide(r, roles)
			switch d.Kind {
			case routing.ShowLoading:
				w.Header().Set("Retry-After", "1")
				handler.WriteError(w, r, domain.ErrNotReady, nil)
			case routing.Redirect:
				http.Redirect(w, r, redirectTarget(d), http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireRolesAPI guards an API route. It answers instead of redirecting:
// 401 PT-AUTH-4011 without a session and 403 PT-AUTH-4030 for a role
// that is not listed, with the caller's dashboard as a location hint.
func RequireRolesAPI(cfg *GuardConfig, roles ...domain.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := cfg.decide(r, roles)
			switch {
			case d.Kind == routing.ShowLoading:
				w.Header().Set("Retry-After", "1")
				handler.WriteError(w, r, domain.ErrNotReady, nil)
			case d.Kind == routing.Redirect && d.From != "":
				handler.WriteError(w, r, domain.ErrSessionRequired, map[string]string{"location": redirectTarget(d)})
			case d.Kind == routing.Redirect:
				handler.WriteError(w, r, domain.ErrForbidden, map[string]string{"location": d.Location})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func redirectTarget(d routing.Decision) string {
	if d.From == "" {
		return d.Location
	}
	return d.Location + "?from=" + url.QueryEscape(d.From)
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
