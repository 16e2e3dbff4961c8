package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/core/routing"
	"github.com/symetrix360/portal-go/internal/core/service"
	"github.com/symetrix360/portal-go/internal/telemetry/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Config holds the dependencies of a Handler.
type Config struct {
	Auth    *service.AuthService
	Tickets *service.TicketService
	Landing *routing.Redirector
	Logger  logger.Logger

	// LoginPath is the login page route.
	LoginPath string

	// Debug adds diagnostics to landing responses.
	Debug bool

	// DemoAccounts lists the seeded accounts on the login page.
	DemoAccounts bool

	// DemoMode reports that any password is accepted.
	DemoMode bool
}

// Handler serves the portal endpoints. Routes are bound by the router.
type Handler struct {
	auth      *service.AuthService
	tickets   *service.TicketService
	landing   *routing.Redirector
	logger    logger.Logger
	validate  *validator.Validate
	loginPath string
	debug     bool
	demoList  bool
	demoMode  bool
}

// New creates a Handler.
func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = domain.DefaultLoginPath
	}
	landing := cfg.Landing
	if landing == nil {
		landing = routing.NewRedirector(cfg.Auth, routing.WithLoginPath(loginPath))
	}

	return &Handler{
		auth:      cfg.Auth,
		tickets:   cfg.Tickets,
		landing:   landing,
		logger:    log,
		validate:  newValidator(),
		loginPath: loginPath,
		debug:     cfg.Debug,
		demoList:  cfg.DemoAccounts,
		demoMode:  cfg.DemoMode,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsDomainError(err, "") {
		logger.L(r.Context()).Error("internal error", "path", r.URL.Path, "error", err)
	}
	WriteError(w, r, err, nil)
}

// decodeJSON reads a JSON body into dst and validates it.
// It answers the request itself and returns false on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		WriteError(w, r, domain.ErrBadRequest.WithDetails(msg), nil)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			WriteError(w, r, domain.ErrBadRequest.WithDetails("validation failed"), fieldErrors(verrs))
			return false
		}
		h.handleServiceError(w, r, err)
		return false
	}
	return true
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// WriteError writes err in the standard envelope. Non-domain errors are
// reported as PT-SYS-5000 without leaking their text.
func WriteError(w http.ResponseWriter, r *http.Request, err error, details any) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		de = domain.ErrInternalServer
	}
	message := de.Message
	if de.Details != "" {
		message += ": " + de.Details
	}
	writeError(w, r, errorCodeToHTTPStatus(de.Code), de.Code, message, details)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// getRequestID returns the id set by the RequestID middleware, or the
// inbound header when the middleware is not installed.
func getRequestID(r *http.Request) string {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4030"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
