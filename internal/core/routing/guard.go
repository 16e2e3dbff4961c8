package routing

import (
	"slices"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// DecisionKind is the outcome of a guard check.
type DecisionKind int

const (
	// ShowLoading means the auth state is not settled yet.
	ShowLoading DecisionKind = iota
	// Redirect means the visitor must be sent to Decision.Location.
	Redirect
	// Render means the protected content may be shown.
	Render
)

func (k DecisionKind) String() string {
	switch k {
	case ShowLoading:
		return "show_loading"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict for one request.
type Decision struct {
	Kind DecisionKind

	// Location is the redirect target (Redirect only).
	Location string

	// From is the originally requested path, set when redirecting to login
	// so the login page can send the visitor back.
	From string
}

// Guard protects role-restricted pages.
type Guard struct {
	loginPath string
}

// NewGuard creates a guard that sends unauthenticated visitors to
// loginPath (domain.DefaultLoginPath when empty).
func NewGuard(loginPath string) *Guard {
	if loginPath == "" {
		loginPath = domain.DefaultLoginPath
	}
	return &Guard{loginPath: loginPath}
}

// LoginPath returns the login redirect target.
func (g *Guard) LoginPath() string {
	return g.loginPath
}

// Decide applies, in order: loading while initializing, login when signed
// out, the role dashboard when the role is not allowed, otherwise render.
// An empty required list allows any signed-in identity.
func (g *Guard) Decide(state domain.AuthState, required []domain.Role, currentPath string) Decision {
	if state.IsInitializing {
		return Decision{Kind: ShowLoading}
	}
	if state.Identity == nil {
		return Decision{Kind: Redirect, Location: g.loginPath, From: currentPath}
	}
	if len(required) > 0 && !slices.Contains(required, state.Identity.Role) {
		return Decision{Kind: Redirect, Location: domain.DashboardPath(state.Identity.Role)}
	}
	return Decision{Kind: Render}
}
