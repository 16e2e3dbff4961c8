package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/telemetry/logger"
)

// NavigationErrorMessage is shown when the landing navigation fails.
const NavigationErrorMessage = "Error during navigation. Please try again."

// Navigator performs the actual navigation, e.g. writes a redirect.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string) error

// Navigate calls f.
func (f NavigatorFunc) Navigate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// StateSource yields the auth state once it is settled.
type StateSource interface {
	WaitIdle(ctx context.Context) (domain.AuthState, error)
}

// Result describes what the landing redirect did.
type Result struct {
	// Location is the path navigated to, empty if navigation did not happen.
	Location string

	// Message is the user-facing error text, empty on success.
	Message string

	// State is the auth state the decision was based on.
	State domain.AuthState

	// Err is the underlying failure, if any.
	Err error
}

// Redirector routes visitors of the landing page.
type Redirector struct {
	auth      StateSource
	loginPath string
	settle    time.Duration
}

// RedirectorOption configures a Redirector.
type RedirectorOption func(*Redirector)

// WithSettleDelay waits d after the state is settled before navigating.
func WithSettleDelay(d time.Duration) RedirectorOption {
	return func(r *Redirector) {
		if d > 0 {
			r.settle = d
		}
	}
}

// WithLoginPath overrides domain.DefaultLoginPath.
func WithLoginPath(p string) RedirectorOption {
	return func(r *Redirector) {
		if p != "" {
			r.loginPath = p
		}
	}
}

// NewRedirector creates a landing redirector over auth.
func NewRedirector(auth StateSource, opts ...RedirectorOption) *Redirector {
	r := &Redirector{auth: auth, loginPath: domain.DefaultLoginPath}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Target returns where a visitor with state belongs.
func (r *Redirector) Target(state domain.AuthState) string {
	if state.Identity == nil {
		return r.loginPath
	}
	return domain.DashboardPath(state.Identity.Role)
}

// Run waits for a settled auth state and navigates to the target.
// It never navigates while the state is initializing. Navigation errors
// and panics are reported through Result.Message.
func (r *Redirector) Run(ctx context.Context, nav Navigator) Result {
	state, err := r.auth.WaitIdle(ctx)
	if err != nil {
		return Result{State: state, Err: err}
	}

	if r.settle > 0 {
		timer := time.NewTimer(r.settle)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return Result{State: state, Err: ctx.Err()}
		}
	}

	target := r.Target(state)
	if err := navigate(ctx, nav, target); err != nil {
		logger.L(ctx).Error("landing navigation failed", "target", target, "error", err)
		return Result{State: state, Message: NavigationErrorMessage, Err: err}
	}
	return Result{Location: target, State: state}
}

func navigate(ctx context.Context, nav Navigator, target string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("navigation panic: %v", rec)
		}
	}()
	return nav.Navigate(ctx, target)
}
