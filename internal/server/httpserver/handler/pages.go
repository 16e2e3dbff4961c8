package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/core/routing"
)

var dashboardTitles = map[domain.Role]string{
	domain.RoleAdmin:   "Admin Dashboard",
	domain.RoleSupport: "Support Dashboard",
	domain.RoleClient:  "Client Dashboard",
}

// Landing handles GET /. It waits for a settled auth state and redirects
// to the login page or the role dashboard. With ?format=json the target
// is returned in the envelope instead.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	asJSON := r.URL.Query().Get("format") == "json"

	nav := routing.NavigatorFunc(func(_ context.Context, path string) error {
		if !asJSON {
			http.Redirect(w, r, path, http.StatusFound)
		}
		return nil
	})

	res := h.landing.Run(r.Context(), nav)
	if res.Err != nil && res.Message == "" {
		// The client went away or the wait was cut short.
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			return
		}
		h.handleServiceError(w, r, res.Err)
		return
	}
	if res.Message != "" {
		writeError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, res.Message, h.diagnostics(res))
		return
	}

	if asJSON {
		h.writeJSON(w, r, http.StatusOK, LandingResponse{
			Location: res.Location,
			Debug:    h.diagnostics(res),
		})
	}
}

func (h *Handler) diagnostics(res routing.Result) *LandingDiagnostics {
	if !h.debug {
		return nil
	}
	d := &LandingDiagnostics{
		Initializing:  res.State.IsInitializing,
		Authenticated: res.State.IsAuthenticated(),
	}
	if res.State.Identity != nil {
		d.UserID = res.State.Identity.ID
		d.Role = string(res.State.Identity.Role)
	}
	if res.Err != nil {
		d.Error = res.Err.Error()
	}
	return d
}

// LoginPage handles GET /login. Signed-in visitors go to their dashboard.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	state, err := h.auth.WaitIdle(r.Context())
	if err != nil {
		return
	}
	if state.Identity != nil {
		http.Redirect(w, r, domain.DashboardPath(state.Identity.Role), http.StatusFound)
		return
	}

	resp := LoginPageResponse{
		LoginPath: h.loginPath,
		From:      r.URL.Query().Get("from"),
		DemoMode:  h.demoMode,
	}
	if h.demoList {
		for _, id := range domain.DemoIdentities(time.Now()) {
			resp.DemoAccounts = append(resp.DemoAccounts, DemoAccount{
				Email:     id.Email,
				Name:      id.Name,
				Role:      string(id.Role),
				Dashboard: domain.DashboardPath(id.Role),
			})
		}
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// Dashboard returns the handler of the dashboard for role. The route
// must be guarded so only that role reaches it.
func (h *Handler) Dashboard(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := h.auth.State()
		if state.Identity == nil {
			WriteError(w, r, domain.ErrSessionRequired, nil)
			return
		}
		h.writeJSON(w, r, http.StatusOK, DashboardResponse{
			Role:  string(role),
			Title: dashboardTitles[role],
			User:  state.Identity,
		})
	}
}
