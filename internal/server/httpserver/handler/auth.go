package handler

import (
	"net/http"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/core/service"
)

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	identity, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, LoginResponse{
		User:     identity,
		Redirect: domain.DashboardPath(identity.Role),
	})
}

// Logout handles POST /api/v1/auth/logout. It always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	h.writeJSON(w, r, http.StatusOK, LogoutResponse{Redirect: h.loginPath})
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	identity, err := h.auth.Register(r.Context(), service.RegisterRequest{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Role:       domain.Role(req.Role),
		Department: req.Department,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, LoginResponse{
		User:     identity,
		Redirect: domain.DashboardPath(identity.Role),
	})
}

// State handles GET /api/v1/auth/state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	state := h.auth.State()

	resp := AuthStateResponse{
		Authenticated: state.IsAuthenticated(),
		Initializing:  state.IsInitializing,
		User:          state.Identity,
	}
	if state.Identity != nil {
		resp.Dashboard = domain.DashboardPath(state.Identity.Role)
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}
