package handler

import (
	"net/http"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.auth.ListUsers(r.Context())
	h.writeJSON(w, r, http.StatusOK, ListUsersResponse{Items: users, Total: len(users)})
}

// GetUser handles GET /api/v1/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	identity, err := h.auth.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, identity)
}

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	patch := domain.IdentityPatch{
		Email: domain.StringPtr(req.Email),
		Name:  domain.StringPtr(req.Name),
	}
	if req.Role != "" {
		patch.Role = domain.RolePtr(domain.Role(req.Role))
	}
	if req.Department != "" {
		patch.Department = domain.StringPtr(req.Department)
	}
	if req.Avatar != "" {
		patch.Avatar = domain.StringPtr(req.Avatar)
	}

	created, err := h.auth.CreateUser(r.Context(), patch, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, created)
}

// UpdateUser handles PATCH /api/v1/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	patch := domain.IdentityPatch{
		Email:      req.Email,
		Name:       req.Name,
		Department: req.Department,
		Avatar:     req.Avatar,
	}
	if req.Role != nil {
		patch.Role = domain.RolePtr(domain.Role(*req.Role))
	}
	if req.Password != nil {
		hash, err := h.auth.HashPassword(*req.Password)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}
		if hash != "" {
			patch.PasswordHash = domain.StringPtr(hash)
		}
	}

	updated, err := h.auth.UpdateUser(r.Context(), id, patch)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, updated)
}

// DeleteUser handles DELETE /api/v1/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.auth.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, DeleteUserResponse{ID: id})
}
