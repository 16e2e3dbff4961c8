package handler

import (
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"` // Additional error details
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"max=1024"`
}

// LoginResponse is returned by login and registration.
type LoginResponse struct {
	User     *domain.Identity `json:"user"`
	Redirect string           `json:"redirect"`
}

// LogoutResponse is the response body for POST /api/v1/auth/logout.
type LogoutResponse struct {
	Redirect string `json:"redirect"`
}

// RegisterRequest is the request body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,max=1024"`
	Name       string `json:"name" validate:"required,max=128"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=admin support client"`
	Department string `json:"department,omitempty" validate:"omitempty,max=128"`
}

// AuthStateResponse is the response body for GET /api/v1/auth/state.
type AuthStateResponse struct {
	Authenticated bool             `json:"authenticated"`
	Initializing  bool             `json:"initializing"`
	User          *domain.Identity `json:"user,omitempty"`
	Dashboard     string           `json:"dashboard,omitempty"`
}

// CreateUserRequest is the request body for POST /api/v1/users.
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	Name       string `json:"name" validate:"required,max=128"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=admin support client"`
	Department string `json:"department,omitempty" validate:"omitempty,max=128"`
	Avatar     string `json:"avatar,omitempty" validate:"omitempty,url"`
	Password   string `json:"password,omitempty" validate:"omitempty,max=1024"`
}

// UpdateUserRequest is the request body for PATCH /api/v1/users/{id}.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Email      *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	Role       *string `json:"role,omitempty" validate:"omitempty,oneof=admin support client"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=128"`
	Avatar     *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Password   *string `json:"password,omitempty" validate:"omitempty,min=1,max=1024"`
}

// ListUsersResponse is the response body for GET /api/v1/users.
type ListUsersResponse struct {
	Items []*domain.Identity `json:"items"`
	Total int                `json:"total"`
}

// DeleteUserResponse is the response body for DELETE /api/v1/users/{id}.
type DeleteUserResponse struct {
	ID string `json:"id"`
}

// LandingResponse is the JSON form of the landing redirect.
type LandingResponse struct {
	Location string              `json:"location,omitempty"`
	Message  string              `json:"message,omitempty"`
	Debug    *LandingDiagnostics `json:"debug,omitempty"`
}

// LandingDiagnostics is included in landing responses in debug mode.
type LandingDiagnostics struct {
	Initializing  bool   `json:"initializing"`
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Role          string `json:"role,omitempty"`
	Error         string `json:"error,omitempty"`
}

// DemoAccount is a seeded account shown on the login page.
type DemoAccount struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Dashboard string `json:"dashboard"`
}

// LoginPageResponse is the payload of GET /login.
type LoginPageResponse struct {
	LoginPath    string        `json:"login_path"`
	From         string        `json:"from,omitempty"`
	DemoMode     bool          `json:"demo_mode"`
	DemoAccounts []DemoAccount `json:"demo_accounts,omitempty"`
}

// DashboardResponse is the payload of the role dashboards.
type DashboardResponse struct {
	Role  string           `json:"role"`
	Title string           `json:"title"`
	User  *domain.Identity `json:"user"`
}
