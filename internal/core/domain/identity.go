package domain

import (
	"strings"
	"time"
)

// Role is the portal role of an identity.
type Role string

const (
	// RoleAdmin manages users and sees every ticket.
	RoleAdmin Role = "admin"

	// RoleSupport works tickets assigned to the support desk.
	RoleSupport Role = "support"

	// RoleClient raises and follows its own tickets.
	RoleClient Role = "client"
)

// Fixed portal paths.
const (
	// DefaultLoginPath is where unauthenticated visitors are sent.
	DefaultLoginPath = "/login"

	DashboardAdminPath   = "/dashboard/admin"
	DashboardSupportPath = "/dashboard/support"
	DashboardClientPath  = "/dashboard/client"
)

// ValidRoles returns all valid roles.
func ValidRoles() []Role {
	return []Role{RoleAdmin, RoleSupport, RoleClient}
}

// IsValidRole checks if a string is a valid role.
func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleSupport, RoleClient:
		return true
	}
	return false
}

// DashboardPath returns the default dashboard for a role.
// Unrecognized roles land on the client dashboard.
func DashboardPath(role Role) string {
	switch role {
	case RoleAdmin:
		return DashboardAdminPath
	case RoleSupport:
		return DashboardSupportPath
	default:
		return DashboardClientPath
	}
}

// Identity is a known portal principal.
type Identity struct {
	// ID is the opaque, stable identifier assigned by the directory.
	ID string `json:"id"`

	// Email is unique within the directory, compared case-insensitively.
	Email string `json:"email"`

	Name string `json:"name"`
	Role Role   `json:"role"`

	// Department is optional.
	Department string `json:"department,omitempty"`

	// Avatar is an optional image URL.
	Avatar string `json:"avatar,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// PasswordHash is only set in argon2 credential mode (never serialized).
	PasswordHash string `json:"-"`
}

// Clone returns a copy of the identity.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// NormalizeEmail lowercases and trims an email for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IdentityPatch is a partial identity. Nil fields are left untouched by
// Apply and take defaults on create.
type IdentityPatch struct {
	Email        *string `json:"email,omitempty"`
	Name         *string `json:"name,omitempty"`
	Role         *Role   `json:"role,omitempty"`
	Department   *string `json:"department,omitempty"`
	Avatar       *string `json:"avatar,omitempty"`
	PasswordHash *string `json:"-"`
}

// Apply merges the provided fields over the identity.
func (p IdentityPatch) Apply(i *Identity) {
	if p.Email != nil {
		i.Email = *p.Email
	}
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Role != nil {
		i.Role = *p.Role
	}
	if p.Department != nil {
		i.Department = *p.Department
	}
	if p.Avatar != nil {
		i.Avatar = *p.Avatar
	}
	if p.PasswordHash != nil {
		i.PasswordHash = *p.PasswordHash
	}
}

// Validate checks the patch fields that carry constraints.
func (p IdentityPatch) Validate() error {
	if p.Role != nil && !IsValidRole(string(*p.Role)) {
		return ErrIdentityValidation.WithDetails("role must be one of admin, support, client")
	}
	return nil
}

// AuthState is the derived view of the current session.
type AuthState struct {
	// Identity is the active identity, nil when signed out.
	Identity *Identity

	// IsInitializing is true while the startup restore or a
	// login/logout/registration is in flight.
	IsInitializing bool
}

// IsAuthenticated reports whether a session is active.
func (s AuthState) IsAuthenticated() bool {
	return s.Identity != nil
}

// DemoIdentities returns the seeded demo directory.
func DemoIdentities(now time.Time) []*Identity {
	return []*Identity{
		{ID: "1", Email: "admin@example.com", Name: "Admin User", Role: RoleAdmin, Department: "IT", CreatedAt: now},
		{ID: "2", Email: "support@example.com", Name: "Support Agent", Role: RoleSupport, Department: "Customer Service", CreatedAt: now},
		{ID: "3", Email: "client@example.com", Name: "Client User", Role: RoleClient, CreatedAt: now},
		{ID: "4", Email: "john.smith@company.com", Name: "John Smith", Role: RoleClient, Department: "Finance", CreatedAt: now},
		{ID: "5", Email: "sarah.tech@example.com", Name: "Sarah Tech", Role: RoleSupport, Department: "Technical Support", CreatedAt: now},
		{ID: "6", Email: "director@example.com", Name: "System Director", Role: RoleAdmin, Department: "Executive", CreatedAt: now},
	}
}

// StringPtr returns a pointer to s, for building patches.
func StringPtr(s string) *string {
	return &s
}

// RolePtr returns a pointer to r, for building patches.
func RolePtr(r Role) *Role {
	return &r
}
