package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business error with a structured error code.
// Codes have the form PT-<AREA>-<NNNN>; the last four digits mirror the
// HTTP status the error maps to (4040 -> 404).
type DomainError struct {
	Code    string // Error code (e.g., "PT-USER-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrInvalidCredentials indicates no identity matched the login attempt.
	ErrInvalidCredentials = NewDomainError("PT-AUTH-4010", "invalid credentials")

	// ErrSessionRequired indicates the operation needs an active session.
	ErrSessionRequired = NewDomainError("PT-AUTH-4011", "sign in required")

	// ErrForbidden indicates the active identity lacks the required role.
	ErrForbidden = NewDomainError("PT-AUTH-4030", "role not permitted")
)

// ============================================================================
// Identity Errors (USER)
// ============================================================================

var (
	// ErrIdentityValidation indicates identity fields failed validation.
	ErrIdentityValidation = NewDomainError("PT-USER-4001", "identity validation failed")

	// ErrIdentityNotFound indicates no identity has the requested id.
	ErrIdentityNotFound = NewDomainError("PT-USER-4040", "user not found")

	// ErrIdentityConflict indicates another identity already uses the email.
	ErrIdentityConflict = NewDomainError("PT-USER-4090", "email already registered")
)

// ============================================================================
// Ticket Errors (TCKT)
// ============================================================================

var (
	// ErrTicketNotFound indicates the requested ticket does not exist.
	ErrTicketNotFound = NewDomainError("PT-TCKT-4040", "ticket not found")
)

// ============================================================================
// Storage Errors (STOR)
// ============================================================================

var (
	// ErrPersistenceCorrupt marks an undecodable session record.
	// The session store recovers from it internally; it never reaches callers.
	ErrPersistenceCorrupt = NewDomainError("PT-STOR-5002", "persisted session corrupt")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("PT-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("PT-SYS-5001", "storage error")

	// ErrNotReady indicates the auth state is still initializing.
	ErrNotReady = NewDomainError("PT-SYS-5030", "service initializing")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("PT-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("PT-SYS-4290", "too many requests")
)
