package service

import (
	"context"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// UserDirectory is the identity collection the services operate on.
// Returned identities are copies.
type UserDirectory interface {
	FindByEmail(email string) (*domain.Identity, bool)
	Get(id string) (*domain.Identity, bool)
	List() []*domain.Identity
	Len() int
	Create(patch domain.IdentityPatch) (*domain.Identity, error)
	Update(id string, patch domain.IdentityPatch) (*domain.Identity, error)
	Delete(id string) error
}

// SessionStore persists the current identity. It never fails; a broken
// backend behaves like an empty one.
type SessionStore interface {
	Load(ctx context.Context) *domain.Identity
	Save(ctx context.Context, identity *domain.Identity)
	Clear(ctx context.Context)
}

// Login outcomes reported to the Observer.
const (
	LoginSuccess      = "success"
	LoginUnknownEmail = "unknown_email"
	LoginBadPassword  = "bad_password"
)

// Observer receives auth events, typically to update metrics.
type Observer interface {
	LoginAttempt(outcome string)
	SessionActive(active bool)
	DirectorySize(n int)
}

type nopObserver struct{}

func (nopObserver) LoginAttempt(string) {}
func (nopObserver) SessionActive(bool)  {}
func (nopObserver) DirectorySize(int)   {}
