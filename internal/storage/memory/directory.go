package memory

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// Directory is the in-memory user directory.
//
// Identities are kept in insertion order. New ids come from a monotonic
// counter that starts past the highest numeric seed id, so deleting an
// identity never causes its id to be handed out again.
type Directory struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]*domain.Identity
	byEmail map[string]string // normalized email -> id
	nextID  uint64
	now     func() time.Time
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithClock overrides time.Now for created_at stamps.
func WithClock(now func() time.Time) DirectoryOption {
	return func(d *Directory) {
		d.now = now
	}
}

// NewDirectory creates a directory holding copies of seed.
// Seeds with duplicate ids or emails are rejected.
func NewDirectory(seed []*domain.Identity, opts ...DirectoryOption) (*Directory, error) {
	d := &Directory{
		byID:    make(map[string]*domain.Identity, len(seed)),
		byEmail: make(map[string]string, len(seed)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, id := range seed {
		if _, dup := d.byID[id.ID]; dup || id.ID == "" {
			return nil, domain.ErrIdentityValidation.WithDetails(fmt.Sprintf("seed id %q", id.ID))
		}
		if err := d.checkEmail(id.Email, ""); err != nil {
			return nil, err
		}
		d.insert(id.Clone())
		if n, err := strconv.ParseUint(id.ID, 10, 64); err == nil && n > d.nextID {
			d.nextID = n
		}
	}
	return d, nil
}

// FindByEmail returns the identity whose email matches case-insensitively.
func (d *Directory) FindByEmail(email string) (*domain.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, false
	}
	return d.byID[id].Clone(), true
}

// Get returns the identity with the given id.
func (d *Directory) Get(id string) (*domain.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	identity, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return identity.Clone(), true
}

// List returns copies of all identities in insertion order.
func (d *Directory) List() []*domain.Identity {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*domain.Identity, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id].Clone())
	}
	return out
}

// Len returns the number of identities.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Create stores a new identity built from patch. Role defaults to client.
func (d *Directory) Create(patch domain.IdentityPatch) (*domain.Identity, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	identity := &domain.Identity{Role: domain.RoleClient}
	patch.Apply(identity)
	if err := d.checkEmail(identity.Email, ""); err != nil {
		return nil, err
	}

	d.nextID++
	identity.ID = strconv.FormatUint(d.nextID, 10)
	identity.CreatedAt = d.now()
	d.insert(identity)

	return identity.Clone(), nil
}

// Update merges the provided patch fields into an existing identity.
func (d *Directory) Update(id string, patch domain.IdentityPatch) (*domain.Identity, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound.WithDetails("id=" + id)
	}

	updated := current.Clone()
	patch.Apply(updated)
	if err := d.checkEmail(updated.Email, id); err != nil {
		return nil, err
	}

	if key := domain.NormalizeEmail(current.Email); key != "" {
		delete(d.byEmail, key)
	}
	if key := domain.NormalizeEmail(updated.Email); key != "" {
		d.byEmail[key] = id
	}
	d.byID[id] = updated

	return updated.Clone(), nil
}

// Delete removes an identity.
func (d *Directory) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	identity, ok := d.byID[id]
	if !ok {
		return domain.ErrIdentityNotFound.WithDetails("id=" + id)
	}

	delete(d.byID, id)
	if key := domain.NormalizeEmail(identity.Email); key != "" && d.byEmail[key] == id {
		delete(d.byEmail, key)
	}
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// checkEmail fails when a non-empty email already belongs to an identity
// other than self. Caller holds the lock.
func (d *Directory) checkEmail(email, self string) error {
	key := domain.NormalizeEmail(email)
	if key == "" {
		return nil
	}
	if owner, taken := d.byEmail[key]; taken && owner != self {
		return domain.ErrIdentityConflict.WithDetails(key)
	}
	return nil
}

// insert adds identity to all indexes. Caller holds the lock.
func (d *Directory) insert(identity *domain.Identity) {
	d.order = append(d.order, identity.ID)
	d.byID[identity.ID] = identity
	if key := domain.NormalizeEmail(identity.Email); key != "" {
		d.byEmail[key] = identity.ID
	}
}
