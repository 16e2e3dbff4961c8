package service

import (
	"context"
	"sync"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/telemetry/logger"
)

type phase int

const (
	phaseUninitialized phase = iota
	phaseInitializing
	phaseReady
)

// AuthService owns the current session.
//
// Every mutating operation holds an operation mutex for its whole
// duration, so a login, logout, registration or user change never
// interleaves with another one. While a login, logout or registration is
// in flight the derived state reports IsInitializing.
type AuthService struct {
	dir      UserDirectory
	store    SessionStore
	creds    CredentialVerifier
	observer Observer
	logger   logger.Logger

	initOnce sync.Once
	ready    chan struct{}

	opMu sync.Mutex

	mu       sync.RWMutex
	phase    phase
	current  *domain.Identity
	inflight int
	changed  chan struct{} // closed and replaced on every state change
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithCredentials sets the credential verifier. Default: DemoCredentials.
func WithCredentials(c CredentialVerifier) AuthOption {
	return func(s *AuthService) {
		if c != nil {
			s.creds = c
		}
	}
}

// WithObserver sets the event observer.
func WithObserver(o Observer) AuthOption {
	return func(s *AuthService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) AuthOption {
	return func(s *AuthService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewAuthService creates an uninitialized service. Call Initialize before
// serving traffic.
func NewAuthService(dir UserDirectory, store SessionStore, opts ...AuthOption) *AuthService {
	s := &AuthService{
		dir:      dir,
		store:    store,
		creds:    DemoCredentials{},
		observer: nopObserver{},
		logger:   logger.Default(),
		ready:    make(chan struct{}),
		changed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "auth")
	return s
}

// Initialize restores the persisted session. Only the first call does
// any work; concurrent callers block until it completes.
func (s *AuthService) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		s.opMu.Lock()
		defer s.opMu.Unlock()

		s.setPhase(phaseInitializing)

		restored := s.store.Load(context.WithoutCancel(ctx))

		s.mu.Lock()
		s.current = restored
		s.phase = phaseReady
		s.broadcastLocked()
		s.mu.Unlock()
		close(s.ready)

		s.observer.SessionActive(restored != nil)
		s.observer.DirectorySize(s.dir.Len())
		if restored != nil {
			s.logger.Info("session restored", "user_id", restored.ID, "role", restored.Role)
		} else {
			s.logger.Info("no session to restore")
		}
	})
}

// Ready is closed once the startup restore has completed.
func (s *AuthService) Ready() <-chan struct{} {
	return s.ready
}

// State returns the current derived auth state.
func (s *AuthService) State() domain.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// WaitIdle blocks until the service is initialized and no login, logout
// or registration is in flight, then returns that state.
func (s *AuthService) WaitIdle(ctx context.Context) (domain.AuthState, error) {
	for {
		s.mu.RLock()
		state := s.stateLocked()
		changed := s.changed
		s.mu.RUnlock()

		if !state.IsInitializing {
			return state, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

// Login makes the identity registered under email the current session.
// Email match is case-insensitive; the password is checked by the
// configured CredentialVerifier. On failure the session is unchanged.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	done := s.begin(ctx, true)
	defer done()

	log := s.log(ctx).With("email", logger.MaskEmail(email))

	identity, ok := s.dir.FindByEmail(email)
	if !ok {
		s.observer.LoginAttempt(LoginUnknownEmail)
		log.Info("login rejected", "reason", LoginUnknownEmail)
		return nil, domain.ErrInvalidCredentials
	}
	if !s.creds.Verify(identity, password) {
		s.observer.LoginAttempt(LoginBadPassword)
		log.Info("login rejected", "reason", LoginBadPassword)
		return nil, domain.ErrInvalidCredentials
	}

	session := s.activate(ctx, identity)
	s.observer.LoginAttempt(LoginSuccess)
	log.Info("login succeeded", "user_id", session.ID, "role", session.Role)
	return session.Clone(), nil
}

// Logout ends the current session. It cannot fail.
func (s *AuthService) Logout(ctx context.Context) {
	done := s.begin(ctx, true)
	defer done()

	s.mu.Lock()
	previous := s.current
	s.current = nil
	s.mu.Unlock()

	// The record must go even if the caller has given up.
	s.store.Clear(context.WithoutCancel(ctx))
	s.observer.SessionActive(false)
	if previous != nil {
		s.log(ctx).Info("logout", "user_id", previous.ID)
	}
}

// RegisterRequest holds the fields of a self-registration.
type RegisterRequest struct {
	Email      string
	Password   string
	Name       string
	Role       domain.Role // empty means client
	Department string
}

// Register creates a new identity and makes it the current session.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.Identity, error) {
	done := s.begin(ctx, true)
	defer done()

	patch := domain.IdentityPatch{
		Email: domain.StringPtr(req.Email),
		Name:  domain.StringPtr(req.Name),
	}
	if req.Role != "" {
		patch.Role = domain.RolePtr(req.Role)
	}
	if req.Department != "" {
		patch.Department = domain.StringPtr(req.Department)
	}
	if err := s.applyPassword(&patch, req.Password); err != nil {
		return nil, err
	}

	created, err := s.dir.Create(patch)
	if err != nil {
		return nil, err
	}
	s.observer.DirectorySize(s.dir.Len())

	session := s.activate(ctx, created)
	s.log(ctx).Info("registered", "user_id", session.ID, "role", session.Role)
	return session.Clone(), nil
}

// ListUsers returns every identity in the directory.
func (s *AuthService) ListUsers(ctx context.Context) []*domain.Identity {
	return s.dir.List()
}

// GetUser returns one identity.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.Identity, error) {
	identity, ok := s.dir.Get(id)
	if !ok {
		return nil, domain.ErrIdentityNotFound.WithDetails("id=" + id)
	}
	return identity, nil
}

// CreateUser adds an identity without touching the session.
// A non-empty password is hashed when the verifier stores passwords.
func (s *AuthService) CreateUser(ctx context.Context, patch domain.IdentityPatch, password string) (*domain.Identity, error) {
	done := s.begin(ctx, false)
	defer done()

	if err := s.applyPassword(&patch, password); err != nil {
		return nil, err
	}
	created, err := s.dir.Create(patch)
	if err != nil {
		return nil, err
	}
	s.observer.DirectorySize(s.dir.Len())
	s.log(ctx).Info("user created", "user_id", created.ID)
	return created, nil
}

// UpdateUser merges patch into identity id. When id is the current
// session, the session is refreshed and persisted.
func (s *AuthService) UpdateUser(ctx context.Context, id string, patch domain.IdentityPatch) (*domain.Identity, error) {
	done := s.begin(ctx, false)
	defer done()

	updated, err := s.dir.Update(id, patch)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	isCurrent := s.current != nil && s.current.ID == id
	s.mu.RUnlock()
	if isCurrent {
		s.activate(ctx, updated)
	}

	s.log(ctx).Info("user updated", "user_id", id, "session_refreshed", isCurrent)
	return updated, nil
}

// DeleteUser removes identity id. The current session, even if it
// belongs to id, is left as is.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	done := s.begin(ctx, false)
	defer done()

	if err := s.dir.Delete(id); err != nil {
		return err
	}
	s.observer.DirectorySize(s.dir.Len())
	s.log(ctx).Info("user deleted", "user_id", id)
	return nil
}

// HashPassword encodes password with the configured verifier.
func (s *AuthService) HashPassword(password string) (string, error) {
	return s.creds.Hash(password)
}

// begin serializes an operation. Tracked operations also count as in
// flight for IsInitializing. The returned func ends the operation.
func (s *AuthService) begin(ctx context.Context, tracked bool) func() {
	s.Initialize(ctx)
	s.opMu.Lock()

	if tracked {
		s.mu.Lock()
		s.inflight++
		s.broadcastLocked()
		s.mu.Unlock()
	}

	return func() {
		if tracked {
			s.mu.Lock()
			s.inflight--
			s.broadcastLocked()
			s.mu.Unlock()
		}
		s.opMu.Unlock()
	}
}

// activate makes identity the current session and persists it.
// The write is detached from ctx cancellation so the stored record never
// lags the in-memory session. Caller holds opMu.
func (s *AuthService) activate(ctx context.Context, identity *domain.Identity) *domain.Identity {
	session := identity.Clone()
	session.PasswordHash = ""

	s.mu.Lock()
	s.current = session
	s.broadcastLocked()
	s.mu.Unlock()

	s.store.Save(context.WithoutCancel(ctx), session)
	s.observer.SessionActive(true)
	return session
}

// log returns the service logger, tagged with the request ID in ctx.
func (s *AuthService) log(ctx context.Context) logger.Logger {
	if id := logger.RequestIDFromContext(ctx); id != "" {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

func (s *AuthService) applyPassword(patch *domain.IdentityPatch, password string) error {
	if password == "" {
		return nil
	}
	hash, err := s.creds.Hash(password)
	if err != nil {
		return domain.ErrInternalServer.WithCause(err)
	}
	if hash != "" {
		patch.PasswordHash = domain.StringPtr(hash)
	}
	return nil
}

func (s *AuthService) setPhase(p phase) {
	s.mu.Lock()
	s.phase = p
	s.broadcastLocked()
	s.mu.Unlock()
}

func (s *AuthService) stateLocked() domain.AuthState {
	return domain.AuthState{
		Identity:       s.current.Clone(),
		IsInitializing: s.phase != phaseReady || s.inflight > 0,
	}
}

func (s *AuthService) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
