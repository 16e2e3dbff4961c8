package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/symetrix360/portal-go/internal/core/domain"
	"github.com/symetrix360/portal-go/internal/telemetry/logger"
)

// DefaultSessionKey is the key the session record is stored under.
const DefaultSessionKey = "portal:session:current"

// SessionStore persists at most one session identity.
//
// None of its operations return errors: storage failures are logged and
// degrade to "no session", and an undecodable record is deleted on load.
type SessionStore struct {
	kv     KVEngine
	key    []byte
	logger logger.Logger
}

// SessionStoreOption configures a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionKey overrides DefaultSessionKey.
func WithSessionKey(key string) SessionStoreOption {
	return func(s *SessionStore) {
		if key != "" {
			s.key = []byte(key)
		}
	}
}

// WithSessionLogger sets the logger used for degraded operations.
func WithSessionLogger(l logger.Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSessionStore creates a session store on top of kv.
func NewSessionStore(kv KVEngine, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		kv:     kv,
		key:    []byte(DefaultSessionKey),
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session_store", "session_key", string(s.key))
	return s
}

// Load returns the persisted identity, or nil if there is none.
func (s *SessionStore) Load(ctx context.Context) *domain.Identity {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("session load failed", "error", err)
		}
		return nil
	}

	identity, err := decodeIdentity(data)
	if err != nil {
		s.logger.Warn("discarding corrupt session record", "error", err)
		if derr := s.kv.Delete(ctx, s.key); derr != nil {
			s.logger.Warn("corrupt session record not removed", "error", derr)
		}
		return nil
	}
	return identity
}

// Save overwrites the persisted identity. A nil identity clears it.
func (s *SessionStore) Save(ctx context.Context, identity *domain.Identity) {
	if identity == nil {
		s.Clear(ctx)
		return
	}

	data, err := json.Marshal(identity)
	if err != nil {
		s.logger.Warn("session encode failed", "error", err)
		return
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.Warn("session save failed", "error", err)
	}
}

// Clear removes the persisted identity.
func (s *SessionStore) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logger.Warn("session clear failed", "error", err)
	}
}

// decodeIdentity decodes a session record. A JSON null decodes to nil.
func decodeIdentity(data []byte) (*domain.Identity, error) {
	var identity *domain.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, domain.ErrPersistenceCorrupt.WithCause(err)
	}
	return identity, nil
}
