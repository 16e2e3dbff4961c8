package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/symetrix360/portal-go/internal/core/domain"
)

// Credential modes accepted by NewCredentialVerifier.
const (
	CredentialsDemo   = "demo"
	CredentialsArgon2 = "argon2"
)

// CredentialVerifier checks a password against an identity.
type CredentialVerifier interface {
	// Verify reports whether password is valid for identity.
	Verify(identity *domain.Identity, password string) bool

	// Hash encodes password for storage. An empty result means the
	// verifier does not store passwords.
	Hash(password string) (string, error)
}

// NewCredentialVerifier returns the verifier for mode.
func NewCredentialVerifier(mode string) (CredentialVerifier, error) {
	switch mode {
	case "", CredentialsDemo:
		return DemoCredentials{}, nil
	case CredentialsArgon2:
		return NewArgon2Credentials(), nil
	default:
		return nil, fmt.Errorf("unknown credential mode %q", mode)
	}
}

// DemoCredentials accepts any password for a known identity.
type DemoCredentials struct{}

// Verify always succeeds.
func (DemoCredentials) Verify(*domain.Identity, string) bool { return true }

// Hash stores nothing.
func (DemoCredentials) Hash(string) (string, error) { return "", nil }

// Argon2Credentials verifies argon2id hashes in the PHC string format:
//
//	$argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>
//
// Salt and hash are unpadded standard base64.
type Argon2Credentials struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// NewArgon2Credentials returns a verifier with m=16384,t=2,p=2.
func NewArgon2Credentials() *Argon2Credentials {
	return &Argon2Credentials{
		Time:    2,
		Memory:  16384,
		Threads: 2,
		KeyLen:  32,
		SaltLen: 16,
	}
}

// Hash derives a new salted hash of password.
func (a *Argon2Credentials) Hash(password string) (string, error) {
	salt := make([]byte, a.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2: generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, a.Time, a.Memory, a.Threads, a.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.Memory, a.Time, a.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify checks password against identity.PasswordHash using the
// parameters encoded in the hash. Identities without a hash never verify.
func (a *Argon2Credentials) Verify(identity *domain.Identity, password string) bool {
	if identity == nil || identity.PasswordHash == "" {
		return false
	}
	return verifyArgon2Hash(password, identity.PasswordHash)
}

func verifyArgon2Hash(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}
	if memory == 0 || iterations == 0 || threads == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// HashSeedPasswords gives every seed identity the hash of password.
// It is a no-op for verifiers that do not store passwords or when
// password is empty.
func HashSeedPasswords(creds CredentialVerifier, seeds []*domain.Identity, password string) error {
	if password == "" {
		return nil
	}
	for _, id := range seeds {
		hash, err := creds.Hash(password)
		if err != nil {
			return err
		}
		if hash == "" {
			return nil
		}
		id.PasswordHash = hash
	}
	return nil
}
