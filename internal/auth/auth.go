// Package auth covers the connection admission surface: password hashing
// and credential verification. Account management itself lives elsewhere;
// the table server only needs to know who is on the other end of a socket.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a bad username/password pair.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticator verifies username/password pairs presented at connection
// time.
type Authenticator interface {
	Verify(ctx context.Context, username, password string) error
}

// AllowAny accepts any non-empty username. Standalone/dev mode only; never
// wire it in front of a shared database.
type AllowAny struct{}

func (AllowAny) Verify(ctx context.Context, username, password string) error {
	if username == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// CredentialSource looks up the stored password hash for a user.
type CredentialSource interface {
	PasswordHash(ctx context.Context, username string) (string, error)
}

// Verifier authenticates username/password pairs against a credential
// source.
type Verifier struct {
	source CredentialSource
}

// NewVerifier creates a verifier.
func NewVerifier(source CredentialSource) *Verifier {
	return &Verifier{source: source}
}

// Verify returns nil when the credentials are valid. Lookup failures are
// folded into ErrInvalidCredentials so a caller cannot distinguish an
// unknown user from a wrong password.
func (v *Verifier) Verify(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}
	hash, err := v.source.PasswordHash(ctx, username)
	if err != nil {
		return ErrInvalidCredentials
	}
	if !CheckPassword(hash, password) {
		return ErrInvalidCredentials
	}
	return nil
}

// StaticCredentials is a map-backed credential source for tests and
// standalone mode.
type StaticCredentials map[string]string

func (s StaticCredentials) PasswordHash(ctx context.Context, username string) (string, error) {
	hash, ok := s[username]
	if !ok {
		return "", ErrInvalidCredentials
	}
	return hash, nil
}
