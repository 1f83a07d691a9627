package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Clark-Hu/movie-tracker/internal/config"
)

// CredentialVerifier turns a password into its stored form and checks a
// candidate against a stored value.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(stored, candidate string) bool
}

// PlaintextVerifier stores passwords as given and compares them verbatim.
// It keeps existing user files readable without migration.
type PlaintextVerifier struct{}

// Hash returns the password unchanged.
func (PlaintextVerifier) Hash(password string) (string, error) {
	return password, nil
}

// Verify compares in constant time.
func (PlaintextVerifier) Verify(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// BcryptVerifier stores bcrypt hashes.
type BcryptVerifier struct {
	Cost int
}

// Hash returns the bcrypt hash of password.
func (v BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether candidate matches the stored hash. A stored value
// that is not a bcrypt hash never matches.
func (BcryptVerifier) Verify(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

// VerifierFor maps a config credential mode to its verifier.
func VerifierFor(mode string) (CredentialVerifier, error) {
	switch mode {
	case "", config.CredentialPlaintext:
		return PlaintextVerifier{}, nil
	case config.CredentialBcrypt:
		return BcryptVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown credential mode %q", mode)
	}
}
