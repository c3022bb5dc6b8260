package credstore

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verifier is the password policy seam. Seal prepares a password for storage
// at registration; Verify compares a stored credential against a supplied
// one at login.
type Verifier interface {
	Seal(plain string) (string, error)
	Verify(stored, supplied string) bool
}

// PlainVerifier stores and compares passwords verbatim, matching the legacy
// behavior this service inherits.
type PlainVerifier struct{}

func (PlainVerifier) Seal(plain string) (string, error) {
	return plain, nil
}

func (PlainVerifier) Verify(stored, supplied string) bool {
	return stored == supplied
}

// BcryptVerifier is the drop-in hashed alternative.
type BcryptVerifier struct{}

func (BcryptVerifier) Seal(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("error hashing password")
	}
	return string(hash), nil
}

func (BcryptVerifier) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

// NewVerifier maps a configured scheme name to an implementation.
func NewVerifier(scheme string) (Verifier, error) {
	switch scheme {
	case "plain":
		return PlainVerifier{}, nil
	case "bcrypt":
		return BcryptVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}
