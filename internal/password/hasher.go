// Package password hashes and verifies account credentials.
package password

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	ModeBcrypt    = "bcrypt"
	ModePlaintext = "plaintext"
)

var ErrUnknownMode = errors.New("unknown password storage mode")

type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, credential string) bool
}

func New(mode string) (Hasher, error) {
	switch mode {
	case ModeBcrypt, "":
		return Bcrypt{}, nil
	case ModePlaintext:
		return Plaintext{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Bcrypt salts every hash with fresh randomness at bcrypt.DefaultCost.
type Bcrypt struct{}

func (Bcrypt) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (Bcrypt) Verify(plain, credential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(plain)) == nil
}

// Plaintext stores the password unmodified.
//
// Deprecated: kept only for databases populated before hashing was enabled.
type Plaintext struct{}

func (Plaintext) Hash(plain string) (string, error) {
	return plain, nil
}

func (Plaintext) Verify(plain, credential string) bool {
	return subtle.ConstantTimeCompare([]byte(plain), []byte(credential)) == 1
}
