// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/carrier/pkg/validator"
)

// Cost is the bcrypt work factor used by Hash.
const Cost = 12

var (
	ErrWeak     = errors.New("password: does not meet the password policy")
	ErrMismatch = errors.New("password: mismatch")
)

// Hash checks plain against the password policy and returns its bcrypt hash.
func Hash(plain string) (string, error) {
	if !validator.IsPassword(plain) {
		return "", ErrWeak
	}
	return hash(plain, Cost)
}

func hash(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare returns nil when plain matches hashed and ErrMismatch otherwise.
func Compare(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return errors.Join(ErrMismatch, err)
	}
}

// NeedsRehash reports whether hashed was produced with a cost other than Cost.
func NeedsRehash(hashed string) bool {
	cost, err := bcrypt.Cost([]byte(hashed))
	return err != nil || cost != Cost
}
