// Package keyring keeps the remote control token in the system keychain.
package keyring

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "knobs"
	tokenUser   = "remote-token"
)

// ErrNotFound is returned when no token has been stored.
var ErrNotFound = keyring.ErrNotFound

// Token retrieves the remote control token from the system keychain.
func Token() (string, error) {
	value, err := keyring.Get(serviceName, tokenUser)
	if err != nil {
		return "", fmt.Errorf("failed to get remote token from keychain: %w", err)
	}

	return value, nil
}

// SetToken stores the remote control token in the system keychain.
func SetToken(value string) error {
	if value == "" {
		return errors.New("token cannot be empty")
	}

	if err := keyring.Set(serviceName, tokenUser, value); err != nil {
		return fmt.Errorf("failed to set remote token in keychain: %w", err)
	}

	return nil
}

// ClearToken removes the stored token. Clearing a missing token is not an
// error.
func ClearToken() error {
	err := keyring.Delete(serviceName, tokenUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear remote token: %w", err)
	}

	return nil
}

// IsSet checks if a token exists in the keychain.
func IsSet() bool {
	_, err := keyring.Get(serviceName, tokenUser)

	return err == nil
}

// ResolveToken returns configured if set, else the stored token, else "".
func ResolveToken(configured string) string {
	if configured != "" {
		return configured
	}

	if value, err := Token(); err == nil {
		return value
	}

	return ""
}

// GenerateToken returns a random token suitable for SetToken.
func GenerateToken() string {
	return rand.Text()
}
