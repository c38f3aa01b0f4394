// Package secrets keeps credentials in the OS keyring.
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "tsheet"

// Keyring entries used by tsheet.
const (
	PostgresDSN   = "postgres-dsn"
	MSGraphTokens = "msgraph-tokens"
)

var (
	// ErrNotFound is returned when nothing is stored under the name.
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be used.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get returns the secret stored under name.
func Get(name string) (string, error) {
	v, err := keyring.Get(service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// Set stores value under name.
func Set(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(service, name, value); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Delete removes the secret stored under name.
func Delete(name string) error {
	if err := keyring.Delete(service, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}
