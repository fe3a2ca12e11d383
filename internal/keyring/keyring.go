// Package keyring keeps the database connection string in the OS keyring so
// it never has to appear in flags, environment variables or shell history.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Vault addresses one keyring entry under the application's service name.
type Vault struct {
	service string
	user    string
}

// New returns a Vault for the given profile. An empty profile selects the
// default entry.
func New(profile string) *Vault {
	if profile == "" {
		profile = constants.DefaultKeyringUser
	}
	return &Vault{service: constants.AppName, user: profile}
}

// ConnectionString retrieves the stored connection string.
// Returns ErrNotFound if nothing is stored.
func (v *Vault) ConnectionString() (string, error) {
	connStr, err := keyring.Get(v.service, v.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores connStr, replacing any previous value.
func (v *Vault) SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(v.service, v.user, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the stored connection string.
func (v *Vault) DeleteConnectionString() error {
	if err := keyring.Delete(v.service, v.user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring can be reached. A missing probe
// entry still counts as available.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
