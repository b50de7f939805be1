package keyring

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zalando/go-keyring"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/logger"
)

var (
	// ErrNotFound is returned when no secret is stored in the keyring
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetIntentSecret retrieves the display intent secret from the OS keyring.
// Returns ErrNotFound if no secret is stored.
func GetIntentSecret() (string, error) {
	secret, err := keyring.Get(constants.AppName, constants.DefaultKeyringKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// SetIntentSecret stores the display intent secret in the OS keyring.
func SetIntentSecret(secret string) error {
	if secret == "" {
		return errors.New("intent secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringKey, secret); err != nil {
		return fmt.Errorf("failed to store intent secret in keyring: %w", err)
	}
	return nil
}

// DeleteIntentSecret removes the display intent secret from the OS keyring.
func DeleteIntentSecret() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete intent secret from keyring: %w", err)
	}
	return nil
}

// RotateIntentSecret replaces the stored secret with a fresh one.
func RotateIntentSecret() (string, error) {
	secret := uuid.NewString()
	if err := SetIntentSecret(secret); err != nil {
		return "", err
	}
	return secret, nil
}

// EnsureIntentSecret returns the stored secret, creating one on first use.
// When the keyring cannot be used the returned secret lives only as long as
// the process and persistent is false.
func EnsureIntentSecret() (secret string, persistent bool) {
	secret, err := GetIntentSecret()
	if err == nil {
		return secret, true
	}
	if errors.Is(err, ErrNotFound) {
		secret, err = RotateIntentSecret()
		if err == nil {
			return secret, true
		}
	}

	logger.Warn("Keyring unavailable, using an ephemeral intent secret", "error", err)
	return uuid.NewString(), false
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}
