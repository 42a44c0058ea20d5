package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

// Keys under which the live mailbox's secrets are stored.
const (
	KeyPassword = "mailbox-password"
	KeyToken    = "mailbox-token"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = keyring.ErrKeyNotFound

// Vault holds the mailbox secrets for the lifetime of the process.
type Vault struct {
	ring keyring.Keyring
}

// NewSessionVault returns a vault backed by an in-memory keyring. Nothing
// stored in it outlives the process.
func NewSessionVault() *Vault {
	return &Vault{ring: keyring.NewArrayKeyring(nil)}
}

// NewVault wraps an existing keyring.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// Get retrieves a credential value by key.
func (v *Vault) Get(key string) (string, error) {
	item, err := v.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key.
func (v *Vault) Set(key string, value string) error {
	err := v.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key. Deleting an absent key is not an
// error.
func (v *Vault) Delete(key string) error {
	err := v.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// Clear removes every stored credential.
func (v *Vault) Clear() error {
	keys, err := v.ring.Keys()
	if err != nil {
		return fmt.Errorf("listing credentials: %w", err)
	}
	for _, k := range keys {
		if err := v.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
