// Package secrets stores target passwords in the OS credential store and
// resolves "keyring:<key>" references found in configuration.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies the keyring namespace.
const ServiceName = "leapprofile"

// Prefix marks a config value as a keyring reference.
const Prefix = "keyring:"

// PasswordEnv unlocks the encrypted file backend on hosts without a
// native credential store.
const PasswordEnv = "LEAPPROFILE_KEYRING_PASSWORD"

// ErrNotFound is returned when a referenced key is not stored.
var ErrNotFound = errors.New("secret not found")

// Manager provides thread-safe access to a keyring.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// Open opens the OS keyring. Native backends are preferred; the encrypted
// file backend under ~/.leapprofile/keyring is the last resort.
func Open() (*Manager, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		FilePasswordFunc: func(string) (string, error) {
			if pw := os.Getenv(PasswordEnv); pw != "" {
				return pw, nil
			}
			return "", fmt.Errorf("set %s to unlock the file keyring", PasswordEnv)
		},
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.FileDir = filepath.Join(home, ".leapprofile", "keyring")
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return New(ring), nil
}

// IsReference reports whether value is a keyring reference.
func IsReference(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Set stores value under key.
func (m *Manager) Set(key, value string) error {
	if key == "" {
		return errors.New("secret key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key}); err != nil {
		return fmt.Errorf("failed to store secret %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", key, err)
	}
	return string(it.Data), nil
}

// Delete removes key. Removing a missing key is not an error.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete secret %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys.
func (m *Manager) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ring.Keys()
}

// Resolve returns value unchanged unless it is a keyring reference, in
// which case the stored secret is returned.
func (m *Manager) Resolve(value string) (string, error) {
	key, ok := strings.CutPrefix(value, Prefix)
	if !ok {
		return value, nil
	}
	return m.Get(strings.TrimSpace(key))
}
