// Package keystore keeps the user's provider credentials and preferences in
// a bbolt file on the client machine. Keys are validated against their
// provider before they are stored and are never logged.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/garysheng/braindump/providers"
)

var (
	// ErrMissingCredential is returned when no key is stored for a provider.
	ErrMissingCredential = errors.New("API key not found")
	// ErrInvalidFormat is returned for keys that fail the local format check.
	ErrInvalidFormat = errors.New("invalid API key format")
	// ErrInvalidKey is returned when the provider rejects the key.
	ErrInvalidKey = errors.New("invalid API key")
	// ErrUnknownProvider is returned for provider names the store does not know.
	ErrUnknownProvider = errors.New("unknown provider")
)

var (
	credentialsBucket = []byte("credentials")
	preferencesBucket = []byte("preferences")
	autoAdvanceKey    = []byte("braindump-auto-advance")
)

// Provider names a credential slot.
type Provider string

const (
	Speech    Provider = "speech"
	Anthropic Provider = "anthropic"
	Gemini    Provider = "gemini"
)

// Providers lists every credential slot.
var Providers = []Provider{Speech, Anthropic, Gemini}

// ParseProvider converts a provider name into a Provider.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

func (p Provider) storageKey() []byte {
	return []byte(string(p) + "-api-key")
}

// checkFormat runs the offline format check for the provider.
func (p Provider) checkFormat(key string) error {
	if p == Anthropic && !strings.HasPrefix(key, "sk-") {
		return ErrInvalidFormat
	}
	return nil
}

// Store is a bbolt backed credential store.
type Store struct {
	db       *bolt.DB
	checkers map[Provider]providers.KeyChecker
}

// DefaultPath returns the default key store location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "braindump", "keys.bolt")
}

// Open opens or creates the store at path. checkers validates a key against
// its provider before Set stores it.
func Open(path string, checkers map[Provider]providers.KeyChecker) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create key store dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open key store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(credentialsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init key store: %w", err)
	}
	return &Store{db: db, checkers: checkers}, nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set trims and validates key, then stores it. Nothing is written unless
// both the format check and the provider check pass.
func (s *Store) Set(ctx context.Context, p Provider, key string) error {
	if _, err := ParseProvider(string(p)); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidFormat)
	}
	if err := p.checkFormat(key); err != nil {
		return err
	}

	checker, ok := s.checkers[p]
	if !ok || checker == nil {
		return fmt.Errorf("no validator configured for %s", p)
	}
	if err := checker.CheckKey(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Put(p.storageKey(), []byte(key))
	})
}

// Get returns the stored key for p.
func (s *Store) Get(p Provider) (string, error) {
	var key string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(credentialsBucket).Get(p.storageKey())
		if v == nil {
			return ErrMissingCredential
		}
		key = string(v)
		return nil
	})
	return key, err
}

// Remove deletes the stored key for p. Removing a missing key is not an
// error.
func (s *Store) Remove(p Provider) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Delete(p.storageKey())
	})
}

// List returns the providers that have a stored key, in a stable order.
func (s *Store) List() ([]Provider, error) {
	var out []Provider
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, p := range Providers {
			if tx.Bucket(credentialsBucket).Get(p.storageKey()) != nil {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, err
}

// AutoAdvance reports whether the recorder moves to the next question after
// a recording. It defaults to true.
func (s *Store) AutoAdvance() (bool, error) {
	enabled := true
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(preferencesBucket).Get(autoAdvanceKey); v != nil {
			enabled = string(v) != "false"
		}
		return nil
	})
	return enabled, err
}

// SetAutoAdvance stores the auto-advance preference.
func (s *Store) SetAutoAdvance(enabled bool) error {
	v := "false"
	if enabled {
		v = "true"
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(preferencesBucket).Put(autoAdvanceKey, []byte(v))
	})
}
