package routecache

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// invalidKeyCharacters are reserved by PSR-16 style cache keys.
const invalidKeyCharacters = `{}()/\@:`

var (
	// ErrInvalidKey is returned for empty keys and keys holding a reserved
	// character.
	ErrInvalidKey = errors.New("routecache: invalid key")

	// ErrCorruptTimestamp is returned when the stored build time cannot be
	// parsed.
	ErrCorruptTimestamp = errors.New("routecache: corrupt build timestamp")
)

// Store is a key/value store visible to every process that serves the
// application. Reading a missing key is not an error.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Has(key string) (bool, error)
	Delete(key string) error
}

// ValidateKey returns ErrInvalidKey if key is blank or contains one of
// the characters {}()/\@:.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key should not be empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, invalidKeyCharacters) {
		return fmt.Errorf("%w: %q contains one of the forbidden characters %q", ErrInvalidKey, key, invalidKeyCharacters)
	}
	return nil
}

// MemoryStore keeps entries in process memory. Entries never expire.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Has(key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	s.mu.RLock()
	_, ok := s.entries[key]
	s.mu.RUnlock()
	return ok, nil
}

func (s *MemoryStore) Delete(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Keys returns the stored keys in no particular order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}
