// Package state persists playback state as namespaced JSON values over a pluggable key/value backend.
//
// Writes are best effort: a failing backend is logged and never rolls back in-memory state.
// Reads fall back to a caller-supplied default when a key is missing or holds corrupt JSON.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

// Persisted keys, relative to the store prefix.
const (
	KeyLastTrack    = "last_track"
	KeyLastPosition = "last_position"
	KeyWasPlaying   = "was_playing"
	KeyShuffle      = "shuffle"
	KeyRepeat       = "repeat"
	KeyHistory      = "history"
)

// Keys lists every key the player writes.
var Keys = []string{KeyLastTrack, KeyLastPosition, KeyWasPlaying, KeyShuffle, KeyRepeat, KeyHistory}

// KV is the storage capability the store needs.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Lister is implemented by backends that can enumerate keys by prefix.
type Lister interface {
	List(prefix string) (map[string]string, error)
}

// Store namespaces every key under a common prefix.
type Store struct {
	kv     KV
	prefix string
	logger *log.Logger
}

// New creates a [Store] over kv. An empty prefix defaults to "player:".
func New(kv KV, prefix string, logger *log.Logger) *Store {
	if prefix == "" {
		prefix = "player:"
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Store{kv: kv, prefix: prefix, logger: logger}
}

// Key returns the namespaced form of name.
func (s *Store) Key(name string) string { return s.prefix + name }

// Prefix returns the namespace prefix.
func (s *Store) Prefix() string { return s.prefix }

// Save JSON-encodes v under name. Failures are logged and returned wrapped in [shared.ErrStorage];
// callers on the playback path ignore the result.
func (s *Store) Save(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("error saving state", "key", name, "err", err)
		return fmt.Errorf("%w: encode %s: %v", shared.ErrStorage, name, err)
	}

	if err := s.kv.Set(s.Key(name), string(data)); err != nil {
		s.logger.Error("error saving state", "key", name, "err", err)
		return fmt.Errorf("%w: write %s: %v", shared.ErrStorage, name, err)
	}
	return nil
}

// Remove deletes name, logging failures.
func (s *Store) Remove(name string) {
	if err := s.kv.Delete(s.Key(name)); err != nil {
		s.logger.Error("error removing state", "key", name, "err", err)
	}
}

// Reset removes every player key.
func (s *Store) Reset() {
	for _, k := range Keys {
		s.Remove(k)
	}
}

// Raw returns the stored JSON for name.
func (s *Store) Raw(name string) (string, bool, error) {
	return s.kv.Get(s.Key(name))
}

// Load decodes the value stored under name, or returns def when it is missing, empty or corrupt.
func Load[T any](s *Store, name string, def T) T {
	raw, ok, err := s.kv.Get(s.Key(name))
	if err != nil {
		s.logger.Error("error loading state", "key", name, "err", err)
		return def
	}
	if !ok || raw == "" || raw == "null" {
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Error("error loading state", "key", name, "err", fmt.Errorf("%w: %v", shared.ErrCorruptState, err))
		return def
	}
	return v
}

// Snapshot reads every persisted field at once.
func (s *Store) Snapshot() models.Snapshot {
	return models.Snapshot{
		Track:    Load[*models.Track](s, KeyLastTrack, nil),
		Position: Load(s, KeyLastPosition, 0.0),
		Playing:  Load(s, KeyWasPlaying, false),
		Shuffle:  Load(s, KeyShuffle, false),
		Repeat:   Load(s, KeyRepeat, false),
		History:  Load(s, KeyHistory, []int{}),
	}
}

// Entries lists the raw values of the store's namespace, when the backend supports listing.
func (s *Store) Entries() (map[string]string, error) {
	lister, ok := s.kv.(Lister)
	if !ok {
		return nil, fmt.Errorf("%w: backend cannot list keys", shared.ErrNotImplemented)
	}
	all, err := lister.List(s.prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	entries := make(map[string]string, len(all))
	for k, v := range all {
		entries[strings.TrimPrefix(k, s.prefix)] = v
	}
	return entries, nil
}

// Memory is an in-process [KV]. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty [Memory] store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// List returns the entries whose key starts with prefix.
func (m *Memory) List(prefix string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string)
	for k, v := range m.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

// SortedKeys returns the keys of entries in lexical order.
func SortedKeys(entries map[string]string) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsStorageError reports whether err came from the persistence layer.
func IsStorageError(err error) bool {
	return errors.Is(err, shared.ErrStorage)
}
