package env

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/GintGld/chat-envboot/internal/storage"
)

// Store is a key/value view of environment.
// Writers may only add or overwrite entries.
type Store interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
}

// Process is the real process-wide environment.
type Process struct{}

func NewProcess() *Process {
	return &Process{}
}

func (Process) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (Process) Set(key, value string) error {
	const op = "storage.env.Process.Set"

	if key == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrEmptyKey)
	}

	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Keys returns sorted names of variables starting with prefix.
func (Process) Keys(prefix string) []string {
	var keys []string

	for _, kv := range os.Environ() {
		key, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// Map is an in-memory store isolated from the process.
type Map struct {
	mutex *sync.RWMutex
	vars  map[string]string
}

// NewMap returns store filled with a copy of initial values.
func NewMap(initial map[string]string) *Map {
	vars := make(map[string]string, len(initial))
	for k, v := range initial {
		vars[k] = v
	}

	return &Map{
		mutex: &sync.RWMutex{},
		vars:  vars,
	}
}

func (m *Map) Lookup(key string) (string, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	v, ok := m.vars[key]
	return v, ok
}

func (m *Map) Set(key, value string) error {
	const op = "storage.env.Map.Set"

	if key == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrEmptyKey)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.vars[key] = value

	return nil
}

func (m *Map) Keys(prefix string) []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	keys := make([]string, 0, len(m.vars))
	for k := range m.vars {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	return keys
}

// All returns a copy of stored values.
func (m *Map) All() map[string]string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make(map[string]string, len(m.vars))
	for k, v := range m.vars {
		out[k] = v
	}

	return out
}
