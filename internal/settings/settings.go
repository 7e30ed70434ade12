// Package settings implements the key/value settings store the engine
// treats as an external collaborator: persistence of the last endpoint and
// the last preset selection, backed by a YAML file the way this codebase's
// configuration layer persists its own settings.
package settings

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tapvolt/connect-engine/pkg/errors"
)

// Store is a simple string get/put persisted as YAML on disk.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

const (
	// KeyLastEndpoint stores the last successfully-dialed raw address.
	KeyLastEndpoint = "last_endpoint"
	// KeyLastPreset stores the last selected command preset name.
	KeyLastPreset = "last_preset"
)

// Open loads the store from path, creating an empty one if the file does
// not yet exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.WrapAndMonitor(err, "read settings file")
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, errors.WrapAndMonitor(err, "parse settings file")
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

// Get returns the stored value for key, or "" if absent.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Put sets key to value and persists the store immediately.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return errors.WrapAndMonitor(err, "marshal settings")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.WrapAndMonitor(err, "write settings file")
	}
	return nil
}
