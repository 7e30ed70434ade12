// Package identity implements the device identity provider the engine
// consumes as an external collaborator: a persistent UUID-v4 device
// identifier, created on first use and thereafter read from disk.
package identity

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tapvolt/connect-engine/pkg/errors"
	"github.com/tapvolt/connect-engine/pkg/logging"
	"github.com/tapvolt/connect-engine/pkg/retry"
)

// FileProvider persists a UUID-v4 device id to a file, resolving it lazily
// and caching the result for the lifetime of the process.
type FileProvider struct {
	path string

	mu    sync.Mutex
	cache string
}

// NewFileProvider returns a provider backed by the file at path. The parent
// directory is created on first write if it does not already exist.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// ResolveOrCreateDeviceID implements engine.IdentityProvider. Transient I/O
// failures are retried with the package's standard exponential-backoff
// policy before being surfaced to the caller.
func (p *FileProvider) ResolveOrCreateDeviceID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cache != "" {
		return p.cache, nil
	}

	id, err := retry.DoWithResult(ctx, func() (string, error) {
		return p.loadOrCreate()
	}, retry.DefaultConfig())
	if err != nil {
		return "", errors.WrapAndMonitor(err, "resolve device identity")
	}

	p.cache = id
	return id, nil
}

func (p *FileProvider) loadOrCreate() (string, error) {
	data, err := os.ReadFile(p.path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id, nil
		}
		logging.Warn().Str("path", p.path).Msg("identity: stored device id is not a valid UUID, regenerating")
	} else if !os.IsNotExist(err) {
		return "", errors.NewOperationError("read device identity file", err)
	}

	id := uuid.NewString()
	if err := p.persist(id); err != nil {
		return "", err
	}
	return id, nil
}

func (p *FileProvider) persist(id string) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.NewOperationError("create device identity directory", err)
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0o600); err != nil {
		return errors.NewOperationError("write device identity file", err)
	}
	return nil
}
