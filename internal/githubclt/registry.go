package githubclt

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/itchyny/gojq"
	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/cfg"
	"github.com/prgate/prgate/internal/logfields"
)

// ErrNotConfigured is returned by Registry.Client for repositories that no
// configuration entry exists for.
var ErrNotConfigured = errors.New("repository is not configured")

type registryEntry struct {
	cfg    *cfg.RepositoryConfig
	filter *gojq.Query
	client *Client
}

// Registry resolves repository full names (<owner>/<name>) to configured
// clients.
// Invalid repository configurations are dropped with a warning when the
// registry is created, clients for the remaining entries are created lazily
// on first use.
type Registry struct {
	logger *zap.Logger

	lock    sync.Mutex
	entries map[string]*registryEntry
}

// NewRegistry creates a registry from the configured repositories.
func NewRegistry(repos []*cfg.RepositoryConfig) *Registry {
	logger := zap.L().Named("repository_registry")

	reg := Registry{
		logger:  logger,
		entries: map[string]*registryEntry{},
	}

	for _, repoCfg := range repos {
		if err := repoCfg.Validate(); err != nil {
			logger.Warn(
				"dropping invalid repository configuration",
				logfields.Repository(repoCfg.Repository),
				zap.Error(err),
			)
			continue
		}

		entry := registryEntry{cfg: repoCfg}

		if repoCfg.EventFilter != "" {
			query, err := gojq.Parse(repoCfg.EventFilter)
			if err != nil {
				logger.Warn(
					"dropping repository configuration, event filter expression is invalid",
					logfields.Repository(repoCfg.Repository),
					zap.Error(err),
				)
				continue
			}
			entry.filter = query
		}

		reg.entries[repoCfg.Repository] = &entry
		logger.Debug(
			"registered repository",
			logfields.Repository(repoCfg.Repository),
		)
	}

	return &reg
}

// Repositories returns the configurations of all registered repositories.
func (r *Registry) Repositories() []*cfg.RepositoryConfig {
	r.lock.Lock()
	defer r.lock.Unlock()

	result := make([]*cfg.RepositoryConfig, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, entry.cfg)
	}

	return result
}

// Config returns the configuration of a registered repository or nil when
// the repository is not registered.
func (r *Registry) Config(fullName string) *cfg.RepositoryConfig {
	r.lock.Lock()
	defer r.lock.Unlock()

	entry, exists := r.entries[fullName]
	if !exists {
		return nil
	}

	return entry.cfg
}

// Client returns the client for a registered repository, creating it on
// first use.
func (r *Registry) Client(fullName string) (*Client, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	entry, exists := r.entries[fullName]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, fullName)
	}

	if entry.client == nil {
		client, err := New(entry.cfg)
		if err != nil {
			return nil, fmt.Errorf("creating client for %s failed: %w", fullName, err)
		}
		entry.client = client
	}

	return entry.client, nil
}

// EventMatchesFilter evaluates the repository's event filter expression
// against the unmarshalled webhook payload.
// Events of repositories without a filter always match. The event matches
// when the expression produces at least one result that is neither false nor
// null.
func (r *Registry) EventMatchesFilter(ctx context.Context, fullName string, payload any) (bool, error) {
	r.lock.Lock()
	entry, exists := r.entries[fullName]
	r.lock.Unlock()

	if !exists {
		return false, fmt.Errorf("%w: %s", ErrNotConfigured, fullName)
	}

	if entry.filter == nil {
		return true, nil
	}

	iter := entry.filter.RunWithContext(ctx, payload)
	for {
		result, hasResult := iter.Next()
		if !hasResult {
			return false, nil
		}

		if err, ok := result.(error); ok {
			return false, fmt.Errorf("evaluating event filter failed: %w", err)
		}

		if result != nil && result != false {
			return true, nil
		}
	}
}
