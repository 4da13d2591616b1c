// Package llm defines the uniform interface the debate core uses to talk to
// generation backends, plus the registry that maps provider keys to concrete
// vendor implementations.
package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/models"
)

// Provider is the capability interface every generation backend implements.
// The debate core depends only on this interface, never on a vendor type.
type Provider interface {
	// GenerateTurn produces one turn's content for the given debate context.
	GenerateTurn(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error)
	// Name returns the provider key, e.g. "openai".
	Name() string
	// HealthCheck verifies the provider is reachable and configured.
	HealthCheck(ctx context.Context) error
}

// Registry holds the configured providers keyed by provider name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    *logrus.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
	}
	return &Registry{
		providers: make(map[string]Provider),
		logger:    logger,
	}
}

// Register adds or replaces a provider under its own name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
	r.logger.WithField("provider", p.Name()).Info("Generation provider registered")
}

// Get returns the provider registered under the given name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not registered: %s", name)
	}
	return p, nil
}

// Available returns the sorted names of all registered providers.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
