package storage

import (
	"context"
	"sync"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
)

// Factory builds a backend from cfg.
type Factory func(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// RegisterFactory makes a backend available to New. Backend packages call
// it from init.
func RegisterFactory(provider string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[provider] = f
}

// New builds the backend named by cfg.Provider. The backend's package must
// be imported so its factory is registered.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Get("storage")
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, errors.InvalidConfig("storage provider " + cfg.Provider + " is not registered")
	}

	log.Debug("storage initialized", logger.Fields("provider", cfg.Provider))
	return f(ctx, cfg, log.WithComponent("storage"))
}
