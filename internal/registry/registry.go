// internal/registry/registry.go
package registry

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/degenlabs/launchpad/internal/curve"
)

// Registry manages the launched curves, one engine per token mint. Engines
// are fully independent: the registry lock only guards the map, so trades on
// distinct mints proceed in parallel.
type Registry struct {
	mu     sync.RWMutex
	curves map[solana.PublicKey]*curve.Engine
	logger *zap.Logger
}

// New creates an empty curve registry.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		curves: make(map[solana.PublicKey]*curve.Engine),
		logger: logger.Named("curve_registry"),
	}
}

// Create launches a new curve for the given mint. A mint can only ever be
// launched once.
func (r *Registry) Create(mint solana.PublicKey, params curve.Params, createdAt int64) (*curve.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.curves[mint]; exists {
		return nil, fmt.Errorf("curve for mint %s already exists", mint)
	}

	engine, err := curve.New(params, createdAt, r.logger)
	if err != nil {
		return nil, fmt.Errorf("create curve for mint %s: %w", mint, err)
	}
	r.curves[mint] = engine

	r.logger.Info("Curve registered",
		zap.String("mint", mint.String()),
		zap.String("curve_type", string(params.CurveType)))

	return engine, nil
}

// Get retrieves the engine for a mint.
func (r *Registry) Get(mint solana.PublicKey) (*curve.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, exists := r.curves[mint]
	if !exists {
		return nil, fmt.Errorf("curve for mint %s not found", mint)
	}

	return engine, nil
}

// List returns the mints of every registered curve.
func (r *Registry) List() []solana.PublicKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mints := make([]solana.PublicKey, 0, len(r.curves))
	for mint := range r.curves {
		mints = append(mints, mint)
	}

	return mints
}

// Count returns the number of registered curves.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.curves)
}
