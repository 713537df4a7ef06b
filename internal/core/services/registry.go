package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// Ensure Registry implements the interfaces.
var (
	_ driven.OperationRegistry = (*Registry)(nil)
	_ driving.OperationCatalog = (*Registry)(nil)
)

type operation struct {
	info    domain.OperationInfo
	handler domain.OperationHandler
}

// Registry holds the named operations tasks can invoke.
// Operations are registered at startup and never removed.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]operation)}
}

// Register adds an operation. Names are unique; registering a name twice
// returns domain.ErrAlreadyExists and keeps the first handler.
func (r *Registry) Register(name, description string, handler domain.OperationHandler) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: operation name is required", domain.ErrInvalidInput)
	}
	if handler == nil {
		return fmt.Errorf("%w: operation %q has no handler", domain.ErrInvalidInput, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("%w: operation %q", domain.ErrAlreadyExists, name)
	}
	r.ops[name] = operation{
		info:    domain.OperationInfo{Name: name, Description: description},
		handler: handler,
	}
	return nil
}

// Invoke runs the named operation. A panicking handler is reported as an error.
func (r *Registry) Invoke(ctx context.Context, name string, params domain.Params) (result *domain.OperationResult, err error) {
	r.mu.RLock()
	op, ok := r.ops[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: operation %q", domain.ErrNotFound, name)
	}

	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("operation %q panicked: %v", name, p)
		}
	}()

	return op.handler(ctx, params)
}

// List returns all operations sorted by name.
func (r *Registry) List() []domain.OperationInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]domain.OperationInfo, 0, len(r.ops))
	for _, op := range r.ops {
		infos = append(infos, op.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ops[name]
	return ok
}
