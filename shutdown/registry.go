package shutdown

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hashart/core"
)

// Hook priorities used by the CLI. Lower values run first.
const (
	PriorityWorkers      = 10 // stop feeding batch workers
	PriorityHistory      = 30 // drain the async history writer, close the database
	PriorityPartialFiles = 40 // remove half-written renders
	PriorityLogs         = 90 // flush the logger last so every hook can log
)

type hook struct {
	name     string
	priority int
	fn       core.ShutdownFunc
}

// Registry holds named cleanup hooks and runs them once, in priority order.
// Hooks with equal priority run in registration order.
type Registry struct {
	mu    sync.Mutex
	hooks []hook
	ran   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook. Registering after Run is ignored.
func (r *Registry) Register(name string, priority int, fn core.ShutdownFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ran || fn == nil {
		return
	}
	r.hooks = append(r.hooks, hook{name: name, priority: priority, fn: fn})
}

// Run calls every hook with ctx, collecting failures. Each error is
// prefixed with the hook name. Subsequent calls do nothing.
func (r *Registry) Run(ctx context.Context) []error {
	r.mu.Lock()
	if r.ran {
		r.mu.Unlock()
		return nil
	}
	r.ran = true
	hooks := r.ordered()
	r.mu.Unlock()

	var errs []error
	for _, h := range hooks {
		if err := h.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errs
}

// Names lists hook names in the order Run would call them.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	hooks := r.ordered()
	names := make([]string, len(hooks))
	for i, h := range hooks {
		names[i] = h.name
	}
	return names
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}

// HasRun reports whether Run has been called.
func (r *Registry) HasRun() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ran
}

// ordered must be called with r.mu held.
func (r *Registry) ordered() []hook {
	sorted := make([]hook, len(r.hooks))
	copy(sorted, r.hooks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})
	return sorted
}
