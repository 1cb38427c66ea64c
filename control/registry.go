package control

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gbone001/HLL-Map-Switcher/config"
)

// Registry holds the configured servers in their configured order. The
// set of servers is fixed for the life of the process; only display
// names may be updated, once, during startup enrichment.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]config.ServerEntry
}

// NewRegistry builds a registry from validated config entries.
func NewRegistry(entries []config.ServerEntry) *Registry {
	r := &Registry{byID: make(map[string]config.ServerEntry, len(entries))}
	for _, e := range entries {
		r.order = append(r.order, e.ID)
		r.byID[e.ID] = e
	}
	return r
}

// Get returns the server with the given ID.
func (r *Registry) Get(id string) (config.ServerEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e, ok
}

// List returns all servers in configured order.
func (r *Registry) List() []config.ServerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]config.ServerEntry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) setName(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byID[id]; ok {
		e.Name = name
		r.byID[id] = e
	}
}

// EnrichNames asks each server what it calls itself and fills in
// display names the operator left blank. Failures are logged and the
// configured ID stays as the fallback name.
func (c *Controller) EnrichNames(ctx context.Context, registry *Registry) {
	for _, server := range registry.List() {
		if server.Name != "" {
			continue
		}
		name, err := c.ServerName(ctx, server)
		if err != nil {
			c.log.Warn("server name discovery failed, using ID",
				zap.String("server", server.ID), zap.Error(err))
			registry.setName(server.ID, server.ID)
			continue
		}
		registry.setName(server.ID, name)
	}
}
