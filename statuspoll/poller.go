// Package statuspoll keeps the current-map status of every configured
// server fresh. A background loop polls all servers on an interval;
// map changes applied through the panel are recorded immediately so the
// board never shows a stale map right after a switch.
package statuspoll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/control"
	"github.com/gbone001/HLL-Map-Switcher/crcon"
)

// remote is the slice of the controller the poller needs.
type remote interface {
	CurrentMap(ctx context.Context, server config.ServerEntry) (string, error)
	Gamestate(ctx context.Context, server config.ServerEntry) (crcon.Gamestate, error)
}

// Status is the last known state of one server.
type Status struct {
	ServerID    string
	ServerName  string
	LayerID     string
	MapLabel    string
	Err         string
	RefreshedAt time.Time

	// Match detail, only filled for servers with CRCON access.
	HasDetail     bool
	AlliedPlayers int
	AxisPlayers   int
	TimeRemaining string
}

// Listener receives the full board after every change, in configured
// server order.
type Listener func(statuses []Status)

// Poller refreshes server statuses periodically and on demand.
type Poller struct {
	log      *zap.Logger
	remote   remote
	registry *control.Registry
	cat      *catalog.Catalog
	interval time.Duration

	trigger chan struct{}

	mu       sync.Mutex
	latest   map[string]Status
	listener Listener
}

// New builds a poller over the registry's servers.
func New(remote remote, registry *control.Registry, cat *catalog.Catalog, interval time.Duration, log *zap.Logger) *Poller {
	return &Poller{
		log:      log,
		remote:   remote,
		registry: registry,
		cat:      cat,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		latest:   make(map[string]Status),
	}
}

// OnUpdate registers the listener notified after each refresh or
// recorded change. Must be called before Run.
func (p *Poller) OnUpdate(fn Listener) {
	p.mu.Lock()
	p.listener = fn
	p.mu.Unlock()
}

// Run polls until the context is cancelled: once immediately, then on
// every tick and every Trigger call.
func (p *Poller) Run(ctx context.Context) {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		case <-p.trigger:
			p.Refresh(ctx)
		}
	}
}

// Trigger requests an extra refresh cycle without blocking. Requests
// arriving while one is already pending are coalesced.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Refresh queries every server once, in parallel, and returns the
// updated board. A server that cannot be reached keeps its last known
// map and gets its error recorded; other servers are unaffected.
func (p *Poller) Refresh(ctx context.Context) []Status {
	servers := p.registry.List()
	now := time.Now()

	var wg sync.WaitGroup
	for _, server := range servers {
		wg.Add(1)
		go func(server config.ServerEntry) {
			defer wg.Done()
			p.refreshOne(ctx, server, now)
		}(server)
	}
	wg.Wait()

	board := p.Latest()
	p.notify(board)
	return board
}

func (p *Poller) refreshOne(ctx context.Context, server config.ServerEntry, now time.Time) {
	layerID, err := p.remote.CurrentMap(ctx, server)

	var state crcon.Gamestate
	hasDetail := false
	if err == nil && server.HasCrcon() {
		state, err = p.remote.Gamestate(ctx, server)
		if err != nil {
			// Match detail is best-effort; the map still updates.
			p.log.Debug("gamestate query failed",
				zap.String("server", server.ID), zap.Error(err))
			err = nil
		} else {
			hasDetail = true
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	status := p.latest[server.ID]
	status.ServerID = server.ID
	status.ServerName = server.Name
	status.RefreshedAt = now
	if err != nil {
		p.log.Warn("status refresh failed",
			zap.String("server", server.ID), zap.Error(err))
		status.Err = err.Error()
	} else {
		status.Err = ""
		status.LayerID = layerID
		status.MapLabel = p.label(layerID)
		status.HasDetail = hasDetail
		if hasDetail {
			status.AlliedPlayers = state.NumAlliedPlayers
			status.AxisPlayers = state.NumAxisPlayers
			status.TimeRemaining = formatRemaining(state)
		}
	}
	p.latest[server.ID] = status
}

// formatRemaining renders the match clock, preferring the raw string
// the API already formatted.
func formatRemaining(state crcon.Gamestate) string {
	if state.RawTimeRemaining != "" {
		return state.RawTimeRemaining
	}
	total := int(state.TimeRemaining)
	if total <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// Record notes a map change applied through the panel so the board
// reflects it before the next poll.
func (p *Poller) Record(serverID, layerID string, now time.Time) {
	p.mu.Lock()
	server, ok := p.registry.Get(serverID)
	if !ok {
		p.mu.Unlock()
		return
	}
	status := p.latest[serverID]
	status.ServerID = serverID
	status.ServerName = server.Name
	status.LayerID = layerID
	status.MapLabel = p.label(layerID)
	status.Err = ""
	status.RefreshedAt = now
	p.latest[serverID] = status
	p.mu.Unlock()

	p.notify(p.Latest())
}

// Latest returns the board in configured server order.
func (p *Poller) Latest() []Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board()
}

// board assembles the ordered status list. Callers must hold p.mu or
// be the only goroutine touching the poller.
func (p *Poller) board() []Status {
	servers := p.registry.List()
	out := make([]Status, 0, len(servers))
	for _, server := range servers {
		status, ok := p.latest[server.ID]
		if !ok {
			status = Status{ServerID: server.ID, ServerName: server.Name}
		}
		out = append(out, status)
	}
	return out
}

func (p *Poller) notify(board []Status) {
	p.mu.Lock()
	fn := p.listener
	p.mu.Unlock()
	if fn != nil {
		fn(board)
	}
}

// label renders a layer ID for display, e.g. "Carentan Warfare (Night)".
// Layers missing from the catalog fall back to the raw ID.
func (p *Poller) label(layerID string) string {
	entry, variant, err := p.cat.MapByLayerID(layerID)
	if err != nil {
		return layerID
	}
	return fmt.Sprintf("%s %s (%s)", entry.Name, entry.Mode.Title(), variant.Label)
}
