package statuspoll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/control"
	"github.com/gbone001/HLL-Map-Switcher/crcon"
)

type fakeRemote struct {
	mu       sync.Mutex
	maps     map[string]string
	errs     map[string]error
	state    crcon.Gamestate
	stateErr error
}

func (f *fakeRemote) CurrentMap(ctx context.Context, server config.ServerEntry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[server.ID]; err != nil {
		return "", err
	}
	return f.maps[server.ID], nil
}

func (f *fakeRemote) Gamestate(ctx context.Context, server config.ServerEntry) (crcon.Gamestate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stateErr != nil {
		return crcon.Gamestate{}, f.stateErr
	}
	return f.state, nil
}

func testRegistry() *control.Registry {
	return control.NewRegistry([]config.ServerEntry{
		{ID: "alpha", Name: "Alpha Server", RconHost: "10.0.0.1", RconPort: 7779},
		{ID: "bravo", Name: "Bravo Server", RconHost: "10.0.0.2", RconPort: 7779},
	})
}

func newTestPoller(remote *fakeRemote) *Poller {
	return New(remote, testRegistry(), catalog.Builtin(), time.Minute, zap.NewNop())
}

func TestRefreshLabelsMaps(t *testing.T) {
	remote := &fakeRemote{maps: map[string]string{
		"alpha": "carentan_warfare_night",
		"bravo": "foy_offensive_us",
	}}
	poller := newTestPoller(remote)

	board := poller.Refresh(context.Background())

	require.Len(t, board, 2)
	assert.Equal(t, "alpha", board[0].ServerID)
	assert.Equal(t, "Carentan Warfare (Night)", board[0].MapLabel)
	assert.Equal(t, "Foy Offensive (US Attack)", board[1].MapLabel)
	assert.Empty(t, board[0].Err)
}

func TestRefreshIsolatesFailures(t *testing.T) {
	remote := &fakeRemote{
		maps: map[string]string{"bravo": "kursk_warfare"},
		errs: map[string]error{"alpha": errors.New("server unreachable")},
	}
	poller := newTestPoller(remote)

	board := poller.Refresh(context.Background())

	assert.Contains(t, board[0].Err, "unreachable")
	assert.Empty(t, board[1].Err)
	assert.Equal(t, "Kursk Warfare (Day)", board[1].MapLabel)
}

func TestFailedRefreshKeepsLastKnownMap(t *testing.T) {
	remote := &fakeRemote{maps: map[string]string{
		"alpha": "carentan_warfare",
		"bravo": "foy_warfare",
	}}
	poller := newTestPoller(remote)
	poller.Refresh(context.Background())

	remote.mu.Lock()
	remote.errs = map[string]error{"alpha": errors.New("timeout")}
	remote.mu.Unlock()

	board := poller.Refresh(context.Background())

	assert.Equal(t, "Carentan Warfare (Day)", board[0].MapLabel)
	assert.Contains(t, board[0].Err, "timeout")
}

func TestUnknownLayerFallsBackToID(t *testing.T) {
	remote := &fakeRemote{maps: map[string]string{
		"alpha": "brand_new_map_warfare",
		"bravo": "foy_warfare",
	}}
	poller := newTestPoller(remote)

	board := poller.Refresh(context.Background())
	assert.Equal(t, "brand_new_map_warfare", board[0].MapLabel)
}

func TestRecordUpdatesBoardImmediately(t *testing.T) {
	remote := &fakeRemote{maps: map[string]string{
		"alpha": "carentan_warfare",
		"bravo": "foy_warfare",
	}}
	poller := newTestPoller(remote)
	poller.Refresh(context.Background())

	var notified []Status
	poller.OnUpdate(func(board []Status) { notified = board })

	now := time.Now()
	poller.Record("alpha", "kursk_warfare_night", now)

	board := poller.Latest()
	assert.Equal(t, "Kursk Warfare (Night)", board[0].MapLabel)
	assert.Equal(t, now, board[0].RefreshedAt)
	require.Len(t, notified, 2)
	assert.Equal(t, "Kursk Warfare (Night)", notified[0].MapLabel)

	// Unknown servers are ignored.
	poller.Record("charlie", "foy_warfare", now)
	assert.Len(t, poller.Latest(), 2)
}

func TestListenerSeesEveryRefresh(t *testing.T) {
	remote := &fakeRemote{maps: map[string]string{
		"alpha": "carentan_warfare",
		"bravo": "foy_warfare",
	}}
	poller := newTestPoller(remote)

	calls := 0
	poller.OnUpdate(func(board []Status) { calls++ })

	poller.Refresh(context.Background())
	poller.Refresh(context.Background())
	assert.Equal(t, 2, calls)
}

func TestRefreshFillsMatchDetail(t *testing.T) {
	registry := control.NewRegistry([]config.ServerEntry{
		{ID: "alpha", Name: "Alpha Server", RconHost: "10.0.0.1", RconPort: 7779,
			CrconURL: "https://crcon.example.com", CrconToken: "token"},
	})
	remote := &fakeRemote{
		maps: map[string]string{"alpha": "carentan_warfare"},
		state: crcon.Gamestate{
			NumAlliedPlayers: 40,
			NumAxisPlayers:   38,
			RawTimeRemaining: "1:02:03",
		},
	}
	poller := New(remote, registry, catalog.Builtin(), time.Minute, zap.NewNop())

	board := poller.Refresh(context.Background())

	require.Len(t, board, 1)
	assert.True(t, board[0].HasDetail)
	assert.Equal(t, 40, board[0].AlliedPlayers)
	assert.Equal(t, "1:02:03", board[0].TimeRemaining)

	// Detail failures do not break the map update.
	remote.mu.Lock()
	remote.stateErr = errors.New("crcon down")
	remote.mu.Unlock()
	board = poller.Refresh(context.Background())
	assert.Empty(t, board[0].Err)
	assert.Equal(t, "Carentan Warfare (Day)", board[0].MapLabel)
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0:12:34", formatRemaining(crcon.Gamestate{TimeRemaining: 754}))
	assert.Equal(t, "raw", formatRemaining(crcon.Gamestate{RawTimeRemaining: "raw", TimeRemaining: 754}))
	assert.Equal(t, "", formatRemaining(crcon.Gamestate{}))
}

func TestTriggerCoalesces(t *testing.T) {
	poller := newTestPoller(&fakeRemote{})

	poller.Trigger()
	poller.Trigger()
	poller.Trigger()

	assert.Len(t, poller.trigger, 1)
}
