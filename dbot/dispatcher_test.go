package dbot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/control"
	"github.com/gbone001/HLL-Map-Switcher/session"
)

type fakeRemote struct {
	via       string
	changeErr error
	lockErr   error
	changed   []string
	locks     int
}

func (f *fakeRemote) ChangeMap(ctx context.Context, server config.ServerEntry, layerID string) (string, error) {
	if f.changeErr != nil {
		return "", f.changeErr
	}
	f.changed = append(f.changed, server.ID+"/"+layerID)
	return f.via, nil
}

func (f *fakeRemote) LockObjectiveLayout(ctx context.Context, server config.ServerEntry) ([]string, error) {
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	f.locks++
	return []string{"A2", "B2", "C2", "D2", "E2"}, nil
}

type fakeSink struct {
	recorded []string
	triggers int
}

func (f *fakeSink) Record(serverID, layerID string, now time.Time) {
	f.recorded = append(f.recorded, serverID+"/"+layerID)
}

func (f *fakeSink) Trigger() { f.triggers++ }

type dispatchHarness struct {
	d      *Dispatcher
	store  *session.Store
	remote *fakeRemote
	sink   *fakeSink
	clock  time.Time
}

func newDispatchHarness(t *testing.T) *dispatchHarness {
	t.Helper()
	registry := control.NewRegistry([]config.ServerEntry{
		{ID: "alpha", Name: "Alpha Server", RconHost: "10.0.0.1", RconPort: 7779,
			CrconURL: "https://crcon.example.com", CrconToken: "token"},
		{ID: "bravo", Name: "Bravo Server", RconHost: "10.0.0.2", RconPort: 7779},
	})
	h := &dispatchHarness{
		store:  session.NewStore(catalog.Builtin(), 5*time.Minute),
		remote: &fakeRemote{via: "crcon"},
		sink:   &fakeSink{},
		clock:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	h.d = NewDispatcher(catalog.Builtin(), h.store, registry, h.remote, h.sink, zap.NewNop())
	h.d.now = func() time.Time { return h.clock }
	return h
}

func key(messageID string) session.Key {
	return session.Key{MessageID: messageID, UserID: "u1"}
}

func buttonLabels(layout *Layout) []string {
	var labels []string
	for _, row := range layout.Rows {
		for _, b := range row {
			labels = append(labels, b.Label)
		}
	}
	return labels
}

func (h *dispatchHarness) click(t *testing.T, messageID, serverID string, action Action, value string) Result {
	t.Helper()
	return h.d.Click(context.Background(), key(messageID), serverID, action, value)
}

func TestFullFlowAppliesMap(t *testing.T) {
	h := newDispatchHarness(t)

	result := h.click(t, "m1", "alpha", ActionMode, "warfare")
	require.NotNil(t, result.Layout)
	assert.Contains(t, result.Layout.Body, "Warfare: pick a map")
	assert.Contains(t, buttonLabels(result.Layout), "Carentan")

	result = h.click(t, "m1", "alpha", ActionMap, "Carentan")
	require.NotNil(t, result.Layout)
	assert.Contains(t, result.Layout.Body, "pick a variant")
	assert.Equal(t, []string{"Day", "Night", "Cancel"}, buttonLabels(result.Layout))

	result = h.click(t, "m1", "alpha", ActionVariant, "Night")
	require.NotNil(t, result.Layout)
	assert.Contains(t, result.Layout.Body, "Carentan Warfare (Night)")
	assert.Contains(t, buttonLabels(result.Layout), "Apply + Lock Objectives")

	result = h.click(t, "m1", "alpha", ActionApply, "")
	require.NotNil(t, result.Layout)
	assert.True(t, result.Layout.Done)
	assert.Contains(t, result.Layout.Body, "map changed")

	assert.Equal(t, []string{"alpha/carentan_warfare_night"}, h.remote.changed)
	assert.Equal(t, []string{"alpha/carentan_warfare_night"}, h.sink.recorded)
	assert.Equal(t, 1, h.sink.triggers)
	assert.Zero(t, h.store.Len(), "applied sessions are evicted")
}

func TestSingleVariantSkipsToConfirm(t *testing.T) {
	h := newDispatchHarness(t)

	h.click(t, "m1", "alpha", ActionMode, "warfare")
	result := h.click(t, "m1", "alpha", ActionMap, "Hill 400")

	require.NotNil(t, result.Layout)
	assert.Contains(t, result.Layout.Body, "Hill 400 Warfare (Day)")
}

func TestRconOnlyServerHasNoLockButton(t *testing.T) {
	h := newDispatchHarness(t)

	h.click(t, "m1", "bravo", ActionMode, "warfare")
	result := h.click(t, "m1", "bravo", ActionMap, "Hill 400")

	require.NotNil(t, result.Layout)
	assert.NotContains(t, buttonLabels(result.Layout), "Apply + Lock Objectives")
}

func TestApplyFailureStaysAtConfirm(t *testing.T) {
	h := newDispatchHarness(t)
	h.remote.changeErr = fmt.Errorf("%w: dial tcp", control.ErrUnreachable)

	h.click(t, "m1", "alpha", ActionMode, "warfare")
	h.click(t, "m1", "alpha", ActionMap, "Hill 400")
	result := h.click(t, "m1", "alpha", ActionApply, "")

	require.NotNil(t, result.Layout)
	assert.Contains(t, result.Layout.Body, "change map to")
	assert.Contains(t, result.Layout.Body, "could not be reached")
	assert.Equal(t, "The server could not be reached.", result.Notice)
	assert.Empty(t, h.sink.recorded)

	// Retry after the failure succeeds.
	h.remote.changeErr = nil
	result = h.click(t, "m1", "alpha", ActionApply, "")
	require.NotNil(t, result.Layout)
	assert.True(t, result.Layout.Done)
	assert.Equal(t, []string{"alpha/hill400_warfare"}, h.sink.recorded)
}

func TestApplyWithLock(t *testing.T) {
	h := newDispatchHarness(t)

	h.click(t, "m1", "alpha", ActionMode, "warfare")
	h.click(t, "m1", "alpha", ActionMap, "Hill 400")
	result := h.click(t, "m1", "alpha", ActionApplyLock, "")

	require.NotNil(t, result.Layout)
	assert.True(t, result.Layout.Done)
	assert.Empty(t, result.Notice)
	assert.Equal(t, 1, h.remote.locks)
}

func TestLockFailureStillAppliesMap(t *testing.T) {
	h := newDispatchHarness(t)
	h.remote.lockErr = fmt.Errorf("%w: 401", control.ErrUnauthorized)

	h.click(t, "m1", "alpha", ActionMode, "warfare")
	h.click(t, "m1", "alpha", ActionMap, "Hill 400")
	result := h.click(t, "m1", "alpha", ActionApplyLock, "")

	require.NotNil(t, result.Layout)
	assert.True(t, result.Layout.Done)
	assert.Contains(t, result.Notice, "locking objectives failed")
	assert.Equal(t, []string{"alpha/hill400_warfare"}, h.sink.recorded)
}

func TestCancelRevertsToInitialLayout(t *testing.T) {
	h := newDispatchHarness(t)

	h.click(t, "m1", "alpha", ActionMode, "warfare")
	result := h.click(t, "m1", "alpha", ActionCancel, "")

	require.NotNil(t, result.Layout)
	assert.Equal(t, []string{"Warfare", "Offensive", "Skirmish", "Cancel"}, buttonLabels(result.Layout))
	assert.Zero(t, h.store.Len())

	// The reverted message stays usable: a mode click starts over.
	result = h.click(t, "m1", "alpha", ActionMode, "skirmish")
	require.NotNil(t, result.Layout)
	assert.Contains(t, result.Layout.Body, "Skirmish: pick a map")
}

func TestSecondFlowElsewhereRejected(t *testing.T) {
	h := newDispatchHarness(t)

	h.click(t, "m1", "alpha", ActionMode, "warfare")
	result := h.click(t, "m2", "bravo", ActionMode, "warfare")

	assert.Nil(t, result.Layout)
	assert.Contains(t, result.Notice, "already have an open map selection")
}

func TestConcurrentClickConflicts(t *testing.T) {
	h := newDispatchHarness(t)
	h.click(t, "m1", "alpha", ActionMode, "warfare")

	_, release, err := h.store.Acquire(key("m1"))
	require.NoError(t, err)
	defer release()

	result := h.click(t, "m1", "alpha", ActionMap, "Carentan")
	assert.Nil(t, result.Layout)
	assert.Contains(t, result.Notice, "hold on")
}

func TestStaleNonModeClickRejected(t *testing.T) {
	h := newDispatchHarness(t)

	result := h.click(t, "m1", "alpha", ActionMap, "Carentan")
	assert.Nil(t, result.Layout)
	assert.Contains(t, result.Notice, "no longer active")
}

func TestWrongStepClickKeepsState(t *testing.T) {
	h := newDispatchHarness(t)
	h.click(t, "m1", "alpha", ActionMode, "warfare")

	result := h.click(t, "m1", "alpha", ActionVariant, "Night")
	assert.Nil(t, result.Layout)
	assert.Contains(t, result.Notice, "out of date")
}

func TestExpireSweepRevertsFlows(t *testing.T) {
	h := newDispatchHarness(t)
	h.click(t, "m1", "alpha", ActionMode, "warfare")

	h.clock = h.clock.Add(10 * time.Minute)
	expired := h.d.ExpireSweep(h.clock)

	require.Len(t, expired, 1)
	assert.Equal(t, key("m1"), expired[0].Key)
	assert.Equal(t, "alpha", expired[0].ServerID)
	assert.Equal(t, []string{"Warfare", "Offensive", "Skirmish", "Cancel"}, buttonLabels(&expired[0].Layout))
	assert.Zero(t, h.store.Len())
}

func TestUnknownServer(t *testing.T) {
	h := newDispatchHarness(t)

	result := h.click(t, "m1", "charlie", ActionMode, "warfare")
	assert.Nil(t, result.Layout)
	assert.Contains(t, result.Notice, "Unknown server")
}
