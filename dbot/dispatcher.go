package dbot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/control"
	"github.com/gbone001/HLL-Map-Switcher/session"
)

// remote is the slice of the controller the dispatcher calls during a
// confirm step.
type remote interface {
	ChangeMap(ctx context.Context, server config.ServerEntry, layerID string) (string, error)
	LockObjectiveLayout(ctx context.Context, server config.ServerEntry) ([]string, error)
}

// applySink receives successful map changes, so the status board can
// reflect them immediately.
type applySink interface {
	Record(serverID, layerID string, now time.Time)
	Trigger()
}

// Result is the outcome of one dispatched event: an optional new flow
// message layout and an optional ephemeral notice for the user.
type Result struct {
	Layout *Layout
	Notice string
}

// Dispatcher turns click events into session transitions and layouts.
// It owns no Discord state; the glue layer applies its results.
type Dispatcher struct {
	log      *zap.Logger
	cat      *catalog.Catalog
	store    *session.Store
	registry *control.Registry
	remote   remote
	sink     applySink
	now      func() time.Time
}

// NewDispatcher wires the dispatcher over the session store and the
// remote controller.
func NewDispatcher(cat *catalog.Catalog, store *session.Store, registry *control.Registry, remote remote, sink applySink, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		log:      log,
		cat:      cat,
		store:    store,
		registry: registry,
		remote:   remote,
		sink:     sink,
		now:      time.Now,
	}
}

// StartFlow opens a selection flow for the given key and server and
// returns its first layout.
func (d *Dispatcher) StartFlow(ctx context.Context, key session.Key, serverID string) Result {
	server, ok := d.registry.Get(serverID)
	if !ok {
		return Result{Notice: fmt.Sprintf("Unknown server %q.", serverID)}
	}

	_, _, err := d.store.Begin(key, serverID, d.now())
	if errors.Is(err, session.ErrActiveElsewhere) {
		return Result{Notice: "You already have an open map selection. Finish or cancel it first."}
	}
	if err != nil {
		d.log.Error("begin flow failed", zap.String("server", serverID), zap.Error(err))
		return Result{Notice: "Could not start a selection. Try again."}
	}

	layout := initialLayout(d.cat, server)
	return Result{Layout: &layout}
}

// Click feeds one button press into its session. A mode click on a
// flow without a live session restarts it, so cancelled and expired
// flows stay usable.
func (d *Dispatcher) Click(ctx context.Context, key session.Key, serverID string, action Action, value string) Result {
	sess, release, err := d.store.Acquire(key)
	switch {
	case errors.Is(err, session.ErrConflict):
		return Result{Notice: "Still working on your last click, hold on."}
	case errors.Is(err, session.ErrNotFound):
		if action == ActionCancel {
			return Result{Notice: "Nothing to cancel."}
		}
		if action == ActionMode {
			if result := d.StartFlow(ctx, key, serverID); result.Layout == nil {
				return result
			}
			sess, release, err = d.store.Acquire(key)
			if err != nil {
				return Result{Notice: "Could not restart the selection. Try again."}
			}
		} else {
			return Result{Notice: "This selection is no longer active. Start again from the panel."}
		}
	case err != nil:
		d.log.Error("acquire session failed", zap.Error(err))
		return Result{Notice: "Something went wrong. Try again."}
	}
	defer release()

	server, ok := d.registry.Get(sess.ServerID)
	if !ok {
		return Result{Notice: fmt.Sprintf("Unknown server %q.", sess.ServerID)}
	}

	now := d.now()
	switch action {
	case ActionMode:
		err = sess.ChooseMode(catalog.GameMode(value), now)
	case ActionMap:
		err = sess.ChooseMap(value, now)
	case ActionVariant:
		err = sess.ChooseVariant(value, now)
	case ActionCancel:
		err = sess.Cancel(now)
	case ActionApply, ActionApplyLock:
		return d.apply(ctx, sess, server, action == ActionApplyLock)
	default:
		return Result{Notice: fmt.Sprintf("Unknown action %q.", action)}
	}

	if err != nil {
		d.log.Debug("click rejected",
			zap.String("server", sess.ServerID),
			zap.String("action", string(action)),
			zap.String("step", sess.Step().String()),
			zap.Error(err))
		return Result{Notice: clickErrorNotice(err)}
	}

	layout := renderSession(d.cat, server, sess)
	return Result{Layout: &layout}
}

// apply runs the confirm step: the map change, the optional objective
// lock, and the status board update.
func (d *Dispatcher) apply(ctx context.Context, sess *session.Session, server config.ServerEntry, lock bool) Result {
	target, err := sess.ConfirmTarget()
	if err != nil {
		return Result{Notice: clickErrorNotice(err)}
	}

	via, err := d.remote.ChangeMap(ctx, server, target.ID)
	now := d.now()
	if err != nil {
		if failErr := sess.ApplyFailed(remoteErrorNotice(err), now); failErr != nil {
			return Result{Notice: clickErrorNotice(failErr)}
		}
		layout := renderSession(d.cat, server, sess)
		return Result{Layout: &layout, Notice: remoteErrorNotice(err)}
	}

	if applyErr := sess.Applied(now); applyErr != nil {
		return Result{Notice: clickErrorNotice(applyErr)}
	}
	d.log.Info("map change applied",
		zap.String("server", server.ID),
		zap.String("layer", target.ID),
		zap.String("via", via))
	d.sink.Record(server.ID, target.ID, now)
	d.sink.Trigger()

	notice := ""
	if lock {
		if _, lockErr := d.remote.LockObjectiveLayout(ctx, server); lockErr != nil {
			d.log.Warn("objective lock failed after map change",
				zap.String("server", server.ID), zap.Error(lockErr))
			notice = "Map changed, but locking objectives failed: " + remoteErrorNotice(lockErr)
		}
	}

	layout := renderSession(d.cat, server, sess)
	return Result{Layout: &layout, Notice: notice}
}

// ExpiredFlow is a flow message whose session timed out, plus the
// layout to revert it to.
type ExpiredFlow struct {
	Key      session.Key
	ServerID string
	Layout   Layout
}

// ExpireSweep expires idle sessions and returns the flow messages to
// revert.
func (d *Dispatcher) ExpireSweep(now time.Time) []ExpiredFlow {
	var out []ExpiredFlow
	for _, sess := range d.store.Sweep(now) {
		server, ok := d.registry.Get(sess.ServerID)
		if !ok {
			continue
		}
		d.log.Info("selection expired",
			zap.String("server", sess.ServerID),
			zap.String("user", sess.Key.UserID))
		out = append(out, ExpiredFlow{
			Key:      sess.Key,
			ServerID: sess.ServerID,
			Layout:   initialLayout(d.cat, server),
		})
	}
	return out
}

func clickErrorNotice(err error) string {
	switch {
	case errors.Is(err, session.ErrFinished):
		return "This selection is already finished. Start again from the panel."
	case errors.Is(err, session.ErrWrongStep):
		return "That button is out of date. Use the current ones."
	case errors.Is(err, catalog.ErrNotFound):
		return "That choice is not available."
	default:
		return "Something went wrong. Try again."
	}
}

func remoteErrorNotice(err error) string {
	switch {
	case errors.Is(err, control.ErrUnreachable):
		return "The server could not be reached."
	case errors.Is(err, control.ErrUnauthorized):
		return "The server rejected the configured credentials."
	case errors.Is(err, control.ErrRejected):
		return "The server refused the request."
	case errors.Is(err, control.ErrProtocol):
		return "The server sent an unexpected response."
	case errors.Is(err, control.ErrNoCrcon):
		return "This server has no CRCON API configured."
	default:
		return "The request failed."
	}
}
