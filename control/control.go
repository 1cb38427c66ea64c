// Package control wraps outbound calls to a single game server: map
// queries and changes over RCON v2, and objective locking over the
// CRCON HTTP API when a server has one configured. Calls are stateless,
// open a fresh connection each time, and are never retried; failures
// are classified into the package's error taxonomy and surfaced to the
// caller.
package control

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/crcon"
	"github.com/gbone001/HLL-Map-Switcher/rconv2"
)

var (
	// ErrUnreachable marks connection or timeout failures.
	ErrUnreachable = errors.New("server unreachable")
	// ErrProtocol marks malformed or unexpected remote responses.
	ErrProtocol = errors.New("protocol error")
	// ErrRejected marks requests the remote service understood but refused.
	ErrRejected = errors.New("request rejected")
	// ErrUnauthorized marks rejected credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoCrcon marks CRCON operations on a server without CRCON access.
	ErrNoCrcon = errors.New("no CRCON API configured for this server")
)

// rconSession is the slice of an RCON connection the controller uses.
type rconSession interface {
	ServerInformation(ctx context.Context, name string) (map[string]any, error)
	ChangeMap(ctx context.Context, layerID string) error
	Close() error
}

// crconAPI is the slice of the CRCON client the controller uses.
type crconAPI interface {
	GetMaps(ctx context.Context) ([]crcon.Layer, error)
	GetGamestate(ctx context.Context) (crcon.Gamestate, error)
	GetObjectiveRows(ctx context.Context) ([][]string, error)
	SetMap(ctx context.Context, layerID string) error
	SetGameLayout(ctx context.Context, objectives []string, randomConstraints int) error
}

// Controller issues remote operations against configured servers.
type Controller struct {
	cfg     config.RemoteConfig
	log     *zap.Logger
	limiter *rate.Limiter

	dialRcon func(ctx context.Context, server config.ServerEntry) (rconSession, error)
	newCrcon func(server config.ServerEntry) crconAPI
}

// New builds a controller. Outbound RCON dials share a rate limiter so
// panel traffic cannot flood the game servers.
func New(cfg config.RemoteConfig, log *zap.Logger) *Controller {
	c := &Controller{
		cfg:     cfg,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(cfg.RconCallsPerSecond), cfg.RconBurst),
	}
	c.dialRcon = c.dialRconV2
	c.newCrcon = func(server config.ServerEntry) crconAPI {
		return crcon.NewClient(server.CrconURL, server.CrconToken, cfg.CallTimeout)
	}
	return c
}

func (c *Controller) dialRconV2(ctx context.Context, server config.ServerEntry) (rconSession, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	client := rconv2.NewClient(server.RconAddr(), server.RconPassword, c.cfg.DialTimeout, c.cfg.CallTimeout)
	conn, err := client.Connect(ctx)
	if err != nil {
		return nil, classifyRconErr(err)
	}
	return conn, nil
}

func (c *Controller) callLog(server config.ServerEntry, op string) *zap.Logger {
	return c.log.With(
		zap.String("call_id", uuid.NewString()),
		zap.String("server", server.ID),
		zap.String("op", op),
	)
}

// CurrentMap queries the server's active layer ID over RCON.
func (c *Controller) CurrentMap(ctx context.Context, server config.ServerEntry) (string, error) {
	log := c.callLog(server, "current_map")

	conn, err := c.dialRcon(ctx, server)
	if err != nil {
		log.Warn("rcon connect failed", zap.Error(err))
		return "", err
	}
	defer conn.Close()

	session, err := conn.ServerInformation(ctx, "session")
	if err != nil {
		log.Warn("session query failed", zap.Error(err))
		return "", classifyRconErr(err)
	}
	mapName, _ := session["MapName"].(string)
	mapName = strings.TrimSpace(mapName)
	if mapName == "" {
		return "", fmt.Errorf("%w: session info carries no map name", ErrProtocol)
	}
	log.Debug("current map", zap.String("layer", mapName))
	return mapName, nil
}

// ServerName queries the name the server reports for itself. Used once
// at startup to enrich configured display names.
func (c *Controller) ServerName(ctx context.Context, server config.ServerEntry) (string, error) {
	conn, err := c.dialRcon(ctx, server)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	session, err := conn.ServerInformation(ctx, "session")
	if err != nil {
		return "", classifyRconErr(err)
	}
	name, _ := session["ServerName"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: session info carries no server name", ErrProtocol)
	}
	return name, nil
}

// ChangeMap switches the server to the given layer. Servers with CRCON
// access are driven over the HTTP API first, falling back to RCON when
// that fails; the returned path names which one succeeded.
func (c *Controller) ChangeMap(ctx context.Context, server config.ServerEntry, layerID string) (string, error) {
	log := c.callLog(server, "change_map").With(zap.String("layer", layerID))

	if server.HasCrcon() {
		err := c.newCrcon(server).SetMap(ctx, layerID)
		if err == nil {
			log.Info("map changed via CRCON")
			return "crcon", nil
		}
		log.Warn("CRCON set_map failed, falling back to RCON", zap.Error(err))
	}

	conn, err := c.dialRcon(ctx, server)
	if err != nil {
		log.Warn("rcon connect failed", zap.Error(err))
		return "", err
	}
	defer conn.Close()

	if err := conn.ChangeMap(ctx, layerID); err != nil {
		log.Warn("rcon ChangeMap failed", zap.Error(err))
		return "", classifyRconErr(err)
	}
	log.Info("map changed via RCON")
	return "rcon", nil
}

// LockObjectiveLayout fixes the current match's objective layout so it
// cannot reshuffle. CRCON does not expose the live layout, so the
// center option of each capture line is applied.
func (c *Controller) LockObjectiveLayout(ctx context.Context, server config.ServerEntry) ([]string, error) {
	log := c.callLog(server, "lock_objectives")

	if !server.HasCrcon() {
		return nil, ErrNoCrcon
	}
	api := c.newCrcon(server)

	rows, err := api.GetObjectiveRows(ctx)
	if err != nil {
		log.Warn("objective rows query failed", zap.Error(err))
		return nil, classifyCrconErr(err)
	}
	objectives := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("%w: empty objective row", ErrProtocol)
		}
		objectives = append(objectives, row[len(row)/2])
	}

	if err := api.SetGameLayout(ctx, objectives, 0); err != nil {
		log.Warn("set_game_layout failed", zap.Error(err))
		return nil, classifyCrconErr(err)
	}
	log.Info("objective layout locked", zap.Strings("objectives", objectives))
	return objectives, nil
}

// Gamestate returns the live match state for servers with CRCON access.
func (c *Controller) Gamestate(ctx context.Context, server config.ServerEntry) (crcon.Gamestate, error) {
	if !server.HasCrcon() {
		return crcon.Gamestate{}, ErrNoCrcon
	}
	state, err := c.newCrcon(server).GetGamestate(ctx)
	if err != nil {
		return crcon.Gamestate{}, classifyCrconErr(err)
	}
	return state, nil
}

// FetchLayers pulls the layer list from the server's CRCON API in the
// form the catalog builder consumes.
func (c *Controller) FetchLayers(ctx context.Context, server config.ServerEntry) ([]catalog.Layer, error) {
	if !server.HasCrcon() {
		return nil, ErrNoCrcon
	}
	layers, err := c.newCrcon(server).GetMaps(ctx)
	if err != nil {
		return nil, classifyCrconErr(err)
	}
	out := make([]catalog.Layer, 0, len(layers))
	for _, l := range layers {
		out = append(out, catalog.Layer{
			ID:          l.ID,
			GameMode:    l.GameMode,
			Environment: l.Environment,
			Attackers:   l.Attackers,
			PrettyName:  l.PrettyName,
			MapName:     l.Map.PrettyName,
		})
	}
	return out, nil
}

func classifyRconErr(err error) error {
	var cmdErr *rconv2.CommandError
	switch {
	case errors.As(err, &cmdErr):
		if cmdErr.Command == "Login" {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return fmt.Errorf("%w: %v", ErrRejected, err)
	case errors.Is(err, rconv2.ErrConnect):
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	case errors.Is(err, rconv2.ErrProtocol):
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	case errors.Is(err, ErrUnreachable), errors.Is(err, ErrProtocol),
		errors.Is(err, ErrRejected), errors.Is(err, ErrUnauthorized):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
}

func classifyCrconErr(err error) error {
	var apiErr *crcon.APIError
	switch {
	case errors.Is(err, crcon.ErrUnauthorized):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case errors.Is(err, crcon.ErrUnreachable):
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	case errors.Is(err, crcon.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: %v", ErrRejected, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
}
