package dbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gbone001/HLL-Map-Switcher/utils"
)

// commandCode identifies a legacy text command.
type commandCode int

const (
	cmdStatus commandCode = iota
	cmdMap
	cmdLock
	cmdHelp
)

// messageCommand is the configuration needed to parse a text message
// into a command.
type messageCommand struct {
	Command         string
	FlagArgs        []string
	AllowUnnamedArg bool
	Code            commandCode
	HelpText        string
}

// commands lists the available text commands. The button panel is the
// primary surface; these exist for admins who prefer typing.
var commands = []messageCommand{
	{
		Command:  "status",
		Code:     cmdStatus,
		HelpText: "status : report the current map on every server and trigger a refresh",
	},
	{
		Command:  "map",
		FlagArgs: []string{"server", "map"},
		Code:     cmdMap,
		HelpText: "map : change the map directly by layer id. i.e. \"map -server=alpha -map=foy_warfare_night\"",
	},
	{
		Command:  "lock",
		FlagArgs: []string{"server"},
		Code:     cmdLock,
		HelpText: "lock : lock the objective layout of the current match. i.e. \"lock -server=alpha\"",
	},
	{
		Command:  "help",
		Code:     cmdHelp,
		HelpText: "help : list available commands",
	},
}

// legacyOp is one parsed text command.
type legacyOp struct {
	Code commandCode
	Args map[string]string
}

func parseLegacy(message string) (*legacyOp, error) {
	for _, mc := range commands {
		if message == mc.Command || strings.HasPrefix(message, mc.Command+" ") {
			argString := message[len(mc.Command):]

			args, err := utils.ParseArgString(argString, mc.FlagArgs, mc.AllowUnnamedArg)
			if err != nil {
				var flagErr *utils.InvalidFlagError
				if errors.As(err, &flagErr) {
					return nil, fmt.Errorf("flag %q is not allowed for command %q", flagErr.Found, mc.Command)
				}
				return nil, fmt.Errorf("could not parse arguments for %q", mc.Command)
			}
			return &legacyOp{Code: mc.Code, Args: args}, nil
		}
	}
	return nil, fmt.Errorf("command %q is not recognized, try \"help\"", message)
}

func helpText() string {
	lines := make([]string, 0, len(commands))
	for _, mc := range commands {
		lines = append(lines, mc.HelpText)
	}
	return strings.Join(lines, "\n")
}

// runLegacy parses and executes one text command, returning the reply.
func (b *Bot) runLegacy(ctx context.Context, message string) string {
	op, err := parseLegacy(strings.TrimSpace(message))
	if err != nil {
		return "ERROR: " + err.Error()
	}

	switch op.Code {
	case cmdStatus:
		b.board.Trigger()
		return b.statusReply()

	case cmdMap:
		server, ok := b.registry.Get(op.Args["server"])
		if !ok {
			return fmt.Sprintf("ERROR: unknown server %q", op.Args["server"])
		}
		layerID := op.Args["map"]
		if _, _, err := b.cat.MapByLayerID(layerID); err != nil {
			return fmt.Sprintf("ERROR: unknown layer %q", layerID)
		}
		via, err := b.remote.ChangeMap(ctx, server, layerID)
		if err != nil {
			return "ERROR: " + remoteErrorNotice(err)
		}
		b.board.Record(server.ID, layerID, b.now())
		b.board.Trigger()
		return fmt.Sprintf("map on %s changed to %s (via %s)", server.Name, layerID, via)

	case cmdLock:
		server, ok := b.registry.Get(op.Args["server"])
		if !ok {
			return fmt.Sprintf("ERROR: unknown server %q", op.Args["server"])
		}
		objectives, err := b.remote.LockObjectiveLayout(ctx, server)
		if err != nil {
			return "ERROR: " + remoteErrorNotice(err)
		}
		return fmt.Sprintf("objective layout on %s locked: %s", server.Name, strings.Join(objectives, ", "))

	case cmdHelp:
		return helpText()

	default:
		return "ERROR: unhandled command"
	}
}

func (b *Bot) statusReply() string {
	board := b.board.Latest()
	if len(board) == 0 {
		return "no servers configured"
	}
	lines := make([]string, 0, len(board))
	for _, status := range board {
		switch {
		case status.Err != "":
			lines = append(lines, fmt.Sprintf("%s: unreachable", status.ServerName))
		case status.MapLabel == "":
			lines = append(lines, fmt.Sprintf("%s: no status yet", status.ServerName))
		default:
			lines = append(lines, fmt.Sprintf("%s: %s", status.ServerName, status.MapLabel))
		}
	}
	return strings.Join(lines, "\n")
}
