package dbot

import (
	"fmt"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/session"
)

// Action is the kind of choice a flow button carries.
type Action string

const (
	ActionMode      Action = "mode"
	ActionMap       Action = "map"
	ActionVariant   Action = "variant"
	ActionApply     Action = "apply"
	ActionApplyLock Action = "applylock"
	ActionCancel    Action = "cancel"
)

// ButtonStyle picks the button color, mapped onto the chat platform's
// styles at render time.
type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota
	StyleSecondary
	StyleSuccess
	StyleDanger
)

// ButtonSpec describes one flow button.
type ButtonSpec struct {
	Label  string
	Action Action
	Value  string
	Style  ButtonStyle
}

// Layout is a full description of a flow message: text plus button
// rows. It is computed purely from session state; applying it to the
// message is the caller's job.
type Layout struct {
	Body string
	Rows [][]ButtonSpec
	// Done marks terminal layouts that carry no buttons.
	Done bool
}

const maxButtonsPerRow = 5

func rows(buttons []ButtonSpec) [][]ButtonSpec {
	var out [][]ButtonSpec
	for len(buttons) > 0 {
		n := min(len(buttons), maxButtonsPerRow)
		out = append(out, buttons[:n])
		buttons = buttons[n:]
	}
	return out
}

func cancelRow() []ButtonSpec {
	return []ButtonSpec{{Label: "Cancel", Action: ActionCancel, Style: StyleDanger}}
}

// initialLayout is the mode-choice layout a fresh, cancelled, or
// expired flow shows.
func initialLayout(cat *catalog.Catalog, server config.ServerEntry) Layout {
	var buttons []ButtonSpec
	for _, mode := range cat.ListModes() {
		buttons = append(buttons, ButtonSpec{
			Label:  mode.Title(),
			Action: ActionMode,
			Value:  string(mode),
			Style:  StylePrimary,
		})
	}
	return Layout{
		Body: fmt.Sprintf("**%s** — pick a game mode", server.Name),
		Rows: append(rows(buttons), cancelRow()),
	}
}

// renderSession computes the layout for the session's current step.
func renderSession(cat *catalog.Catalog, server config.ServerEntry, sess *session.Session) Layout {
	switch sess.Step() {
	case session.StepChooseMode:
		return initialLayout(cat, server)

	case session.StepChooseMap:
		entries, err := cat.ListMaps(sess.Mode())
		if err != nil {
			return initialLayout(cat, server)
		}
		var buttons []ButtonSpec
		for _, e := range entries {
			buttons = append(buttons, ButtonSpec{
				Label:  e.Name,
				Action: ActionMap,
				Value:  e.Name,
				Style:  StyleSecondary,
			})
		}
		return Layout{
			Body: fmt.Sprintf("**%s** — %s: pick a map", server.Name, sess.Mode().Title()),
			Rows: append(rows(buttons), cancelRow()),
		}

	case session.StepChooseVariant:
		variants, err := cat.ListVariants(sess.Mode(), sess.MapName())
		if err != nil {
			return initialLayout(cat, server)
		}
		var buttons []ButtonSpec
		for _, v := range variants {
			buttons = append(buttons, ButtonSpec{
				Label:  v.Label,
				Action: ActionVariant,
				Value:  v.Label,
				Style:  StyleSecondary,
			})
		}
		return Layout{
			Body: fmt.Sprintf("**%s** — %s %s: pick a variant",
				server.Name, sess.MapName(), sess.Mode().Title()),
			Rows: append(rows(buttons), cancelRow()),
		}

	case session.StepConfirm:
		body := fmt.Sprintf("**%s** — change map to **%s %s (%s)**?",
			server.Name, sess.MapName(), sess.Mode().Title(), sess.Variant().Label)
		if sess.LastError != "" {
			body += "\n:warning: " + sess.LastError
		}
		buttons := []ButtonSpec{
			{Label: "Apply", Action: ActionApply, Style: StyleSuccess},
		}
		if server.HasCrcon() {
			buttons = append(buttons, ButtonSpec{
				Label:  "Apply + Lock Objectives",
				Action: ActionApplyLock,
				Style:  StylePrimary,
			})
		}
		return Layout{Body: body, Rows: [][]ButtonSpec{buttons, cancelRow()}}

	case session.StepApplied:
		return Layout{
			Body: fmt.Sprintf("**%s** — map changed to **%s %s (%s)**",
				server.Name, sess.MapName(), sess.Mode().Title(), sess.Variant().Label),
			Done: true,
		}

	default:
		// Cancelled and expired flows revert to the starting layout.
		return initialLayout(cat, server)
	}
}
