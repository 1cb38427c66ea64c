// Package catalog holds the static table of game modes, maps, and map
// variants. A catalog is built once at startup, either from the bundled
// layer table or from a CRCON get_maps response, and is read-only after
// that.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GameMode is one of the three Hell Let Loose game modes.
type GameMode string

const (
	ModeWarfare   GameMode = "warfare"
	ModeOffensive GameMode = "offensive"
	ModeSkirmish  GameMode = "skirmish"
)

// Modes lists the supported game modes in display order.
var Modes = []GameMode{ModeWarfare, ModeOffensive, ModeSkirmish}

// Title returns the mode name capitalized for display.
func (m GameMode) Title() string {
	if m == "" {
		return ""
	}
	s := string(m)
	return strings.ToUpper(s[:1]) + s[1:]
}

func validMode(m GameMode) bool {
	return m == ModeWarfare || m == ModeOffensive || m == ModeSkirmish
}

// ErrNotFound is returned for lookups of a mode, map, or variant the
// catalog does not contain.
var ErrNotFound = errors.New("catalog: not found")

// Variant is one selectable configuration of a map: a display label and
// the layer ID the game server expects.
type Variant struct {
	ID    string
	Label string
}

// MapEntry is one map within a game mode and its ordered variants.
type MapEntry struct {
	Mode     GameMode
	Name     string
	Variants []Variant
}

// Catalog answers mode/map/variant lookups. It is immutable once built.
type Catalog struct {
	byMode map[GameMode][]MapEntry
}

// New builds a catalog from the given entries. Entries are grouped by
// mode and sorted by map name; variants keep their given order.
func New(entries []MapEntry) *Catalog {
	byMode := make(map[GameMode][]MapEntry)
	for _, e := range entries {
		if !validMode(e.Mode) || len(e.Variants) == 0 {
			continue
		}
		byMode[e.Mode] = append(byMode[e.Mode], e)
	}
	for mode := range byMode {
		sort.Slice(byMode[mode], func(i, j int) bool {
			return byMode[mode][i].Name < byMode[mode][j].Name
		})
	}
	return &Catalog{byMode: byMode}
}

// Builtin returns a catalog built from the bundled layer table.
func Builtin() *Catalog {
	return New(builtinEntries())
}

// ListModes returns the modes the catalog has at least one map for, in
// display order.
func (c *Catalog) ListModes() []GameMode {
	modes := make([]GameMode, 0, len(Modes))
	for _, m := range Modes {
		if len(c.byMode[m]) > 0 {
			modes = append(modes, m)
		}
	}
	return modes
}

// ListMaps returns the maps for a mode, ordered by name.
func (c *Catalog) ListMaps(mode GameMode) ([]MapEntry, error) {
	entries, ok := c.byMode[mode]
	if !ok {
		return nil, fmt.Errorf("mode %q: %w", mode, ErrNotFound)
	}
	return entries, nil
}

// Map returns the entry for a mode/map combination.
func (c *Catalog) Map(mode GameMode, name string) (MapEntry, error) {
	entries, err := c.ListMaps(mode)
	if err != nil {
		return MapEntry{}, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return MapEntry{}, fmt.Errorf("map %q in mode %q: %w", name, mode, ErrNotFound)
}

// ListVariants returns the ordered variants for a mode/map combination.
func (c *Catalog) ListVariants(mode GameMode, name string) ([]Variant, error) {
	entry, err := c.Map(mode, name)
	if err != nil {
		return nil, err
	}
	return entry.Variants, nil
}

// Variant resolves a variant label within a mode/map combination.
func (c *Catalog) Variant(mode GameMode, name, label string) (Variant, error) {
	variants, err := c.ListVariants(mode, name)
	if err != nil {
		return Variant{}, err
	}
	for _, v := range variants {
		if v.Label == label {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("variant %q of map %q in mode %q: %w", label, name, mode, ErrNotFound)
}

// MapByLayerID finds the map entry and variant carrying the given layer
// ID, searching all modes. Used to label the current map reported by
// the server.
func (c *Catalog) MapByLayerID(layerID string) (MapEntry, Variant, error) {
	for _, entries := range c.byMode {
		for _, e := range entries {
			for _, v := range e.Variants {
				if v.ID == layerID {
					return e, v, nil
				}
			}
		}
	}
	return MapEntry{}, Variant{}, fmt.Errorf("layer %q: %w", layerID, ErrNotFound)
}
