package catalog

import (
	"sort"
	"strings"
)

// Layer is one map layer as reported by the CRCON get_maps endpoint,
// reduced to the fields the catalog needs.
type Layer struct {
	ID          string
	GameMode    string
	Environment string
	Attackers   string
	PrettyName  string
	// MapName is the base map's pretty name (without mode or variant).
	MapName string
}

var envLabels = map[string]string{
	"day":      "Day",
	"night":    "Night",
	"dusk":     "Dusk",
	"dawn":     "Dawn",
	"morning":  "Dawn",
	"evening":  "Evening",
	"overcast": "Overcast",
	"rain":     "Rain",
	"storm":    "Storm",
	"snow":     "Snow",
	"fog":      "Fog",
}

var factionLabels = map[string]string{
	"us":     "US",
	"usa":    "US",
	"ger":    "GER",
	"deu":    "GER",
	"gb":     "GB",
	"gbr":    "GB",
	"rus":    "RUS",
	"sov":    "RUS",
	"cwu":    "CW",
	"cw":     "CW",
	"axis":   "Axis",
	"allies": "Allies",
}

func envLabel(environment string) string {
	if environment == "" {
		return "Standard"
	}
	normalized := strings.ToLower(environment)
	if label, ok := envLabels[normalized]; ok {
		return label
	}
	return titleWords(strings.ReplaceAll(normalized, "_", " "))
}

// titleWords capitalizes the first letter of each space-separated word.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func attackerLabel(attacker string) string {
	if attacker == "" {
		return "Attack"
	}
	normalized := strings.ToLower(attacker)
	if label, ok := factionLabels[normalized]; ok {
		return label
	}
	return strings.ToUpper(normalized)
}

// variantLabel derives the menu label for a layer. Offensive layers are
// labelled by attacker, with the environment appended when it is not
// plain day; other modes use the environment label, falling back to
// whatever suffix the pretty name carries.
func variantLabel(l Layer) string {
	mode := strings.ToLower(l.GameMode)
	environment := envLabel(l.Environment)

	if mode == string(ModeOffensive) {
		attacker := attackerLabel(l.Attackers)
		if environment != "Standard" && environment != "Day" {
			return attacker + " Attack (" + environment + ")"
		}
		return attacker + " Attack"
	}

	if environment == "Standard" {
		// Some layers carry the variant only in the pretty name, e.g.
		// "Foy Warfare (Night)".
		if l.MapName != "" && strings.HasPrefix(l.PrettyName, l.MapName) {
			suffix := strings.Trim(l.PrettyName[len(l.MapName):], " -")
			suffix = strings.ReplaceAll(suffix, GameMode(mode).Title(), "")
			suffix = strings.Trim(suffix, " -()")
			if suffix != "" {
				return titleWords(suffix)
			}
		}
		return "Standard"
	}

	return environment
}

// FromLayers builds a catalog from a CRCON layer list. Layers with an
// unsupported mode or missing identity are skipped; duplicate variant
// labels within a map keep the first layer seen; variants are sorted by
// label then ID for deterministic menus.
func FromLayers(layers []Layer) *Catalog {
	type key struct {
		mode GameMode
		name string
	}
	grouped := make(map[key][]Variant)
	var order []key

	for _, l := range layers {
		mode := GameMode(strings.ToLower(l.GameMode))
		if !validMode(mode) || l.ID == "" || l.MapName == "" {
			continue
		}
		k := key{mode: mode, name: l.MapName}
		label := variantLabel(l)
		duplicate := false
		for _, v := range grouped[k] {
			if v.Label == label {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], Variant{ID: l.ID, Label: label})
	}

	entries := make([]MapEntry, 0, len(order))
	for _, k := range order {
		variants := grouped[k]
		sort.Slice(variants, func(i, j int) bool {
			if variants[i].Label != variants[j].Label {
				return variants[i].Label < variants[j].Label
			}
			return variants[i].ID < variants[j].ID
		})
		entries = append(entries, MapEntry{Mode: k.mode, Name: k.name, Variants: variants})
	}
	return New(entries)
}
