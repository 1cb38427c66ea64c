package crcon

// LayerMap is the base map a layer belongs to.
type LayerMap struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PrettyName string `json:"pretty_name"`
}

// Layer is one entry of the get_maps response: a concrete combination
// of map, game mode, environment, and (for offensive) attacking side.
type Layer struct {
	ID          string   `json:"id"`
	GameMode    string   `json:"game_mode"`
	Environment string   `json:"environment"`
	Attackers   string   `json:"attackers"`
	PrettyName  string   `json:"pretty_name"`
	Map         LayerMap `json:"map"`
}

// Gamestate is the live match state from get_gamestate.
type Gamestate struct {
	CurrentMap       Layer   `json:"current_map"`
	NumAlliedPlayers int     `json:"num_allied_players"`
	NumAxisPlayers   int     `json:"num_axis_players"`
	TimeRemaining    float64 `json:"time_remaining"`
	RawTimeRemaining string  `json:"raw_time_remaining"`
}

type setMapRequest struct {
	MapID string `json:"map_name"`
}

type setGameLayoutRequest struct {
	Objectives        []string `json:"objectives"`
	RandomConstraints int      `json:"random_constraints"`
}
