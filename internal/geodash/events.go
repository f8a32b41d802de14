package geodash

// Event types published by the progression components after a committed change.
const (
	EventPOICaptured       = "poi_captured"
	EventTerritoryUnlocked = "territory_unlocked"
	EventUsernameChanged   = "username_changed"
	EventProgressReset     = "progress_reset"
	EventScoreReported     = "score_reported"
	EventGameUnlocked      = "game_unlocked"
	EventWinRecorded       = "win_recorded"
	EventGamesReset        = "games_reset"
)

// Event describes one committed state change.
type Event struct {
	Type        string `json:"type"`
	POIID       string `json:"poiId,omitempty"`
	TerritoryID string `json:"territoryId,omitempty"`
	GameID      string `json:"gameId,omitempty"`
	Points      int    `json:"points,omitempty"`
	Score       int    `json:"score,omitempty"`
	TotalPoints int    `json:"totalPoints,omitempty"`
	Level       int    `json:"level,omitempty"`
	TotalScore  int    `json:"totalScore,omitempty"`
}

// Observer receives events. It is called synchronously after the change is
// persisted, outside the publishing component's lock.
type Observer func(Event)
