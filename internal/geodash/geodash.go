// Package geodash defines the core domain types shared by the exploration and
// arcade progression tracks. It has zero external dependencies.
package geodash

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ChallengeKind string

const (
	ChallengeSimple     ChallengeKind = "simple"
	ChallengeNavigation ChallengeKind = "navigation"
	ChallengePuzzle     ChallengeKind = "puzzle"
	ChallengeTimed      ChallengeKind = "timed"
)

var ChallengeKinds = []ChallengeKind{ChallengeSimple, ChallengeNavigation, ChallengePuzzle, ChallengeTimed}

func (k ChallengeKind) Description() string {
	switch k {
	case ChallengeSimple:
		return "Reach the location"
	case ChallengeNavigation:
		return "Navigate through waypoints"
	case ChallengePuzzle:
		return "Solve the puzzle"
	case ChallengeTimed:
		return "Complete within time limit"
	}
	return ""
}

type POI struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Coordinate  Coordinate    `json:"coordinate"`
	Captured    bool          `json:"isCaptured"`
	Points      int           `json:"points"`
	Challenge   ChallengeKind `json:"challengeType"`
	TerritoryID string        `json:"territoryId"`
}

type Territory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UnlockAt int    `json:"unlockAt"`
}

const StarterTerritory = "starter"

// Territories is ordered by ascending capture threshold.
var Territories = []Territory{
	{ID: StarterTerritory, Name: "Starter Zone", UnlockAt: 0},
	{ID: "bronze", Name: "Bronze Territory", UnlockAt: 5},
	{ID: "silver", Name: "Silver Territory", UnlockAt: 10},
	{ID: "gold", Name: "Gold Territory", UnlockAt: 20},
}

func TerritoryByID(id string) (Territory, bool) {
	for _, t := range Territories {
		if t.ID == id {
			return t, true
		}
	}
	return Territory{}, false
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"isUnlocked"`
}

type Category string

const (
	CategoryPuzzle Category = "puzzle"
	CategoryAction Category = "action"
	CategoryBrain  Category = "brain"
	CategoryLogic  Category = "logic"
)

var Categories = []Category{CategoryPuzzle, CategoryAction, CategoryBrain, CategoryLogic}

func (c Category) Valid() bool {
	switch c {
	case CategoryPuzzle, CategoryAction, CategoryBrain, CategoryLogic:
		return true
	}
	return false
}

func (c Category) Icon() string {
	switch c {
	case CategoryPuzzle:
		return "puzzlepiece.fill"
	case CategoryAction:
		return "flame.fill"
	case CategoryBrain:
		return "brain.head.profile"
	case CategoryLogic:
		return "lightbulb.fill"
	}
	return ""
}

func (c Category) Color() string {
	switch c {
	case CategoryPuzzle:
		return "bd0e1b"
	case CategoryAction:
		return "ffbe00"
	case CategoryBrain:
		return "0a1a3b"
	case CategoryLogic:
		return "00ff88"
	}
	return ""
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

func (d Difficulty) Color() string {
	switch d {
	case DifficultyEasy:
		return "00ff88"
	case DifficultyMedium:
		return "ffbe00"
	case DifficultyHard:
		return "ff6b00"
	case DifficultyExpert:
		return "bd0e1b"
	}
	return ""
}

type MiniGame struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Category          Category   `json:"category"`
	Icon              string     `json:"icon"`
	Difficulty        Difficulty `json:"difficulty"`
	HighScore         int        `json:"highScore"`
	TimesPlayed       int        `json:"timesPlayed"`
	Unlocked          bool       `json:"isUnlocked"`
	UnlockRequirement int        `json:"unlockRequirement"`
}

type PlayerStats struct {
	TotalScore       int       `json:"totalScore"`
	GamesPlayed      int       `json:"gamesPlayed"`
	TotalWins        int       `json:"totalWins"`
	FavoriteCategory *Category `json:"favoriteCategory"`
	Achievements     []string  `json:"achievements"`
}

func NewPlayerStats() PlayerStats {
	return PlayerStats{Achievements: []string{}}
}

func (s PlayerStats) Clone() PlayerStats {
	c := s
	c.Achievements = append([]string{}, s.Achievements...)
	if s.FavoriteCategory != nil {
		fav := *s.FavoriteCategory
		c.FavoriteCategory = &fav
	}
	return c
}
