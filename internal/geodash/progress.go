package geodash

const (
	DefaultUsername = "Explorer"
	pointsPerLevel  = 100
)

// UserData is the persisted exploration progress of the local player.
type UserData struct {
	TotalPoints         int           `json:"totalPoints"`
	CapturedPOIs        []string      `json:"capturedPOIs"`
	UnlockedTerritories []string      `json:"unlockedTerritories"`
	Level               int           `json:"level"`
	Username            string        `json:"username"`
	Achievements        []Achievement `json:"achievements"`
}

func NewUserData() UserData {
	return UserData{
		CapturedPOIs:        []string{},
		UnlockedTerritories: []string{StarterTerritory},
		Level:               1,
		Username:            DefaultUsername,
		Achievements:        []Achievement{},
	}
}

// LevelFor returns the level reached with the given point total.
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/pointsPerLevel + 1
}

func (u UserData) Clone() UserData {
	c := u
	c.CapturedPOIs = append([]string{}, u.CapturedPOIs...)
	c.UnlockedTerritories = append([]string{}, u.UnlockedTerritories...)
	c.Achievements = append([]Achievement{}, u.Achievements...)
	return c
}

func (u UserData) HasCaptured(id string) bool {
	for _, c := range u.CapturedPOIs {
		if c == id {
			return true
		}
	}
	return false
}

func (u UserData) HasTerritory(id string) bool {
	for _, t := range u.UnlockedTerritories {
		if t == id {
			return true
		}
	}
	return false
}

// Normalize repairs a decoded record so the invariants hold: non-nil lists,
// starter territory present, level at least what the points imply.
func (u *UserData) Normalize() {
	if u.CapturedPOIs == nil {
		u.CapturedPOIs = []string{}
	}
	if u.UnlockedTerritories == nil {
		u.UnlockedTerritories = []string{}
	}
	if u.Achievements == nil {
		u.Achievements = []Achievement{}
	}
	if !u.HasTerritory(StarterTerritory) {
		u.UnlockedTerritories = append([]string{StarterTerritory}, u.UnlockedTerritories...)
	}
	if u.TotalPoints < 0 {
		u.TotalPoints = 0
	}
	if u.Username == "" {
		u.Username = DefaultUsername
	}
	u.updateLevel()
}

// Capture records poi as captured and awards its points. It reports false
// when the id was already captured, leaving u unchanged.
func (u *UserData) Capture(poi POI) bool {
	if u.HasCaptured(poi.ID) {
		return false
	}
	u.CapturedPOIs = append(u.CapturedPOIs, poi.ID)
	u.TotalPoints += poi.Points
	u.updateLevel()
	return true
}

func (u *UserData) UnlockTerritory(id string) bool {
	if u.HasTerritory(id) {
		return false
	}
	u.UnlockedTerritories = append(u.UnlockedTerritories, id)
	return true
}

// CheckTerritories unlocks every territory whose capture threshold has been
// reached and returns the ones that were newly unlocked, in threshold order.
func (u *UserData) CheckTerritories() []Territory {
	captured := len(u.CapturedPOIs)
	var unlocked []Territory
	for _, t := range Territories {
		if captured >= t.UnlockAt && u.UnlockTerritory(t.ID) {
			unlocked = append(unlocked, t)
		}
	}
	return unlocked
}

// Level never decreases.
func (u *UserData) updateLevel() {
	if l := LevelFor(u.TotalPoints); l > u.Level {
		u.Level = l
	}
}
