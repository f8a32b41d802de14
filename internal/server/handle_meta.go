package server

import (
	"net/http"

	"github.com/playperu/geodash/internal/geodash"
)

type CategoryInfo struct {
	ID    geodash.Category `json:"id"`
	Icon  string           `json:"icon"`
	Color string           `json:"color"`
}

type DifficultyInfo struct {
	ID    geodash.Difficulty `json:"id"`
	Color string             `json:"color"`
}

type ChallengeInfo struct {
	ID          geodash.ChallengeKind `json:"id"`
	Description string                `json:"description"`
}

// MetaResponse carries the display attributes of the enumerations used in
// POIs and the game catalog.
type MetaResponse struct {
	Categories     []CategoryInfo      `json:"categories"`
	Difficulties   []DifficultyInfo    `json:"difficulties"`
	ChallengeKinds []ChallengeInfo     `json:"challengeKinds"`
	Territories    []geodash.Territory `json:"territories"`
}

func newMetaResponse() MetaResponse {
	var m MetaResponse
	for _, c := range geodash.Categories {
		m.Categories = append(m.Categories, CategoryInfo{ID: c, Icon: c.Icon(), Color: c.Color()})
	}
	for _, d := range geodash.Difficulties {
		m.Difficulties = append(m.Difficulties, DifficultyInfo{ID: d, Color: d.Color()})
	}
	for _, k := range geodash.ChallengeKinds {
		m.ChallengeKinds = append(m.ChallengeKinds, ChallengeInfo{ID: k, Description: k.Description()})
	}
	m.Territories = geodash.Territories
	return m
}

func handleMeta() http.HandlerFunc {
	meta := newMetaResponse()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, meta)
	}
}
