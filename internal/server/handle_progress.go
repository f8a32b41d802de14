package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/geodash"
)

// UsernameRequest is the request body for PUT /api/progress/username.
type UsernameRequest struct {
	Username string `json:"username"`
}

// TerritoryItem is one entry of GET /api/territories.
type TerritoryItem struct {
	geodash.Territory
	Unlocked bool `json:"isUnlocked"`
	// Remaining is the number of captures still needed, 0 once reached.
	Remaining int `json:"remaining"`
}

func handleGetProgress(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.Explorer.Snapshot())
	}
}

func handleSetUsername(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UsernameRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		u, err := a.Explorer.SetUsername(r.Context(), req.Username)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func handleResetProgress(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.ResetExploration(r.Context()); err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, a.Explorer.Snapshot())
	}
}

func handleTerritories(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := a.Explorer.Snapshot()
		captured := len(u.CapturedPOIs)

		items := make([]TerritoryItem, 0, len(geodash.Territories))
		for _, t := range geodash.Territories {
			items = append(items, TerritoryItem{
				Territory: t,
				Unlocked:  u.HasTerritory(t.ID),
				Remaining: max(t.UnlockAt-captured, 0),
			})
		}
		writeJSON(w, http.StatusOK, items)
	}
}
