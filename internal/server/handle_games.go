package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/geodash"
)

// ScoreRequest is the request body for POST /api/games/{id}/score.
type ScoreRequest struct {
	Score *int `json:"score"`
}

// UnlocksResponse lists the games unlocked by a check.
type UnlocksResponse struct {
	Unlocked []geodash.MiniGame `json:"unlocked"`
}

// GamesResetResponse is returned after the game track is reset.
type GamesResetResponse struct {
	Games []geodash.MiniGame  `json:"games"`
	Stats geodash.PlayerStats `json:"stats"`
}

func handleListGames(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.Arcade.Games())
	}
}

func handleGetGame(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := a.Arcade.Game(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleReportScore(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScoreRequest
		if err := readJSON(w, r, &req); err != nil || req.Score == nil {
			writeError(w, http.StatusBadRequest, "score is required")
			return
		}

		res, err := a.ReportScore(r.Context(), chi.URLParam(r, "id"), *req.Score)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleUnlockGame(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := a.Arcade.UnlockGame(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleCheckUnlocks(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unlocked, err := a.Arcade.CheckUnlocks(r.Context())
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		if unlocked == nil {
			unlocked = []geodash.MiniGame{}
		}
		writeJSON(w, http.StatusOK, UnlocksResponse{Unlocked: unlocked})
	}
}

func handleResetGames(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.ResetGames(r.Context()); err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, GamesResetResponse{Games: a.Arcade.Games(), Stats: a.Arcade.Stats()})
	}
}

func handleStats(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.Arcade.Stats())
	}
}

func handleRecordWin(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.Arcade.RecordWin(r.Context())
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}
