package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/geodash"
	"github.com/playperu/geodash/internal/minigame"
)

const maxRunSeconds = 3600

// StartRunRequest is the optional request body for POST /api/games/{id}/runs.
type StartRunRequest struct {
	// TimeLimitSeconds overrides the configured limit; 0 disables the timer.
	TimeLimitSeconds *int `json:"timeLimitSeconds"`
}

type RunResponse struct {
	ID               string  `json:"id"`
	GameID           string  `json:"gameId"`
	Score            int     `json:"score"`
	TimeLimitSeconds int     `json:"timeLimitSeconds"`
	RemainingSeconds float64 `json:"remainingSeconds"`
}

// RunEventRequest is one scoring event. Value is interpreted by the game's
// scoring rule.
type RunEventRequest struct {
	Value int `json:"value"`
}

type FinishRunResponse struct {
	Run    RunResponse     `json:"run"`
	Result app.ScoreResult `json:"result"`
}

func runResponse(run *minigame.Run) RunResponse {
	return RunResponse{
		ID:               run.ID(),
		GameID:           run.GameID(),
		Score:            run.Score(),
		TimeLimitSeconds: int(run.Limit() / time.Second),
		RemainingSeconds: run.Remaining().Seconds(),
	}
}

func lockedGames(a *app.App) map[string]bool {
	locked := map[string]bool{}
	for _, g := range a.Arcade.Games() {
		if !g.Unlocked {
			locked[g.ID] = true
		}
	}
	return locked
}

func handleStartRun(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRunRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		limit := a.RunTimeLimit
		if req.TimeLimitSeconds != nil {
			if *req.TimeLimitSeconds < 0 || *req.TimeLimitSeconds > maxRunSeconds {
				writeError(w, http.StatusBadRequest, "timeLimitSeconds must be between 0 and 3600")
				return
			}
			limit = time.Duration(*req.TimeLimitSeconds) * time.Second
		}

		g, err := a.Arcade.Game(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		if !g.Unlocked {
			writeError(w, http.StatusConflict, "game is locked")
			return
		}

		run := a.Runs.Start(g.ID, limit)
		logger.Debug("run started", "run", run.ID(), "game", g.ID, "limit", limit)
		writeJSON(w, http.StatusCreated, runResponse(run))
	}
}

func handleRunEvent(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RunEventRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		run, err := a.Runs.Get(chi.URLParam(r, "runID"))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		if _, err := run.Record(req.Value); err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, runResponse(run))
	}
}

func handleFinishRun(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := a.Runs.Get(chi.URLParam(r, "runID"))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		before := lockedGames(a)
		if _, err := run.Finish(r.Context()); err != nil {
			writeDomainError(w, logger, err)
			return
		}

		g, err := a.Arcade.Game(run.GameID())
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		res := app.ScoreResult{Game: g, Stats: a.Arcade.Stats(), Unlocked: []geodash.MiniGame{}}
		for _, game := range a.Arcade.Games() {
			if game.Unlocked && before[game.ID] {
				res.Unlocked = append(res.Unlocked, game)
			}
		}
		writeJSON(w, http.StatusOK, FinishRunResponse{Run: runResponse(run), Result: res})
	}
}

func handleCancelRun(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := a.Runs.Get(chi.URLParam(r, "runID"))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		if !run.Cancel() {
			writeDomainError(w, logger, minigame.ErrRunClosed)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
