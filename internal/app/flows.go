package app

import (
	"context"
	"fmt"

	"github.com/playperu/geodash/internal/exploration"
	"github.com/playperu/geodash/internal/geodash"
	"github.com/playperu/geodash/internal/metrics"
)

// ScoreResult is the outcome of reporting a finished play.
type ScoreResult struct {
	Game     geodash.MiniGame    `json:"game"`
	Stats    geodash.PlayerStats `json:"stats"`
	Unlocked []geodash.MiniGame  `json:"unlocked"`
}

// ReportScore records score for gameID and then runs the unlock check, the
// way a finished game screen does.
func (a *App) ReportScore(ctx context.Context, gameID string, score int) (ScoreResult, error) {
	game, stats, err := a.Arcade.ReportScore(ctx, gameID, score)
	if err != nil {
		return ScoreResult{}, err
	}
	unlocked, err := a.Arcade.CheckUnlocks(ctx)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("checking unlocks: %w", err)
	}
	if unlocked == nil {
		unlocked = []geodash.MiniGame{}
	}
	return ScoreResult{Game: game, Stats: stats, Unlocked: unlocked}, nil
}

// RefreshPOIs regenerates the POI set around center for the territories
// unlocked so far and remembers center for later refreshes.
func (a *App) RefreshPOIs(center geodash.Coordinate) []geodash.POI {
	a.mu.Lock()
	a.center = &center
	a.mu.Unlock()

	unlocked := a.Explorer.Snapshot().UnlockedTerritories
	a.Explorer.SetPOIs(a.POIs.ForTerritories(center, unlocked))
	return a.Explorer.POIs()
}

// Capture runs a located capture attempt. When it unlocks territories the
// POI set is regenerated so their POIs appear.
func (a *App) Capture(ctx context.Context, poiID string, loc *geodash.Coordinate) (exploration.Result, error) {
	res, err := a.Explorer.Attempt(ctx, poiID, loc)
	if err != nil {
		return res, err
	}
	metrics.CaptureAttempt(res.Outcome)

	if len(res.Unlocked) > 0 {
		a.mu.Lock()
		center := a.center
		a.mu.Unlock()
		if center != nil {
			a.RefreshPOIs(*center)
		}
	}
	return res, nil
}

// ResetExploration erases exploration progress. The POI set is regenerated
// around the last known center without advanced territories.
func (a *App) ResetExploration(ctx context.Context) error {
	if err := a.Explorer.Reset(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	center := a.center
	a.mu.Unlock()
	if center != nil {
		a.RefreshPOIs(*center)
	}
	return nil
}

// ResetGames cancels live runs, waits for any still reporting, then erases
// game progress. No run can start until the reset is done.
func (a *App) ResetGames(ctx context.Context) error {
	return a.Runs.Quiesce(func() error {
		return a.Arcade.Reset(ctx)
	})
}
