// Package arcade tracks the mini-game catalog, per-game high scores and the
// player's aggregate statistics, and unlocks games by cumulative score.
package arcade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/playperu/geodash/internal/geodash"
	"github.com/playperu/geodash/internal/kv"
)

// Storage keys.
const (
	GamesKey = "savedGames"
	StatsKey = "playerStats"
)

// Progression serves reads from the state of its last load or change.
// Every change starts from the stored records inside a store transaction,
// so a second process writing the same store is never overwritten.
type Progression struct {
	mu        sync.Mutex
	store     kv.Store
	logger    *slog.Logger
	games     []geodash.MiniGame
	stats     geodash.PlayerStats
	observers []geodash.Observer
}

var keys = []string{GamesKey, StatsKey}

// New loads the persisted catalog and statistics. An absent or empty catalog
// is replaced by the seed catalog, which is saved immediately.
func New(ctx context.Context, store kv.Store, logger *slog.Logger) (*Progression, error) {
	p := &Progression{store: store, logger: logger}

	err := store.Update(ctx, keys, func(txn *kv.Txn) error {
		games, stats, seeded, err := p.read(txn)
		if err != nil {
			return err
		}
		p.games, p.stats = games, stats
		if seeded {
			return txn.PutJSON(GamesKey, games)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading game progress: %w", err)
	}
	return p, nil
}

func (p *Progression) Observe(fn geodash.Observer) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	p.mu.Unlock()
}

// Games returns a snapshot of the catalog in display order.
func (p *Progression) Games() []geodash.MiniGame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]geodash.MiniGame{}, p.games...)
}

func (p *Progression) Game(id string) (geodash.MiniGame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := index(p.games, id)
	if i < 0 {
		return geodash.MiniGame{}, geodash.ErrGameNotFound
	}
	return p.games[i], nil
}

func (p *Progression) Stats() geodash.PlayerStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats.Clone()
}

// ReportScore records a finished play of gameID: the high score is raised to
// score if greater, the play counters are incremented and score is added to
// the total. Both records are persisted together.
func (p *Progression) ReportScore(ctx context.Context, gameID string, score int) (geodash.MiniGame, geodash.PlayerStats, error) {
	if score < 0 {
		return geodash.MiniGame{}, geodash.PlayerStats{}, geodash.ErrNegativeScore
	}

	p.mu.Lock()
	var game geodash.MiniGame
	err := p.mutate(ctx, func(games []geodash.MiniGame, stats *geodash.PlayerStats) (bool, error) {
		i := index(games, gameID)
		if i < 0 {
			return false, geodash.ErrGameNotFound
		}
		if score > math.MaxInt-stats.TotalScore {
			return false, geodash.ErrScoreOverflow
		}
		g := &games[i]
		g.HighScore = max(g.HighScore, score)
		g.TimesPlayed++
		stats.TotalScore += score
		stats.GamesPlayed++
		game = *g
		return true, nil
	})
	if err != nil {
		p.mu.Unlock()
		return geodash.MiniGame{}, geodash.PlayerStats{}, err
	}
	stats := p.stats.Clone()
	observers := p.observers
	p.mu.Unlock()

	notify(observers, geodash.Event{
		Type:       geodash.EventScoreReported,
		GameID:     gameID,
		Score:      score,
		TotalScore: stats.TotalScore,
	})
	p.logger.Debug("score reported", "game", gameID, "score", score, "total", stats.TotalScore)
	return game, stats, nil
}

// CheckUnlocks unlocks every locked game whose requirement is covered by the
// total score and returns the newly unlocked entries. The catalog is saved
// even when nothing changed.
func (p *Progression) CheckUnlocks(ctx context.Context) ([]geodash.MiniGame, error) {
	p.mu.Lock()
	var unlocked []geodash.MiniGame
	err := p.mutate(ctx, func(games []geodash.MiniGame, stats *geodash.PlayerStats) (bool, error) {
		unlocked = nil
		for i := range games {
			if !games[i].Unlocked && stats.TotalScore >= games[i].UnlockRequirement {
				games[i].Unlocked = true
				unlocked = append(unlocked, games[i])
			}
		}
		return true, nil
	})
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	observers := p.observers
	p.mu.Unlock()

	for _, g := range unlocked {
		notify(observers, geodash.Event{Type: geodash.EventGameUnlocked, GameID: g.ID})
	}
	return unlocked, nil
}

// UnlockGame unlocks gameID regardless of its requirement.
func (p *Progression) UnlockGame(ctx context.Context, gameID string) (geodash.MiniGame, error) {
	p.mu.Lock()
	var (
		game    geodash.MiniGame
		changed bool
	)
	err := p.mutate(ctx, func(games []geodash.MiniGame, _ *geodash.PlayerStats) (bool, error) {
		i := index(games, gameID)
		if i < 0 {
			return false, geodash.ErrGameNotFound
		}
		changed = !games[i].Unlocked
		games[i].Unlocked = true
		game = games[i]
		return changed, nil
	})
	if err != nil {
		p.mu.Unlock()
		return geodash.MiniGame{}, err
	}
	observers := p.observers
	p.mu.Unlock()

	if changed {
		notify(observers, geodash.Event{Type: geodash.EventGameUnlocked, GameID: gameID})
	}
	return game, nil
}

func (p *Progression) RecordWin(ctx context.Context) (geodash.PlayerStats, error) {
	p.mu.Lock()
	err := p.mutate(ctx, func(_ []geodash.MiniGame, stats *geodash.PlayerStats) (bool, error) {
		stats.TotalWins++
		return true, nil
	})
	if err != nil {
		p.mu.Unlock()
		return geodash.PlayerStats{}, err
	}
	stats := p.stats.Clone()
	observers := p.observers
	p.mu.Unlock()

	notify(observers, geodash.Event{Type: geodash.EventWinRecorded, TotalScore: stats.TotalScore})
	return stats, nil
}

// Reset removes both persisted records and restores the seed catalog with
// zeroed statistics. The seed is not written back until the next change.
func (p *Progression) Reset(ctx context.Context) error {
	p.mu.Lock()
	err := p.store.Update(ctx, keys, func(txn *kv.Txn) error {
		txn.Remove(GamesKey)
		txn.Remove(StatsKey)
		return nil
	})
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("removing game progress: %w", err)
	}
	p.games = Seed()
	p.stats = geodash.NewPlayerStats()
	observers := p.observers
	p.mu.Unlock()

	notify(observers, geodash.Event{Type: geodash.EventGamesReset})
	p.logger.Info("game progress reset")
	return nil
}

// mutate applies fn to the stored catalog and statistics inside a store
// transaction and, when fn reports a change, saves both records. The result
// becomes the in-memory state once the transaction commits. Errors from fn
// are returned unwrapped. Caller holds p.mu.
func (p *Progression) mutate(ctx context.Context, fn func(games []geodash.MiniGame, stats *geodash.PlayerStats) (bool, error)) error {
	var (
		games []geodash.MiniGame
		stats geodash.PlayerStats
		fnErr error
	)
	err := p.store.Update(ctx, keys, func(txn *kv.Txn) error {
		var err error
		games, stats, _, err = p.read(txn)
		if err != nil {
			return err
		}
		save, err := fn(games, &stats)
		if err != nil {
			fnErr = err
			return err
		}
		if !save {
			return nil
		}
		if err := txn.PutJSON(GamesKey, games); err != nil {
			return err
		}
		return txn.PutJSON(StatsKey, stats)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("saving game progress: %w", err)
	}
	p.games, p.stats = games, stats
	return nil
}

// read decodes both records. An absent, empty or undecodable catalog yields
// the seed catalog and seeded is true; unusable statistics yield zeroed
// statistics. Store failures are returned.
func (p *Progression) read(txn *kv.Txn) (games []geodash.MiniGame, stats geodash.PlayerStats, seeded bool, err error) {
	ok, err := p.decode(txn, GamesKey, &games)
	if err != nil {
		return nil, geodash.PlayerStats{}, false, err
	}
	if !ok || len(games) == 0 {
		games, seeded = Seed(), true
	}

	stats = geodash.NewPlayerStats()
	ok, err = p.decode(txn, StatsKey, &stats)
	if err != nil {
		return nil, geodash.PlayerStats{}, false, err
	}
	if !ok {
		stats = geodash.NewPlayerStats()
	}
	if stats.Achievements == nil {
		stats.Achievements = []string{}
	}
	return games, stats, seeded, nil
}

// decode reports false for an absent or undecodable record.
func (p *Progression) decode(txn *kv.Txn, key string, dest any) (bool, error) {
	data, err := txn.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		p.logger.Warn("record unreadable, using defaults", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func index(games []geodash.MiniGame, id string) int {
	for i, g := range games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func notify(observers []geodash.Observer, events ...geodash.Event) {
	for _, e := range events {
		for _, fn := range observers {
			fn(e)
		}
	}
}
