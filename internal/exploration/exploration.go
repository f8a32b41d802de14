// Package exploration owns POI capture state, point accrual, level derivation
// and territory unlocks for the map game mode.
package exploration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/playperu/geodash/internal/geodash"
	"github.com/playperu/geodash/internal/kv"
)

// UserDataKey is the storage key of the persisted progress record.
const UserDataKey = "userData"

// DefaultCaptureRadius is the proximity radius in meters.
const DefaultCaptureRadius = 50.0

const maxUsernameLen = 32

type Options struct {
	CaptureRadius float64
	// AllowUnlocatedCapture lets a capture through when no location fix is
	// available instead of reporting OutcomeNoLocation.
	AllowUnlocatedCapture bool
}

type Progression struct {
	mu        sync.Mutex
	store     kv.Store
	logger    *slog.Logger
	opts      Options
	user      geodash.UserData
	pois      []geodash.POI
	observers []geodash.Observer
}

// Load reads the persisted progress record. It returns kv.ErrNotFound when
// no record exists and a decode error when the record is unreadable.
func Load(ctx context.Context, store kv.Store) (geodash.UserData, error) {
	var u geodash.UserData
	if err := kv.GetJSON(ctx, store, UserDataKey, &u); err != nil {
		return geodash.UserData{}, err
	}
	u.Normalize()
	return u, nil
}

// New loads the persisted progress, substituting the defaults when there is
// none or it cannot be read.
func New(ctx context.Context, store kv.Store, logger *slog.Logger, opts Options) *Progression {
	if opts.CaptureRadius <= 0 {
		opts.CaptureRadius = DefaultCaptureRadius
	}

	u, err := Load(ctx, store)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		u = geodash.NewUserData()
	case err != nil:
		logger.Warn("progress record unreadable, starting fresh", "key", UserDataKey, "error", err)
		u = geodash.NewUserData()
	}

	return &Progression{
		store:  store,
		logger: logger,
		opts:   opts,
		user:   u,
	}
}

// Observe registers fn to receive events after every committed change.
func (p *Progression) Observe(fn geodash.Observer) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	p.mu.Unlock()
}

func (p *Progression) CaptureRadius() float64 { return p.opts.CaptureRadius }

func (p *Progression) Snapshot() geodash.UserData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user.Clone()
}

// Capture marks poi as captured, awards its points, recomputes the level and
// unlocks any territory whose threshold is now met, then persists the record.
// Capturing an already-captured id changes nothing and reports false.
//
// The proximity precondition is the caller's responsibility; see Attempt.
func (p *Progression) Capture(ctx context.Context, poi geodash.POI) (bool, []geodash.Territory, error) {
	if poi.ID == "" || poi.Points <= 0 {
		return false, nil, geodash.ErrInvalidPOI
	}

	p.mu.Lock()
	var (
		awarded  bool
		unlocked []geodash.Territory
	)
	err := p.mutate(ctx, func(u *geodash.UserData) (bool, error) {
		awarded, unlocked = false, nil
		if u.HasCaptured(poi.ID) {
			return false, nil
		}
		u.Capture(poi)
		unlocked = u.CheckTerritories()
		awarded = true
		return true, nil
	})
	if err != nil || !awarded {
		p.mu.Unlock()
		return false, nil, err
	}
	next := p.user.Clone()
	observers := p.observers
	p.mu.Unlock()

	events := []geodash.Event{{
		Type:        geodash.EventPOICaptured,
		POIID:       poi.ID,
		Points:      poi.Points,
		TotalPoints: next.TotalPoints,
		Level:       next.Level,
	}}
	for _, t := range unlocked {
		events = append(events, geodash.Event{Type: geodash.EventTerritoryUnlocked, TerritoryID: t.ID})
	}
	notify(observers, events...)

	p.logger.Debug("poi captured", "poi", poi.ID, "points", poi.Points, "total", next.TotalPoints, "level", next.Level)
	return true, unlocked, nil
}

// CheckTerritoryUnlock unlocks every territory whose capture threshold has
// been reached and returns the newly unlocked ones.
func (p *Progression) CheckTerritoryUnlock(ctx context.Context) ([]geodash.Territory, error) {
	p.mu.Lock()
	var unlocked []geodash.Territory
	err := p.mutate(ctx, func(u *geodash.UserData) (bool, error) {
		unlocked = u.CheckTerritories()
		return len(unlocked) > 0, nil
	})
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	observers := p.observers
	p.mu.Unlock()

	for _, t := range unlocked {
		notify(observers, geodash.Event{Type: geodash.EventTerritoryUnlocked, TerritoryID: t.ID})
	}
	return unlocked, nil
}

// UnlockTerritory adds id to the unlocked set. It reports false when the
// territory was already unlocked.
func (p *Progression) UnlockTerritory(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, geodash.ErrInvalidTerritory
	}

	p.mu.Lock()
	var changed bool
	err := p.mutate(ctx, func(u *geodash.UserData) (bool, error) {
		changed = u.UnlockTerritory(id)
		return changed, nil
	})
	if err != nil || !changed {
		p.mu.Unlock()
		return false, err
	}
	observers := p.observers
	p.mu.Unlock()

	notify(observers, geodash.Event{Type: geodash.EventTerritoryUnlocked, TerritoryID: id})
	return true, nil
}

func (p *Progression) SetUsername(ctx context.Context, name string) (geodash.UserData, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxUsernameLen {
		return geodash.UserData{}, geodash.ErrInvalidUsername
	}

	p.mu.Lock()
	err := p.mutate(ctx, func(u *geodash.UserData) (bool, error) {
		u.Username = name
		return true, nil
	})
	if err != nil {
		p.mu.Unlock()
		return geodash.UserData{}, err
	}
	next := p.user.Clone()
	observers := p.observers
	p.mu.Unlock()

	notify(observers, geodash.Event{Type: geodash.EventUsernameChanged})
	return next, nil
}

// Reset erases the persisted record and returns to the default state.
func (p *Progression) Reset(ctx context.Context) error {
	p.mu.Lock()
	err := p.store.Update(ctx, []string{UserDataKey}, func(txn *kv.Txn) error {
		txn.Remove(UserDataKey)
		return nil
	})
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("removing %s: %w", UserDataKey, err)
	}
	p.user = geodash.NewUserData()
	p.pois = nil
	observers := p.observers
	p.mu.Unlock()

	notify(observers, geodash.Event{Type: geodash.EventProgressReset, Level: 1})
	p.logger.Info("exploration progress reset")
	return nil
}

// mutate applies fn to the stored progress record inside a store
// transaction and saves the record when fn reports a change. The result
// becomes the in-memory state once the transaction commits, so changes made
// by another process sharing the store are kept. Caller holds p.mu.
func (p *Progression) mutate(ctx context.Context, fn func(u *geodash.UserData) (bool, error)) error {
	var (
		next  geodash.UserData
		fnErr error
	)
	err := p.store.Update(ctx, []string{UserDataKey}, func(txn *kv.Txn) error {
		var err error
		next, err = p.read(txn)
		if err != nil {
			return err
		}
		save, err := fn(&next)
		if err != nil {
			fnErr = err
			return err
		}
		if !save {
			return nil
		}
		return txn.PutJSON(UserDataKey, next)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("saving %s: %w", UserDataKey, err)
	}
	p.user = next
	p.syncCaptured()
	return nil
}

// read returns the stored record, or the defaults when it is absent or
// undecodable.
func (p *Progression) read(txn *kv.Txn) (geodash.UserData, error) {
	data, err := txn.Get(UserDataKey)
	if errors.Is(err, kv.ErrNotFound) {
		return geodash.NewUserData(), nil
	}
	if err != nil {
		return geodash.UserData{}, err
	}
	var u geodash.UserData
	if err := json.Unmarshal(data, &u); err != nil {
		p.logger.Warn("progress record unreadable, starting fresh", "key", UserDataKey, "error", err)
		return geodash.NewUserData(), nil
	}
	u.Normalize()
	return u, nil
}

func notify(observers []geodash.Observer, events ...geodash.Event) {
	for _, e := range events {
		for _, fn := range observers {
			fn(e)
		}
	}
}
