package exploration

import (
	"context"

	"github.com/playperu/geodash/internal/geo"
	"github.com/playperu/geodash/internal/geodash"
)

// Capture attempt outcomes.
const (
	OutcomeCaptured        = "captured"
	OutcomeAlreadyCaptured = "already_captured"
	OutcomeTooFar          = "too_far"
	OutcomeNoLocation      = "location_unavailable"
)

// Result is the outcome of a located capture attempt.
type Result struct {
	Outcome       string              `json:"outcome"`
	POI           geodash.POI         `json:"poi"`
	PointsAwarded int                 `json:"pointsAwarded"`
	Distance      *float64            `json:"distanceMeters,omitempty"`
	Unlocked      []geodash.Territory `json:"unlockedTerritories"`
	Progress      geodash.UserData    `json:"progress"`
}

// POIs returns the current POI set with capture flags derived from the
// persisted record.
func (p *Progression) POIs() []geodash.POI {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]geodash.POI{}, p.pois...)
}

func (p *Progression) POI(id string) (geodash.POI, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, poi := range p.pois {
		if poi.ID == id {
			return poi, nil
		}
	}
	return geodash.POI{}, geodash.ErrPOINotFound
}

// SetPOIs replaces the current POI set. Capture flags are recomputed from
// the captured id list, so a regenerated set keeps its history.
func (p *Progression) SetPOIs(pois []geodash.POI) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pois = make([]geodash.POI, len(pois))
	for i, poi := range pois {
		poi.Captured = p.user.HasCaptured(poi.ID)
		p.pois[i] = poi
	}
}

// caller holds p.mu
func (p *Progression) syncCaptured() {
	for i := range p.pois {
		p.pois[i].Captured = p.user.HasCaptured(p.pois[i].ID)
	}
}

// Attempt checks the proximity precondition for poiID against loc and
// captures the POI when it holds. A nil loc means no location fix.
func (p *Progression) Attempt(ctx context.Context, poiID string, loc *geodash.Coordinate) (Result, error) {
	poi, err := p.POI(poiID)
	if err != nil {
		return Result{}, err
	}

	res := Result{POI: poi, Unlocked: []geodash.Territory{}}
	if u := p.Snapshot(); u.HasCaptured(poi.ID) {
		res.Outcome = OutcomeAlreadyCaptured
		res.POI.Captured = true
		res.Progress = u
		return res, nil
	}

	switch {
	case loc == nil && !p.opts.AllowUnlocatedCapture:
		res.Outcome = OutcomeNoLocation
		res.Progress = p.Snapshot()
		return res, nil
	case loc != nil:
		if !geo.Valid(*loc) {
			return Result{}, geodash.ErrInvalidLocation
		}
		d := geo.Distance(*loc, poi.Coordinate)
		res.Distance = &d
		if d > p.opts.CaptureRadius {
			res.Outcome = OutcomeTooFar
			res.Progress = p.Snapshot()
			return res, nil
		}
	}

	awarded, unlocked, err := p.Capture(ctx, poi)
	if err != nil {
		return Result{}, err
	}
	if awarded {
		res.Outcome = OutcomeCaptured
		res.PointsAwarded = poi.Points
	} else {
		res.Outcome = OutcomeAlreadyCaptured
	}
	res.POI.Captured = true
	res.Unlocked = unlocked
	if res.Unlocked == nil {
		res.Unlocked = []geodash.Territory{}
	}
	res.Progress = p.Snapshot()
	return res, nil
}
