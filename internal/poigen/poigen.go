// Package poigen generates the points of interest around a viewport.
//
// Generation is deterministic: the viewport center is snapped to a grid
// cell, the random source is seeded from the cell and territory, and POI ids
// are name-based UUIDs. Panning inside a cell, or returning to it later,
// yields the same POIs, so captured ids keep matching.
package poigen

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/playperu/geodash/internal/geodash"
)

// CellSize is the grid resolution in degrees.
const CellSize = 0.01

const (
	DefaultCount = 15

	starterSpread = 0.05
	starterMin    = 10
	starterMax    = 50

	advancedSpread = 0.08
	advancedMin    = 50
	advancedMax    = 100
)

var starterNames = []string{
	"Ancient Tower", "Hidden Grove", "Mystery Cave", "Crystal Lake", "Golden Peak",
	"Shadow Valley", "Mystic Falls", "Dragon's Lair", "Phoenix Nest", "Emerald Forest",
	"Silver Mine", "Ruby Temple", "Sapphire Bay", "Diamond Plaza", "Amber Garden",
}

var advancedNames = []string{
	"Titan's Gate", "Celestial Spire", "Void Nexus", "Storm Citadel", "Frost Pinnacle",
}

var advancedKinds = []geodash.ChallengeKind{
	geodash.ChallengeNavigation, geodash.ChallengePuzzle, geodash.ChallengeTimed,
}

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("geodash/poi"))

type Generator struct {
	count int
}

// New returns a generator producing count starter POIs per viewport.
// A non-positive count selects DefaultCount.
func New(count int) *Generator {
	if count <= 0 {
		count = DefaultCount
	}
	return &Generator{count: count}
}

// Nearby returns the starter POIs for the cell containing center.
func (g *Generator) Nearby(center geodash.Coordinate) []geodash.POI {
	cell := snap(center)
	rng := newRand(geodash.StarterTerritory, cell)

	pois := make([]geodash.POI, 0, g.count)
	for i := range g.count {
		pois = append(pois, geodash.POI{
			ID:          poiID(geodash.StarterTerritory, cell, i),
			Name:        starterNames[i%len(starterNames)],
			Coordinate:  jitter(rng, cell, starterSpread),
			Points:      between(rng, starterMin, starterMax),
			Challenge:   geodash.ChallengeKinds[rng.IntN(len(geodash.ChallengeKinds))],
			TerritoryID: geodash.StarterTerritory,
		})
	}
	return pois
}

// Advanced returns the POIs belonging to a non-starter territory.
func (g *Generator) Advanced(center geodash.Coordinate, territoryID string) []geodash.POI {
	cell := snap(center)
	rng := newRand(territoryID, cell)

	pois := make([]geodash.POI, 0, len(advancedNames))
	for i, name := range advancedNames {
		pois = append(pois, geodash.POI{
			ID:          poiID(territoryID, cell, i),
			Name:        name,
			Coordinate:  jitter(rng, cell, advancedSpread),
			Points:      between(rng, advancedMin, advancedMax),
			Challenge:   advancedKinds[rng.IntN(len(advancedKinds))],
			TerritoryID: territoryID,
		})
	}
	return pois
}

// ForTerritories returns the starter POIs plus the advanced POIs of every
// unlocked territory other than the starter one. Ids outside the territory
// catalog have no POIs.
func (g *Generator) ForTerritories(center geodash.Coordinate, unlocked []string) []geodash.POI {
	pois := g.Nearby(center)
	for _, id := range unlocked {
		if _, ok := geodash.TerritoryByID(id); !ok || id == geodash.StarterTerritory {
			continue
		}
		pois = append(pois, g.Advanced(center, id)...)
	}
	return pois
}

type cell struct {
	lat, lon int64
}

func snap(c geodash.Coordinate) cell {
	return cell{
		lat: int64(math.Floor(c.Latitude / CellSize)),
		lon: int64(math.Floor(c.Longitude / CellSize)),
	}
}

func (c cell) center() geodash.Coordinate {
	return geodash.Coordinate{
		Latitude:  (float64(c.lat) + 0.5) * CellSize,
		Longitude: (float64(c.lon) + 0.5) * CellSize,
	}
}

func newRand(territoryID string, c cell) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s::%d::%d", territoryID, c.lat, c.lon)
	sum := h.Sum64()
	return rand.New(rand.NewPCG(sum, sum>>1|1))
}

func poiID(territoryID string, c cell, i int) string {
	return uuid.NewSHA1(namespace, fmt.Appendf(nil, "%s/%d/%d/%d", territoryID, c.lat, c.lon, i)).String()
}

func jitter(rng *rand.Rand, c cell, spread float64) geodash.Coordinate {
	center := c.center()
	lat := center.Latitude + (rng.Float64()*2-1)*spread
	lon := center.Longitude + (rng.Float64()*2-1)*spread
	return geodash.Coordinate{
		Latitude:  math.Max(-90, math.Min(90, lat)),
		Longitude: wrapLongitude(lon),
	}
}

func wrapLongitude(lon float64) float64 {
	switch {
	case lon > 180:
		return lon - 360
	case lon < -180:
		return lon + 360
	}
	return lon
}

// between returns a uniform integer in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
