package arcade

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/playperu/geodash/internal/geodash"
)

//go:embed catalog.toml
var catalogTOML []byte

type catalogFile struct {
	Game []catalogEntry `toml:"game"`
}

type catalogEntry struct {
	ID                string `toml:"id"`
	Name              string `toml:"name"`
	Description       string `toml:"description"`
	Category          string `toml:"category"`
	Icon              string `toml:"icon"`
	Difficulty        string `toml:"difficulty"`
	Locked            bool   `toml:"locked"`
	UnlockRequirement int    `toml:"unlock_requirement"`
}

var seed = mustParseCatalog(catalogTOML)

// Seed returns a fresh copy of the default catalog.
func Seed() []geodash.MiniGame {
	return append([]geodash.MiniGame{}, seed...)
}

func mustParseCatalog(data []byte) []geodash.MiniGame {
	games, err := parseCatalog(data)
	if err != nil {
		panic(err)
	}
	return games
}

func parseCatalog(data []byte) ([]geodash.MiniGame, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Game))
	games := make([]geodash.MiniGame, 0, len(f.Game))
	for _, e := range f.Game {
		if e.ID == "" || seen[e.ID] {
			return nil, fmt.Errorf("catalog entry %q: missing or duplicate id", e.ID)
		}
		seen[e.ID] = true

		g := geodash.MiniGame{
			ID:                e.ID,
			Name:              e.Name,
			Description:       e.Description,
			Category:          geodash.Category(e.Category),
			Icon:              e.Icon,
			Difficulty:        geodash.Difficulty(e.Difficulty),
			Unlocked:          !e.Locked,
			UnlockRequirement: e.UnlockRequirement,
		}
		if !g.Category.Valid() {
			return nil, fmt.Errorf("catalog entry %q: unknown category %q", e.ID, e.Category)
		}
		if !g.Difficulty.Valid() {
			return nil, fmt.Errorf("catalog entry %q: unknown difficulty %q", e.ID, e.Difficulty)
		}
		games = append(games, g)
	}
	return games, nil
}
