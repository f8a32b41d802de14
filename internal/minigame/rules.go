// Package minigame scores mini-game plays and manages timed runs that report
// their final score to the game progression exactly once.
package minigame

// MaxEventValue bounds the value of a single scoring event. Values are
// clamped to [0, MaxEventValue] before a rule sees them, so no rule can
// overflow.
const MaxEventValue = 1_000_000

// Rule converts one scoring event into points. The meaning of the event
// value depends on the game: a tap, a reaction time, a streak length.
type Rule func(value int) int

var rules = map[string]Rule{
	"pair-match":     func(int) int { return 10 },
	"quick-tap":      func(int) int { return 1 },
	"color-match":    func(int) int { return 1 },
	"dodge-master":   func(int) int { return 1 },
	"reaction-time":  func(ms int) int { return max(1000-ms, 0) },
	"math-challenge": func(streak int) int { return 10 + 2*streak },
	"simon-says":     func(length int) int { return 10 * length },
	"number-recall":  func(round int) int { return 10 * round },
	"number-puzzle":  func(moves int) int { return max(1000-moves, 0) },
	"word-scramble":  func(wordLen int) int { return 10 * wordLen },
}

// Points scores one event of gameID. Games without a rule score the
// clamped raw value.
func Points(gameID string, value int) int {
	value = min(max(value, 0), MaxEventValue)
	if r, ok := rules[gameID]; ok {
		return r(value)
	}
	return value
}
