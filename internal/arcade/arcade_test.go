package arcade_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/playperu/geodash/internal/arcade"
	"github.com/playperu/geodash/internal/geodash"
	"github.com/playperu/geodash/internal/kv"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingStore struct {
	kv.Store
	mu      sync.Mutex
	failKey string
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failKey == key
	s.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

// Update fails the whole transaction when it covers failKey.
func (s *failingStore) Update(ctx context.Context, keys []string, fn func(*kv.Txn) error) error {
	return s.Store.Update(ctx, keys, func(txn *kv.Txn) error {
		if err := fn(txn); err != nil {
			return err
		}
		s.mu.Lock()
		fail := slices.Contains(keys, s.failKey)
		s.mu.Unlock()
		if fail {
			return errors.New("disk full")
		}
		return nil
	})
}

func (s *failingStore) failOn(key string) {
	s.mu.Lock()
	s.failKey = key
	s.mu.Unlock()
}

func newProgression(t *testing.T, store kv.Store) *arcade.Progression {
	t.Helper()
	p, err := arcade.New(context.Background(), store, discard)
	if err != nil {
		t.Fatalf("arcade.New: %v", err)
	}
	return p
}

func TestSeedCatalog(t *testing.T) {
	games := arcade.Seed()
	if len(games) != 12 {
		t.Fatalf("seed has %d games, want 12", len(games))
	}

	locked := map[string]int{}
	for _, g := range games {
		if !g.Unlocked {
			locked[g.ID] = g.UnlockRequirement
		}
		if g.HighScore != 0 || g.TimesPlayed != 0 {
			t.Errorf("%s: seed has progress", g.ID)
		}
	}
	want := map[string]int{"dodge-master": 100, "number-recall": 50, "pattern-master": 150, "tower-of-hanoi": 200}
	if len(locked) != len(want) {
		t.Fatalf("locked = %v, want %v", locked, want)
	}
	for id, req := range want {
		if locked[id] != req {
			t.Errorf("%s requirement = %d, want %d", id, locked[id], req)
		}
	}

	games[0].HighScore = 99
	if arcade.Seed()[0].HighScore != 0 {
		t.Error("Seed returned shared slice")
	}
}

func TestNewSavesSeed(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	newProgression(t, store)

	var saved []geodash.MiniGame
	if err := kv.GetJSON(ctx, store, arcade.GamesKey, &saved); err != nil {
		t.Fatalf("seed not persisted: %v", err)
	}
	if len(saved) != 12 {
		t.Errorf("saved %d games", len(saved))
	}
}

func TestNewReseedsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	store.Set(ctx, arcade.GamesKey, []byte("[]"))
	store.Set(ctx, arcade.StatsKey, []byte("not json"))

	p := newProgression(t, store)
	if n := len(p.Games()); n != 12 {
		t.Errorf("games = %d, want 12", n)
	}
	if s := p.Stats(); s.TotalScore != 0 || s.Achievements == nil {
		t.Errorf("stats = %+v", s)
	}
}

func TestReportScore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	p := newProgression(t, store)

	for _, score := range []int{30, 80, 10} {
		if _, _, err := p.ReportScore(ctx, "quick-tap", score); err != nil {
			t.Fatalf("ReportScore(%d): %v", score, err)
		}
	}

	g, err := p.Game("quick-tap")
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if g.HighScore != 80 || g.TimesPlayed != 3 {
		t.Errorf("game = %+v", g)
	}
	s := p.Stats()
	if s.TotalScore != 120 || s.GamesPlayed != 3 {
		t.Errorf("stats = %+v", s)
	}

	// Reloading from the store gives the same state.
	again := newProgression(t, store)
	if g2, _ := again.Game("quick-tap"); g2.HighScore != 80 {
		t.Errorf("reloaded high score = %d", g2.HighScore)
	}
	if again.Stats().TotalScore != 120 {
		t.Errorf("reloaded total = %d", again.Stats().TotalScore)
	}
}

func TestReportScoreErrors(t *testing.T) {
	ctx := context.Background()
	p := newProgression(t, kv.NewMemory())

	if _, _, err := p.ReportScore(ctx, "chess", 10); !errors.Is(err, geodash.ErrGameNotFound) {
		t.Errorf("unknown game err = %v", err)
	}
	if _, _, err := p.ReportScore(ctx, "quick-tap", -1); !errors.Is(err, geodash.ErrNegativeScore) {
		t.Errorf("negative score err = %v", err)
	}
	if s := p.Stats(); s.GamesPlayed != 0 {
		t.Errorf("rejected reports changed stats: %+v", s)
	}
}

func TestCheckUnlocks(t *testing.T) {
	tests := []struct {
		total int
		want  []string
	}{
		{49, nil},
		{50, []string{"number-recall"}},
		{120, []string{"dodge-master", "number-recall"}},
		{200, []string{"dodge-master", "number-recall", "pattern-master", "tower-of-hanoi"}},
	}
	for _, tt := range tests {
		ctx := context.Background()
		p := newProgression(t, kv.NewMemory())
		if _, _, err := p.ReportScore(ctx, "pair-match", tt.total); err != nil {
			t.Fatalf("ReportScore: %v", err)
		}

		unlocked, err := p.CheckUnlocks(ctx)
		if err != nil {
			t.Fatalf("CheckUnlocks: %v", err)
		}
		var ids []string
		for _, g := range unlocked {
			ids = append(ids, g.ID)
		}
		if len(ids) != len(tt.want) {
			t.Errorf("total %d: unlocked %v, want %v", tt.total, ids, tt.want)
			continue
		}
		for i := range ids {
			if ids[i] != tt.want[i] {
				t.Errorf("total %d: unlocked %v, want %v", tt.total, ids, tt.want)
				break
			}
		}

		// Unlocking is idempotent.
		if more, _ := p.CheckUnlocks(ctx); len(more) != 0 {
			t.Errorf("total %d: second check unlocked %d", tt.total, len(more))
		}
	}
}

func TestUnlockGame(t *testing.T) {
	ctx := context.Background()
	p := newProgression(t, kv.NewMemory())

	g, err := p.UnlockGame(ctx, "tower-of-hanoi")
	if err != nil {
		t.Fatalf("UnlockGame: %v", err)
	}
	if !g.Unlocked {
		t.Error("game not unlocked")
	}
	if _, err := p.UnlockGame(ctx, "tower-of-hanoi"); err != nil {
		t.Errorf("repeat UnlockGame: %v", err)
	}
	if _, err := p.UnlockGame(ctx, "nope"); !errors.Is(err, geodash.ErrGameNotFound) {
		t.Errorf("unknown game err = %v", err)
	}
}

func TestRecordWin(t *testing.T) {
	ctx := context.Background()
	p := newProgression(t, kv.NewMemory())

	p.RecordWin(ctx)
	s, err := p.RecordWin(ctx)
	if err != nil {
		t.Fatalf("RecordWin: %v", err)
	}
	if s.TotalWins != 2 {
		t.Errorf("TotalWins = %d", s.TotalWins)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	p := newProgression(t, store)

	p.ReportScore(ctx, "pair-match", 300)
	p.CheckUnlocks(ctx)
	p.UnlockGame(ctx, "tower-of-hanoi")
	p.RecordWin(ctx)

	if err := p.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	for _, key := range []string{arcade.GamesKey, arcade.StatsKey} {
		if _, err := store.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
			t.Errorf("%s still stored: %v", key, err)
		}
	}
	if got := p.Games(); !reflect.DeepEqual(got, arcade.Seed()) {
		t.Errorf("catalog after reset differs from seed:\n got %+v\nwant %+v", got, arcade.Seed())
	}
	if s := p.Stats(); !reflect.DeepEqual(s, geodash.NewPlayerStats()) {
		t.Errorf("stats after reset = %+v", s)
	}

	// A fresh load after reset sees the same seed state.
	again := newProgression(t, store)
	if got := again.Games(); !reflect.DeepEqual(got, arcade.Seed()) {
		t.Errorf("reloaded catalog after reset differs from seed: %+v", got)
	}
}

func TestPersistFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: kv.NewMemory()}
	p := newProgression(t, store)

	store.failOn(arcade.StatsKey)
	if _, _, err := p.ReportScore(ctx, "quick-tap", 10); err == nil {
		t.Fatal("expected persist error")
	}
	if s := p.Stats(); s.TotalScore != 0 {
		t.Errorf("TotalScore = %d after failed persist", s.TotalScore)
	}
	if g, _ := p.Game("quick-tap"); g.TimesPlayed != 0 {
		t.Errorf("TimesPlayed = %d after failed persist", g.TimesPlayed)
	}
}

func TestFailedSaveKeepsStoredRecordsConsistent(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := &failingStore{Store: mem}
	p := newProgression(t, store)

	if _, _, err := p.ReportScore(ctx, "quick-tap", 20); err != nil {
		t.Fatalf("ReportScore: %v", err)
	}

	store.failOn(arcade.StatsKey)
	if _, _, err := p.ReportScore(ctx, "quick-tap", 10); err == nil {
		t.Fatal("expected persist error")
	}
	if err := p.Reset(ctx); err == nil {
		t.Fatal("expected reset error")
	}

	reloaded := newProgression(t, mem)
	g, _ := reloaded.Game("quick-tap")
	s := reloaded.Stats()
	if g.TimesPlayed != 1 || g.HighScore != 20 {
		t.Errorf("stored game = %+v, want one play of 20", g)
	}
	if s.GamesPlayed != 1 || s.TotalScore != 20 {
		t.Errorf("stored stats = %+v, want one play of 20", s)
	}
}

func TestReportScoreOverflow(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	p := newProgression(t, store)

	if _, _, err := p.ReportScore(ctx, "quick-tap", math.MaxInt); err != nil {
		t.Fatalf("ReportScore(MaxInt): %v", err)
	}
	if _, _, err := p.ReportScore(ctx, "quick-tap", 1); !errors.Is(err, geodash.ErrScoreOverflow) {
		t.Fatalf("ReportScore past MaxInt: err = %v, want ErrScoreOverflow", err)
	}
	if _, _, err := p.ReportScore(ctx, "quick-tap", 0); err != nil {
		t.Errorf("zero score at MaxInt total: %v", err)
	}

	s := newProgression(t, store).Stats()
	if s.TotalScore != math.MaxInt || s.GamesPlayed != 2 {
		t.Errorf("stored stats = %+v, want MaxInt over 2 plays", s)
	}
}

func TestWritersSharingAStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	server := newProgression(t, store)
	ctl := newProgression(t, store)

	if _, _, err := ctl.ReportScore(ctx, "quick-tap", 70); err != nil {
		t.Fatalf("ctl ReportScore: %v", err)
	}
	if _, err := ctl.UnlockGame(ctx, "tower-of-hanoi"); err != nil {
		t.Fatalf("ctl UnlockGame: %v", err)
	}
	game, stats, err := server.ReportScore(ctx, "quick-tap", 5)
	if err != nil {
		t.Fatalf("server ReportScore: %v", err)
	}
	if game.TimesPlayed != 2 || game.HighScore != 70 || stats.TotalScore != 75 {
		t.Errorf("server result = %+v %+v, want both plays", game, stats)
	}
	if _, err := server.RecordWin(ctx); err != nil {
		t.Fatalf("server RecordWin: %v", err)
	}

	reloaded := newProgression(t, store)
	s := reloaded.Stats()
	if s.TotalScore != 75 || s.GamesPlayed != 2 || s.TotalWins != 1 {
		t.Errorf("stored stats = %+v, want 75 over 2 plays and 1 win", s)
	}
	if g, _ := reloaded.Game("tower-of-hanoi"); !g.Unlocked {
		t.Error("unlock from the other writer was overwritten")
	}
}

func TestObserverEvents(t *testing.T) {
	ctx := context.Background()
	p := newProgression(t, kv.NewMemory())

	var types []string
	p.Observe(func(e geodash.Event) { types = append(types, e.Type) })

	p.ReportScore(ctx, "quick-tap", 60)
	p.CheckUnlocks(ctx)
	p.RecordWin(ctx)

	want := []string{geodash.EventScoreReported, geodash.EventGameUnlocked, geodash.EventWinRecorded}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, types[i], want[i])
		}
	}
}
