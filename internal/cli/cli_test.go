package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/geodash"
	"github.com/playperu/geodash/internal/kv"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	return newStoreApp(t, kv.NewMemory())
}

func newStoreApp(t *testing.T, store kv.Store) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), store, discard, app.Options{POICount: 5})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// run executes one geodashctl invocation against a and returns its output.
func run(t *testing.T, a *app.App, stdin string, args ...string) (string, error) {
	t.Helper()
	root, s := newRootCommand(func(context.Context) (*app.App, error) { return a, nil })
	var out bytes.Buffer
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	s.close()
	return out.String(), err
}

func TestStatus(t *testing.T) {
	a := newTestApp(t)

	out, err := run(t, a, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Explorer (level 1)") {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, a, "", "status", "--json")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var v statusView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if v.Progress.Level != 1 || v.Stats.TotalScore != 0 {
		t.Errorf("status = %+v", v)
	}
}

func TestReportScoreCommand(t *testing.T) {
	a := newTestApp(t)

	out, err := run(t, a, "", "report-score", "pair-match", "60")
	if err != nil {
		t.Fatalf("report-score: %v", err)
	}
	if !strings.Contains(out, "Unlocked Number Recall") {
		t.Errorf("output = %q", out)
	}
	if got := a.Arcade.Stats().TotalScore; got != 60 {
		t.Errorf("TotalScore = %d, want 60", got)
	}

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown game", []string{"report-score", "chess", "5"}, geodash.ErrGameNotFound},
		{"negative", []string{"report-score", "quick-tap", "-5"}, geodash.ErrNegativeScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, a, "", tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := run(t, a, "", "report-score", "quick-tap", "lots"); err == nil {
		t.Error("expected error for non-numeric score")
	}
}

func TestGamesAndUnlocks(t *testing.T) {
	a := newTestApp(t)

	out, err := run(t, a, "", "games")
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	if !strings.Contains(out, "tower-of-hanoi") || !strings.Contains(out, "locked (200)") {
		t.Errorf("games output = %q", out)
	}

	if _, err := run(t, a, "", "unlock-game", "tower-of-hanoi"); err != nil {
		t.Fatalf("unlock-game: %v", err)
	}
	if g, _ := a.Arcade.Game("tower-of-hanoi"); !g.Unlocked {
		t.Error("tower-of-hanoi still locked")
	}

	out, err = run(t, a, "", "check-unlocks", "--json")
	if err != nil {
		t.Fatalf("check-unlocks: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("check-unlocks output = %q, want []", out)
	}
}

func TestRecordWinAndRename(t *testing.T) {
	a := newTestApp(t)

	run(t, a, "", "record-win")
	out, err := run(t, a, "", "record-win")
	if err != nil {
		t.Fatalf("record-win: %v", err)
	}
	if !strings.Contains(out, "Wins: 2") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, a, "", "rename", "Inti"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got := a.Explorer.Snapshot().Username; got != "Inti" {
		t.Errorf("Username = %q", got)
	}
	if _, err := run(t, a, "", "rename", " "); !errors.Is(err, geodash.ErrInvalidUsername) {
		t.Errorf("blank rename err = %v", err)
	}
}

func TestTerritoriesCommand(t *testing.T) {
	a := newTestApp(t)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		a.Explorer.Capture(context.Background(), geodash.POI{ID: id, Points: 10})
	}

	out, err := run(t, a, "", "territories")
	if err != nil {
		t.Fatalf("territories: %v", err)
	}
	if !strings.Contains(out, "bronze") || strings.Count(out, "unlocked") != 2 {
		t.Errorf("output = %q", out)
	}
}

func TestReset(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		stdin        string
		wantErr      error
		wantPoints   int
		wantGameRuns int
	}{
		{"aborted", []string{"reset"}, "no\n", errResetAborted, 30, 1},
		{"confirmed", []string{"reset"}, "yes\n", nil, 0, 0},
		{"games only", []string{"reset", "--games", "--yes"}, "", nil, 30, 0},
		{"exploration only", []string{"reset", "--exploration", "-y"}, "", nil, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			ctx := context.Background()
			a.Explorer.Capture(ctx, geodash.POI{ID: "p", Points: 30})
			a.ReportScore(ctx, "quick-tap", 10)

			if _, err := run(t, a, tt.stdin, tt.args...); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := a.Explorer.Snapshot().TotalPoints; got != tt.wantPoints {
				t.Errorf("TotalPoints = %d, want %d", got, tt.wantPoints)
			}
			if got := a.Arcade.Stats().GamesPlayed; got != tt.wantGameRuns {
				t.Errorf("GamesPlayed = %d, want %d", got, tt.wantGameRuns)
			}
		})
	}
}

func TestSharedStoreWithServer(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	server := newStoreApp(t, store)

	if _, err := server.ReportScore(ctx, "quick-tap", 5); err != nil {
		t.Fatalf("server ReportScore: %v", err)
	}
	if _, err := run(t, newStoreApp(t, store), "", "report-score", "pair-match", "70"); err != nil {
		t.Fatalf("report-score: %v", err)
	}
	if _, err := run(t, newStoreApp(t, store), "", "rename", "Ana"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	res, err := server.ReportScore(ctx, "quick-tap", 5)
	if err != nil {
		t.Fatalf("server ReportScore: %v", err)
	}
	if res.Stats.TotalScore != 80 || res.Stats.GamesPlayed != 3 {
		t.Errorf("server stats = %+v, want 80 over 3 plays", res.Stats)
	}
	if _, err := server.Explorer.UnlockTerritory(ctx, "gold"); err != nil {
		t.Fatalf("server UnlockTerritory: %v", err)
	}

	out, err := run(t, newStoreApp(t, store), "", "status", "--json")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var v statusView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if v.Stats.TotalScore != 80 || v.Progress.Username != "Ana" || !v.Progress.HasTerritory("gold") {
		t.Errorf("status = %+v", v)
	}
}

func TestOpenError(t *testing.T) {
	boom := errors.New("store unavailable")
	root, _ := newRootCommand(func(context.Context) (*app.App, error) { return nil, boom })
	root.SetArgs([]string{"status"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
