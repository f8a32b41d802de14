package minigame

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry tracks live runs by id. Runs are bound to the registry's context,
// so cancelling it cancels every live run without reporting.
type Registry struct {
	ctx    context.Context
	logger *slog.Logger
	report ReportFunc

	// gate is held shared by Start and exclusively by Quiesce.
	gate sync.RWMutex
	mu   sync.Mutex
	runs map[string]*Run
}

func NewRegistry(ctx context.Context, logger *slog.Logger, report ReportFunc) *Registry {
	return &Registry{
		ctx:    ctx,
		logger: logger,
		report: report,
		runs:   make(map[string]*Run),
	}
}

// Start begins a run of gameID. The run reports automatically when limit
// elapses; a zero limit disables the timer.
func (g *Registry) Start(gameID string, limit time.Duration) *Run {
	id := uuid.NewString()

	report := func(ctx context.Context, gameID string, score int) error {
		err := g.report(ctx, gameID, score)
		if err != nil {
			g.logger.Error("run report failed", "run", id, "game", gameID, "score", score, "error", err)
		} else {
			g.logger.Debug("run reported", "run", id, "game", gameID, "score", score)
		}
		return err
	}

	g.gate.RLock()
	defer g.gate.RUnlock()

	// Register before the timer can fire, so the removal always finds it.
	g.mu.Lock()
	defer g.mu.Unlock()
	r := start(g.ctx, id, gameID, limit, report, func() { g.remove(id) })
	g.runs[id] = r
	return r
}

func (g *Registry) Get(id string) (*Run, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return r, nil
}

// Len returns the number of live runs.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.runs)
}

// CancelAll cancels every live run and waits until each has ended. A run
// that already closed on its own is still reporting, and is waited for.
func (g *Registry) CancelAll() {
	g.mu.Lock()
	runs := make([]*Run, 0, len(g.runs))
	for _, r := range g.runs {
		runs = append(runs, r)
	}
	g.mu.Unlock()

	for _, r := range runs {
		r.Cancel()
	}
	for _, r := range runs {
		<-r.Done()
	}
}

// Quiesce cancels and drains every live run, then calls fn. Start blocks
// until fn returns, so no run started before fn can report after it.
func (g *Registry) Quiesce(fn func() error) error {
	g.gate.Lock()
	defer g.gate.Unlock()
	g.CancelAll()
	return fn()
}

func (g *Registry) remove(id string) {
	g.mu.Lock()
	delete(g.runs, id)
	g.mu.Unlock()
}
