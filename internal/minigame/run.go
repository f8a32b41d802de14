package minigame

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/playperu/geodash/internal/geodash"
)

var (
	ErrRunClosed   = errors.New("run already finished or cancelled")
	ErrRunNotFound = errors.New("run not found")
)

// ReportFunc receives the final score of a run.
type ReportFunc func(ctx context.Context, gameID string, score int) error

// Run is one timed play of a mini-game. Its score is reported once, either
// by Finish or when the time limit expires. A cancelled run never reports.
type Run struct {
	id      string
	gameID  string
	limit   time.Duration
	started time.Time
	report  ReportFunc
	onClose func()

	mu        sync.Mutex
	score     int
	closed    bool
	cancelled bool
	reportErr error

	stop chan struct{}
	done chan struct{}
}

// start launches the run's timer goroutine. A zero limit means no timer;
// the run then ends only by Finish, Cancel or ctx.
func start(ctx context.Context, id, gameID string, limit time.Duration, report ReportFunc, onClose func()) *Run {
	r := &Run{
		id:      id,
		gameID:  gameID,
		limit:   limit,
		started: time.Now(),
		report:  report,
		onClose: onClose,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go r.watch(ctx, limit)
	return r
}

func (r *Run) watch(ctx context.Context, limit time.Duration) {
	var expired <-chan time.Time
	if limit > 0 {
		t := time.NewTimer(limit)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-expired:
		if score, ok := r.close(false); ok {
			r.deliver(ctx, score)
		}
	case <-ctx.Done():
		if _, ok := r.close(true); ok {
			r.finish()
		}
	case <-r.stop:
	}
}

func (r *Run) ID() string     { return r.id }
func (r *Run) GameID() string { return r.gameID }

// Limit is the run's time limit, zero when untimed.
func (r *Run) Limit() time.Duration { return r.limit }

// Remaining returns the time left before expiry, zero when untimed.
func (r *Run) Remaining() time.Duration {
	if r.limit == 0 {
		return 0
	}
	return max(r.limit-time.Since(r.started), 0)
}

func (r *Run) Score() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.score
}

// Record scores one event with the game's rule and returns the running score.
func (r *Run) Record(value int) (int, error) {
	return r.Add(Points(r.gameID, value))
}

// Add adds raw points to the running score. Points that would overflow
// the score are rejected with geodash.ErrScoreOverflow.
func (r *Run) Add(points int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.score, ErrRunClosed
	}
	if points <= 0 {
		return r.score, nil
	}
	if points > math.MaxInt-r.score {
		return r.score, geodash.ErrScoreOverflow
	}
	r.score += points
	return r.score, nil
}

// Finish closes the run and reports its score, returning the report error.
func (r *Run) Finish(ctx context.Context) (int, error) {
	score, ok := r.close(false)
	if !ok {
		return score, ErrRunClosed
	}
	close(r.stop)
	err := r.deliver(ctx, score)
	return score, err
}

// Cancel closes the run without reporting. It reports false when the run was
// already closed.
func (r *Run) Cancel() bool {
	if _, ok := r.close(true); !ok {
		return false
	}
	close(r.stop)
	r.finish()
	return true
}

// Done is closed once the run has ended and any report has completed.
func (r *Run) Done() <-chan struct{} { return r.done }

// Err returns the report error after Done, if any.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reportErr
}

func (r *Run) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

func (r *Run) close(cancel bool) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.score, false
	}
	r.closed = true
	r.cancelled = cancel
	return r.score, true
}

func (r *Run) deliver(ctx context.Context, score int) error {
	err := r.report(ctx, r.gameID, score)
	r.mu.Lock()
	r.reportErr = err
	r.mu.Unlock()
	r.finish()
	return err
}

func (r *Run) finish() {
	if r.onClose != nil {
		r.onClose()
	}
	close(r.done)
}
