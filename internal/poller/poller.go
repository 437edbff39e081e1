package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	api "github.com/verdict-ci/verdict/api/v1alpha1"
	"github.com/verdict-ci/verdict/internal/client"
)

// State is the poller's position in its lifecycle.
type State string

const (
	// StateIdle means no job is being observed yet.
	StateIdle State = "IDLE"
	// StateArmed means the grace timer is running and the first probe
	// is not yet due.
	StateArmed State = "ARMED"
	// StatePolling is steady-state probing at a fixed interval.
	StatePolling         State = "POLLING"
	StateTerminalSuccess State = "TERMINAL_SUCCESS"
	StateTerminalFailure State = "TERMINAL_FAILURE"
)

const (
	DefaultGraceDelay  = 3 * time.Second
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 720

	// progressCeiling keeps the cosmetic indicator from claiming
	// completion before the backend does.
	progressCeiling = 95
)

var (
	// ErrJobFailed is returned by Err when the backend reported a
	// terminal failure status.
	ErrJobFailed = errors.New("job reported terminal failure")
	// ErrDeadline is returned by Err when the attempt budget ran out
	// before a terminal status was observed.
	ErrDeadline = errors.New("poll attempt budget exhausted")
)

// ProbeFunc issues one status check for the observed job.
type ProbeFunc func(ctx context.Context) (api.JobStatus, error)

// CoverageProbe builds a ProbeFunc against the coverage status
// endpoint.
func CoverageProbe(c client.Verdict, auditID string) ProbeFunc {
	return func(ctx context.Context) (api.JobStatus, error) {
		result, err := c.GetCoverageJob(ctx, auditID)
		if err != nil {
			return "", err
		}
		return result.Status, nil
	}
}

// EstimatorProbe builds a ProbeFunc against the estimator status
// endpoint.
func EstimatorProbe(c client.Verdict, auditID string, projectName string) ProbeFunc {
	return func(ctx context.Context) (api.JobStatus, error) {
		result, err := c.GetEstimatorJob(ctx, auditID, projectName)
		if err != nil {
			return "", err
		}
		return result.Status, nil
	}
}

// Poller observes one job until it reaches a terminal state. The first
// probe is delayed by a grace period to absorb read-after-write lag in
// the backend store; a 404 during polling is treated as "not yet
// visible", not as failure. Progress is cosmetic: it only communicates
// liveness, never true backend progress.
type Poller struct {
	probe       ProbeFunc
	log         *zap.Logger
	clock       Clock
	grace       time.Duration
	interval    time.Duration
	maxAttempts int
	notify      func(State, int)

	mu       sync.Mutex
	state    State
	progress int
	failure  error

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

type Option func(*Poller)

func WithClock(c Clock) Option {
	return func(p *Poller) { p.clock = c }
}

func WithGraceDelay(d time.Duration) Option {
	return func(p *Poller) { p.grace = d }
}

func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

// WithMaxAttempts bounds polling against a permanently missing id.
// Zero disables the bound.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) { p.maxAttempts = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Poller) { p.log = l }
}

// WithNotify registers a callback invoked after every state or
// progress change. The callback runs on the poll goroutine and must
// not block.
func WithNotify(fn func(state State, progress int)) Option {
	return func(p *Poller) { p.notify = fn }
}

func New(probe ProbeFunc, opts ...Option) *Poller {
	p := &Poller{
		probe:       probe,
		log:         zap.NewNop(),
		clock:       NewClock(),
		grace:       DefaultGraceDelay,
		interval:    DefaultInterval,
		maxAttempts: DefaultMaxAttempts,
		state:       StateIdle,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start arms the poller and begins probing after the grace delay. It
// returns immediately; observe completion via Done.
func (p *Poller) Start(ctx context.Context) {
	p.transition(StateArmed, 0)
	go p.run(ctx)
}

// Stop cancels all timers. No probes are issued after Stop returns
// and the poller settles without reaching a terminal state. Safe to
// call from any goroutine, any number of times.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// Done is closed once the loop has fully wound down, whether by
// terminal state, Stop, context cancellation or deadline.
func (p *Poller) Done() <-chan struct{} {
	return p.doneCh
}

// Snapshot returns the current state and progress percentage.
func (p *Poller) Snapshot() (State, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.progress
}

// Err reports why a terminal-failure state was reached. It is nil
// unless Snapshot reports StateTerminalFailure.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failure
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)

	select {
	case <-ctx.Done():
		return
	case <-p.stopCh:
		return
	case <-p.clock.After(p.grace):
	}

	p.transition(StatePolling, 0)
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C():
		}

		attempts++
		status, err := p.probe(ctx)
		switch {
		case errors.Is(err, client.ErrNotFound):
			// The record has not propagated to the read path yet.
			p.log.Debug("job not visible yet", zap.Int("attempt", attempts))
		case err != nil:
			// Transient blip; retry on the next tick.
			p.log.Warn("status probe failed", zap.Int("attempt", attempts), zap.Error(err))
		case status == api.JobStatusCompleted:
			p.transition(StateTerminalSuccess, 100)
			return
		case status.Terminal():
			p.fail(ErrJobFailed)
			return
		default:
			p.advance()
		}

		if p.maxAttempts > 0 && attempts >= p.maxAttempts {
			p.log.Warn("giving up on job", zap.Int("attempts", attempts))
			p.fail(ErrDeadline)
			return
		}
	}
}

func (p *Poller) transition(state State, progress int) {
	p.mu.Lock()
	p.state = state
	p.progress = progress
	notify := p.notify
	p.mu.Unlock()
	if notify != nil {
		notify(state, progress)
	}
}

func (p *Poller) advance() {
	p.mu.Lock()
	if p.progress < progressCeiling {
		p.progress++
	}
	state, progress := p.state, p.progress
	notify := p.notify
	p.mu.Unlock()
	if notify != nil {
		notify(state, progress)
	}
}

func (p *Poller) fail(cause error) {
	p.mu.Lock()
	p.failure = cause
	p.state = StateTerminalFailure
	progress := p.progress
	notify := p.notify
	p.mu.Unlock()
	if notify != nil {
		notify(StateTerminalFailure, progress)
	}
}
