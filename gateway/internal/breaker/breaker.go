package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker short-circuits a call.
var ErrOpen = errors.New("circuit breaker is open")

// State captures circuit breaker states.
type State int

const (
	// StateClosed indicates normal operation.
	StateClosed State = iota
	// StateOpen indicates the breaker is rejecting calls.
	StateOpen
	// StateHalfOpen indicates a single trial call is permitted.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config controls thresholds for state transitions.
type Config struct {
	FailureThreshold int
	Window           time.Duration
	CoolDown         time.Duration
}

// StateChangeFunc is invoked after every transition, outside the breaker lock.
type StateChangeFunc func(name string, from, to State)

type Breaker struct {
	name          string
	cfg           Config
	now           func() time.Time
	onStateChange StateChangeFunc

	mu            sync.Mutex
	state         State
	failures      int
	windowStart   time.Time
	lastChange    time.Time
	probeInFlight bool
}

type Option func(*Breaker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

func WithStateChange(fn StateChangeFunc) Option {
	return func(b *Breaker) { b.onStateChange = fn }
}

func New(name string, cfg Config, opts ...Option) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 1
	}
	b := &Breaker{
		name: name,
		cfg:  cfg,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.lastChange = b.now()
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// LastTransition reports when the breaker last changed state.
func (b *Breaker) LastTransition() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastChange
}

// Allow reports whether a call may proceed. A nil result obliges the caller
// to finish with exactly one of Success, Failure or Release.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	from, to, changed := b.state, b.state, false
	var err error

	switch b.state {
	case StateClosed:
	case StateOpen:
		if b.now().Sub(b.lastChange) < b.cfg.CoolDown {
			err = ErrOpen
			break
		}
		to, changed = b.transition(StateHalfOpen), true
		b.probeInFlight = true
	case StateHalfOpen:
		if b.probeInFlight {
			err = ErrOpen
			break
		}
		b.probeInFlight = true
	}
	b.mu.Unlock()

	if changed {
		b.notify(from, to)
	}
	return err
}

func (b *Breaker) Success() {
	b.mu.Lock()
	from := b.state
	b.failures = 0
	changed := false
	if b.state == StateHalfOpen {
		b.probeInFlight = false
		b.transition(StateClosed)
		changed = true
	}
	b.mu.Unlock()

	if changed {
		b.notify(from, StateClosed)
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	from := b.state
	changed := false
	now := b.now()

	switch b.state {
	case StateClosed:
		if b.failures == 0 || (b.cfg.Window > 0 && now.Sub(b.windowStart) > b.cfg.Window) {
			b.failures = 0
			b.windowStart = now
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(StateOpen)
			changed = true
		}
	case StateHalfOpen:
		b.probeInFlight = false
		b.transition(StateOpen)
		changed = true
	}
	b.mu.Unlock()

	if changed {
		b.notify(from, StateOpen)
	}
}

// Release gives back a half-open probe slot without judging the upstream,
// e.g. when the client went away mid-call.
func (b *Breaker) Release() {
	b.mu.Lock()
	if b.state == StateHalfOpen {
		b.probeInFlight = false
	}
	b.mu.Unlock()
}

// Execute runs fn under the breaker. ErrOpen is returned without calling fn.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn(ctx)
	switch {
	case err == nil:
		b.Success()
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		b.Release()
	default:
		b.Failure()
	}
	return err
}

// transition must be called with mu held.
func (b *Breaker) transition(to State) State {
	b.state = to
	b.lastChange = b.now()
	if to != StateClosed {
		b.failures = 0
	}
	return to
}

func (b *Breaker) notify(from, to State) {
	if b.onStateChange != nil && from != to {
		b.onStateChange(b.name, from, to)
	}
}
