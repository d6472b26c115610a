package breaker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var errUpstream = errors.New("upstream failed")

func failing(context.Context) error { return errUpstream }
func succeeding(context.Context) error { return nil }

func newTestBreaker(clock *fakeClock) *Breaker {
	return New("test", Config{
		FailureThreshold: 3,
		Window:           10 * time.Second,
		CoolDown:         5 * time.Second,
	}, WithClock(clock.Now))
}

func TestOpensAfterThresholdConsecutiveFailures(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := b.Execute(ctx, failing); !errors.Is(err, errUpstream) {
			t.Fatalf("call %d: expected upstream error, got %v", i, err)
		}
		if b.State() != StateClosed {
			t.Fatalf("expected CLOSED after %d failures, got %s", i+1, b.State())
		}
	}
	_ = b.Execute(ctx, failing)
	if b.State() != StateOpen {
		t.Fatalf("expected OPEN after threshold, got %s", b.State())
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)
	ctx := context.Background()

	_ = b.Execute(ctx, failing)
	_ = b.Execute(ctx, failing)
	_ = b.Execute(ctx, succeeding)
	_ = b.Execute(ctx, failing)
	_ = b.Execute(ctx, failing)
	if b.State() != StateClosed {
		t.Fatalf("expected CLOSED, success should reset the streak, got %s", b.State())
	}
}

func TestFailuresOutsideWindowDoNotAccumulate(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)
	ctx := context.Background()

	_ = b.Execute(ctx, failing)
	_ = b.Execute(ctx, failing)
	clock.Advance(11 * time.Second)
	_ = b.Execute(ctx, failing)
	if b.State() != StateClosed {
		t.Fatalf("expected CLOSED, stale failures should expire, got %s", b.State())
	}
	_ = b.Execute(ctx, failing)
	_ = b.Execute(ctx, failing)
	if b.State() != StateOpen {
		t.Fatalf("expected OPEN, got %s", b.State())
	}
}

func TestOpenShortCircuitsWithoutCallingUpstream(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, failing)
	}

	var calls int
	for i := 0; i < 10; i++ {
		err := b.Execute(ctx, func(context.Context) error {
			calls++
			return nil
		})
		if !errors.Is(err, ErrOpen) {
			t.Fatalf("expected ErrOpen, got %v", err)
		}
	}
	if calls != 0 {
		t.Fatalf("expected zero upstream calls while open, got %d", calls)
	}
}

func TestHalfOpenProbeSuccessCloses(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, failing)
	}

	clock.Advance(5 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to be allowed after cool-down, got %v", err)
	}
	if b.State() != StateHalfOpen {
		t.Fatalf("expected HALF_OPEN, got %s", b.State())
	}
	if err := b.Allow(); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected second call to be rejected during probe, got %v", err)
	}
	b.Success()
	if b.State() != StateClosed {
		t.Fatalf("expected CLOSED after successful probe, got %s", b.State())
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected calls to flow after close, got %v", err)
	}
	b.Success()
}

func TestHalfOpenProbeFailureReopensAndRestartsCoolDown(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, failing)
	}

	clock.Advance(6 * time.Second)
	if err := b.Execute(ctx, failing); !errors.Is(err, errUpstream) {
		t.Fatalf("expected probe to reach upstream, got %v", err)
	}
	if b.State() != StateOpen {
		t.Fatalf("expected OPEN after failed probe, got %s", b.State())
	}

	clock.Advance(4 * time.Second)
	if err := b.Allow(); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected cool-down to restart after failed probe, got %v", err)
	}
	clock.Advance(1 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected new probe after cool-down, got %v", err)
	}
}

func TestReleaseFreesProbeWithoutTransition(t *testing.T) {
	clock := newFakeClock()
	b := newTestBreaker(clock)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, failing)
	}
	clock.Advance(5 * time.Second)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := b.Execute(cancelled, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if b.State() != StateHalfOpen {
		t.Fatalf("expected HALF_OPEN to persist after release, got %s", b.State())
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected released probe slot to be reusable, got %v", err)
	}
}

func TestStateChangeCallback(t *testing.T) {
	clock := newFakeClock()
	var transitions []string
	b := New("cb", Config{FailureThreshold: 1, CoolDown: time.Second},
		WithClock(clock.Now),
		WithStateChange(func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		}))
	ctx := context.Background()

	_ = b.Execute(ctx, failing)
	clock.Advance(time.Second)
	_ = b.Execute(ctx, succeeding)

	want := []string{"cb:CLOSED->OPEN", "cb:OPEN->HALF_OPEN", "cb:HALF_OPEN->CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("expected %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transition %d: expected %s, got %s", i, want[i], transitions[i])
		}
	}
}

func TestConcurrentFailuresAreNotLost(t *testing.T) {
	b := New("concurrent", Config{FailureThreshold: 100, CoolDown: time.Hour})
	var wg sync.WaitGroup
	for i := 0; i < 99; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(context.Background(), failing)
		}()
	}
	wg.Wait()
	if b.State() != StateClosed {
		t.Fatalf("expected CLOSED below threshold, got %s", b.State())
	}
	_ = b.Execute(context.Background(), failing)
	if b.State() != StateOpen {
		t.Fatalf("expected OPEN at exactly the threshold, got %s", b.State())
	}
}

func TestOnlyOneProbeUnderConcurrency(t *testing.T) {
	clock := newFakeClock()
	b := New("probe", Config{FailureThreshold: 1, CoolDown: time.Second}, WithClock(clock.Now))
	_ = b.Execute(context.Background(), failing)
	clock.Advance(time.Second)

	var allowed int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Allow() == nil {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()
	if allowed != 1 {
		t.Fatalf("expected exactly one probe, got %d", allowed)
	}
}

func TestSetReturnsSameBreakerPerName(t *testing.T) {
	s := NewSet(Config{FailureThreshold: 1, CoolDown: time.Minute})
	a := s.Get("orders")
	if s.Get("orders") != a {
		t.Fatalf("expected the same breaker for the same name")
	}
	if s.Get("inventory") == a {
		t.Fatalf("expected distinct breakers for distinct names")
	}
	_ = a.Execute(context.Background(), failing)

	snap := s.Snapshot()
	if snap["orders"] != StateOpen || snap["inventory"] != StateClosed {
		t.Fatalf("unexpected snapshot %v", snap)
	}
}
