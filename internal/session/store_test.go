package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"go-chi-calculator/internal/accumulator"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCreateAndGet(t *testing.T) {
	s := NewStore(Options{})

	sess, err := s.Create()
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected session id")
	}

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("getting session: %v", err)
	}
	if got != sess {
		t.Fatal("expected Get to return the created session")
	}
	if got.State() != accumulator.InitialState() {
		t.Fatalf("expected initial calculator state, got %+v", got.State())
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", s.Len())
	}
}

func TestGetUnknownSession(t *testing.T) {
	s := NewStore(Options{})

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Do("missing", func(*accumulator.Accumulator) {}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Do, got %v", err)
	}
}

func TestDoAppliesToOwnSessionOnly(t *testing.T) {
	s := NewStore(Options{})
	a, _ := s.Create()
	b, _ := s.Create()

	state, err := s.Do(a.ID, func(acc *accumulator.Accumulator) {
		acc.EnterDigit(5)
		acc.ChooseOperator(accumulator.Multiply)
		acc.EnterDigit(6)
		acc.Equals()
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if state.Display != "30" {
		t.Fatalf("expected display %q, got %q", "30", state.Display)
	}
	if b.State().Display != "0" {
		t.Fatalf("expected untouched session to show %q, got %q", "0", b.State().Display)
	}
}

func TestCapacity(t *testing.T) {
	s := NewStore(Options{MaxSessions: 2})

	for i := 0; i < 2; i++ {
		if _, err := s.Create(); err != nil {
			t.Fatalf("creating session %d: %v", i, err)
		}
	}
	if _, err := s.Create(); !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
}

func TestCapacityReclaimsIdleSessions(t *testing.T) {
	clock := newClock()
	s := NewStore(Options{TTL: time.Minute, MaxSessions: 2, Now: clock.Now})

	stale, _ := s.Create()
	clock.Advance(50 * time.Second)
	live, _ := s.Create()

	// stale is past its TTL, live is not; no janitor has run
	clock.Advance(20 * time.Second)

	sess, err := s.Create()
	if err != nil {
		t.Fatalf("expected idle session to be reclaimed, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", s.Len())
	}
	if _, err := s.Get(stale.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected stale session evicted, got %v", err)
	}
	for _, id := range []string{live.ID, sess.ID} {
		if _, err := s.Get(id); err != nil {
			t.Fatalf("expected session %s to survive, got %v", id, err)
		}
	}
	if got := testutil.ToFloat64(s.expired); got != 1 {
		t.Fatalf("expected expired counter 1, got %v", got)
	}

	if _, err := s.Create(); !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity with only live sessions, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := NewStore(Options{})
	sess, _ := s.Create()

	if err := s.Delete(sess.ID); err != nil {
		t.Fatalf("deleting session: %v", err)
	}
	if err := s.Delete(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", s.Len())
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	clock := newClock()
	s := NewStore(Options{TTL: time.Minute, Now: clock.Now})

	idle, _ := s.Create()
	busy, _ := s.Create()

	clock.Advance(45 * time.Second)
	if _, err := s.Do(busy.ID, func(acc *accumulator.Accumulator) { acc.EnterDigit(1) }); err != nil {
		t.Fatalf("Do: %v", err)
	}

	clock.Advance(30 * time.Second)

	if _, err := s.Get(idle.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected idle session to be unreachable, got %v", err)
	}

	if n := s.Sweep(clock.Now()); n != 1 {
		t.Fatalf("expected 1 session swept, got %d", n)
	}
	if _, err := s.Get(busy.ID); err != nil {
		t.Fatalf("expected busy session to survive, got %v", err)
	}
	if got := testutil.ToFloat64(s.expired); got != 1 {
		t.Fatalf("expected expired counter 1, got %v", got)
	}
}

func TestSweepWithoutTTLKeepsSessions(t *testing.T) {
	clock := newClock()
	s := NewStore(Options{Now: clock.Now})
	s.Create()

	clock.Advance(24 * time.Hour)

	if n := s.Sweep(clock.Now()); n != 0 {
		t.Fatalf("expected nothing swept, got %d", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewStore(Options{TTL: time.Millisecond})
	sess, _ := s.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for s.Len() != 0 {
		select {
		case <-deadline:
			t.Fatalf("session %s was not swept", sess.ID)
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCollectorsReportActiveSessions(t *testing.T) {
	s := NewStore(Options{})
	s.Create()
	s.Create()

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(s.Collectors()[0]); err != nil {
		t.Fatalf("registering collector: %v", err)
	}

	count, err := testutil.GatherAndCount(reg, "calculator_sessions_active")
	if err != nil {
		t.Fatalf("gathering: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 series, got %d", count)
	}
	if got := testutil.ToFloat64(s.Collectors()[0]); got != 2 {
		t.Fatalf("expected 2 active sessions, got %v", got)
	}
}

func TestConcurrentIntentsAreSerialised(t *testing.T) {
	s := NewStore(Options{})
	sess, _ := s.Create()

	s.Do(sess.ID, func(acc *accumulator.Accumulator) {
		acc.EnterDigit(0)
		acc.ChooseOperator(accumulator.Add)
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(sess.ID, func(acc *accumulator.Accumulator) {
				acc.EnterDigit(1)
				acc.ChooseOperator(accumulator.Add)
			})
		}()
	}
	wg.Wait()

	state, err := s.Do(sess.ID, func(acc *accumulator.Accumulator) {
		acc.EnterDigit(0)
		acc.Equals()
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if state.Display != "50" {
		t.Fatalf("expected display %q, got %q", "50", state.Display)
	}
}
