// Package session keeps one calculator accumulator per client session in
// memory. Sessions expire after a period of inactivity.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go-chi-calculator/internal/accumulator"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrCapacity = errors.New("session capacity reached")
)

// Options configures a Store. A zero TTL disables expiry and a zero
// MaxSessions disables the capacity limit.
type Options struct {
	TTL         time.Duration
	MaxSessions int
	Logger      *zap.Logger
	Now         func() time.Time
}

// Session is a single calculator owned by one client.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	acc      *accumulator.Accumulator
	lastUsed time.Time
}

// State returns a snapshot of the session's calculator.
func (s *Session) State() accumulator.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acc.State()
}

// Store is a concurrency-safe registry of sessions.
type Store struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*Session

	expired prometheus.Counter
}

func NewStore(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		opts:     opts,
		sessions: make(map[string]*Session),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "calculator",
			Subsystem: "sessions",
			Name:      "expired_total",
			Help:      "Number of calculator sessions evicted after being idle.",
		}),
	}
}

// Create registers a new session with a fresh calculator.
func (s *Store) Create() (*Session, error) {
	now := s.opts.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		acc:       accumulator.New(),
		lastUsed:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.full() {
		// idle sessions the janitor has not reached yet do not count
		if n := s.sweepLocked(now); n > 0 {
			s.opts.Logger.Debug("expired calculator sessions on create", zap.Int("removed", n))
		}
		if s.full() {
			return nil, ErrCapacity
		}
	}
	s.sessions[sess.ID] = sess

	return sess, nil
}

// Get looks up a live session.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.idle(sess, s.opts.Now()) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Do runs fn against the session's calculator while holding the session
// lock, so intents for one session are applied one at a time. It returns the
// state fn left behind.
func (s *Store) Do(id string, fn func(*accumulator.Accumulator)) (accumulator.State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return accumulator.State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	fn(sess.acc)
	sess.lastUsed = s.opts.Now()

	return sess.acc.State(), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts every session idle for longer than the TTL and reports how
// many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.opts.TTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweepLocked(now)
}

// sweepLocked requires s.mu to be held for writing.
func (s *Store) sweepLocked(now time.Time) int {
	if s.opts.TTL <= 0 {
		return 0
	}

	removed := 0
	for id, sess := range s.sessions {
		if s.idle(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.expired.Add(float64(removed))

	return removed
}

func (s *Store) full() bool {
	return s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if s.opts.TTL <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.opts.Now()); n > 0 {
				s.opts.Logger.Info("expired calculator sessions",
					zap.Int("removed", n),
					zap.Int("active", s.Len()),
				)
			}
		}
	}
}

func (s *Store) idle(sess *Session, now time.Time) bool {
	if s.opts.TTL <= 0 {
		return false
	}
	sess.mu.Lock()
	last := sess.lastUsed
	sess.mu.Unlock()
	return now.Sub(last) > s.opts.TTL
}
