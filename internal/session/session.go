// Package session runs one game engine behind a serialized action queue.
//
// A session owns a single worker goroutine: every submitted action is
// appended to the queue and applied strictly one at a time, in submission
// order, so near-simultaneous actions from different participants can never
// interleave mid-mutation. Pacing of automated players is advisory timing
// only; correctness comes solely from this serialization.
package session

import (
	"context"
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"liaptui/internal/domain"
	"liaptui/internal/engine"
)

// ErrClosed is returned when submitting to a session whose worker stopped.
var ErrClosed = errors.New("session closed")

// Listener receives every event the engine emits, in commit order. It is
// invoked from the session worker; implementations must not call back into
// the session synchronously.
type Listener func(ev engine.Event)

type submitRequest struct {
	action engine.Action
	reply  chan engine.Outcome
}

// Session serializes access to one coordinator. Cross-session instances are
// fully independent and may run in parallel.
type Session struct {
	ID uuid.UUID

	coord    *engine.Coordinator
	queue    chan submitRequest
	done     chan struct{}
	listener Listener
	log      *logrus.Entry
}

// New creates a session for the given seats. The listener may be nil.
func New(seats []engine.PlayerSeat, rng *rand.Rand, winScore int32, listener Listener, logger *logrus.Logger) (*Session, error) {
	coord, err := engine.NewCoordinator(seats, rng, winScore)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}

	id := uuid.New()
	return &Session{
		ID:       id,
		coord:    coord,
		queue:    make(chan submitRequest, 16),
		done:     make(chan struct{}),
		listener: listener,
		log:      logger.WithField("session_id", id),
	}, nil
}

// Run starts the game and applies queued actions until the context is
// cancelled. It is the session's single writer; call it exactly once.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)

	s.emit(s.coord.Begin())
	s.log.WithField("round", s.coord.Game().RoundNumber).Info("session started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session stopped")
			return
		case req := <-s.queue:
			outcome := s.coord.Submit(req.action)
			s.observe(req.action, outcome)
			s.emit(outcome.Events)
			req.reply <- outcome
		}
	}
}

// Submit queues one action and waits for its outcome. Safe for concurrent
// use from any goroutine; actions are applied in submission order.
func (s *Session) Submit(ctx context.Context, act engine.Action) (engine.Outcome, error) {
	req := submitRequest{action: act, reply: make(chan engine.Outcome, 1)}

	select {
	case s.queue <- req:
	case <-s.done:
		return engine.Outcome{}, ErrClosed
	case <-ctx.Done():
		return engine.Outcome{}, ctx.Err()
	}

	select {
	case outcome := <-req.reply:
		return outcome, nil
	case <-s.done:
		return engine.Outcome{}, ErrClosed
	case <-ctx.Done():
		return engine.Outcome{}, ctx.Err()
	}
}

// Game exposes the aggregate for inspection between submissions. Callers
// must not mutate it and must only read it while no Submit is in flight; the
// synchronous Submit reply provides the necessary ordering for a single
// driving goroutine.
func (s *Session) Game() *domain.Game { return s.coord.Game() }

func (s *Session) emit(events []engine.Event) {
	if s.listener == nil {
		return
	}
	for _, ev := range events {
		s.listener(ev)
	}
}

func (s *Session) observe(act engine.Action, outcome engine.Outcome) {
	entry := s.log.WithFields(logrus.Fields{
		"action": act.Kind,
		"actor":  act.Actor,
	})
	switch {
	case outcome.Halted:
		entry.Error("session halted on fatal consistency violation")
	case outcome.Committed:
		entry.WithField("seq", s.coord.Seq()).Debug("action committed")
	default:
		entry.WithField("reject", outcome.Rejection.Kind).Debug("action rejected")
	}
}
