package engine

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"liaptui/internal/domain"
)

// PlayerCount is the fixed number of participants per session.
const PlayerCount = 4

// ErrNeedFourPlayers is returned when a session is created with the wrong
// number of seats.
var ErrNeedFourPlayers = errors.New("exactly four players are required")

// PlayerSeat describes one participant at session creation.
type PlayerSeat struct {
	UserID string
	Seat   int // 1-based seat number
	IsBot  bool
}

// Outcome is the result of submitting one action. Either the action was
// committed (Events holds the resulting broadcasts, exactly one of them a
// public state snapshot unless the session halted) or it was rejected with
// no mutation performed.
type Outcome struct {
	Committed bool
	Halted    bool
	Events    []Event
	Rejection *Rejection
}

// Coordinator owns a session's Game aggregate and is its single mutation
// entry point. It dispatches actions to the active phase handler, commits
// the result, cascades phase transitions, and emits one snapshot broadcast
// per committed mutation.
//
// The coordinator itself is not safe for concurrent use: it expects the
// single-writer discipline of its host, either a Nakama match loop or a
// session queue worker.
type Coordinator struct {
	game     *domain.Game
	handlers map[domain.Phase]phaseHandler
	seq      uint64
}

// NewCoordinator builds a session for exactly four players in seat order.
// A nil rng falls back to a time-seeded source; winScore <= 0 falls back to
// DefaultWinScore.
func NewCoordinator(seats []PlayerSeat, rng *rand.Rand, winScore int32) (*Coordinator, error) {
	if len(seats) != PlayerCount {
		return nil, ErrNeedFourPlayers
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if winScore <= 0 {
		winScore = DefaultWinScore
	}

	players := make(map[string]*domain.Player, len(seats))
	order := make([]string, 0, len(seats))
	for _, seat := range seats {
		players[seat.UserID] = &domain.Player{
			UserID:   seat.UserID,
			Seat:     seat.Seat,
			Declared: domain.NoDeclaration,
			IsBot:    seat.IsBot,
		}
		order = append(order, seat.UserID)
	}

	game := &domain.Game{
		Phase:       domain.PhasePreparation,
		RoundNumber: 1,
		Multiplier:  1,
		Players:     players,
		TurnOrder:   order,
	}

	return &Coordinator{
		game: game,
		handlers: map[domain.Phase]phaseHandler{
			domain.PhasePreparation: &prepareHandler{rng: rng},
			domain.PhaseDeclaration: &declareHandler{},
			domain.PhaseTurn:        &turnHandler{},
			domain.PhaseScoring:     &scoreHandler{winScore: winScore},
		},
	}, nil
}

// Begin deals the first round and emits the initial events: the private
// hands plus the first state snapshot.
func (c *Coordinator) Begin() []Event {
	res := c.handlers[domain.PhasePreparation].enter(c.game)
	return c.commit(res)
}

// Submit applies one action under the validate-before-apply discipline.
// A rejected action has no side effects and the submitter may resubmit.
func (c *Coordinator) Submit(act Action) Outcome {
	if c.game.Halted {
		return Outcome{Rejection: rejectf(RejectHalted, "game ended due to an internal error")}
	}
	if c.game.Phase == domain.PhaseEnded {
		return Outcome{Rejection: rejectf(RejectWrongPhase, "the game is over")}
	}

	handler := c.handlers[c.game.Phase]
	res, err := handler.handle(c.game, act)
	if err != nil {
		var fatal *FatalError
		if errors.As(err, &fatal) {
			return c.halt(fatal)
		}
		rej, ok := AsRejection(err)
		if !ok {
			rej = rejectf(RejectWrongPhase, "%v", err)
		}
		return Outcome{Rejection: rej}
	}

	return Outcome{Committed: true, Events: c.commit(res)}
}

// Game exposes the aggregate for read-only inspection (snapshots for bots,
// assertions in tests). Callers must not mutate it and must read it from the
// same worker that calls Submit.
func (c *Coordinator) Game() *domain.Game { return c.game }

// Seq returns the sequence number of the last emitted snapshot.
func (c *Coordinator) Seq() uint64 { return c.seq }

// commit cascades phase transitions signalled by the handler and closes the
// mutation with exactly one public snapshot event.
func (c *Coordinator) commit(res stepResult) []Event {
	events := append([]Event(nil), res.events...)
	reasons := make([]string, 0, 4)
	if res.reason != "" {
		reasons = append(reasons, res.reason)
	}

	for res.done {
		c.game.Phase = res.next
		if res.next == domain.PhaseEnded {
			break
		}
		res = c.handlers[res.next].enter(c.game)
		events = append(events, res.events...)
		if res.reason != "" {
			reasons = append(reasons, res.reason)
		}
	}

	c.seq++
	snapshot := BuildSnapshot(c.game, c.seq, strings.Join(reasons, "; "))
	return append(events, Event{Kind: EventState, Payload: snapshot})
}

// halt marks the session terminal and emits the one critical-error
// broadcast; the mutation that tripped the invariant is already in place but
// no further actions will be accepted.
func (c *Coordinator) halt(fatal *FatalError) Outcome {
	c.game.Halted = true
	ev := Event{
		Kind:    EventCriticalError,
		Payload: CriticalErrorPayload{Message: "game ended due to an internal error: " + fatal.Detail},
	}
	return Outcome{Committed: true, Halted: true, Events: []Event{ev}}
}
