package engine

import "liaptui/internal/domain"

// EventKind identifies emitted engine events for transport dispatch.
type EventKind string

const (
	// EventState carries the full phase snapshot. Exactly one is emitted per
	// committed mutation.
	EventState EventKind = "state"
	// EventHandDealt privately delivers a player's dealt hand.
	EventHandDealt EventKind = "hand_dealt"
	// EventCriticalError is emitted once when the session halts; no further
	// state events follow.
	EventCriticalError EventKind = "critical_error"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast to all
}

// PlayerView is the public per-player slice of a snapshot. Hands are not
// included; dealt pieces travel in targeted hand_dealt events.
type PlayerView struct {
	UserID   string `json:"user_id"`
	Seat     int    `json:"seat"`
	HandSize int    `json:"hand_size"`
	Declared int32  `json:"declared"` // -1 until declared this round
	Captured int32  `json:"captured"`
	Score    int32  `json:"score"`
	IsBot    bool   `json:"is_bot"`
}

// PlayView describes one committed play of the in-progress trick.
type PlayView struct {
	UserID string         `json:"user_id"`
	Pieces []domain.Piece `json:"pieces"`
	Type   string         `json:"type"`
	Value  int32          `json:"value"`
}

// Snapshot is the full phase-data state emitted after every committed
// mutation. It is a complete description, not a delta, so a dropped message
// can be recovered by last-write-wins.
type Snapshot struct {
	Seq    uint64 `json:"seq"`
	Reason string `json:"reason"`

	Phase       domain.Phase `json:"phase"`
	RoundNumber int          `json:"round_number"`
	Multiplier  int32        `json:"multiplier"`
	TurnOrder   []string     `json:"turn_order"`
	StarterID   string       `json:"starter_id"`
	Players     []PlayerView `json:"players"`

	// Preparation: the weak-hand holder whose redeal decision is pending.
	AwaitingRedeal string `json:"awaiting_redeal,omitempty"`

	// Declaration.
	CurrentDeclarer  string `json:"current_declarer,omitempty"`
	DeclarationTotal int32  `json:"declaration_total"`

	// Turn.
	CurrentPlayer   string     `json:"current_player,omitempty"`
	RequiredCount   int        `json:"required_count"`
	TrickPlays      []PlayView `json:"trick_plays,omitempty"`
	LastTrickWinner string     `json:"last_trick_winner,omitempty"`

	// Completion.
	Winners []string `json:"winners,omitempty"`
}

// HandDealtPayload is delivered privately to each player after a deal.
type HandDealtPayload struct {
	UserID string         `json:"user_id"`
	Hand   []domain.Piece `json:"hand"`
}

// CriticalErrorPayload describes the fatal halt to all participants.
type CriticalErrorPayload struct {
	Message string `json:"message"`
}

// BuildSnapshot derives the public snapshot from the aggregate.
func BuildSnapshot(g *domain.Game, seq uint64, reason string) Snapshot {
	snap := Snapshot{
		Seq:              seq,
		Reason:           reason,
		Phase:            g.Phase,
		RoundNumber:      g.RoundNumber,
		Multiplier:       g.Multiplier,
		TurnOrder:        append([]string(nil), g.TurnOrder...),
		StarterID:        g.StarterID,
		DeclarationTotal: g.DeclarationTotal(),
		LastTrickWinner:  g.LastTrickWinner,
		Winners:          append([]string(nil), g.Winners...),
	}

	for _, id := range g.TurnOrder {
		p := g.Players[id]
		view := PlayerView{
			UserID:   p.UserID,
			Seat:     p.Seat,
			HandSize: len(p.Hand),
			Declared: p.Declared,
			Captured: p.Captured,
			Score:    p.Score,
			IsBot:    p.IsBot,
		}
		snap.Players = append(snap.Players, view)
	}

	switch g.Phase {
	case domain.PhasePreparation:
		if len(g.WeakDeciders) > 0 {
			snap.AwaitingRedeal = g.WeakDeciders[0]
		}
	case domain.PhaseDeclaration:
		snap.CurrentDeclarer = g.CurrentDeclarer().UserID
	case domain.PhaseTurn:
		snap.CurrentPlayer = g.CurrentTurnPlayer().UserID
		snap.RequiredCount = g.CurrentTrick.RequiredCount
		for _, play := range g.CurrentTrick.Plays {
			snap.TrickPlays = append(snap.TrickPlays, PlayView{
				UserID: play.UserID,
				Pieces: play.Pieces,
				Type:   play.Type.String(),
				Value:  play.Value,
			})
		}
	}

	return snap
}
