package engine

import (
	"time"

	"github.com/google/uuid"

	"liaptui/internal/domain"
)

// ActionKind identifies the inbound commands the engine consumes.
type ActionKind string

const (
	ActionRedealRequest  ActionKind = "redeal_request"
	ActionRedealResponse ActionKind = "redeal_response"
	ActionDeclare        ActionKind = "declare"
	ActionPlayPieces     ActionKind = "play_pieces"
)

// Action is an immutable command submitted by a participant. Actions are the
// only way to mutate session state.
type Action struct {
	ID          uuid.UUID
	Actor       string
	Kind        ActionKind
	SubmittedAt time.Time

	// Accept is the redeal decision for RedealRequest/RedealResponse.
	Accept bool
	// Value is the declared pile target for Declare.
	Value int32
	// Pieces are the committed pieces for PlayPieces.
	Pieces []domain.Piece
}

func newAction(actor string, kind ActionKind) Action {
	return Action{
		ID:          uuid.New(),
		Actor:       actor,
		Kind:        kind,
		SubmittedAt: time.Now(),
	}
}

// NewRedealRequest is a weak-hand holder proactively opting into a redeal.
func NewRedealRequest(actor string) Action {
	act := newAction(actor, ActionRedealRequest)
	act.Accept = true
	return act
}

// NewRedealResponse answers the pending redeal question for the actor.
func NewRedealResponse(actor string, accept bool) Action {
	act := newAction(actor, ActionRedealResponse)
	act.Accept = accept
	return act
}

// NewDeclare commits the actor's target pile count for the round.
func NewDeclare(actor string, value int32) Action {
	act := newAction(actor, ActionDeclare)
	act.Value = value
	return act
}

// NewPlayPieces commits the actor's pieces for the current trick.
func NewPlayPieces(actor string, pieces []domain.Piece) Action {
	act := newAction(actor, ActionPlayPieces)
	act.Pieces = pieces
	return act
}
