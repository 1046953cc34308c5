package engine

import "liaptui/internal/domain"

// stepResult is what a phase handler reports back to the coordinator after
// entering a phase or applying an action.
type stepResult struct {
	events []Event      // targeted events produced by the step (hand deals)
	reason string       // human-readable description of what happened
	done   bool         // the phase completed and the round advances
	next   domain.Phase // the phase to enter when done
}

// phaseHandler is one state of the round lifecycle. The set is closed:
// preparation, declaration, turn and scoring. Handlers never talk to each
// other; all cross-phase data flows through the Game aggregate.
//
// enter runs when the phase becomes active and may complete immediately
// (scoring always does, preparation does when no hand is weak). handle
// validates one action and, only if valid, applies it. A *Rejection error
// leaves the aggregate untouched; a *FatalError halts the session.
type phaseHandler interface {
	phase() domain.Phase
	enter(g *domain.Game) stepResult
	handle(g *domain.Game, act Action) (stepResult, error)
}
