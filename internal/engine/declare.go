package engine

import (
	"fmt"

	"liaptui/internal/domain"
)

// Declaration bounds for a round's pile target.
const (
	MinDeclaration int32 = 0
	MaxDeclaration int32 = 8
)

// forbiddenDeclarationTotal is the total the four declarations may never sum
// to: it would let every player hit their target exactly.
const forbiddenDeclarationTotal int32 = 8

// declareHandler collects each player's target pile count in turn order,
// starting with the round starter.
type declareHandler struct{}

func (h *declareHandler) phase() domain.Phase { return domain.PhaseDeclaration }

func (h *declareHandler) enter(g *domain.Game) stepResult {
	g.DeclareIndex = 0
	return stepResult{reason: fmt.Sprintf("declarations open; %s declares first", g.CurrentDeclarer().UserID)}
}

func (h *declareHandler) handle(g *domain.Game, act Action) (stepResult, error) {
	if act.Kind != ActionDeclare {
		return stepResult{}, rejectf(RejectWrongPhase, "waiting for declarations, not %s", act.Kind)
	}
	p, ok := g.Players[act.Actor]
	if !ok {
		return stepResult{}, rejectf(RejectUnknownPlayer, "player %s is not in this game", act.Actor)
	}
	current := g.CurrentDeclarer()
	if current.UserID != act.Actor {
		return stepResult{}, rejectf(RejectOutOfTurn, "waiting for %s to declare", current.UserID)
	}
	if act.Value < MinDeclaration || act.Value > MaxDeclaration {
		return stepResult{}, rejectf(RejectBadValue, "declaration must be between %d and %d", MinDeclaration, MaxDeclaration)
	}
	if act.Value == 0 && p.ZeroStreak >= 2 {
		return stepResult{}, rejectf(RejectForcedNonzero, "you declared zero in the last two rounds; declare at least 1")
	}
	if g.DeclareIndex == len(g.TurnOrder)-1 && g.DeclarationTotal()+act.Value == forbiddenDeclarationTotal {
		return stepResult{}, rejectf(RejectForbiddenTotal, "declaring %d would make the total exactly %d; pick another value", act.Value, forbiddenDeclarationTotal)
	}

	p.SetDeclaration(act.Value)
	g.DeclareIndex++

	res := stepResult{reason: fmt.Sprintf("%s declares %d piles", act.Actor, act.Value)}
	if g.DeclareIndex == len(g.TurnOrder) {
		res.done = true
		res.next = domain.PhaseTurn
	}
	return res, nil
}
