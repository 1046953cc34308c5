package engine

import (
	"fmt"
	"strings"

	"liaptui/internal/domain"
)

// DefaultWinScore is the cumulative total that ends the game.
const DefaultWinScore int32 = 50

// scoreHandler applies the round scores and decides game completion. It
// requires no player input: entering the phase settles the round and either
// ends the game or rolls over into the next preparation.
type scoreHandler struct {
	winScore int32
}

func (h *scoreHandler) phase() domain.Phase { return domain.PhaseScoring }

func (h *scoreHandler) enter(g *domain.Game) stepResult {
	parts := make([]string, 0, len(g.TurnOrder))
	for _, id := range g.TurnOrder {
		p := g.Players[id]
		delta := domain.RoundScore(p.Declared, p.Captured, g.Multiplier)
		p.Score += delta
		parts = append(parts, fmt.Sprintf("%s %+d", id, delta))
	}
	reason := fmt.Sprintf("round %d scored: %s", g.RoundNumber, strings.Join(parts, ", "))

	if winners := h.winners(g); len(winners) > 0 {
		g.Winners = winners
		return stepResult{
			reason: fmt.Sprintf("%s; game over, won by %s", reason, strings.Join(winners, " and ")),
			done:   true,
			next:   domain.PhaseEnded,
		}
	}

	// Roll over: the previous round's final-trick winner starts the next one.
	g.RoundNumber++
	g.Multiplier = 1
	g.StarterID = g.LastTrickWinner
	for _, p := range g.Players {
		p.ResetRound()
	}

	return stepResult{reason: reason, done: true, next: domain.PhasePreparation}
}

func (h *scoreHandler) handle(g *domain.Game, act Action) (stepResult, error) {
	return stepResult{}, rejectf(RejectWrongPhase, "the round is being scored; no action is accepted")
}

// winners returns the highest scorers once any total reaches the win score;
// ties are allowed.
func (h *scoreHandler) winners(g *domain.Game) []string {
	reached := false
	for _, p := range g.Players {
		if p.Score >= h.winScore {
			reached = true
			break
		}
	}
	if !reached {
		return nil
	}

	best := g.Players[g.TurnOrder[0]].Score
	for _, id := range g.TurnOrder[1:] {
		if s := g.Players[id].Score; s > best {
			best = s
		}
	}
	var winners []string
	for _, id := range g.TurnOrder {
		if g.Players[id].Score == best {
			winners = append(winners, id)
		}
	}
	return winners
}
