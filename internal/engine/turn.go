package engine

import (
	"fmt"

	"liaptui/internal/domain"
)

// turnHandler runs repeated tricks until all hands are empty. The leader of a
// trick fixes the required piece count; followers must match the count but
// their plays need not classify to a legal type, they are merely ineligible
// to win.
type turnHandler struct{}

func (h *turnHandler) phase() domain.Phase { return domain.PhaseTurn }

func (h *turnHandler) enter(g *domain.Game) stepResult {
	g.CurrentTrick = domain.Trick{LeaderID: g.StarterID}
	return stepResult{reason: fmt.Sprintf("%s leads the first trick", g.StarterID)}
}

func (h *turnHandler) handle(g *domain.Game, act Action) (stepResult, error) {
	if act.Kind != ActionPlayPieces {
		return stepResult{}, rejectf(RejectWrongPhase, "waiting for pieces to be played, not %s", act.Kind)
	}
	p, ok := g.Players[act.Actor]
	if !ok {
		return stepResult{}, rejectf(RejectUnknownPlayer, "player %s is not in this game", act.Actor)
	}
	current := g.CurrentTurnPlayer()
	if current.UserID != act.Actor {
		return stepResult{}, rejectf(RejectOutOfTurn, "waiting for %s to play", current.UserID)
	}
	if !domain.HandContains(p.Hand, act.Pieces) {
		return stepResult{}, rejectf(RejectUnownedPiece, "you do not hold one of the selected pieces")
	}

	leading := len(g.CurrentTrick.Plays) == 0
	if leading {
		if len(act.Pieces) < 1 || len(act.Pieces) > domain.MaxLeadCount {
			return stepResult{}, rejectf(RejectWrongCount, "a leading play must use 1 to %d pieces", domain.MaxLeadCount)
		}
		if domain.Classify(act.Pieces) == domain.Invalid {
			return stepResult{}, rejectf(RejectInvalidPlay, "the selected pieces do not form a recognized combination")
		}
	} else if len(act.Pieces) != g.CurrentTrick.RequiredCount {
		return stepResult{}, rejectf(RejectWrongCount, "must play exactly %d pieces", g.CurrentTrick.RequiredCount)
	}

	play := domain.NewTurnPlay(act.Actor, act.Pieces, len(g.CurrentTrick.Plays))
	g.CurrentTrick.Plays = append(g.CurrentTrick.Plays, play)
	if leading {
		g.CurrentTrick.RequiredCount = len(act.Pieces)
	}
	g.CurrentTrick.TurnIndex++

	if len(g.CurrentTrick.Plays) < len(g.TurnOrder) {
		return stepResult{reason: fmt.Sprintf("%s played %d pieces", act.Actor, len(act.Pieces))}, nil
	}
	return h.resolveTrick(g)
}

// resolveTrick settles a completed trick: the winner captures one pile per
// piece of the winning play, all committed pieces leave their owners' hands,
// and the winner leads the next trick.
func (h *turnHandler) resolveTrick(g *domain.Game) (stepResult, error) {
	winner := domain.ResolveTrick(g.CurrentTrick.Plays)
	piles := domain.PilesForPlay(winner)
	g.Players[winner.UserID].Captured += piles

	for _, play := range g.CurrentTrick.Plays {
		owner := g.Players[play.UserID]
		owner.Hand = domain.RemovePieces(owner.Hand, play.Pieces)
		g.RemovedPieces += len(play.Pieces)
	}

	if spread := domain.HandSizeSpread(g.Players); spread > 1 {
		return stepResult{}, fatalf("hand sizes diverged by %d pieces after trick resolution", spread)
	}

	g.LastTrickWinner = winner.UserID
	res := stepResult{
		reason: fmt.Sprintf("%s wins the trick and captures %d piles", winner.UserID, piles),
	}

	if g.HandsEmpty() {
		res.done = true
		res.next = domain.PhaseScoring
		return res, nil
	}

	g.CurrentTrick = domain.Trick{LeaderID: winner.UserID}
	return res, nil
}
