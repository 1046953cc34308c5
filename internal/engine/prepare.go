package engine

import (
	"fmt"
	"math/rand"

	"liaptui/internal/domain"
)

// prepareHandler deals pieces, detects weak hands and runs the sequential
// redeal negotiation among weak-hand holders in turn order.
type prepareHandler struct {
	rng *rand.Rand
}

func (h *prepareHandler) phase() domain.Phase { return domain.PhasePreparation }

func (h *prepareHandler) enter(g *domain.Game) stepResult {
	events := h.deal(g)

	// Round 1 has no carried-over starter: whoever was dealt the single
	// highest piece leads. Later rounds inherit the final-trick winner.
	if g.RoundNumber == 1 {
		g.StarterID = h.holderOf(g, domain.HighestPiece)
	}

	h.collectWeakDeciders(g)

	res := stepResult{
		events: events,
		reason: fmt.Sprintf("round %d dealt", g.RoundNumber),
	}
	if len(g.WeakDeciders) == 0 {
		res.done = true
		res.next = domain.PhaseDeclaration
	}
	return res
}

func (h *prepareHandler) handle(g *domain.Game, act Action) (stepResult, error) {
	if act.Kind != ActionRedealRequest && act.Kind != ActionRedealResponse {
		return stepResult{}, rejectf(RejectWrongPhase, "waiting for a redeal decision, not %s", act.Kind)
	}
	if _, ok := g.Players[act.Actor]; !ok {
		return stepResult{}, rejectf(RejectUnknownPlayer, "player %s is not in this game", act.Actor)
	}
	if len(g.WeakDeciders) == 0 || g.WeakDeciders[0] != act.Actor {
		return stepResult{}, rejectf(RejectOutOfTurn, "no redeal decision is pending for you")
	}

	if !act.Accept {
		g.WeakDeciders = g.WeakDeciders[1:]
		res := stepResult{reason: fmt.Sprintf("%s declined a redeal", act.Actor)}
		if len(g.WeakDeciders) == 0 {
			res.done = true
			res.next = domain.PhaseDeclaration
		}
		return res, nil
	}

	// Acceptance reshuffles everyone, bumps the multiplier and makes the
	// accepter lead: A,B,C,D with C accepting becomes C,D,A,B. Fresh hands
	// restart weak-hand detection; there is no cycle limit.
	g.Multiplier++
	g.StarterID = act.Actor
	g.RotateOrderTo(act.Actor)
	events := h.deal(g)
	h.collectWeakDeciders(g)

	res := stepResult{
		events: events,
		reason: fmt.Sprintf("%s accepted a redeal; multiplier is now %d", act.Actor, g.Multiplier),
	}
	if len(g.WeakDeciders) == 0 {
		res.done = true
		res.next = domain.PhaseDeclaration
	}
	return res, nil
}

// deal shuffles the full deck and hands out 8 pieces per player, emitting a
// private hand event for each.
func (h *prepareHandler) deal(g *domain.Game) []Event {
	deck := domain.ShuffleDeck(domain.NewDeck(), h.rng)

	events := make([]Event, 0, len(g.TurnOrder))
	offset := 0
	for _, id := range g.TurnOrder {
		p := g.Players[id]
		p.Hand = append([]domain.Piece(nil), deck[offset:offset+domain.HandSize]...)
		domain.SortHand(p.Hand)
		offset += domain.HandSize

		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: id, Hand: p.Hand},
			Recipients: []string{id},
		})
	}
	g.RemovedPieces = 0
	return events
}

func (h *prepareHandler) holderOf(g *domain.Game, piece domain.Piece) string {
	for _, id := range g.TurnOrder {
		if domain.HandContains(g.Players[id].Hand, []domain.Piece{piece}) {
			return id
		}
	}
	return g.TurnOrder[0]
}

// collectWeakDeciders queues weak-hand holders in turn order from the starter.
func (h *prepareHandler) collectWeakDeciders(g *domain.Game) {
	g.WeakDeciders = nil
	start := g.OrderIndex(g.StarterID)
	for i := range g.TurnOrder {
		p := g.PlayerAt(start + i)
		if domain.IsWeakHand(p.Hand, domain.WeakHandThreshold) {
			g.WeakDeciders = append(g.WeakDeciders, p.UserID)
		}
	}
}
