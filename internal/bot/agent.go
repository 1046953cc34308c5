package bot

import (
	"fmt"

	"liaptui/internal/domain"
	"liaptui/internal/engine"
)

// Agent represents an autonomous bot player. It is offered the current game
// state and produces one syntactically valid action of the kind the phase
// accepts.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Act asks the agent for its action in the current phase. It is only called
// when the game is waiting on this agent; calling it at any other moment is
// a host bug.
func (a *Agent) Act(g *domain.Game) (engine.Action, error) {
	player, ok := g.Players[a.ID]
	if !ok {
		return engine.Action{}, fmt.Errorf("agent %s is not part of this game", a.ID)
	}

	switch g.Phase {
	case domain.PhasePreparation:
		accept := a.Strategy.DecideRedeal(g, player)
		return engine.NewRedealResponse(a.ID, accept), nil
	case domain.PhaseDeclaration:
		value := a.Strategy.DecideDeclaration(g, player)
		return engine.NewDeclare(a.ID, value), nil
	case domain.PhaseTurn:
		pieces := a.Strategy.DecidePlay(g, player)
		return engine.NewPlayPieces(a.ID, pieces), nil
	default:
		return engine.Action{}, fmt.Errorf("no action is expected in phase %s", g.Phase)
	}
}

// AwaitedBot returns the bot player the game is currently waiting on, if any.
func AwaitedBot(g *domain.Game) (string, bool) {
	if g.Halted || g.Phase == domain.PhaseEnded {
		return "", false
	}
	var waiting string
	switch g.Phase {
	case domain.PhasePreparation:
		if len(g.WeakDeciders) == 0 {
			return "", false
		}
		waiting = g.WeakDeciders[0]
	case domain.PhaseDeclaration:
		waiting = g.CurrentDeclarer().UserID
	case domain.PhaseTurn:
		waiting = g.CurrentTurnPlayer().UserID
	default:
		return "", false
	}
	if p, ok := g.Players[waiting]; ok && p.IsBot {
		return waiting, true
	}
	return "", false
}
