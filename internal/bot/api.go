package bot

import (
	"liaptui/internal/domain"
)

// Brain is the interface all bot strategies implement. Each method is asked
// for a decision in the matching phase and must return something the engine
// will accept; the engine never evaluates play quality, only legality.
type Brain interface {
	// DecideRedeal answers the pending weak-hand redeal question.
	DecideRedeal(g *domain.Game, p *domain.Player) bool
	// DecideDeclaration picks the round's target pile count.
	DecideDeclaration(g *domain.Game, p *domain.Player) int32
	// DecidePlay picks the pieces to commit to the current trick.
	DecidePlay(g *domain.Game, p *domain.Player) []domain.Piece
}
