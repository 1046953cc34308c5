package bot

import "liaptui/internal/domain"

// BalancedBrain is the default strategy: it aims its declaration at the
// number of strong pieces it holds, leads with long combinations to free up
// its hand, and only contests tricks it can win cheaply.
type BalancedBrain struct{}

func (b *BalancedBrain) DecideRedeal(g *domain.Game, p *domain.Player) bool {
	// A weak hand is worth redealing until the stakes get high.
	return g.Multiplier < 3
}

func (b *BalancedBrain) DecideDeclaration(g *domain.Game, p *domain.Player) int32 {
	var strong int32
	for _, piece := range p.Hand {
		if piece.Rank() > domain.WeakHandThreshold {
			strong++
		}
	}
	return legalizeDeclaration(g, p, strong)
}

func (b *BalancedBrain) DecidePlay(g *domain.Game, p *domain.Player) []domain.Piece {
	if len(g.CurrentTrick.Plays) == 0 {
		// Lead with the longest option; among equals, keep high pieces back.
		options := leadOptions(p.Hand)
		best := options[0]
		for _, opt := range options[1:] {
			if len(opt) > len(best) || (len(opt) == len(best) && domain.PlayValue(opt) < domain.PlayValue(best)) {
				best = opt
			}
		}
		return best
	}

	required := g.CurrentTrick.RequiredCount
	leaderType := g.CurrentTrick.Plays[0].Type
	toBeat := bestEligibleValue(g, leaderType)

	// Cheapest option that still takes the trick; otherwise shed the
	// lowest pieces.
	var winner []domain.Piece
	for _, opt := range followOptions(p.Hand, required, leaderType) {
		value := domain.PlayValue(opt)
		if value <= toBeat {
			continue
		}
		if winner == nil || value < domain.PlayValue(winner) {
			winner = opt
		}
	}
	if winner != nil {
		return winner
	}
	return lowestPieces(p.Hand, required)
}

// GreedyBrain chases piles: it overdeclares slightly and spends its
// strongest combinations to win every trick it can.
type GreedyBrain struct{}

func (b *GreedyBrain) DecideRedeal(g *domain.Game, p *domain.Player) bool {
	return g.Multiplier < 4
}

func (b *GreedyBrain) DecideDeclaration(g *domain.Game, p *domain.Player) int32 {
	var strong int32
	for _, piece := range p.Hand {
		if piece.Rank() > domain.WeakHandThreshold {
			strong++
		}
	}
	return legalizeDeclaration(g, p, strong+1)
}

func (b *GreedyBrain) DecidePlay(g *domain.Game, p *domain.Player) []domain.Piece {
	if len(g.CurrentTrick.Plays) == 0 {
		options := leadOptions(p.Hand)
		best := options[0]
		for _, opt := range options[1:] {
			if len(opt) > len(best) || (len(opt) == len(best) && domain.PlayValue(opt) > domain.PlayValue(best)) {
				best = opt
			}
		}
		return best
	}

	required := g.CurrentTrick.RequiredCount
	leaderType := g.CurrentTrick.Plays[0].Type
	toBeat := bestEligibleValue(g, leaderType)

	var winner []domain.Piece
	for _, opt := range followOptions(p.Hand, required, leaderType) {
		value := domain.PlayValue(opt)
		if value <= toBeat {
			continue
		}
		if winner == nil || value > domain.PlayValue(winner) {
			winner = opt
		}
	}
	if winner != nil {
		return winner
	}
	return lowestPieces(p.Hand, required)
}

// bestEligibleValue is the value to beat: the strongest committed play whose
// type matches the leader's.
func bestEligibleValue(g *domain.Game, leaderType domain.PlayType) int32 {
	var best int32
	for _, play := range g.CurrentTrick.Plays {
		if play.Type == leaderType && play.Value > best {
			best = play.Value
		}
	}
	return best
}

// legalizeDeclaration clamps the proposed target and walks outward to the
// nearest value the declaration rules accept.
func legalizeDeclaration(g *domain.Game, p *domain.Player, proposed int32) int32 {
	if proposed < 0 {
		proposed = 0
	}
	if proposed > 8 {
		proposed = 8
	}
	for delta := int32(0); delta <= 8; delta++ {
		for _, candidate := range []int32{proposed - delta, proposed + delta} {
			if isLegalDeclaration(g, p, candidate) {
				return candidate
			}
		}
	}
	return 1
}

func isLegalDeclaration(g *domain.Game, p *domain.Player, value int32) bool {
	if value < 0 || value > 8 {
		return false
	}
	if value == 0 && p.ZeroStreak >= 2 {
		return false
	}
	last := g.DeclareIndex == len(g.TurnOrder)-1
	if last && g.DeclarationTotal()+value == 8 {
		return false
	}
	return true
}
