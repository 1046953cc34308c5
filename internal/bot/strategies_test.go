package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liaptui/internal/domain"
)

func declarationGame(order ...string) *domain.Game {
	g := &domain.Game{
		Phase:     domain.PhaseDeclaration,
		TurnOrder: order,
		Players:   make(map[string]*domain.Player),
	}
	for i, id := range order {
		g.Players[id] = &domain.Player{UserID: id, Seat: i + 1, Declared: domain.NoDeclaration}
	}
	g.StarterID = order[0]
	return g
}

func TestLegalizeDeclarationAvoidsForbiddenTotal(t *testing.T) {
	g := declarationGame("a", "b", "c", "d")
	g.Players["a"].SetDeclaration(3)
	g.Players["b"].SetDeclaration(2)
	g.Players["c"].SetDeclaration(2)
	g.DeclareIndex = 3

	// Proposing 1 would bring the total to 8; the nearest legal value wins.
	got := legalizeDeclaration(g, g.Players["d"], 1)
	assert.NotEqual(t, int32(1), got)
	assert.True(t, isLegalDeclaration(g, g.Players["d"], got))
}

func TestLegalizeDeclarationRespectsZeroStreak(t *testing.T) {
	g := declarationGame("a", "b", "c", "d")
	p := g.Players["a"]
	p.ZeroStreak = 2

	got := legalizeDeclaration(g, p, 0)
	assert.Positive(t, got)
}

func TestLegalizeDeclarationClampsRange(t *testing.T) {
	g := declarationGame("a", "b", "c", "d")
	assert.EqualValues(t, 8, legalizeDeclaration(g, g.Players["a"], 12))
	assert.EqualValues(t, 0, legalizeDeclaration(g, g.Players["a"], -3))
}

func TestLeadOptionsFindCombinations(t *testing.T) {
	hand := []domain.Piece{
		{Kind: domain.Chariot, Color: domain.Red},
		{Kind: domain.Horse, Color: domain.Red},
		{Kind: domain.Cannon, Color: domain.Red},
		{Kind: domain.Soldier, Color: domain.Black},
	}

	options := leadOptions(hand)
	require.NotEmpty(t, options)

	foundStraight := false
	for _, opt := range options {
		if domain.Classify(opt) == domain.Straight {
			foundStraight = true
		}
		assert.NotEqual(t, domain.Invalid, domain.Classify(opt))
	}
	assert.True(t, foundStraight, "the red straight should be among the lead options")
}

func TestBalancedFollowPrefersCheapestWin(t *testing.T) {
	g := &domain.Game{
		Phase:     domain.PhaseTurn,
		TurnOrder: []string{"a", "b", "c", "d"},
		Players:   make(map[string]*domain.Player),
	}
	leaderPlay := domain.NewTurnPlay("a", []domain.Piece{{Kind: domain.Horse, Color: domain.Black}}, 0)
	g.CurrentTrick = domain.Trick{
		LeaderID:      "a",
		RequiredCount: 1,
		Plays:         []domain.TurnPlay{leaderPlay},
		TurnIndex:     1,
	}

	p := &domain.Player{UserID: "b", Hand: []domain.Piece{
		{Kind: domain.General, Color: domain.Red},  // 14, wins but expensive
		{Kind: domain.Chariot, Color: domain.Red},  // 8, cheapest winner
		{Kind: domain.Soldier, Color: domain.Black}, // 1, loses
	}}
	g.Players["b"] = p

	brain := &BalancedBrain{}
	pieces := brain.DecidePlay(g, p)
	require.Len(t, pieces, 1)
	assert.Equal(t, domain.Chariot, pieces[0].Kind)
}

func TestBalancedFollowDumpsLowestWhenUnwinnable(t *testing.T) {
	g := &domain.Game{
		Phase:     domain.PhaseTurn,
		TurnOrder: []string{"a", "b", "c", "d"},
		Players:   make(map[string]*domain.Player),
	}
	leaderPlay := domain.NewTurnPlay("a", []domain.Piece{
		{Kind: domain.Advisor, Color: domain.Red},
		{Kind: domain.Advisor, Color: domain.Red},
	}, 0)
	g.CurrentTrick = domain.Trick{
		LeaderID:      "a",
		RequiredCount: 2,
		Plays:         []domain.TurnPlay{leaderPlay},
		TurnIndex:     1,
	}

	p := &domain.Player{UserID: "b", Hand: []domain.Piece{
		{Kind: domain.General, Color: domain.Black},
		{Kind: domain.Soldier, Color: domain.Black},
		{Kind: domain.Soldier, Color: domain.Red},
	}}
	g.Players["b"] = p

	brain := &BalancedBrain{}
	pieces := brain.DecidePlay(g, p)
	require.Len(t, pieces, 2)
	// The general stays home; the two soldiers are shed.
	for _, piece := range pieces {
		assert.Equal(t, domain.Soldier, piece.Kind)
	}
}

func TestNewAgentFallsBackToBalanced(t *testing.T) {
	agent, err := NewAgent("bot-99")
	require.NoError(t, err)
	assert.IsType(t, &BalancedBrain{}, agent.Strategy)
	assert.True(t, IsBot("bot-99"))
	assert.False(t, IsBot("human-1"))
}
