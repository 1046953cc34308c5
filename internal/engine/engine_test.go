package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"liaptui/internal/domain"
)

func newTestCoordinator(t *testing.T, seed int64) *Coordinator {
	t.Helper()
	seats := []PlayerSeat{
		{UserID: "a", Seat: 1},
		{UserID: "b", Seat: 2},
		{UserID: "c", Seat: 3},
		{UserID: "d", Seat: 4},
	}
	c, err := NewCoordinator(seats, rand.New(rand.NewSource(seed)), 0)
	require.NoError(t, err)
	return c
}

// forcePhase rewires the aggregate into a known mid-game position so a test
// can exercise one handler without replaying the whole lifecycle.
func forcePhase(c *Coordinator, phase domain.Phase) *domain.Game {
	g := c.Game()
	g.Phase = phase
	g.StarterID = "a"
	g.DeclareIndex = 0
	for _, p := range g.Players {
		p.ResetRound()
	}
	return g
}

func stateEvents(events []Event) []Snapshot {
	var snaps []Snapshot
	for _, ev := range events {
		if ev.Kind == EventState {
			snaps = append(snaps, ev.Payload.(Snapshot))
		}
	}
	return snaps
}

func TestNewCoordinatorRequiresFourPlayers(t *testing.T) {
	_, err := NewCoordinator([]PlayerSeat{{UserID: "a"}}, nil, 0)
	require.ErrorIs(t, err, ErrNeedFourPlayers)
}

func TestBeginDealsHandsAndEmitsOneSnapshot(t *testing.T) {
	c := newTestCoordinator(t, 1)
	events := c.Begin()

	snaps := stateEvents(events)
	require.Len(t, snaps, 1, "exactly one public snapshot per commit")
	require.EqualValues(t, 1, snaps[0].Seq)

	dealt := 0
	for _, ev := range events {
		if ev.Kind == EventHandDealt {
			dealt++
			require.Len(t, ev.Recipients, 1, "hand deals are private")
			require.Len(t, ev.Payload.(HandDealtPayload).Hand, domain.HandSize)
		}
	}
	require.Equal(t, PlayerCount, dealt)

	g := c.Game()
	require.Equal(t, domain.DeckSize, domain.PieceConservation(g.Players, g.RemovedPieces))
	require.NotEmpty(t, g.StarterID)

	// Round 1 starter holds the unique highest piece, unless a weak-hand
	// negotiation is still pending.
	if g.Phase == domain.PhaseDeclaration {
		starter := g.Players[g.StarterID]
		require.True(t, domain.HandContains(starter.Hand, []domain.Piece{domain.HighestPiece}))
	}
}

func TestRedealNegotiation(t *testing.T) {
	c := newTestCoordinator(t, 2)
	c.Begin()
	g := forcePhase(c, domain.PhasePreparation)
	g.WeakDeciders = []string{"b", "c"}

	// Only the currently designated decider may answer.
	out := c.Submit(NewRedealResponse("c", true))
	require.False(t, out.Committed)
	require.Equal(t, RejectOutOfTurn, out.Rejection.Kind)

	// A decline advances the decider pointer.
	out = c.Submit(NewRedealResponse("b", false))
	require.True(t, out.Committed)
	require.Equal(t, []string{"c"}, g.WeakDeciders)
	require.EqualValues(t, 1, g.Multiplier)

	// Acceptance bumps the multiplier, makes the accepter starter and
	// rotates the turn order so the accepter leads.
	out = c.Submit(NewRedealRequest("c"))
	require.True(t, out.Committed)
	require.EqualValues(t, 2, g.Multiplier)
	require.Equal(t, "c", g.StarterID)
	require.Equal(t, []string{"c", "d", "a", "b"}, g.TurnOrder)
	for _, p := range g.Players {
		require.Len(t, p.Hand, domain.HandSize, "acceptance redeals every hand")
	}
}

func TestDeclarationRules(t *testing.T) {
	c := newTestCoordinator(t, 3)
	c.Begin()
	g := forcePhase(c, domain.PhaseDeclaration)

	// Out of turn: b may not declare before a.
	out := c.Submit(NewDeclare("b", 2))
	require.False(t, out.Committed)
	require.Equal(t, RejectOutOfTurn, out.Rejection.Kind)

	// Out of range.
	out = c.Submit(NewDeclare("a", 9))
	require.Equal(t, RejectBadValue, out.Rejection.Kind)

	require.True(t, c.Submit(NewDeclare("a", 3)).Committed)
	require.True(t, c.Submit(NewDeclare("b", 2)).Committed)
	require.True(t, c.Submit(NewDeclare("c", 2)).Committed)

	// The last declarer may not bring the total to exactly 8.
	out = c.Submit(NewDeclare("d", 1))
	require.False(t, out.Committed)
	require.Equal(t, RejectForbiddenTotal, out.Rejection.Kind)

	out = c.Submit(NewDeclare("d", 0))
	require.True(t, out.Committed)
	require.Equal(t, domain.PhaseTurn, g.Phase)
	require.EqualValues(t, 7, g.DeclarationTotal())
}

func TestForcedNonzeroDeclaration(t *testing.T) {
	c := newTestCoordinator(t, 4)
	c.Begin()
	g := forcePhase(c, domain.PhaseDeclaration)
	g.Players["a"].ZeroStreak = 2

	out := c.Submit(NewDeclare("a", 0))
	require.False(t, out.Committed)
	require.Equal(t, RejectForcedNonzero, out.Rejection.Kind)

	// A nonzero declaration is accepted and resets the streak.
	out = c.Submit(NewDeclare("a", 1))
	require.True(t, out.Committed)
	require.Zero(t, g.Players["a"].ZeroStreak)
}

// setTrickFixture gives each player a small known hand and opens a trick led
// by player a.
func setTrickFixture(g *domain.Game, hands map[string][]domain.Piece) {
	g.Phase = domain.PhaseTurn
	for id, hand := range hands {
		g.Players[id].Hand = hand
	}
	g.CurrentTrick = domain.Trick{LeaderID: "a"}
	g.RemovedPieces = domain.DeckSize
	for _, hand := range hands {
		g.RemovedPieces -= len(hand)
	}
}

func TestTrickCapturesPilesPerPieceOfWinningPlay(t *testing.T) {
	c := newTestCoordinator(t, 5)
	c.Begin()
	g := forcePhase(c, domain.PhaseTurn)

	blackStraight := []domain.Piece{
		{Kind: domain.Chariot, Color: domain.Black},
		{Kind: domain.Horse, Color: domain.Black},
		{Kind: domain.Cannon, Color: domain.Black},
	}
	redStraight := []domain.Piece{
		{Kind: domain.Chariot, Color: domain.Red},
		{Kind: domain.Horse, Color: domain.Red},
		{Kind: domain.Cannon, Color: domain.Red},
	}
	soldiers := []domain.Piece{
		{Kind: domain.Soldier, Color: domain.Red},
		{Kind: domain.Soldier, Color: domain.Red},
		{Kind: domain.Soldier, Color: domain.Red},
	}
	scattered := []domain.Piece{
		{Kind: domain.General, Color: domain.Red},
		{Kind: domain.Advisor, Color: domain.Red},
		{Kind: domain.Elephant, Color: domain.Red},
	}
	filler := domain.Piece{Kind: domain.Soldier, Color: domain.Black}

	setTrickFixture(g, map[string][]domain.Piece{
		"a": append(append([]domain.Piece(nil), blackStraight...), filler),
		"b": append(append([]domain.Piece(nil), soldiers...), filler),
		"c": append(append([]domain.Piece(nil), scattered...), filler),
		"d": append(append([]domain.Piece(nil), redStraight...), filler),
	})

	require.True(t, c.Submit(NewPlayPieces("a", blackStraight)).Committed)
	require.True(t, c.Submit(NewPlayPieces("b", soldiers)).Committed)
	require.True(t, c.Submit(NewPlayPieces("c", scattered)).Committed)
	out := c.Submit(NewPlayPieces("d", redStraight))
	require.True(t, out.Committed)

	// The 3-piece straight with the higher value wins and captures 3 piles,
	// not a flat 1.
	require.EqualValues(t, 3, g.Players["d"].Captured)
	require.Equal(t, "d", g.LastTrickWinner)
	require.Equal(t, "d", g.CurrentTrick.LeaderID)
	require.Zero(t, g.CurrentTrick.RequiredCount, "required count resets for the next trick")
	require.Equal(t, domain.DeckSize, domain.PieceConservation(g.Players, g.RemovedPieces))
}

func TestTurnValidation(t *testing.T) {
	c := newTestCoordinator(t, 6)
	c.Begin()
	g := forcePhase(c, domain.PhaseTurn)

	pair := []domain.Piece{
		{Kind: domain.Advisor, Color: domain.Red},
		{Kind: domain.Advisor, Color: domain.Red},
	}
	setTrickFixture(g, map[string][]domain.Piece{
		"a": pair,
		"b": {{Kind: domain.Soldier, Color: domain.Red}, {Kind: domain.Soldier, Color: domain.Red}},
		"c": {{Kind: domain.Horse, Color: domain.Black}, {Kind: domain.Cannon, Color: domain.Black}},
		"d": {{Kind: domain.General, Color: domain.Black}, {Kind: domain.Elephant, Color: domain.Red}},
	})

	// Leading play must classify to a recognized type.
	out := c.Submit(NewPlayPieces("a", []domain.Piece{
		{Kind: domain.Advisor, Color: domain.Red},
		{Kind: domain.Soldier, Color: domain.Red},
	}))
	require.False(t, out.Committed)
	require.Equal(t, RejectUnownedPiece, out.Rejection.Kind)

	out = c.Submit(NewPlayPieces("a", []domain.Piece{}))
	require.Equal(t, RejectWrongCount, out.Rejection.Kind)

	require.True(t, c.Submit(NewPlayPieces("a", pair)).Committed)

	// Follower must match the required count; a corrected resubmission
	// then succeeds with no side effects from the rejected attempt.
	out = c.Submit(NewPlayPieces("b", []domain.Piece{{Kind: domain.Soldier, Color: domain.Red}}))
	require.False(t, out.Committed)
	require.Equal(t, RejectWrongCount, out.Rejection.Kind)
	require.Len(t, g.Players["b"].Hand, 2)

	out = c.Submit(NewPlayPieces("b", []domain.Piece{
		{Kind: domain.Soldier, Color: domain.Red},
		{Kind: domain.Soldier, Color: domain.Red},
	}))
	require.True(t, out.Committed)

	// Out of turn: d plays before c.
	out = c.Submit(NewPlayPieces("d", []domain.Piece{
		{Kind: domain.General, Color: domain.Black},
		{Kind: domain.Elephant, Color: domain.Red},
	}))
	require.Equal(t, RejectOutOfTurn, out.Rejection.Kind)
}

func TestLeadingInvalidCombinationRejected(t *testing.T) {
	c := newTestCoordinator(t, 7)
	c.Begin()
	g := forcePhase(c, domain.PhaseTurn)

	hand := []domain.Piece{
		{Kind: domain.Advisor, Color: domain.Red},
		{Kind: domain.Soldier, Color: domain.Red},
	}
	setTrickFixture(g, map[string][]domain.Piece{
		"a": hand,
		"b": {{Kind: domain.Soldier, Color: domain.Black}, {Kind: domain.Soldier, Color: domain.Black}},
		"c": {{Kind: domain.Horse, Color: domain.Black}, {Kind: domain.Cannon, Color: domain.Black}},
		"d": {{Kind: domain.General, Color: domain.Black}, {Kind: domain.Elephant, Color: domain.Red}},
	})

	out := c.Submit(NewPlayPieces("a", hand))
	require.False(t, out.Committed)
	require.Equal(t, RejectInvalidPlay, out.Rejection.Kind)
	require.Len(t, g.Players["a"].Hand, 2, "rejection leaves the hand untouched")
}

func TestHandSizeDivergenceHaltsSession(t *testing.T) {
	c := newTestCoordinator(t, 8)
	c.Begin()
	g := forcePhase(c, domain.PhaseTurn)

	single := func(k domain.Kind, col domain.Color) []domain.Piece {
		return []domain.Piece{{Kind: k, Color: col}}
	}
	// d holds three extra pieces, so resolving the trick leaves the hand
	// sizes diverged beyond tolerance.
	setTrickFixture(g, map[string][]domain.Piece{
		"a": single(domain.Horse, domain.Black),
		"b": single(domain.Soldier, domain.Black),
		"c": single(domain.Soldier, domain.Red),
		"d": {
			{Kind: domain.General, Color: domain.Black},
			{Kind: domain.Advisor, Color: domain.Black},
			{Kind: domain.Elephant, Color: domain.Black},
			{Kind: domain.Chariot, Color: domain.Black},
		},
	})

	require.True(t, c.Submit(NewPlayPieces("a", single(domain.Horse, domain.Black))).Committed)
	require.True(t, c.Submit(NewPlayPieces("b", single(domain.Soldier, domain.Black))).Committed)
	require.True(t, c.Submit(NewPlayPieces("c", single(domain.Soldier, domain.Red))).Committed)

	out := c.Submit(NewPlayPieces("d", single(domain.General, domain.Black)))
	require.True(t, out.Halted)
	require.Len(t, out.Events, 1)
	require.Equal(t, EventCriticalError, out.Events[0].Kind)
	require.Empty(t, stateEvents(out.Events), "no state broadcast after the critical error")

	// The halted state is terminal: every further action is refused.
	out = c.Submit(NewPlayPieces("d", single(domain.Advisor, domain.Black)))
	require.False(t, out.Committed)
	require.Equal(t, RejectHalted, out.Rejection.Kind)
}

// playLastTrick drives a final one-piece trick so the round rolls into
// scoring. Player a holds the strongest piece and wins.
func playLastTrick(t *testing.T, c *Coordinator, g *domain.Game) {
	t.Helper()
	setTrickFixture(g, map[string][]domain.Piece{
		"a": {{Kind: domain.General, Color: domain.Red}},
		"b": {{Kind: domain.Soldier, Color: domain.Black}},
		"c": {{Kind: domain.Soldier, Color: domain.Red}},
		"d": {{Kind: domain.Horse, Color: domain.Black}},
	})
	for _, id := range []string{"a", "b", "c", "d"} {
		out := c.Submit(NewPlayPieces(id, g.Players[id].Hand))
		require.True(t, out.Committed)
	}
}

func TestScoringRollsOverIntoNextRound(t *testing.T) {
	c := newTestCoordinator(t, 9)
	c.Begin()
	g := forcePhase(c, domain.PhaseTurn)

	g.Players["a"].SetDeclaration(1)
	g.Players["b"].SetDeclaration(0)
	g.Players["c"].SetDeclaration(3)
	g.Players["d"].SetDeclaration(2)
	g.Multiplier = 2
	g.RoundNumber = 4

	playLastTrick(t, c, g)

	// a: declared 1, captured 1 -> (1+5)*2 = 12; b: 0/0 -> 3*2 = 6;
	// c: 3/0 -> -3*2 = -6; d: 2/0 -> -2*2 = -4.
	require.EqualValues(t, 12, g.Players["a"].Score)
	require.EqualValues(t, 6, g.Players["b"].Score)
	require.EqualValues(t, -6, g.Players["c"].Score)
	require.EqualValues(t, -4, g.Players["d"].Score)

	require.Equal(t, 5, g.RoundNumber)
	require.EqualValues(t, 1, g.Multiplier, "multiplier resets at the round boundary")
	require.Equal(t, "a", g.StarterID, "final-trick winner starts the next round")
	for _, p := range g.Players {
		require.Len(t, p.Hand, domain.HandSize, "next round is dealt immediately")
		require.Equal(t, domain.NoDeclaration, p.Declared)
		require.Zero(t, p.Captured)
	}
}

func TestScoringCompletesGameAtWinScore(t *testing.T) {
	c := newTestCoordinator(t, 10)
	c.Begin()
	g := forcePhase(c, domain.PhaseTurn)

	g.Players["a"].SetDeclaration(1)
	g.Players["b"].SetDeclaration(0)
	g.Players["c"].SetDeclaration(1)
	g.Players["d"].SetDeclaration(1)
	g.Players["a"].Score = 46 // +6 -> 52

	playLastTrick(t, c, g)

	require.Equal(t, domain.PhaseEnded, g.Phase)
	require.Equal(t, []string{"a"}, g.Winners)

	out := c.Submit(NewDeclare("a", 1))
	require.False(t, out.Committed)
	require.Equal(t, RejectWrongPhase, out.Rejection.Kind)
}

func TestSnapshotSequenceIsMonotonic(t *testing.T) {
	c := newTestCoordinator(t, 11)
	c.Begin()
	g := forcePhase(c, domain.PhaseDeclaration)
	require.EqualValues(t, 1, c.Seq())

	var last uint64 = 1
	for i, id := range []string{"a", "b", "c", "d"} {
		out := c.Submit(NewDeclare(id, int32(i)))
		require.True(t, out.Committed)
		snaps := stateEvents(out.Events)
		require.Len(t, snaps, 1)
		require.Equal(t, last+1, snaps[0].Seq)
		require.NotEmpty(t, snaps[0].Reason)
		last = snaps[0].Seq
	}
	_ = g
}
