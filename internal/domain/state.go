package domain

// Phase represents the lifecycle stage of a round.
type Phase string

const (
	// PhasePreparation deals hands and runs the weak-hand redeal negotiation.
	PhasePreparation Phase = "preparation"
	// PhaseDeclaration collects each player's target pile count in turn order.
	PhaseDeclaration Phase = "declaration"
	// PhaseTurn runs tricks until all hands are empty.
	PhaseTurn Phase = "turn"
	// PhaseScoring applies the round scores and decides game completion.
	PhaseScoring Phase = "scoring"
	// PhaseEnded indicates the game reached the winning score.
	PhaseEnded Phase = "ended"
)

// NoDeclaration marks a player who has not declared this round.
const NoDeclaration int32 = -1

// Player holds long-lived state for a participant across rounds.
type Player struct {
	UserID      string
	Seat        int // 1-based seat number
	Hand        []Piece
	Declared    int32 // target pile count for the round, NoDeclaration until set
	Captured    int32 // piles captured this round
	Score       int32 // cumulative score across rounds
	IsBot       bool
	ZeroStreak  int // consecutive preceding rounds with a zero declaration
	hasDeclared bool
}

// HasDeclared reports whether the player committed a declaration this round.
func (p *Player) HasDeclared() bool { return p.hasDeclared }

// SetDeclaration records the round declaration and maintains the two-round
// zero-declaration memory that drives the forced-nonzero rule.
func (p *Player) SetDeclaration(value int32) {
	p.Declared = value
	p.hasDeclared = true
	if value == 0 {
		p.ZeroStreak++
	} else {
		p.ZeroStreak = 0
	}
}

// ResetRound clears per-round player state. The zero-declaration streak
// survives round boundaries on purpose.
func (p *Player) ResetRound() {
	p.Hand = nil
	p.Declared = NoDeclaration
	p.Captured = 0
	p.hasDeclared = false
}

// TurnPlay is the ordered set of pieces one player committed to the
// in-progress trick, with its computed classification.
type TurnPlay struct {
	UserID   string
	Pieces   []Piece
	Type     PlayType
	Value    int32 // sum of ranks
	Position int   // index in trick order, used for tie breaks
}

// Trick tracks the state of one in-progress trick.
type Trick struct {
	LeaderID      string
	RequiredCount int // 0 until the leader plays
	Plays         []TurnPlay
	TurnIndex     int // offset from the leader within the turn order
}

// Game is the per-session aggregate. It is mutated only by the active phase
// handler, reached through the coordinator.
type Game struct {
	Phase       Phase
	RoundNumber int

	Players   map[string]*Player
	TurnOrder []string // rotation of the four players; mutated by redeal acceptance

	// StarterID leads the round: highest-piece holder in round 1, previous
	// final-trick winner afterwards, or the accepter of a redeal.
	StarterID  string
	Multiplier int32 // redeal multiplier, reset to 1 at round boundary

	// Preparation state: weak-hand holders still owed a redeal decision.
	WeakDeciders []string

	// Declaration state: offset from the starter within the turn order.
	DeclareIndex int

	// Turn state.
	CurrentTrick    Trick
	LastTrickWinner string
	RemovedPieces   int // pieces moved out of hands by resolved tricks this round

	// Terminal states.
	Halted  bool     // fatal consistency violation; no further actions accepted
	Winners []string // non-empty once the game completes
}

// PlayerAt returns the player occupying the given turn-order index.
func (g *Game) PlayerAt(index int) *Player {
	return g.Players[g.TurnOrder[index%len(g.TurnOrder)]]
}

// OrderIndex returns the turn-order position of a player, or -1.
func (g *Game) OrderIndex(userID string) int {
	for i, id := range g.TurnOrder {
		if id == userID {
			return i
		}
	}
	return -1
}

// RotateOrderTo rotates the turn order so the given player leads,
// e.g. A,B,C,D rotated to C becomes C,D,A,B.
func (g *Game) RotateOrderTo(userID string) {
	idx := g.OrderIndex(userID)
	if idx <= 0 {
		return
	}
	rotated := make([]string, 0, len(g.TurnOrder))
	rotated = append(rotated, g.TurnOrder[idx:]...)
	rotated = append(rotated, g.TurnOrder[:idx]...)
	g.TurnOrder = rotated
}

// CurrentTurnPlayer returns the player expected to act in the current trick.
func (g *Game) CurrentTurnPlayer() *Player {
	start := g.OrderIndex(g.CurrentTrick.LeaderID)
	return g.PlayerAt(start + g.CurrentTrick.TurnIndex)
}

// CurrentDeclarer returns the player expected to declare next.
func (g *Game) CurrentDeclarer() *Player {
	start := g.OrderIndex(g.StarterID)
	return g.PlayerAt(start + g.DeclareIndex)
}

// DeclarationTotal sums the declarations committed so far this round.
func (g *Game) DeclarationTotal() int32 {
	var total int32
	for _, p := range g.Players {
		if p.HasDeclared() {
			total += p.Declared
		}
	}
	return total
}

// HandsEmpty reports whether every hand has been played out.
func (g *Game) HandsEmpty() bool {
	for _, p := range g.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}
