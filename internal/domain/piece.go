package domain

import "fmt"

// Color is the side a piece belongs to.
type Color int32

const (
	Black Color = iota
	Red
)

// Kind is the piece family. Red and black variants of a kind carry
// different ranks.
type Kind int32

const (
	Soldier Kind = iota
	Cannon
	Horse
	Chariot
	Elephant
	Advisor
	General
)

// Piece is an immutable value identifying one physical piece. Identical
// pieces (same kind and color) are interchangeable; the deck holds a fixed
// known number of each.
type Piece struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
}

// rankTable maps [kind][color] to the piece rank. Ranks 1..14 totally order
// the piece set; the red general (14) is the unique highest piece.
var rankTable = [7][2]int32{
	Soldier:  {1, 2},
	Cannon:   {3, 4},
	Horse:    {5, 6},
	Chariot:  {7, 8},
	Elephant: {9, 10},
	Advisor:  {11, 12},
	General:  {13, 14},
}

// Rank returns the scoring rank of the piece.
func (p Piece) Rank() int32 {
	return rankTable[p.Kind][p.Color]
}

var kindNames = [7]string{"soldier", "cannon", "horse", "chariot", "elephant", "advisor", "general"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int32(k))
	}
	return kindNames[k]
}

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

func (p Piece) String() string {
	return p.Color.String() + " " + p.Kind.String()
}

// HighestPiece is the unique top of the rank order; whoever is dealt it
// starts the first round.
var HighestPiece = Piece{Kind: General, Color: Red}
