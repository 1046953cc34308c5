package domain

import (
	"math/rand"
	"sort"
)

// DeckSize is the fixed number of pieces in play: 4 players x 8 pieces.
const DeckSize = 32

// HandSize is the number of pieces dealt to each player every round.
const HandSize = 8

// kindCounts is the per-color multiset of the deck.
var kindCounts = [7]int{
	Soldier:  5,
	Cannon:   2,
	Horse:    2,
	Chariot:  2,
	Elephant: 2,
	Advisor:  2,
	General:  1,
}

// NewDeck returns the ordered 32-piece deck.
func NewDeck() []Piece {
	deck := make([]Piece, 0, DeckSize)
	for _, color := range []Color{Black, Red} {
		for kind, n := range kindCounts {
			for i := 0; i < n; i++ {
				deck = append(deck, Piece{Kind: Kind(kind), Color: color})
			}
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Piece, rng *rand.Rand) []Piece {
	out := make([]Piece, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortHand orders a hand by descending rank.
func SortHand(pieces []Piece) {
	sort.Slice(pieces, func(i, j int) bool {
		return pieces[i].Rank() > pieces[j].Rank()
	})
}
