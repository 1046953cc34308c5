package domain

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		pieces   []Piece
		expected PlayType
	}{
		{
			name:     "Single",
			pieces:   []Piece{{Kind: General, Color: Red}},
			expected: Single,
		},
		{
			name:     "Pair",
			pieces:   []Piece{{Kind: Advisor, Color: Red}, {Kind: Advisor, Color: Red}},
			expected: Pair,
		},
		{
			name:     "Mixed colors are not a pair",
			pieces:   []Piece{{Kind: Advisor, Color: Red}, {Kind: Advisor, Color: Black}},
			expected: Invalid,
		},
		{
			name:     "Three of a kind",
			pieces:   []Piece{{Kind: Soldier, Color: Black}, {Kind: Soldier, Color: Black}, {Kind: Soldier, Color: Black}},
			expected: ThreeOfAKind,
		},
		{
			name:     "Straight",
			pieces:   []Piece{{Kind: Chariot, Color: Red}, {Kind: Horse, Color: Red}, {Kind: Cannon, Color: Red}},
			expected: Straight,
		},
		{
			name:     "Mixed color straight is invalid",
			pieces:   []Piece{{Kind: Chariot, Color: Red}, {Kind: Horse, Color: Black}, {Kind: Cannon, Color: Red}},
			expected: Invalid,
		},
		{
			name:     "Four of a kind",
			pieces:   []Piece{{Kind: Soldier, Color: Red}, {Kind: Soldier, Color: Red}, {Kind: Soldier, Color: Red}, {Kind: Soldier, Color: Red}},
			expected: FourOfAKind,
		},
		{
			name: "Extended straight of four",
			pieces: []Piece{
				{Kind: Chariot, Color: Black}, {Kind: Chariot, Color: Black},
				{Kind: Horse, Color: Black}, {Kind: Cannon, Color: Black},
			},
			expected: ExtendedStraight,
		},
		{
			name: "Extended straight of five",
			pieces: []Piece{
				{Kind: Chariot, Color: Black}, {Kind: Chariot, Color: Black},
				{Kind: Horse, Color: Black}, {Kind: Horse, Color: Black},
				{Kind: Cannon, Color: Black},
			},
			expected: ExtendedStraight,
		},
		{
			name: "Four pieces missing a straight kind",
			pieces: []Piece{
				{Kind: Chariot, Color: Black}, {Kind: Chariot, Color: Black},
				{Kind: Horse, Color: Black}, {Kind: Horse, Color: Black},
			},
			expected: Invalid,
		},
		{
			name: "Five of a kind",
			pieces: []Piece{
				{Kind: Soldier, Color: Black}, {Kind: Soldier, Color: Black},
				{Kind: Soldier, Color: Black}, {Kind: Soldier, Color: Black},
				{Kind: Soldier, Color: Black},
			},
			expected: FiveOfAKind,
		},
		{
			name: "Double straight",
			pieces: []Piece{
				{Kind: Chariot, Color: Red}, {Kind: Chariot, Color: Red},
				{Kind: Horse, Color: Red}, {Kind: Horse, Color: Red},
				{Kind: Cannon, Color: Red}, {Kind: Cannon, Color: Red},
			},
			expected: DoubleStraight,
		},
		{
			name:     "Two unrelated pieces",
			pieces:   []Piece{{Kind: General, Color: Red}, {Kind: Soldier, Color: Black}},
			expected: Invalid,
		},
		{
			name:     "Empty play",
			pieces:   nil,
			expected: Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.pieces)
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPlayValue(t *testing.T) {
	pieces := []Piece{
		{Kind: Chariot, Color: Red}, // 8
		{Kind: Horse, Color: Red},   // 6
		{Kind: Cannon, Color: Red},  // 4
	}
	if got := PlayValue(pieces); got != 18 {
		t.Fatalf("PlayValue() = %d, want 18", got)
	}
}

func TestPieceRanks(t *testing.T) {
	highest := HighestPiece.Rank()
	if highest != 14 {
		t.Fatalf("red general rank = %d, want 14", highest)
	}
	lowest := Piece{Kind: Soldier, Color: Black}.Rank()
	if lowest != 1 {
		t.Fatalf("black soldier rank = %d, want 1", lowest)
	}
}
