package bot

import "liaptui/internal/domain"

// Hands hold at most 8 pieces, so exhaustive subset enumeration stays under
// 256 candidates and beats special-casing each play type.

// leadOptions returns every legal leading combination in the hand.
func leadOptions(hand []domain.Piece) [][]domain.Piece {
	var options [][]domain.Piece
	maxSize := domain.MaxLeadCount
	if len(hand) < maxSize {
		maxSize = len(hand)
	}
	for size := 1; size <= maxSize; size++ {
		for _, subset := range subsetsOfSize(hand, size) {
			if domain.Classify(subset) != domain.Invalid {
				options = append(options, subset)
			}
		}
	}
	return options
}

// followOptions returns the subsets of the given size that classify to the
// wanted type, i.e. the follows that are eligible to win the trick.
func followOptions(hand []domain.Piece, size int, want domain.PlayType) [][]domain.Piece {
	var options [][]domain.Piece
	for _, subset := range subsetsOfSize(hand, size) {
		if domain.Classify(subset) == want {
			options = append(options, subset)
		}
	}
	return options
}

// lowestPieces returns the n lowest-ranked pieces of the hand. Hands are
// kept sorted by descending rank, so these are the tail.
func lowestPieces(hand []domain.Piece, n int) []domain.Piece {
	sorted := append([]domain.Piece(nil), hand...)
	domain.SortHand(sorted)
	return sorted[len(sorted)-n:]
}

func subsetsOfSize(hand []domain.Piece, size int) [][]domain.Piece {
	var result [][]domain.Piece
	subset := make([]domain.Piece, 0, size)

	var walk func(start int)
	walk = func(start int) {
		if len(subset) == size {
			result = append(result, append([]domain.Piece(nil), subset...))
			return
		}
		// Not enough pieces left to finish the subset.
		if len(hand)-start < size-len(subset) {
			return
		}
		for i := start; i < len(hand); i++ {
			subset = append(subset, hand[i])
			walk(i + 1)
			subset = subset[:len(subset)-1]
		}
	}
	walk(0)
	return result
}
