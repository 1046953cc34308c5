package domain

// WeakHandThreshold is the rank a hand must exceed somewhere to avoid being
// weak and eligible for a redeal request.
const WeakHandThreshold int32 = 9

// IsWeakHand reports whether no piece in the hand exceeds the threshold.
func IsWeakHand(hand []Piece, threshold int32) bool {
	for _, p := range hand {
		if p.Rank() > threshold {
			return false
		}
	}
	return true
}

// HandContains reports whether the hand holds every requested piece,
// counting duplicates.
func HandContains(hand []Piece, wanted []Piece) bool {
	counts := make(map[Piece]int, len(hand))
	for _, p := range hand {
		counts[p]++
	}
	for _, p := range wanted {
		if counts[p] == 0 {
			return false
		}
		counts[p]--
	}
	return true
}

// RemovePieces removes the given pieces from a hand, counting duplicates,
// and returns the updated hand.
func RemovePieces(hand []Piece, toRemove []Piece) []Piece {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Piece]int, len(toRemove))
	for _, p := range toRemove {
		removeCounts[p]++
	}

	updated := make([]Piece, 0, len(hand))
	for _, p := range hand {
		if n, ok := removeCounts[p]; ok && n > 0 {
			removeCounts[p] = n - 1
			continue
		}
		updated = append(updated, p)
	}
	return updated
}

// HandSizeSpread returns max(hand sizes) - min(hand sizes) across players.
// A spread above one mid-round means the state machine broke its own
// invariants and the session must halt.
func HandSizeSpread(players map[string]*Player) int {
	first := true
	minSize, maxSize := 0, 0
	for _, p := range players {
		n := len(p.Hand)
		if first {
			minSize, maxSize = n, n
			first = false
			continue
		}
		if n < minSize {
			minSize = n
		}
		if n > maxSize {
			maxSize = n
		}
	}
	return maxSize - minSize
}

// PieceConservation sums hand sizes plus the pieces already removed from
// hands by resolved tricks. For a dealt round this must equal DeckSize at
// every commit point.
func PieceConservation(players map[string]*Player, removedPieces int) int {
	total := removedPieces
	for _, p := range players {
		total += len(p.Hand)
	}
	return total
}
