package domain

// PlayType is the structural classification of a committed set of pieces.
// Only plays matching the leader's type are eligible to win a trick.
type PlayType int32

const (
	Invalid PlayType = iota
	Single
	Pair
	ThreeOfAKind
	Straight // chariot + horse + cannon, one each, same color
	FourOfAKind
	ExtendedStraight // 4 or 5 same-color pieces covering chariot, horse and cannon
	FiveOfAKind
	DoubleStraight // a pair each of chariot, horse and cannon, same color
)

var playTypeNames = map[PlayType]string{
	Invalid:          "invalid",
	Single:           "single",
	Pair:             "pair",
	ThreeOfAKind:     "three of a kind",
	Straight:         "straight",
	FourOfAKind:      "four of a kind",
	ExtendedStraight: "extended straight",
	FiveOfAKind:      "five of a kind",
	DoubleStraight:   "double straight",
}

func (t PlayType) String() string {
	if name, ok := playTypeNames[t]; ok {
		return name
	}
	return "invalid"
}

// MaxLeadCount is the largest piece count a trick leader may open with.
const MaxLeadCount = 6

// Classify returns the play type of the given pieces, or Invalid when they
// form no recognized combination.
func Classify(pieces []Piece) PlayType {
	switch len(pieces) {
	case 1:
		return Single
	case 2:
		if pieces[0] == pieces[1] {
			return Pair
		}
	case 3:
		if allSoldiers(pieces) && sameColor(pieces) {
			return ThreeOfAKind
		}
		if isStraight(pieces) {
			return Straight
		}
	case 4:
		if allSoldiers(pieces) && sameColor(pieces) {
			return FourOfAKind
		}
		if isExtendedStraight(pieces) {
			return ExtendedStraight
		}
	case 5:
		if allSoldiers(pieces) && sameColor(pieces) {
			return FiveOfAKind
		}
		if isExtendedStraight(pieces) {
			return ExtendedStraight
		}
	case 6:
		if isDoubleStraight(pieces) {
			return DoubleStraight
		}
	}
	return Invalid
}

// PlayValue is the aggregate strength of a play: the sum of piece ranks.
func PlayValue(pieces []Piece) int32 {
	var sum int32
	for _, p := range pieces {
		sum += p.Rank()
	}
	return sum
}

// NewTurnPlay builds the derived play record for a committed set of pieces.
func NewTurnPlay(userID string, pieces []Piece, position int) TurnPlay {
	return TurnPlay{
		UserID:   userID,
		Pieces:   pieces,
		Type:     Classify(pieces),
		Value:    PlayValue(pieces),
		Position: position,
	}
}

func sameColor(pieces []Piece) bool {
	for _, p := range pieces[1:] {
		if p.Color != pieces[0].Color {
			return false
		}
	}
	return true
}

func allSoldiers(pieces []Piece) bool {
	for _, p := range pieces {
		if p.Kind != Soldier {
			return false
		}
	}
	return true
}

// straightKinds are the kinds a straight is built from.
var straightKinds = [3]Kind{Chariot, Horse, Cannon}

// straightCounts tallies chariot/horse/cannon pieces, or reports false if any
// piece is outside the straight kinds or colors are mixed.
func straightCounts(pieces []Piece) ([3]int, bool) {
	var counts [3]int
	if !sameColor(pieces) {
		return counts, false
	}
	for _, p := range pieces {
		matched := false
		for i, k := range straightKinds {
			if p.Kind == k {
				counts[i]++
				matched = true
				break
			}
		}
		if !matched {
			return counts, false
		}
	}
	return counts, true
}

func isStraight(pieces []Piece) bool {
	counts, ok := straightCounts(pieces)
	return ok && counts == [3]int{1, 1, 1}
}

// isExtendedStraight accepts 4 or 5 same-color pieces covering all three
// straight kinds. The deck holds two of each, so counts never exceed 2.
func isExtendedStraight(pieces []Piece) bool {
	counts, ok := straightCounts(pieces)
	if !ok {
		return false
	}
	for _, n := range counts {
		if n < 1 || n > 2 {
			return false
		}
	}
	return true
}

func isDoubleStraight(pieces []Piece) bool {
	counts, ok := straightCounts(pieces)
	return ok && counts == [3]int{2, 2, 2}
}
