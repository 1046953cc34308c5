package domain

// ResolveTrick picks the winning play of a completed trick. Only plays whose
// type matches the leader's type are eligible; the highest play value wins,
// with ties broken by the earliest position in trick order. The leader always
// classifies to a legal type, so a winner always exists.
func ResolveTrick(plays []TurnPlay) TurnPlay {
	leaderType := plays[0].Type
	winner := plays[0]
	for _, play := range plays[1:] {
		if play.Type != leaderType {
			continue
		}
		if play.Value > winner.Value {
			winner = play
		}
	}
	return winner
}

// PilesForPlay is the number of piles a winning play captures: one per piece
// in the play, not a flat one per trick.
func PilesForPlay(play TurnPlay) int32 {
	return int32(len(play.Pieces))
}
