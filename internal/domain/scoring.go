package domain

// BaseScore computes the round score for one player before the redeal
// multiplier is applied.
func BaseScore(declared, captured int32) int32 {
	switch {
	case declared == 0 && captured == 0:
		return 3
	case declared == 0:
		return -captured
	case declared == captured:
		return declared + 5
	default:
		return -abs(declared - captured)
	}
}

// RoundScore applies the redeal multiplier to the base score.
func RoundScore(declared, captured, multiplier int32) int32 {
	return BaseScore(declared, captured) * multiplier
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
