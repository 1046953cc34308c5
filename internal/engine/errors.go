package engine

import (
	"errors"
	"fmt"
)

// RejectKind classifies a validation rejection so clients can react without
// parsing the detail string.
type RejectKind string

const (
	RejectHalted         RejectKind = "session_halted"
	RejectWrongPhase     RejectKind = "wrong_phase"
	RejectUnknownPlayer  RejectKind = "unknown_player"
	RejectOutOfTurn      RejectKind = "out_of_turn"
	RejectBadValue       RejectKind = "bad_value"
	RejectForbiddenTotal RejectKind = "forbidden_total"
	RejectForcedNonzero  RejectKind = "forced_nonzero"
	RejectWrongCount     RejectKind = "wrong_piece_count"
	RejectUnownedPiece   RejectKind = "unowned_piece"
	RejectInvalidPlay    RejectKind = "invalid_play"
)

// Rejection is a recoverable validation failure: the action is refused, no
// state changed, and the submitter may correct and resubmit.
type Rejection struct {
	Kind   RejectKind
	Detail string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Detail)
}

func rejectf(kind RejectKind, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps a rejection from an error, if present.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// FatalError marks an unrecoverable consistency violation. It is never
// retried; the session halts and refuses all further actions.
type FatalError struct {
	Detail string
}

func (e *FatalError) Error() string {
	return "fatal consistency violation: " + e.Detail
}

func fatalf(format string, args ...any) *FatalError {
	return &FatalError{Detail: fmt.Sprintf(format, args...)}
}
