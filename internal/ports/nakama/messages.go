package nakama

import "liaptui/internal/domain"

// Wire payloads are JSON. Server events reuse the engine event payloads
// directly; only client requests and lobby state need their own shapes.

// StartGameRequest is the OpStartGame payload. It is currently empty but
// unmarshalled anyway so client/server drift surfaces early.
type StartGameRequest struct{}

// RedealResponseRequest answers the pending redeal question.
type RedealResponseRequest struct {
	Accept bool `json:"accept"`
}

// DeclareRequest commits the sender's target pile count.
type DeclareRequest struct {
	Value int32 `json:"value"`
}

// PlayPiecesRequest commits the sender's pieces for the current trick.
type PlayPiecesRequest struct {
	Pieces []domain.Piece `json:"pieces"`
}

// LobbyPlayer is one occupied seat in the lobby broadcast.
type LobbyPlayer struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	IsOwner     bool   `json:"is_owner"`
	IsBot       bool   `json:"is_bot"`
	DisplayName string `json:"display_name"`
}

// LobbyState is broadcast on every seating change.
type LobbyState struct {
	Seats     []string      `json:"seats"`
	OwnerSeat int           `json:"owner_seat"`
	Tick      int64         `json:"tick"`
	InGame    bool          `json:"in_game"`
	Players   []LobbyPlayer `json:"players"`
}

// GameError is sent privately to the submitter of a rejected action.
type GameError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// MatchLabel is the JSON label indexed by Nakama's match listing.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"` // "lobby" or "playing"
}
