package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameLiapTui is the authoritative match handler name registered with Nakama.
	MatchNameLiapTui = "liaptui_match"

	// MatchLabelKey_OpenSeats is the label key clients query for open seats.
	MatchLabelKey_OpenSeats = "open"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpRedealRequest  int64 = 2
	OpRedealResponse int64 = 3
	OpDeclare        int64 = 4
	OpPlayPieces     int64 = 5

	// Server -> Client events
	OpLobbyState    int64 = 101
	OpStateSnapshot int64 = 102
	OpHandDealt     int64 = 103 // send privately
	OpGameError     int64 = 104
	OpCriticalError int64 = 105
)
