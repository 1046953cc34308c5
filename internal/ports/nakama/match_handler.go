package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"liaptui/internal/bot"
	"liaptui/internal/config"
	"liaptui/internal/domain"
	"liaptui/internal/engine"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats       [4]string                   `json:"seats"`        // Array of user IDs, empty string means seat is empty
	OwnerSeat   int                         `json:"owner_seat"`   // Seat index of the match owner
	LastWinners []string                    `json:"last_winners"` // Winners of the last completed game
	Tick        int64                       `json:"tick"`         // Current tick of the match for turn-based logic
	Presences   map[string]runtime.Presence `json:"-"`            // Map UserId -> Presence for targeted messaging
	Coordinator *engine.Coordinator         `json:"-"`            // Active game session (nil if in lobby)

	BotsEnabled          bool                  `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int                   `json:"bot_min_delay"`           // Min seconds a bot waits
	BotMaxDelay          int                   `json:"bot_max_delay"`           // Max seconds a bot waits
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`     // Seconds to wait before auto-filling with bots
	BotWaitUntil         int64                 `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"` // Tick when a single player started waiting
	Bots                 map[string]*bot.Agent `json:"-"`                       // Active bot agents

	rng *rand.Rand
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	// Load bot identities from data folder
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	// Load game configuration
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Tick:      time.Now().Unix(),
		OwnerSeat: -1,
		Presences: make(map[string]runtime.Presence),
		Bots:      make(map[string]*bot.Agent),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	// Read environment variables for bot configuration
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["liaptui_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["liaptui_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["liaptui_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["liaptui_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	// Defaults if not set
	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = config.GetBotAutoFillDelaySeconds()
	}

	// Initial match label: 4 open seats, lobby state
	labelBytes, err := json.Marshal(&MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "liaptui",
		Phase: "lobby",
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace (if game hasn't started)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Coordinator == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Assign seat: Try empty seats first, then bots (if lobby)
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.Coordinator == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	ownerLeft := false
	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)

				if matchState.OwnerSeat == i {
					ownerLeft = true
				}
				break
			}
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		} else if ownerLeft {
			logger.Debug("MatchLeave: Owner left and no human owner is available.")
		}
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpRedealRequest, OpRedealResponse:
			mh.handleRedeal(ctx, matchState, dispatcher, logger, msg)
		case OpDeclare:
			mh.handleDeclare(ctx, matchState, dispatcher, logger, msg)
		case OpPlayPieces:
			mh.handlePlayPieces(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill lobby with bots if there's only one human player after delay
	if state.Coordinator == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				if mh.fillEmptySeatsWithBots(state, logger) {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastLobbyState(state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game
	botID, waiting := bot.AwaitedBot(state.Coordinator.Game())
	if !waiting {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.rng.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", botID, state.BotWaitUntil, state.Tick)
		return
	}

	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[botID]
	if !exists {
		var err error
		agent, err = bot.NewAgent(botID)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[botID] = agent
	}

	act, err := agent.Act(state.Coordinator.Game())
	if err != nil {
		logger.Error("processBots: Bot %s failed to produce an action: %v", botID, err)
		return
	}

	out := state.Coordinator.Submit(act)
	if out.Rejection != nil {
		logger.Error("processBots: Bot %s action rejected: %v", botID, out.Rejection)
		return
	}
	mh.dispatchOutcome(ctx, state, dispatcher, logger, out)
}

// fillEmptySeatsWithBots seats a bot agent in every empty seat. Returns true
// when at least one seat was filled.
func (mh *matchHandler) fillEmptySeatsWithBots(state *MatchState, logger runtime.Logger) bool {
	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		botID := identity.UserID
		state.Seats[i] = botID

		agent, err := bot.NewAgent(botID)
		if err != nil {
			logger.Error("Failed to create bot agent for %s: %v", botID, err)
		} else {
			state.Bots[botID] = agent
		}

		logger.Info("Added bot %s (%s) to seat %d", identity.DisplayName, botID, i)
		added = true
	}
	return added
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := seatOf(state, senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Coordinator != nil {
		logger.Warn("StartGame: Game already in progress.")
		return
	}

	// Validate request payload even if it is currently empty; helps detect client drift early.
	if len(msg.GetData()) > 0 {
		var request StartGameRequest
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("StartGame: Invalid StartGameRequest from %s: %v", senderID, err)
			return
		}
	}

	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}

	// Fill remaining seats with bots so the table is complete.
	if state.GetOpenSeatsCount() > 0 {
		if !state.BotsEnabled {
			logger.Warn("StartGame: Cannot start with %d players and bots disabled.", state.GetOccupiedSeatCount())
			mh.sendError(state, dispatcher, logger, senderID, "not_enough_players", "four players are required to start")
			return
		}
		if mh.fillEmptySeatsWithBots(state, logger) {
			mh.broadcastLobbyState(state, dispatcher, logger)
		}
	}

	seats := make([]engine.PlayerSeat, 0, len(state.Seats))
	for i, userID := range state.Seats {
		seats = append(seats, engine.PlayerSeat{
			UserID: userID,
			Seat:   i + 1,
			IsBot:  isBotUserId(userID),
		})
	}

	coord, err := engine.NewCoordinator(seats, state.rng, config.GetWinScore())
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		return
	}
	state.Coordinator = coord
	state.BotWaitUntil = 0

	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range coord.Begin() {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Game started with %d players.", len(seats))
}

func (mh *matchHandler) handleRedeal(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Coordinator == nil {
		logger.Warn("handleRedeal: Game not started.")
		return
	}

	var act engine.Action
	if msg.GetOpCode() == OpRedealRequest {
		act = engine.NewRedealRequest(senderID)
	} else {
		var request RedealResponseRequest
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("handleRedeal: Invalid payload from %s: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, senderID, "bad_payload", "malformed redeal payload")
			return
		}
		act = engine.NewRedealResponse(senderID, request.Accept)
	}

	mh.submit(ctx, state, dispatcher, logger, senderID, act)
}

func (mh *matchHandler) handleDeclare(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Coordinator == nil {
		logger.Warn("handleDeclare: Game not started.")
		return
	}

	var request DeclareRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleDeclare: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "bad_payload", "malformed declare payload")
		return
	}

	mh.submit(ctx, state, dispatcher, logger, senderID, engine.NewDeclare(senderID, request.Value))
}

func (mh *matchHandler) handlePlayPieces(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Coordinator == nil {
		logger.Warn("handlePlayPieces: Game not started.")
		return
	}

	var request PlayPiecesRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handlePlayPieces: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, "bad_payload", "malformed play payload")
		return
	}

	mh.submit(ctx, state, dispatcher, logger, senderID, engine.NewPlayPieces(senderID, request.Pieces))
}

// submit runs one action through the coordinator and dispatches the result.
// Rejections go back to the sender only; committed events fan out.
func (mh *matchHandler) submit(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, act engine.Action) {
	out := state.Coordinator.Submit(act)
	if out.Rejection != nil {
		logger.Warn("submit: User %s action %s rejected: %v", senderID, act.Kind, out.Rejection)
		mh.sendError(state, dispatcher, logger, senderID, string(out.Rejection.Kind), out.Rejection.Detail)
		return
	}
	mh.dispatchOutcome(ctx, state, dispatcher, logger, out)
}

// dispatchOutcome broadcasts the committed events and returns the match to
// the lobby when the game is over or halted.
func (mh *matchHandler) dispatchOutcome(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, out engine.Outcome) {
	for _, ev := range out.Events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	game := state.Coordinator.Game()
	if out.Halted {
		logger.Error("dispatchOutcome: Game halted, returning to lobby.")
		state.Coordinator = nil
		mh.updateLabel(state, dispatcher, logger)
		return
	}
	if game.Phase == domain.PhaseEnded {
		state.LastWinners = append([]string(nil), game.Winners...)
		logger.Info("dispatchOutcome: Game over, winners: %v", state.LastWinners)
		state.Coordinator = nil
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastLobbyState(state, dispatcher, logger)
	}
}

// broadcastEvent maps an engine event to its opcode and dispatches it.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev engine.Event) {
	var opCode int64
	switch ev.Kind {
	case engine.EventState:
		opCode = OpStateSnapshot
	case engine.EventHandDealt:
		opCode = OpHandDealt
	case engine.EventCriticalError:
		opCode = OpCriticalError
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendError sends a GameError to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, kind, message string) {
	bytes, err := json.Marshal(&GameError{Kind: kind, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameError: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastLobbyState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	lobby := LobbyState{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		InGame:    state.Coordinator != nil,
	}
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userId); name != "" {
			displayName = name
		}

		lobby.Players = append(lobby.Players, LobbyPlayer{
			UserID:      userId,
			Seat:        i,
			IsOwner:     i == state.OwnerSeat,
			IsBot:       isBotUserId(userId),
			DisplayName: displayName,
		})
	}

	bytes, err := json.Marshal(&lobby)
	if err != nil {
		logger.Error("Failed to marshal LobbyState: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpLobbyState, bytes, nil, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Coordinator != nil {
		phase = "playing"
	}

	labelBytes, err := json.Marshal(&MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "liaptui",
		Phase: phase,
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func seatOf(state *MatchState, userID string) int {
	for i, seatUserId := range state.Seats {
		if seatUserId == userID {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
