package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// BotIdentity is one profile from the bot pool configuration.
type BotIdentity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
}

var (
	botIdentities []BotIdentity
	botConfigMap  map[string]BotIdentity
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		botIdentities = identities
		botConfigMap = make(map[string]BotIdentity, len(identities))
		for _, identity := range identities {
			if identity.UserID != "" {
				botConfigMap[identity.UserID] = identity
			}
		}
	})
	return loadErr
}

// GetBotConfig returns the identity configuration for a given bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identity, ok := botConfigMap[userID]
	return identity, ok
}

// GetBotIdentity returns an identity for a seat index (mod pool size), with
// a synthesized fallback when no pool is loaded.
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// GetBotDisplayName returns the display name for a bot ID, or "".
func GetBotDisplayName(userID string) string {
	if identity, ok := botConfigMap[userID]; ok {
		if identity.DisplayName != "" {
			return identity.DisplayName
		}
		return identity.Username
	}
	return ""
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	if _, ok := botConfigMap[userID]; ok {
		return true
	}
	return strings.HasPrefix(userID, "bot-")
}
