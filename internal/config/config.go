package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	// WinScore is the cumulative score that ends the game.
	WinScore            int32 `json:"win_score"`
	TurnDurationSeconds int   `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// BotMinDelayMs and BotMaxDelayMs bound the artificial thinking time of bot players.
	BotMinDelayMs int `json:"bot_min_delay_ms"`
	BotMaxDelayMs int `json:"bot_max_delay_ms"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetWinScore returns the configured win score, or the safe default when the
// config never loaded.
func GetWinScore() int32 {
	if cfg == nil || cfg.WinScore <= 0 {
		return 50
	}
	return cfg.WinScore
}

// GetBotAutoFillDelaySeconds returns the lobby auto-fill delay.
func GetBotAutoFillDelaySeconds() int {
	if cfg == nil || cfg.BotAutoFillDelaySeconds <= 0 {
		return 10
	}
	return cfg.BotAutoFillDelaySeconds
}

// GetBotDelayBoundsMs returns the min and max artificial bot delay.
func GetBotDelayBoundsMs() (int, int) {
	if cfg == nil || cfg.BotMaxDelayMs <= 0 {
		return 500, 1500
	}
	min, max := cfg.BotMinDelayMs, cfg.BotMaxDelayMs
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return min, max
}

// GetTurnDurationSeconds returns the per-turn deadline.
func GetTurnDurationSeconds() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30
	}
	return cfg.TurnDurationSeconds
}
