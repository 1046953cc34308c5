package bot

import "fmt"

// BotLevel selects the strategy an agent plays with.
type BotLevel int

const (
	BotLevelBalanced BotLevel = iota
	BotLevelGreedy
)

// NewBrain creates a strategy for the given level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelBalanced:
		return &BalancedBrain{}, nil
	case BotLevelGreedy:
		return &GreedyBrain{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// LevelFromDifficulty maps an identity difficulty string to a level.
func LevelFromDifficulty(difficulty string) BotLevel {
	if difficulty == "hard" {
		return BotLevelGreedy
	}
	return BotLevelBalanced
}

// NewAgent builds an agent for a provisioned bot identity, falling back to
// the balanced strategy for unknown ids.
func NewAgent(botID string) (*Agent, error) {
	level := BotLevelBalanced
	name := botID
	if identity, ok := GetBotConfig(botID); ok {
		level = LevelFromDifficulty(identity.Difficulty)
		name = identity.DisplayName
	}

	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: botID, Name: name, Strategy: brain}, nil
}
