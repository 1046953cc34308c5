// Command simulate runs bot-vs-bot games through the session layer and
// reports per-strategy results. It doubles as a soak test for the engine:
// any rejection or halt during a simulated game is a bug.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"

	env "github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"liaptui/internal/bot"
	"liaptui/internal/domain"
	"liaptui/internal/engine"
	"liaptui/internal/session"
)

type simConfig struct {
	Games    int    `env:"SIM_GAMES" envDefault:"100"`
	Seed     int64  `env:"SIM_SEED" envDefault:"1"`
	WinScore int32  `env:"SIM_WIN_SCORE" envDefault:"50"`
	MaxSteps int    `env:"SIM_MAX_STEPS" envDefault:"100000"`
	LogLevel string `env:"SIM_LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg simConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("simulation failed")
	}
}

func run(cfg simConfig, log *logrus.Logger) error {
	agents := map[string]*bot.Agent{
		"bot-1": {ID: "bot-1", Name: "balanced-1", Strategy: &bot.BalancedBrain{}},
		"bot-2": {ID: "bot-2", Name: "greedy-1", Strategy: &bot.GreedyBrain{}},
		"bot-3": {ID: "bot-3", Name: "balanced-2", Strategy: &bot.BalancedBrain{}},
		"bot-4": {ID: "bot-4", Name: "greedy-2", Strategy: &bot.GreedyBrain{}},
	}
	seats := []engine.PlayerSeat{
		{UserID: "bot-1", Seat: 1, IsBot: true},
		{UserID: "bot-2", Seat: 2, IsBot: true},
		{UserID: "bot-3", Seat: 3, IsBot: true},
		{UserID: "bot-4", Seat: 4, IsBot: true},
	}

	wins := make(map[string]int)
	rounds := 0

	for game := 0; game < cfg.Games; game++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(game)))
		winners, playedRounds, err := playOne(seats, agents, rng, cfg, log.WithField("game", game))
		if err != nil {
			return fmt.Errorf("game %d: %w", game, err)
		}
		for _, w := range winners {
			wins[agents[w].Name]++
		}
		rounds += playedRounds
	}

	log.WithFields(logrus.Fields{
		"games":      cfg.Games,
		"avg_rounds": float64(rounds) / float64(cfg.Games),
	}).Info("simulation complete")
	for name, count := range wins {
		log.WithFields(logrus.Fields{"strategy": name, "wins": count}).Info("result")
	}
	return nil
}

func playOne(seats []engine.PlayerSeat, agents map[string]*bot.Agent, rng *rand.Rand, cfg simConfig, log *logrus.Entry) ([]string, int, error) {
	// The initial deal happens on the session worker; wait for its first
	// emitted event before reading the aggregate.
	started := make(chan struct{})
	var once sync.Once
	listener := func(engine.Event) {
		once.Do(func() { close(started) })
	}

	s, err := session.New(seats, rng, cfg.WinScore, listener, log.Logger)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	<-started

	for steps := 0; s.Game().Phase != domain.PhaseEnded; steps++ {
		if steps >= cfg.MaxSteps {
			return nil, 0, fmt.Errorf("no termination after %d steps", cfg.MaxSteps)
		}

		id, ok := bot.AwaitedBot(s.Game())
		if !ok {
			return nil, 0, fmt.Errorf("game waits on a non-bot in phase %s", s.Game().Phase)
		}

		act, err := agents[id].Act(s.Game())
		if err != nil {
			return nil, 0, err
		}

		out, err := s.Submit(ctx, act)
		if err != nil {
			return nil, 0, err
		}
		if out.Halted {
			return nil, 0, fmt.Errorf("session halted")
		}
		if out.Rejection != nil {
			return nil, 0, fmt.Errorf("%s action rejected: %v", id, out.Rejection)
		}
	}

	game := s.Game()
	return append([]string(nil), game.Winners...), game.RoundNumber, nil
}
