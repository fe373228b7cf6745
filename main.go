package main

import (
	"context"
	"flag"
	"ggp/config"
	"ggp/experiments"
	"ggp/internal/logger"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(os.Stderr, "info")
		log.Fatal().Err(err).Msg("failed to load config")
	}

	flag.IntVar(&cfg.Games, "games", cfg.Games, "Number of matches to play")
	flag.IntVar(&cfg.Episodes, "episodes", cfg.Episodes, "Depth charges per decision (0 = until the deadline)")
	flag.DurationVar(&cfg.PlayClock, "play-clock", cfg.PlayClock, "Time allowed per move")
	flag.DurationVar(&cfg.StartClock, "start-clock", cfg.StartClock, "Time allowed before the first move")
	flag.DurationVar(&cfg.Margin, "margin", cfg.Margin, "Time reserved before the deadline for the lookahead")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Base random seed (0 = random)")
	flag.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory for CSV records")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite file for decision records (empty = disabled)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	logger.Init(os.Stderr, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := experiments.Run(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("match series failed")
	}
	log.Info().Str("dir", summary.Dir).Msg("records written")
}
