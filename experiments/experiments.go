package experiments

import (
	"context"
	"fmt"
	"ggp/config"
	"ggp/engine"
	"ggp/game"
	"ggp/player"
	"ggp/report"
	"ggp/searcher"

	"github.com/rs/zerolog/log"
)

// Summary counts outcomes from the first role's point of view.
type Summary struct {
	Games  int
	Wins   int
	Draws  int
	Losses int
	Dir    string // where the CSV records were written
}

// Run plays cfg.Games tic-tac-toe matches between two Monte Carlo gamers and
// writes match and decision records under cfg.OutDir. When cfg.DBPath is set
// every decision is also inserted into the SQLite store as it happens.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	sinks := []report.Observer{report.NewLogObserver()}
	if cfg.DBPath != "" {
		store, err := report.OpenStore(cfg.DBPath)
		if err != nil {
			return Summary{}, err
		}
		defer store.Close()
		sinks = append(sinks, store)
	}
	recorder := report.NewRecorder(sinks...)

	summary := Summary{}
	matchRecords := []report.MatchRecord{}
	decisions := []report.Event{}

	log.Info().Msgf("starting %d games...", cfg.Games)

	for i := 0; i < cfg.Games; i++ {
		log.Info().Msgf("starting game %d of %d...", i+1, cfg.Games)

		result, err := runGame(ctx, cfg, seedFor(cfg.Seed, i), recorder)
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", i+1, err)
		}
		summary.Games++
		if result.Finished {
			switch {
			case result.Goals[0] == game.MaxReward:
				summary.Wins++
			case result.Goals[0] == game.MinReward:
				summary.Losses++
			default:
				summary.Draws++
			}
		}
		matchRecords = append(matchRecords, result.Record())
		decisions = append(decisions, result.Events...)

		log.Info().Msgf("completed game %d of %d with goals %v", i+1, cfg.Games, result.Goals)
	}

	writer, err := report.NewWriter(cfg.OutDir)
	if err != nil {
		return summary, fmt.Errorf("failed to create match writer: %w", err)
	}
	if err := writer.WriteMatchRecords(matchRecords); err != nil {
		return summary, fmt.Errorf("failed to store match records: %w", err)
	}
	if err := writer.WriteDecisionRecords(decisions); err != nil {
		return summary, fmt.Errorf("failed to store decision records: %w", err)
	}
	summary.Dir = writer.Dir()

	log.Info().Msgf("completed %d games: %d wins, %d draws, %d losses", summary.Games, summary.Wins, summary.Draws, summary.Losses)
	return summary, nil
}

func runGame(ctx context.Context, cfg config.Config, seed uint64, recorder *report.Recorder) (engine.Result, error) {
	machineOptions := []game.MachineOption{game.WithMaxDepth(cfg.MaxDepth)}
	if seed != 0 {
		machineOptions = append(machineOptions, game.WithSeed(seed))
	}
	oracle := game.NewCached(game.NewMachine(game.NewTicTacToe(), machineOptions...), cfg.CacheSize)

	gamers := []*player.Gamer{
		player.NewGamer("Player1", createSelector(cfg, oracle, recorder)),
		player.NewGamer("Player2", createSelector(cfg, oracle, recorder)),
	}
	e, err := engine.LocalEngine(oracle, gamers,
		engine.WithPlayClock(cfg.PlayClock),
		engine.WithStartClock(cfg.StartClock),
		engine.WithMaxTurns(cfg.MaxTurns),
		engine.WithRecorder(recorder),
	)
	if err != nil {
		return engine.Result{}, err
	}
	return e.Run(ctx)
}

func createSelector(cfg config.Config, oracle game.Oracle, recorder *report.Recorder) *searcher.Selector {
	options := []searcher.Option{
		searcher.WithMargin(cfg.Margin),
		searcher.WithObserver(recorder),
		searcher.WithMetrics(),
	}
	if cfg.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(cfg.Episodes))
	}
	return searcher.NewSelector(oracle, options...)
}

// seedFor derives a distinct seed per game so a fixed base seed reproduces
// the whole series. A zero base keeps every game randomly seeded.
func seedFor(base uint64, game int) uint64 {
	if base == 0 {
		return 0
	}
	return base + uint64(game)
}
