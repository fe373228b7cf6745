package engine

import (
	"context"
	"ggp/game"
	"ggp/player"
	"ggp/report"
	"ggp/searcher"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedSelector struct {
	move game.Move
}

func (f fixedSelector) SelectMove(game.State, game.Role, time.Time) (game.Move, error) {
	return f.move, nil
}

func monteCarloGamers(oracle game.Oracle, recorder *report.Recorder) []*player.Gamer {
	options := []searcher.Option{
		searcher.WithMargin(0),
		searcher.WithEpisodes(30),
		searcher.WithObserver(recorder),
		searcher.WithMetrics(),
	}
	return []*player.Gamer{
		player.NewGamer("x", searcher.NewSelector(oracle, options...)),
		player.NewGamer("o", searcher.NewSelector(oracle, options...)),
	}
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("plays tic-tac-toe to the end", func(t *testing.T) {
		oracle := game.NewMachine(game.NewTicTacToe(), game.WithSeed(3))
		recorder := report.NewRecorder()
		e, err := LocalEngine(oracle, monteCarloGamers(oracle, recorder),
			WithPlayClock(50*time.Millisecond), WithRecorder(recorder))
		require.NoError(t, err)

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		require.True(t, result.Finished)
		require.NotEmpty(t, result.Match)
		require.Equal(t, []game.Role{game.XPlayer, game.OPlayer}, result.Roles)
		require.Len(t, result.Goals, 2)
		require.Equal(t, game.MaxReward, result.Goals[0]+result.Goals[1], "Tic-tac-toe is zero-sum")
		require.GreaterOrEqual(t, result.Turns, 5)
		require.LessOrEqual(t, result.Turns, 9)
		require.Len(t, result.Events, 2*result.Turns, "Each role decides every turn")
		for i, ev := range result.Events {
			require.Equal(t, result.Match, ev.Match)
			require.Equal(t, i/2+1, ev.Turn)
		}

		record := result.Record()
		require.Equal(t, result.Match, record.ID)
		require.Equal(t, result.Turns, record.Turns)
	})

	t.Run("illegal answers fall back to the first legal move", func(t *testing.T) {
		oracle := game.NewMachine(game.NewTicTacToe(), game.WithSeed(3))
		gamers := []*player.Gamer{
			player.NewGamer("x", fixedSelector{move: "bogus"}),
			player.NewGamer("o", fixedSelector{move: "bogus"}),
		}
		e, err := LocalEngine(oracle, gamers)
		require.NoError(t, err)

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		require.True(t, result.Finished)
		// Row-major first moves: x fills 1 1, o 1 2, x 1 3, o 2 1, x 2 2, o 2 3, x 3 1 wins the diagonal.
		require.Equal(t, 7, result.Turns)
		require.Equal(t, []int{game.MaxReward, game.MinReward}, result.Goals)
	})

	t.Run("turn limit stops an unfinished match", func(t *testing.T) {
		oracle := game.NewMachine(game.NewTicTacToe(), game.WithSeed(3))
		recorder := report.NewRecorder()
		e, err := LocalEngine(oracle, monteCarloGamers(oracle, recorder),
			WithPlayClock(50*time.Millisecond), WithRecorder(recorder), WithMaxTurns(2))
		require.NoError(t, err)

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		require.False(t, result.Finished)
		require.Equal(t, 2, result.Turns)
		require.Empty(t, result.Goals)
	})

	t.Run("cancelled context aborts the match", func(t *testing.T) {
		oracle := game.NewMachine(game.NewTicTacToe(), game.WithSeed(3))
		recorder := report.NewRecorder()
		e, err := LocalEngine(oracle, monteCarloGamers(oracle, recorder), WithRecorder(recorder))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, result.Turns)
	})

	t.Run("gamer count must match role count", func(t *testing.T) {
		oracle := game.NewMachine(game.NewTicTacToe())
		_, err := LocalEngine(oracle, []*player.Gamer{player.NewGamer("x", fixedSelector{})})
		require.Error(t, err)
	})
}

func TestLocalEngineOptions(t *testing.T) {
	oracle := game.NewMachine(game.NewTicTacToe())
	gamers := []*player.Gamer{player.NewGamer("x", fixedSelector{}), player.NewGamer("o", fixedSelector{})}

	t.Run("clocks are configurable", func(t *testing.T) {
		e, err := LocalEngine(oracle, gamers, WithPlayClock(time.Second), WithStartClock(3*time.Second), WithMaxTurns(4))
		require.NoError(t, err)
		require.Equal(t, time.Second, e.playClock)
		require.Equal(t, 3*time.Second, e.startClock)
		require.Equal(t, 4, e.maxTurns)
	})

	t.Run("non-positive values keep the defaults", func(t *testing.T) {
		e, err := LocalEngine(oracle, gamers, WithPlayClock(0), WithStartClock(-time.Second), WithMaxTurns(0))
		require.NoError(t, err)
		require.Equal(t, DefaultPlayClock, e.playClock)
		require.Equal(t, DefaultStartClock, e.startClock)
		require.Equal(t, MaxTurns, e.maxTurns)
	})
}
