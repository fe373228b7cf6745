package engine

import (
	"context"
	"fmt"
	"ggp/game"
	"ggp/player"
	"ggp/report"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPlayClock  = 10 * time.Second
	DefaultStartClock = 10 * time.Second
)

type Option func(e *Local)

func WithPlayClock(clock time.Duration) Option {
	return func(e *Local) {
		if clock > 0 {
			e.playClock = clock
		}
	}
}

func WithStartClock(clock time.Duration) Option {
	return func(e *Local) {
		if clock > 0 {
			e.startClock = clock
		}
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithRecorder collects the gamers' decision events; the gamers' selectors
// must report to the same recorder.
func WithRecorder(recorder *report.Recorder) Option {
	return func(e *Local) {
		if recorder != nil {
			e.recorder = recorder
		}
	}
}

// Local plays a match in-process, asking each gamer for its move in role order.
type Local struct {
	oracle     game.Oracle
	gamers     []*player.Gamer
	playClock  time.Duration
	startClock time.Duration
	maxTurns   int
	recorder   *report.Recorder
}

func LocalEngine(oracle game.Oracle, gamers []*player.Gamer, options ...Option) (*Local, error) {
	roles := oracle.Roles()
	if len(gamers) != len(roles) {
		return nil, fmt.Errorf("number of gamers (%d) does not match number of roles (%d)", len(gamers), len(roles))
	}
	e := &Local{
		oracle:     oracle,
		gamers:     gamers,
		playClock:  DefaultPlayClock,
		startClock: DefaultStartClock,
		maxTurns:   MaxTurns,
		recorder:   report.NewRecorder(),
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

func (e *Local) Run(ctx context.Context) (Result, error) {
	roles := e.oracle.Roles()
	result := Result{
		Match:     uuid.NewString(),
		Roles:     roles,
		StartTime: time.Now(),
	}
	e.recorder.Begin(result.Match)

	state := e.oracle.InitialState()
	for i, g := range e.gamers {
		g.Preview(time.Now().Add(e.startClock))
		g.Start(roles[i], state)
		g.MetaGame(time.Now().Add(e.startClock))
	}
	log.Info().Str("match", result.Match).Msgf("match started with %d roles", len(roles))

	turn := 1
	for !e.oracle.IsTerminal(state) && turn <= e.maxTurns {
		if err := ctx.Err(); err != nil {
			return e.abort(result, turn-1, err)
		}
		e.recorder.SetTurn(turn)

		joint := make(game.JointMove, len(roles))
		for i, g := range e.gamers {
			move, err := e.requestMove(state, roles[i], g)
			if err != nil {
				return e.abort(result, turn-1, err)
			}
			joint[i] = move
		}

		next, err := e.oracle.NextState(state, joint)
		if err != nil {
			return e.abort(result, turn-1, fmt.Errorf("turn %d: %w", turn, err))
		}
		state = next
		for _, g := range e.gamers {
			g.Update(state)
		}
		turn++
	}

	result.Turns = turn - 1
	result.EndTime = time.Now()
	result.Events = e.recorder.Events()
	for _, g := range e.gamers {
		g.Stop()
	}

	if !e.oracle.IsTerminal(state) {
		log.Info().Str("match", result.Match).Msgf("stopped after %d turns (no terminal state yet)", e.maxTurns)
		return result, nil
	}

	result.Finished = true
	result.Goals = make([]int, len(roles))
	for i, role := range roles {
		goal, err := e.oracle.GoalValue(state, role)
		if err != nil {
			return result, fmt.Errorf("goal for %s: %w", role, err)
		}
		result.Goals[i] = goal
	}
	log.Info().Str("match", result.Match).Ints("goals", result.Goals).Msgf("match over after %d turns", result.Turns)
	return result, nil
}

// requestMove asks g for its move and falls back to the first legal move
// when the answer is missing or illegal.
func (e *Local) requestMove(state game.State, role game.Role, g *player.Gamer) (game.Move, error) {
	legal, err := e.oracle.LegalMoves(state, role)
	if err != nil {
		return "", fmt.Errorf("legal moves for %s: %w", role, err)
	}
	if len(legal) == 0 {
		return "", fmt.Errorf("role %s: %w", role, game.ErrNoLegalMoves)
	}

	move, err := g.SelectMove(time.Now().Add(e.playClock))
	if err != nil {
		log.Warn().Err(err).Str("gamer", g.Name()).Msg("move selection failed, forcing first legal move")
		return legal[0], nil
	}
	if !slices.Contains(legal, move) {
		log.Warn().Str("gamer", g.Name()).Str("move", string(move)).Msg("illegal move, forcing first legal move")
		return legal[0], nil
	}
	return move, nil
}

func (e *Local) abort(result Result, turns int, cause error) (Result, error) {
	for _, g := range e.gamers {
		g.Abort()
	}
	result.Turns = turns
	result.EndTime = time.Now()
	result.Events = e.recorder.Events()
	log.Error().Err(cause).Str("match", result.Match).Msg("match aborted")
	return result, cause
}

var _ Engine = (*Local)(nil)
