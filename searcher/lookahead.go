package searcher

import (
	"fmt"
	"ggp/game"

	"github.com/rs/zerolog/log"
)

// lookahead samples one random joint continuation per move from the decision
// state and returns the first move whose continuation ends the game with the
// maximum reward for role. A single sample per move: opponents' replies are
// not enumerated.
func (s *Selector) lookahead(state game.State, role game.Role, moves []game.Move) (game.Move, bool) {
	for _, move := range moves {
		goal, terminal, err := s.continuation(state, role, move)
		if err != nil {
			log.Warn().Err(err).Str("role", string(role)).Str("move", string(move)).Msg("lookahead failed")
			continue
		}
		if !terminal || goal == game.MinReward {
			continue
		}
		if goal == game.MaxReward {
			return move, true
		}
	}
	return "", false
}

// continuation reports whether one random joint move with role playing move
// ends the game, and role's goal if it does.
func (s *Selector) continuation(state game.State, role game.Role, move game.Move) (goal int, terminal bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errOraclePanic, r)
		}
	}()

	joint, err := s.oracle.RandomJointMove(state, role, move)
	if err != nil {
		return 0, false, fmt.Errorf("random joint move: %w", err)
	}
	next, err := s.oracle.NextState(state, joint)
	if err != nil {
		return 0, false, fmt.Errorf("next state: %w", err)
	}
	if !s.oracle.IsTerminal(next) {
		return 0, false, nil
	}
	goal, err = s.oracle.GoalValue(next, role)
	if err != nil {
		return 0, true, fmt.Errorf("goal value: %w", err)
	}
	return goal, true, nil
}
