package searcher

import (
	"errors"
	"fmt"
	"ggp/game"
)

var errOraclePanic = errors.New("oracle panicked")

// charge is the outcome of one depth charge: a reward, or the error that
// prevented one.
type charge struct {
	reward int
	depth  int
	err    error
}

// depthCharge plays move against random opponents from state, then random
// joint moves to the end of the game, and reads role's reward there.
func (s *Selector) depthCharge(state game.State, role game.Role, move game.Move) (c charge) {
	defer func() {
		if r := recover(); r != nil {
			c = charge{err: fmt.Errorf("%w: %v", errOraclePanic, r)}
		}
	}()

	next, err := s.oracle.RandomNextState(state, role, move)
	if err != nil {
		return charge{err: fmt.Errorf("random next state: %w", err)}
	}
	terminal, depth, err := s.oracle.DepthCharge(next)
	if err != nil {
		return charge{depth: depth, err: fmt.Errorf("depth charge: %w", err)}
	}
	reward, err := s.oracle.GoalValue(terminal, role)
	if err != nil {
		return charge{depth: depth, err: fmt.Errorf("goal value: %w", err)}
	}
	return charge{reward: reward, depth: depth}
}
