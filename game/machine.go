package game

import (
	"fmt"
	"ggp/utils"

	"golang.org/x/exp/rand"
)

// MaxDepth bounds a depth charge so that a game without a reachable terminal
// state cannot stall the caller forever.
const MaxDepth = 10000

type MachineOption func(m *Machine)

// Machine turns a deterministic Rules into an Oracle by adding random joint
// moves and depth charges. It is not safe for concurrent use.
type Machine struct {
	rules    Rules
	roles    []Role
	rng      *rand.Rand
	maxDepth int
}

func WithSeed(seed uint64) MachineOption {
	return func(m *Machine) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMaxDepth(depth int) MachineOption {
	return func(m *Machine) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

func NewMachine(rules Rules, options ...MachineOption) *Machine {
	m := &Machine{
		rules:    rules,
		roles:    rules.Roles(),
		rng:      rand.New(rand.NewSource(rand.Uint64())),
		maxDepth: MaxDepth,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *Machine) Roles() []Role {
	return m.roles
}

func (m *Machine) InitialState() State {
	return m.rules.Initial()
}

func (m *Machine) LegalMoves(state State, role Role) ([]Move, error) {
	if utils.FindIndex(m.roles, role) < 0 {
		return nil, fmt.Errorf("legal moves for %q: %w", role, ErrUnknownRole)
	}
	return m.rules.Legal(state, role)
}

func (m *Machine) NextState(state State, joint JointMove) (State, error) {
	if len(joint) != len(m.roles) {
		return nil, fmt.Errorf("joint move has %d moves for %d roles: %w", len(joint), len(m.roles), ErrIllegalMove)
	}
	return m.rules.Next(state, joint)
}

func (m *Machine) IsTerminal(state State) bool {
	return m.rules.Terminal(state)
}

func (m *Machine) GoalValue(state State, role Role) (int, error) {
	if utils.FindIndex(m.roles, role) < 0 {
		return 0, fmt.Errorf("goal for %q: %w", role, ErrUnknownRole)
	}
	return m.rules.Goal(state, role)
}

func (m *Machine) RandomJointMove(state State, role Role, move Move) (JointMove, error) {
	fixed := utils.FindIndex(m.roles, role)
	if fixed < 0 {
		return nil, fmt.Errorf("joint move for %q: %w", role, ErrUnknownRole)
	}
	joint := make(JointMove, len(m.roles))
	for i, r := range m.roles {
		if i == fixed {
			joint[i] = move
			continue
		}
		mv, err := m.randomMove(state, r)
		if err != nil {
			return nil, err
		}
		joint[i] = mv
	}
	return joint, nil
}

func (m *Machine) RandomNextState(state State, role Role, move Move) (State, error) {
	joint, err := m.RandomJointMove(state, role, move)
	if err != nil {
		return nil, err
	}
	return m.NextState(state, joint)
}

func (m *Machine) DepthCharge(state State) (State, int, error) {
	depth := 0
	for !m.rules.Terminal(state) {
		if depth >= m.maxDepth {
			return nil, depth, fmt.Errorf("after %d plies: %w", depth, ErrDepthExceeded)
		}
		joint, err := m.randomJointMove(state)
		if err != nil {
			return nil, depth, err
		}
		state, err = m.rules.Next(state, joint)
		if err != nil {
			return nil, depth, err
		}
		depth++
	}
	return state, depth, nil
}

func (m *Machine) randomJointMove(state State) (JointMove, error) {
	joint := make(JointMove, len(m.roles))
	for i, r := range m.roles {
		mv, err := m.randomMove(state, r)
		if err != nil {
			return nil, err
		}
		joint[i] = mv
	}
	return joint, nil
}

func (m *Machine) randomMove(state State, role Role) (Move, error) {
	moves, err := m.rules.Legal(state, role)
	if err != nil {
		return "", err
	}
	if len(moves) == 0 {
		return "", fmt.Errorf("role %q: %w", role, ErrNoLegalMoves)
	}
	return m.Pick(moves), nil
}

// Pick returns one of moves uniformly at random. moves must not be empty.
func (m *Machine) Pick(moves []Move) Move {
	return moves[m.rng.Intn(len(moves))]
}

func (m *Machine) Cutoff() int {
	return m.maxDepth
}
