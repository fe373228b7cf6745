package game

import "errors"

// Rewards are bounded integers; a game defines what lies between the bounds.
const (
	MinReward = 0
	MaxReward = 100
)

var (
	ErrNoLegalMoves  = errors.New("no legal moves")
	ErrIllegalMove   = errors.New("illegal move")
	ErrUnknownRole   = errors.New("unknown role")
	ErrTerminal      = errors.New("state is terminal")
	ErrDepthExceeded = errors.New("depth charge exceeded max depth")
)

type Role string

// Move is a game term such as "(mark 1 1)" or "noop".
type Move string

// JointMove holds one move per role, indexed by the oracle's role order.
type JointMove []Move

type StateHash uint64

// State should be immutable - operations on State always return a new copy
type State interface {
	Hash() StateHash
}

// Rules is the deterministic definition of a game.
type Rules interface {
	Roles() []Role
	Initial() State
	Legal(state State, role Role) ([]Move, error)
	Next(state State, joint JointMove) (State, error)
	Terminal(state State) bool
	Goal(state State, role Role) (int, error)
}

// Oracle answers every transition question a player can ask about a game,
// including the randomized ones used for sampling.
type Oracle interface {
	Roles() []Role
	InitialState() State
	LegalMoves(state State, role Role) ([]Move, error)
	// RandomJointMove fixes role's move and picks the other roles' moves uniformly.
	RandomJointMove(state State, role Role, move Move) (JointMove, error)
	NextState(state State, joint JointMove) (State, error)
	RandomNextState(state State, role Role, move Move) (State, error)
	IsTerminal(state State) bool
	GoalValue(state State, role Role) (int, error)
	// DepthCharge plays uniformly random joint moves until a terminal state.
	// The depth is diagnostic only.
	DepthCharge(state State) (terminal State, depth int, err error)
}
