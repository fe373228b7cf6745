package game

import (
	"fmt"
	"ggp/utils"
	"strings"
	"sync"
)

// DefaultCacheCapacity is the number of entries per table before a table is cleared.
const DefaultCacheCapacity = 1 << 16

// Sampler is the random source behind an oracle's random queries. Machine
// implements it.
type Sampler interface {
	Pick(moves []Move) Move
	Cutoff() int
}

type legalKey struct {
	hash StateHash
	role Role
}

type nextKey struct {
	hash  StateHash
	joint string
}

// Cached memoizes the deterministic Oracle queries by state hash. When the
// wrapped oracle is a Sampler, random joint moves and depth charges draw from
// it but walk the game through the cache; otherwise they go to the wrapped
// oracle. When a table reaches capacity it is cleared rather than evicted
// entry by entry.
type Cached struct {
	Oracle

	sampler  Sampler
	mu       sync.Mutex
	capacity int
	legal    map[legalKey][]Move
	terminal map[StateHash]bool
	goal     map[legalKey]int
	next     map[nextKey]State
}

func NewCached(oracle Oracle, capacity int) *Cached {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	sampler, _ := oracle.(Sampler)
	return &Cached{
		Oracle:   oracle,
		sampler:  sampler,
		capacity: capacity,
		legal:    make(map[legalKey][]Move),
		terminal: make(map[StateHash]bool),
		goal:     make(map[legalKey]int),
		next:     make(map[nextKey]State),
	}
}

func (c *Cached) LegalMoves(state State, role Role) ([]Move, error) {
	key := legalKey{state.Hash(), role}
	c.mu.Lock()
	moves, ok := c.legal[key]
	c.mu.Unlock()
	if ok {
		return moves, nil
	}

	moves, err := c.Oracle.LegalMoves(state, role)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if len(c.legal) >= c.capacity {
		c.legal = make(map[legalKey][]Move)
	}
	c.legal[key] = moves
	c.mu.Unlock()
	return moves, nil
}

func (c *Cached) IsTerminal(state State) bool {
	key := state.Hash()
	c.mu.Lock()
	terminal, ok := c.terminal[key]
	c.mu.Unlock()
	if ok {
		return terminal
	}

	terminal = c.Oracle.IsTerminal(state)
	c.mu.Lock()
	if len(c.terminal) >= c.capacity {
		c.terminal = make(map[StateHash]bool)
	}
	c.terminal[key] = terminal
	c.mu.Unlock()
	return terminal
}

func (c *Cached) GoalValue(state State, role Role) (int, error) {
	key := legalKey{state.Hash(), role}
	c.mu.Lock()
	goal, ok := c.goal[key]
	c.mu.Unlock()
	if ok {
		return goal, nil
	}

	goal, err := c.Oracle.GoalValue(state, role)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	if len(c.goal) >= c.capacity {
		c.goal = make(map[legalKey]int)
	}
	c.goal[key] = goal
	c.mu.Unlock()
	return goal, nil
}

func (c *Cached) NextState(state State, joint JointMove) (State, error) {
	key := nextKey{state.Hash(), joinMoves(joint)}
	c.mu.Lock()
	next, ok := c.next[key]
	c.mu.Unlock()
	if ok {
		return next, nil
	}

	next, err := c.Oracle.NextState(state, joint)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if len(c.next) >= c.capacity {
		c.next = make(map[nextKey]State)
	}
	c.next[key] = next
	c.mu.Unlock()
	return next, nil
}

func (c *Cached) RandomJointMove(state State, role Role, move Move) (JointMove, error) {
	if c.sampler == nil {
		return c.Oracle.RandomJointMove(state, role, move)
	}
	roles := c.Roles()
	fixed := utils.FindIndex(roles, role)
	if fixed < 0 {
		return nil, fmt.Errorf("joint move for %q: %w", role, ErrUnknownRole)
	}
	joint := make(JointMove, len(roles))
	for i, r := range roles {
		if i == fixed {
			joint[i] = move
			continue
		}
		mv, err := c.randomMove(state, r)
		if err != nil {
			return nil, err
		}
		joint[i] = mv
	}
	return joint, nil
}

func (c *Cached) RandomNextState(state State, role Role, move Move) (State, error) {
	joint, err := c.RandomJointMove(state, role, move)
	if err != nil {
		return nil, err
	}
	return c.NextState(state, joint)
}

// DepthCharge draws the same random moves the sampler would draw uncached,
// so a seeded run reaches the same terminal state either way.
func (c *Cached) DepthCharge(state State) (State, int, error) {
	if c.sampler == nil {
		return c.Oracle.DepthCharge(state)
	}
	roles := c.Roles()
	depth := 0
	for !c.IsTerminal(state) {
		if depth >= c.sampler.Cutoff() {
			return nil, depth, fmt.Errorf("after %d plies: %w", depth, ErrDepthExceeded)
		}
		joint := make(JointMove, len(roles))
		for i, r := range roles {
			mv, err := c.randomMove(state, r)
			if err != nil {
				return nil, depth, err
			}
			joint[i] = mv
		}
		next, err := c.NextState(state, joint)
		if err != nil {
			return nil, depth, err
		}
		state = next
		depth++
	}
	return state, depth, nil
}

func (c *Cached) randomMove(state State, role Role) (Move, error) {
	moves, err := c.LegalMoves(state, role)
	if err != nil {
		return "", err
	}
	if len(moves) == 0 {
		return "", fmt.Errorf("role %q: %w", role, ErrNoLegalMoves)
	}
	return c.sampler.Pick(moves), nil
}

// Len reports the number of cached entries across all tables.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.legal) + len(c.terminal) + len(c.goal) + len(c.next)
}

func joinMoves(joint JointMove) string {
	parts := make([]string, len(joint))
	for i, m := range joint {
		parts[i] = string(m)
	}
	return strings.Join(parts, "\x00")
}
