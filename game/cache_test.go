package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// countingOracle counts calls reaching the wrapped machine.
type countingOracle struct {
	*Machine
	legal, terminal, goal, next int
}

func (c *countingOracle) LegalMoves(state State, role Role) ([]Move, error) {
	c.legal++
	return c.Machine.LegalMoves(state, role)
}

func (c *countingOracle) IsTerminal(state State) bool {
	c.terminal++
	return c.Machine.IsTerminal(state)
}

func (c *countingOracle) GoalValue(state State, role Role) (int, error) {
	c.goal++
	return c.Machine.GoalValue(state, role)
}

func (c *countingOracle) NextState(state State, joint JointMove) (State, error) {
	c.next++
	return c.Machine.NextState(state, joint)
}

func TestCached(t *testing.T) {
	t.Run("repeated queries hit the cache", func(t *testing.T) {
		inner := &countingOracle{Machine: NewMachine(NewTicTacToe(), WithSeed(1))}
		c := NewCached(inner, 0)
		state := c.InitialState()

		for i := 0; i < 3; i++ {
			moves, err := c.LegalMoves(state, XPlayer)
			require.NoError(t, err)
			require.Len(t, moves, 9)
			require.False(t, c.IsTerminal(state))
			goal, err := c.GoalValue(state, XPlayer)
			require.NoError(t, err)
			require.Equal(t, 50, goal)
			next, err := c.NextState(state, JointMove{Mark(1, 1), Noop})
			require.NoError(t, err)
			require.Equal(t, board("xbbbbbbbb", OPlayer), next)
		}

		require.Equal(t, 1, inner.legal)
		require.Equal(t, 1, inner.terminal)
		require.Equal(t, 1, inner.goal)
		require.Equal(t, 1, inner.next)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		inner := &countingOracle{Machine: NewMachine(NewTicTacToe(), WithSeed(1))}
		c := NewCached(inner, 0)
		for i := 0; i < 2; i++ {
			_, err := c.LegalMoves(c.InitialState(), "random")
			require.ErrorIs(t, err, ErrUnknownRole)
		}
		require.Equal(t, 2, inner.legal)
	})

	t.Run("full table is cleared before insertion", func(t *testing.T) {
		c := NewCached(NewMachine(NewTicTacToe(), WithSeed(1)), 2)
		c.IsTerminal(board("xbbbbbbbb", OPlayer))
		c.IsTerminal(board("bxbbbbbbb", OPlayer))
		require.Equal(t, 2, c.Len())
		c.IsTerminal(board("bbxbbbbbb", OPlayer))
		require.Equal(t, 1, c.Len())
	})

	t.Run("random next state resolves through the cache", func(t *testing.T) {
		inner := &countingOracle{Machine: NewMachine(NewTicTacToe(), WithSeed(1))}
		c := NewCached(inner, 0)
		state := c.InitialState()
		for i := 0; i < 3; i++ {
			next, err := c.RandomNextState(state, XPlayer, Mark(2, 2))
			require.NoError(t, err)
			require.Equal(t, board("bbbbxbbbb", OPlayer), next)
		}
		require.Equal(t, 1, inner.next)
	})
}

// countingRules counts calls reaching the game definition itself.
type countingRules struct {
	TicTacToe
	legal, next int
}

func (r *countingRules) Legal(state State, role Role) ([]Move, error) {
	r.legal++
	return r.TicTacToe.Legal(state, role)
}

func (r *countingRules) Next(state State, joint JointMove) (State, error) {
	r.next++
	return r.TicTacToe.Next(state, joint)
}

func TestCachedDepthCharge(t *testing.T) {
	t.Run("rollouts reach the rules less often than uncached ones", func(t *testing.T) {
		const charges = 2000
		uncachedRules := &countingRules{}
		uncached := NewMachine(uncachedRules, WithSeed(5))
		cachedRules := &countingRules{}
		cached := NewCached(NewMachine(cachedRules, WithSeed(5)), 0)

		for i := 0; i < charges; i++ {
			_, _, err := uncached.DepthCharge(uncached.InitialState())
			require.NoError(t, err)
			_, _, err = cached.DepthCharge(cached.InitialState())
			require.NoError(t, err)
		}

		require.Less(t, cachedRules.legal, uncachedRules.legal)
		require.Less(t, cachedRules.next, uncachedRules.next)
		require.Positive(t, cached.Len())
	})

	t.Run("seeded rollouts match the uncached machine", func(t *testing.T) {
		uncached := NewMachine(NewTicTacToe(), WithSeed(11))
		cached := NewCached(NewMachine(NewTicTacToe(), WithSeed(11)), 0)

		for i := 0; i < 50; i++ {
			want, wantDepth, err := uncached.DepthCharge(uncached.InitialState())
			require.NoError(t, err)
			got, gotDepth, err := cached.DepthCharge(cached.InitialState())
			require.NoError(t, err)
			require.Equal(t, want, got)
			require.Equal(t, wantDepth, gotDepth)
		}
	})

	t.Run("random joint move fixes the role's move", func(t *testing.T) {
		c := NewCached(NewMachine(NewTicTacToe(), WithSeed(1)), 0)

		joint, err := c.RandomJointMove(c.InitialState(), XPlayer, Mark(3, 3))
		require.NoError(t, err)
		require.Equal(t, JointMove{Mark(3, 3), Noop}, joint)

		_, err = c.RandomJointMove(c.InitialState(), "random", Noop)
		require.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("cutoff applies through the cache", func(t *testing.T) {
		c := NewCached(NewMachine(NewTicTacToe(), WithSeed(1), WithMaxDepth(2)), 0)

		_, depth, err := c.DepthCharge(c.InitialState())

		require.ErrorIs(t, err, ErrDepthExceeded)
		require.Equal(t, 2, depth)
	})
}
