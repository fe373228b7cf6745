package searcher

import (
	"errors"
	"ggp/game"
	"hash/fnv"
	"strings"
	"time"
)

const me game.Role = "me"

var errMock = errors.New("mock failure")

type mockState struct {
	id string
}

func (s mockState) Hash() game.StateHash {
	h := fnv.New64a()
	h.Write([]byte(s.id))
	return game.StateHash(h.Sum64())
}

// mockOracle is a single-role game. Playing a move from any state leads to
// "after:<move>", whose depth charge ends in "end:<move>" worth outcome[move].
// The one-ply continuation of a move leads to "next:<move>", terminal when
// immediate has an entry for the move.
type mockOracle struct {
	moves     []game.Move
	outcome   map[game.Move]int
	immediate map[game.Move]int
	fail      map[game.Move]error
	panics    map[game.Move]bool
	delay     time.Duration

	legalErr error
	roots    []game.State
	charges  map[game.Move]int
	joints   int
}

func newMockOracle(moves ...game.Move) *mockOracle {
	return &mockOracle{
		moves:     moves,
		outcome:   map[game.Move]int{},
		immediate: map[game.Move]int{},
		fail:      map[game.Move]error{},
		panics:    map[game.Move]bool{},
		charges:   map[game.Move]int{},
	}
}

func (o *mockOracle) Roles() []game.Role { return []game.Role{me} }

func (o *mockOracle) InitialState() game.State { return mockState{id: "initial"} }

func (o *mockOracle) LegalMoves(game.State, game.Role) ([]game.Move, error) {
	if o.legalErr != nil {
		return nil, o.legalErr
	}
	return o.moves, nil
}

func (o *mockOracle) RandomJointMove(_ game.State, _ game.Role, move game.Move) (game.JointMove, error) {
	o.joints++
	return game.JointMove{move}, nil
}

func (o *mockOracle) NextState(_ game.State, joint game.JointMove) (game.State, error) {
	return mockState{id: "next:" + string(joint[0])}, nil
}

func (o *mockOracle) RandomNextState(state game.State, _ game.Role, move game.Move) (game.State, error) {
	o.roots = append(o.roots, state)
	o.charges[move]++
	if o.panics[move] {
		panic("broken rules")
	}
	if err := o.fail[move]; err != nil {
		return nil, err
	}
	return mockState{id: "after:" + string(move)}, nil
}

func (o *mockOracle) IsTerminal(state game.State) bool {
	id := state.(mockState).id
	if strings.HasPrefix(id, "end:") {
		return true
	}
	if move, ok := strings.CutPrefix(id, "next:"); ok {
		_, terminal := o.immediate[game.Move(move)]
		return terminal
	}
	return false
}

func (o *mockOracle) GoalValue(state game.State, _ game.Role) (int, error) {
	id := state.(mockState).id
	if move, ok := strings.CutPrefix(id, "end:"); ok {
		return o.outcome[game.Move(move)], nil
	}
	if move, ok := strings.CutPrefix(id, "next:"); ok {
		return o.immediate[game.Move(move)], nil
	}
	return 0, errMock
}

func (o *mockOracle) DepthCharge(state game.State) (game.State, int, error) {
	if o.delay > 0 {
		time.Sleep(o.delay)
	}
	move, _ := strings.CutPrefix(state.(mockState).id, "after:")
	return mockState{id: "end:" + move}, 3, nil
}

func (o *mockOracle) totalCharges() int {
	n := 0
	for _, c := range o.charges {
		n += c
	}
	return n
}
