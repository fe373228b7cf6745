package game

import (
	"fmt"
	"strings"
)

const (
	XPlayer Role = "xplayer"
	OPlayer Role = "oplayer"

	Noop Move = "noop"
)

const (
	blank  byte = 'b'
	cross  byte = 'x'
	naught byte = 'o'
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Board is a tic-tac-toe position. Cells are indexed row-major from the top left.
type Board struct {
	Cells   [9]byte
	Control Role
}

func (b Board) Hash() StateHash {
	var h StateHash
	for _, c := range b.Cells {
		h *= 3
		switch c {
		case cross:
			h += 1
		case naught:
			h += 2
		}
	}
	h <<= 1
	if b.Control == OPlayer {
		h |= 1
	}
	return h
}

func (b Board) String() string {
	var sb strings.Builder
	for i, c := range b.Cells {
		sb.WriteByte(c)
		if i%3 == 2 && i < 8 {
			sb.WriteByte('/')
		}
	}
	sb.WriteString(" ")
	sb.WriteString(string(b.Control))
	return sb.String()
}

// Mark returns the move term that places a mark at row r, column c (both 1-based).
func Mark(r, c int) Move {
	return Move(fmt.Sprintf("(mark %d %d)", r, c))
}

func parseMark(m Move) (int, bool) {
	var r, c int
	if _, err := fmt.Sscanf(string(m), "(mark %d %d)", &r, &c); err != nil {
		return 0, false
	}
	if r < 1 || r > 3 || c < 1 || c > 3 {
		return 0, false
	}
	return (r-1)*3 + (c - 1), true
}

// TicTacToe is the two-player alternating game used by most general game
// players as a smoke test. The role not in control may only play noop.
type TicTacToe struct{}

func NewTicTacToe() TicTacToe {
	return TicTacToe{}
}

func (TicTacToe) Roles() []Role {
	return []Role{XPlayer, OPlayer}
}

func (TicTacToe) Initial() State {
	b := Board{Control: XPlayer}
	for i := range b.Cells {
		b.Cells[i] = blank
	}
	return b
}

func asBoard(state State) (Board, error) {
	b, ok := state.(Board)
	if !ok {
		return Board{}, fmt.Errorf("unexpected state type %T", state)
	}
	return b, nil
}

func (t TicTacToe) Legal(state State, role Role) ([]Move, error) {
	b, err := asBoard(state)
	if err != nil {
		return nil, err
	}
	if role != XPlayer && role != OPlayer {
		return nil, fmt.Errorf("legal moves for %q: %w", role, ErrUnknownRole)
	}
	if t.Terminal(b) {
		return []Move{}, nil
	}
	if role != b.Control {
		return []Move{Noop}, nil
	}
	moves := []Move{}
	for i, c := range b.Cells {
		if c == blank {
			moves = append(moves, Mark(i/3+1, i%3+1))
		}
	}
	return moves, nil
}

func (t TicTacToe) Next(state State, joint JointMove) (State, error) {
	b, err := asBoard(state)
	if err != nil {
		return nil, err
	}
	if t.Terminal(b) {
		return nil, ErrTerminal
	}
	if len(joint) != 2 {
		return nil, fmt.Errorf("expected 2 moves, got %d: %w", len(joint), ErrIllegalMove)
	}

	mover, waiter, mark, next := 0, 1, cross, OPlayer
	if b.Control == OPlayer {
		mover, waiter, mark, next = 1, 0, naught, XPlayer
	}
	if joint[waiter] != Noop {
		return nil, fmt.Errorf("%s must play noop, got %s: %w", t.Roles()[waiter], joint[waiter], ErrIllegalMove)
	}
	cell, ok := parseMark(joint[mover])
	if !ok || b.Cells[cell] != blank {
		return nil, fmt.Errorf("%s cannot play %s: %w", b.Control, joint[mover], ErrIllegalMove)
	}

	b.Cells[cell] = mark
	b.Control = next
	return b, nil
}

func (TicTacToe) Terminal(state State) bool {
	b, err := asBoard(state)
	if err != nil {
		return false
	}
	if winner(b) != blank {
		return true
	}
	for _, c := range b.Cells {
		if c == blank {
			return false
		}
	}
	return true
}

func (TicTacToe) Goal(state State, role Role) (int, error) {
	b, err := asBoard(state)
	if err != nil {
		return 0, err
	}
	var own byte
	switch role {
	case XPlayer:
		own = cross
	case OPlayer:
		own = naught
	default:
		return 0, fmt.Errorf("goal for %q: %w", role, ErrUnknownRole)
	}
	switch w := winner(b); {
	case w == blank:
		return 50, nil
	case w == own:
		return MaxReward, nil
	default:
		return MinReward, nil
	}
}

func winner(b Board) byte {
	for _, l := range lines {
		c := b.Cells[l[0]]
		if c != blank && c == b.Cells[l[1]] && c == b.Cells[l[2]] {
			return c
		}
	}
	return blank
}
