package searcher

import (
	"fmt"
	"ggp/game"
	"ggp/report"
	"time"
)

// DefaultMargin is reserved before the deadline for the one-ply pass.
const DefaultMargin = 5000 * time.Millisecond

// MoveSelector picks one move for role in state before deadline.
type MoveSelector interface {
	SelectMove(state game.State, role game.Role, deadline time.Time) (game.Move, error)
}

type Option func(s *Selector)

// Selector estimates each legal move with round-robin depth charges, then
// looks one ply ahead for an immediate win before committing.
type Selector struct {
	oracle      game.Oracle
	margin      time.Duration
	episodes    int
	fromInitial bool
	observer    report.Observer
	metrics     report.Collector
	now         func() time.Time
}

func WithMargin(margin time.Duration) Option {
	return func(s *Selector) {
		if margin >= 0 {
			s.margin = margin
		}
	}
}

// WithEpisodes caps the number of depth charges per decision. The deadline
// still applies.
func WithEpisodes(episodes int) Option {
	return func(s *Selector) {
		if episodes > 0 {
			s.episodes = episodes
		}
	}
}

// WithInitialStateRollouts roots every depth charge at the game's initial
// state instead of the decision state.
func WithInitialStateRollouts() Option {
	return func(s *Selector) {
		s.fromInitial = true
	}
}

func WithObserver(observer report.Observer) Option {
	return func(s *Selector) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func WithMetrics() Option {
	return func(s *Selector) {
		s.metrics = report.NewCollector()
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSelector(oracle game.Oracle, options ...Option) *Selector {
	s := &Selector{ // Default values
		oracle:   oracle,
		margin:   DefaultMargin,
		observer: report.Multi(),
		metrics:  report.NewDummyCollector(),
		now:      time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// SelectMove always yields a move once the oracle has produced candidates;
// the only errors are failing to enumerate them.
func (s *Selector) SelectMove(state game.State, role game.Role, deadline time.Time) (game.Move, error) {
	start := s.now()
	s.metrics.Start()

	moves, err := s.oracle.LegalMoves(state, role)
	if err != nil {
		return "", fmt.Errorf("legal moves for %s: %w", role, err)
	}
	if len(moves) == 0 {
		return "", fmt.Errorf("role %s: %w", role, game.ErrNoLegalMoves)
	}

	selection := moves[0]
	if len(moves) > 1 {
		root := state
		if s.fromInitial {
			root = s.oracle.InitialState()
		}
		stats := s.sample(root, role, moves, deadline.Add(-s.margin))
		selection = moves[stats.best()]

		if move, ok := s.lookahead(state, role, moves); ok {
			s.metrics.SetOverridden(move != selection)
			selection = move
		}
	}

	s.observer.Observe(report.Event{
		Role:       role,
		Candidates: moves,
		Chosen:     selection,
		Elapsed:    s.now().Sub(start),
		Search:     s.metrics.Complete(),
	})
	return selection, nil
}

var _ MoveSelector = (*Selector)(nil)
