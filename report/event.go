package report

import (
	"ggp/game"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Event is the record of one finished decision.
type Event struct {
	Match      string
	Turn       int
	Role       game.Role
	Candidates []game.Move
	Chosen     game.Move
	Elapsed    time.Duration
	Search     SearchMetric
}

type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(e Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type multi []Observer

// Multi fans an event out to every observer in order.
func Multi(observers ...Observer) Observer {
	return multi(observers)
}

func (m multi) Observe(e Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(e)
		}
	}
}

type logObserver struct{}

// NewLogObserver writes every decision to the global logger.
func NewLogObserver() Observer {
	return logObserver{}
}

func (logObserver) Observe(e Event) {
	candidates := make([]string, len(e.Candidates))
	for i, m := range e.Candidates {
		candidates[i] = string(m)
	}
	log.Info().
		Str("match", e.Match).
		Int("turn", e.Turn).
		Str("role", string(e.Role)).
		Strs("candidates", candidates).
		Str("chosen", string(e.Chosen)).
		Int64("elapsedMs", e.Elapsed.Milliseconds()).
		Int("depthCharges", e.Search.DepthCharges).
		Int("failures", e.Search.Failures).
		Bool("overridden", e.Search.Overridden).
		Msg("selected move")
}

// Recorder stamps events with the current match and turn, keeps them, and
// forwards them to its sinks.
type Recorder struct {
	mu     sync.Mutex
	match  string
	turn   int
	events []Event
	sinks  []Observer
}

func NewRecorder(sinks ...Observer) *Recorder {
	return &Recorder{sinks: sinks}
}

// Begin starts a new match and drops the events kept for the previous one.
func (r *Recorder) Begin(match string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.match = match
	r.turn = 0
	r.events = nil
}

func (r *Recorder) SetTurn(turn int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turn = turn
}

func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	e.Match = r.match
	e.Turn = r.turn
	r.events = append(r.events, e)
	sinks := r.sinks
	r.mu.Unlock()

	for _, s := range sinks {
		s.Observe(e)
	}
}

// Events returns a copy of the events recorded since Begin.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
