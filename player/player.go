package player

import (
	"fmt"
	"ggp/game"
	"ggp/searcher"
	"time"

	"github.com/rs/zerolog/log"
)

// Gamer binds a MoveSelector to one role of a match and carries the state
// the match driver hands it. Lifecycle hooks other than move selection have
// nothing to do.
type Gamer struct {
	name     string
	role     game.Role
	state    game.State
	selector searcher.MoveSelector
}

func NewGamer(name string, selector searcher.MoveSelector) *Gamer {
	return &Gamer{
		name:     name,
		selector: selector,
	}
}

func (g *Gamer) Name() string {
	return g.name
}

func (g *Gamer) Role() game.Role {
	return g.role
}

func (g *Gamer) State() game.State {
	return g.state
}

// Start assigns the role and the opening state for a new match.
func (g *Gamer) Start(role game.Role, state game.State) {
	g.role = role
	g.state = state
	log.Debug().Str("gamer", g.name).Str("role", string(role)).Msg("match started")
}

func (g *Gamer) MetaGame(timeout time.Time) {
	log.Debug().Str("gamer", g.name).Time("timeout", timeout).Msg("metagame skipped")
}

func (g *Gamer) Preview(timeout time.Time) {
	log.Debug().Str("gamer", g.name).Time("timeout", timeout).Msg("preview skipped")
}

func (g *Gamer) Update(state game.State) {
	g.state = state
}

func (g *Gamer) SelectMove(deadline time.Time) (game.Move, error) {
	if g.state == nil {
		return "", fmt.Errorf("gamer %s has not started a match", g.name)
	}
	return g.selector.SelectMove(g.state, g.role, deadline)
}

func (g *Gamer) Stop() {
	log.Debug().Str("gamer", g.name).Msg("match stopped")
}

func (g *Gamer) Abort() {
	log.Debug().Str("gamer", g.name).Msg("match aborted")
}
