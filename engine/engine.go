package engine

import (
	"context"
	"ggp/game"
	"ggp/report"
	"time"
)

// MaxTurns stops a match that has not reached a terminal state.
const MaxTurns = 300

type Engine interface {
	// Run plays a match until a terminal state, MaxTurns, or ctx is done
	Run(ctx context.Context) (Result, error)
}

type Result struct {
	Match     string
	Roles     []game.Role
	Goals     []int // indexed like Roles; empty when the match did not finish
	Turns     int
	Finished  bool
	StartTime time.Time
	EndTime   time.Time
	Events    []report.Event
}

func (r Result) Record() report.MatchRecord {
	return report.MatchRecord{
		ID:        r.Match,
		Roles:     r.Roles,
		Goals:     r.Goals,
		Turns:     r.Turns,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Duration:  r.EndTime.Sub(r.StartTime),
	}
}
