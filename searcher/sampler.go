package searcher

import (
	"ggp/game"
	"ggp/utils"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// failedReward scores a depth charge that the oracle could not complete.
const failedReward = 0

type moveStats struct {
	total   []int
	samples []int
}

func newMoveStats(n int) moveStats {
	return moveStats{
		total:   make([]int, n),
		samples: make([]int, n),
	}
}

func (m moveStats) add(i, reward int) {
	m.total[i] += reward
	m.samples[i]++
}

// average is negative infinity for a move that was never sampled, so it loses
// to every sampled move.
func (m moveStats) average(i int) float64 {
	if m.samples[i] == 0 {
		return math.Inf(-1)
	}
	return float64(m.total[i]) / float64(m.samples[i])
}

// best returns the first move with the highest average; 0 if nothing was sampled.
func (m moveStats) best() int {
	averages := make([]float64, len(m.samples))
	for i := range averages {
		averages[i] = m.average(i)
	}
	return utils.ArgMax(averages)
}

// sample cycles over moves running one depth charge each until finishBy has
// passed or the episode budget is spent. The clock is checked once per
// charge, so the loop may overrun finishBy by one charge.
func (s *Selector) sample(root game.State, role game.Role, moves []game.Move, finishBy time.Time) moveStats {
	stats := newMoveStats(len(moves))
	for i, episode := 0, 0; ; i, episode = (i+1)%len(moves), episode+1 {
		if s.now().After(finishBy) {
			break
		}
		if s.episodes > 0 && episode >= s.episodes {
			break
		}

		c := s.depthCharge(root, role, moves[i])
		if c.err != nil {
			log.Warn().Err(c.err).Str("role", string(role)).Str("move", string(moves[i])).Msg("depth charge failed")
			s.metrics.AddFailure()
			stats.add(i, failedReward)
			continue
		}
		s.metrics.AddDepthCharge(c.depth)
		stats.add(i, c.reward)
	}
	return stats
}
