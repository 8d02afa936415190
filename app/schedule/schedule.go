// Package schedule builds the slim regular-season calendar and the playoff
// bracket. Everything here is a pure function of team state; nothing touches
// the cache or storage.
package schedule

import (
	"math/rand"

	"github.com/gridiron-gm/engine/app/domain"
)

// Build produces weeks of id-only matchups via the circle method, reshuffled
// each cycle so long seasons do not repeat the same rotation. With an even
// team count every team plays every week.
func Build(teamIDs []string, weeks int, rng *rand.Rand) []domain.ScheduleWeek {
	ids := append([]string{}, teamIDs...)
	if len(ids) < 2 {
		return nil
	}
	if len(ids)%2 == 1 {
		ids = append(ids, "") // bye slot
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	n := len(ids)
	rounds := n - 1
	out := make([]domain.ScheduleWeek, 0, weeks)
	for w := 1; w <= weeks; w++ {
		round := (w - 1) % rounds
		if w > 1 && round == 0 {
			rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		}
		wk := domain.ScheduleWeek{Week: w}
		for i := 0; i < n/2; i++ {
			home := ids[rotIndex(i, round, n)]
			away := ids[rotIndex(n-1-i, round, n)]
			if home == "" || away == "" {
				continue
			}
			// Alternate hosting so the fixed pivot is not always at home.
			if (w+i)%2 == 0 {
				home, away = away, home
			}
			wk.Matchups = append(wk.Matchups, domain.Matchup{HomeID: home, AwayID: away})
		}
		out = append(out, wk)
	}
	return out
}

// rotIndex implements the circle method: position 0 is fixed, the rest
// rotate by the round number.
func rotIndex(pos, round, n int) int {
	if pos == 0 {
		return 0
	}
	return 1 + (pos-1+round)%(n-1)
}
