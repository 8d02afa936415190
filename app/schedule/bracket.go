package schedule

import (
	"sort"

	"github.com/gridiron-gm/engine/app/domain"
)

// SeedsPerConference is the NFL-style postseason field.
const SeedsPerConference = 7

// Seedings ranks each conference by wins, then point differential, then
// points scored, then id, and returns the top seven seeds. A conference with
// fewer than seven teams is left out of the bracket entirely.
func Seedings(teams []*domain.Team) map[string][]domain.PlayoffSeed {
	byConf := map[string][]*domain.Team{}
	for _, t := range teams {
		byConf[t.Conference] = append(byConf[t.Conference], t)
	}
	out := map[string][]domain.PlayoffSeed{}
	for conf, ts := range byConf {
		if len(ts) < SeedsPerConference {
			continue
		}
		sort.Slice(ts, func(i, j int) bool {
			a, b := ts[i], ts[j]
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.PointDiff() != b.PointDiff() {
				return a.PointDiff() > b.PointDiff()
			}
			if a.PointsFor != b.PointsFor {
				return a.PointsFor > b.PointsFor
			}
			return a.ID < b.ID
		})
		seeds := make([]domain.PlayoffSeed, 0, SeedsPerConference)
		for i := 0; i < SeedsPerConference; i++ {
			seeds = append(seeds, domain.PlayoffSeed{Seed: i + 1, TeamID: ts[i].ID})
		}
		out[conf] = seeds
	}
	return out
}

// BuildPlayoffs seeds the field and lays out the wildcard round: 2v7, 3v6 and
// 4v5 in each conference with the higher seed hosting. The 1 seed rests on a
// bye until the divisional round.
func BuildPlayoffs(teams []*domain.Team) *domain.PlayoffState {
	ps := &domain.PlayoffState{
		Round: domain.RoundWildcard,
		Seeds: Seedings(teams),
	}
	for _, conf := range sortedConferences(ps.Seeds) {
		seeds := ps.Seeds[conf]
		for _, pair := range [][2]int{{2, 7}, {3, 6}, {4, 5}} {
			ps.Matches = append(ps.Matches, domain.PlayoffMatch{
				Round:      domain.RoundWildcard,
				Conference: conf,
				HomeID:     seeds[pair[0]-1].TeamID,
				AwayID:     seeds[pair[1]-1].TeamID,
			})
		}
	}
	return ps
}

// NextRound derives the following round's matches once every match of the
// current round has a winner. Divisional: the bye seed meets the lowest
// surviving seed and the other two survivors pair off. Conference: the two
// divisional winners. Super Bowl: the conference champions with the better
// record hosting. Returns false while the current round is still open.
func NextRound(ps *domain.PlayoffState, teamOf func(id string) *domain.Team) ([]domain.PlayoffMatch, bool) {
	for _, m := range ps.RoundMatches(ps.Round) {
		if m.WinnerID == "" {
			return nil, false
		}
	}
	next, ok := ps.Round.Next()
	if !ok {
		return nil, false
	}
	switch next {
	case domain.RoundDivisional, domain.RoundConference:
		var out []domain.PlayoffMatch
		for _, conf := range sortedConferences(ps.Seeds) {
			survivors := confSurvivors(ps, conf)
			if next == domain.RoundDivisional {
				survivors = append(survivors, ps.Seeds[conf][0]) // bye seed enters
			}
			sort.Slice(survivors, func(i, j int) bool { return survivors[i].Seed < survivors[j].Seed })
			for len(survivors) >= 2 {
				home := survivors[0]
				away := survivors[len(survivors)-1]
				out = append(out, domain.PlayoffMatch{
					Round:      next,
					Conference: conf,
					HomeID:     home.TeamID,
					AwayID:     away.TeamID,
				})
				survivors = survivors[1 : len(survivors)-1]
			}
		}
		return out, true
	case domain.RoundSuperBowl:
		var champs []domain.PlayoffSeed
		for _, conf := range sortedConferences(ps.Seeds) {
			champs = append(champs, confSurvivors(ps, conf)...)
		}
		if len(champs) != 2 {
			return nil, false
		}
		home, away := champs[0], champs[1]
		if better(teamOf(away.TeamID), teamOf(home.TeamID)) {
			home, away = away, home
		}
		return []domain.PlayoffMatch{{
			Round:  domain.RoundSuperBowl,
			HomeID: home.TeamID,
			AwayID: away.TeamID,
		}}, true
	default:
		return nil, false
	}
}

// LoneFinalist reports the single surviving team of a bracket that cannot
// reach a Super Bowl, which happens when only one conference seeded a field.
// Valid only once the current round is fully decided.
func LoneFinalist(ps *domain.PlayoffState) (string, bool) {
	var survivors []domain.PlayoffSeed
	for _, m := range ps.RoundMatches(ps.Round) {
		if m.WinnerID == "" {
			return "", false
		}
	}
	for _, conf := range sortedConferences(ps.Seeds) {
		survivors = append(survivors, confSurvivors(ps, conf)...)
	}
	if len(survivors) != 1 {
		return "", false
	}
	return survivors[0].TeamID, true
}

// confSurvivors returns seeds whose teams won their match in the current
// round of the given conference, best seed first.
func confSurvivors(ps *domain.PlayoffState, conf string) []domain.PlayoffSeed {
	var out []domain.PlayoffSeed
	for _, m := range ps.RoundMatches(ps.Round) {
		if m.Conference != conf || m.WinnerID == "" {
			continue
		}
		out = append(out, domain.PlayoffSeed{Seed: ps.SeedOf(m.WinnerID), TeamID: m.WinnerID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seed < out[j].Seed })
	return out
}

func better(a, b *domain.Team) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	return a.PointDiff() > b.PointDiff()
}

func sortedConferences(seeds map[string][]domain.PlayoffSeed) []string {
	confs := make([]string, 0, len(seeds))
	for c := range seeds {
		confs = append(confs, c)
	}
	sort.Strings(confs)
	return confs
}
