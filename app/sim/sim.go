// Package sim is the statistical game simulator boundary. The engine treats
// it as a black box: rosters in, scores and box scores out.
package sim

import (
	"context"
	"math/rand"
	"sort"

	"github.com/gridiron-gm/engine/app/domain"
)

// TeamSide is one side of a matchup, expanded from the slim schedule at the
// simulation boundary.
type TeamSide struct {
	Team   *domain.Team
	Roster []*domain.Player
}

// Matchup pairs two rosters for one game.
type Matchup struct {
	Home TeamSide
	Away TeamSide
}

// Result is one simulated game: final score plus box-score lines.
type Result struct {
	HomeScore int
	AwayScore int
	Lines     []domain.StatLine
}

// GameSimulator turns matchups into results. Playoff mode never returns ties.
type GameSimulator interface {
	Simulate(ctx context.Context, matchups []Matchup, playoff bool) ([]Result, error)
}

// Simulator is the default statistical implementation.
type Simulator struct {
	rng *rand.Rand
}

var _ GameSimulator = (*Simulator)(nil)

// New returns a simulator with its own seeded source.
func New(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Simulate plays every matchup in order.
func (s *Simulator) Simulate(_ context.Context, matchups []Matchup, playoff bool) ([]Result, error) {
	out := make([]Result, 0, len(matchups))
	for _, m := range matchups {
		out = append(out, s.playGame(m, playoff))
	}
	return out, nil
}

func (s *Simulator) playGame(m Matchup, playoff bool) Result {
	homeStrength := rosterStrength(m.Home.Roster) + 1.5 // home edge
	awayStrength := rosterStrength(m.Away.Roster)

	homeScore := s.score(homeStrength)
	awayScore := s.score(awayStrength)
	if playoff {
		// Sudden death: the stronger side converts more often.
		for homeScore == awayScore {
			if s.rng.Float64() < winChance(homeStrength, awayStrength) {
				homeScore += 3
			} else {
				awayScore += 3
			}
		}
	}

	res := Result{HomeScore: homeScore, AwayScore: awayScore}
	res.Lines = append(res.Lines, s.teamLines(m.Home, homeScore)...)
	res.Lines = append(res.Lines, s.teamLines(m.Away, awayScore)...)
	return res
}

func (s *Simulator) score(strength float64) int {
	pts := 10 + (strength-60)/2.5 + s.rng.NormFloat64()*8
	if pts < 0 {
		return 0
	}
	return int(pts)
}

func rosterStrength(roster []*domain.Player) float64 {
	if len(roster) == 0 {
		return 40
	}
	sum := 0.0
	for _, p := range roster {
		sum += float64(p.Overall)
	}
	return sum / float64(len(roster))
}

func winChance(a, b float64) float64 {
	diff := a - b
	p := 0.5 + diff/40
	if p < 0.1 {
		return 0.1
	}
	if p > 0.9 {
		return 0.9
	}
	return p
}

// teamLines fabricates a box score consistent with the team's point total:
// the starting QB throws for the passing yards the receivers catch.
func (s *Simulator) teamLines(side TeamSide, points int) []domain.StatLine {
	byPos := map[domain.Position][]*domain.Player{}
	for _, p := range side.Roster {
		byPos[p.Pos] = append(byPos[p.Pos], p)
	}
	for _, group := range byPos {
		sort.Slice(group, func(i, j int) bool { return group[i].Overall > group[j].Overall })
	}

	teamID := side.Team.ID
	var lines []domain.StatLine
	line := func(p *domain.Player) *domain.StatLine {
		lines = append(lines, domain.StatLine{PlayerID: p.ID, TeamID: teamID, Name: p.Name, Pos: p.Pos})
		return &lines[len(lines)-1]
	}

	tds := points / 7
	passYd := 150 + s.rng.Intn(160) + points*2
	rushYd := 70 + s.rng.Intn(90)

	if qbs := byPos[domain.PosQB]; len(qbs) > 0 {
		qb := line(qbs[0])
		qb.PassYd = passYd
		qb.PassTD = tds * 2 / 3
	}
	if rbs := byPos[domain.PosRB]; len(rbs) > 0 {
		lead := line(rbs[0])
		lead.RushYd = rushYd * 7 / 10
		lead.RushTD = tds - tds*2/3
		if len(rbs) > 1 {
			backup := line(rbs[1])
			backup.RushYd = rushYd - lead.RushYd
		}
	}

	// Split the passing yards across the top targets, biggest share first.
	targets := append(append([]*domain.Player{}, byPos[domain.PosWR]...), byPos[domain.PosTE]...)
	sort.Slice(targets, func(i, j int) bool { return targets[i].Overall > targets[j].Overall })
	remaining := passYd
	shares := []int{40, 30, 20, 10}
	for i, t := range targets {
		if i >= len(shares) || remaining <= 0 {
			break
		}
		yd := passYd * shares[i] / 100
		if yd > remaining {
			yd = remaining
		}
		remaining -= yd
		rl := line(t)
		rl.RecYd = yd
		rl.Rec = yd / 11
		if i == 0 {
			rl.RecTD = tds * 2 / 3
		}
	}

	for _, pos := range []domain.Position{domain.PosDL, domain.PosLB, domain.PosCB, domain.PosS} {
		for i, p := range byPos[pos] {
			if i >= 2 {
				break
			}
			dl := line(p)
			dl.Tackles = 2 + s.rng.Intn(7)
			if pos == domain.PosDL && s.rng.Intn(3) == 0 {
				dl.Sacks = 1
			}
			if (pos == domain.PosCB || pos == domain.PosS) && s.rng.Intn(8) == 0 {
				dl.Interceptions = 1
			}
		}
	}
	return lines
}
