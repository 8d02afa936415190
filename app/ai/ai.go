// Package ai holds the heuristic collaborators: trade valuation, free-agency
// day processing, and needs-weighted draft selection. Everything here is a
// pure function over cache-visible state; the calling service applies the
// returned actions.
package ai

import (
	"math/rand"
	"sort"

	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/gen"
)

// PlayerValue scores a player for trade and draft purposes: current ability
// plus upside, discounted by age.
func PlayerValue(p *domain.Player) float64 {
	v := float64(p.Overall)
	if p.Potential > p.Overall {
		v += float64(p.Potential-p.Overall) * 0.4
	}
	if p.Age > 29 {
		v -= float64(p.Age-29) * 1.5
	}
	return v
}

// TradeVerdict is the AI's answer to a trade proposal.
type TradeVerdict struct {
	Accept bool
	Reason string
}

// ValueTrade judges a proposal from the receiving team's perspective:
// incoming is what the team would get, outgoing what it would give up. The
// AI wants a modest premium before it says yes.
func ValueTrade(incoming, outgoing []*domain.Player) TradeVerdict {
	if len(incoming) == 0 {
		return TradeVerdict{Accept: false, Reason: "nothing offered"}
	}
	in, out := 0.0, 0.0
	for _, p := range incoming {
		in += PlayerValue(p)
	}
	for _, p := range outgoing {
		out += PlayerValue(p)
	}
	if in >= out*1.1 {
		return TradeVerdict{Accept: true, Reason: "fair value"}
	}
	return TradeVerdict{Accept: false, Reason: "offer falls short of asking value"}
}

// Signing is one free-agency action for the engine to apply.
type Signing struct {
	TeamID   string
	PlayerID string
	Contract domain.Contract
}

// RunFreeAgencyDay processes one day of league-wide free agency. Pending user
// offers resolve first (a player takes the richest offer that beats his
// asking price), then AI teams fill their worst positional hole with the best
// available fit they can afford. At most one AI signing per team per day.
func RunFreeAgencyDay(teams []*domain.Team, rosters map[string][]*domain.Player, freeAgents []*domain.Player, rng *rand.Rand) []Signing {
	var signings []Signing
	signed := map[string]bool{}

	for _, fa := range freeAgents {
		if best, ok := bestOffer(fa); ok {
			signings = append(signings, Signing{TeamID: best.TeamID, PlayerID: fa.ID, Contract: best.Contract})
			signed[fa.ID] = true
		}
	}

	// Worst teams shop first, mirroring waiver priority.
	order := append([]*domain.Team{}, teams...)
	sort.Slice(order, func(i, j int) bool {
		if order[i].Wins != order[j].Wins {
			return order[i].Wins < order[j].Wins
		}
		return order[i].ID < order[j].ID
	})

	for _, team := range order {
		var pick *domain.Player
		for _, pos := range needsByDeficit(rosters[team.ID]) {
			for _, fa := range freeAgents {
				if signed[fa.ID] || fa.Pos != pos {
					continue
				}
				if fa.Contract.CapHit() > team.CapRoom {
					continue
				}
				if pick == nil || PlayerValue(fa) > PlayerValue(pick) {
					pick = fa
				}
			}
			if pick != nil {
				break
			}
		}
		if pick == nil {
			continue
		}
		// A touch of restraint keeps every team from signing daily.
		if rng != nil && rng.Float64() < 0.25 {
			continue
		}
		signings = append(signings, Signing{TeamID: team.ID, PlayerID: pick.ID, Contract: pick.Contract})
		signed[pick.ID] = true
	}
	return signings
}

func bestOffer(fa *domain.Player) (domain.Offer, bool) {
	var best domain.Offer
	found := false
	for _, o := range fa.Offers {
		if !found || o.Contract.CapHit() > best.Contract.CapHit() {
			best, found = o, true
		}
	}
	if !found {
		return domain.Offer{}, false
	}
	asking := gen.AskingContract(fa.Overall, fa.Age)
	if best.Contract.CapHit() < asking.CapHit()*0.9 {
		return domain.Offer{}, false
	}
	return best, true
}

// needsByDeficit returns the position groups below the roster template,
// biggest hole first.
func needsByDeficit(roster []*domain.Player) []domain.Position {
	have := map[domain.Position]int{}
	for _, p := range roster {
		have[p.Pos]++
	}
	type need struct {
		pos     domain.Position
		deficit int
	}
	var needs []need
	for _, pos := range domain.Positions {
		if d := domain.RosterTemplate[pos] - have[pos]; d > 0 {
			needs = append(needs, need{pos, d})
		}
	}
	sort.SliceStable(needs, func(i, j int) bool { return needs[i].deficit > needs[j].deficit })
	out := make([]domain.Position, 0, len(needs))
	for _, n := range needs {
		out = append(out, n.pos)
	}
	return out
}

// SelectPick is the needs-weighted best-available draft heuristic: raw value
// plus a bonus scaled by how thin the team is at the prospect's position.
func SelectPick(roster []*domain.Player, pool []*domain.Player) *domain.Player {
	have := map[domain.Position]int{}
	for _, p := range roster {
		have[p.Pos]++
	}
	var best *domain.Player
	bestScore := -1.0
	for _, prospect := range pool {
		score := PlayerValue(prospect)
		if target := domain.RosterTemplate[prospect.Pos]; target > 0 {
			need := float64(target-have[prospect.Pos]) / float64(target)
			if need > 0 {
				score += need * 8
			}
		}
		if score > bestScore {
			best, bestScore = prospect, score
		}
	}
	return best
}
