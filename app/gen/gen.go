// Package gen produces teams, coaches and players: league creation rosters,
// annual draft classes, and replacement free agents backfilled after
// retirements.
package gen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/gridiron-gm/engine/app/domain"
)

var schemes = []string{"air raid", "west coast", "ground and pound", "spread", "zone blitz"}

// Generator creates league entities from a seeded source so league creation
// is reproducible.
type Generator struct {
	faker *gofakeit.Faker
	rng   *rand.Rand
	seq   int
}

// New returns a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(uint64(seed)),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Teams builds the 32-team league from the fixed franchise template.
func (g *Generator) Teams(capTotal float64) []*domain.Team {
	out := make([]*domain.Team, 0, len(franchises))
	for _, f := range franchises {
		out = append(out, &domain.Team{
			ID:         "team-" + strings.ToLower(f.Abbr),
			Name:       f.Name,
			Abbr:       f.Abbr,
			Conference: f.Conference,
			Division:   f.Division,
			CapTotal:   capTotal,
			CapRoom:    capTotal,
			Coach:      g.Coach(),
		})
	}
	return out
}

// Coach generates a head coach.
func (g *Generator) Coach() domain.Coach {
	return domain.Coach{
		Name:   g.faker.FirstName() + " " + g.faker.LastName(),
		Scheme: schemes[g.rng.Intn(len(schemes))],
	}
}

// Roster fills one team to the roster template with active veterans.
func (g *Generator) Roster(teamID string) []*domain.Player {
	var out []*domain.Player
	for _, pos := range domain.Positions {
		for i := 0; i < domain.RosterTemplate[pos]; i++ {
			p := g.Player(pos, 22, 33, 58, 92)
			p.Status = domain.StatusActive
			p.TeamID = teamID
			out = append(out, p)
		}
	}
	return out
}

// DraftClass generates size draft-eligible prospects for one draft year.
func (g *Generator) DraftClass(year, size int) []*domain.Player {
	out := make([]*domain.Player, 0, size)
	for i := 0; i < size; i++ {
		pos := domain.Positions[g.rng.Intn(len(domain.Positions))]
		p := g.Player(pos, 21, 23, 55, 85)
		// Prospects carry more upside than finished veterans.
		p.Potential = min(99, p.Overall+5+g.rng.Intn(15))
		p.Status = domain.StatusDraftEligible
		out = append(out, p)
	}
	return out
}

// ReplacementFreeAgents backfills the free-agent pool after retirements.
func (g *Generator) ReplacementFreeAgents(n int) []*domain.Player {
	out := make([]*domain.Player, 0, n)
	for i := 0; i < n; i++ {
		pos := domain.Positions[g.rng.Intn(len(domain.Positions))]
		p := g.Player(pos, 23, 30, 55, 78)
		p.Status = domain.StatusFreeAgent
		out = append(out, p)
	}
	return out
}

// Player generates one player in the given age and overall ranges with an
// asking contract priced off the rating.
func (g *Generator) Player(pos domain.Position, ageMin, ageMax, ovrMin, ovrMax int) *domain.Player {
	g.seq++
	age := ageMin + g.rng.Intn(ageMax-ageMin+1)
	overall := ovrMin + g.rng.Intn(ovrMax-ovrMin+1)
	potential := overall
	if age < 27 {
		potential = min(99, overall+g.rng.Intn(12))
	}
	return &domain.Player{
		ID:        fmt.Sprintf("pl-%06d-%04x", g.seq, g.rng.Intn(1<<16)),
		Name:      g.faker.FirstName() + " " + g.faker.LastName(),
		Pos:       pos,
		Age:       age,
		Overall:   overall,
		Potential: potential,
		Contract:  AskingContract(overall, age),
		Status:    domain.StatusFreeAgent,
	}
}

// AskingContract prices a player's expected deal from rating and age.
func AskingContract(overall, age int) domain.Contract {
	base := 0.8 + float64(overall-55)*0.22
	if base < 0.8 {
		base = 0.8
	}
	years := 2
	switch {
	case age < 26:
		years = 4
	case age < 30:
		years = 3
	}
	return domain.Contract{
		Years:         years,
		BaseAnnual:    round1(base),
		SigningBonus:  round1(base * 0.5),
		GuaranteedPct: 50,
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
