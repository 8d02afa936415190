package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/domain"
)

func TestValueTradeWantsPremium(t *testing.T) {
	star := &domain.Player{ID: "star", Overall: 92, Potential: 92, Age: 27}
	scrub := &domain.Player{ID: "scrub", Overall: 60, Potential: 60, Age: 27}

	verdict := ValueTrade([]*domain.Player{scrub}, []*domain.Player{star})
	assert.False(t, verdict.Accept, "a scrub for a star must be rejected")

	verdict = ValueTrade([]*domain.Player{star}, []*domain.Player{scrub})
	assert.True(t, verdict.Accept)
}

func TestValueTradeRejectsEmptyOffer(t *testing.T) {
	verdict := ValueTrade(nil, []*domain.Player{{ID: "a", Overall: 70}})
	assert.False(t, verdict.Accept)
}

func TestSelectPickWeighsNeed(t *testing.T) {
	// Roster has no QB at all; the slightly weaker QB should beat the WR.
	roster := []*domain.Player{
		{ID: "wr1", Pos: domain.PosWR, Overall: 80},
		{ID: "wr2", Pos: domain.PosWR, Overall: 78},
		{ID: "wr3", Pos: domain.PosWR, Overall: 76},
		{ID: "wr4", Pos: domain.PosWR, Overall: 75},
	}
	pool := []*domain.Player{
		{ID: "qb", Pos: domain.PosQB, Overall: 78, Potential: 80, Age: 22},
		{ID: "wr", Pos: domain.PosWR, Overall: 80, Potential: 82, Age: 22},
	}
	pick := SelectPick(roster, pool)
	require.NotNil(t, pick)
	assert.Equal(t, "qb", pick.ID)
}

func TestRunFreeAgencyDayResolvesBestOffer(t *testing.T) {
	fa := &domain.Player{
		ID: "fa-1", Pos: domain.PosWR, Age: 28, Overall: 75,
		Status:   domain.StatusFreeAgent,
		Contract: domain.Contract{Years: 3, BaseAnnual: 5, SigningBonus: 2},
		Offers: []domain.Offer{
			{TeamID: "team-low", Contract: domain.Contract{Years: 2, BaseAnnual: 1, SigningBonus: 0}},
			{TeamID: "team-high", Contract: domain.Contract{Years: 3, BaseAnnual: 8, SigningBonus: 3}},
		},
	}
	signings := RunFreeAgencyDay(nil, nil, []*domain.Player{fa}, rand.New(rand.NewSource(1)))
	require.Len(t, signings, 1)
	assert.Equal(t, "team-high", signings[0].TeamID)
	assert.Equal(t, "fa-1", signings[0].PlayerID)
}

func TestRunFreeAgencyDaySkipsLowballOffers(t *testing.T) {
	fa := &domain.Player{
		ID: "fa-1", Pos: domain.PosWR, Age: 28, Overall: 90,
		Status: domain.StatusFreeAgent,
		Offers: []domain.Offer{
			{TeamID: "team-low", Contract: domain.Contract{Years: 1, BaseAnnual: 0.5}},
		},
	}
	signings := RunFreeAgencyDay(nil, nil, []*domain.Player{fa}, rand.New(rand.NewSource(1)))
	assert.Empty(t, signings)
}

func TestRunFreeAgencyDayFillsWorstHole(t *testing.T) {
	team := &domain.Team{ID: "team-1", CapRoom: 50}
	// Full roster except zero kickers and one missing WR: kicker deficit is
	// relatively larger, but WR deficit (3 of 4) is bigger in absolute terms.
	roster := []*domain.Player{
		{ID: "qb1", Pos: domain.PosQB}, {ID: "qb2", Pos: domain.PosQB},
		{ID: "wr1", Pos: domain.PosWR},
	}
	fas := []*domain.Player{
		{ID: "fa-wr", Pos: domain.PosWR, Overall: 70, Age: 26, Contract: domain.Contract{Years: 2, BaseAnnual: 3}},
		{ID: "fa-k", Pos: domain.PosK, Overall: 70, Age: 26, Contract: domain.Contract{Years: 2, BaseAnnual: 1}},
	}
	// nil rng disables the restraint roll so the outcome is deterministic.
	signings := RunFreeAgencyDay([]*domain.Team{team}, map[string][]*domain.Player{"team-1": roster}, fas, nil)
	require.NotEmpty(t, signings)
	assert.Equal(t, "team-1", signings[0].TeamID)
}
