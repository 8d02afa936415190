package sim

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/domain"
)

func side(teamID string, overall int) TeamSide {
	team := &domain.Team{ID: teamID, Abbr: teamID}
	var roster []*domain.Player
	i := 0
	for _, pos := range domain.Positions {
		for n := 0; n < domain.RosterTemplate[pos]; n++ {
			i++
			roster = append(roster, &domain.Player{
				ID:      fmt.Sprintf("%s-p%02d", teamID, i),
				Name:    fmt.Sprintf("Player %d", i),
				Pos:     pos,
				Overall: overall,
				Status:  domain.StatusActive,
				TeamID:  teamID,
			})
		}
	}
	return TeamSide{Team: team, Roster: roster}
}

func TestSimulateReturnsOneResultPerMatchup(t *testing.T) {
	s := New(1)
	matchups := []Matchup{
		{Home: side("hme", 75), Away: side("awy", 75)},
		{Home: side("two", 60), Away: side("twy", 90)},
	}
	results, err := s.Simulate(context.Background(), matchups, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.HomeScore, 0)
		assert.GreaterOrEqual(t, r.AwayScore, 0)
		assert.NotEmpty(t, r.Lines)
	}
}

func TestPlayoffGamesNeverTie(t *testing.T) {
	s := New(7)
	matchups := []Matchup{{Home: side("hme", 75), Away: side("awy", 75)}}
	for i := 0; i < 200; i++ {
		results, err := s.Simulate(context.Background(), matchups, true)
		require.NoError(t, err)
		require.NotEqual(t, results[0].HomeScore, results[0].AwayScore)
	}
}

func TestBoxScoreLinesBelongToRosters(t *testing.T) {
	s := New(3)
	home, away := side("hme", 80), side("awy", 70)
	results, err := s.Simulate(context.Background(), []Matchup{{Home: home, Away: away}}, false)
	require.NoError(t, err)

	valid := map[string]bool{}
	for _, p := range append(home.Roster, away.Roster...) {
		valid[p.ID] = true
	}
	for _, line := range results[0].Lines {
		assert.True(t, valid[line.PlayerID], "line for unknown player %s", line.PlayerID)
	}
}

func TestStrongerRosterWinsMoreOftenThanNot(t *testing.T) {
	s := New(11)
	strongWins := 0
	const n = 300
	for i := 0; i < n; i++ {
		results, err := s.Simulate(context.Background(), []Matchup{{Home: side("str", 90), Away: side("wek", 60)}}, true)
		require.NoError(t, err)
		if results[0].HomeScore > results[0].AwayScore {
			strongWins++
		}
	}
	assert.Greater(t, strongWins, n/2, "a 90-overall roster should beat a 60-overall roster most of the time")
}
