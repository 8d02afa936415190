package seasonapplication

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/gen"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/app/sim"
	"github.com/gridiron-gm/engine/internal/enginetest"
)

func newTestService(t *testing.T, weeks int) (*Service, *shared.State, *enginetest.FakeStore, *domain.Meta) {
	t.Helper()
	store := enginetest.NewFakeStore()
	state := enginetest.NewState(store)
	meta := enginetest.SeedSmallLeague(state, weeks)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(state, eventbus.New(logger), sim.New(11), gen.New(11), rand.New(rand.NewSource(11)), logger)
	return svc, state, store, meta
}

func TestAdvanceWeekPlaysEveryScheduledGame(t *testing.T) {
	svc, state, store, meta := newTestService(t, 3)

	wc, err := svc.AdvanceWeek(context.Background())
	require.NoError(t, err)
	require.Len(t, wc.Games, 2, "four teams means two games a week")
	assert.Equal(t, 2, meta.Week)
	assert.True(t, meta.Schedule[0].Played)

	for _, id := range []string{"team-a", "team-b", "team-c", "team-d"} {
		tm, ok := state.Cache.Team(id)
		require.True(t, ok)
		assert.Equal(t, 1, tm.Wins+tm.Losses+tm.Ties, "every team played exactly once")
	}

	assert.Len(t, state.Cache.SeasonGames(meta.SeasonID), 2)
	require.NotEmpty(t, store.Batches, "week advance must flush")
	assert.False(t, state.Cache.IsDirty(), "flush leaves the cache clean")
}

func TestAdvanceWeekAggregatesSeasonStats(t *testing.T) {
	svc, state, _, meta := newTestService(t, 3)

	_, err := svc.AdvanceWeek(context.Background())
	require.NoError(t, err)

	st, ok := state.Cache.Stat("team-a-p0", meta.SeasonID)
	require.True(t, ok, "the starting QB gets a stat row")
	assert.Equal(t, 1, st.Games)
	assert.Positive(t, st.Totals.PassYd)
}

func TestSeasonEndCrownsChampionWithoutBracket(t *testing.T) {
	svc, _, _, meta := newTestService(t, 2)

	ctx := context.Background()
	_, err := svc.AdvanceWeek(ctx)
	require.NoError(t, err)
	wc, err := svc.AdvanceWeek(ctx)
	require.NoError(t, err)

	// Four teams cannot seed a seven-team bracket, so the season ends here.
	assert.Equal(t, domain.PhaseOffseason, meta.Phase)
	assert.Equal(t, domain.StageProgressionPending, meta.OffseasonStage)
	assert.NotEmpty(t, wc.ChampionTeamID)
	assert.Equal(t, meta.ChampionTeamID, wc.ChampionTeamID)
}

func TestLoneConferenceTitleGameCrownsChampion(t *testing.T) {
	svc, state, _, meta := newTestService(t, 2)

	// One conference seeded a field, the other was too small: the bracket is
	// already down to its conference title game and no Super Bowl can follow.
	meta.Phase = domain.PhasePlayoffs
	meta.Playoffs = &domain.PlayoffState{
		Round: domain.RoundConference,
		Seeds: map[string][]domain.PlayoffSeed{
			"East": {{Seed: 1, TeamID: "team-a"}, {Seed: 2, TeamID: "team-b"}},
		},
		Matches: []domain.PlayoffMatch{{
			Round:      domain.RoundConference,
			Conference: "East",
			HomeID:     "team-a",
			AwayID:     "team-b",
		}},
	}

	wc, err := svc.AdvanceWeek(context.Background())
	require.NoError(t, err)
	require.Len(t, wc.Games, 1)

	assert.Equal(t, domain.PhaseOffseason, meta.Phase)
	assert.Equal(t, domain.StageProgressionPending, meta.OffseasonStage)
	require.NotEmpty(t, wc.ChampionTeamID)
	assert.Equal(t, meta.ChampionTeamID, wc.ChampionTeamID)
	assert.False(t, state.Cache.IsDirty())

	// The lifecycle moved on; the round does not replay.
	_, err = svc.AdvanceWeek(context.Background())
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidPhase, verr.Code)
}

func TestAdvanceWeekRejectedInOffseason(t *testing.T) {
	svc, _, _, meta := newTestService(t, 2)
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageProgressionPending

	_, err := svc.AdvanceWeek(context.Background())
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidPhase, verr.Code)
}

func TestSimulateToWeekStopsAtTarget(t *testing.T) {
	svc, _, _, meta := newTestService(t, 6)

	last, err := svc.SimulateToWeek(context.Background(), 4)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 4, meta.Week)
	assert.Equal(t, 3, last.Week)
	for i := 0; i < 3; i++ {
		assert.True(t, meta.Schedule[i].Played, "week %d", i+1)
	}
	assert.False(t, meta.Schedule[3].Played)
}

func TestSimulateToWeekRejectsBackwardTarget(t *testing.T) {
	svc, _, _, _ := newTestService(t, 6)

	_, err := svc.SimulateToWeek(context.Background(), 1)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeBadPayload, verr.Code)
}

func TestAdvanceOffseasonForcesRetirementAtForty(t *testing.T) {
	svc, state, store, meta := newTestService(t, 2)
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageProgressionPending
	state.Cache.SetPlayer(&domain.Player{
		ID:      "old-timer",
		Name:    "Old Timer",
		Pos:     domain.PosK,
		Age:     40,
		Overall: 70,
		Status:  domain.StatusActive,
		TeamID:  "team-a",
	})

	phase, err := svc.AdvanceOffseason(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StageProgressionDone, phase.Stage)
	assert.Contains(t, phase.Retirements, "Old Timer")

	_, ok := state.Cache.Player("old-timer")
	assert.False(t, ok, "a player past forty always retires")

	foundRetire := false
	for _, tx := range store.Transactions {
		if tx.Type == domain.TxRetire && tx.PlayerID == "old-timer" {
			foundRetire = true
		}
	}
	assert.True(t, foundRetire, "retirement is logged durably")

	replacements := state.Cache.PlayersByStatus(domain.StatusFreeAgent)
	assert.NotEmpty(t, replacements, "retirees are replaced by fresh free agents")
}

func TestAdvanceOffseasonAgesEveryone(t *testing.T) {
	svc, state, _, meta := newTestService(t, 2)
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageProgressionPending

	before, _ := state.Cache.Player("team-a-p0")
	ageBefore := before.Age

	_, err := svc.AdvanceOffseason(context.Background())
	require.NoError(t, err)

	after, ok := state.Cache.Player("team-a-p0")
	require.True(t, ok)
	assert.Equal(t, ageBefore+1, after.Age)
}

func TestAdvanceOffseasonStepsThroughEveryStage(t *testing.T) {
	svc, _, _, meta := newTestService(t, 2)
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageProgressionPending

	ctx := context.Background()
	phase, err := svc.AdvanceOffseason(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StageProgressionDone, phase.Stage)
	assert.Nil(t, meta.FreeAgency, "free agency waits for the next step")

	phase, err = svc.AdvanceOffseason(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFreeAgency, phase.Stage)
	require.NotNil(t, meta.FreeAgency)
	assert.Equal(t, 1, meta.FreeAgency.Day)

	// Free-agency days move through their own command, not this one.
	_, err = svc.AdvanceOffseason(ctx)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidPhase, verr.Code)

	meta.OffseasonStage = domain.StageDraftComplete
	phase, err = svc.AdvanceOffseason(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StageReadyForNewSeason, phase.Stage)

	_, err = svc.StartNewSeason(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseRegular, meta.Phase)
}

func TestFreeAgencyWindowCloses(t *testing.T) {
	svc, _, _, meta := newTestService(t, 2)
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageFreeAgency
	meta.FreeAgency = &domain.FreeAgencyState{Day: 1}

	ctx := context.Background()
	phase, err := svc.AdvanceFreeAgencyDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFreeAgency, phase.Stage)
	assert.Equal(t, 2, meta.FreeAgency.Day)

	phase, err = svc.AdvanceFreeAgencyDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StageDraftPending, phase.Stage)
	assert.True(t, meta.FreeAgency.Complete)

	_, err = svc.AdvanceFreeAgencyDay(ctx)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidPhase, verr.Code)
}

func TestStartNewSeasonRollsOver(t *testing.T) {
	svc, state, store, meta := newTestService(t, 2)
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageReadyForNewSeason
	meta.ChampionTeamID = "team-a"
	state.Cache.UpdateTeam("team-a", func(tm *domain.Team) { tm.Wins = 2 })
	state.Cache.SetStat(&domain.SeasonStat{
		ID:       domain.SeasonStatID("team-a-p0", meta.SeasonID),
		PlayerID: "team-a-p0",
		SeasonID: meta.SeasonID,
	})

	view, err := svc.StartNewSeason(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2027, meta.Year)
	assert.Equal(t, domain.SeasonIDFor(2027), meta.SeasonID)
	assert.Equal(t, 1, meta.Week)
	assert.Equal(t, domain.PhaseRegular, meta.Phase)
	assert.Empty(t, meta.OffseasonStage)
	assert.Empty(t, meta.ChampionTeamID)
	assert.Nil(t, meta.Draft)
	assert.Nil(t, meta.FreeAgency)
	assert.Len(t, meta.Schedule, 2)

	tm, _ := state.Cache.Team("team-a")
	assert.Zero(t, tm.Wins, "records reset for the new season")

	_, ok := state.Cache.Stat("team-a-p0", domain.SeasonIDFor(2026))
	assert.False(t, ok, "old-season stats are evicted from the hot cache")

	require.NotEmpty(t, store.Archives)
	archive := store.Archives[len(store.Archives)-1]
	assert.Equal(t, domain.SeasonIDFor(2026), archive.SeasonID)
	assert.Equal(t, "team-a", archive.ChampionTeamID)

	require.NotNil(t, view)
	assert.Equal(t, domain.SeasonIDFor(2027), view.Meta.SeasonID)
}

func TestStartNewSeasonRejectedMidOffseason(t *testing.T) {
	svc, _, _, meta := newTestService(t, 2)
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageFreeAgency

	_, err := svc.StartNewSeason(context.Background())
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidPhase, verr.Code)
}
