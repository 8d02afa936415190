package draftapplication

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/eventbus"
	"github.com/gridiron-gm/engine/app/gen"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/enginetest"
)

func newTestService(t *testing.T) (*Service, *shared.State, *domain.Meta) {
	t.Helper()
	state := enginetest.NewState(enginetest.NewFakeStore())
	meta := enginetest.SeedSmallLeague(state, 2)
	meta.Phase = domain.PhaseOffseason
	meta.OffseasonStage = domain.StageDraftPending
	meta.ChampionTeamID = "team-a"
	// Standings for the order: team-d worst, team-a champion.
	state.Cache.UpdateTeam("team-a", func(tm *domain.Team) { tm.Wins = 2 })
	state.Cache.UpdateTeam("team-b", func(tm *domain.Team) { tm.Wins = 1 })
	state.Cache.UpdateTeam("team-c", func(tm *domain.Team) { tm.Wins = 1; tm.PointsAgainst = 30 })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(state, eventbus.New(logger), gen.New(5), logger), state, meta
}

func TestStartDraftBuildsOrderWorstFirstChampionLast(t *testing.T) {
	svc, state, meta := newTestService(t)

	view, err := svc.StartDraft(context.Background())
	require.NoError(t, err)

	rounds := meta.Settings.DraftRounds
	require.Equal(t, rounds*4, view.TotalPicks, "picks per round equals team count")
	require.Len(t, meta.Draft.PickIDs, rounds*4)
	assert.Equal(t, domain.StageDraftInProgress, meta.OffseasonStage)

	first, _ := state.Cache.Pick(meta.Draft.PickIDs[0])
	assert.Equal(t, "team-d", first.TeamID, "worst record picks first")
	fourth, _ := state.Cache.Pick(meta.Draft.PickIDs[3])
	assert.Equal(t, "team-a", fourth.TeamID, "the champion picks last")

	// Same order every round.
	fifth, _ := state.Cache.Pick(meta.Draft.PickIDs[4])
	assert.Equal(t, "team-d", fifth.TeamID)

	assert.NotEmpty(t, view.Pool)
	assert.Greater(t, len(meta.Draft.PoolIDs), view.TotalPicks, "the class outnumbers the picks")
}

func TestStartDraftOnlyOncePerOffseason(t *testing.T) {
	svc, _, _ := newTestService(t)

	ctx := context.Background()
	_, err := svc.StartDraft(ctx)
	require.NoError(t, err)

	_, err = svc.StartDraft(ctx)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidPhase, verr.Code)
}

func TestStartDraftRequiresDraftPendingStage(t *testing.T) {
	svc, _, meta := newTestService(t)
	meta.OffseasonStage = domain.StageFreeAgency

	_, err := svc.StartDraft(context.Background())
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidPhase, verr.Code)
}

func TestMakePickRejectedWhenNotOnClock(t *testing.T) {
	svc, _, meta := newTestService(t)

	ctx := context.Background()
	_, err := svc.StartDraft(ctx)
	require.NoError(t, err)

	// team-d is on the clock first, not the user's team-a.
	_, err = svc.MakePick(ctx, meta.Draft.PoolIDs[0])
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeNotYourPick, verr.Code)
}

func TestSimulateUntilUserThenUserPicks(t *testing.T) {
	svc, state, meta := newTestService(t)

	ctx := context.Background()
	_, err := svc.StartDraft(ctx)
	require.NoError(t, err)

	view, err := svc.SimulatePicks(ctx, 0)
	require.NoError(t, err)
	require.True(t, view.UserOnClock, "simulation stops at the user's pick")
	assert.Equal(t, 3, view.PickIndex, "three AI picks before the user")

	prospectID := meta.Draft.PoolIDs[0]
	made, err := svc.MakePick(ctx, prospectID)
	require.NoError(t, err)
	require.NotNil(t, made.Pick.Player)
	assert.Equal(t, prospectID, made.Pick.Player.PlayerID)

	drafted, _ := state.Cache.Player(prospectID)
	assert.Equal(t, domain.StatusActive, drafted.Status)
	assert.Equal(t, "team-a", drafted.TeamID)
	assert.NotContains(t, meta.Draft.PoolIDs, prospectID, "a drafted player leaves the board")
}

func TestSimulateSpanningUserSlotStopsAndFlushes(t *testing.T) {
	svc, state, meta := newTestService(t)
	store := state.Store.(*enginetest.FakeStore)

	ctx := context.Background()
	_, err := svc.StartDraft(ctx)
	require.NoError(t, err)
	batches := len(store.Batches)

	// Asking for more picks than precede the user's slot stops at the slot
	// instead of failing.
	view, err := svc.SimulatePicks(ctx, 10)
	require.NoError(t, err)
	require.True(t, view.UserOnClock)
	assert.Equal(t, 3, view.PickIndex, "the three AI picks before the user ran")
	assert.Equal(t, 3, meta.Draft.PickIndex)

	assert.False(t, state.Cache.IsDirty(), "executed picks are durable before the reply")
	assert.Greater(t, len(store.Batches), batches)
}

func TestDraftRunsToCompletion(t *testing.T) {
	svc, state, meta := newTestService(t)

	ctx := context.Background()
	_, err := svc.StartDraft(ctx)
	require.NoError(t, err)

	total := len(meta.Draft.PickIDs)
	for meta.Draft != nil && !meta.Draft.Complete {
		view, err := svc.SimulatePicks(ctx, 0)
		require.NoError(t, err)
		if view.Complete {
			break
		}
		require.True(t, view.UserOnClock)
		_, err = svc.MakePick(ctx, meta.Draft.PoolIDs[0])
		require.NoError(t, err)
	}

	assert.True(t, meta.Draft.Complete)
	assert.Equal(t, total, meta.Draft.PickIndex)
	assert.Equal(t, domain.StageDraftComplete, meta.OffseasonStage)

	// Every executed pick carries its player snapshot, in order.
	for i, id := range meta.Draft.PickIDs {
		pick, ok := state.Cache.Pick(id)
		require.True(t, ok)
		assert.Equal(t, i+1, pick.Overall)
		assert.NotNil(t, pick.Player, "pick %d has a selection", i+1)
	}

	assert.Empty(t, state.Cache.PlayersByStatus(domain.StatusDraftEligible),
		"undrafted prospects convert to free agents")
}

func TestMakePickRejectsPlayerOffTheBoard(t *testing.T) {
	svc, _, _ := newTestService(t)

	ctx := context.Background()
	_, err := svc.StartDraft(ctx)
	require.NoError(t, err)
	_, err = svc.SimulatePicks(ctx, 0)
	require.NoError(t, err)

	_, err = svc.MakePick(ctx, "team-b-p0")
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidID, verr.Code)
}
