package shared_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/internal/enginetest"
)

func TestFlushNoLeagueIsNoop(t *testing.T) {
	store := enginetest.NewFakeStore()
	state := enginetest.NewState(store)

	require.NoError(t, state.Flush(context.Background()))
	assert.Empty(t, store.Batches)
}

func TestFlushKeepsEntitiesDirtyOnStorageFailure(t *testing.T) {
	store := enginetest.NewFakeStore()
	state := enginetest.NewState(store)
	enginetest.SeedSmallLeague(state, 3)

	state.Cache.UpdateTeam("team-a", func(tm *domain.Team) { tm.Wins = 5 })
	require.True(t, state.Cache.IsDirty())

	store.FailWrites = true
	err := state.Flush(context.Background())
	require.ErrorIs(t, err, enginetest.ErrWriteFailed)
	assert.True(t, state.Cache.IsDirty(), "failed batch is re-marked for retry")

	// The mutation itself survives the failure.
	team, ok := state.Cache.Team("team-a")
	require.True(t, ok)
	assert.Equal(t, 5, team.Wins)

	store.FailWrites = false
	require.NoError(t, state.Flush(context.Background()))
	assert.False(t, state.Cache.IsDirty())

	require.NotEmpty(t, store.Batches)
	last := store.Batches[len(store.Batches)-1]
	found := false
	for _, tm := range last.Teams {
		if tm.ID == "team-a" && tm.Wins == 5 {
			found = true
		}
	}
	assert.True(t, found, "retried batch carries the original mutation")
}

func TestFlushUpdatesSaveIndex(t *testing.T) {
	store := enginetest.NewFakeStore()
	state := enginetest.NewState(store)
	enginetest.SeedSmallLeague(state, 3)

	state.Cache.MarkMetaDirty()
	require.NoError(t, state.Flush(context.Background()))

	summary, ok := store.Saves["save-test"]
	require.True(t, ok)
	assert.Equal(t, 2026, summary.Year)
	assert.False(t, summary.LastPlayed.IsZero())
}

func TestApplySigningChecksCapRoom(t *testing.T) {
	store := enginetest.NewFakeStore()
	state := enginetest.NewState(store)
	enginetest.SeedSmallLeague(state, 3)

	fa := &domain.Player{
		ID:     "fa-1",
		Name:   "Free Agent",
		Pos:    domain.PosWR,
		Age:    26,
		Status: domain.StatusFreeAgent,
	}
	state.Cache.SetPlayer(fa)

	team, _ := state.Cache.Team("team-a")
	over := domain.Contract{Years: 2, BaseAnnual: team.CapRoom + 100}
	err := state.ApplySigning("team-a", "fa-1", over, domain.TxSign)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInsufficientCap, verr.Code)

	p, _ := state.Cache.Player("fa-1")
	assert.Equal(t, domain.StatusFreeAgent, p.Status, "rejected signing leaves the player untouched")

	fits := domain.Contract{Years: 2, BaseAnnual: 1, SigningBonus: 0.5}
	require.NoError(t, state.ApplySigning("team-a", "fa-1", fits, domain.TxSign))

	p, _ = state.Cache.Player("fa-1")
	assert.Equal(t, domain.StatusActive, p.Status)
	assert.Equal(t, "team-a", p.TeamID)

	after, _ := state.Cache.Team("team-a")
	assert.InDelta(t, team.CapUsed+fits.CapHit(), after.CapUsed, 0.001)
}

func TestApplyReleaseReturnsPlayerToMarket(t *testing.T) {
	store := enginetest.NewFakeStore()
	state := enginetest.NewState(store)
	enginetest.SeedSmallLeague(state, 3)

	before, _ := state.Cache.Team("team-a")
	require.NoError(t, state.ApplyRelease("team-a-p2"))

	p, _ := state.Cache.Player("team-a-p2")
	assert.Equal(t, domain.StatusFreeAgent, p.Status)
	assert.Empty(t, p.TeamID)

	after, _ := state.Cache.Team("team-a")
	assert.Less(t, after.CapUsed, before.CapUsed)

	err := state.ApplyRelease("team-a-p2")
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidID, verr.Code)
}
