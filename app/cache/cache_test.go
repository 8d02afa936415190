package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/domain"
)

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Meta: &domain.Meta{SaveID: "save-1", Phase: domain.PhaseRegular, Week: 1},
		Teams: []*domain.Team{
			{ID: "team-1", Abbr: "AAA", CapTotal: 200},
			{ID: "team-2", Abbr: "BBB", CapTotal: 200},
		},
		Players: []*domain.Player{
			{ID: "pl-1", Status: domain.StatusActive, TeamID: "team-1"},
			{ID: "pl-2", Status: domain.StatusFreeAgent},
		},
	}
}

func TestHydrateComesUpClean(t *testing.T) {
	c := New()
	c.Hydrate(testSnapshot())

	require.True(t, c.Loaded())
	assert.False(t, c.IsDirty(), "hydrate must not dirty anything")
	assert.Len(t, c.Teams(), 2)
	assert.Len(t, c.Players(), 2)
}

func TestUpdateMarksDirtyAndDrainClears(t *testing.T) {
	c := New()
	c.Hydrate(testSnapshot())

	ok := c.UpdateTeam("team-1", func(tm *domain.Team) { tm.Wins++ })
	require.True(t, ok)
	require.True(t, c.IsDirty())

	p := c.DrainDirty()
	require.Len(t, p.Teams, 1)
	assert.Equal(t, "team-1", p.Teams[0].ID)
	assert.Equal(t, 1, p.Teams[0].Wins)

	assert.False(t, c.IsDirty(), "drain must clear dirty sets")
	assert.True(t, c.DrainDirty().Empty(), "second drain performs zero writes")
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	c := New()
	c.Hydrate(testSnapshot())

	ok := c.UpdateTeam("team-404", func(tm *domain.Team) { tm.Wins++ })
	assert.False(t, ok)
	ok = c.UpdatePlayer("pl-404", func(p *domain.Player) { p.Age++ })
	assert.False(t, ok)

	assert.False(t, c.IsDirty())
	_, exists := c.Team("team-404")
	assert.False(t, exists, "no ghost-entity create")
}

func TestRemovePlayerSurfacesDelete(t *testing.T) {
	c := New()
	c.Hydrate(testSnapshot())

	require.True(t, c.RemovePlayer("pl-1"))
	_, ok := c.Player("pl-1")
	require.False(t, ok)

	p := c.DrainDirty()
	assert.Equal(t, []string{"pl-1"}, p.DeletedPlayers)
	assert.Empty(t, p.Players)
}

func TestRemoveThenSetDropsDelete(t *testing.T) {
	c := New()
	c.Hydrate(testSnapshot())

	require.True(t, c.RemovePlayer("pl-1"))
	c.SetPlayer(&domain.Player{ID: "pl-1", Status: domain.StatusFreeAgent})

	p := c.DrainDirty()
	assert.Empty(t, p.DeletedPlayers)
	require.Len(t, p.Players, 1)
	assert.Equal(t, "pl-1", p.Players[0].ID)
}

func TestRestoreDirtyAfterFailedFlush(t *testing.T) {
	c := New()
	c.Hydrate(testSnapshot())

	c.UpdateTeam("team-2", func(tm *domain.Team) { tm.Losses++ })
	c.RemovePlayer("pl-2")
	c.AppendTransaction(&domain.Transaction{ID: "tx-1", Type: domain.TxRelease})

	drained := c.DrainDirty()
	require.False(t, c.IsDirty())

	c.RestoreDirty(drained)
	require.True(t, c.IsDirty())

	again := c.DrainDirty()
	assert.Len(t, again.Teams, 1)
	assert.Equal(t, []string{"pl-2"}, again.DeletedPlayers)
	require.Len(t, again.Transactions, 1)
	assert.Equal(t, "tx-1", again.Transactions[0].ID)
}

func TestEvictSeasonStatsKeepsDurableRows(t *testing.T) {
	c := New()
	c.Hydrate(testSnapshot())

	c.SetStat(&domain.SeasonStat{ID: domain.SeasonStatID("pl-1", "season-2025"), PlayerID: "pl-1", SeasonID: "season-2025"})
	c.SetStat(&domain.SeasonStat{ID: domain.SeasonStatID("pl-1", "season-2026"), PlayerID: "pl-1", SeasonID: "season-2026"})
	c.DrainDirty()

	n := c.EvictSeasonStats("season-2025")
	assert.Equal(t, 1, n)
	assert.Len(t, c.Stats(), 1)

	p := c.DrainDirty()
	assert.True(t, p.Empty(), "eviction must not surface deletes")
}

func TestResetWipesEverything(t *testing.T) {
	c := New()
	c.Hydrate(testSnapshot())
	c.UpdateTeam("team-1", func(tm *domain.Team) { tm.Wins++ })

	c.Reset()
	assert.False(t, c.Loaded())
	assert.False(t, c.IsDirty())
	assert.Empty(t, c.Teams())
}
