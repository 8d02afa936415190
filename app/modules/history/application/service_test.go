package historyapplication

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/app/shared"
	"github.com/gridiron-gm/engine/db/bundb"
	"github.com/gridiron-gm/engine/internal/enginetest"
)

func newTestService(t *testing.T) (*Service, *shared.State, *enginetest.FakeStore) {
	t.Helper()
	store := enginetest.NewFakeStore()
	state := enginetest.NewState(store)
	enginetest.SeedSmallLeague(state, 3)
	return NewService(state, slog.New(slog.NewTextHandler(io.Discard, nil))), state, store
}

func seedStat(state *shared.State, playerID, teamID string, totals domain.StatTotals) {
	seasonID := state.Cache.Meta().SeasonID
	state.Cache.SetStat(&domain.SeasonStat{
		ID:       domain.SeasonStatID(playerID, seasonID),
		PlayerID: playerID,
		SeasonID: seasonID,
		TeamID:   teamID,
		Games:    1,
		Totals:   totals,
	})
}

func TestSeasonsNewestFirst(t *testing.T) {
	svc, _, store := newTestService(t)
	store.Archives = append(store.Archives,
		&domain.SeasonArchive{SeasonID: "season-2024", Year: 2024, ChampionTeamID: "team-b"},
		&domain.SeasonArchive{SeasonID: "season-2025", Year: 2025, ChampionTeamID: "team-a"},
	)

	view, err := svc.Seasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "season-2026", view.CurrentSeasonID)
	require.Len(t, view.Archives, 2)
	assert.Equal(t, 2025, view.Archives[0].Year)
	assert.Equal(t, 2024, view.Archives[1].Year)
}

func TestSeasonReadsCurrentFromCache(t *testing.T) {
	svc, state, _ := newTestService(t)
	seasonID := state.Cache.Meta().SeasonID
	state.Cache.SetGame(&domain.Game{
		ID:        domain.GameID(seasonID, 1, "team-a", "team-b"),
		SeasonID:  seasonID,
		Week:      1,
		HomeID:    "team-a",
		AwayID:    "team-b",
		HomeScore: 24,
		AwayScore: 17,
	})

	view, err := svc.Season(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, seasonID, view.SeasonID)
	require.Len(t, view.Games, 1)
	assert.Equal(t, 24, view.Games[0].HomeScore)
}

func TestSeasonReadsArchivedFromStore(t *testing.T) {
	svc, _, store := newTestService(t)
	store.Archives = append(store.Archives,
		&domain.SeasonArchive{SeasonID: "season-2025", Year: 2025, ChampionTeamID: "team-c"})
	store.Games["season-2025-w01-team-c-team-d"] = &domain.Game{
		ID:       "season-2025-w01-team-c-team-d",
		SeasonID: "season-2025",
		Week:     1,
		HomeID:   "team-c",
		AwayID:   "team-d",
	}

	view, err := svc.Season(context.Background(), "season-2025")
	require.NoError(t, err)
	require.NotNil(t, view.Archive)
	assert.Equal(t, "team-c", view.Archive.ChampionTeamID)
	require.Len(t, view.Games, 1)
	assert.Equal(t, "team-c", view.Games[0].HomeID)
}

func TestCareerMergesLiveSeason(t *testing.T) {
	svc, state, store := newTestService(t)
	store.Stats["team-a-p0|season-2025"] = &domain.SeasonStat{
		ID:       "team-a-p0|season-2025",
		PlayerID: "team-a-p0",
		SeasonID: "season-2025",
		TeamID:   "team-a",
		Games:    17,
		Totals:   domain.StatTotals{PassYd: 4000},
	}
	seedStat(state, "team-a-p0", "team-a", domain.StatTotals{PassYd: 310})

	view, err := svc.Career(context.Background(), "team-a-p0")
	require.NoError(t, err)
	require.Len(t, view.Seasons, 2)
	assert.Equal(t, "season-2025", view.Seasons[0].SeasonID)
	assert.Equal(t, "season-2026", view.Seasons[1].SeasonID)
	assert.Equal(t, 310, view.Seasons[1].Totals.PassYd)
	assert.NotEmpty(t, view.PlayerName)
}

func TestCareerRequiresPlayerID(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Career(context.Background(), "")
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, shared.CodeInvalidID, verr.Code)
}

func TestBoxScorePrefersCache(t *testing.T) {
	svc, state, _ := newTestService(t)
	seasonID := state.Cache.Meta().SeasonID
	gameID := domain.GameID(seasonID, 2, "team-c", "team-d")
	state.Cache.SetGame(&domain.Game{
		ID:       gameID,
		SeasonID: seasonID,
		Week:     2,
		HomeID:   "team-c",
		AwayID:   "team-d",
		BoxScore: []domain.StatLine{{PlayerID: "team-c-p0", TeamID: "team-c", PassYd: 212}},
	})

	view, err := svc.BoxScore(context.Background(), gameID)
	require.NoError(t, err)
	require.NotNil(t, view.Game)
	require.Len(t, view.Game.BoxScore, 1)
	assert.Equal(t, 212, view.Game.BoxScore[0].PassYd)
}

func TestBoxScoreUnknownGame(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.BoxScore(context.Background(), "no-such-game")
	require.ErrorIs(t, err, bundb.ErrGameNotFound)
}

func TestLeadersRanksAndDropsZeroRows(t *testing.T) {
	svc, state, _ := newTestService(t)
	seedStat(state, "team-a-p0", "team-a", domain.StatTotals{PassYd: 280})
	seedStat(state, "team-b-p0", "team-b", domain.StatTotals{PassYd: 345})
	seedStat(state, "team-c-p0", "team-c", domain.StatTotals{PassYd: 0, RushYd: 120})

	view, err := svc.Leaders(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, view.Passing, 2, "zero passing rows stay off the board")
	assert.Equal(t, "team-b-p0", view.Passing[0].PlayerID)
	assert.Equal(t, 345, view.Passing[0].Value)
	assert.Equal(t, "team-a-p0", view.Passing[1].PlayerID)
	assert.NotEmpty(t, view.Passing[0].PlayerName, "entries carry live player names")
	assert.Equal(t, "Tb", view.Passing[0].TeamAbbr)

	require.Len(t, view.Rushing, 1)
	assert.Equal(t, "team-c-p0", view.Rushing[0].PlayerID)
}

func TestTransactionsNewestFirst(t *testing.T) {
	svc, _, store := newTestService(t)
	store.Transactions = append(store.Transactions,
		&domain.Transaction{ID: "tx-1", Type: domain.TxSign, Detail: "first"},
		&domain.Transaction{ID: "tx-2", Type: domain.TxRelease, Detail: "second"},
	)

	view, err := svc.Transactions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, view.Transactions, 2)
	assert.Equal(t, "tx-2", view.Transactions[0].ID)
}
