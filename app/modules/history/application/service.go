// Package historyapplication implements the read side of league history:
// season archives, game logs, player careers, box scores, statistical
// leaders and the transaction log.
package historyapplication

import (
	"context"
	"log/slog"
	"sort"

	"github.com/gridiron-gm/engine/app/domain"
	historyevents "github.com/gridiron-gm/engine/app/modules/history/events"
	"github.com/gridiron-gm/engine/app/shared"
)

// defaultTransactionLimit bounds the transaction log reply.
const defaultTransactionLimit = 50

// leaderboardSize is how many rows each leaderboard carries.
const leaderboardSize = 5

// Service owns history queries. Current-season data is read from the hot
// cache; archived seasons come from durable storage.
type Service struct {
	state  *shared.State
	logger *slog.Logger
}

// NewService wires the history service.
func NewService(state *shared.State, logger *slog.Logger) *Service {
	return &Service{state: state, logger: logger}
}

// Seasons lists archived seasons, newest first.
func (s *Service) Seasons(ctx context.Context) (*historyevents.SeasonsView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	archives, err := s.state.Store.SeasonArchives(ctx, meta.SaveID)
	if err != nil {
		return nil, err
	}
	sort.Slice(archives, func(i, j int) bool { return archives[i].Year > archives[j].Year })
	return &historyevents.SeasonsView{
		CurrentSeasonID: meta.SeasonID,
		Archives:        archives,
	}, nil
}

// Season returns one season's archive row and game log. The current season
// reads from the cache; past seasons hit storage.
func (s *Service) Season(ctx context.Context, seasonID string) (*historyevents.SeasonView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if seasonID == "" {
		seasonID = meta.SeasonID
	}

	var games []*domain.Game
	if seasonID == meta.SeasonID {
		games = s.state.Cache.SeasonGames(seasonID)
	} else {
		games, err = s.state.Store.SeasonGames(ctx, meta.SaveID, seasonID)
		if err != nil {
			return nil, err
		}
	}

	view := &historyevents.SeasonView{SeasonID: seasonID}
	archives, err := s.state.Store.SeasonArchives(ctx, meta.SaveID)
	if err != nil {
		return nil, err
	}
	for _, a := range archives {
		if a.SeasonID == seasonID {
			view.Archive = a
			break
		}
	}
	for _, g := range games {
		view.Games = append(view.Games, historyevents.GameSummary{
			GameID:    g.ID,
			Week:      g.Week,
			Round:     g.Round,
			HomeID:    g.HomeID,
			AwayID:    g.AwayID,
			HomeScore: g.HomeScore,
			AwayScore: g.AwayScore,
		})
	}
	return view, nil
}

// Career returns a player's per-season rows across every season, merging the
// live current-season row with the durable history.
func (s *Service) Career(ctx context.Context, playerID string) (*historyevents.CareerView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if playerID == "" {
		return nil, shared.Validationf(shared.CodeInvalidID, "playerId is required")
	}
	rows, err := s.state.Store.PlayerCareer(ctx, meta.SaveID, playerID)
	if err != nil {
		return nil, err
	}
	if live, ok := s.state.Cache.Stat(playerID, meta.SeasonID); ok {
		found := false
		for i, r := range rows {
			if r.SeasonID == live.SeasonID {
				rows[i] = live
				found = true
				break
			}
		}
		if !found {
			rows = append(rows, live)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SeasonID < rows[j].SeasonID })

	view := &historyevents.CareerView{PlayerID: playerID, Seasons: rows}
	if p, ok := s.state.Cache.Player(playerID); ok {
		view.PlayerName = p.Name
	}
	return view, nil
}

// BoxScore returns one game with its full stat lines, trying the cache
// before storage.
func (s *Service) BoxScore(ctx context.Context, gameID string) (*historyevents.BoxScoreView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if gameID == "" {
		return nil, shared.Validationf(shared.CodeInvalidID, "gameId is required")
	}
	if g, ok := s.state.Cache.Game(gameID); ok {
		return &historyevents.BoxScoreView{Game: g}, nil
	}
	g, err := s.state.Store.BoxScore(ctx, meta.SaveID, gameID)
	if err != nil {
		return nil, err
	}
	return &historyevents.BoxScoreView{Game: g}, nil
}

// Leaders builds the passing, rushing and receiving leaderboards for one
// season. The current season ranks live cache rows; archived seasons rank
// stored rows.
func (s *Service) Leaders(ctx context.Context, seasonID string) (*historyevents.LeadersView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if seasonID == "" {
		seasonID = meta.SeasonID
	}

	var rows []*domain.SeasonStat
	if seasonID == meta.SeasonID {
		for _, st := range s.state.Cache.Stats() {
			if st.SeasonID == seasonID {
				rows = append(rows, st)
			}
		}
	} else {
		rows, err = s.state.Store.SeasonStatsBySeason(ctx, meta.SaveID, seasonID)
		if err != nil {
			return nil, err
		}
	}

	view := &historyevents.LeadersView{SeasonID: seasonID}
	view.Passing = s.topBy(rows, func(st *domain.SeasonStat) int { return st.Totals.PassYd })
	view.Rushing = s.topBy(rows, func(st *domain.SeasonStat) int { return st.Totals.RushYd })
	view.Receiving = s.topBy(rows, func(st *domain.SeasonStat) int { return st.Totals.RecYd })
	return view, nil
}

// Transactions returns the recent roster-move log, newest first.
func (s *Service) Transactions(ctx context.Context, limit int) (*historyevents.TransactionsView, error) {
	meta, err := s.state.Meta()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	txs, err := s.state.Store.RecentTransactions(ctx, meta.SaveID, limit)
	if err != nil {
		return nil, err
	}
	return &historyevents.TransactionsView{Transactions: txs}, nil
}

// topBy ranks stat rows by one extracted value, dropping zero rows.
func (s *Service) topBy(rows []*domain.SeasonStat, value func(*domain.SeasonStat) int) []historyevents.LeaderEntry {
	ranked := make([]*domain.SeasonStat, 0, len(rows))
	for _, st := range rows {
		if value(st) > 0 {
			ranked = append(ranked, st)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if value(ranked[i]) != value(ranked[j]) {
			return value(ranked[i]) > value(ranked[j])
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})
	if len(ranked) > leaderboardSize {
		ranked = ranked[:leaderboardSize]
	}
	out := make([]historyevents.LeaderEntry, 0, len(ranked))
	for _, st := range ranked {
		entry := historyevents.LeaderEntry{
			PlayerID: st.PlayerID,
			TeamID:   st.TeamID,
			Value:    value(st),
		}
		if p, ok := s.state.Cache.Player(st.PlayerID); ok {
			entry.PlayerName = p.Name
			entry.Pos = p.Pos
		}
		if t, ok := s.state.Cache.Team(st.TeamID); ok {
			entry.TeamAbbr = t.Abbr
		}
		out = append(out, entry)
	}
	return out
}
