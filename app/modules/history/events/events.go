// Package historyevents defines the history module's command types and
// payloads.
package historyevents

import "github.com/gridiron-gm/engine/app/domain"

// Command types handled by the history module.
const (
	CmdSeasons      = "cmd.history.seasons"
	CmdSeason       = "cmd.history.season"
	CmdCareer       = "cmd.history.career"
	CmdBoxScore     = "cmd.history.boxscore"
	CmdLeaders      = "cmd.history.leaders"
	CmdTransactions = "cmd.history.transactions"
)

// Event types the history module emits.
const (
	EventSeasons      = "history.seasons"
	EventSeason       = "history.season"
	EventCareer       = "history.career"
	EventBoxScore     = "history.boxscore"
	EventLeaders      = "history.leaders"
	EventTransactions = "history.transactions"
)

// SeasonsView lists every archived season plus the season in progress.
type SeasonsView struct {
	CurrentSeasonID string                  `json:"currentSeasonId"`
	Archives        []*domain.SeasonArchive `json:"archives"`
}

// SeasonRequest selects one season.
type SeasonRequest struct {
	SeasonID string `json:"seasonId"`
}

// GameSummary is one game row in a season view.
type GameSummary struct {
	GameID    string              `json:"gameId"`
	Week      int                 `json:"week"`
	Round     domain.PlayoffRound `json:"round,omitempty"`
	HomeID    string              `json:"homeId"`
	AwayID    string              `json:"awayId"`
	HomeScore int                 `json:"homeScore"`
	AwayScore int                 `json:"awayScore"`
}

// SeasonView is one season's archive row and game log.
type SeasonView struct {
	SeasonID string                `json:"seasonId"`
	Archive  *domain.SeasonArchive `json:"archive,omitempty"`
	Games    []GameSummary         `json:"games"`
}

// CareerRequest selects one player's career.
type CareerRequest struct {
	PlayerID string `json:"playerId"`
}

// CareerView is a player's per-season stat rows, oldest first.
type CareerView struct {
	PlayerID   string               `json:"playerId"`
	PlayerName string               `json:"playerName,omitempty"`
	Seasons    []*domain.SeasonStat `json:"seasons"`
}

// BoxScoreRequest selects one game.
type BoxScoreRequest struct {
	GameID string `json:"gameId"`
}

// BoxScoreView is one game's full box score.
type BoxScoreView struct {
	Game *domain.Game `json:"game"`
}

// LeadersRequest selects a season's leaderboards; empty means the current
// season.
type LeadersRequest struct {
	SeasonID string `json:"seasonId,omitempty"`
}

// LeaderEntry is one leaderboard row.
type LeaderEntry struct {
	PlayerID   string          `json:"playerId"`
	PlayerName string          `json:"playerName,omitempty"`
	Pos        domain.Position `json:"pos,omitempty"`
	TeamID     string          `json:"teamId,omitempty"`
	TeamAbbr   string          `json:"teamAbbr,omitempty"`
	Value      int             `json:"value"`
}

// LeadersView is the dashboard leaderboard set.
type LeadersView struct {
	SeasonID  string        `json:"seasonId"`
	Passing   []LeaderEntry `json:"passing"`
	Rushing   []LeaderEntry `json:"rushing"`
	Receiving []LeaderEntry `json:"receiving"`
}

// TransactionsRequest caps the returned log size; zero means the default.
type TransactionsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// TransactionsView is the recent roster-move log, newest first.
type TransactionsView struct {
	Transactions []*domain.Transaction `json:"transactions"`
}
