// Package seasonevents defines the season module's command types and the
// week/offseason progress payloads.
package seasonevents

import "github.com/gridiron-gm/engine/app/domain"

// Command types handled by the season module.
const (
	CmdAdvanceWeek          = "cmd.week.advance"
	CmdSimulateToWeek       = "cmd.week.simulate"
	CmdAdvanceOffseason     = "cmd.offseason.advance"
	CmdAdvanceFreeAgencyDay = "cmd.freeagency.advance"
	CmdStartNewSeason       = "cmd.season.new"
)

// Event types the season module emits.
const (
	EventWeekComplete   = "week.complete"
	EventSimProgress    = "sim.progress"
	EventOffseasonPhase = "offseason.phase"
)

// SimulateToWeekRequest fast-forwards the season to (but not past) a week.
type SimulateToWeekRequest struct {
	TargetWeek int `json:"targetWeek"`
}

// GameResult is one finished game on the wire.
type GameResult struct {
	GameID    string              `json:"gameId"`
	Week      int                 `json:"week"`
	Round     domain.PlayoffRound `json:"round,omitempty"`
	HomeID    string              `json:"homeId"`
	AwayID    string              `json:"awayId"`
	HomeAbbr  string              `json:"homeAbbr"`
	AwayAbbr  string              `json:"awayAbbr"`
	HomeScore int                 `json:"homeScore"`
	AwayScore int                 `json:"awayScore"`
}

// WeekComplete reports one advanced week: the games that were played and the
// lifecycle position afterwards.
type WeekComplete struct {
	Week           int                   `json:"week"`
	Phase          domain.Phase          `json:"phase"`
	Round          domain.PlayoffRound   `json:"round,omitempty"`
	Games          []GameResult          `json:"games"`
	ChampionTeamID string                `json:"championTeamId,omitempty"`
	Playoffs       *domain.PlayoffState  `json:"playoffs,omitempty"`
	Stage          domain.OffseasonStage `json:"stage,omitempty"`
}

// SimProgress is the per-week broadcast during a fast-forward.
type SimProgress struct {
	Week       int `json:"week"`
	TargetWeek int `json:"targetWeek"`
}

// SigningResult is one completed free-agency signing.
type SigningResult struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	TeamID     string  `json:"teamId"`
	TeamAbbr   string  `json:"teamAbbr"`
	CapHit     float64 `json:"capHit"`
}

// OffseasonPhase reports one offseason step: the stage reached plus whatever
// the step produced.
type OffseasonPhase struct {
	Stage         domain.OffseasonStage `json:"stage"`
	FreeAgencyDay int                   `json:"freeAgencyDay,omitempty"`
	Retirements   []string              `json:"retirements,omitempty"`
	Signings      []SigningResult       `json:"signings,omitempty"`
}
