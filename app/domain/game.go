package domain

import "fmt"

// StatLine is one player's line in a box score.
type StatLine struct {
	PlayerID      string   `json:"playerId"`
	TeamID        string   `json:"teamId"`
	Name          string   `json:"name"`
	Pos           Position `json:"pos"`
	PassYd        int      `json:"passYd,omitempty"`
	PassTD        int      `json:"passTd,omitempty"`
	RushYd        int      `json:"rushYd,omitempty"`
	RushTD        int      `json:"rushTd,omitempty"`
	Rec           int      `json:"rec,omitempty"`
	RecYd         int      `json:"recYd,omitempty"`
	RecTD         int      `json:"recTd,omitempty"`
	Tackles       int      `json:"tackles,omitempty"`
	Sacks         int      `json:"sacks,omitempty"`
	Interceptions int      `json:"interceptions,omitempty"`
}

// Game is one played game. Write-once: never mutated after creation.
type Game struct {
	ID        string       `json:"id"`
	SeasonID  string       `json:"seasonId"`
	Week      int          `json:"week"`
	Round     PlayoffRound `json:"round,omitempty"`
	HomeID    string       `json:"homeId"`
	AwayID    string       `json:"awayId"`
	HomeScore int          `json:"homeScore"`
	AwayScore int          `json:"awayScore"`
	BoxScore  []StatLine   `json:"boxScore,omitempty"`
}

// GameID builds the composite game key.
func GameID(seasonID string, week int, homeID, awayID string) string {
	return fmt.Sprintf("%s-w%02d-%s-%s", seasonID, week, homeID, awayID)
}
