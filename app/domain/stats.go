package domain

import (
	"fmt"
	"time"
)

// StatTotals accumulates a player's counting stats.
type StatTotals struct {
	PassYd        int `json:"passYd"`
	PassTD        int `json:"passTd"`
	RushYd        int `json:"rushYd"`
	RushTD        int `json:"rushTd"`
	Rec           int `json:"rec"`
	RecYd         int `json:"recYd"`
	RecTD         int `json:"recTd"`
	Tackles       int `json:"tackles"`
	Sacks         int `json:"sacks"`
	Interceptions int `json:"interceptions"`
}

// Add folds one box-score line into the running totals.
func (t *StatTotals) Add(line StatLine) {
	t.PassYd += line.PassYd
	t.PassTD += line.PassTD
	t.RushYd += line.RushYd
	t.RushTD += line.RushTD
	t.Rec += line.Rec
	t.RecYd += line.RecYd
	t.RecTD += line.RecTD
	t.Tackles += line.Tackles
	t.Sacks += line.Sacks
	t.Interceptions += line.Interceptions
}

// SeasonStat is a per (player, season) aggregate. Archived to durable storage
// and evicted from the hot cache at season rollover.
type SeasonStat struct {
	ID       string     `json:"id"`
	PlayerID string     `json:"playerId"`
	SeasonID string     `json:"seasonId"`
	TeamID   string     `json:"teamId,omitempty"`
	Games    int        `json:"games"`
	Totals   StatTotals `json:"totals"`
}

// SeasonStatID builds the composite stat key.
func SeasonStatID(playerID, seasonID string) string {
	return playerID + "|" + seasonID
}

// TransactionType classifies roster moves for the transaction log.
type TransactionType string

const (
	TxSign    TransactionType = "sign"
	TxRelease TransactionType = "release"
	TxTrade   TransactionType = "trade"
	TxDraft   TransactionType = "draft"
	TxRetire  TransactionType = "retire"
)

// Transaction is one append-only roster-move record.
type Transaction struct {
	ID       string          `json:"id"`
	SeasonID string          `json:"seasonId"`
	Week     int             `json:"week"`
	Type     TransactionType `json:"type"`
	TeamID   string          `json:"teamId,omitempty"`
	PlayerID string          `json:"playerId,omitempty"`
	Detail   string          `json:"detail"`
}

// SeasonArchive is the durable summary written at season rollover.
type SeasonArchive struct {
	SeasonID       string `json:"seasonId"`
	Year           int    `json:"year"`
	ChampionTeamID string `json:"championTeamId"`
	ChampionName   string `json:"championName"`
	UserTeamRecord string `json:"userTeamRecord"`
}

// SaveSummary is one save-index row for the multi-league front end.
type SaveSummary struct {
	SaveID       string    `json:"saveId"`
	Name         string    `json:"name"`
	Year         int       `json:"year"`
	UserTeamAbbr string    `json:"userTeamAbbr"`
	LastPlayed   time.Time `json:"lastPlayed"`
}

// SeasonIDFor names a season from its calendar year.
func SeasonIDFor(year int) string {
	return fmt.Sprintf("season-%d", year)
}
