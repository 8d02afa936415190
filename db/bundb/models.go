package bundb

import (
	"time"

	"github.com/uptrace/bun"
)

// Every league-scoped row is keyed by (save_id, id) so independent leagues
// share one save file. Entity payloads are stored as JSON documents; the few
// extra columns exist only to serve history queries.

// SaveModel is one save-index row, independent of the per-league collections.
type SaveModel struct {
	bun.BaseModel `bun:"table:saves,alias:sv"`

	SaveID       string    `bun:"save_id,pk"`
	Name         string    `bun:"name,notnull"`
	Year         int       `bun:"year,notnull"`
	UserTeamAbbr string    `bun:"user_team_abbr"`
	LastPlayed   time.Time `bun:"last_played,notnull"`
}

// MetaModel holds the singleton meta record of one league.
type MetaModel struct {
	bun.BaseModel `bun:"table:league_meta,alias:lm"`

	SaveID string `bun:"save_id,pk"`
	Data   []byte `bun:"data,notnull"`
}

// TeamModel is one team row.
type TeamModel struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	SaveID string `bun:"save_id,pk"`
	ID     string `bun:"id,pk"`
	Data   []byte `bun:"data,notnull"`
}

// PlayerModel is one player row.
type PlayerModel struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	SaveID string `bun:"save_id,pk"`
	ID     string `bun:"id,pk"`
	Data   []byte `bun:"data,notnull"`
}

// GameModel is one played game. Rows are write-once.
type GameModel struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	SaveID   string `bun:"save_id,pk"`
	ID       string `bun:"id,pk"`
	SeasonID string `bun:"season_id,notnull"`
	Week     int    `bun:"week,notnull"`
	Data     []byte `bun:"data,notnull"`
}

// DraftPickModel is one draft-pick slot.
type DraftPickModel struct {
	bun.BaseModel `bun:"table:draft_picks,alias:dp"`

	SaveID string `bun:"save_id,pk"`
	ID     string `bun:"id,pk"`
	Data   []byte `bun:"data,notnull"`
}

// SeasonStatModel is one per (player, season) aggregate.
type SeasonStatModel struct {
	bun.BaseModel `bun:"table:season_stats,alias:ss"`

	SaveID   string `bun:"save_id,pk"`
	ID       string `bun:"id,pk"`
	SeasonID string `bun:"season_id,notnull"`
	PlayerID string `bun:"player_id,notnull"`
	Data     []byte `bun:"data,notnull"`
}

// SeasonArchiveModel is the durable season summary written at rollover.
type SeasonArchiveModel struct {
	bun.BaseModel `bun:"table:season_archives,alias:sa"`

	SaveID   string `bun:"save_id,pk"`
	SeasonID string `bun:"season_id,pk"`
	Year     int    `bun:"year,notnull"`
	Data     []byte `bun:"data,notnull"`
}

// TransactionModel is one append-only transaction-log row.
type TransactionModel struct {
	bun.BaseModel `bun:"table:transactions,alias:tx"`

	Seq      int64  `bun:"seq,pk,autoincrement"`
	TxID     string `bun:"tx_id,notnull"`
	SaveID   string `bun:"save_id,notnull"`
	SeasonID string `bun:"season_id"`
	Week     int    `bun:"week"`
	Data     []byte `bun:"data,notnull"`
}
