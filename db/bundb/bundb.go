// Package bundb implements the durable save store on SQLite via bun. Entities
// are stored as JSON documents keyed by (save_id, id), one table per
// collection, plus one save-index table shared across leagues.
package bundb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/gridiron-gm/engine/app/domain"
)

var (
	// ErrSaveNotFound is returned when a save id has no meta record.
	ErrSaveNotFound = errors.New("save not found")
	// ErrGameNotFound is returned when a game id has no stored box score.
	ErrGameNotFound = errors.New("game not found")
	// ErrMetaPhaseMissing rejects a flush that would persist a meta record
	// without a phase value.
	ErrMetaPhaseMissing = errors.New("meta record has no phase")
)

// DB is the bun-backed Store implementation.
type DB struct {
	bun    *bun.DB
	logger *slog.Logger
}

var _ Store = (*DB)(nil)

// New opens (or creates) the save file at path and returns the store.
func New(path string, logger *slog.Logger) (*DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}
	// SQLite handles one writer; a single conn sidesteps table-lock errors.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return &DB{bun: db, logger: logger}, nil
}

// Bun exposes the underlying handle for migrations and tests.
func (d *DB) Bun() *bun.DB { return d.bun }

// Close closes the save file.
func (d *DB) Close() error { return d.bun.Close() }

// BulkWrite persists one flush batch as a single transaction. Records with an
// empty id fail key validation and are dropped with a warning; a transaction
// error leaves durable state untouched so the caller can re-mark the batch
// dirty and retry.
func (d *DB) BulkWrite(ctx context.Context, saveID string, p *domain.Pending) error {
	if p.Empty() {
		return nil
	}
	if p.Meta != nil && p.Meta.Phase == "" {
		return ErrMetaPhaseMissing
	}

	metaRow, teamRows, playerRows, gameRows, pickRows, statRows, txRows, archiveRows, err := d.encodePending(saveID, p)
	if err != nil {
		return err
	}

	return d.bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if metaRow != nil {
			if _, err := tx.NewInsert().Model(metaRow).
				On("CONFLICT (save_id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to write meta: %w", err)
			}
		}
		if len(teamRows) > 0 {
			if _, err := tx.NewInsert().Model(&teamRows).
				On("CONFLICT (save_id, id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to write teams: %w", err)
			}
		}
		if len(playerRows) > 0 {
			if _, err := tx.NewInsert().Model(&playerRows).
				On("CONFLICT (save_id, id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to write players: %w", err)
			}
		}
		if len(p.DeletedPlayers) > 0 {
			if _, err := tx.NewDelete().Model((*PlayerModel)(nil)).
				Where("save_id = ?", saveID).
				Where("id IN (?)", bun.In(p.DeletedPlayers)).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to delete players: %w", err)
			}
		}
		if len(gameRows) > 0 {
			if _, err := tx.NewInsert().Model(&gameRows).
				On("CONFLICT (save_id, id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to write games: %w", err)
			}
		}
		if len(pickRows) > 0 {
			if _, err := tx.NewInsert().Model(&pickRows).
				On("CONFLICT (save_id, id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to write draft picks: %w", err)
			}
		}
		if len(statRows) > 0 {
			if _, err := tx.NewInsert().Model(&statRows).
				On("CONFLICT (save_id, id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to write season stats: %w", err)
			}
		}
		if len(archiveRows) > 0 {
			if _, err := tx.NewInsert().Model(&archiveRows).
				On("CONFLICT (save_id, season_id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to write season archives: %w", err)
			}
		}
		if len(txRows) > 0 {
			if _, err := tx.NewInsert().Model(&txRows).Exec(ctx); err != nil {
				return fmt.Errorf("failed to write transactions: %w", err)
			}
		}
		return nil
	})
}

func (d *DB) encodePending(saveID string, p *domain.Pending) (
	metaRow *MetaModel,
	teamRows []*TeamModel,
	playerRows []*PlayerModel,
	gameRows []*GameModel,
	pickRows []*DraftPickModel,
	statRows []*SeasonStatModel,
	txRows []*TransactionModel,
	archiveRows []*SeasonArchiveModel,
	err error,
) {
	if p.Meta != nil {
		data, merr := json.Marshal(p.Meta)
		if merr != nil {
			err = fmt.Errorf("failed to marshal meta: %w", merr)
			return
		}
		metaRow = &MetaModel{SaveID: saveID, Data: data}
	}
	for _, t := range p.Teams {
		if t.ID == "" {
			d.logger.Warn("dropping team with empty id from flush", slog.String("save_id", saveID))
			continue
		}
		data, merr := json.Marshal(t)
		if merr != nil {
			err = fmt.Errorf("failed to marshal team %s: %w", t.ID, merr)
			return
		}
		teamRows = append(teamRows, &TeamModel{SaveID: saveID, ID: t.ID, Data: data})
	}
	for _, pl := range p.Players {
		if pl.ID == "" {
			d.logger.Warn("dropping player with empty id from flush", slog.String("save_id", saveID))
			continue
		}
		data, merr := json.Marshal(pl)
		if merr != nil {
			err = fmt.Errorf("failed to marshal player %s: %w", pl.ID, merr)
			return
		}
		playerRows = append(playerRows, &PlayerModel{SaveID: saveID, ID: pl.ID, Data: data})
	}
	for _, g := range p.Games {
		if g.ID == "" {
			d.logger.Warn("dropping game with empty id from flush", slog.String("save_id", saveID))
			continue
		}
		data, merr := json.Marshal(g)
		if merr != nil {
			err = fmt.Errorf("failed to marshal game %s: %w", g.ID, merr)
			return
		}
		gameRows = append(gameRows, &GameModel{SaveID: saveID, ID: g.ID, SeasonID: g.SeasonID, Week: g.Week, Data: data})
	}
	for _, pk := range p.Picks {
		if pk.ID == "" {
			d.logger.Warn("dropping draft pick with empty id from flush", slog.String("save_id", saveID))
			continue
		}
		data, merr := json.Marshal(pk)
		if merr != nil {
			err = fmt.Errorf("failed to marshal draft pick %s: %w", pk.ID, merr)
			return
		}
		pickRows = append(pickRows, &DraftPickModel{SaveID: saveID, ID: pk.ID, Data: data})
	}
	for _, s := range p.Stats {
		if s.ID == "" {
			d.logger.Warn("dropping season stat with empty id from flush", slog.String("save_id", saveID))
			continue
		}
		data, merr := json.Marshal(s)
		if merr != nil {
			err = fmt.Errorf("failed to marshal season stat %s: %w", s.ID, merr)
			return
		}
		statRows = append(statRows, &SeasonStatModel{SaveID: saveID, ID: s.ID, SeasonID: s.SeasonID, PlayerID: s.PlayerID, Data: data})
	}
	for _, tr := range p.Transactions {
		if tr.ID == "" {
			d.logger.Warn("dropping transaction with empty id from flush", slog.String("save_id", saveID))
			continue
		}
		data, merr := json.Marshal(tr)
		if merr != nil {
			err = fmt.Errorf("failed to marshal transaction %s: %w", tr.ID, merr)
			return
		}
		txRows = append(txRows, &TransactionModel{TxID: tr.ID, SaveID: saveID, SeasonID: tr.SeasonID, Week: tr.Week, Data: data})
	}
	for _, a := range p.Archives {
		if a.SeasonID == "" {
			d.logger.Warn("dropping season archive with empty id from flush", slog.String("save_id", saveID))
			continue
		}
		data, merr := json.Marshal(a)
		if merr != nil {
			err = fmt.Errorf("failed to marshal season archive %s: %w", a.SeasonID, merr)
			return
		}
		archiveRows = append(archiveRows, &SeasonArchiveModel{SaveID: saveID, SeasonID: a.SeasonID, Year: a.Year, Data: data})
	}
	return
}

// TouchSave upserts the save-index row. The index is independent of the
// per-league collections, so this runs outside the flush transaction.
func (d *DB) TouchSave(ctx context.Context, s domain.SaveSummary) error {
	row := &SaveModel{
		SaveID:       s.SaveID,
		Name:         s.Name,
		Year:         s.Year,
		UserTeamAbbr: s.UserTeamAbbr,
		LastPlayed:   s.LastPlayed,
	}
	_, err := d.bun.NewInsert().Model(row).
		On("CONFLICT (save_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("year = EXCLUDED.year").
		Set("user_team_abbr = EXCLUDED.user_team_abbr").
		Set("last_played = EXCLUDED.last_played").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to touch save index: %w", err)
	}
	return nil
}

// SaveSummaries lists every league in the save file, most recently played
// first.
func (d *DB) SaveSummaries(ctx context.Context) ([]domain.SaveSummary, error) {
	var rows []*SaveModel
	if err := d.bun.NewSelect().Model(&rows).Order("last_played DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	out := make([]domain.SaveSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.SaveSummary{
			SaveID:       r.SaveID,
			Name:         r.Name,
			Year:         r.Year,
			UserTeamAbbr: r.UserTeamAbbr,
			LastPlayed:   r.LastPlayed,
		})
	}
	return out, nil
}

// LoadLeague reads one league's snapshot for cache hydration.
func (d *DB) LoadLeague(ctx context.Context, saveID string) (*domain.Snapshot, error) {
	var metaRow MetaModel
	err := d.bun.NewSelect().Model(&metaRow).Where("save_id = ?", saveID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meta: %w", err)
	}

	snap := &domain.Snapshot{Meta: &domain.Meta{}}
	if err := json.Unmarshal(metaRow.Data, snap.Meta); err != nil {
		return nil, fmt.Errorf("failed to decode meta: %w", err)
	}

	var teamRows []*TeamModel
	if err := d.bun.NewSelect().Model(&teamRows).Where("save_id = ?", saveID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	for _, r := range teamRows {
		t := &domain.Team{}
		if err := json.Unmarshal(r.Data, t); err != nil {
			return nil, fmt.Errorf("failed to decode team %s: %w", r.ID, err)
		}
		snap.Teams = append(snap.Teams, t)
	}

	var playerRows []*PlayerModel
	if err := d.bun.NewSelect().Model(&playerRows).Where("save_id = ?", saveID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	for _, r := range playerRows {
		p := &domain.Player{}
		if err := json.Unmarshal(r.Data, p); err != nil {
			return nil, fmt.Errorf("failed to decode player %s: %w", r.ID, err)
		}
		snap.Players = append(snap.Players, p)
	}

	// Only the current season's games stay hot; history comes from cold reads.
	var gameRows []*GameModel
	if err := d.bun.NewSelect().Model(&gameRows).
		Where("save_id = ?", saveID).
		Where("season_id = ?", snap.Meta.SeasonID).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	for _, r := range gameRows {
		g := &domain.Game{}
		if err := json.Unmarshal(r.Data, g); err != nil {
			return nil, fmt.Errorf("failed to decode game %s: %w", r.ID, err)
		}
		snap.Games = append(snap.Games, g)
	}

	var pickRows []*DraftPickModel
	if err := d.bun.NewSelect().Model(&pickRows).Where("save_id = ?", saveID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load draft picks: %w", err)
	}
	for _, r := range pickRows {
		pk := &domain.DraftPick{}
		if err := json.Unmarshal(r.Data, pk); err != nil {
			return nil, fmt.Errorf("failed to decode draft pick %s: %w", r.ID, err)
		}
		snap.Picks = append(snap.Picks, pk)
	}

	stats, err := d.SeasonStatsBySeason(ctx, saveID, snap.Meta.SeasonID)
	if err != nil {
		return nil, err
	}
	snap.Stats = stats

	return snap, nil
}

// DeleteSave removes one league from every collection plus the save index.
func (d *DB) DeleteSave(ctx context.Context, saveID string) error {
	return d.bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{
			(*MetaModel)(nil),
			(*TeamModel)(nil),
			(*PlayerModel)(nil),
			(*GameModel)(nil),
			(*DraftPickModel)(nil),
			(*SeasonStatModel)(nil),
			(*SeasonArchiveModel)(nil),
			(*TransactionModel)(nil),
			(*SaveModel)(nil),
		} {
			if _, err := tx.NewDelete().Model(model).Where("save_id = ?", saveID).Exec(ctx); err != nil {
				return fmt.Errorf("failed to delete save %s: %w", saveID, err)
			}
		}
		return nil
	})
}

// SeasonArchives lists the archived seasons of a league, newest first.
func (d *DB) SeasonArchives(ctx context.Context, saveID string) ([]*domain.SeasonArchive, error) {
	var rows []*SeasonArchiveModel
	if err := d.bun.NewSelect().Model(&rows).Where("save_id = ?", saveID).Order("year DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load season archives: %w", err)
	}
	out := make([]*domain.SeasonArchive, 0, len(rows))
	for _, r := range rows {
		a := &domain.SeasonArchive{}
		if err := json.Unmarshal(r.Data, a); err != nil {
			return nil, fmt.Errorf("failed to decode season archive %s: %w", r.SeasonID, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// SeasonGames returns all games of one season ordered by week.
func (d *DB) SeasonGames(ctx context.Context, saveID, seasonID string) ([]*domain.Game, error) {
	var rows []*GameModel
	if err := d.bun.NewSelect().Model(&rows).
		Where("save_id = ?", saveID).
		Where("season_id = ?", seasonID).
		Order("week ASC").Order("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load season games: %w", err)
	}
	out := make([]*domain.Game, 0, len(rows))
	for _, r := range rows {
		g := &domain.Game{}
		if err := json.Unmarshal(r.Data, g); err != nil {
			return nil, fmt.Errorf("failed to decode game %s: %w", r.ID, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// SeasonStatsBySeason returns every player aggregate of one season.
func (d *DB) SeasonStatsBySeason(ctx context.Context, saveID, seasonID string) ([]*domain.SeasonStat, error) {
	var rows []*SeasonStatModel
	if err := d.bun.NewSelect().Model(&rows).
		Where("save_id = ?", saveID).
		Where("season_id = ?", seasonID).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load season stats: %w", err)
	}
	return decodeStats(rows)
}

// PlayerCareer returns one player's aggregates across all seasons.
func (d *DB) PlayerCareer(ctx context.Context, saveID, playerID string) ([]*domain.SeasonStat, error) {
	var rows []*SeasonStatModel
	if err := d.bun.NewSelect().Model(&rows).
		Where("save_id = ?", saveID).
		Where("player_id = ?", playerID).
		Order("season_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load player career: %w", err)
	}
	return decodeStats(rows)
}

func decodeStats(rows []*SeasonStatModel) ([]*domain.SeasonStat, error) {
	out := make([]*domain.SeasonStat, 0, len(rows))
	for _, r := range rows {
		s := &domain.SeasonStat{}
		if err := json.Unmarshal(r.Data, s); err != nil {
			return nil, fmt.Errorf("failed to decode season stat %s: %w", r.ID, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// BoxScore loads one game with its full box-score payload.
func (d *DB) BoxScore(ctx context.Context, saveID, gameID string) (*domain.Game, error) {
	var row GameModel
	err := d.bun.NewSelect().Model(&row).
		Where("save_id = ?", saveID).
		Where("id = ?", gameID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load box score: %w", err)
	}
	g := &domain.Game{}
	if err := json.Unmarshal(row.Data, g); err != nil {
		return nil, fmt.Errorf("failed to decode game %s: %w", gameID, err)
	}
	return g, nil
}

// RecentTransactions returns the last n roster moves, newest first.
func (d *DB) RecentTransactions(ctx context.Context, saveID string, n int) ([]*domain.Transaction, error) {
	var rows []*TransactionModel
	if err := d.bun.NewSelect().Model(&rows).
		Where("save_id = ?", saveID).
		Order("seq DESC").
		Limit(n).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	out := make([]*domain.Transaction, 0, len(rows))
	for _, r := range rows {
		tr := &domain.Transaction{}
		if err := json.Unmarshal(r.Data, tr); err != nil {
			return nil, fmt.Errorf("failed to decode transaction %s: %w", r.TxID, err)
		}
		out = append(out, tr)
	}
	return out, nil
}
