// Package shared holds the engine state every module service works against:
// the entity cache, the durable store, and the flush discipline tying them
// together.
package shared

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridiron-gm/engine/app/cache"
	"github.com/gridiron-gm/engine/app/domain"
	"github.com/gridiron-gm/engine/db/bundb"
)

// State bundles the cache and store a service mutates. One State exists per
// engine; the command router's single-flight gate serializes writers.
type State struct {
	Cache  *cache.Cache
	Store  bundb.Store
	Logger *slog.Logger
}

// Meta returns the open league's meta record or a no-league validation error.
func (s *State) Meta() (*domain.Meta, error) {
	m := s.Cache.Meta()
	if m == nil {
		return nil, Validationf(CodeNoLeague, "no league loaded")
	}
	return m, nil
}

// Flush drains the dirty sets and writes them durably. It is the mandatory
// last step of every mutating command. On storage failure the drained batch
// is re-marked dirty so the next flush retries it; the in-memory cache is
// never rolled back or corrupted.
func (s *State) Flush(ctx context.Context) error {
	meta := s.Cache.Meta()
	if meta == nil {
		return nil
	}
	pending := s.Cache.DrainDirty()
	if pending.Empty() {
		return nil
	}
	if err := s.Store.BulkWrite(ctx, meta.SaveID, pending); err != nil {
		s.Cache.RestoreDirty(pending)
		return fmt.Errorf("flush failed, entities kept dirty for retry: %w", err)
	}
	if err := s.Store.TouchSave(ctx, s.SaveSummary()); err != nil {
		// A stale index row is tolerable; the league data itself is durable.
		s.Logger.Warn("failed to update save index", slog.String("save_id", meta.SaveID), slog.Any("error", err))
	}
	return nil
}

// SaveSummary builds the save-index row for the open league.
func (s *State) SaveSummary() domain.SaveSummary {
	meta := s.Cache.Meta()
	abbr := ""
	if t, ok := s.Cache.Team(meta.UserTeamID); ok {
		abbr = t.Abbr
	}
	return domain.SaveSummary{
		SaveID:       meta.SaveID,
		Name:         meta.Name,
		Year:         meta.Year,
		UserTeamAbbr: abbr,
		LastPlayed:   time.Now().UTC(),
	}
}
