package bundb

import (
	"context"

	"github.com/gridiron-gm/engine/app/domain"
)

// Store is the durable keyed storage behind the entity cache. One flush is one
// logical transaction; per-entity loads serve cold reads.
type Store interface {
	// BulkWrite persists one drained flush batch atomically. A record failing
	// key validation is dropped and logged rather than aborting the batch.
	BulkWrite(ctx context.Context, saveID string, p *domain.Pending) error
	// TouchSave upserts the save-index row for a league.
	TouchSave(ctx context.Context, s domain.SaveSummary) error

	LoadLeague(ctx context.Context, saveID string) (*domain.Snapshot, error)
	SaveSummaries(ctx context.Context) ([]domain.SaveSummary, error)
	DeleteSave(ctx context.Context, saveID string) error

	SeasonArchives(ctx context.Context, saveID string) ([]*domain.SeasonArchive, error)
	SeasonGames(ctx context.Context, saveID, seasonID string) ([]*domain.Game, error)
	SeasonStatsBySeason(ctx context.Context, saveID, seasonID string) ([]*domain.SeasonStat, error)
	PlayerCareer(ctx context.Context, saveID, playerID string) ([]*domain.SeasonStat, error)
	BoxScore(ctx context.Context, saveID, gameID string) (*domain.Game, error)
	RecentTransactions(ctx context.Context, saveID string, n int) ([]*domain.Transaction, error)

	Close() error
}
