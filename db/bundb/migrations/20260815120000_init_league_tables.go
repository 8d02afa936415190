package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/gridiron-gm/engine/db/bundb"
)

var leagueModels = []any{
	(*bundb.SaveModel)(nil),
	(*bundb.MetaModel)(nil),
	(*bundb.TeamModel)(nil),
	(*bundb.PlayerModel)(nil),
	(*bundb.GameModel)(nil),
	(*bundb.DraftPickModel)(nil),
	(*bundb.SeasonStatModel)(nil),
	(*bundb.SeasonArchiveModel)(nil),
	(*bundb.TransactionModel)(nil),
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, model := range leagueModels {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		if _, err := db.NewCreateIndex().Model((*bundb.GameModel)(nil)).
			Index("idx_games_season").IfNotExists().
			Column("save_id", "season_id").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*bundb.SeasonStatModel)(nil)).
			Index("idx_season_stats_player").IfNotExists().
			Column("save_id", "player_id").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*bundb.TransactionModel)(nil)).
			Index("idx_transactions_save").IfNotExists().
			Column("save_id").Exec(ctx); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, model := range leagueModels {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
