package migrations

import (
	"context"
	"fmt"

	"github.com/askora/askora/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.User)(nil),
			(*types.Question)(nil),
			(*types.Answer)(nil),
			(*types.Vote)(nil),
			(*types.ReputationAccount)(nil),
			(*types.LedgerEntry)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.LedgerEntry)(nil),
			(*types.ReputationAccount)(nil),
			(*types.Vote)(nil),
			(*types.Answer)(nil),
			(*types.Question)(nil),
			(*types.User)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Cascade().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
