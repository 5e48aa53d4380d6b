package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Content authorship
			ALTER TABLE questions
			ADD CONSTRAINT fk_questions_author
			FOREIGN KEY (author_id) REFERENCES users (id) ON DELETE CASCADE;

			ALTER TABLE answers
			ADD CONSTRAINT fk_answers_author
			FOREIGN KEY (author_id) REFERENCES users (id) ON DELETE CASCADE;

			ALTER TABLE answers
			ADD CONSTRAINT fk_answers_question
			FOREIGN KEY (question_id) REFERENCES questions (id) ON DELETE CASCADE;

			-- Votes reference a voter and exactly one content kind
			ALTER TABLE votes
			ADD CONSTRAINT fk_votes_voter
			FOREIGN KEY (voter_id) REFERENCES users (id) ON DELETE CASCADE;

			ALTER TABLE votes
			ADD CONSTRAINT chk_votes_content_kind
			CHECK (content_kind IN (0, 1));

			-- Reputation accounts never drop below the floor
			ALTER TABLE reputation_accounts
			ADD CONSTRAINT fk_reputation_accounts_user
			FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE;

			ALTER TABLE reputation_accounts
			ADD CONSTRAINT chk_reputation_accounts_floor
			CHECK (score >= 1);

			-- Ledger entries record real adjustments only
			ALTER TABLE ledger_entries
			ADD CONSTRAINT fk_ledger_entries_user
			FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE;

			ALTER TABLE ledger_entries
			ADD CONSTRAINT chk_ledger_entries_content_kind
			CHECK (content_kind IN (0, 1));

			ALTER TABLE ledger_entries
			ADD CONSTRAINT chk_ledger_entries_delta
			CHECK (delta <> 0);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add constraints: %w", err)
		}

		_, err = db.NewRaw(`
			-- Tally aggregation per content item
			CREATE INDEX IF NOT EXISTS idx_votes_content
			ON votes (content_kind, content_id, is_upvote);

			-- Per-account ledger history, newest first
			CREATE INDEX IF NOT EXISTS idx_ledger_entries_user_time
			ON ledger_entries (user_id, created_at DESC);

			-- Author's content listings
			CREATE INDEX IF NOT EXISTS idx_questions_author
			ON questions (author_id);

			CREATE INDEX IF NOT EXISTS idx_answers_author
			ON answers (author_id);

			CREATE INDEX IF NOT EXISTS idx_answers_question
			ON answers (question_id);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_answers_question;
			DROP INDEX IF EXISTS idx_answers_author;
			DROP INDEX IF EXISTS idx_questions_author;
			DROP INDEX IF EXISTS idx_ledger_entries_user_time;
			DROP INDEX IF EXISTS idx_votes_content;

			ALTER TABLE ledger_entries DROP CONSTRAINT IF EXISTS chk_ledger_entries_delta;
			ALTER TABLE ledger_entries DROP CONSTRAINT IF EXISTS chk_ledger_entries_content_kind;
			ALTER TABLE ledger_entries DROP CONSTRAINT IF EXISTS fk_ledger_entries_user;
			ALTER TABLE reputation_accounts DROP CONSTRAINT IF EXISTS chk_reputation_accounts_floor;
			ALTER TABLE reputation_accounts DROP CONSTRAINT IF EXISTS fk_reputation_accounts_user;
			ALTER TABLE votes DROP CONSTRAINT IF EXISTS chk_votes_content_kind;
			ALTER TABLE votes DROP CONSTRAINT IF EXISTS fk_votes_voter;
			ALTER TABLE answers DROP CONSTRAINT IF EXISTS fk_answers_question;
			ALTER TABLE answers DROP CONSTRAINT IF EXISTS fk_answers_author;
			ALTER TABLE questions DROP CONSTRAINT IF EXISTS fk_questions_author;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop constraints: %w", err)
		}

		return nil
	})
}
