package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/askora/askora/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReputationModel handles read-side database operations for reputation
// accounts and the ledger. Score mutations happen inside vote transactions.
type ReputationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReputation creates a new reputation model.
func NewReputation(db *bun.DB, logger *zap.Logger) *ReputationModel {
	return &ReputationModel{
		db:     db,
		logger: logger.Named("db_reputation"),
	}
}

// GetAccount retrieves the reputation account for a user. Users without an
// account row read as the minimum score.
func (r *ReputationModel) GetAccount(ctx context.Context, userID uint64) (*types.ReputationAccount, error) {
	account := new(types.ReputationAccount)

	err := r.db.NewSelect().
		Model(account).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &types.ReputationAccount{UserID: userID, Score: types.MinScore}, nil
		}

		return nil, fmt.Errorf("failed to get reputation account: %w", err)
	}

	return account, nil
}

// GetLedgerEntries retrieves a user's most recent ledger entries.
func (r *ReputationModel) GetLedgerEntries(
	ctx context.Context, userID uint64, limit int,
) ([]*types.LedgerEntry, error) {
	var entries []*types.LedgerEntry

	err := r.db.NewSelect().
		Model(&entries).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}

	return entries, nil
}

// GetAccountsPage retrieves reputation accounts ordered by user ID for
// keyset pagination. Pass zero to start from the beginning.
func (r *ReputationModel) GetAccountsPage(
	ctx context.Context, afterUserID uint64, limit int,
) ([]*types.ReputationAccount, error) {
	var accounts []*types.ReputationAccount

	err := r.db.NewSelect().
		Model(&accounts).
		Where("user_id > ?", afterUserID).
		Order("user_id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reputation accounts: %w", err)
	}

	return accounts, nil
}

// ReplayLedger recomputes a user's score by replaying their ledger entries
// oldest first, applying the floor clamp at every step the way the live
// adjustments did.
func (r *ReputationModel) ReplayLedger(ctx context.Context, userID uint64) (int64, error) {
	var deltas []int64

	err := r.db.NewSelect().
		Model((*types.LedgerEntry)(nil)).
		Column("delta").
		Where("user_id = ?", userID).
		Order("created_at ASC", "id ASC").
		Scan(ctx, &deltas)
	if err != nil {
		return 0, fmt.Errorf("failed to replay ledger: %w", err)
	}

	score := int64(types.MinScore)
	for _, delta := range deltas {
		score = types.ApplyDelta(score, delta)
	}

	return score, nil
}
