package service

import (
	"context"

	"github.com/askora/askora/internal/database/dbretry"
	"github.com/askora/askora/internal/database/models"
	"github.com/askora/askora/internal/database/types"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DefaultLedgerLimit caps ledger page sizes when callers pass none.
const DefaultLedgerLimit = 50

const (
	verifyBatchSize  = 500
	verifyConcurrent = 8
)

// ReputationService handles reputation-related business logic.
type ReputationService struct {
	model  *models.ReputationModel
	logger *zap.Logger
}

// NewReputation creates a new reputation service.
func NewReputation(model *models.ReputationModel, logger *zap.Logger) *ReputationService {
	return &ReputationService{
		model:  model,
		logger: logger.Named("reputation_service"),
	}
}

// GetAccount retrieves a user's reputation account.
func (s *ReputationService) GetAccount(ctx context.Context, userID uint64) (*types.ReputationAccount, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ReputationAccount, error) {
		return s.model.GetAccount(ctx, userID)
	})
}

// GetLedger retrieves a user's most recent ledger entries.
func (s *ReputationService) GetLedger(
	ctx context.Context, userID uint64, limit int,
) ([]*types.LedgerEntry, error) {
	if limit <= 0 || limit > DefaultLedgerLimit {
		limit = DefaultLedgerLimit
	}

	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.LedgerEntry, error) {
		return s.model.GetLedgerEntries(ctx, userID, limit)
	})
}

// VerifyAccounts audits every reputation account against a clamped replay of
// its ledger and reports the ones that drifted. Reversals of floor-clamped
// downvotes are a known drift source, so a non-empty result is not by itself
// a data corruption signal.
func (s *ReputationService) VerifyAccounts(ctx context.Context) ([]*types.ScoreDrift, error) {
	var (
		drifts      []*types.ScoreDrift
		afterUserID uint64
		checked     int
	)

	for {
		accounts, err := s.model.GetAccountsPage(ctx, afterUserID, verifyBatchSize)
		if err != nil {
			return nil, err
		}

		if len(accounts) == 0 {
			break
		}

		p := pool.NewWithResults[*types.ScoreDrift]().
			WithContext(ctx).
			WithMaxGoroutines(verifyConcurrent)

		for _, account := range accounts {
			p.Go(func(ctx context.Context) (*types.ScoreDrift, error) {
				replayed, err := s.model.ReplayLedger(ctx, account.UserID)
				if err != nil {
					return nil, err
				}

				if replayed == account.Score {
					return nil, nil
				}

				return &types.ScoreDrift{
					UserID:   account.UserID,
					Stored:   account.Score,
					Replayed: replayed,
				}, nil
			})
		}

		results, err := p.Wait()
		if err != nil {
			return nil, err
		}

		for _, drift := range results {
			if drift != nil {
				drifts = append(drifts, drift)
			}
		}

		checked += len(accounts)
		afterUserID = accounts[len(accounts)-1].UserID
	}

	s.logger.Info("Verified reputation accounts",
		zap.Int("checked", checked),
		zap.Int("drifted", len(drifts)))

	return drifts, nil
}
