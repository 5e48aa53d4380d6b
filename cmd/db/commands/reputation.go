package commands

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// ReputationCommands returns all reputation maintenance commands.
func ReputationCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "verify",
			Usage:  "Audit reputation accounts against a replay of their ledgers",
			Action: handleVerify(deps),
		},
	}
}

// handleVerify handles the 'verify' command.
func handleVerify(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		drifts, err := deps.DB.Service().Reputation().VerifyAccounts(ctx)
		if err != nil {
			return err
		}

		if len(drifts) == 0 {
			deps.Logger.Info("All reputation accounts match their ledgers")
			return nil
		}

		for _, drift := range drifts {
			deps.Logger.Warn("Reputation account drifted from ledger replay",
				zap.Uint64("userID", drift.UserID),
				zap.Int64("stored", drift.Stored),
				zap.Int64("replayed", drift.Replayed),
			)
		}

		return nil
	}
}
