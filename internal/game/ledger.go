package game

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/models"
)

// Balance returns the sum of all ledger entries of the user.
func (e *Engine) Balance(ctx context.Context, userID int64) (int64, error) {
	balance, err := e.store.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", fromStore(err))
	}
	return balance, nil
}

// AchievementsSum returns the total of the user's credits.
func (e *Engine) AchievementsSum(ctx context.Context, userID int64) (int64, error) {
	sum, err := e.store.TransactionsSum(ctx, userID, models.SignCredit)
	if err != nil {
		return 0, fmt.Errorf("failed to sum achievements: %w", fromStore(err))
	}
	return sum, nil
}

// PurchasesSum returns the magnitude of the user's debits.
func (e *Engine) PurchasesSum(ctx context.Context, userID int64) (int64, error) {
	sum, err := e.store.TransactionsSum(ctx, userID, models.SignDebit)
	if err != nil {
		return 0, fmt.Errorf("failed to sum purchases: %w", fromStore(err))
	}
	return sum, nil
}

// Summary returns balance, credits and debits read from one snapshot, so that
// Balance == AchievementsSum - PurchasesSum.
func (e *Engine) Summary(ctx context.Context, userID int64) (models.LedgerSummary, error) {
	summary, err := e.store.LedgerSummary(ctx, userID)
	if err != nil {
		return models.LedgerSummary{}, fmt.Errorf("failed to summarize ledger: %w", fromStore(err))
	}
	return summary, nil
}
