package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/models"
)

// Balance returns the sum of all ledger amounts of the user.
func (r *Repository) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	if err := r.db.QueryRow(ctx, SelectBalanceSQL, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to sum balance of user %d: %w", userID, classify(err))
	}
	return balance, nil
}

// TransactionsSum aggregates one side of the ledger. Debits are reported as a
// positive magnitude; SignAny returns the balance.
func (r *Repository) TransactionsSum(ctx context.Context, userID int64, sign models.Sign) (int64, error) {
	query := SelectBalanceSQL
	switch sign {
	case models.SignCredit:
		query = SelectCreditsSumSQL
	case models.SignDebit:
		query = SelectDebitsSumSQL
	case models.SignAny:
	}

	var sum int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions of user %d: %w", userID, classify(err))
	}
	return sum, nil
}

// LedgerSummary returns balance, credits and debits computed by a single statement.
func (r *Repository) LedgerSummary(ctx context.Context, userID int64) (models.LedgerSummary, error) {
	var summary models.LedgerSummary
	err := r.db.QueryRow(ctx, SelectLedgerSummarySQL, userID).
		Scan(&summary.Balance, &summary.AchievementsSum, &summary.PurchasesSum)
	if err != nil {
		return models.LedgerSummary{}, fmt.Errorf("failed to summarize ledger of user %d: %w", userID, classify(err))
	}
	return summary, nil
}
