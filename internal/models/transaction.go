package models

import "time"

// TransactionCategory tells credits from debits in the ledger.
type TransactionCategory string

const (
	CategoryAchievement TransactionCategory = "achievement"
	CategoryPurchase    TransactionCategory = "purchase"
)

// Sign selects which side of the ledger to aggregate.
type Sign int

const (
	SignAny    Sign = 0
	SignCredit Sign = 1
	SignDebit  Sign = -1
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID            int64               `json:"id"`
	UserID        int64               `json:"user_id"`
	Amount        int64               `json:"amount"` // Signed amount, negative for debits
	Category      TransactionCategory `json:"category"`
	PurchaseID    *int64              `json:"purchase_id,omitempty"`
	AchievementID *int64              `json:"achievement_id,omitempty"`
	Comment       string              `json:"comment"`
	CreatedAt     time.Time           `json:"created_at"`
}

// LedgerSummary holds the aggregates of a user's ledger taken from one snapshot.
type LedgerSummary struct {
	Balance         int64 `json:"balance"`
	AchievementsSum int64 `json:"achievements_sum"`
	PurchasesSum    int64 `json:"purchases_sum"`
}
