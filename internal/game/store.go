package game

import (
	"context"

	"github.com/UnknownOlympus/bazaar/internal/models"
)

// LedgerStore aggregates the append-only transaction ledger.
type LedgerStore interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	TransactionsSum(ctx context.Context, userID int64, sign models.Sign) (int64, error)
	LedgerSummary(ctx context.Context, userID int64) (models.LedgerSummary, error)
}

// CatalogStore reads products and achievements.
type CatalogStore interface {
	Products(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Product(ctx context.Context, id int64) (models.Product, error)
	Achievements(ctx context.Context, filter models.AchievementFilter) ([]models.Achievement, error)
}

// PurchaseStore reads purchases and applies their transitions. InsertPurchaseAndDebit
// must re-check the balance atomically with both inserts; UpdatePurchase must apply
// the change only when the purchase is still in update.ExpectStatus.
type PurchaseStore interface {
	Purchase(ctx context.Context, id int64) (models.Purchase, error)
	Purchases(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error)
	InsertPurchaseAndDebit(ctx context.Context, purchase models.Purchase, cost int64) (models.Purchase, error)
	UpdatePurchase(ctx context.Context, id int64, update models.PurchaseUpdate) (models.Purchase, error)
}

// EmployeeDirectory resolves employees by user ID or full name.
type EmployeeDirectory interface {
	Employee(ctx context.Context, lookup models.EmployeeLookup) (models.Employee, error)
}

// Store is everything the engine reads and writes.
type Store interface {
	LedgerStore
	CatalogStore
	PurchaseStore
	EmployeeDirectory
}

// Notifier delivers a plain-text message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) error
}
