package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/jackc/pgx/v5"
)

// Purchase returns a single purchase by ID.
func (r *Repository) Purchase(ctx context.Context, id int64) (models.Purchase, error) {
	purchase, err := scanPurchase(r.db.QueryRow(ctx, SelectPurchaseSQL, id))
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to get purchase %d: %w", id, classify(err))
	}
	return purchase, nil
}

// Purchases returns purchases matching the filter. Division scoping is applied to
// the buyer's division taken from the employees table.
func (r *Repository) Purchases(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error) {
	query, args := buildPurchasesQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", classify(err))
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		purchase, errScan := scanPurchase(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan purchase row: %w", errScan)
		}
		purchases = append(purchases, purchase)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read purchase rows: %w", classify(err))
	}

	return purchases, nil
}

func buildPurchasesQuery(filter models.PurchaseFilter) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(SelectPurchasesBaseSQL)

	where := func(cond string, arg any) {
		args = append(args, arg)
		sb.WriteString("\nAND ")
		sb.WriteString(strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.UserID != 0 {
		where("p.user_id = ?", filter.UserID)
	}
	if filter.ManagerRole != 0 {
		where("pr.manager_role = ?", int32(filter.ManagerRole))
	}
	if len(filter.BuyerDivisions) > 0 {
		where("e.division = ANY(?)", filter.BuyerDivisions)
	}
	if filter.Status != "" {
		where("p.status = ?", string(filter.Status))
	}
	if filter.Decided != nil {
		if *filter.Decided {
			sb.WriteString("\nAND p.updated_by_user_id IS NOT NULL")
		} else {
			sb.WriteString("\nAND p.updated_by_user_id IS NULL")
		}
	}

	switch filter.Order {
	case models.OrderBoughtDesc:
		sb.WriteString("\nORDER BY p.bought_at DESC, p.id DESC")
	case models.OrderUpdatedDesc:
		sb.WriteString("\nORDER BY p.updated_at DESC NULLS LAST, p.id DESC")
	case models.OrderBoughtAsc:
		sb.WriteString("\nORDER BY p.bought_at ASC, p.id ASC")
	}

	return sb.String(), args
}

// InsertPurchaseAndDebit stores a pending purchase together with the debit that pays
// for it. The user's ledger is locked for the duration of the transaction and the
// balance is recomputed under the lock, so concurrent purchases cannot overdraw.
func (r *Repository) InsertPurchaseAndDebit(
	ctx context.Context,
	purchase models.Purchase,
	cost int64,
) (models.Purchase, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err = tx.Exec(ctx, LockUserLedgerSQL, purchase.UserID); err != nil {
		return models.Purchase{}, fmt.Errorf("failed to lock ledger of user %d: %w", purchase.UserID, classify(err))
	}

	var balance int64
	if err = tx.QueryRow(ctx, SelectBalanceSQL, purchase.UserID).Scan(&balance); err != nil {
		return models.Purchase{}, fmt.Errorf("failed to sum balance of user %d: %w", purchase.UserID, classify(err))
	}
	if balance < cost {
		return models.Purchase{}, fmt.Errorf("balance %d, cost %d: %w", balance, cost, ErrInsufficientFunds)
	}

	purchase.Status = models.StatusPending
	purchase.UpdatedAt = nil
	purchase.UpdatedByUserID = nil
	purchase.UsageCount = 0

	err = tx.QueryRow(ctx, InsertPurchaseSQL,
		purchase.UserID, purchase.ProductID, string(purchase.Status), purchase.BoughtAt, purchase.UserComment,
	).Scan(&purchase.ID)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to insert purchase: %w", classify(err))
	}

	purchaseID := purchase.ID
	_, err = tx.Exec(ctx, InsertTransactionSQL,
		purchase.UserID, -cost, string(models.CategoryPurchase), &purchaseID, (*int64)(nil),
		"Покупка #"+strconv.FormatInt(purchaseID, 10), purchase.BoughtAt,
	)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to insert debit transaction: %w", classify(err))
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Purchase{}, fmt.Errorf("failed to commit purchase: %w", classify(err))
	}

	return purchase, nil
}

// UpdatePurchase applies a conditional change. ErrStaleState is returned when the
// purchase is no longer in the expected state (or the usage limit is reached).
func (r *Repository) UpdatePurchase(
	ctx context.Context,
	id int64,
	update models.PurchaseUpdate,
) (models.Purchase, error) {
	var row pgx.Row
	switch {
	case update.Decision != nil:
		d := update.Decision
		row = r.db.QueryRow(ctx, DecidePurchaseSQL,
			id, string(d.Status), d.At, d.By, d.Comment, string(update.ExpectStatus))
	case update.IncrementUsage:
		row = r.db.QueryRow(ctx, IncrementUsageSQL, id, string(update.ExpectStatus), update.UsageLimit)
	case update.UserComment != nil:
		row = r.db.QueryRow(ctx, SetUserCommentSQL, id, *update.UserComment, string(update.ExpectStatus))
	default:
		return models.Purchase{}, ErrEmptyUpdate
	}

	purchase, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Purchase{}, fmt.Errorf("failed to update purchase %d: %w", id, ErrStaleState)
		}
		return models.Purchase{}, fmt.Errorf("failed to update purchase %d: %w", id, classify(err))
	}
	return purchase, nil
}

func scanPurchase(row pgx.Row) (models.Purchase, error) {
	var (
		purchase models.Purchase
		status   string
	)
	err := row.Scan(
		&purchase.ID, &purchase.UserID, &purchase.ProductID, &status, &purchase.BoughtAt,
		&purchase.UpdatedAt, &purchase.UpdatedByUserID, &purchase.UsageCount,
		&purchase.UserComment, &purchase.ManagerComment,
	)
	if err != nil {
		return models.Purchase{}, err
	}
	purchase.Status = models.PurchaseStatus(status)
	return purchase, nil
}
