package repository_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
	"github.com/UnknownOlympus/bazaar/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var purchaseColumns = []string{
	"id", "user_id", "product_id", "status", "bought_at", "updated_at",
	"updated_by_user_id", "usage_count", "user_comment", "manager_comment",
}

func TestPurchase(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	boughtAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success - pending purchase with nullable columns", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectPurchaseSQL)).
			WithArgs(int64(11)).
			WillReturnRows(pgxmock.NewRows(purchaseColumns).
				AddRow(int64(11), int64(42), int64(1), "pending", boughtAt, nil, nil, 0, nil, nil))

		purchase, err := repo.Purchase(ctx, 11)

		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, purchase.Status)
		assert.False(t, purchase.Decided())
		assert.Nil(t, purchase.UpdatedAt)
		assert.Equal(t, boughtAt, purchase.BoughtAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - not found", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectPurchaseSQL)).
			WithArgs(int64(11)).
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.Purchase(ctx, 11)

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPurchases(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	boughtAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success - approver scope", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		divisions := []string{org.DivisionNTP1, org.DivisionNTP2}
		expected := repository.SelectPurchasesBaseSQL +
			"\nAND pr.manager_role = $1" +
			"\nAND e.division = ANY($2)" +
			"\nAND p.status = $3" +
			"\nORDER BY p.bought_at ASC, p.id ASC"

		mock.ExpectQuery(regexp.QuoteMeta(expected)).
			WithArgs(int32(3), divisions, "pending").
			WillReturnRows(pgxmock.NewRows(purchaseColumns).
				AddRow(int64(1), int64(42), int64(1), "pending", boughtAt, nil, nil, 0, nil, nil).
				AddRow(int64(2), int64(43), int64(1), "pending", boughtAt.Add(time.Hour), nil, nil, 0, nil, nil))

		purchases, err := repo.Purchases(ctx, models.PurchaseFilter{
			ManagerRole:    org.RoleDual,
			BuyerDivisions: divisions,
			Status:         models.StatusPending,
			Order:          models.OrderBoughtAsc,
		})

		require.NoError(t, err)
		require.Len(t, purchases, 2)
		assert.Equal(t, int64(1), purchases[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - decided history of one user", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		decided := true
		updatedAt := boughtAt.Add(2 * time.Hour)
		updatedBy := int64(77)
		note := "ok"
		expected := repository.SelectPurchasesBaseSQL +
			"\nAND p.user_id = $1" +
			"\nAND p.updated_by_user_id IS NOT NULL" +
			"\nORDER BY p.updated_at DESC NULLS LAST, p.id DESC"

		mock.ExpectQuery(regexp.QuoteMeta(expected)).
			WithArgs(int64(42)).
			WillReturnRows(pgxmock.NewRows(purchaseColumns).
				AddRow(int64(3), int64(42), int64(1), "approved", boughtAt, &updatedAt, &updatedBy, 1, nil, &note))

		purchases, err := repo.Purchases(ctx, models.PurchaseFilter{
			UserID:  42,
			Decided: &decided,
			Order:   models.OrderUpdatedDesc,
		})

		require.NoError(t, err)
		require.Len(t, purchases, 1)
		assert.Equal(t, models.StatusApproved, purchases[0].Status)
		require.NotNil(t, purchases[0].UpdatedByUserID)
		assert.Equal(t, updatedBy, *purchases[0].UpdatedByUserID)
		require.NotNil(t, purchases[0].ManagerComment)
		assert.Equal(t, "ok", *purchases[0].ManagerComment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - query purchases", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectPurchasesBaseSQL)).
			WillReturnError(assert.AnError)

		_, err = repo.Purchases(ctx, models.PurchaseFilter{})

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to query purchases")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInsertPurchaseAndDebit(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	boughtAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	comment := "for friday"
	newPurchase := models.Purchase{UserID: 42, ProductID: 1, BoughtAt: boughtAt, UserComment: &comment}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		purchaseID := int64(10)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(repository.LockUserLedgerSQL)).
			WithArgs(int64(42)).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectBalanceSQL)).
			WithArgs(int64(42)).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(100)))
		mock.ExpectQuery(regexp.QuoteMeta(repository.InsertPurchaseSQL)).
			WithArgs(int64(42), int64(1), "pending", boughtAt, &comment).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(purchaseID))
		mock.ExpectExec(regexp.QuoteMeta(repository.InsertTransactionSQL)).
			WithArgs(int64(42), int64(-100), "purchase", &purchaseID, (*int64)(nil), "Покупка #10", boughtAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		purchase, err := repo.InsertPurchaseAndDebit(ctx, newPurchase, 100)

		require.NoError(t, err)
		assert.Equal(t, purchaseID, purchase.ID)
		assert.Equal(t, models.StatusPending, purchase.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - balance recomputed under lock is too low", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(repository.LockUserLedgerSQL)).
			WithArgs(int64(42)).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectBalanceSQL)).
			WithArgs(int64(42)).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(99)))
		mock.ExpectRollback()

		_, err = repo.InsertPurchaseAndDebit(ctx, newPurchase, 100)

		require.ErrorIs(t, err, repository.ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - failed to begin transaction", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectBegin().WillReturnError(assert.AnError)

		_, err = repo.InsertPurchaseAndDebit(ctx, newPurchase, 100)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - deadlock on debit insert", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(repository.LockUserLedgerSQL)).
			WithArgs(int64(42)).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectBalanceSQL)).
			WithArgs(int64(42)).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(500)))
		mock.ExpectQuery(regexp.QuoteMeta(repository.InsertPurchaseSQL)).
			WithArgs(int64(42), int64(1), "pending", boughtAt, &comment).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)))
		mock.ExpectExec(regexp.QuoteMeta(repository.InsertTransactionSQL)).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "40P01"})
		mock.ExpectRollback()

		_, err = repo.InsertPurchaseAndDebit(ctx, newPurchase, 100)

		require.ErrorIs(t, err, repository.ErrConflict)
		require.ErrorContains(t, err, "failed to insert debit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdatePurchase(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	boughtAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	decidedAt := boughtAt.Add(time.Hour)

	t.Run("success - decision", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		by := int64(77)
		mock.ExpectQuery(regexp.QuoteMeta(repository.DecidePurchaseSQL)).
			WithArgs(int64(5), "approved", decidedAt, by, (*string)(nil), "pending").
			WillReturnRows(pgxmock.NewRows(purchaseColumns).
				AddRow(int64(5), int64(42), int64(1), "approved", boughtAt, &decidedAt, &by, 0, nil, nil))

		purchase, err := repo.UpdatePurchase(ctx, 5, models.PurchaseUpdate{
			ExpectStatus: models.StatusPending,
			Decision:     &models.Decision{Status: models.StatusApproved, By: by, At: decidedAt},
		})

		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, purchase.Status)
		assert.True(t, purchase.Decided())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - decision lost the race", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.DecidePurchaseSQL)).
			WithArgs(int64(5), "rejected", decidedAt, int64(77), (*string)(nil), "pending").
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.UpdatePurchase(ctx, 5, models.PurchaseUpdate{
			ExpectStatus: models.StatusPending,
			Decision:     &models.Decision{Status: models.StatusRejected, By: 77, At: decidedAt},
		})

		require.ErrorIs(t, err, repository.ErrStaleState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - bounded usage increment", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		by := int64(77)
		mock.ExpectQuery(regexp.QuoteMeta(repository.IncrementUsageSQL)).
			WithArgs(int64(5), "approved", 3).
			WillReturnRows(pgxmock.NewRows(purchaseColumns).
				AddRow(int64(5), int64(42), int64(1), "approved", boughtAt, &decidedAt, &by, 2, nil, nil))

		purchase, err := repo.UpdatePurchase(ctx, 5, models.PurchaseUpdate{
			ExpectStatus:   models.StatusApproved,
			IncrementUsage: true,
			UsageLimit:     3,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, purchase.UsageCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - usage limit reached", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.IncrementUsageSQL)).
			WithArgs(int64(5), "approved", 1).
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.UpdatePurchase(ctx, 5, models.PurchaseUpdate{
			ExpectStatus:   models.StatusApproved,
			IncrementUsage: true,
			UsageLimit:     1,
		})

		require.ErrorIs(t, err, repository.ErrStaleState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - user comment", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		comment := "please before monday"
		mock.ExpectQuery(regexp.QuoteMeta(repository.SetUserCommentSQL)).
			WithArgs(int64(5), comment, "").
			WillReturnRows(pgxmock.NewRows(purchaseColumns).
				AddRow(int64(5), int64(42), int64(1), "pending", boughtAt, nil, nil, 0, &comment, nil))

		purchase, err := repo.UpdatePurchase(ctx, 5, models.PurchaseUpdate{UserComment: &comment})

		require.NoError(t, err)
		require.NotNil(t, purchase.UserComment)
		assert.Equal(t, comment, *purchase.UserComment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - empty update", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		_, err = repo.UpdatePurchase(ctx, 5, models.PurchaseUpdate{ExpectStatus: models.StatusPending})

		require.ErrorIs(t, err, repository.ErrEmptyUpdate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
