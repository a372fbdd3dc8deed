package repository_test

import (
	"regexp"
	"testing"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalance(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	userID := int64(42)

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectBalanceSQL)).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(int64(150)))

		balance, err := repo.Balance(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, int64(150), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - connection lost", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectBalanceSQL)).
			WithArgs(userID).
			WillReturnError(&pgconn.PgError{Code: "08006"})

		_, err = repo.Balance(ctx, userID)

		require.Error(t, err)
		require.ErrorIs(t, err, repository.ErrUnavailable)
		require.ErrorContains(t, err, "failed to sum balance")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionsSum(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	userID := int64(7)

	tests := []struct {
		name  string
		sign  models.Sign
		query string
		sum   int64
	}{
		{name: "credits", sign: models.SignCredit, query: repository.SelectCreditsSumSQL, sum: 300},
		{name: "debits as magnitude", sign: models.SignDebit, query: repository.SelectDebitsSumSQL, sum: 120},
		{name: "any is balance", sign: models.SignAny, query: repository.SelectBalanceSQL, sum: 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := repository.NewRepository(mock)

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(userID).
				WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(tt.sum))

			sum, err := repo.TransactionsSum(ctx, userID, tt.sign)

			require.NoError(t, err)
			assert.Equal(t, tt.sum, sum)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("error - query failed", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectDebitsSumSQL)).
			WithArgs(userID).
			WillReturnError(assert.AnError)

		_, err = repo.TransactionsSum(ctx, userID, models.SignDebit)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerSummary(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	userID := int64(9)

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectLedgerSummarySQL)).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"balance", "credits", "debits"}).
				AddRow(int64(70), int64(100), int64(30)))

		summary, err := repo.LedgerSummary(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, models.LedgerSummary{Balance: 70, AchievementsSum: 100, PurchasesSum: 30}, summary)
		assert.Equal(t, summary.AchievementsSum-summary.PurchasesSum, summary.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - serialization failure is a conflict", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectLedgerSummarySQL)).
			WithArgs(userID).
			WillReturnError(&pgconn.PgError{Code: "40001"})

		_, err = repo.LedgerSummary(ctx, userID)

		require.Error(t, err)
		require.ErrorIs(t, err, repository.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
