package report_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateHistoryReport(t *testing.T) {
	t.Parallel()
	bought := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	decided := bought.Add(2 * time.Hour)

	rows := []report.HistoryRow{
		{PurchaseID: 1, Product: "Day off", Buyer: "Ivanov", Division: "НЦК", Status: models.StatusApproved,
			BoughtAt: bought, DecidedAt: &decided, Manager: "Petrov", UsageCount: 1, UsageLimit: 2},
		{PurchaseID: 2, Product: "Mug", Buyer: "Sidorov", Division: "НТП1", Status: models.StatusRejected,
			BoughtAt: bought, DecidedAt: &decided},
		{PurchaseID: 3, Product: "Mug", Buyer: "Smirnov", Division: "НЦК", Status: models.StatusApproved,
			BoughtAt: bought, ManagerComment: "ok"},
	}

	t.Run("successful report generation", func(t *testing.T) {
		t.Parallel()
		buffer, err := report.GenerateHistoryReport(rows)
		require.NoError(t, err)
		require.NotNil(t, buffer)

		f, err := excelize.OpenReader(buffer)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{"НТП1", "НЦК"}, f.GetSheetList())

		header, err := f.GetCellValue("НЦК", "B1")
		require.NoError(t, err)
		assert.Equal(t, "Товар", header)

		id, err := f.GetCellValue("НЦК", "A3")
		require.NoError(t, err)
		assert.Equal(t, "3", id)

		usage, err := f.GetCellValue("НЦК", "H2")
		require.NoError(t, err)
		assert.Equal(t, "1/2", usage)

		decidedAt, err := f.GetCellValue("НЦК", "G2")
		require.NoError(t, err)
		assert.Equal(t, "14.03.2025 11:30", decidedAt)

		manager, err := f.GetCellValue("НТП1", "D2")
		require.NoError(t, err)
		assert.Equal(t, "-", manager)
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()
		buffer, err := report.GenerateHistoryReport(nil)

		require.ErrorIs(t, err, report.ErrNoRows)
		assert.Nil(t, buffer)
	})
}

func TestRowFromDetails(t *testing.T) {
	t.Parallel()
	comment := "please"
	details := models.PurchaseDetails{
		Purchase: models.Purchase{ID: 9, Status: models.StatusPending, UsageCount: 0, UserComment: &comment},
		Product:  models.Product{Name: "Day off", Count: 3},
		Buyer:    &models.Employee{FullName: "Ivanov", Division: "НЦК"},
	}

	row := report.RowFromDetails(details)

	assert.Equal(t, int64(9), row.PurchaseID)
	assert.Equal(t, "Day off", row.Product)
	assert.Equal(t, "Ivanov", row.Buyer)
	assert.Equal(t, "НЦК", row.Division)
	assert.Empty(t, row.Manager)
	assert.Equal(t, 3, row.UsageLimit)
	assert.Equal(t, "please", row.UserComment)
	assert.Nil(t, row.DecidedAt)
}
