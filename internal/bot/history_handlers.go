package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/report"
	"gopkg.in/telebot.v4"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// activationsHandler lists decided purchases in the sender's approval scope.
func (b *Bot) activationsHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("activations").Inc()
	ctx, cancel := requestContext()
	defer cancel()

	history, err := b.shop.ActivationHistory(ctx, currentEmployee(tCtx))
	if err != nil {
		return b.sendError(tCtx, "activations", err)
	}
	if len(history) == 0 {
		return b.send(tCtx, "text", b.t(tCtx, "history.empty"))
	}

	details, err := b.detailsOf(ctx, history)
	if err != nil {
		return b.sendError(tCtx, "activations", err)
	}
	return b.send(tCtx, "text", formatPurchases(b.localizer, lang(tCtx), "inventory.item", details))
}

// exportHandler sends the whole activation history as an Excel workbook.
func (b *Bot) exportHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("export").Inc()
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	employee := currentEmployee(tCtx)
	history, err := b.shop.ActivationHistory(ctx, employee)
	if err != nil {
		return b.sendError(tCtx, "export", err)
	}

	startTime := time.Now()
	rows, err := b.historyRows(ctx, history)
	if err != nil {
		return b.sendError(tCtx, "export", err)
	}
	buffer, err := report.GenerateHistoryReport(rows)
	b.metrics.ReportGeneration.WithLabelValues("history").Observe(time.Since(startTime).Seconds())
	if errors.Is(err, report.ErrNoRows) {
		return b.send(tCtx, "text", b.t(tCtx, "history.empty"))
	}
	if err != nil {
		return b.sendError(tCtx, "export", err)
	}

	b.log.InfoContext(ctx, "Generated activation history export", "user", employee.UserID, "rows", len(rows))
	return b.send(tCtx, "file", &telebot.Document{
		File:     telebot.FromReader(buffer),
		FileName: fmt.Sprintf("activations_%s.xlsx", time.Now().Format("2006-01-02")),
		MIME:     xlsxMIME,
		Caption:  b.t(tCtx, "export.caption"),
	})
}

func (b *Bot) historyRows(ctx context.Context, history []models.Purchase) ([]report.HistoryRow, error) {
	rows := make([]report.HistoryRow, 0, len(history))
	for _, p := range history {
		details, err := b.shop.PurchaseDetails(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load purchase %d: %w", p.ID, err)
		}
		rows = append(rows, report.RowFromDetails(details))
	}
	return rows, nil
}
