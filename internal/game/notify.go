package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/bazaar/internal/models"
)

// DefaultDecisionMessage is the plain-text notification of a decided purchase.
func DefaultDecisionMessage(purchase models.Purchase, product models.Product) string {
	var sb strings.Builder
	switch purchase.Status {
	case models.StatusApproved:
		fmt.Fprintf(&sb, "Покупка «%s» одобрена", product.Name)
	case models.StatusRejected:
		fmt.Fprintf(&sb, "Покупка «%s» отклонена", product.Name)
	default:
		fmt.Fprintf(&sb, "Статус покупки «%s»: %s", product.Name, purchase.Status)
	}
	if purchase.ManagerComment != nil && *purchase.ManagerComment != "" {
		fmt.Fprintf(&sb, "\nКомментарий: %s", *purchase.ManagerComment)
	}
	return sb.String()
}

// notifyBuyer sends the decision to the buyer in the background. Delivery failures
// are logged and counted, never returned to the approver.
func (e *Engine) notifyBuyer(ctx context.Context, purchase models.Purchase, product models.Product) {
	if e.notifier == nil {
		return
	}

	message := e.formatDecision(purchase, product)
	detached := context.WithoutCancel(ctx)

	e.pending.Add(1)
	go func() {
		defer e.pending.Done()

		notifyCtx, cancel := context.WithTimeout(detached, e.notifyTimeout)
		defer cancel()

		if err := e.notifier.Notify(notifyCtx, purchase.UserID, message); err != nil {
			e.log.WarnContext(notifyCtx, "Failed to notify buyer",
				"purchase_id", purchase.ID, "user_id", purchase.UserID, "error", err)
			e.metrics.Notifications.WithLabelValues("engine", "failed").Inc()
			return
		}
		e.metrics.Notifications.WithLabelValues("engine", "sent").Inc()
	}()
}
