package bot

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"gopkg.in/telebot.v4"
)

// buyHandler handles "/buy <product id> [comment]".
func (b *Bot) buyHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("buy").Inc()

	productID, comment, err := parseIDArgs(tCtx.Message().Payload)
	if err != nil {
		return b.send(tCtx, "text", b.t(tCtx, "usage.buy"))
	}

	ctx, cancel := requestContext()
	defer cancel()

	employee := currentEmployee(tCtx)
	purchase, err := b.shop.CreatePurchase(ctx, employee, productID, optional(comment))
	if err != nil {
		return b.sendError(tCtx, "buy", err)
	}

	details, err := b.shop.PurchaseDetails(ctx, purchase.ID)
	if err != nil {
		return b.sendError(tCtx, "buy", err)
	}
	return b.send(tCtx, "text", b.tWithData(tCtx, "purchase.created", map[string]any{
		"id":   purchase.ID,
		"name": details.Product.Name,
	}))
}

// inventoryHandler lists the sender's own purchases.
func (b *Bot) inventoryHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("inventory").Inc()
	ctx, cancel := requestContext()
	defer cancel()

	purchases, err := b.shop.Inventory(ctx, currentEmployee(tCtx))
	if err != nil {
		return b.sendError(tCtx, "inventory", err)
	}
	if len(purchases) == 0 {
		return b.send(tCtx, "text", b.t(tCtx, "inventory.empty"))
	}

	details, err := b.detailsOf(ctx, purchases)
	if err != nil {
		return b.sendError(tCtx, "inventory", err)
	}
	return b.send(tCtx, "text", formatPurchases(b.localizer, lang(tCtx), "inventory.item", details))
}

// commentHandler handles "/comment <purchase id> [text]". Without text the next
// message is taken as the comment.
func (b *Bot) commentHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("comment").Inc()

	purchaseID, text, err := parseIDArgs(tCtx.Message().Payload)
	if err != nil {
		return b.send(tCtx, "text", b.t(tCtx, "usage.comment"))
	}
	if text == "" {
		b.stateManager.Set(tCtx.Sender().ID, UserState{WaitingFor: stateAwaitingComment, PurchaseID: purchaseID})
		return b.send(tCtx, "text", b.t(tCtx, "usage.comment"))
	}
	return b.saveComment(tCtx, purchaseID, text)
}

// textHandler consumes a pending comment; other free text is ignored.
func (b *Bot) textHandler(tCtx telebot.Context) error {
	state, ok := b.stateManager.Get(tCtx.Sender().ID)
	if !ok || state.WaitingFor != stateAwaitingComment {
		return nil
	}
	return b.saveComment(tCtx, state.PurchaseID, tCtx.Text())
}

func (b *Bot) saveComment(tCtx telebot.Context, purchaseID int64, text string) error {
	ctx, cancel := requestContext()
	defer cancel()

	if _, err := b.shop.AttachUserComment(ctx, purchaseID, currentEmployee(tCtx), text); err != nil {
		return b.sendError(tCtx, "comment", err)
	}
	return b.send(tCtx, "text", b.tWithData(tCtx, "purchase.comment_saved", map[string]any{"id": purchaseID}))
}

// queueHandler lists the purchases the sender may decide.
func (b *Bot) queueHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("queue").Inc()
	ctx, cancel := requestContext()
	defer cancel()

	purchases, err := b.shop.ApprovablePurchases(ctx, currentEmployee(tCtx))
	if err != nil {
		return b.sendError(tCtx, "queue", err)
	}
	if len(purchases) == 0 {
		return b.send(tCtx, "text", b.t(tCtx, "queue.empty"))
	}

	details, err := b.detailsOf(ctx, purchases)
	if err != nil {
		return b.sendError(tCtx, "queue", err)
	}
	return b.send(tCtx, "text", formatPurchases(b.localizer, lang(tCtx), "queue.item", details))
}

type decideFunc func(ctx context.Context, id int64, approver models.Employee, comment *string) (models.Purchase, error)

func (b *Bot) approveHandler(tCtx telebot.Context) error {
	return b.decide(tCtx, "approve", "purchase.approved", b.shop.Approve)
}

func (b *Bot) rejectHandler(tCtx telebot.Context) error {
	return b.decide(tCtx, "reject", "purchase.rejected", b.shop.Reject)
}

func (b *Bot) decide(tCtx telebot.Context, command, doneKey string, apply decideFunc) error {
	b.metrics.CommandReceived.WithLabelValues(command).Inc()

	purchaseID, comment, err := parseIDArgs(tCtx.Message().Payload)
	if err != nil {
		return b.send(tCtx, "text", b.t(tCtx, "usage.decide"))
	}

	ctx, cancel := requestContext()
	defer cancel()

	if _, err = apply(ctx, purchaseID, currentEmployee(tCtx), optional(comment)); err != nil {
		return b.sendError(tCtx, command, err)
	}
	return b.send(tCtx, "text", b.tWithData(tCtx, doneKey, map[string]any{"id": purchaseID}))
}

// activateHandler records one use of an approved purchase. Only activation-eligible
// roles may record uses.
func (b *Bot) activateHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("activate").Inc()

	employee := currentEmployee(tCtx)
	if !employee.Role.IsActivationEligible() {
		return b.send(tCtx, "error", b.t(tCtx, "error.not_authorized"))
	}

	purchaseID, _, err := parseIDArgs(tCtx.Message().Payload)
	if err != nil {
		return b.send(tCtx, "text", b.t(tCtx, "usage.activate"))
	}

	ctx, cancel := requestContext()
	defer cancel()

	purchase, err := b.shop.RecordActivation(ctx, purchaseID)
	if err != nil {
		return b.sendError(tCtx, "activate", err)
	}
	details, err := b.shop.PurchaseDetails(ctx, purchase.ID)
	if err != nil {
		return b.sendError(tCtx, "activate", err)
	}
	return b.send(tCtx, "text", b.tWithData(tCtx, "purchase.activated", map[string]any{
		"id":    purchase.ID,
		"used":  purchase.UsageCount,
		"limit": details.Product.Count,
	}))
}

// detailsOf loads details for at most listLimit purchases.
func (b *Bot) detailsOf(ctx context.Context, purchases []models.Purchase) ([]models.PurchaseDetails, error) {
	if len(purchases) > listLimit {
		purchases = purchases[:listLimit]
	}
	details := make([]models.PurchaseDetails, 0, len(purchases))
	for _, p := range purchases {
		d, err := b.shop.PurchaseDetails(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load purchase %d: %w", p.ID, err)
		}
		details = append(details, d)
	}
	return details, nil
}
