package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
	"github.com/UnknownOlympus/bazaar/internal/repository"
)

// CreatePurchase buys a product for the buyer: a pending purchase and its debit are
// stored together. The balance is checked here for a friendly error and again by the
// store under the buyer's ledger lock.
func (e *Engine) CreatePurchase(
	ctx context.Context,
	buyer models.Employee,
	productID int64,
	comment *string,
) (purchase models.Purchase, err error) {
	defer func() { e.observe("create", err) }()

	product, err := e.store.Product(ctx, productID)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to get product %d: %w", productID, fromStore(err))
	}
	if !product.Active || !product.AllowsBuyer(buyer.Role) {
		return models.Purchase{}, fmt.Errorf("product %d for role %d: %w", productID, buyer.Role, ErrNotEligible)
	}

	balance, err := e.store.Balance(ctx, buyer.UserID)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to get balance: %w", fromStore(err))
	}
	if balance < product.Cost {
		return models.Purchase{}, &InsufficientBalanceError{Balance: balance, Cost: product.Cost}
	}

	purchase, err = e.store.InsertPurchaseAndDebit(ctx, models.Purchase{
		UserID:      buyer.UserID,
		ProductID:   product.ID,
		BoughtAt:    e.now(),
		UserComment: comment,
	}, product.Cost)
	if errors.Is(err, repository.ErrInsufficientFunds) {
		if current, errBalance := e.store.Balance(ctx, buyer.UserID); errBalance == nil {
			balance = current
		}
		return models.Purchase{}, &InsufficientBalanceError{Balance: balance, Cost: product.Cost}
	}
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to store purchase: %w", fromStore(err))
	}

	e.log.InfoContext(ctx, "Purchase created",
		"purchase_id", purchase.ID, "user_id", buyer.UserID, "product_id", product.ID, "cost", product.Cost)

	return purchase, nil
}

// Approve marks a pending purchase approved and notifies the buyer.
func (e *Engine) Approve(
	ctx context.Context,
	purchaseID int64,
	approver models.Employee,
	comment *string,
) (purchase models.Purchase, err error) {
	defer func() { e.observe("approve", err) }()
	return e.decide(ctx, purchaseID, approver, models.StatusApproved, comment)
}

// Reject marks a pending purchase rejected and notifies the buyer. The debit is kept.
func (e *Engine) Reject(
	ctx context.Context,
	purchaseID int64,
	approver models.Employee,
	comment *string,
) (purchase models.Purchase, err error) {
	defer func() { e.observe("reject", err) }()
	return e.decide(ctx, purchaseID, approver, models.StatusRejected, comment)
}

func (e *Engine) decide(
	ctx context.Context,
	purchaseID int64,
	approver models.Employee,
	status models.PurchaseStatus,
	comment *string,
) (models.Purchase, error) {
	for range maxWriteAttempts {
		purchase, err := e.store.Purchase(ctx, purchaseID)
		if err != nil {
			return models.Purchase{}, fmt.Errorf("failed to get purchase %d: %w", purchaseID, fromStore(err))
		}
		if purchase.Status != models.StatusPending || purchase.Decided() {
			return models.Purchase{}, fmt.Errorf("purchase %d is %s: %w", purchaseID, purchase.Status, ErrAlreadyDecided)
		}

		product, err := e.store.Product(ctx, purchase.ProductID)
		if err != nil {
			return models.Purchase{}, fmt.Errorf("failed to get product %d: %w", purchase.ProductID, fromStore(err))
		}
		if err = e.authorize(ctx, approver, product, purchase); err != nil {
			return models.Purchase{}, err
		}

		updated, err := e.store.UpdatePurchase(ctx, purchaseID, models.PurchaseUpdate{
			ExpectStatus: models.StatusPending,
			Decision: &models.Decision{
				Status:  status,
				By:      approver.UserID,
				At:      e.now(),
				Comment: comment,
			},
		})
		if retryable(err) {
			e.log.DebugContext(ctx, "Purchase changed concurrently, re-reading", "purchase_id", purchaseID)
			continue
		}
		if err != nil {
			return models.Purchase{}, fmt.Errorf("failed to decide purchase %d: %w", purchaseID, fromStore(err))
		}

		e.log.InfoContext(ctx, "Purchase decided",
			"purchase_id", purchaseID, "status", status, "approver", approver.UserID)
		e.notifyBuyer(ctx, updated, product)

		return updated, nil
	}

	return models.Purchase{}, fmt.Errorf("purchase %d: %w", purchaseID, ErrConflict)
}

// authorize checks that the approver may decide a purchase of the product. The dual
// role may decide any product; other activation roles only products whose manager
// role equals their own. Dual-role products are further scoped by division.
func (e *Engine) authorize(
	ctx context.Context,
	approver models.Employee,
	product models.Product,
	purchase models.Purchase,
) error {
	if !approver.Role.IsActivationEligible() {
		return fmt.Errorf("role %d cannot review activations: %w", approver.Role, ErrNotAuthorized)
	}
	if approver.Role != org.RoleDual && approver.Role != product.ManagerRole {
		return fmt.Errorf("role %d cannot decide product %d: %w", approver.Role, product.ID, ErrNotAuthorized)
	}
	if product.ManagerRole != org.RoleDual {
		return nil
	}

	buyer, err := e.store.Employee(ctx, models.ByUserID(purchase.UserID))
	if err != nil {
		return fmt.Errorf("failed to get buyer %d: %w", purchase.UserID, fromStore(err))
	}
	if !org.InScope(approver.Division, buyer.Division) {
		return fmt.Errorf("buyer division %q outside %q: %w", buyer.Division, approver.Division, ErrNotAuthorized)
	}
	return nil
}

// RecordActivation consumes one use of an approved purchase.
func (e *Engine) RecordActivation(ctx context.Context, purchaseID int64) (purchase models.Purchase, err error) {
	defer func() { e.observe("activate", err) }()

	for range maxWriteAttempts {
		current, errGet := e.store.Purchase(ctx, purchaseID)
		if errGet != nil {
			return models.Purchase{}, fmt.Errorf("failed to get purchase %d: %w", purchaseID, fromStore(errGet))
		}
		if current.Status != models.StatusApproved {
			return models.Purchase{}, fmt.Errorf("purchase %d is %s: %w", purchaseID, current.Status, ErrNotApproved)
		}

		product, errGet := e.store.Product(ctx, current.ProductID)
		if errGet != nil {
			return models.Purchase{}, fmt.Errorf("failed to get product %d: %w", current.ProductID, fromStore(errGet))
		}
		if current.UsageCount >= product.Count {
			return models.Purchase{}, fmt.Errorf("purchase %d used %d of %d: %w",
				purchaseID, current.UsageCount, product.Count, ErrActivationExhausted)
		}

		purchase, err = e.store.UpdatePurchase(ctx, purchaseID, models.PurchaseUpdate{
			ExpectStatus:   models.StatusApproved,
			IncrementUsage: true,
			UsageLimit:     product.Count,
		})
		if retryable(err) {
			continue
		}
		if err != nil {
			return models.Purchase{}, fmt.Errorf("failed to record activation of %d: %w", purchaseID, fromStore(err))
		}

		e.log.InfoContext(ctx, "Activation recorded",
			"purchase_id", purchaseID, "usage_count", purchase.UsageCount, "limit", product.Count)
		return purchase, nil
	}

	return models.Purchase{}, fmt.Errorf("purchase %d: %w", purchaseID, ErrConflict)
}

// AttachUserComment stores the buyer's follow-up comment on their own purchase.
func (e *Engine) AttachUserComment(
	ctx context.Context,
	purchaseID int64,
	buyer models.Employee,
	comment string,
) (models.Purchase, error) {
	purchase, err := e.store.Purchase(ctx, purchaseID)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to get purchase %d: %w", purchaseID, fromStore(err))
	}
	if purchase.UserID != buyer.UserID {
		return models.Purchase{}, fmt.Errorf("purchase %d belongs to another user: %w", purchaseID, ErrNotAuthorized)
	}

	updated, err := e.store.UpdatePurchase(ctx, purchaseID, models.PurchaseUpdate{UserComment: &comment})
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to save comment on %d: %w", purchaseID, fromStore(err))
	}
	return updated, nil
}
