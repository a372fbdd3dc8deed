package game

import (
	"context"
	"fmt"
	"slices"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
)

// PurchasableProducts returns active products of the division that the user's role
// may buy. Affordability is not applied. Products the user could only approve are
// left out.
func (e *Engine) PurchasableProducts(
	ctx context.Context,
	user models.Employee,
	division string,
) ([]models.Product, error) {
	products, err := e.store.Products(ctx, models.ProductFilter{ActiveOnly: true, Division: division})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", fromStore(err))
	}
	return buyable(products, user.Role), nil
}

// CanPurchaseAnything reports whether some active product is sold to the user's role.
func (e *Engine) CanPurchaseAnything(ctx context.Context, user models.Employee) (bool, error) {
	products, err := e.PurchasableProducts(ctx, user, org.DivisionAll)
	if err != nil {
		return false, err
	}
	return len(products) > 0, nil
}

// AvailableDivisions returns the sorted set of divisions of products the user may buy.
func (e *Engine) AvailableDivisions(ctx context.Context, user models.Employee) ([]string, error) {
	products, err := e.PurchasableProducts(ctx, user, org.DivisionAll)
	if err != nil {
		return nil, err
	}
	var divisions []string
	for _, p := range products {
		if !slices.Contains(divisions, p.Division) {
			divisions = append(divisions, p.Division)
		}
	}
	slices.Sort(divisions)
	return divisions, nil
}

// ApprovablePurchases returns pending purchases awaiting the approver, oldest first.
func (e *Engine) ApprovablePurchases(ctx context.Context, approver models.Employee) ([]models.Purchase, error) {
	filter := approverScope(approver)
	filter.Status = models.StatusPending
	filter.Order = models.OrderBoughtAsc

	purchases, err := e.store.Purchases(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvable purchases: %w", fromStore(err))
	}
	return purchases, nil
}

// approverScope selects the purchases an approver reviews. Managers and the dual
// role share the division-scoped queue of dual-role products; any other role sees
// products whose manager role equals its own, across divisions.
func approverScope(approver models.Employee) models.PurchaseFilter {
	if approver.Role.IsManagerOrDual() {
		return models.PurchaseFilter{
			ManagerRole:    org.RoleDual,
			BuyerDivisions: org.ApproverScope(approver.Division),
		}
	}
	return models.PurchaseFilter{ManagerRole: approver.Role}
}

func buyable(products []models.Product, role org.Role) []models.Product {
	var out []models.Product
	for _, p := range products {
		if p.AllowsBuyer(role) {
			out = append(out, p)
		}
	}
	return out
}
