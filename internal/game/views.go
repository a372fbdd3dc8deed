package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/filter"
	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
)

// Profile returns the game profile of the user.
func (e *Engine) Profile(ctx context.Context, user models.Employee) (models.GameProfile, error) {
	summary, err := e.Summary(ctx, user.UserID)
	if err != nil {
		return models.GameProfile{}, err
	}
	isBuyer := user.Role.IsBuyer()
	return models.GameProfile{
		LedgerSummary:     summary,
		IsBuyer:           isBuyer,
		CasinoAllowed:     user.IsCasinoAllowed && isBuyer,
		ActivationsAccess: user.Role.IsActivationEligible(),
	}, nil
}

// ShopView is what the shop shows to a user.
type ShopView struct {
	Products  []models.Product `json:"products"`
	Balance   int64            `json:"balance"`
	CanBuy    bool             `json:"can_buy"`
	Divisions []string         `json:"divisions"`
	Selected  string           `json:"selected"`
}

// Shop lists the products the user may buy in the division behind divisionKey.
// Unknown keys fall back to the user's own division bucket.
func (e *Engine) Shop(
	ctx context.Context,
	user models.Employee,
	divisionKey string,
	onlyAffordable bool,
) (ShopView, error) {
	division, ok := org.DivisionFromKey(divisionKey)
	if !ok {
		division = org.NormalizeDivision(user.Division)
	}

	balance, err := e.Balance(ctx, user.UserID)
	if err != nil {
		return ShopView{}, err
	}

	products, err := e.PurchasableProducts(ctx, user, division)
	if err != nil {
		return ShopView{}, err
	}
	if onlyAffordable {
		products = filter.Affordable(products, balance)
	}

	divisions, err := e.AvailableDivisions(ctx, user)
	if err != nil {
		return ShopView{}, err
	}

	return ShopView{
		Products:  products,
		Balance:   balance,
		CanBuy:    len(divisions) > 0,
		Divisions: divisions,
		Selected:  division,
	}, nil
}

// AchievementQuery holds the selector state of the achievement catalog. Buyers filter
// by position, everyone else by division. Empty keys mean "all".
type AchievementQuery struct {
	PositionKey string
	DivisionKey string
	Period      string
}

// Achievements returns the achievement catalog as the user sees it. When a period is
// selected the origin records are fetched again and joined back by ID.
func (e *Engine) Achievements(
	ctx context.Context,
	user models.Employee,
	query AchievementQuery,
) ([]filter.AchievementView, error) {
	isBuyer := user.Role.IsBuyer()

	var base models.AchievementFilter
	if isBuyer {
		base.Division = org.NormalizeDivision(user.Division)
	}
	achievements, err := e.store.Achievements(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", fromStore(err))
	}

	achievements = filter.ForEmployee(achievements, user)
	if isBuyer {
		achievements = filter.ByPositionKey(achievements, query.PositionKey)
	} else {
		achievements = filter.ByDivisionKey(achievements, query.DivisionKey)
	}
	views := filter.Project(achievements)

	if query.Period == "" || query.Period == org.DivisionAll {
		return views, nil
	}

	origins, err := e.store.Achievements(ctx, periodScope(user, isBuyer, query.DivisionKey))
	if err != nil {
		return nil, fmt.Errorf("failed to re-read achievements: %w", fromStore(err))
	}
	return filter.ByPeriod(views, origins, query.Period), nil
}

func periodScope(user models.Employee, isBuyer bool, divisionKey string) models.AchievementFilter {
	if isBuyer {
		if org.NormalizeDivision(user.Division) == org.DivisionNCK {
			return models.AchievementFilter{Division: org.DivisionNCK}
		}
		return models.AchievementFilter{Division: org.DivisionNTP}
	}
	if division, ok := org.DivisionFromKey(divisionKey); ok && division != org.DivisionAll {
		return models.AchievementFilter{Division: division}
	}
	return models.AchievementFilter{}
}

// AchievementOptions returns the position selector entries for the user's catalog.
func (e *Engine) AchievementOptions(ctx context.Context, user models.Employee) ([]filter.Option, error) {
	var base models.AchievementFilter
	if user.Role.IsBuyer() {
		base.Division = org.NormalizeDivision(user.Division)
	}
	achievements, err := e.store.Achievements(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", fromStore(err))
	}
	return filter.PositionOptions(filter.ForEmployee(achievements, user)), nil
}

// Inventory returns the user's purchases, newest first.
func (e *Engine) Inventory(ctx context.Context, user models.Employee) ([]models.Purchase, error) {
	purchases, err := e.store.Purchases(ctx, models.PurchaseFilter{UserID: user.UserID, Order: models.OrderBoughtDesc})
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", fromStore(err))
	}
	return purchases, nil
}

// ActivationHistory returns decided purchases in the approver's scope, newest
// decision first.
func (e *Engine) ActivationHistory(ctx context.Context, approver models.Employee) ([]models.Purchase, error) {
	decided := true
	scope := approverScope(approver)
	scope.Decided = &decided
	scope.Order = models.OrderUpdatedDesc

	purchases, err := e.store.Purchases(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list activation history: %w", fromStore(err))
	}
	return purchases, nil
}

// PurchaseDetails bundles a purchase with its product, buyer, the buyer's head and the
// deciding manager. Missing people are left nil.
func (e *Engine) PurchaseDetails(ctx context.Context, purchaseID int64) (models.PurchaseDetails, error) {
	purchase, err := e.store.Purchase(ctx, purchaseID)
	if err != nil {
		return models.PurchaseDetails{}, fmt.Errorf("failed to get purchase %d: %w", purchaseID, fromStore(err))
	}
	product, err := e.store.Product(ctx, purchase.ProductID)
	if err != nil {
		return models.PurchaseDetails{}, fmt.Errorf("failed to get product %d: %w", purchase.ProductID, fromStore(err))
	}

	details := models.PurchaseDetails{Purchase: purchase, Product: product}

	if details.Buyer, err = e.optionalEmployee(ctx, models.ByUserID(purchase.UserID)); err != nil {
		return models.PurchaseDetails{}, err
	}
	if details.Buyer != nil && details.Buyer.Head != "" {
		if details.BuyerHead, err = e.optionalEmployee(ctx, models.ByFullName(details.Buyer.Head)); err != nil {
			return models.PurchaseDetails{}, err
		}
	}
	if purchase.UpdatedByUserID != nil {
		if details.Manager, err = e.optionalEmployee(ctx, models.ByUserID(*purchase.UpdatedByUserID)); err != nil {
			return models.PurchaseDetails{}, err
		}
	}

	return details, nil
}

func (e *Engine) optionalEmployee(ctx context.Context, lookup models.EmployeeLookup) (*models.Employee, error) {
	employee, err := e.store.Employee(ctx, lookup)
	if err != nil {
		err = fromStore(err)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &employee, nil
}
