package bot

import (
	"strings"

	"github.com/UnknownOlympus/bazaar/internal/filter"
	"github.com/UnknownOlympus/bazaar/internal/game"
	"github.com/UnknownOlympus/bazaar/internal/i18n"
	"github.com/UnknownOlympus/bazaar/internal/models"
)

func formatBalance(l *i18n.Localizer, lang string, profile models.GameProfile) string {
	return l.GetWithData(lang, "balance.summary", map[string]any{
		"balance": profile.Balance,
		"earned":  profile.AchievementsSum,
		"spent":   profile.PurchasesSum,
	})
}

func formatShop(l *i18n.Localizer, lang string, view game.ShopView) string {
	if !view.CanBuy {
		return l.Get(lang, "shop.cannot_buy")
	}
	if len(view.Products) == 0 {
		return l.Get(lang, "shop.empty")
	}

	var sb strings.Builder
	sb.WriteString(l.GetWithData(lang, "shop.header", map[string]any{
		"division": view.Selected,
		"balance":  view.Balance,
	}))
	for _, product := range view.Products {
		sb.WriteString("\n")
		sb.WriteString(l.GetWithData(lang, "shop.item", map[string]any{
			"id":    product.ID,
			"name":  product.Name,
			"price": product.Cost,
		}))
	}
	return sb.String()
}

// formatPurchases renders one line per purchase using key, which is expected to
// reference {id} {name} {status} {user} {used} {limit}.
func formatPurchases(l *i18n.Localizer, lang, key string, details []models.PurchaseDetails) string {
	lines := make([]string, 0, len(details))
	for _, d := range details {
		var buyer any = d.Purchase.UserID
		if d.Buyer != nil {
			buyer = d.Buyer.FullName
		}
		lines = append(lines, l.GetWithData(lang, key, map[string]any{
			"id":     d.Purchase.ID,
			"name":   d.Product.Name,
			"status": l.StatusName(lang, d.Purchase.Status),
			"user":   buyer,
			"used":   d.Purchase.UsageCount,
			"limit":  d.Product.Count,
		}))
	}
	return strings.Join(lines, "\n")
}

func formatAchievements(l *i18n.Localizer, lang string, views []filter.AchievementView) string {
	if len(views) == 0 {
		return l.Get(lang, "achievements.empty")
	}
	lines := make([]string, 0, len(views))
	for _, v := range views {
		lines = append(lines, l.GetWithData(lang, "achievements.item", map[string]any{
			"id":       v.ID,
			"name":     v.Name,
			"position": v.PositionLabel,
			"period":   v.PeriodLabel,
			"reward":   v.Reward,
		}))
	}
	return strings.Join(lines, "\n")
}
