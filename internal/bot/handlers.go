package bot

import (
	"github.com/UnknownOlympus/bazaar/internal/filter"
	"github.com/UnknownOlympus/bazaar/internal/game"
	"github.com/UnknownOlympus/bazaar/internal/org"
	"gopkg.in/telebot.v4"
)

// startHandler greets an authenticated employee.
func (b *Bot) startHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("start").Inc()
	employee := currentEmployee(tCtx)
	b.log.Info("User started the bot", "id", employee.UserID, "username", tCtx.Sender().Username)

	return b.send(tCtx, "text", b.tWithData(tCtx, "welcome.authenticated", map[string]any{"name": employee.FullName}))
}

// balanceHandler shows the ledger summary.
func (b *Bot) balanceHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("balance").Inc()
	ctx, cancel := requestContext()
	defer cancel()

	profile, err := b.shop.Profile(ctx, currentEmployee(tCtx))
	if err != nil {
		return b.sendError(tCtx, "balance", err)
	}
	return b.send(tCtx, "text", formatBalance(b.localizer, lang(tCtx), profile))
}

// shopHandler lists purchasable products. An optional argument selects the division
// key (all, nck, ntp).
func (b *Bot) shopHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("shop").Inc()

	text, markup, err := b.renderShop(tCtx, tCtx.Message().Payload)
	if err != nil {
		return b.sendError(tCtx, "shop", err)
	}
	return b.send(tCtx, "text", text, markup)
}

func (b *Bot) shopDivisionHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("shop_division").Inc()
	_ = tCtx.Respond()

	text, markup, err := b.renderShop(tCtx, tCtx.Data())
	if err != nil {
		return b.sendError(tCtx, "shop_division", err)
	}
	b.metrics.SentMessages.WithLabelValues("edit").Inc()
	return tCtx.Edit(text, markup)
}

func (b *Bot) renderShop(tCtx telebot.Context, divisionKey string) (string, *telebot.ReplyMarkup, error) {
	ctx, cancel := requestContext()
	defer cancel()

	view, err := b.shop.Shop(ctx, currentEmployee(tCtx), divisionKey, false)
	if err != nil {
		return "", nil, err
	}

	markup := &telebot.ReplyMarkup{}
	var buttons []telebot.Btn
	for _, option := range filter.DivisionOptions(view.Divisions, org.DivisionKey(view.Selected)) {
		buttons = append(buttons, markup.Data(option.Label, btnShopDivision.Unique, option.Key))
	}
	if len(buttons) < 2 {
		return formatShop(b.localizer, lang(tCtx), view), nil, nil
	}
	markup.Inline(markup.Row(buttons...))
	return formatShop(b.localizer, lang(tCtx), view), markup, nil
}

// achievementsHandler shows the achievement catalog. Arguments: [key] [period], where
// key is a position key for buyers and a division key for everyone else.
func (b *Bot) achievementsHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("achievements").Inc()

	var key, period string
	if args := tCtx.Args(); len(args) > 0 {
		key = args[0]
		if len(args) > 1 {
			period = args[1]
		}
	}

	text, markup, err := b.renderAchievements(tCtx, key, period)
	if err != nil {
		return b.sendError(tCtx, "achievements", err)
	}
	return b.send(tCtx, "text", text, markup)
}

func (b *Bot) achievementFilterHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("achievement_filter").Inc()
	_ = tCtx.Respond()

	key, period := splitFilterData(tCtx.Data())
	text, markup, err := b.renderAchievements(tCtx, key, period)
	if err != nil {
		return b.sendError(tCtx, "achievement_filter", err)
	}
	b.metrics.SentMessages.WithLabelValues("edit").Inc()
	return tCtx.Edit(text, markup)
}

func (b *Bot) renderAchievements(tCtx telebot.Context, key, period string) (string, *telebot.ReplyMarkup, error) {
	ctx, cancel := requestContext()
	defer cancel()

	employee := currentEmployee(tCtx)
	query := game.AchievementQuery{Period: period}

	var options []filter.Option
	if employee.Role.IsBuyer() {
		query.PositionKey = key
		var err error
		if options, err = b.shop.AchievementOptions(ctx, employee); err != nil {
			return "", nil, err
		}
	} else {
		query.DivisionKey = key
		options = filter.DivisionOptions([]string{org.DivisionNCK, org.DivisionNTP}, key)
	}

	views, err := b.shop.Achievements(ctx, employee, query)
	if err != nil {
		return "", nil, err
	}

	markup := &telebot.ReplyMarkup{}
	var keyRow, periodRow []telebot.Btn
	for _, option := range options {
		keyRow = append(keyRow, markup.Data(option.Label, btnAchievementFilter.Unique, joinFilterData(option.Key, period)))
	}
	for _, option := range filter.PeriodOptions() {
		periodRow = append(periodRow, markup.Data(option.Label, btnAchievementFilter.Unique, joinFilterData(key, option.Key)))
	}
	markup.Inline(markup.Row(keyRow...), markup.Row(periodRow...))

	return formatAchievements(b.localizer, lang(tCtx), views), markup, nil
}
