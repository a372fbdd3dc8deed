// Package bot is the Telegram front end of the shop: it resolves the sender to an
// employee, calls the engine and renders the result.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/filter"
	"github.com/UnknownOlympus/bazaar/internal/game"
	"github.com/UnknownOlympus/bazaar/internal/i18n"
	"github.com/UnknownOlympus/bazaar/internal/metrics"
	"github.com/UnknownOlympus/bazaar/internal/models"
	"gopkg.in/telebot.v4"
)

const (
	requestTimeout = 5 * time.Second
	reportTimeout  = 30 * time.Second
	listLimit      = 20
)

// Shop is the part of the engine the bot drives.
type Shop interface {
	Profile(ctx context.Context, user models.Employee) (models.GameProfile, error)
	Shop(ctx context.Context, user models.Employee, divisionKey string, onlyAffordable bool) (game.ShopView, error)
	Achievements(ctx context.Context, user models.Employee, query game.AchievementQuery) ([]filter.AchievementView, error)
	AchievementOptions(ctx context.Context, user models.Employee) ([]filter.Option, error)
	CreatePurchase(ctx context.Context, buyer models.Employee, productID int64, comment *string) (models.Purchase, error)
	Inventory(ctx context.Context, user models.Employee) ([]models.Purchase, error)
	AttachUserComment(ctx context.Context, purchaseID int64, buyer models.Employee, comment string) (models.Purchase, error)
	ApprovablePurchases(ctx context.Context, approver models.Employee) ([]models.Purchase, error)
	Approve(ctx context.Context, purchaseID int64, approver models.Employee, comment *string) (models.Purchase, error)
	Reject(ctx context.Context, purchaseID int64, approver models.Employee, comment *string) (models.Purchase, error)
	RecordActivation(ctx context.Context, purchaseID int64) (models.Purchase, error)
	ActivationHistory(ctx context.Context, approver models.Employee) ([]models.Purchase, error)
	PurchaseDetails(ctx context.Context, purchaseID int64) (models.PurchaseDetails, error)
}

// Bot contains the bot API instance and its collaborators.
type Bot struct {
	bot          *telebot.Bot
	log          *slog.Logger
	shop         Shop
	directory    game.EmployeeDirectory
	metrics      *metrics.Metrics
	stateManager *StateManager
	localizer    *i18n.Localizer
}

var (
	btnShopDivision      = telebot.InlineButton{Unique: "shop_division"}
	btnAchievementFilter = telebot.InlineButton{Unique: "achievement_filter"}
)

// NewAPI connects to Telegram. The returned bot also serves as the notification sender.
func NewAPI(token string, poller time.Duration) (*telebot.Bot, error) {
	api, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return api, nil
}

// NewBot wires the command handlers onto api.
func NewBot(
	log *slog.Logger,
	api *telebot.Bot,
	shop Shop,
	directory game.EmployeeDirectory,
	localizer *i18n.Localizer,
	m *metrics.Metrics,
) *Bot {
	log.Info("Authorized on account", "account", api.Me.Username)

	b := &Bot{
		bot:          api,
		log:          log,
		shop:         shop,
		directory:    directory,
		metrics:      m,
		stateManager: NewStateManager(),
		localizer:    localizer,
	}
	b.registerRoutes()
	return b
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

func (b *Bot) registerRoutes() {
	g := b.bot.Group()
	g.Use(b.AuthMiddleware)

	g.Handle("/start", b.startHandler)
	g.Handle("/balance", b.balanceHandler)
	g.Handle("/shop", b.shopHandler)
	g.Handle(&btnShopDivision, b.shopDivisionHandler)
	g.Handle("/achievements", b.achievementsHandler)
	g.Handle(&btnAchievementFilter, b.achievementFilterHandler)

	g.Handle("/buy", b.buyHandler)
	g.Handle("/inventory", b.inventoryHandler)
	g.Handle("/comment", b.commentHandler)
	g.Handle(telebot.OnText, b.textHandler)

	g.Handle("/queue", b.queueHandler)
	g.Handle("/approve", b.approveHandler)
	g.Handle("/reject", b.rejectHandler)
	g.Handle("/activate", b.activateHandler)
	g.Handle("/activations", b.activationsHandler)
	g.Handle("/export", b.exportHandler)
}

// lang picks the message language from the sender's Telegram settings.
func lang(tCtx telebot.Context) string {
	if sender := tCtx.Sender(); sender != nil {
		return i18n.NormalizeLanguageCode(sender.LanguageCode)
	}
	return i18n.DefaultLanguage
}

// t is a shorthand method for getting translations.
func (b *Bot) t(tCtx telebot.Context, key string) string {
	return b.localizer.Get(lang(tCtx), key)
}

// tWithData is a shorthand method for getting translations with placeholder data.
func (b *Bot) tWithData(tCtx telebot.Context, key string, data map[string]any) string {
	return b.localizer.GetWithData(lang(tCtx), key, data)
}

func (b *Bot) send(tCtx telebot.Context, kind string, what any, opts ...any) error {
	b.metrics.SentMessages.WithLabelValues(kind).Inc()
	return tCtx.Send(what, opts...)
}

// sendError reports an engine error to the user in their language.
func (b *Bot) sendError(tCtx telebot.Context, op string, err error) error {
	kind := game.KindOf(err)
	if kind == game.KindInternal || kind == game.KindStorageUnavailable {
		b.log.Error("Command failed", "op", op, "user", tCtx.Sender().ID, "error", err)
	} else {
		b.log.Info("Command rejected", "op", op, "user", tCtx.Sender().ID, "kind", string(kind), "error", err)
	}
	return b.send(tCtx, "error", b.localizer.ErrorMessage(lang(tCtx), err))
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
