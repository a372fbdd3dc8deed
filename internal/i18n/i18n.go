// Package i18n holds the user-facing message catalogue of the shop bot.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/UnknownOlympus/bazaar/internal/game"
	"github.com/UnknownOlympus/bazaar/internal/models"
)

//go:embed locales/*.json
var localesFS embed.FS

// DefaultLanguage is used for unknown language codes and missing keys.
const DefaultLanguage = "ru"

// Languages lists the supported language codes.
var Languages = []string{"ru", "en"}

// Localizer handles translation for different languages.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer creates a new Localizer instance and loads all translations.
func NewLocalizer() (*Localizer, error) {
	locale := &Localizer{
		translations: make(map[string]map[string]string),
	}

	for _, lang := range Languages {
		if err := locale.loadLanguage(lang); err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	return locale, nil
}

func (l *Localizer) loadLanguage(lang string) error {
	filename := fmt.Sprintf("locales/%s.json", lang)
	data, err := localesFS.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read locale file %s: %w", filename, err)
	}

	var translations map[string]string
	if err = json.Unmarshal(data, &translations); err != nil {
		return fmt.Errorf("failed to unmarshal locale file %s: %w", filename, err)
	}

	l.mu.Lock()
	l.translations[lang] = translations
	l.mu.Unlock()

	return nil
}

// Get returns the translation for key in lang, falling back to DefaultLanguage and
// then to the key itself.
func (l *Localizer) Get(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if translation, ok := l.translations[lang][key]; ok {
		return translation
	}
	if translation, ok := l.translations[DefaultLanguage][key]; ok {
		return translation
	}
	return key
}

// GetWithData returns the translation with {placeholder} values substituted.
// Example: GetWithData("en", "welcome.authenticated", map[string]any{"name": "John"}).
func (l *Localizer) GetWithData(lang, key string, data map[string]any) string {
	translation := l.Get(lang, key)
	for k, v := range data {
		translation = strings.ReplaceAll(translation, "{"+k+"}", fmt.Sprint(v))
	}
	return translation
}

// ErrorMessage returns the message shown to a user for an engine error.
func (l *Localizer) ErrorMessage(lang string, err error) string {
	kind := game.KindOf(err)
	if kind == game.KindNone {
		return ""
	}
	return l.Get(lang, "error."+string(kind))
}

// StatusName returns the localized purchase status.
func (l *Localizer) StatusName(lang string, status models.PurchaseStatus) string {
	return l.Get(lang, "status."+string(status))
}

// DecisionFormatter returns a game.DecisionFormatter writing buyer notifications
// in lang.
func (l *Localizer) DecisionFormatter(lang string) game.DecisionFormatter {
	return func(purchase models.Purchase, product models.Product) string {
		var message string
		switch purchase.Status {
		case models.StatusApproved:
			message = l.GetWithData(lang, "notification.approved", map[string]any{"name": product.Name})
		case models.StatusRejected:
			message = l.GetWithData(lang, "notification.rejected", map[string]any{"name": product.Name})
		default:
			message = l.GetWithData(lang, "notification.status", map[string]any{
				"name":   product.Name,
				"status": l.StatusName(lang, purchase.Status),
			})
		}
		if purchase.ManagerComment != nil && *purchase.ManagerComment != "" {
			message += "\n" + l.GetWithData(lang, "notification.comment", map[string]any{
				"comment": *purchase.ManagerComment,
			})
		}
		return message
	}
}

// NormalizeLanguageCode normalizes Telegram language codes to our supported languages.
func NormalizeLanguageCode(telegramLang string) string {
	const langCodeShortLength = 2
	if len(telegramLang) < langCodeShortLength {
		return DefaultLanguage
	}

	switch strings.ToLower(telegramLang[:langCodeShortLength]) {
	case "en":
		return "en"
	default:
		return DefaultLanguage
	}
}
