package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/bazaar/internal/metrics"
)

// Notifier delivers a plain-text message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) error
}

type namedNotifier struct {
	name string
	Notifier
}

// Multi fans a notification out to several channels. Every channel is tried; the
// joined error reports the ones that failed.
type Multi struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	channels []namedNotifier
}

// NewMulti creates an empty fan-out.
func NewMulti(log *slog.Logger, m *metrics.Metrics) *Multi {
	return &Multi{log: log, metrics: m}
}

// Add registers a channel under name, used in logs and metrics.
func (m *Multi) Add(name string, n Notifier) *Multi {
	m.channels = append(m.channels, namedNotifier{name: name, Notifier: n})
	return m
}

// Len returns the number of registered channels.
func (m *Multi) Len() int {
	return len(m.channels)
}

// Notify implements Notifier.
func (m *Multi) Notify(ctx context.Context, userID int64, message string) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.Notify(ctx, userID, message); err != nil {
			m.log.WarnContext(ctx, "Notification channel failed", "channel", ch.name, "user_id", userID, "error", err)
			m.metrics.Notifications.WithLabelValues(ch.name, "failed").Inc()
			errs = append(errs, fmt.Errorf("%s: %w", ch.name, err))
			continue
		}
		m.metrics.Notifications.WithLabelValues(ch.name, "sent").Inc()
	}
	return errors.Join(errs...)
}
