// Package game implements the purchase lifecycle and balance ledger engine: ledger
// aggregates, catalog eligibility, the purchase state machine and the read models
// built on top of them.
package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/metrics"
	"github.com/UnknownOlympus/bazaar/internal/models"
)

const (
	defaultNotifyTimeout = 5 * time.Second
	maxWriteAttempts     = 2
)

// DecisionFormatter renders the notification sent to a buyer once a purchase is decided.
type DecisionFormatter func(purchase models.Purchase, product models.Product) string

// Engine holds no state of its own besides its collaborators; every read goes to
// the store.
type Engine struct {
	log      *slog.Logger
	store    Store
	notifier Notifier
	metrics  *metrics.Metrics

	now            func() time.Time
	notifyTimeout  time.Duration
	formatDecision DecisionFormatter

	pending sync.WaitGroup
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the time source used to stamp purchases and decisions.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithNotifyTimeout bounds a single buyer notification.
func WithNotifyTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout > 0 {
			e.notifyTimeout = timeout
		}
	}
}

// WithDecisionFormatter replaces the default notification text.
func WithDecisionFormatter(format DecisionFormatter) Option {
	return func(e *Engine) {
		if format != nil {
			e.formatDecision = format
		}
	}
}

// NewEngine creates an engine over the store. notifier may be nil, in which case
// decisions are not announced.
func NewEngine(log *slog.Logger, store Store, notifier Notifier, m *metrics.Metrics, opts ...Option) *Engine {
	e := &Engine{
		log:            log,
		store:          store,
		notifier:       notifier,
		metrics:        m,
		now:            time.Now,
		notifyTimeout:  defaultNotifyTimeout,
		formatDecision: DefaultDecisionMessage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Wait blocks until all in-flight notifications have finished.
func (e *Engine) Wait() {
	e.pending.Wait()
}

func (e *Engine) observe(transition string, err error) {
	outcome := "ok"
	if err != nil {
		kind := KindOf(err)
		outcome = string(kind)
		e.metrics.EngineErrors.WithLabelValues(string(kind)).Inc()
	}
	e.metrics.PurchaseTransitions.WithLabelValues(transition, outcome).Inc()
}
