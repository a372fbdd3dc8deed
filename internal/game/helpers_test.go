package game_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/game"
	"github.com/UnknownOlympus/bazaar/internal/metrics"
	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
	"github.com/UnknownOlympus/bazaar/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
)

var fixedNow = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

type sentMessage struct {
	userID  int64
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, userID int64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{userID: userID, message: message})
	return nil
}

func (n *recordingNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

// Fixture people and products.
var (
	buyerNTP1 = models.Employee{
		UserID: 101, FullName: "Buyer One", Position: "Специалист первой линии",
		Division: org.DivisionNTP1, Head: "Head One", Role: org.RoleSpecialist, IsCasinoAllowed: true,
	}
	buyerNCK = models.Employee{
		UserID: 102, FullName: "Buyer Two", Position: "Специалист", Division: org.DivisionNCK,
		Head: "Head Two", Role: org.RoleSpecialist,
	}
	headNTP = models.Employee{
		UserID: 201, FullName: "Head One", Position: "Руководитель", Division: org.DivisionNTP, Role: org.RoleDual,
	}
	headNCK = models.Employee{
		UserID: 202, FullName: "Head Two", Position: "Руководитель", Division: org.DivisionNCK, Role: org.RoleDual,
	}
	groupManager = models.Employee{
		UserID: 203, FullName: "Group Manager", Division: org.DivisionNTP, Role: org.RoleManager,
	}
	supervisor = models.Employee{
		UserID: 205, FullName: "Supervisor", Division: org.DivisionNTP, Role: org.RoleSupervisor,
	}

	dayOff = models.Product{
		ID: 1, Name: "Day off", Cost: 30, Count: 2, Division: org.DivisionNTP,
		BuyerRoles: org.RoleSet{org.RoleSpecialist, org.RoleDual}, ManagerRole: org.RoleDual, Active: true,
	}
	mug = models.Product{
		ID: 2, Name: "Mug", Cost: 10, Count: 1, Division: org.DivisionNCK,
		ManagerRole: org.RoleManager, Active: true,
	}
	bonus = models.Product{
		ID: 3, Name: "Bonus", Cost: 500, Count: 1, Division: org.DivisionAll,
		BuyerRoles: org.RoleSet{org.RoleSpecialist}, ManagerRole: org.RoleSupervisor, Active: true,
	}
	retired = models.Product{
		ID: 4, Name: "Retired", Cost: 5, Count: 1, Division: org.DivisionAll,
		ManagerRole: org.RoleDual, Active: false,
	}
	managerPerk = models.Product{
		ID: 5, Name: "Team lunch", Cost: 50, Count: 1, Division: org.DivisionNTP,
		BuyerRoles: org.RoleSet{org.RoleManager}, ManagerRole: org.RoleDirector, Active: true,
	}
)

func seededStore() *repository.Memory {
	store := repository.NewMemory()
	for _, e := range []models.Employee{buyerNTP1, buyerNCK, headNTP, headNCK, groupManager, supervisor} {
		store.AddEmployee(e)
	}
	for _, p := range []models.Product{dayOff, mug, bonus, retired, managerPerk} {
		store.AddProduct(p)
	}
	return store
}

func newEngine(t *testing.T, store game.Store, notifier game.Notifier) (*game.Engine, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := game.NewEngine(log, store, notifier, m,
		game.WithClock(func() time.Time { return fixedNow }),
		game.WithNotifyTimeout(time.Second),
	)
	t.Cleanup(engine.Wait)
	return engine, m
}

func newEngineWithClock(t *testing.T, store game.Store, now func() time.Time) *game.Engine {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := game.NewEngine(log, store, nil, m, game.WithClock(now))
	t.Cleanup(engine.Wait)
	return engine
}

// tickingClock advances by a minute on every call.
func tickingClock() func() time.Time {
	var (
		mu  sync.Mutex
		now = fixedNow
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

func ptr[T any](v T) *T { return &v }
