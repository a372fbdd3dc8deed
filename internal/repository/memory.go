package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
)

// Memory is an in-process store with the same semantics as Repository. All state
// lives behind a single mutex, which also serializes purchases per user.
type Memory struct {
	mu sync.RWMutex

	employees    []models.Employee
	products     map[int64]models.Product
	purchases    map[int64]models.Purchase
	transactions []models.Transaction
	achievements []models.Achievement

	nextPurchaseID    int64
	nextTransactionID int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		products:  make(map[int64]models.Product),
		purchases: make(map[int64]models.Purchase),
	}
}

// AddEmployee seeds an employee record.
func (m *Memory) AddEmployee(employee models.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if employee.ID == 0 {
		employee.ID = len(m.employees) + 1
	}
	m.employees = append(m.employees, employee)
}

// AddProduct seeds a catalog entry.
func (m *Memory) AddProduct(product models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
}

// AddAchievement seeds an achievement catalog entry.
func (m *Memory) AddAchievement(achievement models.Achievement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.achievements = append(m.achievements, achievement)
}

// Credit appends an achievement reward to the user's ledger.
func (m *Memory) Credit(userID, amount int64, achievementID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendTransaction(models.Transaction{
		UserID:        userID,
		Amount:        amount,
		Category:      models.CategoryAchievement,
		AchievementID: achievementID,
		CreatedAt:     time.Now(),
	})
}

// Transactions returns a copy of the user's ledger.
func (m *Memory) Transactions(userID int64) []models.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Transaction
	for _, tx := range m.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out
}

func (m *Memory) appendTransaction(tx models.Transaction) {
	m.nextTransactionID++
	tx.ID = m.nextTransactionID
	m.transactions = append(m.transactions, tx)
}

func (m *Memory) summary(userID int64) models.LedgerSummary {
	var s models.LedgerSummary
	for _, tx := range m.transactions {
		if tx.UserID != userID {
			continue
		}
		s.Balance += tx.Amount
		if tx.Amount > 0 {
			s.AchievementsSum += tx.Amount
		} else {
			s.PurchasesSum -= tx.Amount
		}
	}
	return s
}

// Balance returns the sum of all ledger amounts of the user.
func (m *Memory) Balance(_ context.Context, userID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary(userID).Balance, nil
}

// TransactionsSum aggregates one side of the ledger.
func (m *Memory) TransactionsSum(_ context.Context, userID int64, sign models.Sign) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.summary(userID)
	switch sign {
	case models.SignCredit:
		return s.AchievementsSum, nil
	case models.SignDebit:
		return s.PurchasesSum, nil
	case models.SignAny:
	}
	return s.Balance, nil
}

// LedgerSummary returns all ledger aggregates from one snapshot.
func (m *Memory) LedgerSummary(_ context.Context, userID int64) (models.LedgerSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summary(userID), nil
}

// Products returns catalog entries matching the filter, ordered by ID.
func (m *Memory) Products(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Product
	for _, p := range m.products {
		if filter.ActiveOnly && !p.Active {
			continue
		}
		if !org.MatchesDivision(p.Division, filter.Division) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b models.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// Product returns a single catalog entry.
func (m *Memory) Product(_ context.Context, id int64) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// Purchase returns a single purchase.
func (m *Memory) Purchase(_ context.Context, id int64) (models.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.purchases[id]
	if !ok {
		return models.Purchase{}, fmt.Errorf("purchase %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// Purchases returns purchases matching the filter.
func (m *Memory) Purchases(_ context.Context, filter models.PurchaseFilter) ([]models.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Purchase
	for _, p := range m.purchases {
		if m.matches(p, filter) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, purchaseOrder(filter.Order))
	return out, nil
}

func (m *Memory) matches(p models.Purchase, filter models.PurchaseFilter) bool {
	if filter.UserID != 0 && p.UserID != filter.UserID {
		return false
	}
	if filter.Status != "" && p.Status != filter.Status {
		return false
	}
	if filter.Decided != nil && p.Decided() != *filter.Decided {
		return false
	}
	if filter.ManagerRole != 0 {
		product, ok := m.products[p.ProductID]
		if !ok || product.ManagerRole != filter.ManagerRole {
			return false
		}
	}
	if len(filter.BuyerDivisions) > 0 {
		buyer, ok := m.employeeByUserID(p.UserID)
		if !ok || !slices.Contains(filter.BuyerDivisions, buyer.Division) {
			return false
		}
	}
	return true
}

func purchaseOrder(order models.PurchaseOrder) func(a, b models.Purchase) int {
	switch order {
	case models.OrderBoughtDesc:
		return func(a, b models.Purchase) int {
			return cmp.Or(b.BoughtAt.Compare(a.BoughtAt), cmp.Compare(b.ID, a.ID))
		}
	case models.OrderUpdatedDesc:
		return func(a, b models.Purchase) int {
			switch {
			case a.UpdatedAt == nil && b.UpdatedAt == nil:
				return cmp.Compare(b.ID, a.ID)
			case a.UpdatedAt == nil:
				return 1
			case b.UpdatedAt == nil:
				return -1
			}
			return cmp.Or(b.UpdatedAt.Compare(*a.UpdatedAt), cmp.Compare(b.ID, a.ID))
		}
	case models.OrderBoughtAsc:
	}
	return func(a, b models.Purchase) int {
		return cmp.Or(a.BoughtAt.Compare(b.BoughtAt), cmp.Compare(a.ID, b.ID))
	}
}

// Employee looks an employee up by user ID or full name.
func (m *Memory) Employee(_ context.Context, lookup models.EmployeeLookup) (models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case lookup.UserID != 0:
		if e, ok := m.employeeByUserID(lookup.UserID); ok {
			return e, nil
		}
	case lookup.FullName != "":
		for _, e := range m.employees {
			if e.FullName == lookup.FullName {
				return e, nil
			}
		}
	default:
		return models.Employee{}, ErrEmptyLookup
	}
	return models.Employee{}, fmt.Errorf("employee: %w", ErrNotFound)
}

func (m *Memory) employeeByUserID(userID int64) (models.Employee, bool) {
	for _, e := range m.employees {
		if e.UserID == userID {
			return e, true
		}
	}
	return models.Employee{}, false
}

// InsertPurchaseAndDebit stores a pending purchase with its debit atomically.
func (m *Memory) InsertPurchaseAndDebit(
	_ context.Context,
	purchase models.Purchase,
	cost int64,
) (models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if balance := m.summary(purchase.UserID).Balance; balance < cost {
		return models.Purchase{}, fmt.Errorf("balance %d, cost %d: %w", balance, cost, ErrInsufficientFunds)
	}

	m.nextPurchaseID++
	purchase.ID = m.nextPurchaseID
	purchase.Status = models.StatusPending
	purchase.UpdatedAt = nil
	purchase.UpdatedByUserID = nil
	purchase.UsageCount = 0
	m.purchases[purchase.ID] = purchase

	purchaseID := purchase.ID
	m.appendTransaction(models.Transaction{
		UserID:     purchase.UserID,
		Amount:     -cost,
		Category:   models.CategoryPurchase,
		PurchaseID: &purchaseID,
		Comment:    fmt.Sprintf("Покупка #%d", purchaseID),
		CreatedAt:  purchase.BoughtAt,
	})

	return purchase, nil
}

// UpdatePurchase applies a conditional change under the store lock.
func (m *Memory) UpdatePurchase(_ context.Context, id int64, update models.PurchaseUpdate) (models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.purchases[id]
	if !ok {
		return models.Purchase{}, fmt.Errorf("purchase %d: %w", id, ErrStaleState)
	}
	if update.ExpectStatus != "" && p.Status != update.ExpectStatus {
		return models.Purchase{}, fmt.Errorf("purchase %d: %w", id, ErrStaleState)
	}

	switch {
	case update.Decision != nil:
		if p.Decided() {
			return models.Purchase{}, fmt.Errorf("purchase %d: %w", id, ErrStaleState)
		}
		d := update.Decision
		at, by := d.At, d.By
		p.Status = d.Status
		p.UpdatedAt = &at
		p.UpdatedByUserID = &by
		p.ManagerComment = d.Comment
	case update.IncrementUsage:
		if p.UsageCount >= update.UsageLimit {
			return models.Purchase{}, fmt.Errorf("purchase %d: %w", id, ErrStaleState)
		}
		p.UsageCount++
	case update.UserComment != nil:
		comment := *update.UserComment
		p.UserComment = &comment
	default:
		return models.Purchase{}, ErrEmptyUpdate
	}

	m.purchases[id] = p
	return p, nil
}

// Achievements returns the achievement catalog, optionally limited to one division.
func (m *Memory) Achievements(_ context.Context, filter models.AchievementFilter) ([]models.Achievement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Achievement
	for _, a := range m.achievements {
		if filter.Division == "" || a.Division == filter.Division {
			out = append(out, a)
		}
	}
	return out, nil
}
