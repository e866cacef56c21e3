package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/websocket"
	"github.com/google/uuid"
)

// MockTransactionRepository is an in-memory implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	ByUser       map[string][]*domain.Transaction
	ExtraUsers   []string

	CreateFn         func(transaction *domain.Transaction) (*domain.Transaction, error)
	CreateBatchFn    func(transactions []*domain.Transaction) (int, error)
	GetByDateRangeFn func(userID string, start, end time.Time) ([]*domain.Transaction, error)
	ListUserIDsFn    func() ([]string, error)

	mu sync.RWMutex
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
		ByUser:       make(map[string][]*domain.Transaction),
	}
}

// AddTransaction stores a transaction as-is (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(t)
}

func (m *MockTransactionRepository) add(t *domain.Transaction) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.Transactions[t.ID] = t
	m.ByUser[t.UserID] = append(m.ByUser[t.UserID], t)
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now().UTC()
	}
	m.add(transaction)
	return transaction, nil
}

// CreateBatch stores every transaction and returns how many were stored
func (m *MockTransactionRepository) CreateBatch(transactions []*domain.Transaction) (int, error) {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(transactions)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range transactions {
		m.add(t)
	}
	return len(transactions), nil
}

// GetByID retrieves a transaction owned by userID
func (m *MockTransactionRepository) GetByID(userID string, id uuid.UUID) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

// GetByUser lists a user's transactions newest first, applying filters
func (m *MockTransactionRepository) GetByUser(userID string, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := domain.DefaultListLimit
	result := make([]*domain.Transaction, 0)
	for _, t := range m.ByUser[userID] {
		if filters != nil {
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && !t.Date.Before(*filters.EndDate) {
				continue
			}
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.Category != nil && t.Category != *filters.Category {
				continue
			}
		}
		result = append(result, t)
	}
	if filters != nil && filters.Limit > 0 {
		limit = min(int(filters.Limit), domain.MaxListLimit)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetByDateRange returns a user's transactions dated in [start, end)
func (m *MockTransactionRepository) GetByDateRange(userID string, start, end time.Time) ([]*domain.Transaction, error) {
	if m.GetByDateRangeFn != nil {
		return m.GetByDateRangeFn(userID, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for _, t := range m.ByUser[userID] {
		if !t.Date.Before(start) && t.Date.Before(end) {
			result = append(result, t)
		}
	}
	return result, nil
}

// Delete removes a transaction owned by userID
func (m *MockTransactionRepository) Delete(userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok || t.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	list := m.ByUser[userID]
	for i, candidate := range list {
		if candidate.ID == id {
			m.ByUser[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// ListUserIDs returns users with transactions plus ExtraUsers, sorted
func (m *MockTransactionRepository) ListUserIDs() ([]string, error) {
	if m.ListUserIDsFn != nil {
		return m.ListUserIDsFn()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var ids []string
	for id, list := range m.ByUser {
		if len(list) > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range m.ExtraUsers {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// MockBudgetRepository is an in-memory implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[uuid.UUID]*domain.Budget
	order   []uuid.UUID

	GetAllByUserFn func(userID string) ([]*domain.Budget, error)

	mu sync.RWMutex
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.Budget),
	}
}

// AddBudget stores a budget as-is (helper for tests)
func (m *MockBudgetRepository) AddBudget(b *domain.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(b)
}

func (m *MockBudgetRepository) add(b *domain.Budget) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if _, exists := m.Budgets[b.ID]; !exists {
		m.order = append(m.order, b.ID)
	}
	m.Budgets[b.ID] = b
}

// Create stores a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	budget.CreatedAt = now
	budget.UpdatedAt = now
	m.add(budget)
	return budget, nil
}

// GetByID retrieves a budget owned by userID
func (m *MockBudgetRepository) GetByID(userID string, id uuid.UUID) (*domain.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

// GetAllByUser lists a user's budgets in insertion order
func (m *MockBudgetRepository) GetAllByUser(userID string) ([]*domain.Budget, error) {
	if m.GetAllByUserFn != nil {
		return m.GetAllByUserFn(userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Budget, 0)
	for _, id := range m.order {
		if b, ok := m.Budgets[id]; ok && b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, nil
}

// Update replaces a stored budget
func (m *MockBudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return nil, domain.ErrBudgetNotFound
	}
	budget.CreatedAt = existing.CreatedAt
	budget.UpdatedAt = time.Now().UTC()
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// Delete removes a budget owned by userID
func (m *MockBudgetRepository) Delete(userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// PublishedEvent is one call recorded by MockEventPublisher
type PublishedEvent struct {
	UserID string
	Event  websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	Events []PublishedEvent
	mu     sync.Mutex
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID string, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the type of every recorded event in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
