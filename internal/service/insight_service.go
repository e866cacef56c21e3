package service

import (
	"fmt"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/insights"
)

// DefaultTrendLength is the number of periods returned by GetTrend when the
// caller does not ask for a specific count
const DefaultTrendLength = 6

// InsightService loads a user's snapshot from the stores and runs the engine
// over it. The engine itself never touches storage.
type InsightService struct {
	engine          *insights.Engine
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	now             func() time.Time
}

// NewInsightService creates a new InsightService
func NewInsightService(engine *insights.Engine, transactionRepo domain.TransactionRepository, budgetRepo domain.BudgetRepository) *InsightService {
	return &InsightService{
		engine:          engine,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		now:             time.Now,
	}
}

// SetClock replaces the time source used when no reference date is given
func (s *InsightService) SetClock(now func() time.Time) {
	s.now = now
}

// GetReport runs the full analysis for the period containing ref (now when nil)
func (s *InsightService) GetReport(userID string, period domain.Period, ref *time.Time) (*domain.Report, error) {
	at := s.reference(ref)
	txns, budgets, err := s.snapshot(userID, period, at)
	if err != nil {
		return nil, err
	}
	return s.engine.Analyze(txns, budgets, period, at)
}

// GetCategories returns the category breakdown and per-category trends
func (s *InsightService) GetCategories(userID string, period domain.Period, ref *time.Time) (*insights.Aggregation, error) {
	at := s.reference(ref)
	txns, _, err := s.snapshot(userID, period, at)
	if err != nil {
		return nil, err
	}
	return s.engine.Aggregate(txns, period, at)
}

// GetBudgetStatus classifies every active budget of the user
func (s *InsightService) GetBudgetStatus(userID string, ref *time.Time) (*domain.BudgetReport, error) {
	at := s.reference(ref)
	// Budget windows do not depend on the analysis period; monthly only
	// decides the minimum span loaded.
	txns, budgets, err := s.snapshot(userID, domain.PeriodMonthly, at)
	if err != nil {
		return nil, err
	}
	return s.engine.Classify(budgets, txns, at)
}

// GetHealth scores the period containing ref
func (s *InsightService) GetHealth(userID string, period domain.Period, ref *time.Time) (domain.HealthScore, error) {
	at := s.reference(ref)
	txns, _, err := s.snapshot(userID, period, at)
	if err != nil {
		return domain.HealthScore{}, err
	}
	agg, err := s.engine.Aggregate(txns, period, at)
	if err != nil {
		return domain.HealthScore{}, err
	}
	return s.engine.Score(agg.Summary, agg.Categories), nil
}

// GetTrend returns spending and income for the last count periods
func (s *InsightService) GetTrend(userID string, period domain.Period, ref *time.Time, count int) ([]domain.PeriodTotal, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	at := s.reference(ref)
	span, err := s.engine.SeriesWindow(period, at, count)
	if err != nil {
		return nil, err
	}
	txns, err := s.loadTransactions(userID, span)
	if err != nil {
		return nil, err
	}
	return s.engine.Series(txns, period, at, count)
}

// ListUsers returns every user with stored data
func (s *InsightService) ListUsers() ([]string, error) {
	return s.transactionRepo.ListUserIDs()
}

func (s *InsightService) reference(ref *time.Time) time.Time {
	if ref != nil {
		return *ref
	}
	return s.now().UTC()
}

// snapshot loads the budgets and every transaction an analysis can look at
func (s *InsightService) snapshot(userID string, period domain.Period, ref time.Time) ([]domain.Transaction, []domain.Budget, error) {
	if err := validateUserID(userID); err != nil {
		return nil, nil, err
	}
	if !period.IsValid() {
		return nil, nil, domain.ErrInvalidPeriod
	}

	stored, err := s.budgetRepo.GetAllByUser(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load budgets: %w", err)
	}
	budgets := make([]domain.Budget, 0, len(stored))
	for _, b := range stored {
		budgets = append(budgets, *b)
	}

	span, err := s.engine.CoverageWindow(period, budgets, ref)
	if err != nil {
		return nil, nil, err
	}
	txns, err := s.loadTransactions(userID, span)
	if err != nil {
		return nil, nil, err
	}
	return txns, budgets, nil
}

func (s *InsightService) loadTransactions(userID string, span domain.Window) ([]domain.Transaction, error) {
	stored, err := s.transactionRepo.GetByDateRange(userID, span.Start, span.End)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	txns := make([]domain.Transaction, 0, len(stored))
	for _, t := range stored {
		txns = append(txns, *t)
	}
	return txns, nil
}
