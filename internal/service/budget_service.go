package service

import (
	"fmt"
	"strings"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget CRUD
type BudgetService struct {
	budgetRepo     domain.BudgetRepository
	eventPublisher websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BudgetService) publishEvent(userID string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	Category string
	Limit    decimal.Decimal
	Period   string
}

// UpdateBudgetInput holds a partial update; nil fields are left unchanged
type UpdateBudgetInput struct {
	Category *string
	Limit    *decimal.Decimal
	Period   *string
	IsActive *bool
}

// CreateBudget validates and stores a new active budget
func (s *BudgetService) CreateBudget(userID string, input CreateBudgetInput) (*domain.Budget, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	category, err := validateCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if !input.Limit.IsPositive() {
		return nil, domain.ErrInvalidLimit
	}
	period, err := domain.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}

	created, err := s.budgetRepo.Create(&domain.Budget{
		ID:       uuid.New(),
		UserID:   userID,
		Category: category,
		Limit:    input.Limit.Round(2),
		Period:   period,
		IsActive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}

	s.publishEvent(userID, websocket.BudgetCreated(created))
	return created, nil
}

// GetBudgets lists every budget of a user
func (s *BudgetService) GetBudgets(userID string) ([]*domain.Budget, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.budgetRepo.GetAllByUser(userID)
}

// GetBudget returns a single budget
func (s *BudgetService) GetBudget(userID string, id uuid.UUID) (*domain.Budget, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.budgetRepo.GetByID(userID, id)
}

// UpdateBudget applies a partial update
func (s *BudgetService) UpdateBudget(userID string, id uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	existing, err := s.budgetRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	updated := *existing

	if input.Category != nil {
		category, err := validateCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		updated.Category = category
	}
	if input.Limit != nil {
		if !input.Limit.IsPositive() {
			return nil, domain.ErrInvalidLimit
		}
		updated.Limit = input.Limit.Round(2)
	}
	if input.Period != nil {
		period, err := domain.ParsePeriod(*input.Period)
		if err != nil {
			return nil, err
		}
		updated.Period = period
	}
	if input.IsActive != nil {
		updated.IsActive = *input.IsActive
	}

	saved, err := s.budgetRepo.Update(&updated)
	if err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}

	s.publishEvent(userID, websocket.BudgetUpdated(saved))
	return saved, nil
}

// DeleteBudget removes a budget
func (s *BudgetService) DeleteBudget(userID string, id uuid.UUID) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := s.budgetRepo.Delete(userID, id); err != nil {
		return err
	}
	s.publishEvent(userID, websocket.BudgetDeleted(map[string]string{"id": id.String()}))
	return nil
}

func validateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return "", fmt.Errorf("%w: category exceeds %d characters", domain.ErrInvalidInput, domain.MaxCategoryLength)
	}
	return category, nil
}
