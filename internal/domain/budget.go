package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Budget struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Period    Period          `json:"period"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BudgetState is the health classification of a single budget
type BudgetState string

const (
	BudgetStateOnTrack  BudgetState = "on_track"
	BudgetStateWarning  BudgetState = "warning"
	BudgetStateCritical BudgetState = "critical"
	BudgetStateExceeded BudgetState = "exceeded"
)

// ParseBudgetState rejects anything outside the four known states
func ParseBudgetState(s string) (BudgetState, error) {
	switch state := BudgetState(strings.ToLower(strings.TrimSpace(s))); state {
	case BudgetStateOnTrack, BudgetStateWarning, BudgetStateCritical, BudgetStateExceeded:
		return state, nil
	}
	return "", ErrInvalidBudgetState
}

type BudgetStatus struct {
	BudgetID    uuid.UUID       `json:"budgetId"`
	Category    string          `json:"category"`
	Period      Period          `json:"period"`
	Spent       decimal.Decimal `json:"spent"`
	Limit       decimal.Decimal `json:"limit"`
	Remaining   decimal.Decimal `json:"remaining"`
	Overage     decimal.Decimal `json:"overage"`
	PercentUsed decimal.Decimal `json:"percentUsed"`
	State       BudgetState     `json:"state"`
}

// StatusSummary tallies budget states. Total == OnTrack + Warning + Critical + Exceeded.
type StatusSummary struct {
	Total    int `json:"total"`
	OnTrack  int `json:"onTrack"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
	Exceeded int `json:"exceeded"`
}

// Add counts one more budget in the given state
func (s *StatusSummary) Add(state BudgetState) {
	switch state {
	case BudgetStateOnTrack:
		s.OnTrack++
	case BudgetStateWarning:
		s.Warning++
	case BudgetStateCritical:
		s.Critical++
	case BudgetStateExceeded:
		s.Exceeded++
	default:
		return
	}
	s.Total++
}

type BudgetReport struct {
	PerBudget []BudgetStatus `json:"perBudget"`
	Summary   StatusSummary  `json:"summary"`
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(userID string, id uuid.UUID) (*Budget, error)
	GetAllByUser(userID string) ([]*Budget, error)
	Update(budget *Budget) (*Budget, error)
	Delete(userID string, id uuid.UUID) error
}
