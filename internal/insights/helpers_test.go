package insights

import (
	"testing"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// 2026-10-19 is a Monday
var testRef = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return e
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 10, 0, 0, 0, time.UTC)
}

func expense(category string, amount string, date time.Time) domain.Transaction {
	return domain.Transaction{
		ID:       uuid.New(),
		UserID:   "user-1",
		Title:    category + " purchase",
		Amount:   decimal.RequireFromString(amount),
		Type:     domain.TransactionTypeExpense,
		Category: category,
		Date:     date,
	}
}

func income(amount string, date time.Time) domain.Transaction {
	return domain.Transaction{
		ID:       uuid.New(),
		UserID:   "user-1",
		Title:    "Salary",
		Amount:   decimal.RequireFromString(amount),
		Type:     domain.TransactionTypeIncome,
		Category: "Salary",
		Date:     date,
	}
}

func budget(category, limit string, period domain.Period) domain.Budget {
	return domain.Budget{
		ID:       uuid.New(),
		UserID:   "user-1",
		Category: category,
		Limit:    decimal.RequireFromString(limit),
		Period:   period,
		IsActive: true,
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "expected %s, got %s", want, got.String())
}
