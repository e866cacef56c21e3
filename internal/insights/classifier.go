package insights

import (
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Classify computes consumption of every active budget over its own calendar
// window anchored at ref and rolls the states into a summary. Budgets keep
// their input order in PerBudget.
func (e *Engine) Classify(budgets []domain.Budget, txns []domain.Transaction, ref time.Time) (*domain.BudgetReport, error) {
	for _, b := range budgets {
		if !b.Period.IsValid() {
			return nil, domain.ErrInvalidPeriod
		}
	}

	byCategory := make(map[string][]domain.Transaction)
	for _, tx := range normalizeTransactions(txns) {
		if tx.IsExpense() {
			byCategory[tx.Category] = append(byCategory[tx.Category], tx)
		}
	}

	report := &domain.BudgetReport{PerBudget: []domain.BudgetStatus{}}
	for _, raw := range budgets {
		if !raw.IsActive {
			continue
		}
		b := NormalizeBudget(raw)
		w := windowAt(b.Period, ref, e.cfg.WeekStart)

		spent := decimal.Zero
		for _, tx := range byCategory[b.Category] {
			if w.Contains(tx.Date) {
				spent = spent.Add(tx.Amount)
			}
		}

		status := e.statusFor(b, spent)
		report.PerBudget = append(report.PerBudget, status)
		report.Summary.Add(status.State)
	}
	return report, nil
}

// StateFor classifies a percent-used value. The four states partition [0, ∞).
func (e *Engine) StateFor(percentUsed decimal.Decimal) domain.BudgetState {
	switch {
	case percentUsed.LessThan(e.cfg.WarningThreshold):
		return domain.BudgetStateOnTrack
	case percentUsed.LessThan(e.cfg.CriticalThreshold):
		return domain.BudgetStateWarning
	case percentUsed.LessThan(e.cfg.ExceededThreshold):
		return domain.BudgetStateCritical
	default:
		return domain.BudgetStateExceeded
	}
}

func (e *Engine) statusFor(b domain.Budget, spent decimal.Decimal) domain.BudgetStatus {
	percent := percentUsed(spent, b.Limit)
	return domain.BudgetStatus{
		BudgetID:    b.ID,
		Category:    b.Category,
		Period:      b.Period,
		Spent:       spent,
		Limit:       b.Limit,
		Remaining:   decimal.Max(decimal.Zero, b.Limit.Sub(spent)),
		Overage:     decimal.Max(decimal.Zero, spent.Sub(b.Limit)),
		PercentUsed: percent,
		State:       e.StateFor(percent),
	}
}

// percentUsed is uncapped. A zero limit reads as 0% while nothing is spent
// and 100% as soon as anything is.
func percentUsed(spent, limit decimal.Decimal) decimal.Decimal {
	if limit.IsZero() {
		if spent.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return spent.Mul(hundred).DivRound(limit, 2)
}
