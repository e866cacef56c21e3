package insights

import (
	"github.com/finze/finze-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// NeutralScore is reported for a period with nothing in it
const NeutralScore = 100

// Penalty weights of the health score. Each penalty only grows with the
// quantity it measures, so the score is monotonic in each input.
var (
	trendPenaltyCap      = decimal.NewFromInt(50)
	trendPenaltyWeight   = decimal.RequireFromString("0.8")
	concentrationWeight  = decimal.NewFromInt(20)
	overspendPenaltyCap  = decimal.NewFromInt(100)
	overspendPenaltyRate = decimal.RequireFromString("0.3")
)

// Score folds a period summary and its category breakdown into a 0-100
// integer:
//
//	100 - 0.8*clamp(change%, 0, 50)
//	    - 20*Σ(share_i)²                      (Herfindahl index of category shares)
//	    - 0.3*clamp(overspend% of income, 0, 100)
func (e *Engine) Score(summary domain.PeriodSummary, categories []domain.CategoryAggregate) domain.HealthScore {
	if summary.TransactionCount == 0 && summary.IncomeCount == 0 {
		return domain.HealthScore{
			Score:         NeutralScore,
			Band:          domain.BandForScore(NeutralScore),
			SpendingTrend: summary.SpendingTrend,
		}
	}

	penalty := trendPenalty(summary.SpendingChangePercent).
		Add(concentrationPenalty(categories)).
		Add(overspendPenalty(summary.TotalSpending, summary.TotalIncome))

	score := int(hundred.Sub(penalty).Round(0).IntPart())
	score = max(0, min(100, score))

	return domain.HealthScore{
		Score:         score,
		Band:          domain.BandForScore(score),
		SpendingTrend: summary.SpendingTrend,
	}
}

func trendPenalty(change decimal.Decimal) decimal.Decimal {
	return clamp(change, decimal.Zero, trendPenaltyCap).Mul(trendPenaltyWeight)
}

func concentrationPenalty(categories []domain.CategoryAggregate) decimal.Decimal {
	hhi := decimal.Zero
	for _, c := range categories {
		share := c.PercentageOfTotalSpend.Div(hundred)
		hhi = hhi.Add(share.Mul(share))
	}
	return hhi.Mul(concentrationWeight)
}

func overspendPenalty(spending, income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() || spending.LessThanOrEqual(income) {
		return decimal.Zero
	}
	over := spending.Sub(income).Mul(hundred).Div(income)
	return clamp(over, decimal.Zero, overspendPenaltyCap).Mul(overspendPenaltyRate)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(hi, decimal.Max(lo, v))
}
