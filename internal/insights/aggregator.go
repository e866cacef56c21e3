package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxSeriesLength bounds the number of windows returned by Series
const MaxSeriesLength = 36

var hundred = decimal.NewFromInt(100)

// shareUnits is 100% expressed in tenths of a percent
var shareUnits = decimal.NewFromInt(1000)

// Aggregation is the Period Aggregator output for one window
type Aggregation struct {
	Window         domain.Window
	PreviousWindow domain.Window
	Summary        domain.PeriodSummary
	Categories     []domain.CategoryAggregate
	CategoryTrends []domain.CategoryTrend
}

type categoryTotal struct {
	total decimal.Decimal
	count int
}

// Aggregate computes totals, category breakdown and the comparison with the
// previous calendar window for the window of period containing ref.
func (e *Engine) Aggregate(txns []domain.Transaction, period domain.Period, ref time.Time) (*Aggregation, error) {
	if !period.IsValid() {
		return nil, domain.ErrInvalidPeriod
	}

	cur := windowAt(period, ref, e.cfg.WeekStart)
	prev := previousWindow(period, cur, e.cfg.WeekStart)

	var (
		spending, income, prevSpending decimal.Decimal
		expenseCount, incomeCount      int
		byCategory                     = make(map[string]*categoryTotal)
		prevByCategory                 = make(map[string]decimal.Decimal)
	)

	for _, raw := range txns {
		tx := NormalizeTransaction(raw)
		switch {
		case cur.Contains(tx.Date):
			if tx.IsExpense() {
				spending = spending.Add(tx.Amount)
				expenseCount++
				ct, ok := byCategory[tx.Category]
				if !ok {
					ct = &categoryTotal{}
					byCategory[tx.Category] = ct
				}
				ct.total = ct.total.Add(tx.Amount)
				ct.count++
			} else if tx.IsIncome() {
				income = income.Add(tx.Amount)
				incomeCount++
			}
		case prev.Contains(tx.Date):
			if tx.IsExpense() {
				prevSpending = prevSpending.Add(tx.Amount)
				prevByCategory[tx.Category] = prevByCategory[tx.Category].Add(tx.Amount)
			}
		}
	}

	change := changePercent(spending, prevSpending)
	summary := domain.PeriodSummary{
		PeriodKey:             periodKey(period, cur),
		Period:                period,
		WindowStart:           cur.Start,
		WindowEnd:             cur.End,
		TotalSpending:         spending,
		TotalIncome:           income,
		NetCashFlow:           income.Sub(spending),
		SavingsRate:           percentOf(income.Sub(spending), income, 1),
		AverageTransaction:    spending.DivRound(decimal.NewFromInt(int64(max(1, expenseCount))), 2),
		TransactionCount:      expenseCount,
		IncomeCount:           incomeCount,
		PreviousSpending:      prevSpending,
		SpendingChangePercent: change,
		SpendingTrend:         e.trendFor(change, prevSpending),
	}

	categories := make([]domain.CategoryAggregate, 0, len(byCategory))
	for name, ct := range byCategory {
		categories = append(categories, domain.CategoryAggregate{
			Category:               name,
			Total:                  ct.total,
			Count:                  ct.count,
		})
	}
	sortCategories(categories)
	apportionShares(categories, spending)

	return &Aggregation{
		Window:         cur,
		PreviousWindow: prev,
		Summary:        summary,
		Categories:     categories,
		CategoryTrends: e.categoryTrends(categories, prevByCategory),
	}, nil
}

// Series returns spending and income for the count most recent windows of
// period, oldest first, ending with the window containing ref.
func (e *Engine) Series(txns []domain.Transaction, period domain.Period, ref time.Time, count int) ([]domain.PeriodTotal, error) {
	if !period.IsValid() {
		return nil, domain.ErrInvalidPeriod
	}
	if count < 1 || count > MaxSeriesLength {
		return nil, fmt.Errorf("%w: series length must be between 1 and %d", domain.ErrInvalidInput, MaxSeriesLength)
	}

	windows := make([]domain.Window, count)
	windows[count-1] = windowAt(period, ref, e.cfg.WeekStart)
	for i := count - 2; i >= 0; i-- {
		windows[i] = previousWindow(period, windows[i+1], e.cfg.WeekStart)
	}

	points := make([]domain.PeriodTotal, count)
	for i, w := range windows {
		points[i] = domain.PeriodTotal{
			PeriodKey:   periodKey(period, w),
			WindowStart: w.Start,
			WindowEnd:   w.End,
			Spending:    decimal.Zero,
			Income:      decimal.Zero,
		}
	}

	for _, raw := range txns {
		tx := NormalizeTransaction(raw)
		i := sort.Search(count, func(i int) bool { return windows[i].End.After(tx.Date) })
		if i == count || !windows[i].Contains(tx.Date) {
			continue
		}
		if tx.IsExpense() {
			points[i].Spending = points[i].Spending.Add(tx.Amount)
		} else if tx.IsIncome() {
			points[i].Income = points[i].Income.Add(tx.Amount)
		}
	}
	return points, nil
}

func (e *Engine) categoryTrends(categories []domain.CategoryAggregate, previous map[string]decimal.Decimal) []domain.CategoryTrend {
	trends := make([]domain.CategoryTrend, 0, len(categories)+len(previous))
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		seen[c.Category] = true
		trends = append(trends, e.categoryTrend(c.Category, c.Total, previous[c.Category]))
	}

	var gone []string
	for name := range previous {
		if !seen[name] {
			gone = append(gone, name)
		}
	}
	sort.Strings(gone)
	for _, name := range gone {
		trends = append(trends, e.categoryTrend(name, decimal.Zero, previous[name]))
	}
	return trends
}

func (e *Engine) categoryTrend(name string, current, previous decimal.Decimal) domain.CategoryTrend {
	change := changePercent(current, previous)
	return domain.CategoryTrend{
		Category:      name,
		CurrentTotal:  current,
		PreviousTotal: previous,
		ChangeAmount:  current.Sub(previous),
		ChangePercent: change,
		Direction:     e.trendFor(change, previous),
	}
}

// trendFor applies the deadband. With no previous spend there is nothing to
// compare against and the trend is stable.
func (e *Engine) trendFor(change, previous decimal.Decimal) domain.Trend {
	if !previous.IsPositive() {
		return domain.TrendStable
	}
	switch {
	case change.GreaterThan(e.cfg.TrendThresholdPercent):
		return domain.TrendIncreasing
	case change.LessThan(e.cfg.TrendThresholdPercent.Neg()):
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// changePercent is (current - previous) / previous * 100, or 0 when previous is 0
func changePercent(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Mul(hundred).DivRound(previous, 2)
}

// percentOf is part / whole * 100 rounded to places, or 0 when whole is 0
func percentOf(part, whole decimal.Decimal, places int32) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, places)
}

// apportionShares sets each category's share of spending in tenths of a
// percent using the largest-remainder method, so the shares of a non-empty
// spend always sum to exactly 100.0. Ties go to the earlier category.
func apportionShares(categories []domain.CategoryAggregate, spending decimal.Decimal) {
	if !spending.IsPositive() {
		for i := range categories {
			categories[i].PercentageOfTotalSpend = decimal.Zero
		}
		return
	}

	units := make([]int64, len(categories))
	remainders := make([]decimal.Decimal, len(categories))
	var allotted int64
	for i, c := range categories {
		exact := c.Total.Mul(shareUnits).Div(spending)
		floor := exact.Floor()
		units[i] = floor.IntPart()
		remainders[i] = exact.Sub(floor)
		allotted += units[i]
	}

	order := make([]int, len(categories))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := 0; allotted < shareUnits.IntPart() && k < len(order); k++ {
		units[order[k]]++
		allotted++
	}

	for i := range categories {
		categories[i].PercentageOfTotalSpend = decimal.New(units[i], -1)
	}
}

func sortCategories(categories []domain.CategoryAggregate) {
	sort.Slice(categories, func(i, j int) bool {
		if cmp := categories[i].Total.Cmp(categories[j].Total); cmp != 0 {
			return cmp > 0
		}
		return categories[i].Category < categories[j].Category
	})
}
