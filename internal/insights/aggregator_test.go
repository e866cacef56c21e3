package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Empty(t *testing.T) {
	e := newTestEngine(t)

	agg, err := e.Aggregate(nil, domain.PeriodMonthly, testRef)
	require.NoError(t, err)

	assert.Equal(t, "2026-10", agg.Summary.PeriodKey)
	requireDecimal(t, "0", agg.Summary.TotalSpending)
	requireDecimal(t, "0", agg.Summary.AverageTransaction)
	requireDecimal(t, "0", agg.Summary.SpendingChangePercent)
	requireDecimal(t, "0", agg.Summary.SavingsRate)
	assert.Equal(t, 0, agg.Summary.TransactionCount)
	assert.Equal(t, domain.TrendStable, agg.Summary.SpendingTrend)
	assert.NotNil(t, agg.Categories)
	assert.Empty(t, agg.Categories)
	assert.Empty(t, agg.CategoryTrends)
}

func TestAggregate_MonthlyTotals(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{
		expense("Food", "400", day(2026, 10, 2)),
		expense("Food", "200", day(2026, 10, 18)),
		expense("Transport", "400", day(2026, 10, 5)),
		income("2000", day(2026, 10, 1)),
		expense("Food", "800", day(2026, 9, 20)),     // previous month
		expense("Food", "999", day(2026, 11, 1)),     // next month, ignored
		expense("Travel", "5000", day(2026, 8, 31)), // two months back, ignored
	}

	agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)

	s := agg.Summary
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), s.WindowStart)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), s.WindowEnd)
	requireDecimal(t, "1000", s.TotalSpending)
	requireDecimal(t, "2000", s.TotalIncome)
	requireDecimal(t, "1000", s.NetCashFlow)
	requireDecimal(t, "50", s.SavingsRate)
	requireDecimal(t, "333.33", s.AverageTransaction)
	assert.Equal(t, 3, s.TransactionCount)
	assert.Equal(t, 1, s.IncomeCount)
	requireDecimal(t, "800", s.PreviousSpending)
	requireDecimal(t, "25", s.SpendingChangePercent)
	assert.Equal(t, domain.TrendIncreasing, s.SpendingTrend)

	require.Len(t, agg.Categories, 2)
	assert.Equal(t, "Food", agg.Categories[0].Category)
	requireDecimal(t, "600", agg.Categories[0].Total)
	assert.Equal(t, 2, agg.Categories[0].Count)
	requireDecimal(t, "60", agg.Categories[0].PercentageOfTotalSpend)
	assert.Equal(t, "Transport", agg.Categories[1].Category)
	requireDecimal(t, "40", agg.Categories[1].PercentageOfTotalSpend)

	require.Len(t, agg.CategoryTrends, 2)
	assert.Equal(t, "Food", agg.CategoryTrends[0].Category)
	requireDecimal(t, "-25", agg.CategoryTrends[0].ChangePercent)
	requireDecimal(t, "-200", agg.CategoryTrends[0].ChangeAmount)
	assert.Equal(t, domain.TrendDecreasing, agg.CategoryTrends[0].Direction)
	assert.Equal(t, "Transport", agg.CategoryTrends[1].Category)
	assert.Equal(t, domain.TrendStable, agg.CategoryTrends[1].Direction)
}

func TestAggregate_ZeroPreviousSpendIsStable(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{expense("Food", "500", day(2026, 10, 3))}

	agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)

	requireDecimal(t, "0", agg.Summary.SpendingChangePercent)
	assert.Equal(t, domain.TrendStable, agg.Summary.SpendingTrend)
}

func TestAggregate_TrendDeadband(t *testing.T) {
	tests := []struct {
		name    string
		current string
		change  string
		want    domain.Trend
	}{
		{"inside deadband up", "1040", "4", domain.TrendStable},
		{"exactly at threshold", "1050", "5", domain.TrendStable},
		{"above threshold", "1060", "6", domain.TrendIncreasing},
		{"inside deadband down", "960", "-4", domain.TrendStable},
		{"below negative threshold", "940", "-6", domain.TrendDecreasing},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := []domain.Transaction{
				expense("Food", "1000", day(2026, 9, 10)),
				expense("Food", tt.current, day(2026, 10, 10)),
			}
			agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
			require.NoError(t, err)
			requireDecimal(t, tt.change, agg.Summary.SpendingChangePercent)
			assert.Equal(t, tt.want, agg.Summary.SpendingTrend)
		})
	}
}

func TestAggregate_ConfigurableDeadband(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrendThresholdPercent = decimal.NewFromInt(10)
	e, err := NewEngine(cfg)
	require.NoError(t, err)

	txns := []domain.Transaction{
		expense("Food", "1000", day(2026, 9, 10)),
		expense("Food", "1080", day(2026, 10, 10)),
	}
	agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendStable, agg.Summary.SpendingTrend)
}

func TestAggregate_CategoryOrderingTieBreak(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{
		expense("Charlie", "50", day(2026, 10, 1)),
		expense("Bravo", "100", day(2026, 10, 2)),
		expense("Alpha", "100", day(2026, 10, 3)),
		expense("Delta", "300", day(2026, 10, 4)),
	}

	agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)

	var names []string
	for _, c := range agg.Categories {
		names = append(names, c.Category)
	}
	assert.Equal(t, []string{"Delta", "Alpha", "Bravo", "Charlie"}, names)
}

func TestAggregate_PercentageClosure(t *testing.T) {
	e := newTestEngine(t)

	// Every share sits just under a rounding boundary (5.049%).
	var many []domain.Transaction
	for i := 0; i < 19; i++ {
		many = append(many, expense(fmt.Sprintf("Category %02d", i), "5049", day(2026, 10, 1)))
	}
	many = append(many, expense("Rest", "4069", day(2026, 10, 2)))

	sets := [][]domain.Transaction{
		many,
		{
			expense("A", "1", day(2026, 10, 1)),
			expense("B", "1", day(2026, 10, 1)),
			expense("C", "1", day(2026, 10, 1)),
		},
		{
			expense("A", "10.01", day(2026, 10, 1)),
			expense("B", "33.33", day(2026, 10, 2)),
			expense("C", "7.77", day(2026, 10, 3)),
			expense("D", "0.99", day(2026, 10, 4)),
			expense("E", "123.45", day(2026, 10, 5)),
		},
		{
			expense("Only", "42", day(2026, 10, 1)),
		},
	}

	for i, txns := range sets {
		agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, c := range agg.Categories {
			sum = sum.Add(c.PercentageOfTotalSpend)
		}
		diff := sum.Sub(decimal.NewFromInt(100)).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.5")),
			"set %d: percentages sum to %s", i, sum.String())
		for _, c := range agg.Categories {
			assert.True(t, c.PercentageOfTotalSpend.Equal(c.PercentageOfTotalSpend.Round(1)),
				"set %d: %s has more than one decimal place", i, c.PercentageOfTotalSpend)
		}
	}
}

func TestAggregate_SharesUseLargestRemainder(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{
		expense("A", "1", day(2026, 10, 1)),
		expense("B", "1", day(2026, 10, 1)),
		expense("C", "1", day(2026, 10, 1)),
	}

	agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)
	require.Len(t, agg.Categories, 3)

	// Equal remainders: the extra tenth goes to the first category in order.
	assert.Equal(t, "A", agg.Categories[0].Category)
	requireDecimal(t, "33.4", agg.Categories[0].PercentageOfTotalSpend)
	requireDecimal(t, "33.3", agg.Categories[1].PercentageOfTotalSpend)
	requireDecimal(t, "33.3", agg.Categories[2].PercentageOfTotalSpend)
}

func TestAggregate_CategoryNormalization(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{
		expense("", "30", day(2026, 10, 1)),
		expense("   ", "20", day(2026, 10, 1)),
		expense("food", "10", day(2026, 10, 1)),
		expense("Food", "15", day(2026, 10, 1)),
	}

	agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)

	require.Len(t, agg.Categories, 3)
	assert.Equal(t, domain.OtherCategory, agg.Categories[0].Category)
	requireDecimal(t, "50", agg.Categories[0].Total)
	// Category matching is case-sensitive
	assert.Equal(t, "Food", agg.Categories[1].Category)
	assert.Equal(t, "food", agg.Categories[2].Category)

	// The caller's records are left untouched
	assert.Equal(t, "", txns[0].Category)
}

func TestAggregate_DirtyAmountsAreZero(t *testing.T) {
	e := newTestEngine(t)

	bad := expense("Food", "0", day(2026, 10, 1))
	bad.Amount = decimal.NewFromInt(-75)
	txns := []domain.Transaction{bad, expense("Food", "25", day(2026, 10, 2))}

	agg, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)

	requireDecimal(t, "25", agg.Summary.TotalSpending)
	assert.Equal(t, 2, agg.Summary.TransactionCount)
	requireDecimal(t, "-75", txns[0].Amount)
}

func TestAggregate_UnknownTypeIgnored(t *testing.T) {
	e := newTestEngine(t)

	transfer := expense("Savings", "500", day(2026, 10, 1))
	transfer.Type = domain.TransactionType("transfer")

	agg, err := e.Aggregate([]domain.Transaction{transfer}, domain.PeriodMonthly, testRef)
	require.NoError(t, err)

	requireDecimal(t, "0", agg.Summary.TotalSpending)
	requireDecimal(t, "0", agg.Summary.TotalIncome)
	assert.Empty(t, agg.Categories)
}

func TestAggregate_WeeklyWindow(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{
		expense("Food", "10", day(2026, 10, 19)), // Monday, this week
		expense("Food", "20", day(2026, 10, 25)), // Sunday, this week
		expense("Food", "40", day(2026, 10, 18)), // Sunday, previous week
	}

	agg, err := e.Aggregate(txns, domain.PeriodWeekly, testRef)
	require.NoError(t, err)

	assert.Equal(t, "2026-W43", agg.Summary.PeriodKey)
	requireDecimal(t, "30", agg.Summary.TotalSpending)
	requireDecimal(t, "40", agg.Summary.PreviousSpending)
	requireDecimal(t, "-25", agg.Summary.SpendingChangePercent)
	assert.Equal(t, domain.TrendDecreasing, agg.Summary.SpendingTrend)
}

func TestAggregate_DailyAndYearlyWindows(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{
		expense("Food", "10", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)),
		expense("Food", "20", time.Date(2026, 10, 19, 23, 59, 59, 0, time.UTC)),
		expense("Food", "40", time.Date(2026, 10, 18, 23, 59, 59, 0, time.UTC)),
		expense("Food", "80", time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC)),
	}

	daily, err := e.Aggregate(txns, domain.PeriodDaily, testRef)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", daily.Summary.PeriodKey)
	requireDecimal(t, "30", daily.Summary.TotalSpending)
	requireDecimal(t, "40", daily.Summary.PreviousSpending)

	yearly, err := e.Aggregate(txns, domain.PeriodYearly, testRef)
	require.NoError(t, err)
	assert.Equal(t, "2026", yearly.Summary.PeriodKey)
	requireDecimal(t, "70", yearly.Summary.TotalSpending)
	requireDecimal(t, "80", yearly.Summary.PreviousSpending)
}

func TestAggregate_PreviousMonthIsCalendarAligned(t *testing.T) {
	e := newTestEngine(t)
	ref := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	txns := []domain.Transaction{
		expense("Food", "100", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		expense("Food", "100", time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)),
		expense("Food", "300", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		expense("Food", "999", time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)),
	}

	agg, err := e.Aggregate(txns, domain.PeriodMonthly, ref)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), agg.PreviousWindow.Start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), agg.PreviousWindow.End)
	requireDecimal(t, "300", agg.Summary.TotalSpending)
	requireDecimal(t, "200", agg.Summary.PreviousSpending)
	requireDecimal(t, "50", agg.Summary.SpendingChangePercent)
}

func TestAggregate_Idempotent(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{
		expense("Food", "12.34", day(2026, 10, 1)),
		expense("Transport", "56.78", day(2026, 10, 2)),
		expense("Shopping", "90.12", day(2026, 9, 3)),
		income("1500", day(2026, 10, 1)),
	}

	first, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)
	second, err := e.Aggregate(txns, domain.PeriodMonthly, testRef)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_InvalidPeriod(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Aggregate(nil, domain.Period("fortnightly"), testRef)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestSeries(t *testing.T) {
	e := newTestEngine(t)

	txns := []domain.Transaction{
		expense("Food", "100", day(2026, 8, 5)),
		expense("Food", "200", day(2026, 9, 5)),
		expense("Food", "50", day(2026, 10, 5)),
		expense("Food", "25", day(2026, 10, 6)),
		income("1000", day(2026, 10, 1)),
		expense("Food", "999", day(2026, 7, 31)), // before the series
		expense("Food", "999", day(2026, 11, 1)), // after the series
	}

	points, err := e.Series(txns, domain.PeriodMonthly, testRef, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "2026-08", points[0].PeriodKey)
	assert.Equal(t, "2026-09", points[1].PeriodKey)
	assert.Equal(t, "2026-10", points[2].PeriodKey)
	requireDecimal(t, "100", points[0].Spending)
	requireDecimal(t, "200", points[1].Spending)
	requireDecimal(t, "75", points[2].Spending)
	requireDecimal(t, "1000", points[2].Income)
	requireDecimal(t, "0", points[0].Income)
}

func TestSeries_InvalidLength(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Series(nil, domain.PeriodMonthly, testRef, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.Series(nil, domain.PeriodMonthly, testRef, MaxSeriesLength+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
