package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trend is the direction of spending compared with the previous window
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// CategoryAggregate holds expense totals for one category inside a window
type CategoryAggregate struct {
	Category               string          `json:"category"`
	Total                  decimal.Decimal `json:"total"`
	Count                  int             `json:"count"`
	PercentageOfTotalSpend decimal.Decimal `json:"percentageOfTotalSpend"`
}

// CategoryTrend compares a category's spend with the previous window
type CategoryTrend struct {
	Category      string          `json:"category"`
	CurrentTotal  decimal.Decimal `json:"currentTotal"`
	PreviousTotal decimal.Decimal `json:"previousTotal"`
	ChangeAmount  decimal.Decimal `json:"changeAmount"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Direction     Trend           `json:"direction"`
}

type PeriodSummary struct {
	PeriodKey             string          `json:"periodKey"`
	Period                Period          `json:"period"`
	WindowStart           time.Time       `json:"windowStart"`
	WindowEnd             time.Time       `json:"windowEnd"`
	TotalSpending         decimal.Decimal `json:"totalSpending"`
	TotalIncome           decimal.Decimal `json:"totalIncome"`
	NetCashFlow           decimal.Decimal `json:"netCashFlow"`
	SavingsRate           decimal.Decimal `json:"savingsRate"`
	AverageTransaction    decimal.Decimal `json:"averageTransaction"`
	TransactionCount      int             `json:"transactionCount"`
	IncomeCount           int             `json:"incomeCount"`
	PreviousSpending      decimal.Decimal `json:"previousSpending"`
	SpendingChangePercent decimal.Decimal `json:"spendingChangePercent"`
	SpendingTrend         Trend           `json:"spendingTrend"`
}

// PeriodTotal is one point of a spending series
type PeriodTotal struct {
	PeriodKey   string          `json:"periodKey"`
	WindowStart time.Time       `json:"windowStart"`
	WindowEnd   time.Time       `json:"windowEnd"`
	Spending    decimal.Decimal `json:"spending"`
	Income      decimal.Decimal `json:"income"`
}

// HealthBand is the presentation banding of a health score
type HealthBand string

const (
	HealthBandGood    HealthBand = "good"
	HealthBandCaution HealthBand = "caution"
	HealthBandAtRisk  HealthBand = "at_risk"
)

// BandForScore maps a 0-100 score onto its display band
func BandForScore(score int) HealthBand {
	switch {
	case score >= 80:
		return HealthBandGood
	case score >= 60:
		return HealthBandCaution
	default:
		return HealthBandAtRisk
	}
}

type HealthScore struct {
	Score         int        `json:"score"`
	Band          HealthBand `json:"band"`
	SpendingTrend Trend      `json:"spendingTrend"`
}

// Report is the full output of one engine pass over a snapshot
type Report struct {
	Summary        PeriodSummary       `json:"summary"`
	Categories     []CategoryAggregate `json:"categories"`
	CategoryTrends []CategoryTrend     `json:"categoryTrends"`
	Budgets        BudgetReport        `json:"budgets"`
	Health         HealthScore         `json:"health"`
	Insights       []Insight           `json:"insights"`
	Suggestions    []Suggestion        `json:"suggestions"`
	ReferenceDate  time.Time           `json:"referenceDate"`
}
