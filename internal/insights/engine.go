// Package insights turns transaction and budget snapshots into period
// aggregates, budget health states, a financial health score and rule-based
// advice. Every function is pure: results depend only on the arguments, and
// an Engine may be shared between goroutines.
package insights

import (
	"time"

	"github.com/finze/finze-backend/internal/domain"
)

// Engine evaluates snapshots against a fixed configuration
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine using it
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the thresholds in use
func (e *Engine) Config() Config {
	return e.cfg
}

// Analyze runs aggregation, classification, scoring and advice generation
// for the window of period containing ref.
func (e *Engine) Analyze(txns []domain.Transaction, budgets []domain.Budget, period domain.Period, ref time.Time) (*domain.Report, error) {
	agg, err := e.Aggregate(txns, period, ref)
	if err != nil {
		return nil, err
	}

	budgetReport, err := e.Classify(budgets, txns, ref)
	if err != nil {
		return nil, err
	}

	health := e.Score(agg.Summary, agg.Categories)
	advice := e.Generate(agg.Summary, agg.Categories, budgetReport.PerBudget)

	return &domain.Report{
		Summary:        agg.Summary,
		Categories:     agg.Categories,
		CategoryTrends: agg.CategoryTrends,
		Budgets:        *budgetReport,
		Health:         health,
		Insights:       advice.Insights,
		Suggestions:    advice.Suggestions,
		ReferenceDate:  ref,
	}, nil
}
