package insights

import (
	"fmt"

	"github.com/finze/finze-backend/internal/domain"
)

type output int

const (
	asInsight output = iota
	asSuggestion
)

// draft is the rule-specific text of one emitted item
type draft struct {
	title       string
	description string
	suggestion  string
	category    string
}

type ruleInput struct {
	summary    domain.PeriodSummary
	categories []domain.CategoryAggregate
	statuses   []domain.BudgetStatus
}

// rule binds a kind to its output list, priority and actionability. The
// match function only decides whether the rule fires and what it says.
type rule struct {
	kind       domain.InsightKind
	output     output
	priority   domain.Priority
	actionable bool
	match      func(cfg Config, in ruleInput) []draft
}

// rules are evaluated in declaration order, which is also emission order
var rules = []rule{
	{domain.KindBudgetExceeded, asSuggestion, domain.PriorityHigh, true, matchBudgetState(domain.BudgetStateExceeded)},
	{domain.KindBudgetCritical, asSuggestion, domain.PriorityMedium, true, matchBudgetState(domain.BudgetStateCritical)},
	{domain.KindBudgetWarning, asSuggestion, domain.PriorityLow, true, matchBudgetState(domain.BudgetStateWarning)},
	{domain.KindCategoryConcentration, asInsight, domain.PriorityMedium, true, matchConcentration},
	{domain.KindSpendingIncrease, asInsight, domain.PriorityMedium, false, matchSpendingIncrease},
	{domain.KindSpendingDecrease, asInsight, domain.PriorityLow, false, matchSpendingDecrease},
	{domain.KindOverspending, asInsight, domain.PriorityHigh, true, matchOverspending},
}

// Generate runs every rule over the aggregates and budget statuses. Both
// returned lists are non-nil, possibly empty.
func (e *Engine) Generate(summary domain.PeriodSummary, categories []domain.CategoryAggregate, statuses []domain.BudgetStatus) domain.Advice {
	advice := domain.Advice{
		Insights:    []domain.Insight{},
		Suggestions: []domain.Suggestion{},
	}
	in := ruleInput{summary: summary, categories: categories, statuses: statuses}

	for _, r := range rules {
		for _, d := range r.match(e.cfg, in) {
			item := domain.Insight{
				Kind:        r.kind,
				Title:       d.title,
				Description: d.description,
				Suggestion:  d.suggestion,
				Category:    d.category,
				Priority:    r.priority,
				Tone:        domain.ToneForPriority(r.priority),
				Actionable:  r.actionable,
			}
			if r.output == asSuggestion {
				advice.Suggestions = append(advice.Suggestions, item)
			} else {
				advice.Insights = append(advice.Insights, item)
			}
		}
	}
	return advice
}

func matchBudgetState(state domain.BudgetState) func(Config, ruleInput) []draft {
	return func(_ Config, in ruleInput) []draft {
		var out []draft
		for _, s := range in.statuses {
			if s.State != state {
				continue
			}
			out = append(out, budgetDraft(s))
		}
		return out
	}
}

func budgetDraft(s domain.BudgetStatus) draft {
	switch s.State {
	case domain.BudgetStateExceeded:
		return draft{
			title: fmt.Sprintf("%s budget exceeded", s.Category),
			description: fmt.Sprintf("You have spent %s of your %s %s budget for %s, %s over the limit.",
				s.Spent.StringFixed(2), s.Period, s.Limit.StringFixed(2), s.Category, s.Overage.StringFixed(2)),
			suggestion: fmt.Sprintf("Pause non-essential %s spending until the next period or raise the limit by at least %s.",
				s.Category, s.Overage.StringFixed(2)),
			category: s.Category,
		}
	case domain.BudgetStateCritical:
		return draft{
			title: fmt.Sprintf("%s budget almost used", s.Category),
			description: fmt.Sprintf("%s%% of your %s %s budget is used; %s remains.",
				s.PercentUsed.StringFixed(1), s.Period, s.Category, s.Remaining.StringFixed(2)),
			suggestion: fmt.Sprintf("Hold back on %s for the rest of the period to stay within the limit.", s.Category),
			category:   s.Category,
		}
	default:
		return draft{
			title: fmt.Sprintf("%s budget at %s%%", s.Category, s.PercentUsed.StringFixed(1)),
			description: fmt.Sprintf("You have used %s of your %s %s budget for %s.",
				s.Spent.StringFixed(2), s.Period, s.Limit.StringFixed(2), s.Category),
			suggestion: fmt.Sprintf("Keep an eye on %s; %s is left for this period.", s.Category, s.Remaining.StringFixed(2)),
			category:   s.Category,
		}
	}
}

// matchConcentration fires strictly above the threshold, so a category at
// exactly the threshold share does not trigger.
func matchConcentration(cfg Config, in ruleInput) []draft {
	var out []draft
	for _, c := range in.categories {
		if !c.PercentageOfTotalSpend.GreaterThan(cfg.ConcentrationThreshold) {
			continue
		}
		out = append(out, draft{
			title: fmt.Sprintf("%s dominates your spending", c.Category),
			description: fmt.Sprintf("%s accounts for %s%% of your spending this period (%s across %d transactions).",
				c.Category, c.PercentageOfTotalSpend.StringFixed(1), c.Total.StringFixed(2), c.Count),
			suggestion: fmt.Sprintf("Consider diversifying: set a budget for %s or move some of it to other categories.", c.Category),
			category:   c.Category,
		})
	}
	return out
}

func matchSpendingIncrease(_ Config, in ruleInput) []draft {
	if in.summary.SpendingTrend != domain.TrendIncreasing {
		return nil
	}
	return []draft{{
		title: "Spending is up",
		description: fmt.Sprintf("Spending rose %s%% compared with the previous period (%s vs %s).",
			signedPercent(in.summary), in.summary.TotalSpending.StringFixed(2), in.summary.PreviousSpending.StringFixed(2)),
		suggestion: "Review recent purchases in your largest categories.",
	}}
}

func matchSpendingDecrease(_ Config, in ruleInput) []draft {
	if in.summary.SpendingTrend != domain.TrendDecreasing {
		return nil
	}
	return []draft{{
		title: "Spending is down",
		description: fmt.Sprintf("Spending changed %s%% compared with the previous period (%s vs %s).",
			signedPercent(in.summary), in.summary.TotalSpending.StringFixed(2), in.summary.PreviousSpending.StringFixed(2)),
		suggestion: "Nice work. Consider moving the difference into savings.",
	}}
}

func matchOverspending(_ Config, in ruleInput) []draft {
	s := in.summary
	if !s.TotalIncome.IsPositive() || !s.TotalSpending.GreaterThan(s.TotalIncome) {
		return nil
	}
	return []draft{{
		title: "Spending exceeds income",
		description: fmt.Sprintf("You spent %s against %s of income this period, a shortfall of %s.",
			s.TotalSpending.StringFixed(2), s.TotalIncome.StringFixed(2), s.NetCashFlow.Neg().StringFixed(2)),
		suggestion: "Cut discretionary spending or plan how the shortfall will be covered.",
	}}
}

func signedPercent(s domain.PeriodSummary) string {
	p := s.SpendingChangePercent.StringFixed(2)
	if s.SpendingChangePercent.IsPositive() {
		return "+" + p
	}
	return p
}
