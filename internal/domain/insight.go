package domain

// Priority orders insights and suggestions for display
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Tone is the color family a presentation layer uses for a priority
type Tone string

const (
	ToneError   Tone = "error"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
)

var priorityTones = map[Priority]Tone{
	PriorityHigh:   ToneError,
	PriorityMedium: ToneWarning,
}

// ToneForPriority maps high to error and medium to warning; every other value,
// including priorities added later, falls back to success.
func ToneForPriority(p Priority) Tone {
	if tone, ok := priorityTones[p]; ok {
		return tone
	}
	return ToneSuccess
}

// InsightKind identifies the rule that produced an insight or suggestion
type InsightKind string

const (
	KindBudgetExceeded        InsightKind = "budget_exceeded"
	KindBudgetCritical        InsightKind = "budget_critical"
	KindBudgetWarning         InsightKind = "budget_warning"
	KindCategoryConcentration InsightKind = "category_concentration"
	KindSpendingIncrease      InsightKind = "spending_increase"
	KindSpendingDecrease      InsightKind = "spending_decrease"
	KindOverspending          InsightKind = "overspending"
)

type Insight struct {
	Kind        InsightKind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Suggestion  string      `json:"suggestion"`
	Category    string      `json:"category,omitempty"`
	Priority    Priority    `json:"priority"`
	Tone        Tone        `json:"tone"`
	Actionable  bool        `json:"actionable"`
}

// Suggestion shares the Insight shape; it is kept as a separate name so
// callers can tell the two lists apart.
type Suggestion = Insight

// Advice is the generator output
type Advice struct {
	Insights    []Insight    `json:"insights"`
	Suggestions []Suggestion `json:"suggestions"`
}
