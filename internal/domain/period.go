package domain

import (
	"strings"
	"time"
)

// Period is the calendar granularity used for budgets and aggregation windows
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod accepts both the budget form ("monthly") and the bucket form ("month")
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return PeriodDaily, nil
	case "weekly", "week":
		return PeriodWeekly, nil
	case "monthly", "month":
		return PeriodMonthly, nil
	case "yearly", "year":
		return PeriodYearly, nil
	}
	return "", ErrInvalidPeriod
}

// IsValid reports whether p is one of the four known periods
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Window is a half-open calendar interval [Start, End)
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
