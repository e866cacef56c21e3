package insights

import (
	"fmt"
	"time"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/finze/finze-backend/internal/util"
)

// WindowFor returns the calendar window of the given period containing ref.
// Boundaries are computed in ref's location.
func (e *Engine) WindowFor(period domain.Period, ref time.Time) (domain.Window, error) {
	if !period.IsValid() {
		return domain.Window{}, domain.ErrInvalidPeriod
	}
	return windowAt(period, ref, e.cfg.WeekStart), nil
}

// CoverageWindow returns the smallest window holding every transaction an
// Analyze call for this period and these budgets can look at. Callers use it
// to bound store queries.
func (e *Engine) CoverageWindow(period domain.Period, budgets []domain.Budget, ref time.Time) (domain.Window, error) {
	if !period.IsValid() {
		return domain.Window{}, domain.ErrInvalidPeriod
	}
	cur := windowAt(period, ref, e.cfg.WeekStart)
	cover := domain.Window{Start: previousWindow(period, cur, e.cfg.WeekStart).Start, End: cur.End}

	for _, b := range budgets {
		if !b.Period.IsValid() {
			return domain.Window{}, domain.ErrInvalidPeriod
		}
		if !b.IsActive {
			continue
		}
		w := windowAt(b.Period, ref, e.cfg.WeekStart)
		if w.Start.Before(cover.Start) {
			cover.Start = w.Start
		}
		if w.End.After(cover.End) {
			cover.End = w.End
		}
	}
	return cover, nil
}

// SeriesWindow returns the span covered by Series for the same arguments
func (e *Engine) SeriesWindow(period domain.Period, ref time.Time, count int) (domain.Window, error) {
	if !period.IsValid() {
		return domain.Window{}, domain.ErrInvalidPeriod
	}
	if count < 1 || count > MaxSeriesLength {
		return domain.Window{}, fmt.Errorf("%w: series length must be between 1 and %d", domain.ErrInvalidInput, MaxSeriesLength)
	}
	last := windowAt(period, ref, e.cfg.WeekStart)
	first := last
	for i := 1; i < count; i++ {
		first = previousWindow(period, first, e.cfg.WeekStart)
	}
	return domain.Window{Start: first.Start, End: last.End}, nil
}

func windowAt(period domain.Period, ref time.Time, weekStart time.Weekday) domain.Window {
	var start, end time.Time
	switch period {
	case domain.PeriodDaily:
		start = util.StartOfDay(ref)
		end = start.AddDate(0, 0, 1)
	case domain.PeriodWeekly:
		start = util.StartOfWeek(ref, weekStart)
		end = start.AddDate(0, 0, 7)
	case domain.PeriodMonthly:
		start = util.StartOfMonth(ref)
		end = start.AddDate(0, 1, 0)
	case domain.PeriodYearly:
		start = util.StartOfYear(ref)
		end = start.AddDate(1, 0, 0)
	}
	return domain.Window{Start: start, End: end}
}

// previousWindow is the calendar period immediately before w, so a March
// window is preceded by February with its own day count.
func previousWindow(period domain.Period, w domain.Window, weekStart time.Weekday) domain.Window {
	return windowAt(period, w.Start.Add(-time.Nanosecond), weekStart)
}

func periodKey(period domain.Period, w domain.Window) string {
	switch period {
	case domain.PeriodDaily:
		return w.Start.Format("2006-01-02")
	case domain.PeriodWeekly:
		return util.WeekKey(w.Start)
	case domain.PeriodMonthly:
		return w.Start.Format("2006-01")
	case domain.PeriodYearly:
		return w.Start.Format("2006")
	}
	return ""
}
