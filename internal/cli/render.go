package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/finze/finze-backend/internal/domain"
)

// UserScore is one row of a batch scoring run
type UserScore struct {
	UserID string             `json:"userId"`
	Health domain.HealthScore `json:"health"`
	Err    string             `json:"error,omitempty"`
}

// RenderReport writes a human readable report
func RenderReport(w io.Writer, report *domain.Report) error {
	var b strings.Builder

	s := report.Summary
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Finze report %s (%s)", s.PeriodKey, s.Period)))
	b.WriteString("\n\n")

	summary := []string{
		fmt.Sprintf("Spending      %s  (%d transactions)", s.TotalSpending.StringFixed(2), s.TransactionCount),
		fmt.Sprintf("Income        %s", s.TotalIncome.StringFixed(2)),
		fmt.Sprintf("Net cash flow %s", s.NetCashFlow.StringFixed(2)),
		fmt.Sprintf("Savings rate  %s%%", s.SavingsRate.StringFixed(1)),
		fmt.Sprintf("vs previous   %s%% (%s)", s.SpendingChangePercent.StringFixed(2), s.SpendingTrend),
	}
	b.WriteString(BoxStyle.Render(strings.Join(summary, "\n")))
	b.WriteString("\n\n")

	health := report.Health
	b.WriteString(HeaderStyle.Render("Financial health"))
	b.WriteString("\n")
	b.WriteString(BandStyle(health.Band).Render(fmt.Sprintf("%d/100 %s", health.Score, health.Band)))
	b.WriteString("\n\n")

	if len(report.Categories) > 0 {
		b.WriteString(HeaderStyle.Render("Categories"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(report.Categories))
		for _, c := range report.Categories {
			rows = append(rows, []string{c.Category, c.Total.StringFixed(2), c.PercentageOfTotalSpend.StringFixed(1) + "%"})
		}
		b.WriteString(table(rows))
		b.WriteString("\n")
	}

	if len(report.Budgets.PerBudget) > 0 {
		b.WriteString(HeaderStyle.Render("Budgets"))
		b.WriteString("\n")
		for _, st := range report.Budgets.PerBudget {
			line := fmt.Sprintf("%-20s %10s / %-10s %6s%%  %s",
				st.Category, st.Spent.StringFixed(2), st.Limit.StringFixed(2), st.PercentUsed.StringFixed(1), st.State)
			b.WriteString(StateStyle(st.State).Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeAdvice(&b, "Insights", report.Insights)
	writeAdvice(&b, "Suggestions", report.Suggestions)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderScores writes one line per user of a batch scoring run
func RenderScores(w io.Writer, scores []UserScore) error {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Financial health by user"))
	b.WriteString("\n")
	for _, s := range scores {
		if s.Err != "" {
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("%s %-24s %s", ErrorIcon, s.UserID, s.Err)))
		} else {
			b.WriteString(BandStyle(s.Health.Band).Render(fmt.Sprintf("%3d %-24s %s", s.Health.Score, s.UserID, s.Health.Band)))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeAdvice(b *strings.Builder, title string, items []domain.Insight) {
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(SubtleStyle.Render("nothing to report"))
		b.WriteString("\n\n")
		return
	}
	for _, it := range items {
		style := ToneStyle(it.Tone)
		b.WriteString(style.Render(fmt.Sprintf("%s [%s] %s", ToneIcon(it.Tone), it.Priority, it.Title)))
		b.WriteString("\n")
		b.WriteString("    " + it.Description + "\n")
		if it.Suggestion != "" {
			b.WriteString(SubtleStyle.Render("    " + it.Suggestion))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	lines := make([]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = CellStyle.Width(widths[i] + 2).Render(cell)
		}
		lines[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return strings.Join(lines, "\n") + "\n"
}
