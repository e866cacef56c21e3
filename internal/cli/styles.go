// Package cli renders engine output for terminals using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/finze/finze-backend/internal/domain"
)

var (
	PrimaryColor = lipgloss.Color("#5B8DEF")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons
const (
	SuccessIcon = "✓"
	WarningIcon = "!"
	ErrorIcon   = "✗"
)

// ToneStyle returns the style used for a presentation tone
func ToneStyle(tone domain.Tone) lipgloss.Style {
	switch tone {
	case domain.ToneError:
		return ErrorStyle
	case domain.ToneWarning:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// ToneIcon returns the icon prefixed to messages of a tone
func ToneIcon(tone domain.Tone) string {
	switch tone {
	case domain.ToneError:
		return ErrorIcon
	case domain.ToneWarning:
		return WarningIcon
	default:
		return SuccessIcon
	}
}

// BandStyle colors a health band like the tone of the matching priority
func BandStyle(band domain.HealthBand) lipgloss.Style {
	switch band {
	case domain.HealthBandAtRisk:
		return ErrorStyle
	case domain.HealthBandCaution:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// StateStyle colors a budget state
func StateStyle(state domain.BudgetState) lipgloss.Style {
	switch state {
	case domain.BudgetStateExceeded:
		return ErrorStyle
	case domain.BudgetStateCritical, domain.BudgetStateWarning:
		return WarningStyle
	default:
		return SuccessStyle
	}
}
