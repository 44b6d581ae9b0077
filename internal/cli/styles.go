package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spacesedan/reviewpulse/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	labelStyles = map[models.SentimentLabel]lipgloss.Style{
		models.LabelPositive: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		models.LabelNeutral:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		models.LabelNegative: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func renderLabel(label models.SentimentLabel) string {
	style, ok := labelStyles[label]
	if !ok {
		return string(label)
	}
	return style.Render(string(label))
}
