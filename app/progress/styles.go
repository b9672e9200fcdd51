package progress

import "github.com/charmbracelet/lipgloss"

var (
	ColorGreen  = lipgloss.Color("#98C379")
	ColorBlue   = lipgloss.Color("#61AFEF")
	ColorMuted  = lipgloss.Color("#636B78")
	ColorBorder = lipgloss.Color("#3F4451")
)

var (
	SummaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	SummaryTitleStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)
)
