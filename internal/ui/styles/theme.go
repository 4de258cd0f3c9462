package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary = lipgloss.Color("#7C3AED")
	Warning = lipgloss.Color("#F59E0B")
	Danger  = lipgloss.Color("#EF4444")
	Muted   = lipgloss.Color("#6B7280")
	TextDim = lipgloss.Color("#9CA3AF")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	SkipStyle = lipgloss.NewStyle().
			Foreground(Muted)

	DimStyle = lipgloss.NewStyle().
			Foreground(TextDim)
)

// Tag renders a fixed-width status label such as FAIL or SKIP
func Tag(label string) string {
	padded := lipgloss.NewStyle().Width(4).Render(label)

	switch label {
	case "FAIL":
		return ErrorStyle.Render(padded)
	case "WARN":
		return WarningStyle.Render(padded)
	case "SKIP":
		return SkipStyle.Render(padded)
	default:
		return padded
	}
}
