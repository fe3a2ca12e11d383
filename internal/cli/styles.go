package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

var statusIcons = map[models.TaskStatus]string{
	models.StatusPending:   "○",
	models.StatusCompleted: "✓",
	models.StatusSkipped:   "–",
	models.StatusPostponed: "»",
}

func renderStatus(status models.TaskStatus) string {
	icon := statusIcons[status]
	switch status {
	case models.StatusCompleted:
		return okStyle.Render(icon)
	case models.StatusSkipped:
		return mutedStyle.Render(icon)
	case models.StatusPostponed:
		return warnStyle.Render(icon)
	default:
		return icon
	}
}

// renderWeek draws one cell per day, oldest first.
func renderWeek(done []bool) string {
	out := ""
	for _, d := range done {
		if d {
			out += okStyle.Render("■")
		} else {
			out += mutedStyle.Render("□")
		}
	}
	return out
}
