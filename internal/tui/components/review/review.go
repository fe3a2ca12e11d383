package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/constants"
)

const barWidth = 20

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(24)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	fairStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	poorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model shows a weekly review in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	Review   *analytics.WeeklyReview
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Review == nil {
		return "Loading week..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetReview(r analytics.WeeklyReview) {
	m.Review = &r
	m.Render()
}

func (m *Model) Render() {
	if m.Review == nil {
		m.viewport.SetContent("No review loaded.")
		return
	}
	r := m.Review

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Week %s to %s", r.WeekStart, r.WeekEnd)))
	if r.Total == 0 {
		b.WriteString(mutedStyle.Render("No tasks this week."))
		m.viewport.SetContent(b.String())
		return
	}
	fmt.Fprintf(&b, "%d of %d done %s\n\n", r.Completed, r.Total, rateStyle(r.Rate).Render(fmt.Sprintf("%.0f%%", r.Rate)))

	for _, hw := range r.Habits {
		if hw.Total == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %s %d/%d\n", titleStyle.Render(hw.Title), Bar(hw.Rate), hw.Completed, hw.Total)
	}
	if len(r.AtRisk) > 0 {
		names := make([]string, len(r.AtRisk))
		for i, hw := range r.AtRisk {
			names[i] = hw.Title
		}
		fmt.Fprintf(&b, "\n%s %s\n", poorStyle.Render("Needs attention:"), strings.Join(names, ", "))
	}
	m.viewport.SetContent(b.String())
}

// Bar draws rate (0 to 100) as a fixed-width bar.
func Bar(rate float64) string {
	filled := int(rate / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return rateStyle(rate).Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

func rateStyle(rate float64) lipgloss.Style {
	switch {
	case rate >= constants.StarThreshold:
		return goodStyle
	case rate < constants.AtRiskThreshold:
		return poorStyle
	default:
		return fairStyle
	}
}
