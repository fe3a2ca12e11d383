package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/tasklist"
)

// chromeHeight is the rows taken by the tabs, status line and help.
const chromeHeight = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.taskList.SetSize(msg.Width, msg.Height-chromeHeight)
		m.reviewModel.SetSize(msg.Width, msg.Height-chromeHeight)
		return m, nil

	case tasksLoadedMsg:
		m.errText = ""
		m.total = len(msg.tasks)
		m.done = 0
		for _, t := range msg.tasks {
			if t.Status == models.StatusCompleted {
				m.done++
			}
		}
		m.taskList.SetTasks(msg.tasks)
		return m, nil

	case reviewLoadedMsg:
		m.reviewModel.SetReview(msg.review)
		return m, nil

	case changedMsg:
		return m, tea.Batch(m.loadTasks(), m.loadReview())

	case errMsg:
		m.errText = fmt.Sprintf("Error: %v", msg.err)
		return m, nil

	case tasklist.StatusMsg:
		return m, m.setStatus(msg.TaskID, msg.Status)

	case tasklist.PostponeMsg:
		return m, m.postpone(msg.TaskID)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.state = (m.state + 1) % stateCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.state = (m.state - 1 + stateCount) % stateCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, tea.Batch(m.loadTasks(), m.loadReview())
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.taskList, cmd = m.taskList.Update(msg)
	case StateWeek:
		m.reviewModel, cmd = m.reviewModel.Update(msg)
	}
	return m, cmd
}
