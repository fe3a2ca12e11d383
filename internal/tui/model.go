// Package tui is the interactive board for the current day.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/review"
	"github.com/julianstephens/habitual/internal/tui/components/tasklist"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateWeek
	stateCount
)

var tabTitles = []string{"Today", "Week"}

// Backend is what the board needs from the services.
type Backend interface {
	// LoadDay materializes date and returns its tasks.
	LoadDay(ctx context.Context, date string) ([]models.TaskView, error)
	SetStatus(ctx context.Context, taskID string, status models.TaskStatus) error
	Postpone(ctx context.Context, taskID string) error
	Review(ctx context.Context) (analytics.WeeklyReview, error)
}

type tasksLoadedMsg struct {
	tasks []models.TaskView
}

type reviewLoadedMsg struct {
	review analytics.WeeklyReview
}

type changedMsg struct{}

type errMsg struct {
	err error
}

type Model struct {
	ctx         context.Context
	backend     Backend
	date        string
	state       SessionState
	keys        KeyMap
	help        help.Model
	taskList    tasklist.Model
	reviewModel review.Model
	done        int
	total       int
	errText     string
	quitting    bool
	width       int
	height      int
}

func NewModel(ctx context.Context, backend Backend, date string) Model {
	return Model{
		ctx:         ctx,
		backend:     backend,
		date:        date,
		state:       StateToday,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		taskList:    tasklist.New(nil, 0, 0),
		reviewModel: review.New(0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	if m.state == StateToday {
		tk := m.taskList.Keys()
		keys = append(keys, tk.Complete, tk.Skip, tk.Postpone, tk.Undo)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right}

	var actions []key.Binding
	if m.state == StateToday {
		tk := m.taskList.Keys()
		actions = []key.Binding{tk.Complete, tk.Skip, tk.Postpone, tk.Undo}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadTasks(), m.loadReview())
}

func (m Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.backend.LoadDay(m.ctx, m.date)
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (m Model) loadReview() tea.Cmd {
	return func() tea.Msg {
		r, err := m.backend.Review(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return reviewLoadedMsg{r}
	}
}

func (m Model) setStatus(taskID string, status models.TaskStatus) tea.Cmd {
	return func() tea.Msg {
		if err := m.backend.SetStatus(m.ctx, taskID, status); err != nil {
			return errMsg{err}
		}
		return changedMsg{}
	}
}

func (m Model) postpone(taskID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.backend.Postpone(m.ctx, taskID); err != nil {
			return errMsg{err}
		}
		return changedMsg{}
	}
}
