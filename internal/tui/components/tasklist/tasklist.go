package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
)

// StatusMsg asks the parent to move a task to Status.
type StatusMsg struct {
	TaskID string
	Status models.TaskStatus
}

// PostponeMsg asks the parent to postpone a task.
type PostponeMsg struct {
	TaskID string
}

var icons = map[models.TaskStatus]string{
	models.StatusPending:   "○",
	models.StatusCompleted: "✓",
	models.StatusSkipped:   "–",
	models.StatusPostponed: "»",
}

type Item struct {
	Task models.TaskView
}

func (i Item) Title() string {
	return icons[i.Task.Status] + " " + i.Task.Title
}

func (i Item) Description() string {
	desc := string(i.Task.Status)
	if i.Task.TargetValue != nil {
		current := 0.0
		if i.Task.CompletionValue != nil {
			current = *i.Task.CompletionValue
		}
		desc += fmt.Sprintf(" | %g/%g %s", current, *i.Task.TargetValue, i.Task.TargetUnit)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Task.Title }

type KeyMap struct {
	Complete key.Binding
	Skip     key.Binding
	Postpone key.Binding
	Undo     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Complete: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c", "complete"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Postpone: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "postpone"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(tasks []models.TaskView, width, height int) Model {
	l := list.New(items(tasks), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // Help is rendered by the parent model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete, keys.Skip, keys.Postpone, keys.Undo}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func items(tasks []models.TaskView) []list.Item {
	out := make([]list.Item, len(tasks))
	for i, t := range tasks {
		out[i] = Item{Task: t}
	}
	return out
}

func (m *Model) SetTasks(tasks []models.TaskView) {
	m.list.SetItems(items(tasks))
}

// Selected returns the highlighted task, if any.
func (m Model) Selected() (models.TaskView, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Task, ok
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		task, selected := m.Selected()
		switch {
		case !selected:
		case key.Matches(msg, m.keys.Complete):
			return m, statusCmd(task.ID, models.StatusCompleted)
		case key.Matches(msg, m.keys.Skip):
			return m, statusCmd(task.ID, models.StatusSkipped)
		case key.Matches(msg, m.keys.Undo):
			return m, statusCmd(task.ID, models.StatusPending)
		case key.Matches(msg, m.keys.Postpone):
			id := task.ID
			return m, func() tea.Msg { return PostponeMsg{TaskID: id} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func statusCmd(id string, status models.TaskStatus) tea.Cmd {
	return func() tea.Msg { return StatusMsg{TaskID: id, Status: status} }
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Nothing due today.\n  Add a habit with 'habitual habit add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
