package update

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/taskflow/taskflow/internal/model"
	"github.com/taskflow/taskflow/internal/service"
	"github.com/taskflow/taskflow/internal/views"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tickMsg:
		m.clampCursor()
		return m, tickCmd()

	case tea.FocusMsg:
		// Returning to the foreground triggers an immediate check pass, the
		// same one the poll timer runs.
		m.scheduler.Resume()
		return m, nil

	case tea.KeyMsg:
		if m.AddMode {
			return m.handleAddKey(typed)
		}
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.Home):
		m.CurrentView = ViewHome
		return m, nil
	case key.Matches(msg, m.Keys.Stats):
		m.CurrentView = ViewStats
		return m, nil
	case key.Matches(msg, m.Keys.Settings):
		m.CurrentView = ViewSettings
		return m, nil
	}

	if m.CurrentView == ViewSettings {
		return m.handleSettingsKey(msg)
	}
	if m.CurrentView != ViewHome {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Add):
		m.AddMode = true
		m.addInput.SetValue("")
		m.addInput.Focus()
		m.Status = StatusBar{Text: "add task: title [!prio] [@cat] [due:2006-01-02T15:04] [+r]"}
		return m, nil
	case key.Matches(msg, m.Keys.Up):
		m.Cursor--
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.Keys.Down):
		m.Cursor++
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.Keys.Toggle):
		return m.toggleSelected()
	case key.Matches(msg, m.Keys.Postpone):
		return m.postponeSelected()
	case key.Matches(msg, m.Keys.Delete):
		return m.deleteSelected()
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.AddMode = false
		m.addInput.Blur()
		m.Status = StatusBar{}
		return m, nil
	case "enter":
		in, err := parseQuickAdd(m.addInput.Value(), m.loc)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		task, err := m.tasks.Create(context.Background(), in)
		if err != nil {
			m.Status = StatusBar{Text: fmt.Sprintf("create failed: %v", err), IsError: true}
			return m, nil
		}
		m.AddMode = false
		m.addInput.Blur()
		m.Cursor = 0
		m.Status = StatusBar{Text: fmt.Sprintf("added %q", task.Title)}
		return m, nil
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := m.settings.Settings()
	var patch service.SettingsPatch
	switch msg.String() {
	case "e":
		v := !current.Enabled
		patch.Enabled = &v
	case "r":
		v := !current.Reminders
		patch.Reminders = &v
	case "o":
		v := !current.OverdueTasks
		patch.OverdueTasks = &v
	case "s":
		v := !current.Sound
		patch.Sound = &v
	default:
		return m, nil
	}
	if _, err := m.settings.Update(context.Background(), patch); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("save settings failed: %v", err), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: "settings saved"}
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	toggled, err := m.tasks.Toggle(context.Background(), task.ID)
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("toggle failed: %v", err), IsError: true}
		return m, nil
	}
	// A user action on the task resets its notification eligibility.
	m.checker.ClearNotified(task.ID)
	if toggled.Status == model.StatusCompleted {
		m.Status = StatusBar{Text: fmt.Sprintf("completed %q", toggled.Title)}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("reopened %q", toggled.Title)}
	}
	m.clampCursor()
	return m, nil
}

func (m Model) postponeSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	if err := m.tasks.Postpone(context.Background(), task.ID); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("postpone failed: %v", err), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("postponed %q", task.Title)}
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	if err := m.tasks.Delete(context.Background(), task.ID); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("delete failed: %v", err), IsError: true}
		return m, nil
	}
	m.checker.ClearNotified(task.ID)
	m.log.Info("task deleted", zap.String("task_id", task.ID))
	m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", task.Title)}
	m.clampCursor()
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var body string
	switch {
	case m.HelpVisible:
		body = views.RenderMarkdown(helpMarkdown)
	case m.CurrentView == ViewStats:
		body = m.renderStats()
	case m.CurrentView == ViewSettings:
		body = m.renderSettings()
	default:
		body = m.renderHome()
	}

	return views.RenderApp(views.AppData{
		Header:     m.renderHeader(),
		Body:       body,
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Footer:     m.helpModel.View(m.Keys),
	})
}
