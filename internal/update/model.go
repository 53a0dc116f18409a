package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/taskflow/taskflow/internal/model"
	"github.com/taskflow/taskflow/internal/notify"
	"github.com/taskflow/taskflow/internal/scheduler"
	"github.com/taskflow/taskflow/internal/service"
)

type View string

const (
	ViewHome     View = "Home"
	ViewStats    View = "Stats"
	ViewSettings View = "Settings"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Home     key.Binding
	Stats    key.Binding
	Settings key.Binding
	Add      key.Binding
	Toggle   key.Binding
	Postpone key.Binding
	Delete   key.Binding
	Up       key.Binding
	Down     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Home:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
		Stats:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "stats")),
		Settings: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "settings")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Postpone: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "postpone")),
		Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp and FullHelp satisfy help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Postpone, k.Delete, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Stats, k.Settings},
		{k.Add, k.Toggle, k.Postpone, k.Delete},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

type Model struct {
	CurrentView View
	Cursor      int
	AddMode     bool
	HelpVisible bool
	Status      StatusBar
	Keys        KeyMap
	Quitting    bool

	tasks     *service.TaskService
	settings  *service.SettingsService
	checker   *notify.Checker
	scheduler *scheduler.Scheduler
	log       *zap.Logger
	loc       *time.Location

	addInput  textinput.Model
	helpModel help.Model
}

func NewModel(tasks *service.TaskService, settings *service.SettingsService, checker *notify.Checker, sched *scheduler.Scheduler, log *zap.Logger) Model {
	input := textinput.New()
	input.Placeholder = "Buy milk !high @personal due:2026-03-01T18:00 +r"
	input.CharLimit = 200
	input.Width = 56

	return Model{
		CurrentView: ViewHome,
		Keys:        defaultKeyMap(),
		tasks:       tasks,
		settings:    settings,
		checker:     checker,
		scheduler:   sched,
		log:         log,
		loc:         time.Local,
		addInput:    input,
		helpModel:   help.New(),
	}
}

// visibleTasks flattens the urgency groups into the navigable list order.
// Completed tasks always sit at the bottom.
func (m Model) visibleTasks() []model.Task {
	g := m.tasks.Groups()
	out := make([]model.Task, 0,
		len(g.Overdue)+len(g.Today)+len(g.Upcoming)+len(g.NoDate)+len(g.Completed))
	out = append(out, g.Overdue...)
	out = append(out, g.Today...)
	out = append(out, g.Upcoming...)
	out = append(out, g.NoDate...)
	out = append(out, g.Completed...)
	return out
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if n == 0 {
		m.Cursor = 0
		return
	}
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}
