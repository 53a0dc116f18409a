package update

import (
	"github.com/taskflow/taskflow/internal/model"
	"github.com/taskflow/taskflow/internal/views"
)

func (m Model) renderHeader() string {
	tabs := "[1] home  [2] stats  [3] settings"
	switch m.CurrentView {
	case ViewStats:
		return "taskflow · stats    " + tabs
	case ViewSettings:
		return "taskflow · settings " + tabs
	default:
		return "taskflow · home     " + tabs
	}
}

func (m Model) renderHome() string {
	groups := m.tasks.Groups()
	data := views.HomeScreenData{
		AddMode:      m.AddMode,
		QuickAddView: m.addInput.View(),
	}

	index := 0
	section := func(title string, items []model.Task) {
		sec := views.TaskSectionData{Title: title}
		for _, task := range items {
			sec.Items = append(sec.Items, views.TaskItemData{
				Title:    task.Title,
				Priority: string(task.Priority),
				Category: string(task.Category),
				Due:      dueLabel(task),
				Done:     task.Status == model.StatusCompleted,
				Selected: index == m.Cursor && !m.AddMode,
			})
			index++
		}
		data.Sections = append(data.Sections, sec)
	}
	section("overdue", groups.Overdue)
	section("today", groups.Today)
	section("upcoming", groups.Upcoming)
	section("no due date", groups.NoDate)
	section("completed", groups.Completed)

	return views.RenderHomeScreen(data)
}

func dueLabel(task model.Task) string {
	if task.DueDate == "" {
		return ""
	}
	if task.DueTime == "" {
		return task.DueDate
	}
	return task.DueDate + " " + task.DueTime
}

func (m Model) renderStats() string {
	stats := m.tasks.Stats()
	data := views.StatsScreenData{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Pending:        stats.Pending,
		Postponed:      stats.Postponed,
		CompletedToday: stats.CompletedToday,
		CompletionRate: stats.CompletionRate,
	}
	for _, day := range m.tasks.CompletedByDay(7) {
		data.Histogram = append(data.Histogram, views.DayBarData{Label: day.Date, Count: day.Count})
	}
	return views.RenderStatsScreen(data)
}

func (m Model) renderSettings() string {
	settings := m.settings.Settings()
	return views.RenderSettingsScreen(views.SettingsScreenData{
		Enabled:      settings.Enabled,
		Reminders:    settings.Reminders,
		OverdueTasks: settings.OverdueTasks,
		Sound:        settings.Sound,
	})
}
