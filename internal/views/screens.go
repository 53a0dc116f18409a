package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	Title    string
	Priority string
	Category string
	Due      string
	Done     bool
	Selected bool
	AddMode  bool
}

type TaskSectionData struct {
	Title string
	Items []TaskItemData
}

type HomeScreenData struct {
	Sections     []TaskSectionData
	QuickAddView string
	AddMode      bool
}

type StatsScreenData struct {
	Total          int
	Completed      int
	Pending        int
	Postponed      int
	CompletedToday int
	CompletionRate int
	Histogram      []DayBarData
}

type DayBarData struct {
	Label string
	Count int
}

type SettingsScreenData struct {
	Enabled      bool
	Reminders    bool
	OverdueTasks bool
	Sound        bool
}

func RenderHomeScreen(data HomeScreenData) string {
	var b strings.Builder
	if data.AddMode {
		b.WriteString("new task: " + data.QuickAddView + "\n\n")
	}
	empty := true
	for _, section := range data.Sections {
		if len(section.Items) == 0 {
			continue
		}
		empty = false
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%s (%d)", section.Title, len(section.Items))) + "\n")
		for _, item := range section.Items {
			b.WriteString(renderTaskLine(item) + "\n")
		}
		b.WriteString("\n")
	}
	if empty && !data.AddMode {
		b.WriteString(dimStyle.Render("no tasks yet, press a to add one"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTaskLine(item TaskItemData) string {
	cursor := "  "
	if item.Selected {
		cursor = "> "
	}
	box := "[ ]"
	if item.Done {
		box = "[x]"
	}
	line := fmt.Sprintf("%s%s %s %s", cursor, box, priorityGlyph(item.Priority), item.Title)
	meta := make([]string, 0, 2)
	if item.Due != "" {
		meta = append(meta, item.Due)
	}
	if item.Category != "" {
		meta = append(meta, "@"+item.Category)
	}
	if len(meta) > 0 {
		line += "  " + dimStyle.Render(strings.Join(meta, " "))
	}
	return line
}

func priorityGlyph(priority string) string {
	switch priority {
	case "high":
		return "!!"
	case "low":
		return " ."
	default:
		return " !"
	}
}

func RenderStatsScreen(data StatsScreenData) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("statistics") + "\n")
	b.WriteString(fmt.Sprintf("total tasks:      %d\n", data.Total))
	b.WriteString(fmt.Sprintf("completed:        %d\n", data.Completed))
	b.WriteString(fmt.Sprintf("pending:          %d\n", data.Pending))
	b.WriteString(fmt.Sprintf("postponed:        %d\n", data.Postponed))
	b.WriteString(fmt.Sprintf("completed today:  %d\n", data.CompletedToday))
	b.WriteString(fmt.Sprintf("completion rate:  %d%%\n", data.CompletionRate))
	if len(data.Histogram) > 0 {
		b.WriteString("\n" + sectionStyle.Render("completed, last 7 days") + "\n")
		for _, bar := range data.Histogram {
			b.WriteString(fmt.Sprintf("%s %s %d\n", bar.Label, strings.Repeat("█", bar.Count), bar.Count))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderSettingsScreen(data SettingsScreenData) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("notification settings") + "\n")
	b.WriteString(renderToggle("e", "notifications enabled", data.Enabled))
	b.WriteString(renderToggle("r", "task reminders", data.Reminders))
	b.WriteString(renderToggle("o", "overdue alerts", data.OverdueTasks))
	b.WriteString(renderToggle("s", "sound", data.Sound))
	return strings.TrimRight(b.String(), "\n")
}

func renderToggle(keyHint, label string, on bool) string {
	state := "off"
	if on {
		state = "on "
	}
	return fmt.Sprintf("[%s] %s  %s\n", keyHint, state, label)
}
