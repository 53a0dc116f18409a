package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoDueDate = errors.New("model: reminder requires a due date")

// reminderDefaultHour is the assumed time of day for tasks due on a date with
// no explicit time. Distinct from the end-of-day fallback used for overdue
// detection: a reminder for an untimed task should land in the morning.
const reminderDefaultHour = 9

// ReminderLead returns how far ahead of the due instant a reminder fires for
// the given priority.
func ReminderLead(p Priority) time.Duration {
	switch p {
	case PriorityHigh:
		return 30 * time.Minute
	case PriorityMedium:
		return 60 * time.Minute
	default:
		return 120 * time.Minute
	}
}

// ComputeReminder derives a reminder instant from a due date, an optional due
// time and the task priority. The due instant is dueDate at dueTime, or 09:00
// local when dueTime is empty; the priority lead is subtracted and the result
// truncated to the minute so it can be stored directly as Task.Reminder.
func ComputeReminder(dueDate, dueTime string, p Priority, loc *time.Location) (time.Time, error) {
	if dueDate == "" {
		return time.Time{}, ErrNoDueDate
	}
	day, err := time.ParseInLocation(DateLayout, dueDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("model: invalid due date %q: %w", dueDate, err)
	}

	hour, minute := reminderDefaultHour, 0
	if dueTime != "" {
		clock, err := time.Parse(ClockLayout, dueTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("model: invalid due time %q: %w", dueTime, err)
		}
		hour, minute = clock.Hour(), clock.Minute()
	}

	due := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return due.Add(-ReminderLead(p)).Truncate(time.Minute), nil
}
