package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotRecurring = errors.New("model: task is not eligible for recurrence")

// NextOccurrence synthesizes the successor of a recurring task at the moment
// it is completed. The successor is a distinct entity: the caller assigns it a
// fresh ID. The due date advances by one calendar day (AddDate, so the clock
// time survives DST transitions), the due time carries over, and the reminder
// is recomputed from the new date only when the original had one.
func NextOccurrence(t Task, now time.Time, loc *time.Location) (Task, error) {
	if !t.Recurring || t.DueDate == "" {
		return Task{}, ErrNotRecurring
	}
	day, err := time.ParseInLocation(DateLayout, t.DueDate, loc)
	if err != nil {
		return Task{}, fmt.Errorf("model: invalid due date %q: %w", t.DueDate, err)
	}
	nextDate := day.AddDate(0, 0, 1).Format(DateLayout)

	next := Task{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     nextDate,
		DueTime:     t.DueTime,
		Status:      StatusPending,
		Recurring:   true,
		CreatedAt:   now,
	}
	if t.Reminder != nil {
		reminder, err := ComputeReminder(nextDate, t.DueTime, t.Priority, loc)
		if err != nil {
			return Task{}, err
		}
		next.Reminder = &reminder
	}
	return next, nil
}
