package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidCategory = errors.New("model: invalid task category")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusPostponed Status = "postponed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusPostponed:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for display: high sorts before medium before low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryOther    Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryOther:
		return true
	default:
		return false
	}
}

const (
	// DateLayout is the wire and storage form of DueDate.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire and storage form of DueTime.
	ClockLayout = "15:04"
)

type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Category    Category
	DueDate     string // calendar date, DateLayout; empty means no due date
	DueTime     string // time of day, ClockLayout; meaningful only with DueDate
	Status      Status
	Reminder    *time.Time
	Recurring   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if t.DueDate != "" {
		if _, err := time.Parse(DateLayout, t.DueDate); err != nil {
			return fmt.Errorf("model: invalid due date %q: %w", t.DueDate, err)
		}
	}
	if t.DueTime != "" {
		if _, err := time.Parse(ClockLayout, t.DueTime); err != nil {
			return fmt.Errorf("model: invalid due time %q: %w", t.DueTime, err)
		}
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task status is completed")
	}
	if t.Status != StatusCompleted && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task status is not completed")
	}
	return nil
}

// Normalize drops a DueTime that has no DueDate to pair with.
func (t *Task) Normalize() {
	if t.DueDate == "" {
		t.DueTime = ""
	}
}

// HasDueDate reports whether the task carries a usable due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != ""
}

// DueBy resolves the instant the task must be done by: DueDate at DueTime, or
// end of day (23:59:59) when no time is given. The second return is false when
// the task has no due date or the stored strings do not parse.
func (t Task) DueBy(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(DateLayout, t.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	if t.DueTime == "" {
		return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc), true
	}
	clock, err := time.Parse(ClockLayout, t.DueTime)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), true
}
