package storage

import "time"

// Task is the persisted row shape; the domain model lives in internal/model.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    string
	Category    string
	DueDate     string
	DueTime     string
	Status      string
	Reminder    *time.Time
	Recurring   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Settings is the single-row notification settings record.
type Settings struct {
	Enabled      bool
	Reminders    bool
	OverdueTasks bool
	Sound        bool
}

type TaskListFilter struct {
	Status string
	Limit  int
	Offset int
}
