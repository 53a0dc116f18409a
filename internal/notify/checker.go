package notify

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/taskflow/internal/model"
)

const (
	// DefaultWindow is the tolerance after a threshold crossing during which
	// a poll may still fire the alert. Polls must run at least this often or
	// crossings slip through unseen.
	DefaultWindow = time.Minute
	// DefaultOverdueDelay is how long past the due instant a task must be
	// before the overdue alert fires.
	DefaultOverdueDelay = 30 * time.Minute
)

// Checker runs the per-poll threshold checks. A task fires at most once per
// alert kind: the StateStore records crossings durably, so repeated passes,
// overlapping triggers and process restarts never duplicate a notification.
type Checker struct {
	state        *StateStore
	sender       Notifier
	log          *zap.Logger
	window       time.Duration
	overdueDelay time.Duration
	loc          *time.Location
	now          func() time.Time
}

type CheckerConfig struct {
	Window       time.Duration
	OverdueDelay time.Duration
	Location     *time.Location
	Now          func() time.Time // test hook
}

func NewChecker(state *StateStore, sender Notifier, log *zap.Logger, cfg CheckerConfig) *Checker {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.OverdueDelay <= 0 {
		cfg.OverdueDelay = DefaultOverdueDelay
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Checker{
		state:        state,
		sender:       sender,
		log:          log,
		window:       cfg.Window,
		overdueDelay: cfg.OverdueDelay,
		loc:          cfg.Location,
		now:          cfg.Now,
	}
}

// Window returns the firing window, for the scheduler's interval invariant.
func (c *Checker) Window() time.Duration {
	return c.window
}

// CheckReminders fires a reminder notification for every pending task whose
// reminder instant was crossed within the current window and that has not
// been notified yet.
func (c *Checker) CheckReminders(tasks []model.Task, settings model.Settings) {
	if !settings.RemindersActive() {
		return
	}
	now := c.now()
	for _, task := range tasks {
		if task.Status != model.StatusPending || task.Reminder == nil {
			continue
		}
		elapsed := now.Sub(*task.Reminder)
		if elapsed < 0 || elapsed >= c.window {
			continue
		}
		if c.state.ReminderNotified(task.ID) {
			continue
		}
		body := task.Description
		if body == "" {
			body = "It's time to work on this task."
		}
		c.fire(Payload{
			Title:  "Reminder: " + task.Title,
			Body:   body,
			Tag:    "reminder-" + task.ID,
			TaskID: task.ID,
			Kind:   KindReminder,
			Sound:  settings.Sound,
		}, c.state.MarkReminder)
	}
}

// CheckOverdue fires an overdue notification for every pending task whose due
// instant (end of day when no time is set) passed overdueDelay ago within the
// current window.
func (c *Checker) CheckOverdue(tasks []model.Task, settings model.Settings) {
	if !settings.OverdueActive() {
		return
	}
	now := c.now()
	for _, task := range tasks {
		if task.Status != model.StatusPending {
			continue
		}
		due, ok := task.DueBy(c.loc)
		if !ok {
			continue
		}
		elapsed := now.Sub(due)
		if elapsed < c.overdueDelay || elapsed >= c.overdueDelay+c.window {
			continue
		}
		if c.state.OverdueNotified(task.ID) {
			continue
		}
		minutes := int(elapsed.Round(time.Minute) / time.Minute)
		c.fire(Payload{
			Title:  "Overdue: " + task.Title,
			Body:   fmt.Sprintf("This task was due %d minutes ago.", minutes),
			Tag:    "overdue-" + task.ID,
			TaskID: task.ID,
			Kind:   KindOverdue,
			Sound:  settings.Sound,
		}, c.state.MarkOverdue)
	}
}

// ClearNotified makes the task eligible for fresh notifications of both
// kinds. The host calls this after every user toggle or delete.
func (c *Checker) ClearNotified(taskID string) {
	if err := c.state.Clear(taskID); err != nil {
		c.log.Warn("clear notified state", zap.String("task_id", taskID), zap.Error(err))
	}
}

// fire delivers then marks. A failed delivery is logged and NOT marked, so
// the task stays eligible for the remainder of the window.
func (c *Checker) fire(p Payload, mark func(string) error) {
	if err := c.sender.Send(p); err != nil {
		c.log.Warn("notification delivery failed",
			zap.String("kind", string(p.Kind)), zap.String("task_id", p.TaskID), zap.Error(err))
		return
	}
	if err := mark(p.TaskID); err != nil {
		c.log.Warn("persist notified state",
			zap.String("kind", string(p.Kind)), zap.String("task_id", p.TaskID), zap.Error(err))
	}
}
