package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskflow/taskflow/internal/model"
	"github.com/taskflow/taskflow/internal/notify"
)

var ErrIntervalExceedsWindow = errors.New("scheduler: poll interval exceeds firing window")

// Scheduler drives the notification check passes. Two triggers invoke the
// same pass: a fixed cron interval and Resume, called by the host when the
// app returns to the foreground. Passes are idempotent — de-duplication lives
// in the checker's persisted state, not in mutual exclusion here — so
// overlapping triggers are safe.
type Scheduler struct {
	cron     *cron.Cron
	checker  *notify.Checker
	tasks    func() []model.Task
	settings func() model.Settings
	interval time.Duration
	log      *zap.Logger
}

// New validates the correctness precondition pollInterval ≤ firingWindow: a
// longer interval would let threshold crossings slip between two polls.
func New(checker *notify.Checker, tasks func() []model.Task, settings func() model.Settings, interval time.Duration, log *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("scheduler: interval must be positive")
	}
	if interval > checker.Window() {
		return nil, fmt.Errorf("%w: interval %s, window %s", ErrIntervalExceedsWindow, interval, checker.Window())
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		checker:  checker,
		tasks:    tasks,
		settings: settings,
		interval: interval,
		log:      log,
	}, nil
}

// Start runs one immediate pass, then polls on the configured interval.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %ds", int(s.interval.Seconds()))
	if _, err := s.cron.AddFunc(spec, s.RunNow); err != nil {
		return fmt.Errorf("schedule poll: %w", err)
	}
	s.RunNow()
	s.cron.Start()
	s.log.Info("notification scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts future polls and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunNow executes a single check pass over the current task list and
// settings. Reminder and overdue checks are independent; each eligible task
// is considered once per pass.
func (s *Scheduler) RunNow() {
	tasks := s.tasks()
	settings := s.settings()
	s.checker.CheckReminders(tasks, settings)
	s.checker.CheckOverdue(tasks, settings)
}

// Resume is the foreground/visibility trigger. It shares RunNow so a resume
// racing the timer cannot double-fire.
func (s *Scheduler) Resume() {
	s.RunNow()
}
