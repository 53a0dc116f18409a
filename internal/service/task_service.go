package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskflow/taskflow/internal/model"
	"github.com/taskflow/taskflow/internal/storage"
)

var (
	ErrTaskNotFound = errors.New("service: task not found")
	ErrEmptyTitle   = errors.New("service: task title is required")
)

// TaskService owns the authoritative in-memory task collection, newest first,
// and mirrors every mutation into the repository. All mutations are
// mutex-serialized: the TUI goroutine and the cron poll goroutine both reach
// into this state.
type TaskService struct {
	mu    sync.Mutex
	repo  storage.Repository
	log   *zap.Logger
	loc   *time.Location
	now   func() time.Time
	newID func() string
	tasks []model.Task
}

type Config struct {
	Location *time.Location
	Now      func() time.Time // test hook
	NewID    func() string    // test hook
}

func NewTaskService(repo storage.Repository, log *zap.Logger, cfg Config) *TaskService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &TaskService{
		repo:  repo,
		log:   log,
		loc:   cfg.Location,
		now:   cfg.Now,
		newID: cfg.NewID,
	}
}

// Load populates the collection from storage. A read failure degrades to an
// empty collection: corrupt or missing state is never fatal.
func (s *TaskService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		s.log.Warn("load tasks, starting empty", zap.Error(err))
		s.tasks = nil
		return
	}
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, fromRow(row))
	}
	s.tasks = tasks
}

// Tasks returns a snapshot of the collection, most recently created first.
func (s *TaskService) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

type CreateInput struct {
	Title       string
	Description string
	Priority    model.Priority
	Category    model.Category
	DueDate     string
	DueTime     string
	Reminder    *time.Time
	Recurring   bool
}

func (s *TaskService) Create(ctx context.Context, in CreateInput) (model.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Task{}, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := model.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Category:    in.Category,
		DueDate:     in.DueDate,
		DueTime:     in.DueTime,
		Status:      model.StatusPending,
		Reminder:    in.Reminder,
		Recurring:   in.Recurring,
		CreatedAt:   s.now(),
	}
	task.Normalize()
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.repo.CreateTask(ctx, toRow(task)); err != nil {
		return model.Task{}, fmt.Errorf("persist task: %w", err)
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	return task, nil
}

// Toggle flips a task between completed and not. Completing a recurring task
// with a due date spawns exactly one successor per completion event; toggling
// back off never retracts a spawned successor, it is an independent entity.
func (s *TaskService) Toggle(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	task := s.tasks[idx]

	if task.Status == model.StatusCompleted {
		task.Status = model.StatusPending
		task.CompletedAt = nil
		if err := s.repo.UpdateTask(ctx, toRow(task)); err != nil {
			return model.Task{}, fmt.Errorf("persist toggle: %w", err)
		}
		s.tasks[idx] = task
		return task, nil
	}

	completedAt := s.now()
	task.Status = model.StatusCompleted
	task.CompletedAt = &completedAt
	if err := s.repo.UpdateTask(ctx, toRow(task)); err != nil {
		return model.Task{}, fmt.Errorf("persist toggle: %w", err)
	}
	s.tasks[idx] = task

	if task.Recurring && task.HasDueDate() {
		next, err := model.NextOccurrence(task, s.now(), s.loc)
		if err != nil {
			s.log.Warn("spawn successor", zap.String("task_id", task.ID), zap.Error(err))
			return task, nil
		}
		next.ID = s.newID()
		if err := s.repo.CreateTask(ctx, toRow(next)); err != nil {
			s.log.Warn("persist successor", zap.String("task_id", next.ID), zap.Error(err))
			return task, nil
		}
		s.tasks = append([]model.Task{next}, s.tasks...)
	}
	return task, nil
}

// Postpone moves a task into the soft-deferred bucket. No way back is
// offered; a postponed task stays visible but is ignored by notifications.
func (s *TaskService) Postpone(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	task := s.tasks[idx]
	task.Status = model.StatusPostponed
	task.CompletedAt = nil
	if err := s.repo.UpdateTask(ctx, toRow(task)); err != nil {
		return fmt.Errorf("persist postpone: %w", err)
	}
	s.tasks[idx] = task
	return nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("persist delete: %w", err)
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return nil
}

// UpdatePatch carries the fields to shallow-merge into a task. The reminder
// is never recomputed here: the editing surface supplies any recalculated
// value explicitly, or ClearReminder to drop it.
type UpdatePatch struct {
	Title         *string
	Description   *string
	Priority      *model.Priority
	Category      *model.Category
	DueDate       *string
	DueTime       *string
	Reminder      *time.Time
	ClearReminder bool
	Recurring     *bool
}

func (s *TaskService) Update(ctx context.Context, id string, patch UpdatePatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	task := s.tasks[idx]

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.DueTime != nil {
		task.DueTime = *patch.DueTime
	}
	if patch.ClearReminder {
		task.Reminder = nil
	} else if patch.Reminder != nil {
		task.Reminder = patch.Reminder
	}
	if patch.Recurring != nil {
		task.Recurring = *patch.Recurring
	}
	task.Normalize()
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.repo.UpdateTask(ctx, toRow(task)); err != nil {
		return model.Task{}, fmt.Errorf("persist update: %w", err)
	}
	s.tasks[idx] = task
	return task, nil
}

type Stats struct {
	Total          int
	Completed      int
	Pending        int
	Postponed      int
	CompletedToday int
	CompletionRate int // percent, 0 when no tasks
}

func (s *TaskService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().In(s.loc).Format(model.DateLayout)
	var out Stats
	out.Total = len(s.tasks)
	for _, task := range s.tasks {
		switch task.Status {
		case model.StatusCompleted:
			out.Completed++
			if task.CompletedAt != nil && task.CompletedAt.In(s.loc).Format(model.DateLayout) == today {
				out.CompletedToday++
			}
		case model.StatusPending:
			out.Pending++
		case model.StatusPostponed:
			out.Postponed++
		}
	}
	if out.Total > 0 {
		out.CompletionRate = int(float64(out.Completed)/float64(out.Total)*100 + 0.5)
	}
	return out
}

type DayCount struct {
	Date  string
	Count int
}

// CompletedByDay returns completion counts for the last `days` local calendar
// days, oldest first. Feeds the weekly progress chart.
func (s *TaskService) CompletedByDay(days int) []DayCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	out := make([]DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(model.DateLayout)
		count := 0
		for _, task := range s.tasks {
			if task.Status != model.StatusCompleted || task.CompletedAt == nil {
				continue
			}
			if task.CompletedAt.In(s.loc).Format(model.DateLayout) == day {
				count++
			}
		}
		out = append(out, DayCount{Date: day, Count: count})
	}
	return out
}

// Groups buckets tasks by urgency for display: non-completed tasks split by
// due date relative to today, each sorted priority first then due date;
// completed tasks sorted by completion time, newest first.
type Groups struct {
	Overdue   []model.Task
	Today     []model.Task
	Upcoming  []model.Task
	NoDate    []model.Task
	Completed []model.Task
}

func (s *TaskService) Groups() Groups {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().In(s.loc).Format(model.DateLayout)
	var g Groups
	for _, task := range s.tasks {
		switch {
		case task.Status == model.StatusCompleted:
			g.Completed = append(g.Completed, task)
		case !task.HasDueDate():
			g.NoDate = append(g.NoDate, task)
		case task.DueDate < today:
			g.Overdue = append(g.Overdue, task)
		case task.DueDate == today:
			g.Today = append(g.Today, task)
		default:
			g.Upcoming = append(g.Upcoming, task)
		}
	}

	byUrgency := func(tasks []model.Task) {
		sort.SliceStable(tasks, func(i, j int) bool {
			if tasks[i].Priority.Rank() != tasks[j].Priority.Rank() {
				return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
			}
			return tasks[i].DueDate < tasks[j].DueDate
		})
	}
	byUrgency(g.Overdue)
	byUrgency(g.Today)
	byUrgency(g.Upcoming)
	byUrgency(g.NoDate)

	sort.SliceStable(g.Completed, func(i, j int) bool {
		return completionInstant(g.Completed[i]).After(completionInstant(g.Completed[j]))
	})
	return g
}

func completionInstant(t model.Task) time.Time {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}
	return t.CreatedAt
}

func (s *TaskService) indexOf(id string) int {
	for i, task := range s.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func toRow(t model.Task) storage.Task {
	return storage.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		DueDate:     t.DueDate,
		DueTime:     t.DueTime,
		Status:      string(t.Status),
		Reminder:    t.Reminder,
		Recurring:   t.Recurring,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func fromRow(row storage.Task) model.Task {
	return model.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Priority:    model.Priority(row.Priority),
		Category:    model.Category(row.Category),
		DueDate:     row.DueDate,
		DueTime:     row.DueTime,
		Status:      model.Status(row.Status),
		Reminder:    row.Reminder,
		Recurring:   row.Recurring,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
}
