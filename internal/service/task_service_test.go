package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/taskflow/internal/model"
	"github.com/taskflow/taskflow/internal/storage"
)

func setupRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "service-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := storage.MigrateUp(repo.DB()); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	return repo
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T, c *clock) (*TaskService, *storage.SQLiteRepository) {
	t.Helper()
	repo := setupRepo(t)
	seq := 0
	svc := NewTaskService(repo, zap.NewNop(), Config{
		Location: time.UTC,
		Now:      c.Now,
		NewID: func() string {
			seq++
			return fmt.Sprintf("task-%d", seq)
		},
	})
	svc.Load(context.Background())
	return svc, repo
}

func TestCreatePrependsAndPersists(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, repo := newTestService(t, c)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Title: "First", Priority: model.PriorityLow, Category: model.CategoryOther})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	c.now = c.now.Add(time.Minute)
	second, err := svc.Create(ctx, CreateInput{Title: "Second", Priority: model.PriorityHigh, Category: model.CategoryWork})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	tasks := svc.Tasks()
	if len(tasks) != 2 || tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("expected most-recent-first order, got %#v", tasks)
	}
	if tasks[0].Status != model.StatusPending || tasks[0].CreatedAt.IsZero() {
		t.Fatalf("unexpected new task state: %#v", tasks[0])
	}

	if _, err := repo.GetTask(ctx, first.ID); err != nil {
		t.Fatalf("task not persisted: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Title: "   ", Priority: model.PriorityLow, Category: model.CategoryOther}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestCreateDropsOrphanDueTime(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, c)

	task, err := svc.Create(context.Background(), CreateInput{
		Title:    "No date",
		Priority: model.PriorityMedium,
		Category: model.CategoryPersonal,
		DueTime:  "18:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.DueTime != "" {
		t.Fatalf("due time without due date must be dropped, got %q", task.DueTime)
	}
}

func TestToggleIdempotenceForNonRecurring(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, c)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Title: "Plain", Priority: model.PriorityMedium, Category: model.CategoryWork})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	c.now = c.now.Add(time.Hour)
	done, err := svc.Toggle(ctx, created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if done.Status != model.StatusCompleted || done.CompletedAt == nil || !done.CompletedAt.Equal(c.now) {
		t.Fatalf("unexpected completed state: %#v", done)
	}

	undone, err := svc.Toggle(ctx, created.ID)
	if err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	if undone.Status != created.Status || undone.CompletedAt != nil {
		t.Fatalf("double toggle must restore original fields: %#v", undone)
	}
	if len(svc.Tasks()) != 1 {
		t.Fatalf("non-recurring toggle must not add tasks, got %d", len(svc.Tasks()))
	}
}

func TestToggleSpawnsExactlyOneSuccessor(t *testing.T) {
	c := &clock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	svc, repo := newTestService(t, c)
	ctx := context.Background()

	reminder := time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)
	orig, err := svc.Create(ctx, CreateInput{
		Title:     "Morning run",
		Priority:  model.PriorityHigh,
		Category:  model.CategoryHealth,
		DueDate:   "2024-01-01",
		DueTime:   "09:00",
		Reminder:  &reminder,
		Recurring: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	c.now = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	if _, err := svc.Toggle(ctx, orig.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	tasks := svc.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected original plus one successor, got %d", len(tasks))
	}
	successor := tasks[0]
	if successor.ID == orig.ID {
		t.Fatal("successor must be a new entity")
	}
	if successor.DueDate != "2024-01-02" || successor.DueTime != "09:00" || successor.Status != model.StatusPending {
		t.Fatalf("unexpected successor: %#v", successor)
	}
	if successor.Reminder == nil || successor.Reminder.Format("2006-01-02T15:04") != "2024-01-02T08:30" {
		t.Fatalf("unexpected successor reminder: %v", successor.Reminder)
	}
	if tasks[1].Status != model.StatusCompleted {
		t.Fatalf("original must stay completed: %#v", tasks[1])
	}

	if _, err := repo.GetTask(ctx, successor.ID); err != nil {
		t.Fatalf("successor not persisted: %v", err)
	}

	// Un-toggling does not retract the successor.
	if _, err := svc.Toggle(ctx, orig.ID); err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	if len(svc.Tasks()) != 2 {
		t.Fatalf("untoggle must not remove the successor, got %d tasks", len(svc.Tasks()))
	}
}

func TestToggleRecurringWithoutDueDateSpawnsNothing(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, c)
	ctx := context.Background()

	orig, err := svc.Create(ctx, CreateInput{
		Title:     "Undated habit",
		Priority:  model.PriorityLow,
		Category:  model.CategoryPersonal,
		Recurring: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Toggle(ctx, orig.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(svc.Tasks()) != 1 {
		t.Fatalf("recurring without due date must not spawn, got %d", len(svc.Tasks()))
	}
}

func TestPostponeAndDelete(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, c)
	ctx := context.Background()

	task, err := svc.Create(ctx, CreateInput{Title: "Maybe later", Priority: model.PriorityLow, Category: model.CategoryOther})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Postpone(ctx, task.ID); err != nil {
		t.Fatalf("postpone: %v", err)
	}
	if got := svc.Tasks()[0]; got.Status != model.StatusPostponed {
		t.Fatalf("expected postponed status, got %s", got.Status)
	}

	if err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(svc.Tasks()) != 0 {
		t.Fatal("delete must remove the task")
	}
	if err := svc.Delete(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := svc.Toggle(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on toggle, got %v", err)
	}
}

func TestUpdateShallowMergeKeepsReminder(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, c)
	ctx := context.Background()

	reminder := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	task, err := svc.Create(ctx, CreateInput{
		Title:    "Edit me",
		Priority: model.PriorityMedium,
		Category: model.CategoryWork,
		DueDate:  "2026-02-10",
		DueTime:  "09:00",
		Reminder: &reminder,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The store never recomputes the reminder on edit, even when the due
	// date changes; that is the editor's job.
	newDate := "2026-02-15"
	newPriority := model.PriorityHigh
	updated, err := svc.Update(ctx, task.ID, UpdatePatch{DueDate: &newDate, Priority: &newPriority})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DueDate != newDate || updated.Priority != newPriority {
		t.Fatalf("patch not applied: %#v", updated)
	}
	if updated.Title != "Edit me" || updated.DueTime != "09:00" {
		t.Fatalf("unpatched fields must survive: %#v", updated)
	}
	if updated.Reminder == nil || !updated.Reminder.Equal(reminder) {
		t.Fatalf("reminder must not be recomputed implicitly: %v", updated.Reminder)
	}

	supplied := time.Date(2026, 2, 15, 8, 30, 0, 0, time.UTC)
	updated, err = svc.Update(ctx, task.ID, UpdatePatch{Reminder: &supplied})
	if err != nil {
		t.Fatalf("update reminder: %v", err)
	}
	if updated.Reminder == nil || !updated.Reminder.Equal(supplied) {
		t.Fatalf("supplied reminder not stored: %v", updated.Reminder)
	}

	updated, err = svc.Update(ctx, task.ID, UpdatePatch{ClearReminder: true})
	if err != nil {
		t.Fatalf("clear reminder: %v", err)
	}
	if updated.Reminder != nil {
		t.Fatalf("reminder not cleared: %v", updated.Reminder)
	}
}

func TestStatsCountsAndCompletedToday(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, c)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three", "four"} {
		if _, err := svc.Create(ctx, CreateInput{Title: title, Priority: model.PriorityMedium, Category: model.CategoryOther}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	tasks := svc.Tasks()

	// Complete one today and one yesterday; postpone another.
	if _, err := svc.Toggle(ctx, tasks[0].ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	c.now = c.now.AddDate(0, 0, -1)
	if _, err := svc.Toggle(ctx, tasks[1].ID); err != nil {
		t.Fatalf("toggle yesterday: %v", err)
	}
	c.now = time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC)
	if err := svc.Postpone(ctx, tasks[2].ID); err != nil {
		t.Fatalf("postpone: %v", err)
	}

	stats := svc.Stats()
	want := Stats{Total: 4, Completed: 2, Pending: 1, Postponed: 1, CompletedToday: 1, CompletionRate: 50}
	if stats != want {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	week := svc.CompletedByDay(7)
	if len(week) != 7 {
		t.Fatalf("expected 7 day counts, got %d", len(week))
	}
	if week[6].Count != 1 || week[5].Count != 1 {
		t.Fatalf("unexpected histogram tail: %#v", week[5:])
	}
}

func TestGroupsBucketAndSort(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, _ := newTestService(t, c)
	ctx := context.Background()

	mk := func(title, due string, p model.Priority) model.Task {
		task, err := svc.Create(ctx, CreateInput{Title: title, Priority: p, Category: model.CategoryWork, DueDate: due})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		return task
	}
	mk("overdue-low", "2026-02-07", model.PriorityLow)
	mk("overdue-high", "2026-02-08", model.PriorityHigh)
	mk("today", "2026-02-09", model.PriorityMedium)
	mk("upcoming", "2026-02-11", model.PriorityMedium)
	floating := mk("floating", "", model.PriorityHigh)
	doneTask := mk("done", "2026-02-09", model.PriorityLow)
	if _, err := svc.Toggle(ctx, doneTask.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	g := svc.Groups()
	if len(g.Overdue) != 2 || g.Overdue[0].Title != "overdue-high" {
		t.Fatalf("unexpected overdue group: %#v", g.Overdue)
	}
	if len(g.Today) != 1 || g.Today[0].Title != "today" {
		t.Fatalf("unexpected today group: %#v", g.Today)
	}
	if len(g.Upcoming) != 1 || len(g.NoDate) != 1 || g.NoDate[0].ID != floating.ID {
		t.Fatalf("unexpected upcoming/no-date groups: %#v %#v", g.Upcoming, g.NoDate)
	}
	if len(g.Completed) != 1 || g.Completed[0].ID != doneTask.ID {
		t.Fatalf("unexpected completed group: %#v", g.Completed)
	}
}

func TestLoadFallsBackToEmptyOnReadFailure(t *testing.T) {
	repo := setupRepo(t)
	svc := NewTaskService(repo, zap.NewNop(), Config{Location: time.UTC})

	if _, err := svc.Create(context.Background(), CreateInput{Title: "preexisting", Priority: model.PriorityLow, Category: model.CategoryOther}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_ = repo.Close()
	svc.Load(context.Background())
	if len(svc.Tasks()) != 0 {
		t.Fatal("read failure must degrade to an empty collection")
	}
}

func TestLoadRoundTripsCollection(t *testing.T) {
	c := &clock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	svc, repo := newTestService(t, c)
	ctx := context.Background()

	reminder := time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)
	created, err := svc.Create(ctx, CreateInput{
		Title:       "Round trip",
		Description: "field for field",
		Priority:    model.PriorityHigh,
		Category:    model.CategoryLearning,
		DueDate:     "2026-02-10",
		DueTime:     "09:00",
		Reminder:    &reminder,
		Recurring:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fresh := NewTaskService(repo, zap.NewNop(), Config{Location: time.UTC})
	fresh.Load(ctx)
	tasks := fresh.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task after reload, got %d", len(tasks))
	}
	got := tasks[0]
	if got.ID != created.ID || got.Title != created.Title || got.Description != created.Description ||
		got.Priority != created.Priority || got.Category != created.Category ||
		got.DueDate != created.DueDate || got.DueTime != created.DueTime ||
		got.Recurring != created.Recurring || got.Status != created.Status {
		t.Fatalf("collection did not round-trip: %#v vs %#v", got, created)
	}
	if got.Reminder == nil || !got.Reminder.Equal(reminder) || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("timestamps did not round-trip: %#v", got)
	}
}
