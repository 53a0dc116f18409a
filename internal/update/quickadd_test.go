package update

import (
	"errors"
	"testing"
	"time"

	"github.com/taskflow/taskflow/internal/model"
)

func TestParseQuickAddPlainTitle(t *testing.T) {
	in, err := parseQuickAdd("Buy milk and eggs", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.Title != "Buy milk and eggs" {
		t.Fatalf("unexpected title: %q", in.Title)
	}
	if in.Priority != model.PriorityMedium || in.Category != model.CategoryPersonal {
		t.Fatalf("unexpected defaults: %s %s", in.Priority, in.Category)
	}
	if in.DueDate != "" || in.Reminder != nil {
		t.Fatalf("unexpected due/reminder: %#v", in)
	}
}

func TestParseQuickAddTokens(t *testing.T) {
	in, err := parseQuickAdd("Ship report !high @work due:2026-03-01T18:00 +r", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.Title != "Ship report" {
		t.Fatalf("unexpected title: %q", in.Title)
	}
	if in.Priority != model.PriorityHigh || in.Category != model.CategoryWork {
		t.Fatalf("tokens not applied: %s %s", in.Priority, in.Category)
	}
	if in.DueDate != "2026-03-01" || in.DueTime != "18:00" {
		t.Fatalf("due not parsed: %q %q", in.DueDate, in.DueTime)
	}
	if in.Reminder == nil || in.Reminder.Format("2006-01-02T15:04") != "2026-03-01T17:30" {
		t.Fatalf("reminder not computed 30min ahead for high: %v", in.Reminder)
	}
}

func TestParseQuickAddDateOnlyReminder(t *testing.T) {
	in, err := parseQuickAdd("Water plants !low due:2026-03-01 +r", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 09:00 morning default minus the 120 minute low lead.
	if in.Reminder == nil || in.Reminder.Format("2006-01-02T15:04") != "2026-03-01T07:00" {
		t.Fatalf("unexpected reminder: %v", in.Reminder)
	}
}

func TestParseQuickAddErrors(t *testing.T) {
	if _, err := parseQuickAdd("   ", time.UTC); !errors.Is(err, errEmptyQuickAdd) {
		t.Fatalf("expected errEmptyQuickAdd, got %v", err)
	}
	if _, err := parseQuickAdd("task !urgent", time.UTC); err == nil {
		t.Fatal("expected error for unknown priority")
	}
	if _, err := parseQuickAdd("task @chores", time.UTC); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if _, err := parseQuickAdd("task due:tomorrow", time.UTC); err == nil {
		t.Fatal("expected error for bad due date")
	}
	if _, err := parseQuickAdd("task +r", time.UTC); err == nil {
		t.Fatal("expected error for reminder without due date")
	}
}
