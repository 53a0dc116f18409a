package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// legacyTask mirrors the JSON records the previous app version kept in its
// flat export file. Early records predate the status enum and carry a bare
// "completed" boolean; some also lack a category.
type legacyTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	DueDate     string `json:"dueDate"`
	DueTime     string `json:"dueTime"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
	Reminder    string `json:"reminder"`
	Recurring   bool   `json:"recurring"`
	CreatedAt   string `json:"createdAt"`
	CompletedAt string `json:"completedAt"`
}

// DecodeLegacyTasks parses a legacy JSON export and upgrades each record to
// the current schema: a missing status maps from the completed flag, a
// missing category defaults to "other". Records are never rejected wholesale;
// unparseable optional fields are simply dropped.
func DecodeLegacyTasks(data []byte, now time.Time) ([]Task, error) {
	var raw []legacyTask
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode legacy tasks: %w", err)
	}

	out := make([]Task, 0, len(raw))
	for _, lt := range raw {
		task := Task{
			ID:          lt.ID,
			Title:       lt.Title,
			Description: lt.Description,
			Priority:    lt.Priority,
			Category:    lt.Category,
			DueDate:     lt.DueDate,
			DueTime:     lt.DueTime,
			Status:      lt.Status,
			Recurring:   lt.Recurring,
		}
		if task.Status == "" {
			if lt.Completed {
				task.Status = "completed"
			} else {
				task.Status = "pending"
			}
		}
		if task.Category == "" {
			task.Category = "other"
		}
		if task.Priority == "" {
			task.Priority = "medium"
		}
		if at, ok := parseLegacyTime(lt.Reminder); ok {
			task.Reminder = &at
		}
		if at, ok := parseLegacyTime(lt.CreatedAt); ok {
			task.CreatedAt = at
		} else {
			task.CreatedAt = now
		}
		if at, ok := parseLegacyTime(lt.CompletedAt); ok && task.Status == "completed" {
			task.CompletedAt = &at
		}
		out = append(out, task)
	}
	return out, nil
}

// ImportLegacyFile loads a legacy export into the repository. It is a no-op
// when the file does not exist or the repository already holds tasks, so the
// migration runs at most once.
func ImportLegacyFile(ctx context.Context, repo Repository, path string, now time.Time) (int, error) {
	if path == "" {
		return 0, nil
	}
	count, err := repo.CountTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read legacy export: %w", err)
	}

	tasks, err := DecodeLegacyTasks(data, now)
	if err != nil {
		return 0, err
	}
	imported := 0
	for _, task := range tasks {
		if task.ID == "" || task.Title == "" {
			continue
		}
		if err := repo.CreateTask(ctx, task); err != nil {
			return imported, fmt.Errorf("import legacy task %s: %w", task.ID, err)
		}
		imported++
	}
	return imported, nil
}

func parseLegacyTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04"} {
		if at, err := time.Parse(layout, raw); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}
