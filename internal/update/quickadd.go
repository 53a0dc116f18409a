package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow/taskflow/internal/model"
	"github.com/taskflow/taskflow/internal/service"
)

var errEmptyQuickAdd = errors.New("update: nothing to add")

// parseQuickAdd turns a quick-add line into a create request. Plain words
// form the title; tokens starting with "!" set priority, "@" category,
// "due:" the due date (optionally dateTtime), and "+r" computes a reminder
// from the due date and priority the same way the edit form would.
func parseQuickAdd(raw string, loc *time.Location) (service.CreateInput, error) {
	in := service.CreateInput{
		Priority: model.PriorityMedium,
		Category: model.CategoryPersonal,
	}
	autoRemind := false
	words := make([]string, 0, 8)

	for _, token := range strings.Fields(raw) {
		switch {
		case strings.HasPrefix(token, "!"):
			p := model.Priority(strings.ToLower(token[1:]))
			if !p.IsValid() {
				return service.CreateInput{}, fmt.Errorf("update: unknown priority %q", token[1:])
			}
			in.Priority = p
		case strings.HasPrefix(token, "@"):
			c := model.Category(strings.ToLower(token[1:]))
			if !c.IsValid() {
				return service.CreateInput{}, fmt.Errorf("update: unknown category %q", token[1:])
			}
			in.Category = c
		case strings.HasPrefix(token, "due:"):
			date, clock, err := parseDueToken(token[len("due:"):])
			if err != nil {
				return service.CreateInput{}, err
			}
			in.DueDate, in.DueTime = date, clock
		case token == "+r":
			autoRemind = true
		default:
			words = append(words, token)
		}
	}

	in.Title = strings.Join(words, " ")
	if in.Title == "" {
		return service.CreateInput{}, errEmptyQuickAdd
	}
	if autoRemind {
		if in.DueDate == "" {
			return service.CreateInput{}, errors.New("update: +r needs a due date")
		}
		reminder, err := model.ComputeReminder(in.DueDate, in.DueTime, in.Priority, loc)
		if err != nil {
			return service.CreateInput{}, err
		}
		in.Reminder = &reminder
	}
	return in, nil
}

func parseDueToken(raw string) (string, string, error) {
	date, clock, hasClock := strings.Cut(raw, "T")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", "", fmt.Errorf("update: bad due date %q, want 2006-01-02", date)
	}
	if !hasClock {
		return date, "", nil
	}
	if _, err := time.Parse(model.ClockLayout, clock); err != nil {
		return "", "", fmt.Errorf("update: bad due time %q, want 15:04", clock)
	}
	return date, clock, nil
}
