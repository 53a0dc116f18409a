package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

type Kind string

const (
	KindReminder Kind = "reminder"
	KindOverdue  Kind = "overdue"
)

// Payload is what the delivery surface receives. Tag is unique per task and
// kind so the platform can coalesce repeated notifications for the same task.
type Payload struct {
	Title  string
	Body   string
	Tag    string
	TaskID string
	Kind   Kind
	Sound  bool
}

type Notifier interface {
	// RequestPermission reports whether notifications can be delivered.
	// Denial is not an error: the caller skips delivery silently.
	RequestPermission() bool
	Send(Payload) error
}

// DesktopNotifier shells out to the platform notification command.
type DesktopNotifier struct{}

func (DesktopNotifier) RequestPermission() bool {
	switch runtime.GOOS {
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err == nil
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err == nil
	default:
		return false
	}
}

func (DesktopNotifier) Send(p Payload) error {
	switch runtime.GOOS {
	case "linux":
		args := []string{"--hint", "string:x-canonical-private-synchronous:" + p.Tag}
		if !p.Sound {
			args = append(args, "--hint", "boolean:suppress-sound:true")
		}
		args = append(args, p.Title, p.Body)
		return exec.Command("notify-send", args...).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(p.Body), escapeAppleScript(p.Title))
		if p.Sound {
			script += ` sound name "default"`
		}
		return exec.Command("osascript", "-e", script).Run()
	default:
		return fmt.Errorf("notify: unsupported platform %s", runtime.GOOS)
	}
}

// LogNotifier writes payloads to the log instead of the desktop. Used when no
// platform surface is available so the poll loop still has a sink.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) RequestPermission() bool { return true }

func (n LogNotifier) Send(p Payload) error {
	n.Log.Info("notification",
		zap.String("kind", string(p.Kind)),
		zap.String("task_id", p.TaskID),
		zap.String("title", p.Title),
		zap.String("body", p.Body),
	)
	return nil
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
