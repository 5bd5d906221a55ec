// Package notify turns setup outcomes into user-facing messages.
//
// Every outcome maps to exactly one leveled notification. Notifications
// never stop the Storybook launch that follows them.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shinji-kodama/storybook-runner/internal/model"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a single leveled message.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// FromOutcome maps a setup outcome to its notification.
func FromOutcome(o model.SetupOutcome) Notification {
	switch o.Status {
	case model.SetupConfigMissing:
		return Notification{
			Level:   LevelWarning,
			Message: fmt.Sprintf("`%s` not found. Story glob fallback setup was skipped.", o.ConfigPath),
		}
	case model.SetupNoStoriesBlock:
		return Notification{
			Level:   LevelWarning,
			Message: fmt.Sprintf("No `stories: [...]` block found in `%s`. Fallback setup was skipped.", o.ConfigPath),
		}
	case model.SetupFailed:
		return Notification{
			Level:   LevelError,
			Message: fmt.Sprintf("Failed to update `%s`: %s", o.ConfigPath, o.Reason),
		}
	default:
		if o.Changed {
			return Notification{
				Level:   LevelInfo,
				Message: fmt.Sprintf("Updated `%s` to read %s.", o.ConfigPath, model.StoryGlobEnvVar),
			}
		}
		return Notification{
			Level:   LevelInfo,
			Message: fmt.Sprintf("`%s` already reads %s.", o.ConfigPath, model.StoryGlobEnvVar),
		}
	}
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier emits notifications through a slog.Logger. Info notifications
// are logged at debug level so a successful setup stays quiet unless
// verbose logging is enabled.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger selects slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs n at the slog level matching its Level.
func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	l.logger.Log(ctx, SlogLevel(n.Level), n.Message)
}

// SlogLevel maps a notification level to the slog level it is logged at.
func SlogLevel(level Level) slog.Level {
	switch level {
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Recorder collects notifications in memory. The JSON output mode uses it
// to include notifications in the command result.
type Recorder struct {
	Notifications []Notification
}

// Notify appends n.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.Notifications = append(r.Notifications, n)
}
