package planner

import (
	"errors"

	appLog "termplan/internal/log"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier surfaces user-facing messages. The host (web UI, CLI) supplies
// it; the planner never reaches for a global registry.
type Notifier interface {
	Notify(level Level, msg string)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(level Level, msg string) {
	if level == LevelError {
		appLog.Error("notify", errors.New(msg))
		return
	}
	appLog.Info("notify", "level", level, "msg", msg)
}
