package report

import (
	"github.com/krishisakhi/sakhi-session/internal/logger"
	"github.com/krishisakhi/sakhi-session/internal/model"
)

var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier surfaces user-facing notices through the log.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(message string) {
	n.logger.Warn("notice shown to user",
		"message", message)
}
