package orders

import "log/slog"

// Notifier receives the human-readable outcome of each operation.
// Every client operation calls it exactly once, whether the operation
// succeeded, was rejected locally, or failed remotely.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) {
	f(message)
}

// LogNotifier writes outcome messages to a structured logger
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a notifier backed by log
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(message string) {
	n.log.Info("operation outcome", "message", message)
}
