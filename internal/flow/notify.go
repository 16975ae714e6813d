package flow

import "log"

// Kind classifies a user-facing notice.
type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier receives the user-facing messages the flow produces. UIs render
// them as toasts or banners; the CLI prints them.
type Notifier interface {
	Notify(kind Kind, message string)
}

// LogNotifier writes notices to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(kind Kind, message string) {
	log.Printf("[%s] %s", kind, message)
}
