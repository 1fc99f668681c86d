package core

// Notifier is the user-facing notification side channel. Implementations
// live outside core (see the notify package); calls are fire-and-forget.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards all notifications
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
