// Package notify implements the user-facing notification side channel
// consumed by the admin UI as toasts.
package notify

import (
	"log"
	"sync"
	"time"
)

// Level classifies a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one fire-and-forget user message
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// DefaultHubCapacity bounds the pending feed when the UI is not draining
const DefaultHubCapacity = 50

// Hub is a bounded in-memory notification feed. Producers (resource
// clients) push from request goroutines; the UI drains pending items when
// rendering the next page. Oldest entries are dropped once the capacity is
// reached.
type Hub struct {
	mu      sync.Mutex
	pending []Notification
	max     int
}

// NewHub creates a hub holding at most max pending notifications
func NewHub(max int) *Hub {
	if max <= 0 {
		max = DefaultHubCapacity
	}
	return &Hub{max: max}
}

// Success records a success notification
func (h *Hub) Success(message string) {
	h.push(LevelSuccess, message)
}

// Error records an error notification
func (h *Hub) Error(message string) {
	h.push(LevelError, message)
}

// Drain returns all pending notifications and clears the feed, so each
// notification is shown exactly once
func (h *Hub) Drain() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	drained := h.pending
	h.pending = nil
	return drained
}

// Pending returns the number of undelivered notifications
func (h *Hub) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

func (h *Hub) push(level Level, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.pending) >= h.max {
		h.pending = h.pending[1:]
	}
	h.pending = append(h.pending, Notification{
		Level:   level,
		Message: message,
		Time:    time.Now(),
	})
}

// LogNotifier writes notifications to the process log, for headless use
type LogNotifier struct{}

// Success logs a success notification
func (LogNotifier) Success(message string) {
	log.Printf("[notify] [success] %s", message)
}

// Error logs an error notification
func (LogNotifier) Error(message string) {
	log.Printf("[notify] [error] %s", message)
}
