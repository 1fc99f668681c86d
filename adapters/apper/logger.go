package apper

import (
	"log"
	"sync"
	"time"
)

// APILogger provides timed debug logging for remote API calls
type APILogger struct {
	enabled bool
	mu      sync.RWMutex
}

// NewAPILogger creates a new API logger
func NewAPILogger(enabled bool) *APILogger {
	return &APILogger{
		enabled: enabled,
	}
}

// IsEnabled returns whether API logging is enabled
func (l *APILogger) IsEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

// SetEnabled enables or disables API logging
func (l *APILogger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// LogRequest logs a completed API call with execution time and status
func (l *APILogger) LogRequest(method, path string, duration time.Duration, status int) {
	if !l.IsEnabled() {
		return
	}

	log.Printf("[API] [%.2fms] [%d] %s %s",
		float64(duration.Nanoseconds())/1e6,
		status,
		method,
		path)
}

// LogError logs an API call that resulted in an error
func (l *APILogger) LogError(method, path string, duration time.Duration, err error) {
	if !l.IsEnabled() {
		return
	}

	log.Printf("[API] [%.2fms] [ERROR] %s %s - %v",
		float64(duration.Nanoseconds())/1e6,
		method,
		path,
		err)
}
