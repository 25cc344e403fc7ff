package log

// Logger is the interface applications implement to receive
// connectivity events. Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records a connectivity event. Implementations must be
	// thread-safe: events arrive from the driver-event, timer, and
	// staging-caller goroutines. The event should be processed
	// quickly or queued; blocking stalls the dispatcher.
	Log(event Event)
}

// NoopLogger discards all events. Use when capture is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
