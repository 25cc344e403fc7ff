package log

import "time"

// Event represents a single connectivity event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Interface is the logical interface name (e.g. "wlan0").
	Interface string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// EpisodeID identifies the disconnection episode this event
	// belongs to (UUID, assigned when an established link is lost,
	// cleared on the next successful address acquisition).
	EpisodeID string `cbor:"4,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"5,keyasint,omitempty"` // Link state transitions
	Retry       *RetryEvent       `cbor:"6,keyasint,omitempty"` // Scheduled reconnect attempts
	Staging     *StagingEvent     `cbor:"7,keyasint,omitempty"` // Credential transactions
	Error       *ErrorEventData   `cbor:"8,keyasint,omitempty"` // Driver/store errors
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a link state transition.
	CategoryState Category = 0
	// CategoryRetry indicates a scheduled reconnect attempt or restart.
	CategoryRetry Category = 1
	// CategoryStaging indicates a credential staging transaction event.
	CategoryStaging Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryRetry:
		return "RETRY"
	case CategoryStaging:
		return "STAGING"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a link state transition.
type StateChangeEvent struct {
	// OldState is the previous link state.
	OldState string `cbor:"1,keyasint"`

	// NewState is the new link state.
	NewState string `cbor:"2,keyasint"`

	// Reason is the disconnect reason name, when the transition was
	// caused by a disconnect notification.
	Reason string `cbor:"3,keyasint,omitempty"`

	// Addr is the acquired address, when the transition was caused
	// by an address acquisition.
	Addr string `cbor:"4,keyasint,omitempty"`
}

// RetryEvent captures one scheduled reconnect attempt.
type RetryEvent struct {
	// Attempt is the retry counter value when the attempt was scheduled.
	Attempt int `cbor:"1,keyasint"`

	// Delay is the backoff delay before the attempt (nanoseconds).
	Delay time.Duration `cbor:"2,keyasint"`

	// Restart indicates the attempt escalated to a full radio restart.
	Restart bool `cbor:"3,keyasint,omitempty"`
}

// StagingEvent captures a credential staging transaction boundary.
type StagingEvent struct {
	// TransactionID is the transaction's UUID.
	TransactionID string `cbor:"1,keyasint"`

	// SSID is the candidate network name. The passphrase is never logged.
	SSID string `cbor:"2,keyasint"`

	// Outcome is the transaction result name; empty while the
	// transaction is starting.
	Outcome string `cbor:"3,keyasint,omitempty"`

	// RolledBack indicates the previous credentials were restored.
	RolledBack bool `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors from the driver or store.
type ErrorEventData struct {
	// Context describes what operation was being performed.
	Context string `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`
}
