package credstore

import "errors"

// Credential keys used by the connectivity manager.
const (
	// KeySSID is the persisted network name.
	KeySSID = "wifi/ssid"

	// KeyPass is the persisted passphrase.
	KeyPass = "wifi/pass"
)

// ErrNotFound is returned by Get for keys that have never been set.
var ErrNotFound = errors.New("credstore: key not found")

// Store is a string key/value store for credentials.
// Implementations must be safe for concurrent use.
//
// Values pass through as Go strings, which cannot be zeroed in place;
// callers that need zeroing keep their working copies in byte slices
// and convert only at this boundary.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set writes the value for key, creating it if needed.
	Set(key, value string) error
}
