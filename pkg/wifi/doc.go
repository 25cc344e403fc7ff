// Package wifi defines the station-mode driver abstraction used by the
// connectivity manager.
//
// A Driver wraps the radio firmware: it accepts commands (Start, Stop,
// SetConfig, Connect, Disconnect) and delivers asynchronous link-layer
// notifications on its event channel. Commands are non-blocking in the
// sense that they only issue the request; completion is observed later
// as an Event.
//
// # Events
//
// The driver emits four notification types:
//
//   - EventStationStarted: the radio is up and ready to associate
//   - EventAssociated: the station associated with an access point
//   - EventDisconnected: the association was lost, with a reason code
//   - EventAddressAcquired: the interface obtained an address lease
//
// # Credentials
//
// Passphrases travel as byte slices so transient copies can be zeroed
// after use (see Zeroize). DerivePSK implements the WPA2 passphrase-to-PSK
// mapping (PBKDF2-HMAC-SHA1, 4096 iterations, 32 bytes).
//
// # Simulated driver
//
// SimDriver is an in-memory radio with configurable access points and
// fault injection. It backs the daemon's simulation mode and the test
// suites; real hardware integrations implement Driver against their
// firmware's native API.
package wifi
