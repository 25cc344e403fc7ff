package wifi

import (
	"errors"
	"net"
)

// Driver errors.
var (
	ErrNotStarted   = errors.New("driver not started")
	ErrNotConnected = errors.New("station not associated")
	ErrNoConfig     = errors.New("no station config applied")
)

// IPInfo holds the interface addressing reported by the driver.
// Zero-valued fields mean the corresponding value has not been
// assigned yet; callers distinguish that from driver errors.
type IPInfo struct {
	// Addr is the interface address.
	Addr net.IP

	// Netmask is the network mask.
	Netmask net.IPMask

	// Gateway is the default gateway address.
	Gateway net.IP
}

// Driver is the station-mode radio abstraction.
//
// Commands return quickly; connection progress is reported on the
// Events channel. Implementations must be safe for concurrent use:
// commands may be issued from the reconnect-timer goroutine while a
// caller blocks in a staging transaction.
type Driver interface {
	// Start brings the radio up. A started radio emits
	// EventStationStarted once it is ready to associate.
	Start() error

	// Stop brings the radio down, dropping any association.
	// Returns ErrNotStarted if the radio is already down.
	Stop() error

	// SetConfig applies station credentials to the driver without
	// persisting them anywhere. The driver keeps its own copy; the
	// caller may zero the config's passphrase afterwards.
	SetConfig(cfg Config) error

	// Connect begins an association attempt using the applied config.
	// The outcome arrives as EventAssociated + EventAddressAcquired,
	// or EventDisconnected with a reason code.
	Connect() error

	// Disconnect drops the current association, if any.
	Disconnect() error

	// Events returns the driver's notification channel. The channel
	// is owned by the driver and closed when the driver is destroyed,
	// not when it is stopped.
	Events() <-chan Event

	// IPInfo reports the current interface addressing. Fields are
	// zero-valued until a lease is acquired.
	IPInfo() (IPInfo, error)

	// MAC reports the station's hardware address.
	MAC() (net.HardwareAddr, error)

	// SignalStrength reports the received signal strength of the
	// current association in dBm. Returns ErrNotConnected when the
	// station is not associated.
	SignalStrength() (int, error)
}
