package wifi

import "net"

// EventType identifies a driver notification.
type EventType uint8

const (
	// EventStationStarted indicates the radio is up and ready to associate.
	EventStationStarted EventType = iota

	// EventAssociated indicates the station associated with an access point.
	EventAssociated

	// EventDisconnected indicates the association was lost or refused.
	EventDisconnected

	// EventAddressAcquired indicates the interface obtained an address.
	EventAddressAcquired
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventStationStarted:
		return "STATION_STARTED"
	case EventAssociated:
		return "ASSOCIATED"
	case EventDisconnected:
		return "DISCONNECTED"
	case EventAddressAcquired:
		return "ADDRESS_ACQUIRED"
	default:
		return "UNKNOWN"
	}
}

// Event is a single driver notification.
type Event struct {
	// Type identifies the notification.
	Type EventType

	// Reason is set for EventDisconnected.
	Reason ReasonCode

	// Addr is set for EventAddressAcquired.
	Addr net.IP
}

// ReasonCode is a disconnect reason. Values follow the 802.11 reason
// codes plus the vendor extensions commonly reported by station
// firmware for failures that happen before association completes.
type ReasonCode uint16

const (
	// ReasonUnspecified is the catch-all disconnect reason.
	ReasonUnspecified ReasonCode = 1

	// ReasonAuthExpire indicates a previous authentication is no longer valid.
	ReasonAuthExpire ReasonCode = 2

	// ReasonAssocLeave indicates the station itself left the association.
	ReasonAssocLeave ReasonCode = 8

	// ReasonFourWayHandshakeTimeout indicates the WPA 4-way handshake timed out.
	ReasonFourWayHandshakeTimeout ReasonCode = 15

	// ReasonBeaconTimeout indicates the AP's beacons stopped arriving.
	ReasonBeaconTimeout ReasonCode = 200

	// ReasonNoAPFound indicates no AP with the configured SSID was found.
	ReasonNoAPFound ReasonCode = 201

	// ReasonAuthFail indicates authentication was rejected (wrong passphrase).
	ReasonAuthFail ReasonCode = 202

	// ReasonHandshakeTimeout indicates the security handshake timed out.
	ReasonHandshakeTimeout ReasonCode = 204
)

// String returns the reason name.
func (r ReasonCode) String() string {
	switch r {
	case ReasonUnspecified:
		return "UNSPECIFIED"
	case ReasonAuthExpire:
		return "AUTH_EXPIRE"
	case ReasonAssocLeave:
		return "ASSOC_LEAVE"
	case ReasonFourWayHandshakeTimeout:
		return "4WAY_HANDSHAKE_TIMEOUT"
	case ReasonBeaconTimeout:
		return "BEACON_TIMEOUT"
	case ReasonNoAPFound:
		return "NO_AP_FOUND"
	case ReasonAuthFail:
		return "AUTH_FAIL"
	case ReasonHandshakeTimeout:
		return "HANDSHAKE_TIMEOUT"
	default:
		return "UNKNOWN"
	}
}
