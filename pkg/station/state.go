package station

import "github.com/netkeeper/netkeeper-go/pkg/wifi"

// LinkState represents the connection state of the managed link.
type LinkState uint8

const (
	// StateDisconnected indicates no association with an access point.
	StateDisconnected LinkState = iota

	// StateConnecting indicates a connection attempt is in progress.
	StateConnecting

	// StateConnected indicates an association with an acquired address.
	StateConnected
)

// String returns a human-readable state name.
func (s LinkState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// TestOutcome is the result of a credential staging transaction.
// Exactly one outcome is produced per transaction.
type TestOutcome uint8

const (
	// TestOK: the candidate credentials worked and were persisted.
	TestOK TestOutcome = iota

	// TestAuthFailed: authentication was rejected (wrong passphrase).
	TestAuthFailed

	// TestAPNotFound: no access point with the candidate SSID was found.
	TestAPNotFound

	// TestTimeout: no definitive signal arrived within the deadline.
	TestTimeout

	// TestInvalidInput: credential length limits were violated.
	TestInvalidInput

	// TestBusy: another transaction is already in flight.
	TestBusy

	// TestUnknownError: any other failure.
	TestUnknownError
)

// String returns the outcome name.
func (o TestOutcome) String() string {
	switch o {
	case TestOK:
		return "OK"
	case TestAuthFailed:
		return "AUTH_FAILED"
	case TestAPNotFound:
		return "AP_NOT_FOUND"
	case TestTimeout:
		return "TIMEOUT"
	case TestInvalidInput:
		return "INVALID_INPUT"
	case TestBusy:
		return "BUSY"
	case TestUnknownError:
		return "UNKNOWN_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Token returns the stable machine-readable error token for an
// outcome, suitable for API responses. Empty for TestOK.
func (o TestOutcome) Token() string {
	switch o {
	case TestOK:
		return ""
	case TestAuthFailed:
		return "wifi_auth_failed"
	case TestAPNotFound:
		return "wifi_ap_not_found"
	case TestTimeout:
		return "wifi_connect_timeout"
	case TestInvalidInput:
		return "wifi_invalid_input"
	case TestBusy:
		return "wifi_busy"
	default:
		return "wifi_unknown_error"
	}
}

// outcomeForReason classifies a disconnect reason observed during a
// staging transaction.
func outcomeForReason(r wifi.ReasonCode) TestOutcome {
	switch r {
	case wifi.ReasonAuthFail,
		wifi.ReasonAuthExpire,
		wifi.ReasonFourWayHandshakeTimeout,
		wifi.ReasonHandshakeTimeout:
		return TestAuthFailed
	case wifi.ReasonNoAPFound,
		wifi.ReasonBeaconTimeout:
		return TestAPNotFound
	default:
		return TestUnknownError
	}
}
