package wifi

import (
	"crypto/sha1"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

// Credential length limits from IEEE 802.11.
const (
	// MaxSSIDLen is the maximum SSID length in bytes.
	MaxSSIDLen = 32

	// MaxPassphraseLen is the maximum passphrase length in bytes.
	MaxPassphraseLen = 64
)

// Credential validation errors.
var (
	ErrInvalidSSID       = errors.New("ssid length must be 1-32 bytes")
	ErrInvalidPassphrase = errors.New("passphrase length must be at most 64 bytes")
)

// AuthPolicy is the minimum authentication mode the station accepts.
type AuthPolicy uint8

const (
	// AuthOpen accepts any network, including open ones.
	AuthOpen AuthPolicy = iota

	// AuthWPA2PSK requires WPA2-PSK or better.
	AuthWPA2PSK
)

// String returns the auth policy name.
func (a AuthPolicy) String() string {
	switch a {
	case AuthOpen:
		return "OPEN"
	case AuthWPA2PSK:
		return "WPA2_PSK"
	default:
		return "UNKNOWN"
	}
}

// Config holds station credentials for a single access point.
type Config struct {
	// SSID is the network name, 1-32 bytes.
	SSID string

	// Passphrase is the WPA2 passphrase, at most 64 bytes.
	// Empty means an open network.
	Passphrase []byte

	// Auth is the minimum accepted authentication mode.
	Auth AuthPolicy
}

// Validate checks the credential length limits.
func (c Config) Validate() error {
	if len(c.SSID) == 0 || len(c.SSID) > MaxSSIDLen {
		return ErrInvalidSSID
	}
	if len(c.Passphrase) > MaxPassphraseLen {
		return ErrInvalidPassphrase
	}
	return nil
}

// Zero wipes the passphrase buffer.
func (c *Config) Zero() {
	Zeroize(c.Passphrase)
}

// DerivePSK maps a passphrase to the 256-bit WPA2 pairwise master key:
// PBKDF2-HMAC-SHA1 with the SSID as salt, 4096 iterations, 32 bytes.
func DerivePSK(ssid string, passphrase []byte) [32]byte {
	var psk [32]byte
	key := pbkdf2.Key(passphrase, []byte(ssid), 4096, len(psk), sha1.New)
	copy(psk[:], key)
	Zeroize(key)
	return psk
}

// Zeroize overwrites a transient secret buffer.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
