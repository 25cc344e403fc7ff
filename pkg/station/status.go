package station

import (
	"errors"
	"net"

	"github.com/netkeeper/netkeeper-go/pkg/wifi"
)

// ErrNotAvailable is returned by status queries when the link is not
// up, so callers can distinguish "nothing to report" from a driver
// failure.
var ErrNotAvailable = errors.New("station: link not available")

// Address returns the current IP address. ErrNotAvailable when the
// link is down.
func (m *Manager) Address() (net.IP, error) {
	info, err := m.ipInfo()
	if err != nil {
		return nil, err
	}
	return info.Addr, nil
}

// Netmask returns the current network mask. ErrNotAvailable when the
// link is down.
func (m *Manager) Netmask() (net.IPMask, error) {
	info, err := m.ipInfo()
	if err != nil {
		return nil, err
	}
	return info.Netmask, nil
}

// Gateway returns the current default gateway. ErrNotAvailable when
// the link is down.
func (m *Manager) Gateway() (net.IP, error) {
	info, err := m.ipInfo()
	if err != nil {
		return nil, err
	}
	return info.Gateway, nil
}

func (m *Manager) ipInfo() (wifi.IPInfo, error) {
	if !m.IsLinkUp() {
		return wifi.IPInfo{}, ErrNotAvailable
	}
	return m.drv.IPInfo()
}

// MAC returns the station's hardware address. Available regardless of
// link state once the radio is started.
func (m *Manager) MAC() (net.HardwareAddr, error) {
	return m.drv.MAC()
}

// SignalStrength returns the RSSI of the current association in dBm.
// ErrNotAvailable when the link is down.
func (m *Manager) SignalStrength() (int, error) {
	if !m.IsLinkUp() {
		return 0, ErrNotAvailable
	}
	return m.drv.SignalStrength()
}
