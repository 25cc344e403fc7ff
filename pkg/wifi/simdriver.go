package wifi

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// Default timing for simulated association and lease acquisition.
// Individual access points can override these.
const (
	DefaultConnectDelay = 5 * time.Millisecond
	DefaultLeaseDelay   = 5 * time.Millisecond
)

// AccessPoint describes a network visible to the simulated radio.
type AccessPoint struct {
	// SSID is the network name.
	SSID string

	// Passphrase is the network's WPA2 passphrase (empty for open).
	Passphrase string

	// RSSI is the simulated signal strength in dBm.
	RSSI int

	// ConnectDelay is the time from connect command to association.
	ConnectDelay time.Duration

	// LeaseDelay is the time from association to address acquisition.
	LeaseDelay time.Duration
}

// SimDriver is an in-memory station radio. It emits events
// asynchronously, the way real firmware does, and supports fault
// injection for exercising reconnection and rollback paths.
type SimDriver struct {
	mu sync.Mutex

	events chan Event

	aps map[string]AccessPoint

	// Applied config. The passphrase itself is not retained, only
	// the derived PSK, mirroring what firmware keeps.
	ssid      string
	psk       [32]byte
	open      bool
	hasConfig bool

	started    bool
	associated bool
	ip         IPInfo
	mac        net.HardwareAddr

	// attempt invalidates in-flight connect goroutines when bumped.
	attempt uint64

	// leaseSeq drives simulated address assignment.
	leaseSeq byte

	// Injected failures.
	startErr error

	// Command counters for tests.
	startCalls   int
	stopCalls    int
	connectCalls int
}

// NewSimDriver creates a simulated radio that can see the given
// access points.
func NewSimDriver(aps ...AccessPoint) *SimDriver {
	d := &SimDriver{
		events: make(chan Event, 32),
		aps:    make(map[string]AccessPoint),
		mac:    net.HardwareAddr{0x02, 0x00, 0x5e, 0xab, 0xcd, 0xef},
	}
	for _, ap := range aps {
		d.aps[ap.SSID] = ap
	}
	return d
}

// AddAP makes an access point visible to the radio.
func (d *SimDriver) AddAP(ap AccessPoint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aps[ap.SSID] = ap
}

// RemoveAP hides an access point. An existing association to it is
// not dropped automatically; use DropLink for that.
func (d *SimDriver) RemoveAP(ssid string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.aps, ssid)
}

// Start brings the simulated radio up.
func (d *SimDriver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.startCalls++
	if d.startErr != nil {
		return d.startErr
	}
	if d.started {
		return nil
	}

	d.started = true
	d.emitLocked(Event{Type: EventStationStarted})
	return nil
}

// Stop brings the radio down, cancelling any in-flight attempt.
func (d *SimDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopCalls++
	if !d.started {
		return ErrNotStarted
	}

	d.started = false
	d.associated = false
	d.ip = IPInfo{}
	d.attempt++
	return nil
}

// SetConfig applies station credentials. Only the derived PSK is kept.
func (d *SimDriver) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.ssid = cfg.SSID
	d.open = len(cfg.Passphrase) == 0
	if !d.open {
		d.psk = DerivePSK(cfg.SSID, cfg.Passphrase)
	} else {
		d.psk = [32]byte{}
	}
	d.hasConfig = true
	return nil
}

// Connect starts an association attempt against the applied config.
func (d *SimDriver) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.connectCalls++
	if !d.started {
		return ErrNotStarted
	}
	if !d.hasConfig {
		return ErrNoConfig
	}

	d.attempt++
	go d.runAttempt(d.attempt, d.ssid, d.psk, d.open)
	return nil
}

// Disconnect drops the current association. As on real firmware, the
// self-inflicted disconnect is still reported as an event.
func (d *SimDriver) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return ErrNotStarted
	}

	d.attempt++
	if d.associated {
		d.associated = false
		d.ip = IPInfo{}
		d.emitLocked(Event{Type: EventDisconnected, Reason: ReasonAssocLeave})
	}
	return nil
}

// Events returns the driver notification channel.
func (d *SimDriver) Events() <-chan Event {
	return d.events
}

// IPInfo reports the current simulated addressing.
func (d *SimDriver) IPInfo() (IPInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ip, nil
}

// MAC reports the simulated hardware address.
func (d *SimDriver) MAC() (net.HardwareAddr, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	mac := make(net.HardwareAddr, len(d.mac))
	copy(mac, d.mac)
	return mac, nil
}

// SignalStrength reports the RSSI of the current association.
func (d *SimDriver) SignalStrength() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.associated {
		return 0, ErrNotConnected
	}
	ap, ok := d.aps[d.ssid]
	if !ok {
		return 0, ErrNotConnected
	}
	return ap.RSSI, nil
}

// DropLink simulates an AP-side disconnection with the given reason.
func (d *SimDriver) DropLink(reason ReasonCode) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return
	}
	d.attempt++
	d.associated = false
	d.ip = IPInfo{}
	d.emitLocked(Event{Type: EventDisconnected, Reason: reason})
}

// SetStartError injects a persistent Start failure (nil clears it).
// Used to exercise the failed-radio-restart path.
func (d *SimDriver) SetStartError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.startErr = err
}

// StartCalls returns the number of Start commands issued.
func (d *SimDriver) StartCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startCalls
}

// StopCalls returns the number of Stop commands issued.
func (d *SimDriver) StopCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopCalls
}

// ConnectCalls returns the number of Connect commands issued.
func (d *SimDriver) ConnectCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connectCalls
}

// Associated reports whether the station currently holds an association.
func (d *SimDriver) Associated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.associated
}

// CurrentSSID returns the SSID from the applied config.
func (d *SimDriver) CurrentSSID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ssid
}

// runAttempt resolves one association attempt. It aborts silently if
// the attempt was superseded by a later command.
func (d *SimDriver) runAttempt(attempt uint64, ssid string, psk [32]byte, open bool) {
	d.mu.Lock()
	ap, visible := d.aps[ssid]
	d.mu.Unlock()

	connectDelay := DefaultConnectDelay
	leaseDelay := DefaultLeaseDelay
	if visible {
		if ap.ConnectDelay > 0 {
			connectDelay = ap.ConnectDelay
		}
		if ap.LeaseDelay > 0 {
			leaseDelay = ap.LeaseDelay
		}
	}

	time.Sleep(connectDelay)

	d.mu.Lock()
	if d.attempt != attempt || !d.started {
		d.mu.Unlock()
		return
	}

	if !visible {
		d.emitLocked(Event{Type: EventDisconnected, Reason: ReasonNoAPFound})
		d.mu.Unlock()
		return
	}

	authOK := false
	switch {
	case ap.Passphrase == "" && open:
		authOK = true
	case ap.Passphrase != "" && !open:
		authOK = DerivePSK(ssid, []byte(ap.Passphrase)) == psk
	}
	if !authOK {
		d.emitLocked(Event{Type: EventDisconnected, Reason: ReasonAuthFail})
		d.mu.Unlock()
		return
	}

	d.associated = true
	d.emitLocked(Event{Type: EventAssociated})
	d.mu.Unlock()

	time.Sleep(leaseDelay)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.attempt != attempt || !d.associated {
		return
	}

	d.leaseSeq++
	d.ip = IPInfo{
		Addr:    net.IPv4(192, 168, 1, 100+d.leaseSeq%100),
		Netmask: net.IPv4Mask(255, 255, 255, 0),
		Gateway: net.IPv4(192, 168, 1, 1),
	}
	d.emitLocked(Event{Type: EventAddressAcquired, Addr: d.ip.Addr})
}

// emitLocked delivers an event without blocking the caller. A full
// queue drops the event, the same policy firmware applies to its
// event task queue.
func (d *SimDriver) emitLocked(ev Event) {
	select {
	case d.events <- ev:
	default:
	}
}

// Compile-time interface satisfaction check.
var _ Driver = (*SimDriver)(nil)

// String describes the driver for log output.
func (d *SimDriver) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("sim(ssid=%q started=%v associated=%v)", d.ssid, d.started, d.associated)
}
