// Package announce advertises the device on the local network over
// mDNS once the managed link is up, so controllers can find it without
// knowing its DHCP-assigned address.
package announce

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Service registration constants.
const (
	// ServiceType is the mDNS service type for reachable devices.
	ServiceType = "_netkeeper._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is advertised when the config leaves the port unset.
	DefaultPort = 5540

	// DefaultTTL is the DNS record TTL.
	DefaultTTL = 120 * time.Second
)

// Config configures an Advertiser.
type Config struct {
	// InstanceName is the service instance name. Required.
	InstanceName string

	// Port is the advertised service port. Zero means DefaultPort.
	Port int

	// Interface restricts advertising to one network interface.
	// Empty means all interfaces.
	Interface string

	// TTL is the DNS record TTL. Zero means DefaultTTL.
	TTL time.Duration
}

// Advertiser registers and withdraws the device's mDNS service record.
// It is driven by the station manager's link callbacks: Start on link
// up, Stop on link down.
type Advertiser struct {
	config Config

	mu     sync.Mutex
	server *zeroconf.Server
}

// New creates an Advertiser.
func New(config Config) (*Advertiser, error) {
	if config.InstanceName == "" {
		return nil, fmt.Errorf("announce: instance name required")
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	return &Advertiser{config: config}, nil
}

// getInterfaces returns the network interfaces to advertise on.
// Returns nil to use all interfaces.
func (a *Advertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Start registers the service record. The addr and mac describe the
// link the record announces; a re-Start replaces the existing record,
// which is how an address change after a reconnect is published.
func (a *Advertiser) Start(addr net.IP, mac net.HardwareAddr) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	txt := []string{
		"ip=" + addr.String(),
		"mac=" + mac.String(),
	}

	opts := []zeroconf.ServerOption{
		zeroconf.TTL(uint32(a.config.TTL.Seconds())),
	}

	server, err := zeroconf.Register(
		a.config.InstanceName,
		ServiceType,
		Domain,
		a.config.Port,
		txt,
		a.getInterfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("announce: register service: %w", err)
	}

	a.server = server
	return nil
}

// Stop withdraws the service record. Safe to call when not running.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// Running reports whether a service record is currently registered.
func (a *Advertiser) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.server != nil
}
