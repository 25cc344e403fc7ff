package station

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/netkeeper/netkeeper-go/pkg/backoff"
	"github.com/netkeeper/netkeeper-go/pkg/credstore"
	"github.com/netkeeper/netkeeper-go/pkg/log"
	"github.com/netkeeper/netkeeper-go/pkg/wifi"
)

// Manager defaults.
const (
	// DefaultSettleDelay is the pause between a disconnect command and
	// the following connect, giving the radio time to tear down.
	DefaultSettleDelay = 500 * time.Millisecond

	// DefaultRestartPause is the pause between stopping and restarting
	// the radio during an escalated restart.
	DefaultRestartPause = 1 * time.Second

	// DefaultInterface is the logical interface name used in events.
	DefaultInterface = "wlan0"
)

// Manager errors.
var (
	ErrNoCredentials = errors.New("station: no credentials stored")
	ErrClosed        = errors.New("station: manager closed")
)

// Config configures a Manager.
type Config struct {
	// Driver is the station radio (required).
	Driver wifi.Driver

	// Store holds the persisted credentials (required).
	Store credstore.Store

	// EventLogger receives connectivity events. Nil disables capture.
	EventLogger log.Logger

	// Backoff overrides the reconnection delay policy. Zero fields
	// use the standard constants; tests shrink them.
	Backoff backoff.Config

	// RestartCeiling is the retry count that escalates to a full
	// radio restart. Zero means backoff.MaxRetryBeforeRestart.
	RestartCeiling int

	// SettleDelay overrides DefaultSettleDelay (tests shrink it).
	SettleDelay time.Duration

	// RestartPause overrides DefaultRestartPause (tests shrink it).
	RestartPause time.Duration

	// Interface is the logical interface name used in events.
	Interface string
}

// Manager owns one station-mode link: it brings the link up, keeps it
// up across disruptions, and runs credential staging transactions.
type Manager struct {
	drv    wifi.Driver
	store  credstore.Store
	logger log.Logger
	bo     *backoff.Backoff
	sched  *backoff.Scheduler

	ceiling      int
	settle       time.Duration
	restartPause time.Duration
	ifname       string

	mu sync.Mutex

	// Link state machine fields. Mutated only from the dispatcher,
	// the reconnect timer, and staging completion.
	state      LinkState
	retry      int
	configured bool
	closed     bool
	episodeID  string

	// listener, when non-nil, receives driver events instead of the
	// state machine. Set only while a staging transaction is active.
	listener      func(wifi.Event)
	stagingActive bool

	// lastStagingAddr carries the acquired address from the staging
	// wait loop to the commit path.
	lastStagingAddr net.IP

	// stagingMu serializes staging transactions. TryLock failure is
	// the synchronous Busy result.
	stagingMu sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup

	onLinkUp      []func(addr net.IP)
	onLinkDown    []func()
	onStateChange []func(oldState, newState LinkState)
}

// New creates a Manager. Call Start to bring the link up.
func New(cfg Config) (*Manager, error) {
	if cfg.Driver == nil {
		return nil, errors.New("station: config requires a driver")
	}
	if cfg.Store == nil {
		return nil, errors.New("station: config requires a credential store")
	}

	logger := cfg.EventLogger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	ceiling := cfg.RestartCeiling
	if ceiling <= 0 {
		ceiling = backoff.MaxRetryBeforeRestart
	}
	settle := cfg.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	restartPause := cfg.RestartPause
	if restartPause <= 0 {
		restartPause = DefaultRestartPause
	}
	ifname := cfg.Interface
	if ifname == "" {
		ifname = DefaultInterface
	}

	return &Manager{
		drv:          cfg.Driver,
		store:        cfg.Store,
		logger:       logger,
		bo:           backoff.NewWithConfig(cfg.Backoff),
		sched:        backoff.NewScheduler(),
		ceiling:      ceiling,
		settle:       settle,
		restartPause: restartPause,
		ifname:       ifname,
		state:        StateDisconnected,
		stopCh:       make(chan struct{}),
	}, nil
}

// OnLinkUp registers a callback invoked after an address is acquired.
// Register before calling Start.
func (m *Manager) OnLinkUp(fn func(addr net.IP)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLinkUp = append(m.onLinkUp, fn)
}

// OnLinkDown registers a callback invoked when an established link is
// lost. Register before calling Start.
func (m *Manager) OnLinkDown(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLinkDown = append(m.onLinkDown, fn)
}

// OnStateChange registers a callback for link state transitions.
// Register before calling Start.
func (m *Manager) OnStateChange(fn func(oldState, newState LinkState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = append(m.onStateChange, fn)
}

// Start loads persisted credentials, configures and starts the radio,
// and begins event dispatch. With no stored credentials the radio is
// started unconfigured, ready for later provisioning; no connect
// attempt is issued until credentials arrive.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.mu.Unlock()

	ssid, err := m.store.Get(credstore.KeySSID)
	if err != nil && !errors.Is(err, credstore.ErrNotFound) {
		return fmt.Errorf("station: read credentials: %w", err)
	}

	if ssid != "" {
		pass, err := m.store.Get(credstore.KeyPass)
		if err != nil && !errors.Is(err, credstore.ErrNotFound) {
			return fmt.Errorf("station: read credentials: %w", err)
		}

		passBuf := []byte(pass)
		cfg := wifi.Config{SSID: ssid, Passphrase: passBuf, Auth: wifi.AuthWPA2PSK}
		err = m.drv.SetConfig(cfg)
		wifi.Zeroize(passBuf)
		if err != nil {
			return fmt.Errorf("station: apply credentials: %w", err)
		}

		m.mu.Lock()
		m.configured = true
		m.mu.Unlock()
	}

	if err := m.drv.Start(); err != nil {
		return fmt.Errorf("station: start radio: %w", err)
	}

	m.wg.Add(1)
	go m.dispatchLoop()
	return nil
}

// Close shuts the manager down and stops the radio.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.sched.Cancel()
	close(m.stopCh)
	m.wg.Wait()

	if err := m.drv.Stop(); err != nil && !errors.Is(err, wifi.ErrNotStarted) {
		return fmt.Errorf("station: stop radio: %w", err)
	}
	return nil
}

// Reconnect re-applies whatever credentials are currently persisted
// and reconnects. Used after out-of-band provisioning writes new
// credentials directly to the store.
func (m *Manager) Reconnect() error {
	ssid, err := m.store.Get(credstore.KeySSID)
	if err != nil || ssid == "" {
		if err != nil && !errors.Is(err, credstore.ErrNotFound) {
			return fmt.Errorf("station: read credentials: %w", err)
		}
		return ErrNoCredentials
	}

	pass, err := m.store.Get(credstore.KeyPass)
	if err != nil && !errors.Is(err, credstore.ErrNotFound) {
		return fmt.Errorf("station: read credentials: %w", err)
	}

	passBuf := []byte(pass)
	cfg := wifi.Config{SSID: ssid, Passphrase: passBuf, Auth: wifi.AuthWPA2PSK}
	err = m.drv.SetConfig(cfg)
	wifi.Zeroize(passBuf)
	if err != nil {
		return fmt.Errorf("station: apply credentials: %w", err)
	}

	m.mu.Lock()
	m.configured = true
	m.retry = 0
	m.mu.Unlock()

	if err := m.drv.Disconnect(); err != nil && !errors.Is(err, wifi.ErrNotStarted) && !errors.Is(err, wifi.ErrNotConnected) {
		m.logError("disconnect", err)
	}

	if err := m.drv.Connect(); err != nil {
		return fmt.Errorf("station: connect: %w", err)
	}
	return nil
}

// State returns the current link state.
func (m *Manager) State() LinkState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsLinkUp returns true when the link is connected with an address.
func (m *Manager) IsLinkUp() bool {
	return m.State() == StateConnected
}

// RetryAttempts returns the reconnect attempts in the current
// disconnection episode.
func (m *Manager) RetryAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retry
}

// dispatchLoop drains driver events and forwards each one to the
// current listener: the state machine's transition handler, or the
// staging transaction's listener while one is active.
func (m *Manager) dispatchLoop() {
	defer m.wg.Done()

	events := m.drv.Events()
	for {
		select {
		case <-m.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.mu.Lock()
			listener := m.listener
			m.mu.Unlock()

			if listener != nil {
				listener(ev)
				continue
			}
			m.handleEvent(ev)
		}
	}
}

// handleEvent is the state machine transition function. It runs on the
// dispatcher goroutine and must not block: driver commands only issue
// requests, completion arrives as a later event.
func (m *Manager) handleEvent(ev wifi.Event) {
	switch ev.Type {
	case wifi.EventStationStarted:
		m.mu.Lock()
		if m.closed || !m.configured {
			// Idle-ready: wait for provisioning.
			m.mu.Unlock()
			return
		}
		old := m.state
		m.state = StateConnecting
		m.mu.Unlock()

		m.announceState(old, StateConnecting, "", nil)
		if err := m.drv.Connect(); err != nil {
			m.logError("connect", err)
		}

	case wifi.EventAssociated:
		// Associated but no address yet; completion is the address event.

	case wifi.EventAddressAcquired:
		m.sched.Cancel()

		m.mu.Lock()
		old := m.state
		m.state = StateConnected
		m.retry = 0
		m.episodeID = ""
		ups := append([]func(net.IP){}, m.onLinkUp...)
		m.mu.Unlock()

		m.announceState(old, StateConnected, "", ev.Addr)
		for _, fn := range ups {
			fn(ev.Addr)
		}

	case wifi.EventDisconnected:
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return
		}
		old := m.state
		m.state = StateDisconnected
		wasConnected := old == StateConnected
		if wasConnected {
			m.episodeID = uuid.NewString()
		}
		attempt := m.retry
		var downs []func()
		if wasConnected {
			downs = append(downs, m.onLinkDown...)
		}
		m.mu.Unlock()

		m.announceState(old, StateDisconnected, ev.Reason.String(), nil)
		for _, fn := range downs {
			fn()
		}

		m.scheduleReconnect(attempt)
	}
}

// scheduleReconnect arms the one-shot backoff timer for the next
// attempt. Arming replaces any pending timer.
func (m *Manager) scheduleReconnect(attempt int) {
	delay := m.bo.Delay(attempt)

	m.log(log.Event{
		Category: log.CategoryRetry,
		Retry: &log.RetryEvent{
			Attempt: attempt,
			Delay:   delay,
			Restart: attempt >= m.ceiling,
		},
	})

	m.sched.Arm(delay, m.reconnectTick)
}

// reconnectTick runs on the timer-service goroutine. At or beyond the
// retry ceiling the attempt escalates to a full radio restart; below
// it a plain connect is issued. The counter increments after the
// attempt is issued, so the ceiling check always precedes it.
func (m *Manager) reconnectTick() {
	m.mu.Lock()
	if m.closed || m.stagingActive {
		m.mu.Unlock()
		return
	}
	attempt := m.retry
	m.mu.Unlock()

	if attempt >= m.ceiling {
		m.restartRadio()
		return
	}

	m.mu.Lock()
	m.retry++
	m.mu.Unlock()

	if err := m.drv.Connect(); err != nil {
		m.logError("connect", err)
		// No driver event follows a synchronous failure; keep the
		// retry loop alive ourselves.
		m.mu.Lock()
		next := m.retry
		m.mu.Unlock()
		m.scheduleReconnect(next)
	}
}

// restartRadio performs the escalated stop/pause/start cycle. A failed
// restart increments the counter (so the ceiling condition persists
// without an immediate restart loop) and re-arms the timer; a
// successful one resets the counter and lets the station-started
// event drive the next connect.
func (m *Manager) restartRadio() {
	if err := m.drv.Stop(); err != nil && !errors.Is(err, wifi.ErrNotStarted) {
		// May already be stopped; continue with the start.
		m.logError("radio stop", err)
	}

	time.Sleep(m.restartPause)

	if err := m.drv.Start(); err != nil {
		m.logError("radio restart", err)

		m.mu.Lock()
		m.retry++
		next := m.retry
		m.mu.Unlock()

		m.scheduleReconnect(next)
		return
	}

	m.mu.Lock()
	m.retry = 0
	m.mu.Unlock()
}

// announceState logs a transition and invokes state-change callbacks.
// No-op when the state did not actually change.
func (m *Manager) announceState(old, newState LinkState, reason string, addr net.IP) {
	if old == newState {
		return
	}

	change := &log.StateChangeEvent{
		OldState: old.String(),
		NewState: newState.String(),
		Reason:   reason,
	}
	if addr != nil {
		change.Addr = addr.String()
	}
	m.log(log.Event{Category: log.CategoryState, StateChange: change})

	m.mu.Lock()
	fns := append([]func(LinkState, LinkState){}, m.onStateChange...)
	m.mu.Unlock()
	for _, fn := range fns {
		fn(old, newState)
	}
}

// log stamps and emits a connectivity event.
func (m *Manager) log(ev log.Event) {
	ev.Timestamp = time.Now()
	ev.Interface = m.ifname

	m.mu.Lock()
	ev.EpisodeID = m.episodeID
	m.mu.Unlock()

	m.logger.Log(ev)
}

// logError emits an error event.
func (m *Manager) logError(context string, err error) {
	m.log(log.Event{
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Context: context, Message: err.Error()},
	})
}
