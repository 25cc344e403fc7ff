package station

import (
	"errors"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/netkeeper/netkeeper-go/pkg/credstore"
	"github.com/netkeeper/netkeeper-go/pkg/log"
	"github.com/netkeeper/netkeeper-go/pkg/wifi"
)

// DefaultTestTimeout bounds the wait for a staging transaction to
// produce a definitive signal.
const DefaultTestTimeout = 15 * time.Second

// stagingEventBuffer sizes the transaction's private event channel.
// Large enough that a burst of driver events never drops one.
const stagingEventBuffer = 8

// TestAndCommitCredentials runs a credential staging transaction:
// apply the candidate credentials to the driver without persisting,
// attempt a connection, and wait up to timeout for a definitive
// signal. On success the credentials are committed to the store and
// the link stays up on the new network. On any failure the previous
// credentials are restored to the driver, the store is left untouched,
// and the normal reconnection machinery takes over.
//
// The call blocks for the duration of the transaction, up to roughly
// the timeout plus the settle delay. At most one transaction runs at a
// time; a concurrent call returns TestBusy immediately. A non-positive
// timeout means DefaultTestTimeout.
//
// The passphrase buffer is wiped before the call returns.
func (m *Manager) TestAndCommitCredentials(ssid string, passphrase []byte, timeout time.Duration) TestOutcome {
	defer wifi.Zeroize(passphrase)

	candidate := wifi.Config{SSID: ssid, Passphrase: passphrase, Auth: wifi.AuthWPA2PSK}
	if err := candidate.Validate(); err != nil {
		return TestInvalidInput
	}
	if timeout <= 0 {
		timeout = DefaultTestTimeout
	}

	if !m.stagingMu.TryLock() {
		return TestBusy
	}
	defer m.stagingMu.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return TestUnknownError
	}
	m.mu.Unlock()

	// Snapshot the last known-good credentials for rollback. A device
	// with nothing to roll back to cannot run the transaction safely.
	oldSSID, err := m.store.Get(credstore.KeySSID)
	if err != nil || oldSSID == "" {
		return TestUnknownError
	}
	oldPass, err := m.store.Get(credstore.KeyPass)
	if err != nil && !errors.Is(err, credstore.ErrNotFound) {
		return TestUnknownError
	}
	oldBuf := []byte(oldPass)
	defer wifi.Zeroize(oldBuf)

	txID := uuid.NewString()
	m.logStaging(txID, ssid, "", false)

	// Redirect driver events to the transaction and silence the
	// reconnect timer for its duration.
	events := make(chan wifi.Event, stagingEventBuffer)
	m.mu.Lock()
	m.stagingActive = true
	m.listener = func(ev wifi.Event) {
		select {
		case events <- ev:
		default:
		}
	}
	oldState := m.state
	m.state = StateConnecting
	var downs []func()
	if oldState == StateConnected {
		downs = append(downs, m.onLinkDown...)
	}
	m.mu.Unlock()
	m.sched.Cancel()

	m.announceState(oldState, StateConnecting, "", nil)
	for _, fn := range downs {
		fn()
	}

	// Candidate config goes to the driver only; the store is not
	// touched until the connection is proven.
	candidateCopy := wifi.Config{
		SSID:       ssid,
		Passphrase: append([]byte(nil), passphrase...),
		Auth:       wifi.AuthWPA2PSK,
	}
	err = m.drv.SetConfig(candidateCopy)
	candidateCopy.Zero()
	if err != nil {
		// The driver still holds the old config; nothing to roll back.
		m.restoreListener()
		m.logStaging(txID, ssid, TestUnknownError.String(), false)
		return TestUnknownError
	}

	if err := m.drv.Disconnect(); err != nil &&
		!errors.Is(err, wifi.ErrNotStarted) && !errors.Is(err, wifi.ErrNotConnected) {
		m.logError("staging disconnect", err)
	}
	time.Sleep(m.settle)

	// Discard the self-inflicted disconnect event before connecting,
	// so it cannot be misread as a candidate failure.
drain:
	for {
		select {
		case <-events:
		default:
			break drain
		}
	}

	if err := m.drv.Connect(); err != nil {
		m.logError("staging connect", err)
		return m.rollback(txID, ssid, oldSSID, oldBuf, TestUnknownError)
	}

	outcome := m.waitForLink(events, timeout)
	if outcome != TestOK {
		return m.rollback(txID, ssid, oldSSID, oldBuf, outcome)
	}

	// Proven: commit. A partial write would leave the stored pair
	// inconsistent, so a failed second write restores the first key
	// and the transaction rolls back as a whole.
	if err := m.store.Set(credstore.KeySSID, ssid); err != nil {
		m.logError("staging commit", err)
		return m.rollback(txID, ssid, oldSSID, oldBuf, TestUnknownError)
	}
	if err := m.store.Set(credstore.KeyPass, string(passphrase)); err != nil {
		m.logError("staging commit", err)
		if rerr := m.store.Set(credstore.KeySSID, oldSSID); rerr != nil {
			m.logError("staging commit restore", rerr)
		}
		return m.rollback(txID, ssid, oldSSID, oldBuf, TestUnknownError)
	}

	m.mu.Lock()
	m.state = StateConnected
	m.retry = 0
	m.episodeID = ""
	addr := m.lastStagingAddr
	m.lastStagingAddr = nil
	ups := append([]func(net.IP){}, m.onLinkUp...)
	m.mu.Unlock()

	m.restoreListener()
	m.announceState(StateConnecting, StateConnected, "", addr)
	for _, fn := range ups {
		fn(addr)
	}

	m.logStaging(txID, ssid, TestOK.String(), false)
	return TestOK
}

// waitForLink waits for the candidate connection to either fully come
// up (associated and address acquired) or definitively fail.
func (m *Manager) waitForLink(events <-chan wifi.Event, timeout time.Duration) TestOutcome {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var associated, acquired bool
	for {
		select {
		case ev := <-events:
			switch ev.Type {
			case wifi.EventAssociated:
				associated = true
			case wifi.EventAddressAcquired:
				acquired = true
				m.mu.Lock()
				m.lastStagingAddr = ev.Addr
				m.mu.Unlock()
			case wifi.EventDisconnected:
				return outcomeForReason(ev.Reason)
			}
			if associated && acquired {
				return TestOK
			}
		case <-deadline.C:
			return TestTimeout
		}
	}
}

// rollback restores the previous credentials to the driver, hands
// event dispatch back to the state machine, and reconnects. The store
// was never written, so only the driver config needs restoring.
func (m *Manager) rollback(txID, candidateSSID, oldSSID string, oldPass []byte, outcome TestOutcome) TestOutcome {
	oldCfg := wifi.Config{
		SSID:       oldSSID,
		Passphrase: append([]byte(nil), oldPass...),
		Auth:       wifi.AuthWPA2PSK,
	}
	err := m.drv.SetConfig(oldCfg)
	oldCfg.Zero()
	if err != nil {
		m.logError("rollback config", err)
	}

	if err := m.drv.Disconnect(); err != nil &&
		!errors.Is(err, wifi.ErrNotStarted) && !errors.Is(err, wifi.ErrNotConnected) {
		m.logError("rollback disconnect", err)
	}

	m.mu.Lock()
	m.state = StateDisconnected
	m.mu.Unlock()
	m.announceState(StateConnecting, StateDisconnected, outcome.String(), nil)

	// Restore normal dispatch before reconnecting so the state machine
	// observes the rollback connection's events and drives retries if
	// the old network has meanwhile gone away.
	m.restoreListener()

	time.Sleep(m.settle)
	if err := m.drv.Connect(); err != nil {
		m.logError("rollback connect", err)
		m.mu.Lock()
		attempt := m.retry
		m.mu.Unlock()
		m.scheduleReconnect(attempt)
	}

	m.logStaging(txID, candidateSSID, outcome.String(), true)
	return outcome
}

// restoreListener hands driver event dispatch back to the state machine.
func (m *Manager) restoreListener() {
	m.mu.Lock()
	m.listener = nil
	m.stagingActive = false
	m.mu.Unlock()
}

// logStaging emits a staging lifecycle event. The start of a
// transaction carries an empty outcome.
func (m *Manager) logStaging(txID, ssid, outcome string, rolledBack bool) {
	m.log(log.Event{
		Category: log.CategoryStaging,
		Staging: &log.StagingEvent{
			TransactionID: txID,
			SSID:          ssid,
			Outcome:       outcome,
			RolledBack:    rolledBack,
		},
	})
}
