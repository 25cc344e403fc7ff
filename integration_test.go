package netkeeper_test

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netkeeper/netkeeper-go/pkg/backoff"
	"github.com/netkeeper/netkeeper-go/pkg/credstore"
	"github.com/netkeeper/netkeeper-go/pkg/log"
	"github.com/netkeeper/netkeeper-go/pkg/station"
	"github.com/netkeeper/netkeeper-go/pkg/wifi"
)

// TestE2E_DeviceLifecycle runs the full flow a device goes through in
// the field: first boot with an empty store, provisioning via a
// staging transaction, a link drop with automatic recovery, a rejected
// credential change that rolls back, and a reboot that reconnects from
// persisted credentials. Events are captured to a log file and read
// back at the end.
func TestE2E_DeviceLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	storePath := filepath.Join(dir, "store.json")
	logPath := filepath.Join(dir, "link.nklog")

	store := credstore.NewFileStore(storePath)

	eventLog, err := log.NewFileLogger(logPath)
	require.NoError(t, err)

	drv := wifi.NewSimDriver(
		wifi.AccessPoint{SSID: "Home", Passphrase: "correct-horse", RSSI: -55},
	)

	newManager := func(d wifi.Driver) *station.Manager {
		m, err := station.New(station.Config{
			Driver:      d,
			Store:       store,
			EventLogger: eventLog,
			Backoff: backoff.Config{
				Base:   2 * time.Millisecond,
				Max:    8 * time.Millisecond,
				Jitter: time.Millisecond,
			},
			SettleDelay:  time.Millisecond,
			RestartPause: time.Millisecond,
		})
		require.NoError(t, err)
		return m
	}

	waitForState := func(m *station.Manager, want station.LinkState) {
		t.Helper()
		require.Eventually(t, func() bool {
			return m.State() == want
		}, 2*time.Second, 2*time.Millisecond, "never reached %s", want)
	}

	// --- First boot: empty store, device waits for provisioning.
	mgr := newManager(drv)

	linkUp := make(chan net.IP, 8)
	mgr.OnLinkUp(func(addr net.IP) { linkUp <- addr })

	require.NoError(t, mgr.Start())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, station.StateDisconnected, mgr.State())
	assert.Equal(t, 0, drv.ConnectCalls())

	// --- Provisioning: staging transaction with nothing to roll back
	// to is refused; seed the store and reconnect instead, the way an
	// out-of-band provisioning channel would.
	outcome := mgr.TestAndCommitCredentials("Home", []byte("correct-horse"), time.Second)
	assert.Equal(t, station.TestUnknownError, outcome)

	require.NoError(t, store.Set(credstore.KeySSID, "Home"))
	require.NoError(t, store.Set(credstore.KeyPass, "correct-horse"))
	require.NoError(t, mgr.Reconnect())

	select {
	case addr := <-linkUp:
		assert.NotNil(t, addr)
	case <-time.After(2 * time.Second):
		t.Fatal("link never came up after provisioning")
	}
	waitForState(mgr, station.StateConnected)

	addr, err := mgr.Address()
	require.NoError(t, err)
	assert.True(t, addr.IsPrivate())

	// --- Disruption: the AP drops the link, the backoff loop recovers.
	drv.DropLink(wifi.ReasonBeaconTimeout)
	waitForState(mgr, station.StateConnected)
	assert.Equal(t, 0, mgr.RetryAttempts())

	// --- Rejected credential change: wrong passphrase for a visible
	// network. The store keeps the old pair and the link comes back on
	// the old network.
	drv.AddAP(wifi.AccessPoint{SSID: "Guest", Passphrase: "guest-pass", RSSI: -60})
	outcome = mgr.TestAndCommitCredentials("Guest", []byte("wrong-pass"), time.Second)
	assert.Equal(t, station.TestAuthFailed, outcome)

	ssid, err := store.Get(credstore.KeySSID)
	require.NoError(t, err)
	assert.Equal(t, "Home", ssid)
	waitForState(mgr, station.StateConnected)
	assert.Equal(t, "Home", drv.CurrentSSID())

	// --- Accepted credential change.
	outcome = mgr.TestAndCommitCredentials("Guest", []byte("guest-pass"), time.Second)
	assert.Equal(t, station.TestOK, outcome)

	ssid, err = store.Get(credstore.KeySSID)
	require.NoError(t, err)
	assert.Equal(t, "Guest", ssid)
	assert.Equal(t, "Guest", drv.CurrentSSID())

	require.NoError(t, mgr.Close())

	// --- Reboot: a fresh manager and radio reconnect from the
	// persisted credentials without any provisioning step.
	drv2 := wifi.NewSimDriver(
		wifi.AccessPoint{SSID: "Guest", Passphrase: "guest-pass", RSSI: -60},
	)
	mgr2 := newManager(drv2)
	require.NoError(t, mgr2.Start())
	waitForState(mgr2, station.StateConnected)
	assert.Equal(t, "Guest", drv2.CurrentSSID())
	require.NoError(t, mgr2.Close())

	// --- The captured event log tells the whole story.
	require.NoError(t, eventLog.Close())

	r, err := log.NewReader(logPath)
	require.NoError(t, err)
	defer r.Close()

	events, err := r.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, events)

	var sawConnected, sawRetry, sawRollback, sawCommit bool
	for _, ev := range events {
		if ev.StateChange != nil && ev.StateChange.NewState == "CONNECTED" {
			sawConnected = true
		}
		if ev.Retry != nil {
			sawRetry = true
		}
		if ev.Staging != nil && ev.Staging.RolledBack {
			sawRollback = true
		}
		if ev.Staging != nil && ev.Staging.Outcome == "OK" {
			sawCommit = true
		}
	}
	assert.True(t, sawConnected, "log records a connection")
	assert.True(t, sawRetry, "log records retry scheduling")
	assert.True(t, sawRollback, "log records the rolled-back transaction")
	assert.True(t, sawCommit, "log records the committed transaction")
}
