// Package station implements the network connectivity manager: the
// link state machine, the backoff-driven reconnection loop, and the
// credential test-and-commit transaction.
//
// # State machine
//
// The Manager owns a single station-mode link with three states:
//
//	DISCONNECTED -> CONNECTING   on station-started (issues connect)
//	CONNECTING   -> CONNECTED    on address-acquired
//	CONNECTED    -> DISCONNECTED on disconnect (schedules reconnect)
//
// Reconnect attempts repeat from DISCONNECTED with exponential backoff
// (see package backoff); after the retry ceiling the scheduled action
// becomes a full radio restart. The loop never gives up: an unreachable
// access point means capped-interval retry forever, keeping an
// unattended device self-healing.
//
// # Concurrency
//
// Three execution contexts touch the manager:
//
//   - the dispatcher goroutine draining driver events (never blocks)
//   - the reconnect timer goroutine (may issue driver commands)
//   - callers of TestAndCommitCredentials (block up to their timeout)
//
// Driver events flow through a single dispatcher that forwards to a
// swappable listener: normally the state machine's transition handler,
// or, while a staging transaction is active, the transaction's own
// listener. This is what keeps ordinary reconnection logic from
// interfering with a credential test.
//
// # Credential staging
//
// TestAndCommitCredentials applies candidate credentials to the driver
// without persisting them, waits a bounded time for the link to come
// up, and only then commits them to the store. Any failure restores
// the previous working credentials to the driver and leaves the store
// untouched, so a bad credential change can never strand the device.
package station
