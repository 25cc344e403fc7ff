// Package backoff provides the reconnection delay policy and the
// one-shot scheduler used by the connectivity manager.
//
// # Reconnection strategy
//
// After each disconnection the manager waits before reconnecting:
//
//  1. Base delay: 1 second
//  2. Exponential increase per attempt: 2s, 4s, 8s, 16s, 32s
//  3. Maximum delay: 60 seconds
//  4. Continue at 60s until successful
//  5. Reset to 1s on successful address acquisition
//
// # Jitter
//
// Every delay adds a uniform random jitter in [0, 1s) so a fleet of
// devices does not hammer a recovering access point in lockstep:
//
//	delay = min(1s << attempt, 60s) + random(0, 1s)
//
// # Restart ceiling
//
// Once MaxRetryBeforeRestart consecutive attempts have failed, the
// scheduled action escalates from a plain reconnect to a full radio
// restart (stop, brief pause, start). A successful restart resets the
// attempt counter; a failed one increments it, so the next tick tries
// the restart again rather than looping immediately.
package backoff
