// Package credstore provides the persistent key/value store for
// wireless credentials.
//
// The connectivity manager reads and writes exactly two keys, KeySSID
// and KeyPass. The Store interface keeps the manager independent of
// the storage backend: devices use FileStore (a small JSON file, mode
// 0600), tests use MemStore.
//
// Candidate credentials being tested by a staging transaction never
// reach the store; only a successful transaction commits them.
package credstore
