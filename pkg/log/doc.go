// Package log provides structured connectivity-event capture.
//
// This package defines the Logger interface and Event types for
// recording what the connectivity manager did and why: link state
// transitions, scheduled reconnect attempts, radio restarts, and
// credential staging transactions. It is separate from operational
// logging (slog) - event capture provides a complete machine-readable
// trace for post-mortem analysis of connectivity incidents.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/netkeeper/link.nklog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a CBOR event stream with integer map keys, extension
// .nklog. Reader iterates a file with optional filtering.
package log
