// Command stationd runs the network connectivity manager against a
// simulated radio.
//
// The daemon loads persisted credentials, brings the station link up,
// keeps it up with the backoff reconnection loop, and exposes an
// interactive console for provisioning and fault injection. Once the
// link holds an address the device is advertised over mDNS.
//
// Usage:
//
//	stationd [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-store string      Credential store path (default "stationd-store.json")
//	-event-log string  Connectivity event log path (CBOR, empty disables)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-name string       mDNS instance name (default "netkeeper")
//	-port int          Advertised service port (default 5540)
//	-announce          Advertise over mDNS while the link is up (default true)
//	-interactive       Run the interactive console (default true)
//
// Examples:
//
//	# Start with an empty store and provision from the console
//	stationd -store /tmp/store.json
//
//	# Start with simulated networks from a config file
//	stationd -config testbed.yaml -event-log /tmp/link.nklog
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/netkeeper/netkeeper-go/cmd/stationd/interactive"
	"github.com/netkeeper/netkeeper-go/pkg/announce"
	"github.com/netkeeper/netkeeper-go/pkg/credstore"
	"github.com/netkeeper/netkeeper-go/pkg/log"
	"github.com/netkeeper/netkeeper-go/pkg/station"
	"github.com/netkeeper/netkeeper-go/pkg/wifi"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stationd: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogging(cfg.LogLevel)

	logger.Info("netkeeper station daemon",
		"interface", cfg.Interface,
		"store", cfg.StorePath)

	store := credstore.NewFileStore(cfg.StorePath)

	drv := wifi.NewSimDriver()
	for _, ap := range cfg.Networks {
		drv.AddAP(wifi.AccessPoint{
			SSID:       ap.SSID,
			Passphrase: ap.Passphrase,
			RSSI:       ap.RSSI,
		})
		logger.Debug("simulated network", "ssid", ap.SSID, "rssi", ap.RSSI)
	}

	eventLogger, closeEvents, err := setupEventLog(cfg.EventLogPath, logger)
	if err != nil {
		logger.Error("open event log", "err", err)
		os.Exit(1)
	}
	defer closeEvents()

	mgr, err := station.New(station.Config{
		Driver:      drv,
		Store:       store,
		EventLogger: eventLogger,
		Interface:   cfg.Interface,
	})
	if err != nil {
		logger.Error("create manager", "err", err)
		os.Exit(1)
	}

	var adv *announce.Advertiser
	if cfg.Announce {
		adv, err = announce.New(announce.Config{
			InstanceName: cfg.InstanceName,
			Port:         cfg.Port,
			Interface:    cfg.Interface,
		})
		if err != nil {
			logger.Error("create advertiser", "err", err)
			os.Exit(1)
		}

		mgr.OnLinkUp(func(addr net.IP) {
			mac, _ := mgr.MAC()
			if err := adv.Start(addr, mac); err != nil {
				logger.Warn("mdns advertise", "err", err)
			}
		})
		mgr.OnLinkDown(func() {
			adv.Stop()
		})
	}

	mgr.OnStateChange(func(oldState, newState station.LinkState) {
		logger.Info("link state", "from", oldState, "to", newState)
	})

	if err := mgr.Start(); err != nil {
		logger.Error("start manager", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Interactive {
		console, err := interactive.New(mgr, drv, store)
		if err != nil {
			logger.Error("create console", "err", err)
			os.Exit(1)
		}
		go console.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	if adv != nil {
		adv.Stop()
	}
	if err := mgr.Close(); err != nil {
		logger.Error("stop manager", "err", err)
	}
}

// setupLogging configures the process logger.
func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// setupEventLog builds the connectivity event logger: structured
// process logs always, plus the CBOR capture file when configured.
func setupEventLog(path string, sl *slog.Logger) (log.Logger, func(), error) {
	adapter := log.NewSlogAdapter(sl)
	if path == "" {
		return adapter, func() {}, nil
	}

	fl, err := log.NewFileLogger(path)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := fl.Close(); err != nil {
			sl.Warn("close event log", "err", err)
		}
	}
	return log.NewMultiLogger(fl, adapter), closeFn, nil
}
