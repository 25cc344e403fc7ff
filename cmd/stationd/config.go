package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Network describes a simulated access point from the config file.
type Network struct {
	SSID       string `yaml:"ssid"`
	Passphrase string `yaml:"passphrase"`
	RSSI       int    `yaml:"rssi"`
}

// Config holds the daemon configuration, merged from the optional
// YAML file and command-line flags. Flags win.
type Config struct {
	Interface    string    `yaml:"interface"`
	StorePath    string    `yaml:"store"`
	EventLogPath string    `yaml:"event_log"`
	LogLevel     string    `yaml:"log_level"`
	InstanceName string    `yaml:"instance_name"`
	Port         int       `yaml:"port"`
	Announce     bool      `yaml:"announce"`
	Networks     []Network `yaml:"networks"`

	Interactive bool `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		Interface:    "wlan0",
		StorePath:    "stationd-store.json",
		LogLevel:     "info",
		InstanceName: "netkeeper",
		Port:         5540,
		Announce:     true,
		Interactive:  true,
	}
}

// loadConfig parses flags and, when -config is given, merges the YAML
// file underneath them.
func loadConfig() (Config, error) {
	def := defaultConfig()

	configFile := flag.String("config", "", "Configuration file path (YAML)")
	storePath := flag.String("store", def.StorePath, "Credential store path")
	eventLog := flag.String("event-log", "", "Connectivity event log path (CBOR, empty disables)")
	logLevel := flag.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")
	name := flag.String("name", def.InstanceName, "mDNS instance name")
	port := flag.Int("port", def.Port, "Advertised service port")
	doAnnounce := flag.Bool("announce", def.Announce, "Advertise over mDNS while the link is up")
	interactiveMode := flag.Bool("interactive", def.Interactive, "Run the interactive console")
	flag.Parse()

	cfg := def
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	// Explicitly set flags override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.StorePath = *storePath
		case "event-log":
			cfg.EventLogPath = *eventLog
		case "log-level":
			cfg.LogLevel = *logLevel
		case "name":
			cfg.InstanceName = *name
		case "port":
			cfg.Port = *port
		case "announce":
			cfg.Announce = *doAnnounce
		}
	})
	cfg.Interactive = *interactiveMode

	if *configFile == "" {
		cfg.StorePath = *storePath
		cfg.EventLogPath = *eventLog
		cfg.LogLevel = *logLevel
		cfg.InstanceName = *name
		cfg.Port = *port
		cfg.Announce = *doAnnounce
	}

	return cfg, nil
}
