// Package interactive provides the interactive command-line interface
// for stationd.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/netkeeper/netkeeper-go/pkg/credstore"
	"github.com/netkeeper/netkeeper-go/pkg/station"
	"github.com/netkeeper/netkeeper-go/pkg/wifi"
)

// Console handles interactive mode for stationd.
type Console struct {
	mgr   *station.Manager
	drv   *wifi.SimDriver
	store credstore.Store
	rl    *readline.Instance
}

// New creates a new interactive console.
func New(mgr *station.Manager, drv *wifi.SimDriver, store credstore.Store) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "station> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{mgr: mgr, drv: drv, store: store, rl: rl}, nil
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "status", "s":
			c.cmdStatus()

		case "test", "t":
			c.cmdTest(args)

		case "reconnect":
			c.cmdReconnect()

		case "drop":
			c.cmdDrop(args)

		case "ap":
			c.cmdAP(args)

		case "creds":
			c.cmdCreds()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Station Commands:
  Link:
    status              - Show link state, address and signal strength
    test <ssid> <pass> [secs] - Test credentials, commit on success
    reconnect           - Reconnect with the stored credentials
    creds               - Show the stored SSID

  Fault Injection:
    drop [reason]       - Drop the link (reason: beacon, auth, leave)
    ap add <ssid> <pass> [rssi] - Make an access point visible
    ap del <ssid>       - Hide an access point

  General:
    help                - Show this help
    quit                - Exit`)
}

// cmdStatus shows the current link status.
func (c *Console) cmdStatus() {
	out := c.rl.Stdout()

	state := c.mgr.State()
	fmt.Fprintf(out, "State:    %s\n", state)
	fmt.Fprintf(out, "Retries:  %d\n", c.mgr.RetryAttempts())

	mac, err := c.mgr.MAC()
	if err == nil {
		fmt.Fprintf(out, "MAC:      %s\n", mac)
	}

	if state != station.StateConnected {
		return
	}

	if addr, err := c.mgr.Address(); err == nil {
		fmt.Fprintf(out, "Address:  %s\n", addr)
	}
	if mask, err := c.mgr.Netmask(); err == nil {
		fmt.Fprintf(out, "Netmask:  %s\n", mask)
	}
	if gw, err := c.mgr.Gateway(); err == nil {
		fmt.Fprintf(out, "Gateway:  %s\n", gw)
	}
	if rssi, err := c.mgr.SignalStrength(); err == nil {
		fmt.Fprintf(out, "RSSI:     %d dBm\n", rssi)
	}
}

// cmdTest runs a credential staging transaction.
func (c *Console) cmdTest(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: test <ssid> [passphrase] [timeout-seconds]")
		return
	}

	ssid := args[0]
	var pass []byte
	if len(args) > 1 {
		pass = []byte(args[1])
	}
	timeout := station.DefaultTestTimeout
	if len(args) > 2 {
		secs, err := strconv.Atoi(args[2])
		if err != nil || secs <= 0 {
			fmt.Fprintf(c.rl.Stdout(), "Invalid timeout: %s\n", args[2])
			return
		}
		timeout = time.Duration(secs) * time.Second
	}

	fmt.Fprintf(c.rl.Stdout(), "Testing credentials for %q...\n", ssid)
	start := time.Now()
	outcome := c.mgr.TestAndCommitCredentials(ssid, pass, timeout)
	elapsed := time.Since(start).Round(time.Millisecond)

	if outcome == station.TestOK {
		fmt.Fprintf(c.rl.Stdout(), "OK: credentials committed (%s)\n", elapsed)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "FAILED: %s (%s, token %q)\n", outcome, elapsed, outcome.Token())
}

// cmdReconnect reconnects with the stored credentials.
func (c *Console) cmdReconnect() {
	if err := c.mgr.Reconnect(); err != nil {
		if errors.Is(err, station.ErrNoCredentials) {
			fmt.Fprintln(c.rl.Stdout(), "No stored credentials; use 'test' first")
			return
		}
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Reconnecting...")
}

// cmdDrop injects an AP-side disconnection.
func (c *Console) cmdDrop(args []string) {
	reason := wifi.ReasonBeaconTimeout
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "beacon":
			reason = wifi.ReasonBeaconTimeout
		case "auth":
			reason = wifi.ReasonAuthFail
		case "leave":
			reason = wifi.ReasonAssocLeave
		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown reason: %s (beacon, auth, leave)\n", args[0])
			return
		}
	}

	c.drv.DropLink(reason)
	fmt.Fprintf(c.rl.Stdout(), "Dropped link (%s)\n", reason)
}

// cmdAP manages the simulated access points.
func (c *Console) cmdAP(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: ap add <ssid> <pass> [rssi] | ap del <ssid>")
		return
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			fmt.Fprintln(c.rl.Stdout(), "Usage: ap add <ssid> <pass> [rssi]")
			return
		}
		rssi := -60
		if len(args) > 3 {
			v, err := strconv.Atoi(args[3])
			if err != nil {
				fmt.Fprintf(c.rl.Stdout(), "Invalid RSSI: %s\n", args[3])
				return
			}
			rssi = v
		}
		c.drv.AddAP(wifi.AccessPoint{SSID: args[1], Passphrase: args[2], RSSI: rssi})
		fmt.Fprintf(c.rl.Stdout(), "Access point %q visible (RSSI %d)\n", args[1], rssi)

	case "del":
		if len(args) < 2 {
			fmt.Fprintln(c.rl.Stdout(), "Usage: ap del <ssid>")
			return
		}
		c.drv.RemoveAP(args[1])
		fmt.Fprintf(c.rl.Stdout(), "Access point %q hidden\n", args[1])

	default:
		fmt.Fprintf(c.rl.Stdout(), "Unknown subcommand: %s\n", args[0])
	}
}

// cmdCreds shows the stored SSID. The passphrase is never printed.
func (c *Console) cmdCreds() {
	ssid, err := c.store.Get(credstore.KeySSID)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			fmt.Fprintln(c.rl.Stdout(), "No stored credentials")
			return
		}
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Stored SSID: %q\n", ssid)
}
