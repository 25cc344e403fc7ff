package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes connectivity events to an slog.Logger.
// Useful for development when you want to see link events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("interface", event.Interface),
		slog.String("category", event.Category.String()),
	}

	if event.EpisodeID != "" {
		attrs = append(attrs, slog.String("episode_id", event.EpisodeID))
	}

	// Add type-specific attributes
	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
		if event.StateChange.Addr != "" {
			attrs = append(attrs, slog.String("addr", event.StateChange.Addr))
		}
	case event.Retry != nil:
		attrs = append(attrs,
			slog.Int("attempt", event.Retry.Attempt),
			slog.Duration("delay", event.Retry.Delay),
		)
		if event.Retry.Restart {
			attrs = append(attrs, slog.Bool("restart", true))
		}
	case event.Staging != nil:
		attrs = append(attrs,
			slog.String("transaction_id", event.Staging.TransactionID),
			slog.String("ssid", event.Staging.SSID),
		)
		if event.Staging.Outcome != "" {
			attrs = append(attrs, slog.String("outcome", event.Staging.Outcome))
		}
		if event.Staging.RolledBack {
			attrs = append(attrs, slog.Bool("rolled_back", true))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("context", event.Error.Context),
			slog.String("error", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "link event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
