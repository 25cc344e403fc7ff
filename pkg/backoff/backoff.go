package backoff

import (
	"math/rand"
	"sync"
	"time"
)

// Reconnection policy constants.
const (
	// Base is the initial reconnection delay.
	Base = 1 * time.Second

	// Max is the maximum reconnection delay, before jitter.
	Max = 60 * time.Second

	// JitterWindow is the width of the uniform jitter added to every delay.
	JitterWindow = 1 * time.Second

	// MaxRetryBeforeRestart is the attempt count at which the scheduled
	// action becomes a full radio restart instead of a reconnect.
	MaxRetryBeforeRestart = 20
)

// Config allows customizing the delay policy, mainly so tests can run
// at millisecond scale. Zero fields mean the standard constants; a
// negative Jitter disables jitter entirely.
type Config struct {
	Base   time.Duration
	Max    time.Duration
	Jitter time.Duration
}

// Backoff computes jittered exponential reconnection delays.
// It is stateless with respect to the attempt counter: the caller owns
// the counter and passes it in, since the counter's lifecycle (reset on
// address acquisition or successful restart) belongs to the state machine.
type Backoff struct {
	mu  sync.Mutex
	cfg Config
	rng *rand.Rand
}

// New creates a backoff calculator with the standard policy.
func New() *Backoff {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a backoff calculator with a custom policy.
// Zero fields fall back to the standard constants; every delay carries
// jitter unless the config asks for none with a negative Jitter.
func NewWithConfig(cfg Config) *Backoff {
	if cfg.Base <= 0 {
		cfg.Base = Base
	}
	if cfg.Max <= 0 {
		cfg.Max = Max
	}
	if cfg.Jitter == 0 {
		cfg.Jitter = JitterWindow
	} else if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}

	return &Backoff{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Delay returns the delay before reconnect attempt number attempt
// (zero-based): min(Base << attempt, Max) plus jitter.
func (b *Backoff) Delay(attempt int) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	base := b.cfg.Base
	for i := 0; i < attempt && base < b.cfg.Max; i++ {
		base *= 2
	}
	if base > b.cfg.Max {
		base = b.cfg.Max
	}

	if b.cfg.Jitter > 0 {
		base += time.Duration(b.rng.Int63n(int64(b.cfg.Jitter)))
	}
	return base
}

// BaseDelay returns the delay for an attempt without jitter.
func (b *Backoff) BaseDelay(attempt int) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	base := b.cfg.Base
	for i := 0; i < attempt && base < b.cfg.Max; i++ {
		base *= 2
	}
	if base > b.cfg.Max {
		base = b.cfg.Max
	}
	return base
}

// Sequence returns the base delay progression (without jitter) up to
// the maximum, for the standard policy.
func Sequence() []time.Duration {
	return []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		60 * time.Second, // max
	}
}
