package backoff

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDelaySequence(t *testing.T) {
	b := New()

	// Expected base sequence: 1s, 2s, 4s, 8s, 16s, 32s, 60s, 60s...
	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		60 * time.Second,
		60 * time.Second, // capped
		60 * time.Second,
	}

	for attempt, want := range expected {
		if got := b.BaseDelay(attempt); got != want {
			t.Errorf("BaseDelay(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestDelayJitterBounds(t *testing.T) {
	b := New()

	for attempt := 0; attempt < 10; attempt++ {
		base := b.BaseDelay(attempt)
		for i := 0; i < 20; i++ {
			d := b.Delay(attempt)
			if d < base || d >= base+JitterWindow {
				t.Fatalf("Delay(%d) = %v out of [%v, %v)", attempt, d, base, base+JitterWindow)
			}
		}
	}
}

func TestDelayJitterVaries(t *testing.T) {
	b := New()

	samples := make([]time.Duration, 10)
	for i := range samples {
		samples[i] = b.Delay(0)
	}

	allSame := true
	for i := 1; i < len(samples); i++ {
		if samples[i] != samples[0] {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("all jittered samples are identical - jitter may not be working")
	}
}

func TestDelayMonotoneBeforeCap(t *testing.T) {
	b := New()

	// While the attempt counter increases, the base delay never decreases.
	prev := time.Duration(0)
	for attempt := 0; attempt < 30; attempt++ {
		d := b.BaseDelay(attempt)
		if d < prev {
			t.Fatalf("BaseDelay(%d) = %v decreased from %v", attempt, d, prev)
		}
		prev = d
	}
	if prev != Max {
		t.Errorf("final base delay = %v, want %v", prev, Max)
	}
}

func TestDelayLargeAttemptNoOverflow(t *testing.T) {
	b := New()

	for _, attempt := range []int{63, 64, 100, 1 << 20} {
		if got := b.BaseDelay(attempt); got != Max {
			t.Errorf("BaseDelay(%d) = %v, want %v", attempt, got, Max)
		}
	}
}

func TestZeroConfigKeepsJitter(t *testing.T) {
	// A zero config is the standard policy, and the standard policy
	// always jitters: devices sharing a recovering AP must not retry
	// in lockstep.
	b := NewWithConfig(Config{})

	base := b.BaseDelay(0)
	varied := false
	for i := 0; i < 50; i++ {
		d := b.Delay(0)
		if d < base || d >= base+JitterWindow {
			t.Fatalf("Delay(0) = %v out of [%v, %v)", d, base, base+JitterWindow)
		}
		if d != base {
			varied = true
		}
	}
	if !varied {
		t.Error("zero-config delays never varied from the base")
	}
}

func TestCustomConfig(t *testing.T) {
	b := NewWithConfig(Config{Base: 10 * time.Millisecond, Max: 40 * time.Millisecond, Jitter: -1})

	wants := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		40 * time.Millisecond,
	}
	for attempt, want := range wants {
		if got := b.Delay(attempt); got != want {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestSchedulerFires(t *testing.T) {
	s := NewScheduler()

	var fired atomic.Int32
	done := make(chan struct{})
	s.Arm(5*time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not fire")
	}

	if fired.Load() != 1 {
		t.Errorf("fired %d times, want 1", fired.Load())
	}
	if s.Pending() {
		t.Error("Pending() = true after fire")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()

	var fired atomic.Int32
	s.Arm(10*time.Millisecond, func() { fired.Add(1) })
	s.Cancel()

	time.Sleep(30 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("cancelled timer still fired")
	}
	if s.Pending() {
		t.Error("Pending() = true after cancel")
	}
}

func TestSchedulerRearmReplaces(t *testing.T) {
	s := NewScheduler()

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	s.Arm(20*time.Millisecond, func() { first <- struct{}{} })
	s.Arm(5*time.Millisecond, func() { second <- struct{}{} })

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("replacement timer did not fire")
	}

	select {
	case <-first:
		t.Error("replaced timer still fired")
	case <-time.After(40 * time.Millisecond):
	}
}
