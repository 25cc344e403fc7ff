package announce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresInstanceName(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	a, err := New(Config{InstanceName: "netkeeper-test"})
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, a.config.Port)
	assert.Equal(t, DefaultTTL, a.config.TTL)
	assert.False(t, a.Running())
}

func TestStopWithoutStart(t *testing.T) {
	a, err := New(Config{InstanceName: "netkeeper-test", Port: 5541, TTL: time.Minute})
	require.NoError(t, err)

	// Must be a safe no-op.
	a.Stop()
	assert.False(t, a.Running())
}
