package twofactor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCountdownRemainingAndFormatted(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	c := newCountdown(900*time.Second, func() time.Time { return now }, nil)
	defer c.Stop()

	require.Equal(t, 15*time.Minute, c.Remaining())
	require.Equal(t, "15:00", c.Formatted())

	now = now.Add(14*time.Minute + 53*time.Second)
	require.Equal(t, 7*time.Second, c.Remaining())
	require.Equal(t, "00:07", c.Formatted())
	require.False(t, c.Expired())

	now = now.Add(time.Minute)
	require.Equal(t, time.Duration(0), c.Remaining())
	require.True(t, c.Expired())
	require.Equal(t, "00:00", c.Formatted())
}

func TestCountdownResetRestoresFullBudget(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	c := newCountdown(900*time.Second, func() time.Time { return now }, nil)
	defer c.Stop()

	now = now.Add(10 * time.Minute)
	require.Equal(t, 5*time.Minute, c.Remaining())

	c.Reset()
	require.Equal(t, 15*time.Minute, c.Remaining())
}

func TestCountdownExpiryFiresOnce(t *testing.T) {
	var fires atomic.Int32
	c := newCountdown(20*time.Millisecond, time.Now, func() { fires.Add(1) })
	defer c.Stop()

	require.Eventually(t, func() bool {
		return fires.Load() == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(1), fires.Load())
}

func TestCountdownStaleExpiryAfterResetIsIgnored(t *testing.T) {
	var fires atomic.Int32
	c := newCountdown(time.Hour, time.Now, func() { fires.Add(1) })
	defer c.Stop()

	stale := c.generation
	c.Reset()

	// A timer that fired just before the reset runs with the old generation
	// and must not surface an expiry warning.
	c.expire(stale)
	require.Equal(t, int32(0), fires.Load())

	// The replacement deadline still expires.
	c.expire(c.generation)
	require.Equal(t, int32(1), fires.Load())
}

func TestCountdownStopSuppressesExpiry(t *testing.T) {
	var fires atomic.Int32
	c := newCountdown(30*time.Millisecond, time.Now, func() { fires.Add(1) })

	c.Stop()
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(0), fires.Load())
}
