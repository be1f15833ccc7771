package twofactor

import (
	"fmt"
	"sync"
	"time"
)

// Countdown tracks the UI guidance timer for an emailed code. It is fixed at
// the configured budget regardless of the server's actual code TTL; expiry
// surfaces a warning but never blocks a verify attempt.
type Countdown struct {
	duration time.Duration
	nowFunc  func() time.Time
	onExpire func()

	lock       sync.Mutex
	deadline   time.Time
	timer      *time.Timer
	stopped    bool
	generation uint64
}

func newCountdown(duration time.Duration, nowFunc func() time.Time, onExpire func()) *Countdown {
	c := &Countdown{
		duration: duration,
		nowFunc:  nowFunc,
		onExpire: onExpire,
	}
	c.Reset()
	return c
}

// Reset restarts the countdown from the full budget, cancelling any pending
// expiry timer first. The generation bump invalidates a timer that already
// fired but has not run yet (Stop on a fired timer is a no-op).
func (c *Countdown) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.stopped = false
	c.generation++
	generation := c.generation
	c.deadline = c.nowFunc().Add(c.duration)
	c.timer = time.AfterFunc(c.duration, func() { c.expire(generation) })
}

func (c *Countdown) expire(generation uint64) {
	c.lock.Lock()
	if c.stopped || generation != c.generation {
		c.lock.Unlock()
		return
	}
	c.lock.Unlock()

	if c.onExpire != nil {
		c.onExpire()
	}
}

// Stop cancels the countdown and its pending expiry warning.
func (c *Countdown) Stop() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Remaining returns the time left, floored at zero.
func (c *Countdown) Remaining() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()

	remaining := c.deadline.Sub(c.nowFunc())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the countdown has run out.
func (c *Countdown) Expired() bool {
	return c.Remaining() == 0
}

// Formatted renders the remaining time as mm:ss.
func (c *Countdown) Formatted() string {
	remaining := int(c.Remaining().Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}
