// Package idle implements the client-side inactivity clock: a single timer
// that resets on user-activity signals and forces a logout once the
// inactivity budget elapses without one.
package idle

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nubarte/marketplace-client/nav"
)

// Activity identifies a monitored user-activity signal. The set mirrors the
// document-level events the browser client listened for.
type Activity int

const (
	PointerPress Activity = iota
	PointerMove
	KeyPress
	Scroll
	TouchStart
	Click
)

// MonitoredActivities is the fixed set of signals that reset the deadline.
var MonitoredActivities = []Activity{PointerPress, PointerMove, KeyPress, Scroll, TouchStart, Click}

const inactivityMessage = "Tu sesión ha expirado por inactividad. Por favor, inicia sesión nuevamente."

// Monitor arms a deadline a fixed budget after the most recent activity
// signal. On expiry it disarms itself, notifies the user and invokes the full
// logout path, in that order.
type Monitor struct {
	budget    time.Duration
	notifier  nav.Notifier
	onTimeout func()
	nowFunc   func() time.Time

	lock       sync.Mutex
	armed      bool
	timer      *time.Timer
	deadline   time.Time
	generation uint64
}

// MonitorOption modifies the Monitor instance.
type MonitorOption func(*Monitor)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) MonitorOption {
	return func(m *Monitor) {
		m.nowFunc = nowFunc
	}
}

// NewMonitor creates a disarmed monitor. onTimeout must perform the full
// logout (credential clear plus validator stop) and must be idempotent.
func NewMonitor(budget time.Duration, notifier nav.Notifier, onTimeout func(), options ...MonitorOption) *Monitor {
	m := &Monitor{
		budget:    budget,
		notifier:  notifier,
		onTimeout: onTimeout,
		nowFunc:   time.Now,
	}
	if m.notifier == nil {
		m.notifier = nav.NotifierFunc(func(string) {})
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// StartMonitoring arms the deadline. Calling it while already armed is a
// no-op, so at most one deadline timer exists.
func (m *Monitor) StartMonitoring() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.armed {
		return
	}
	m.armed = true
	m.resetLocked()
	log.Debug().Dur("budget", m.budget).Msg("inactivity monitoring started")
}

// Signal records a user-activity event, invalidating any prior pending
// deadline. Signals while disarmed are ignored.
func (m *Monitor) Signal(_ Activity) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.armed {
		return
	}
	m.resetLocked()
}

// resetLocked replaces the pending timer. The previous timer is always
// stopped first, and the generation bump invalidates a timer that already
// fired but has not run yet (Stop on a fired timer is a no-op).
func (m *Monitor) resetLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.generation++
	generation := m.generation
	m.deadline = m.nowFunc().Add(m.budget)
	m.timer = time.AfterFunc(m.budget, func() { m.handleTimeout(generation) })
}

func (m *Monitor) handleTimeout(generation uint64) {
	m.lock.Lock()
	if !m.armed || generation != m.generation {
		// A stale fire racing a reset or stop; ignore.
		m.lock.Unlock()
		return
	}
	// Disarm before doing anything else to avoid re-entrancy.
	m.armed = false
	m.timer = nil
	m.lock.Unlock()

	log.Warn().Msg("session expired due to inactivity")
	m.notifier.Notify(inactivityMessage)
	m.onTimeout()
}

// StopMonitoring cancels the pending deadline and disarms the monitor.
// Idempotent; stopping a never-started monitor is a no-op.
func (m *Monitor) StopMonitoring() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.armed {
		log.Debug().Msg("inactivity monitoring stopped")
	}
	m.armed = false
}

// Armed reports whether a deadline is currently pending.
func (m *Monitor) Armed() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.armed
}

// Deadline returns the instant the session will time out absent activity.
func (m *Monitor) Deadline() time.Time {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.deadline
}
