package config

import "time"

type SessionConfig interface {
	GetInactivityBudget() time.Duration
	GetSessionCheckInterval() time.Duration
	GetCodeCountdown() time.Duration
	GetResendCooldown() time.Duration
	GetHTTPTimeout() time.Duration
}

type Session struct {
	file File
}

var _ SessionConfig = Session{}

// GetInactivityBudget returns the maximum idle time before automatic logout.
// The product default is 15 minutes.
func (s Session) GetInactivityBudget() time.Duration {
	if s.file.InactivityMinutes > 0 {
		return time.Duration(s.file.InactivityMinutes) * time.Minute
	}
	return 15 * time.Minute
}

func (s Session) GetSessionCheckInterval() time.Duration {
	if s.file.SessionCheckSeconds > 0 {
		return time.Duration(s.file.SessionCheckSeconds) * time.Second
	}
	return 30 * time.Second
}

// GetCodeCountdown returns the UI countdown for emailed login codes. The server
// remains authoritative on actual code expiry.
func (s Session) GetCodeCountdown() time.Duration {
	if s.file.CodeCountdownSeconds > 0 {
		return time.Duration(s.file.CodeCountdownSeconds) * time.Second
	}
	return 900 * time.Second
}

func (s Session) GetResendCooldown() time.Duration {
	if s.file.ResendCooldownSeconds > 0 {
		return time.Duration(s.file.ResendCooldownSeconds) * time.Second
	}
	return 30 * time.Second
}

func (s Session) GetHTTPTimeout() time.Duration {
	if s.file.HTTPTimeoutSeconds > 0 {
		return time.Duration(s.file.HTTPTimeoutSeconds) * time.Second
	}
	return 15 * time.Second
}
