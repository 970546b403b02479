package model

import "time"

// SessionInfo describes one tracked admin session.
type SessionInfo struct {
	ClientID  string    `json:"client_id"`
	UserAgent string    `json:"user_agent"`
	LastSeen  time.Time `json:"last_seen"`
}

// SessionSnapshot is the activity view returned by the session monitor.
// Warning is advisory only; nothing is ever blocked because of it.
type SessionSnapshot struct {
	Active        int           `json:"active"`
	WindowMinutes int           `json:"window_minutes"`
	Warning       bool          `json:"warning"`
	Sessions      []SessionInfo `json:"sessions"`
}
