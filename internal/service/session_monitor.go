package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/rs/zerolog"
)

// WarningThreshold is the number of simultaneous active admin sessions above
// which snapshots carry an advisory warning.
const WarningThreshold = 2

// SessionMonitor tracks admin panel heartbeats in memory. Activity is always
// computed from last_seen at read time, so restarting the process only
// resets the advisory presence display; nothing is persisted.
type SessionMonitor struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	window   time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

type sessionEntry struct {
	userAgent string
	lastSeen  time.Time
}

// NewSessionMonitor creates a monitor whose sessions count as active while
// their last heartbeat is within window. The hourly prune goroutine runs
// until ctx is cancelled.
func NewSessionMonitor(ctx context.Context, window time.Duration, log zerolog.Logger) *SessionMonitor {
	m := &SessionMonitor{
		sessions: make(map[string]sessionEntry),
		window:   window,
		now:      time.Now,
		log:      log.With().Str("component", "session_monitor").Logger(),
	}

	// Sweep long-gone sessions every hour; memory hygiene only.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.prune()
			}
		}
	}()

	return m
}

// Heartbeat records activity for a client.
func (m *SessionMonitor) Heartbeat(clientID, userAgent string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[clientID] = sessionEntry{userAgent: userAgent, lastSeen: m.now()}
}

// Snapshot returns the sessions active within the window, newest first.
func (m *SessionMonitor) Snapshot() model.SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.window)
	active := make([]model.SessionInfo, 0)
	for id, e := range m.sessions {
		if e.lastSeen.After(cutoff) {
			active = append(active, model.SessionInfo{
				ClientID:  id,
				UserAgent: e.userAgent,
				LastSeen:  e.lastSeen,
			})
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].LastSeen.After(active[j].LastSeen) })

	return model.SessionSnapshot{
		Active:        len(active),
		WindowMinutes: int(m.window / time.Minute),
		Warning:       len(active) > WarningThreshold,
		Sessions:      active,
	}
}

func (m *SessionMonitor) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-10 * m.window)
	removed := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Debug().Int("removed", removed).Msg("Stale sessions pruned")
	}
}
