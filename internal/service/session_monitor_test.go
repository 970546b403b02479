package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMonitor(t *testing.T, window time.Duration) (*SessionMonitor, *time.Time) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := NewSessionMonitor(ctx, window, zerolog.Nop())
	current := time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }
	return m, &current
}

func TestSessionMonitorSnapshot(t *testing.T) {
	m, clock := newTestMonitor(t, 5*time.Minute)

	m.Heartbeat("cli-1", "Mozilla/5.0")
	*clock = clock.Add(1 * time.Minute)
	m.Heartbeat("cli-2", "Mozilla/5.0 (Android)")

	snap := m.Snapshot()
	assert.Equal(t, 2, snap.Active)
	assert.Equal(t, 5, snap.WindowMinutes)
	assert.False(t, snap.Warning)

	// Newest first.
	require.Len(t, snap.Sessions, 2)
	assert.Equal(t, "cli-2", snap.Sessions[0].ClientID)
	assert.Equal(t, "cli-1", snap.Sessions[1].ClientID)
}

func TestSessionMonitorExpiresOutsideWindow(t *testing.T) {
	m, clock := newTestMonitor(t, 5*time.Minute)

	m.Heartbeat("cli-1", "ua")
	*clock = clock.Add(6 * time.Minute)

	snap := m.Snapshot()
	assert.Equal(t, 0, snap.Active)
	assert.Empty(t, snap.Sessions)
}

func TestSessionMonitorHeartbeatUpserts(t *testing.T) {
	m, clock := newTestMonitor(t, 5*time.Minute)

	m.Heartbeat("cli-1", "ua-old")
	*clock = clock.Add(4 * time.Minute)
	m.Heartbeat("cli-1", "ua-new")
	*clock = clock.Add(4 * time.Minute)

	// Still active because the second heartbeat refreshed last_seen.
	snap := m.Snapshot()
	require.Equal(t, 1, snap.Active)
	assert.Equal(t, "ua-new", snap.Sessions[0].UserAgent)
}

func TestSessionMonitorWarningAboveTwoSessions(t *testing.T) {
	m, _ := newTestMonitor(t, 5*time.Minute)

	m.Heartbeat("cli-1", "ua")
	m.Heartbeat("cli-2", "ua")
	assert.False(t, m.Snapshot().Warning)

	m.Heartbeat("cli-3", "ua")
	snap := m.Snapshot()
	assert.Equal(t, 3, snap.Active)
	assert.True(t, snap.Warning)
}

func TestSessionMonitorPrune(t *testing.T) {
	m, clock := newTestMonitor(t, 5*time.Minute)

	m.Heartbeat("cli-old", "ua")
	*clock = clock.Add(51 * time.Minute)
	m.Heartbeat("cli-new", "ua")

	m.prune()

	m.mu.Lock()
	defer m.mu.Unlock()
	_, oldKept := m.sessions["cli-old"]
	_, newKept := m.sessions["cli-new"]
	assert.False(t, oldKept)
	assert.True(t, newKept)
}
