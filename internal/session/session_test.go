package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateAndGetSession(t *testing.T) {
	m := NewManager(5*time.Minute, zap.NewNop())

	sess := m.CreateSession("s1", "127.0.0.1:5000")
	sess.SetUserID("alice")

	got, ok := m.GetSession("s1")
	require.True(t, ok)
	assert.Equal(t, "alice", got.GetUserID())
	assert.Equal(t, "127.0.0.1:5000", got.Host)
	assert.Equal(t, 1, m.ActiveSessions())
}

func TestRemoveSession(t *testing.T) {
	m := NewManager(5*time.Minute, zap.NewNop())
	m.CreateSession("s1", "host")

	m.RemoveSession("s1")

	_, ok := m.GetSession("s1")
	assert.False(t, ok)
	assert.Equal(t, 0, m.ActiveSessions())
}

func TestExpireDropsIdleSessions(t *testing.T) {
	m := NewManager(50*time.Millisecond, zap.NewNop())
	idle := m.CreateSession("idle", "host")
	m.CreateSession("active", "host")

	idle.mu.Lock()
	idle.lastActivity = time.Now().Add(-time.Second)
	idle.mu.Unlock()

	m.expire()

	_, ok := m.GetSession("idle")
	assert.False(t, ok)
	_, ok = m.GetSession("active")
	assert.True(t, ok)
}

func TestUpdateActivityRefreshesLease(t *testing.T) {
	m := NewManager(50*time.Millisecond, zap.NewNop())
	sess := m.CreateSession("s1", "host")

	sess.mu.Lock()
	sess.lastActivity = time.Now().Add(-time.Second)
	sess.mu.Unlock()

	m.UpdateActivity("s1")
	m.expire()

	_, ok := m.GetSession("s1")
	assert.True(t, ok)
}

func TestUpdateActivityUnknownSessionIsNoOp(t *testing.T) {
	m := NewManager(time.Minute, zap.NewNop())
	m.UpdateActivity("missing")
	assert.Equal(t, 0, m.ActiveSessions())
}
