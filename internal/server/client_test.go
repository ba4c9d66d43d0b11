package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/untapfree/untap-server-go/internal/auth"
	"github.com/untapfree/untap-server-go/internal/session"
	"go.uber.org/zap"
)

// dialClient upgrades one connection through a test server and hands back
// the server-side client plus the dialer side.
func dialClient(t *testing.T, hub *Hub) (*client, *websocket.Conn) {
	t.Helper()

	clients := make(chan *client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		clients <- newClient(hub, conn, zap.NewNop())
	}))
	t.Cleanup(srv.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	return <-clients, ws
}

func TestEnqueueDropsSlowClient(t *testing.T) {
	hub := NewHub(nil, auth.AllowAny{}, session.NewManager(time.Minute, zap.NewNop()), 20, zap.NewNop())
	c, _ := dialClient(t, hub)

	// No write pump is draining; fill the queue to force the overflow path.
	for i := 0; i < sendQueueSize; i++ {
		c.send <- []byte(`{}`)
	}
	c.enqueue([]byte(`{}`))

	// The drop must close the socket, not just unsubscribe.
	err := c.conn.WriteMessage(websocket.TextMessage, []byte(`{}`))
	assert.Error(t, err)
}

func TestEnqueueDeliversWhenQueueHasRoom(t *testing.T) {
	hub := NewHub(nil, auth.AllowAny{}, session.NewManager(time.Minute, zap.NewNop()), 20, zap.NewNop())
	c, _ := dialClient(t, hub)

	c.enqueue([]byte(`{"type":"pong"}`))

	select {
	case payload := <-c.send:
		assert.JSONEq(t, `{"type":"pong"}`, string(payload))
	default:
		t.Fatal("payload was not queued")
	}
}
