package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truccoanalytics/internal/shared/testutil"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r, logger)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastDatasetLoaded(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	srv := newTestServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastDatasetLoaded(context.Background(), "session-1", map[string]any{"rows": 4})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, TypeDatasetLoaded, msg.Type)
	assert.Equal(t, "session-1", msg.SessionID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestHub_MultipleClients(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	srv := newTestServer(t, hub)
	connA := dial(t, srv)
	connB := dial(t, srv)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastKPIRefreshed(context.Background(), "session-1", nil)

	for _, conn := range []*websocket.Conn{connA, connB} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, TypeKPIRefreshed, msg.Type)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	srv := newTestServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHub_StartIsIdempotent(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger)
	hub.Start()
	hub.Start()
	hub.Stop()
}
