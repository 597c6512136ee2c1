package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(payload)
}

func TestWebSocketBroadcastRelay(t *testing.T) {
	deps := newTestDeps(t)
	ts := httptest.NewServer(Router(deps))
	defer ts.Close()

	a := dialWS(t, ts)
	b := dialWS(t, ts)
	c := dialWS(t, ts)

	require.Eventually(t, func() bool {
		return deps.Hub.ActiveConnections() == 3
	}, 2*time.Second, 10*time.Millisecond)

	first := `{"type":"message","text":"first"}`
	second := `{"type":"message","text":"second"}`
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(first)))
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(second)))

	// Every open connection receives the sender's payloads in order,
	// including the sender itself.
	for _, conn := range []*websocket.Conn{a, b, c} {
		assert.Equal(t, first, readMessage(t, conn))
		assert.Equal(t, second, readMessage(t, conn))
	}
}

func TestWebSocketPayloadForwardedVerbatim(t *testing.T) {
	deps := newTestDeps(t)
	ts := httptest.NewServer(Router(deps))
	defer ts.Close()

	a := dialWS(t, ts)
	b := dialWS(t, ts)

	require.Eventually(t, func() bool {
		return deps.Hub.ActiveConnections() == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Field order and whitespace survive the relay: the payload is forwarded
	// as the original bytes, not re-serialized.
	payload := `{ "text":"hi",  "type":"message", "extra":[1,2,3] }`
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(payload)))

	assert.Equal(t, payload, readMessage(t, b))
}

func TestWebSocketMalformedPayloadDropped(t *testing.T) {
	deps := newTestDeps(t)
	ts := httptest.NewServer(Router(deps))
	defer ts.Close()

	a := dialWS(t, ts)
	b := dialWS(t, ts)

	require.Eventually(t, func() bool {
		return deps.Hub.ActiveConnections() == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("not json at all")))

	followUp := `{"type":"message","text":"still alive"}`
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(followUp)))

	// The malformed payload vanished; the relay kept running.
	assert.Equal(t, followUp, readMessage(t, b))
}

func TestWebSocketCloseDoesNotStopDelivery(t *testing.T) {
	deps := newTestDeps(t)
	ts := httptest.NewServer(Router(deps))
	defer ts.Close()

	a := dialWS(t, ts)
	b := dialWS(t, ts)
	c := dialWS(t, ts)

	require.Eventually(t, func() bool {
		return deps.Hub.ActiveConnections() == 3
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, b.Close())

	require.Eventually(t, func() bool {
		return deps.Hub.ActiveConnections() == 2
	}, 2*time.Second, 10*time.Millisecond)

	payload := `{"type":"message","text":"after close"}`
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(payload)))

	assert.Equal(t, payload, readMessage(t, a))
	assert.Equal(t, payload, readMessage(t, c))
}
