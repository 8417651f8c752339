package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"syncy/internal/app"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rooms := app.NewRegistry()
	ctl := NewController(app.NewGate(rooms), app.NewRelay(rooms), 32768, time.Minute, 32)

	r := gin.New()
	r.GET("/ws/room", func(c *gin.Context) {
		ctl.HandleRoom(context.Background(), c)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, rooms
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/room?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env map[string]any
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func rosterIDs(t *testing.T, env map[string]any) []string {
	t.Helper()
	require.Equal(t, "members", env["kind"])
	raw, ok := env["members"].([]any)
	require.True(t, ok)
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		entry, ok := m.(map[string]any)
		require.True(t, ok)
		out = append(out, entry["userId"].(string))
	}
	return out
}

func expectNothing(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err, "expected no message")
}

func TestMissingParamsRejectedWithPolicyViolation(t *testing.T) {
	srv, rooms := newTestServer(t)

	for _, query := range []string{"", "room=r1", "user=u1"} {
		conn := dial(t, srv, query)
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err := conn.ReadMessage()
		require.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation),
			"want close 1008, got %v", err)
	}
	require.Equal(t, 0, rooms.Len())
}

func TestPresenceRelayAndTeardown(t *testing.T) {
	srv, rooms := newTestServer(t)

	connA := dial(t, srv, "room=r1&user=u1&name=Alice&host=1")
	env := readEnvelope(t, connA)
	require.Equal(t, []string{"u1"}, rosterIDs(t, env))
	members := env["members"].([]any)
	first := members[0].(map[string]any)
	require.Equal(t, "Alice", first["username"])
	require.Equal(t, true, first["isHost"])

	connB := dial(t, srv, "room=r1&user=u2&name=Bob")
	require.ElementsMatch(t, []string{"u1", "u2"}, rosterIDs(t, readEnvelope(t, connA)))
	require.ElementsMatch(t, []string{"u1", "u2"}, rosterIDs(t, readEnvelope(t, connB)))

	// B relays; A receives it stamped, B hears nothing back.
	require.NoError(t, connB.WriteMessage(websocket.TextMessage, []byte(`{"kind":"play","trackId":"t1"}`)))
	relayed := readEnvelope(t, connA)
	require.Equal(t, "play", relayed["kind"])
	require.Equal(t, "t1", relayed["trackId"])
	_, isNumber := relayed["_serverTime"].(float64)
	require.True(t, isNumber, "_serverTime must be stamped by the server")
	expectNothing(t, connB)

	// B disconnects: A sees the shrunken roster.
	require.NoError(t, connB.Close())
	require.Equal(t, []string{"u1"}, rosterIDs(t, readEnvelope(t, connA)))

	// Last member gone: the room disappears from the registry.
	require.NoError(t, connA.Close())
	require.Eventually(t, func() bool { return rooms.Len() == 0 },
		2*time.Second, 10*time.Millisecond)

	// A fresh connect sees only itself.
	connC := dial(t, srv, "room=r1&user=u3&name=Carol")
	require.Equal(t, []string{"u3"}, rosterIDs(t, readEnvelope(t, connC)))
}

func TestMalformedInboundPayloadIsDroppedSilently(t *testing.T) {
	srv, _ := newTestServer(t)

	connA := dial(t, srv, "room=r1&user=u1&name=Alice")
	readEnvelope(t, connA)
	connB := dial(t, srv, "room=r1&user=u2&name=Bob")
	readEnvelope(t, connA)
	readEnvelope(t, connB)

	// Malformed payloads then a valid one: the first thing A observes
	// is the valid message, so the malformed ones produced no broadcast,
	// and B was neither disconnected nor answered. The JSON literal
	// `null` is the nasty case: it parses as a nil map.
	require.NoError(t, connB.WriteMessage(websocket.TextMessage, []byte(`this is not json`)))
	require.NoError(t, connB.WriteMessage(websocket.TextMessage, []byte(`null`)))
	require.NoError(t, connB.WriteMessage(websocket.TextMessage, []byte(`{"kind":"pause"}`)))
	require.Equal(t, "pause", readEnvelope(t, connA)["kind"])
	expectNothing(t, connB)
}

func TestRoomsAreIsolated(t *testing.T) {
	srv, _ := newTestServer(t)

	connA := dial(t, srv, "room=r1&user=u1&name=Alice")
	readEnvelope(t, connA)
	connB := dial(t, srv, "room=r2&user=u2&name=Bob")
	readEnvelope(t, connB)

	require.NoError(t, connA.WriteMessage(websocket.TextMessage, []byte(`{"kind":"play"}`)))
	expectNothing(t, connB)
	expectNothing(t, connA)
}
