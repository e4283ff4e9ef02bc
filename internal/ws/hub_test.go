package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rakibul966222/Rakib-pay/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// dialHub spins up a server that registers every incoming connection with
// the hub under accountID, and returns the client side.
func dialHub(t *testing.T, hub *Hub, accountID string) *websocket.Conn {
	t.Helper()

	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(accountID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("connection was never registered")
	}
	return client
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(payload, &env))
	return env
}

func TestAlertReachesAccountSessions(t *testing.T) {
	hub := NewHub(zap.NewNop())
	bob := dialHub(t, hub, "bob")
	other := dialHub(t, hub, "carol")

	alert := notify.Alert{
		Title:         "Money received",
		Body:          "You received $300.00 from Alice",
		TransactionID: "t1",
		FromName:      "Alice",
		Amount:        decimal.RequireFromString("300"),
	}
	require.NoError(t, hub.Alert("bob", alert))

	env := readEnvelope(t, bob)
	require.Equal(t, "alert", env.Type)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "You received $300.00 from Alice", data["body"])
	require.Equal(t, "t1", data["transactionId"])

	// Carol's session stays silent.
	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	require.Error(t, err)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	_ = dialHub(t, hub, "bob")

	hub.mu.Lock()
	require.Len(t, hub.clients["bob"], 1)
	var conn *websocket.Conn
	for c := range hub.clients["bob"] {
		conn = c
	}
	hub.mu.Unlock()

	hub.Unregister("bob", conn)

	hub.mu.Lock()
	_, stillTracked := hub.clients["bob"]
	hub.mu.Unlock()
	require.False(t, stillTracked)

	// Sending to an account with no sessions is a no-op.
	require.NoError(t, hub.Send("bob", Envelope{Type: "alert"}))
}
