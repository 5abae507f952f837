package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/rochambeau/internal/app"
	"github.com/ayusman/rochambeau/internal/gesture"
)

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readView(t *testing.T, conn *websocket.Conn) app.View {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var v app.View
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Clients() == n }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_StreamsViews(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()
	defer hub.Close()

	hub.Publish(app.View{GestureLabel: "Gesture: None"})

	conn := dial(t, ts)
	waitClients(t, hub, 1)

	// The latest view arrives on connect.
	assert.Equal(t, "Gesture: None", readView(t, conn).GestureLabel)

	hub.Publish(app.View{GestureLabel: "Gesture: Paper", Gesture: gesture.Paper})
	v := readView(t, conn)
	assert.Equal(t, "Gesture: Paper", v.GestureLabel)
	assert.Equal(t, gesture.Paper, v.Gesture)
}

func TestHub_Disconnect(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	conn := dial(t, ts)
	waitClients(t, hub, 1)

	conn.Close()
	waitClients(t, hub, 0)

	// Publishing with no clients is fine.
	hub.Publish(app.View{})
}

func TestHub_SlowClientKeepsNewest(t *testing.T) {
	hub := NewHub()
	c := &client{send: make(chan []byte, 2)}
	hub.clients[c] = struct{}{}

	for i := 0; i < 5; i++ {
		hub.Publish(app.View{FrameSeq: uint64(i)})
	}

	var seqs []uint64
	for len(c.send) > 0 {
		var v app.View
		require.NoError(t, json.Unmarshal(<-c.send, &v))
		seqs = append(seqs, v.FrameSeq)
	}
	assert.Equal(t, []uint64{3, 4}, seqs)
}

func TestHub_CloseRefusesClients(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	conn := dial(t, ts)
	waitClients(t, hub, 1)

	hub.Close()
	waitClients(t, hub, 0)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
