package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VuurMos/inverse-kinematics/components/limbs"
	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu   sync.Mutex
	cmds []Command
}

func (r *recorder) HandleCommand(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, c)
	return nil
}

func (r *recorder) commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.cmds...)
}

func TestDecodeCommand(t *testing.T) {
	type eg struct {
		json string
		err  bool
		typ  string
	}

	examples := []eg{
		{`{"type":"input","limb":"leg","target":{"x":1,"y":2}}`, false, CommandInput},
		{`{"type":"input","view":{"x":1,"y":2}}`, false, CommandInput},
		{`{"type":"input","limb":"leg"}`, true, ""},
		{`{"type":"move","velocity":{"x":10,"y":0}}`, false, CommandMove},
		{`{"type":"move"}`, true, ""},
		{`{"type":"reset","limb":"leg"}`, false, CommandReset},
		{`{"type":"reset"}`, true, ""},
		{`{"type":"dance"}`, true, ""},
		{`not json`, true, ""},
	}

	for _, ex := range examples {
		c, err := DecodeCommand([]byte(ex.json))
		if ex.err {
			assert.Error(t, err, ex.json)
			continue
		}

		require.NoError(t, err, ex.json)
		assert.Equal(t, ex.typ, c.Type)
	}
}

func TestDecodeCommandFields(t *testing.T) {
	c, err := DecodeCommand([]byte(`{"type":"input","limb":"leg","target":{"x":1.5,"y":-2}}`))
	require.NoError(t, err)
	assert.Equal(t, "leg", c.Limb)
	require.NotNil(t, c.Target)
	assert.Equal(t, math2d.Vector2{X: 1.5, Y: -2}, *c.Target)
	assert.Nil(t, c.View)
	assert.Nil(t, c.Velocity)
}

func TestEncodeFrame(t *testing.T) {
	data, err := encodeFrame(limbs.Frame{
		Tick: 3,
		Limbs: []limbs.LimbPose{
			{Name: "leg", End: math2d.Vector2{X: 150, Y: 0}},
		},
	})
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "frame", m["type"])
	assert.Equal(t, 3.0, m["tick"])

	ls := m["limbs"].([]interface{})
	require.Len(t, ls, 1)
	leg := ls[0].(map[string]interface{})
	assert.Equal(t, "leg", leg["name"])
	assert.Equal(t, 150.0, leg["end"].(map[string]interface{})["x"])
}

func TestHubRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	hub := NewHub(rec)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	// Outbound
	hub.Publish(limbs.Frame{
		Tick:  1,
		Limbs: []limbs.LimbPose{{Name: "leg", Joint: math2d.Vector2{X: 75, Y: 50}}},
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"frame"`)
	assert.Contains(t, string(data), `"name":"leg"`)

	// Inbound, including one bad command which is ignored.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"nope"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"input","limb":"leg","target":{"x":10,"y":20}}`)))

	assert.Eventually(t, func() bool {
		return len(rec.commands()) == 1
	}, time.Second, 5*time.Millisecond)

	cmds := rec.commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, CommandInput, cmds[0].Type)
	assert.Equal(t, math2d.Vector2{X: 10, Y: 20}, *cmds[0].Target)

	// Stopping the hub disconnects the client.
	cancel()
	<-stopped
	assert.Equal(t, 0, hub.ClientCount())

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got: %v", err)
}

func TestHubUnregister(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped
}

func TestBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub(nil)

	// Nothing is draining the queue, so most of these are dropped.
	for i := 0; i < cap(hub.broadcast)*2; i++ {
		hub.Broadcast([]byte("x"))
	}

	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}
