package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/round"
)

type wireSnapshot struct {
	Game    string        `json:"game"`
	State   string        `json:"state"`
	Balance int           `json:"balance"`
	Message round.Message `json:"message"`
	Result  *round.Result `json:"result"`
}

type wireState struct {
	Current  string        `json:"current"`
	Balance  int           `json:"balance"`
	Autoplay []string      `json:"autoplay"`
	Snapshot *wireSnapshot `json:"snapshot"`
}

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := casino.DefaultConfig()
	cfg.Seed = 7
	cfg.Slots.Stops = [3]time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}

	s := NewServer("127.0.0.1:0", cfg, log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Stop()
		ts.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(typ, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil reads messages until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func decodeState(t *testing.T, msg Message) wireState {
	t.Helper()
	require.Equal(t, MessageTypeState, msg.Type)
	var st wireState
	require.NoError(t, json.Unmarshal(msg.Data, &st))
	return st
}

func decodeError(t *testing.T, msg Message) ErrorData {
	t.Helper()
	require.Equal(t, MessageTypeError, msg.Type)
	var e ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	return e
}

func isType(typ MessageType) func(Message) bool {
	return func(m Message) bool { return m.Type == typ }
}

func TestPlaySlotsOverWebSocket(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t)
	conn := dial(t, ts)

	hello := decodeState(t, readUntil(t, conn, isType(MessageTypeState)))
	assert.Equal(t, casino.World, hello.Current)
	assert.Equal(t, 1000, hello.Balance)
	assert.Nil(t, hello.Snapshot)

	send(t, conn, MessageTypeSwitch, SwitchData{Game: "slots"})
	switched := decodeState(t, readUntil(t, conn, isType(MessageTypeState)))
	assert.Equal(t, "slots", switched.Current)
	require.NotNil(t, switched.Snapshot)
	assert.Equal(t, "betting", switched.Snapshot.State)

	send(t, conn, MessageTypeStart, nil)
	var settled wireState
	readUntil(t, conn, func(m Message) bool {
		if m.Type != MessageTypeState {
			return false
		}
		settled = decodeState(t, m)
		return settled.Snapshot != nil && settled.Snapshot.Result != nil
	})
	res := settled.Snapshot.Result
	assert.Equal(t, "finished", settled.Snapshot.State)
	assert.Equal(t, 10, res.Stake)
	assert.Equal(t, 990+res.Payout, settled.Balance)
	assert.NotEmpty(t, res.RoundID)
}

func TestRejectedRequests(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, isType(MessageTypeState))

	send(t, conn, MessageTypeStart, nil)
	assert.Equal(t, "no_game", decodeError(t, readUntil(t, conn, isType(MessageTypeError))).Code)

	send(t, conn, MessageTypeSwitch, SwitchData{Game: "poker"})
	assert.Equal(t, "unknown_game", decodeError(t, readUntil(t, conn, isType(MessageTypeError))).Code)

	send(t, conn, MessageType("dance"), nil)
	assert.Equal(t, "unknown_message_type", decodeError(t, readUntil(t, conn, isType(MessageTypeError))).Code)

	send(t, conn, MessageTypeSwitch, SwitchData{Game: "roulette"})
	readUntil(t, conn, isType(MessageTypeState))

	send(t, conn, MessageTypeStart, nil)
	e := decodeError(t, readUntil(t, conn, isType(MessageTypeError)))
	assert.Equal(t, "rejected", e.Code)
	assert.Equal(t, "Please select a bet option!", e.Message)

	send(t, conn, MessageTypeBet, BetData{Amount: 5000})
	e = decodeError(t, readUntil(t, conn, isType(MessageTypeError)))
	assert.Equal(t, "Insufficient balance!", e.Message)

	send(t, conn, MessageTypeAction, ActionData{Action: "hit"})
	e = decodeError(t, readUntil(t, conn, isType(MessageTypeError)))
	assert.Equal(t, "It's not your turn.", e.Message)
}

func TestAutoplayToggle(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, isType(MessageTypeState))

	send(t, conn, MessageTypeSwitch, SwitchData{Game: "roulette"})
	readUntil(t, conn, isType(MessageTypeState))

	send(t, conn, MessageTypeAutoplay, AutoplayData{Enabled: true})
	on := decodeState(t, readUntil(t, conn, isType(MessageTypeState)))
	assert.Equal(t, []string{"roulette"}, on.Autoplay)

	send(t, conn, MessageTypeAutoplay, AutoplayData{Enabled: false})
	off := decodeState(t, readUntil(t, conn, isType(MessageTypeState)))
	assert.Empty(t, off.Autoplay)

	send(t, conn, MessageTypeSwitch, SwitchData{Game: "slots"})
	readUntil(t, conn, isType(MessageTypeState))
	send(t, conn, MessageTypeAutoplay, AutoplayData{Enabled: true})
	assert.Equal(t, "rejected", decodeError(t, readUntil(t, conn, isType(MessageTypeError))).Code)
}

func TestSessionsAreIndependent(t *testing.T) {
	t.Parallel()

	s, ts := testServer(t)
	first := dial(t, ts)
	second := dial(t, ts)
	readUntil(t, first, isType(MessageTypeState))
	readUntil(t, second, isType(MessageTypeState))

	send(t, first, MessageTypeSwitch, SwitchData{Game: "slots"})
	readUntil(t, first, isType(MessageTypeState))
	send(t, first, MessageTypeStart, nil)
	readUntil(t, first, func(m Message) bool {
		if m.Type != MessageTypeState {
			return false
		}
		st := decodeState(t, m)
		return st.Snapshot != nil && st.Snapshot.Result != nil
	})

	send(t, second, MessageTypeWorld, nil)
	st := decodeState(t, readUntil(t, second, isType(MessageTypeState)))
	assert.Equal(t, 1000, st.Balance)
	assert.Equal(t, 2, s.ConnectionCount())
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, isType(MessageTypeState))

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "minicasino_sessions 1")
}
