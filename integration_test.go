package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// ---------- helpers ----------

// startTestServer spins up the full stack and returns the server, its
// WebSocket URL, and a cleanup func. Bots are disabled to keep the event
// stream quiet.
func startTestServer(t *testing.T) (*httptest.Server, string, func()) {
	t.Helper()

	cfg := &Config{
		Port:          3000,
		ClientURL:     "*",
		AdminPassword: "hunter2",
	}

	room := NewRoom(nil)
	room.settings.BotCount = 0
	go room.Run()

	hub := NewHub(room, nil, cfg.AdminPassword)
	go hub.Run()

	mux := SetupRoutes(hub, cfg)
	srv := httptest.NewServer(mux)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	return srv, wsURL, func() {
		room.Stop()
		srv.Close()
	}
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	return conn
}

// readEnvelope reads one message from the WebSocket.
func readEnvelope(t *testing.T, conn *websocket.Conn) InEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return env
}

// readUntil reads messages until one matches the wanted event.
func readUntil(t *testing.T, conn *websocket.Conn, event string) InEnvelope {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		env := readEnvelope(t, conn)
		if env.E == event {
			return env
		}
	}
	t.Fatalf("never received %s", event)
	return InEnvelope{}
}

// sendEvent sends a named event over the WebSocket.
func sendEvent(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()
	raw, _ := json.Marshal(Envelope{E: event, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

// dataMap extracts a payload as map[string]interface{}.
func dataMap(t *testing.T, env InEnvelope) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	json.Unmarshal(env.D, &m)
	return m
}

// join connects a socket and returns it with the assigned user id.
func join(t *testing.T, wsURL string) (*websocket.Conn, string) {
	t.Helper()
	conn := dialWS(t, wsURL)
	info := readUntil(t, conn, EvPlayerInfo)
	userID, _ := dataMap(t, info)["userId"].(string)
	if userID == "" {
		t.Fatal("player:info missing userId")
	}
	return conn, userID
}

// ---------- tests ----------

func TestJoinSequence(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn := dialWS(t, wsURL)
	defer conn.Close()

	info := readEnvelope(t, conn)
	if info.E != EvPlayerInfo {
		t.Fatalf("expected player:info first, got %s", info.E)
	}
	m := dataMap(t, info)
	if m["color"] == "" || m["label"] == "" {
		t.Error("player:info should carry color and label")
	}

	readUntil(t, conn, EvCursorsSync)
	readUntil(t, conn, EvMineSync)
	readUntil(t, conn, EvPowerupSync)
}

func TestSecondJoinVisibleToFirst(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn1, _ := join(t, wsURL)
	defer conn1.Close()

	conn2, id2 := join(t, wsURL)
	defer conn2.Close()

	joined := readUntil(t, conn1, EvUserJoined)
	if dataMap(t, joined)["userId"] != id2 {
		t.Error("user:joined should announce the new ship")
	}

	// And the second socket's roster contains the first ship
	conn3, _ := join(t, wsURL)
	defer conn3.Close()
	sync := readUntil(t, conn3, EvCursorsSync)
	var roster CursorsSyncMsg
	json.Unmarshal(sync.D, &roster)
	if len(roster.Cursors) < 2 {
		t.Errorf("expected at least 2 other cursors, got %d", len(roster.Cursors))
	}
}

func TestCursorMoveRelay(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn1, id1 := join(t, wsURL)
	defer conn1.Close()
	conn2, _ := join(t, wsURL)
	defer conn2.Close()

	sendEvent(t, conn1, EvCursorMove, CursorMoveMsg{X: 123, Y: -456, Rotation: 1.5})

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		env := readUntil(t, conn2, EvCursorUpdate)
		m := dataMap(t, env)
		if m["userId"] == id1 {
			if m["x"].(float64) != 123 || m["y"].(float64) != -456 {
				t.Errorf("relay position mismatch: %+v", m)
			}
			return
		}
	}
	t.Fatal("never saw the relayed cursor:update")
}

func TestBulletShootBroadcast(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn, id := join(t, wsURL)
	defer conn.Close()

	sendEvent(t, conn, EvBulletShoot, BulletShootMsg{X: 0, Y: 0, Angle: 0})
	spawn := readUntil(t, conn, EvBulletSpawn)
	m := dataMap(t, spawn)
	if m["userId"] != id {
		t.Error("bullet:spawn should carry the shooter id")
	}
	if m["bulletId"] == "" {
		t.Error("bullet:spawn should carry a bullet id")
	}
}

func TestUserLeftOnDisconnect(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn1, _ := join(t, wsURL)
	defer conn1.Close()
	conn2, id2 := join(t, wsURL)
	readUntil(t, conn1, EvUserJoined)

	conn2.Close()
	left := readUntil(t, conn1, EvUserLeft)
	if dataMap(t, left)["userId"] != id2 {
		t.Error("user:left should name the departed ship")
	}
}

func TestAdminLoginAndSettings(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn, _ := join(t, wsURL)
	defer conn.Close()

	// Wrong password
	sendEvent(t, conn, EvAdminLogin, AdminLoginMsg{Password: "wrong"})
	if env := readUntil(t, conn, EvAdminLoginError); env.E != EvAdminLoginError {
		t.Fatal("expected login error")
	}

	// Correct password returns the token
	sendEvent(t, conn, EvAdminLogin, AdminLoginMsg{Password: "hunter2"})
	ok := readUntil(t, conn, EvAdminLoginOK)
	token, _ := dataMap(t, ok)["token"].(string)
	if token != "hunter2" {
		t.Fatalf("expected token to echo the password, got %q", token)
	}

	// Settings round-trip
	sendEvent(t, conn, EvAdminUpdateSettings, map[string]interface{}{
		"token":    token,
		"settings": map[string]interface{}{"botCount": 2, "botSpeed": 1.5},
	})
	settings := readUntil(t, conn, EvAdminSettings)
	var got GameSettings
	json.Unmarshal(settings.D, &got)
	if got.BotCount != 2 || got.BotSpeed != 1.5 {
		t.Errorf("patched settings should round-trip, got %+v", got)
	}

	sendEvent(t, conn, EvAdminGetSettings, AdminTokenMsg{Token: token})
	settings = readUntil(t, conn, EvAdminSettings)
	json.Unmarshal(settings.D, &got)
	if got.BotCount != 2 {
		t.Errorf("getSettings should return the patched value, got %+v", got)
	}
}

func TestAdminUnauthorized(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn, _ := join(t, wsURL)
	defer conn.Close()

	sendEvent(t, conn, EvAdminGetPlayers, AdminTokenMsg{Token: "guess"})
	env := readUntil(t, conn, EvAdminError)
	var msg AdminErrorMsg
	json.Unmarshal(env.D, &msg)
	if msg.Error != "Unauthorized" {
		t.Errorf("expected Unauthorized, got %q", msg.Error)
	}
}

func TestAdminSnapshotsPushed(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn, _ := join(t, wsURL)
	defer conn.Close()

	sendEvent(t, conn, EvAdminLogin, AdminLoginMsg{Password: "hunter2"})
	readUntil(t, conn, EvAdminLoginOK)

	// The 500 ms snapshot push arrives without asking
	readUntil(t, conn, EvAdminPlayers)
	readUntil(t, conn, EvAdminBots)
}

func TestHealthEndpoint(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn, _ := join(t, wsURL)
	defer conn.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["users"].(float64) < 1 {
		t.Errorf("expected at least 1 user, got %v", body["users"])
	}
	if body["timestamp"] == "" {
		t.Error("health should carry a timestamp")
	}
}

func TestJoinQREndpoint(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/join-qr")
	if err != nil {
		t.Fatalf("join-qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
}

func TestMalformedFramesIgnored(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn, _ := join(t, wsURL)
	defer conn.Close()

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"e":"no:such:event","d":{}}`))

	// The session survives: a real event still works
	sendEvent(t, conn, EvBulletShoot, BulletShootMsg{X: 0, Y: 0, Angle: 0})
	readUntil(t, conn, EvBulletSpawn)
}
