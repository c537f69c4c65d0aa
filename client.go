package main

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 240 // clients throttle cursor:move to ~200 Hz
	maxLabelLen       = 24
)

// Client represents one WebSocket connection and the ship it drives
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	shipID     string
	playerKey  string
	remoteAddr string

	isAdmin atomic.Bool

	msgCount   int
	msgResetAt time.Time

	// cancels the in-flight hub name lookup on disconnect
	nameCancel context.CancelFunc
}

// NewClient creates a client for an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr, playerKey string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		shipID:     GenerateUserID(),
		playerKey:  playerKey,
		remoteAddr: remoteAddr,
	}
}

// admit runs the join sequence: create the ship, tell the socket who it
// is, announce it to everyone else, and sync the world. Runs on the hub
// goroutine right after registration.
func (c *Client) admit() {
	room := c.hub.room
	label := "Player " + c.shipID[:4]
	ship := room.AddShip(c.shipID, c.playerKey, label)

	// player:info must be the first frame on this socket; the client is
	// registered for broadcasts only afterwards.
	c.SendJSON(Envelope{E: EvPlayerInfo, Data: PlayerInfoMsg{
		UserID: ship.ID,
		Label:  ship.Label,
		Color:  ship.Color,
		Kills:  ship.Kills,
		Deaths: ship.Deaths,
		Health: ship.Health,
	}})
	room.SetClient(c.shipID, c)
	room.BroadcastExcept(c.shipID, EvUserJoined, UserJoinedMsg{
		UserID: ship.ID,
		Label:  ship.Label,
		Color:  ship.Color,
	})
	c.SendJSON(Envelope{E: EvCursorsSync, Data: room.Roster(c.shipID)})
	c.SendJSON(Envelope{E: EvMineSync, Data: room.MineSync()})
	c.SendJSON(Envelope{E: EvPowerupSync, Data: room.PowerupSync()})

	if c.playerKey != "" && c.hub.scoreHub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		c.nameCancel = cancel
		go c.resolveName(ctx)
	}
}

// resolveName asks the scoring hub for the player's display name. A
// transient failure keeps the fallback label.
func (c *Client) resolveName(ctx context.Context) {
	name, err := c.hub.scoreHub.LookupName(ctx, c.playerKey)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("hub name lookup for %s: %v", c.shipID, err)
		}
		return
	}
	if len(name) > maxLabelLen {
		name = name[:maxLabelLen]
	}
	c.hub.room.SetLabel(c.shipID, name)
}

// depart tears the session down after unregistration
func (c *Client) depart() {
	if c.nameCancel != nil {
		c.nameCancel()
	}
	room := c.hub.room
	room.RemoveShip(c.shipID)
	room.BroadcastAll(EvUserLeft, UserLeftMsg{UserID: c.shipID})
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON queues a message for the client, dropping it if the socket is
// too slow to keep up. A stalled peer must never stall the simulation.
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
	}
}

// handleMessage routes one inbound frame. Unknown events and malformed
// payloads are dropped without a reply.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}

	switch env.E {
	case EvCursorMove:
		var msg CursorMoveMsg
		if json.Unmarshal(env.D, &msg) != nil {
			return
		}
		c.hub.room.HandleCursorMove(c.shipID, msg)
	case EvBulletShoot:
		var msg BulletShootMsg
		if json.Unmarshal(env.D, &msg) != nil {
			return
		}
		c.hub.room.HandleBulletShoot(c.shipID, msg)
	case EvLaserShoot:
		var msg LaserShootMsg
		if json.Unmarshal(env.D, &msg) != nil {
			return
		}
		c.hub.room.HandleLaserShoot(c.shipID, msg)
	case EvHealthDamage:
		var msg HealthDamageMsg
		if json.Unmarshal(env.D, &msg) != nil {
			return
		}
		c.hub.room.HandleHealthDamage(msg, time.Now())
	case EvAdminLogin:
		c.handleAdminLogin(env.D)
	case EvAdminGetPlayers, EvAdminGetBots, EvAdminGetSettings,
		EvAdminAddBot, EvAdminRemoveBot, EvAdminRemoveAllBots,
		EvAdminKickPlayer, EvAdminKickAll, EvAdminUpdateSettings,
		EvAdminEndGame, EvAdminGetStats:
		c.handleAdminCommand(env.E, env.D)
	}
}
