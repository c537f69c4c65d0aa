package main

import (
	"sync"
	"time"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 200

	adminSnapshotInterval = 500 * time.Millisecond
)

// Hub manages all connected sockets and owns the single room
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	byShip  map[string]*Client

	register   chan *Client
	unregister chan *Client

	room      *Room
	scoreHub  *HubClient // nil when no hub is configured
	adminPass string

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a hub around an existing room
func NewHub(room *Room, scoreHub *HubClient, adminPass string) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byShip:     make(map[string]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		room:       room,
		scoreHub:   scoreHub,
		adminPass:  adminPass,
		ipConns:    make(map[string]int),
	}
}

// CanAccept enforces the per-IP and total connection caps
func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

// TrackConnect counts a new connection against the limits
func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

// TrackDisconnect releases a connection slot
func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events and pushes admin snapshots
func (h *Hub) Run() {
	snapshots := time.NewTicker(adminSnapshotInterval)
	defer snapshots.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.byShip[client.shipID] = client
			h.mu.Unlock()
			client.admit()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.byShip, client.shipID)
				close(client.send)
			}
			h.mu.Unlock()
			client.depart()

		case <-snapshots.C:
			h.pushAdminSnapshots()
		}
	}
}

// ClientCount returns the number of connected sockets
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// KickShip force-disconnects the socket driving a ship
func (h *Hub) KickShip(shipID string) bool {
	h.mu.RLock()
	client := h.byShip[shipID]
	h.mu.RUnlock()
	if client == nil {
		return false
	}
	client.conn.Close()
	return true
}

// KickAll force-disconnects every connected socket
func (h *Hub) KickAll() int {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		c.conn.Close()
	}
	return len(targets)
}

// pushAdminSnapshots sends the periodic player/bot listings to every
// authenticated admin socket.
func (h *Hub) pushAdminSnapshots() {
	h.mu.RLock()
	admins := make([]*Client, 0)
	for c := range h.clients {
		if c.isAdmin.Load() {
			admins = append(admins, c)
		}
	}
	h.mu.RUnlock()
	if len(admins) == 0 {
		return
	}

	players := h.room.AdminPlayers()
	bots := h.room.AdminBots()
	for _, c := range admins {
		c.SendJSON(Envelope{E: EvAdminPlayers, Data: players})
		c.SendJSON(Envelope{E: EvAdminBots, Data: bots})
	}
}
