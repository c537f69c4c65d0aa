package main

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const (
	TickRate     = 60 // simulation ticks per second
	TickDuration = time.Second / TickRate

	BotPassInterval = 60 * time.Millisecond

	maxBulletsPerRoom = 1000
)

// Broadcaster delivers one named event to a single socket
type Broadcaster interface {
	SendJSON(msg interface{})
}

// GameSettings are the admin-tunable knobs
type GameSettings struct {
	BotSpeed             float64 `json:"botSpeed"` // pixels/tick
	BotCount             int     `json:"botCount"`
	BotHealth            int     `json:"botHealth"`
	PlayerStartingHealth int     `json:"playerStartingHealth"`
}

// DefaultSettings returns the settings a fresh room starts with
func DefaultSettings() GameSettings {
	return GameSettings{
		BotSpeed:             2.0,
		BotCount:             4,
		BotHealth:            60,
		PlayerStartingHealth: MaxHealth,
	}
}

// Room is the single authoritative game world. Every mutation happens
// under mu; the tick loop, the bot pass, socket handlers and admin
// commands all serialize through it, so no two state changes overlap.
type Room struct {
	mu sync.Mutex

	ships    map[string]*Ship
	bots     map[string]*Bot
	botOrder []string
	bullets  map[string]*Bullet
	mines    map[string]*Mine
	powerups map[string]*Powerup
	lasers   map[string]*Laser // keyed by owner id

	clients map[string]Broadcaster // ship id -> socket

	settings GameSettings
	timers   timerQueue
	grid     SpatialGrid

	stats *StatsJournal // nil when disabled

	clock func() time.Time

	tick             uint64
	nextJoin         int
	botSerial        int
	lastMineSpawn    time.Time
	lastPowerupSpawn time.Time

	running bool
	stop    chan struct{}
}

// NewRoom creates an empty room with default settings
func NewRoom(stats *StatsJournal) *Room {
	return &Room{
		ships:    make(map[string]*Ship),
		bots:     make(map[string]*Bot),
		bullets:  make(map[string]*Bullet),
		mines:    make(map[string]*Mine),
		powerups: make(map[string]*Powerup),
		lasers:   make(map[string]*Laser),
		clients:  make(map[string]Broadcaster),
		settings: DefaultSettings(),
		stats:    stats,
		clock:    time.Now,
		stop:     make(chan struct{}),
	}
}

// Run drives the fixed-rate tick loop and the slower bot pass until Stop
func (r *Room) Run() {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	botTicker := time.NewTicker(BotPassInterval)
	defer ticker.Stop()
	defer botTicker.Stop()

	for {
		select {
		case <-ticker.C:
			r.update(r.clock())
		case <-botTicker.C:
			r.botPass(r.clock())
		case <-r.stop:
			return
		}
	}
}

// Stop terminates the loops
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.running = false
		close(r.stop)
	}
}

// update runs one simulation tick. Subsystems run in a fixed order so a
// bullet:spawn always precedes the health:update it causes.
func (r *Room) update(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tick++
	r.timers.RunDue(now)
	r.spawnMineMaybe(now)
	r.spawnPowerupMaybe(now)
	r.advanceBullets()
	r.advanceLasers(now)

	for _, s := range r.ships {
		if !s.Alive {
			continue
		}
		if s.PhysicsStep() {
			r.broadcastAll(EvCursorUpdate, CursorUpdateMsg{UserID: s.ID, CursorState: s.ToCursorState()})
		}
	}

	r.rebuildGrid()

	for _, s := range r.ships {
		if !s.Alive {
			continue
		}
		r.checkPowerupPickup(s)
		r.checkMineContact(s, now)
	}

	r.resolveBulletCollisions(now)
}

// --- socket registry ---

// SetClient associates a socket with a ship for fan-out
func (r *Room) SetClient(shipID string, c Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[shipID] = c
}

// broadcastAll sends one event to every registered socket
func (r *Room) broadcastAll(event string, data interface{}) {
	msg := Envelope{E: event, Data: data}
	for _, c := range r.clients {
		c.SendJSON(msg)
	}
}

// broadcastExcept sends one event to every socket but one
func (r *Room) broadcastExcept(shipID, event string, data interface{}) {
	msg := Envelope{E: event, Data: data}
	for id, c := range r.clients {
		if id == shipID {
			continue
		}
		c.SendJSON(msg)
	}
}

// BroadcastAll is the locked entry point for out-of-tick callers
func (r *Room) BroadcastAll(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastAll(event, data)
}

// BroadcastExcept is the locked entry point for out-of-tick callers
func (r *Room) BroadcastExcept(shipID, event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastExcept(shipID, event, data)
}

// MineSync returns the mine:sync payload for a joining socket
func (r *Room) MineSync() MineSyncMsg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mineSyncLocked()
}

// PowerupSync returns the powerup:sync payload for a joining socket
func (r *Room) PowerupSync() PowerupSyncMsg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.powerupSyncLocked()
}

// SetLabel replaces a ship's display label once the hub resolves it, and
// pushes the change out with an authoritative cursor:update.
func (r *Room) SetLabel(shipID, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.ships[shipID]
	if !ok || label == "" {
		return
	}
	s.Label = label
	r.broadcastAll(EvCursorUpdate, CursorUpdateMsg{UserID: shipID, CursorState: s.ToCursorState()})
}

// --- world state mutators ---

// AddShip admits a new ship and returns it
func (r *Room) AddShip(id, playerKey, label string) *Ship {
	r.mu.Lock()
	defer r.mu.Unlock()

	color := paletteColor(r.nextJoin)
	s := NewShip(id, playerKey, label, color, r.settings.PlayerStartingHealth, r.nextJoin)
	r.nextJoin++
	r.ships[id] = s
	if r.stats != nil {
		r.stats.Track(StatJoin, id, label)
	}
	return s
}

// RemoveShip drops a ship and everything it owns
func (r *Room) RemoveShip(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ships[id]; !ok {
		return
	}
	delete(r.ships, id)
	delete(r.clients, id)
	delete(r.lasers, id)
	if r.stats != nil {
		r.stats.Track(StatLeave, id, "")
	}
}

// GetShip returns a ship by id
func (r *Room) GetShip(id string) *Ship {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ships[id]
}

// ShipCount returns the number of connected ships
func (r *Room) ShipCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ships)
}

// HandleCursorMove validates and stores a position report, then relays it
func (r *Room) HandleCursorMove(shipID string, msg CursorMoveMsg) {
	if !finite(msg.X) || !finite(msg.Y) || !finite(msg.Rotation) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.ships[shipID]
	if !ok || !s.Alive {
		return
	}
	s.MoveTo(msg.X, msg.Y, msg.Rotation)
	r.broadcastExcept(shipID, EvCursorUpdate, CursorUpdateMsg{UserID: shipID, CursorState: s.ToCursorState()})
}

// HandleBulletShoot validates a shot and spawns the bullet
func (r *Room) HandleBulletShoot(shipID string, msg BulletShootMsg) {
	if !finite(msg.X) || !finite(msg.Y) || !finite(msg.Angle) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.ships[shipID]
	if !ok || !s.Alive {
		return
	}
	if len(r.bullets) >= maxBulletsPerRoom {
		return
	}
	b := NewBullet(shipID, msg.X, msg.Y, msg.Angle, msg.IsRocket)
	r.bullets[b.ID] = b
	s.ConsumeAmmo()
	r.broadcastAll(EvBulletSpawn, BulletSpawnMsg{
		BulletID: b.ID,
		UserID:   shipID,
		X:        b.X,
		Y:        b.Y,
		VX:       b.VX,
		VY:       b.VY,
		Color:    s.Color,
		IsRocket: b.IsRocket,
	})
}

// HandleLaserShoot installs or replaces the shooter's beam
func (r *Room) HandleLaserShoot(shipID string, msg LaserShootMsg) {
	if !finite(msg.Angle) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.ships[shipID]
	if !ok || !s.Alive {
		return
	}
	r.lasers[shipID] = NewLaser(shipID, msg.Angle)
	r.broadcastAll(EvLaserSpawn, LaserSpawnMsg{
		UserID: shipID,
		X:      s.X,
		Y:      s.Y,
		Angle:  msg.Angle,
		Color:  s.Color,
	})
}

// HandleHealthDamage applies an authoritative health report from a client
func (r *Room) HandleHealthDamage(msg HealthDamageMsg, now time.Time) {
	if !finite(msg.Health) || msg.Health < 0 || msg.Health > MaxHealth {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.ships[msg.UserID]
	if !ok || !s.Alive {
		return
	}
	died := SetHealth(s, int(msg.Health))
	r.broadcastAll(EvHealthUpdate, HealthUpdateMsg{
		UserID:     s.ID,
		Health:     s.Health,
		Shield:     s.Shield,
		AttackerID: msg.AttackerID,
	})
	if died {
		r.onDeath(s.ID, msg.AttackerID, now)
	}
}

// Rank returns the 1-based leaderboard position of a ship, or 0 if the
// ship is unknown. Ties break by admission order.
func (r *Room) Rank(shipID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rankLocked(shipID)
}

func (r *Room) rankLocked(shipID string) int {
	target, ok := r.ships[shipID]
	if !ok {
		return 0
	}
	rank := 1
	for _, s := range r.ships {
		if s.ID == shipID {
			continue
		}
		if s.RankScore() > target.RankScore() ||
			(s.RankScore() == target.RankScore() && s.joinSeq < target.joinSeq) {
			rank++
		}
	}
	return rank
}

// scoreSnapshotLocked builds the score:update payload ordered by rank
func (r *Room) scoreSnapshotLocked() ScoreUpdateMsg {
	entries := make([]ScoreEntry, 0, len(r.ships))
	for _, s := range r.ships {
		entries = append(entries, ScoreEntry{
			PlayerID:   s.ID,
			PlayerName: s.Label,
			Score:      s.PlacementPoints,
			Kills:      s.Kills,
			Deaths:     s.Deaths,
			BotKills:   s.BotKills,
		})
	}
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && rankLess(r.ships[entries[j].PlayerID], r.ships[entries[j-1].PlayerID]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	return ScoreUpdateMsg{Scores: entries}
}

func rankLess(a, b *Ship) bool {
	if a.RankScore() != b.RankScore() {
		return a.RankScore() > b.RankScore()
	}
	return a.joinSeq < b.joinSeq
}

// rosterLocked builds the cursors:sync payload, optionally skipping one ship
func (r *Room) rosterLocked(skipID string) CursorsSyncMsg {
	out := CursorsSyncMsg{Cursors: make(map[string]CursorState, len(r.ships)+len(r.bots))}
	for id, s := range r.ships {
		if id == skipID {
			continue
		}
		out.Cursors[id] = s.ToCursorState()
	}
	for id, b := range r.bots {
		out.Cursors[id] = b.ToCursorState()
	}
	return out
}

// Roster returns the cursors:sync payload for a joining socket
func (r *Room) Roster(skipID string) CursorsSyncMsg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked(skipID)
}

// Settings returns a copy of the current settings
func (r *Room) Settings() GameSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// PatchSettings applies a partial settings object and returns the result.
// Unknown keys are ignored; out-of-range values are an error and nothing
// is applied.
func (r *Room) PatchSettings(raw json.RawMessage) (GameSettings, error) {
	var patch struct {
		BotSpeed             *float64 `json:"botSpeed"`
		BotCount             *int     `json:"botCount"`
		BotHealth            *int     `json:"botHealth"`
		PlayerStartingHealth *int     `json:"playerStartingHealth"`
	}
	if err := json.Unmarshal(raw, &patch); err != nil {
		return GameSettings{}, fmt.Errorf("malformed settings: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.settings
	if patch.BotSpeed != nil {
		if !finite(*patch.BotSpeed) || *patch.BotSpeed <= 0 {
			return GameSettings{}, fmt.Errorf("botSpeed out of range")
		}
		next.BotSpeed = *patch.BotSpeed
	}
	if patch.BotCount != nil {
		if *patch.BotCount < 0 {
			return GameSettings{}, fmt.Errorf("botCount out of range")
		}
		next.BotCount = *patch.BotCount
	}
	if patch.BotHealth != nil {
		if *patch.BotHealth < 1 || *patch.BotHealth > MaxHealth {
			return GameSettings{}, fmt.Errorf("botHealth out of range")
		}
		next.BotHealth = *patch.BotHealth
	}
	if patch.PlayerStartingHealth != nil {
		if *patch.PlayerStartingHealth < 1 || *patch.PlayerStartingHealth > MaxHealth {
			return GameSettings{}, fmt.Errorf("playerStartingHealth out of range")
		}
		next.PlayerStartingHealth = *patch.PlayerStartingHealth
	}
	r.settings = next
	return next, nil
}

// --- bullet advance & collision resolution ---

// advanceBullets integrates every bullet and expires spent ones
func (r *Room) advanceBullets() {
	for id, b := range r.bullets {
		if !b.Step() {
			delete(r.bullets, id)
		}
	}
}

// rebuildGrid refreshes the broad-phase index for this tick
func (r *Room) rebuildGrid() {
	r.grid.Clear()
	for id, s := range r.ships {
		if !s.Alive {
			continue
		}
		r.grid.Insert(s.X, s.Y, EntityRef{Kind: KindShip, ID: id})
	}
	for id, b := range r.bots {
		if !b.Alive {
			continue
		}
		r.grid.Insert(b.X, b.Y, EntityRef{Kind: KindBot, ID: id})
	}
	for id, m := range r.mines {
		r.grid.Insert(m.X, m.Y, EntityRef{Kind: KindMine, ID: id})
	}
	for id, p := range r.powerups {
		r.grid.Insert(p.X, p.Y, EntityRef{Kind: KindPowerup, ID: id})
	}
}

// resolveBulletCollisions tests every live bullet against mines first,
// then ships and bots. A resolved collision always consumes the bullet.
func (r *Room) resolveBulletCollisions(now time.Time) {
	for id, b := range r.bullets {
		if r.resolveOneBullet(b, now) {
			delete(r.bullets, id)
		}
	}
}

func (r *Room) resolveOneBullet(b *Bullet, now time.Time) bool {
	refs := r.grid.Query(b.X, b.Y, ShipRadius+BulletHitSlack+MineTriggerRadius)

	for _, ref := range refs {
		if ref.Kind != KindMine {
			continue
		}
		m, ok := r.mines[ref.ID]
		if !ok {
			continue
		}
		if Distance(b.X, b.Y, m.X, m.Y) <= m.TriggerRadius {
			r.explodeMine(m.ID, b.OwnerID, now)
			return true
		}
	}

	for _, ref := range refs {
		switch ref.Kind {
		case KindShip:
			s, ok := r.ships[ref.ID]
			if !ok || !s.Alive || s.ID == b.OwnerID {
				continue
			}
			if !CheckCollision(b.X, b.Y, BulletHitSlack, s.X, s.Y, ShipRadius) {
				continue
			}
			if b.IsRocket {
				r.explodeRocket(b, now)
			} else {
				r.hitShip(b, s, now)
			}
			return true
		case KindBot:
			bot, ok := r.bots[ref.ID]
			if !ok || !bot.Alive || bot.ID == b.OwnerID {
				continue
			}
			if !CheckCollision(b.X, b.Y, BulletHitSlack, bot.X, bot.Y, ShipRadius) {
				continue
			}
			if b.IsRocket {
				r.explodeRocket(b, now)
			} else {
				r.hitBot(b.OwnerID, bot, MachineGunDamage, now)
			}
			return true
		}
	}
	return false
}

// hitShip applies a standard bullet: configured damage plus linear
// knockback along the bullet's direction of travel.
func (r *Room) hitShip(b *Bullet, s *Ship, now time.Time) {
	dx, dy := b.Direction()
	s.ApplyKnockback(dx*BulletKnockback, dy*BulletKnockback)
	r.broadcastAll(EvKnockback, KnockbackMsg{UserID: s.ID, VX: s.VX, VY: s.VY})

	died := ApplyDamage(s, MachineGunDamage)
	r.broadcastAll(EvHealthUpdate, HealthUpdateMsg{
		UserID:     s.ID,
		Health:     s.Health,
		Shield:     s.Shield,
		AttackerID: b.OwnerID,
	})
	if died {
		r.onDeath(s.ID, b.OwnerID, now)
	}
}

// hitBot applies bullet or laser damage to a bot and credits the killer
func (r *Room) hitBot(attackerID string, bot *Bot, damage int, now time.Time) {
	if !bot.TakeDamage(damage) {
		return
	}
	r.onBotDeath(bot, attackerID, now)
}

// explodeRocket detonates a rocket: linear-falloff damage and radial
// knockback over the blast radius. The owner's own rocket can kill the
// owner, but suicide earns no credit.
func (r *Room) explodeRocket(b *Bullet, now time.Time) {
	for _, s := range r.ships {
		if !s.Alive {
			continue
		}
		d := Distance(b.X, b.Y, s.X, s.Y)
		if d > RocketBlastRadius {
			continue
		}
		falloff := 1 - d/RocketBlastRadius
		kx, ky := radialDir(b.X, b.Y, s.X, s.Y)
		s.ApplyKnockback(kx*RocketMaxKnockback*falloff, ky*RocketMaxKnockback*falloff)
		r.broadcastAll(EvKnockback, KnockbackMsg{UserID: s.ID, VX: s.VX, VY: s.VY})

		attacker := b.OwnerID
		if attacker == s.ID {
			attacker = "" // suicide earns no credit
		}
		died := ApplyDamage(s, int(float64(RocketMaxDamage)*falloff))
		r.broadcastAll(EvHealthUpdate, HealthUpdateMsg{
			UserID:     s.ID,
			Health:     s.Health,
			Shield:     s.Shield,
			AttackerID: attacker,
		})
		if died {
			r.onDeath(s.ID, attacker, now)
		}
	}
	for _, bot := range r.bots {
		if !bot.Alive {
			continue
		}
		d := Distance(b.X, b.Y, bot.X, bot.Y)
		if d > RocketBlastRadius {
			continue
		}
		falloff := 1 - d/RocketBlastRadius
		r.hitBot(b.OwnerID, bot, int(float64(RocketMaxDamage)*falloff), now)
	}
}

// radialDir returns the unit vector from the epicentre toward a target
func radialDir(cx, cy, tx, ty float64) (float64, float64) {
	d := Distance(cx, cy, tx, ty)
	if d == 0 {
		return 1, 0 // dead-centre hit pushes along +X rather than nowhere
	}
	return (tx - cx) / d, (ty - cy) / d
}
