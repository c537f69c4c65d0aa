package main

import (
	"fmt"
	"math"
	"time"
)

const (
	BotIDPrefix     = "bot-"
	BotRespawnDelay = 3000 * time.Millisecond
	BotKillPoints   = 25

	botHeadingJitterChance = 0.25
	botHeadingJitter       = 0.4 // radians
	botStepMin             = 1.0
	botStepMax             = 2.2
	botFireChance          = 0.06
	botFireSpread          = 0.3 // radians
)

// Bot is a server-driven NPC ship. Bot ids carry a prefix so they can
// never collide with player ids.
type Bot struct {
	ID           string
	Label        string
	X, Y         float64
	Heading      float64
	Health       int
	MaxHealth    int
	Alive        bool
	RespawnDueAt time.Time
}

// NewBot spawns a bot at a random interior position
func NewBot(serial, health int) *Bot {
	x, y := randomSpawnPoint()
	return &Bot{
		ID:        BotIDPrefix + GenerateID(4),
		Label:     fmt.Sprintf("Bot %d", serial),
		X:         x,
		Y:         y,
		Heading:   randRange(0, 2*math.Pi),
		Health:    health,
		MaxHealth: health,
		Alive:     true,
	}
}

// TakeDamage reduces health and returns true if the bot died
func (b *Bot) TakeDamage(dmg int) bool {
	if !b.Alive || dmg <= 0 {
		return false
	}
	b.Health -= dmg
	if b.Health <= 0 {
		b.Health = 0
		b.Alive = false
		return true
	}
	return false
}

// ToCursorState converts to the wire shape
func (b *Bot) ToCursorState() CursorState {
	return CursorState{
		X:        b.X,
		Y:        b.Y,
		Rotation: b.Heading,
		Color:    "#888888",
		Label:    b.Label,
		Health:   b.Health,
		Type:     "bot",
	}
}

// botPass runs one pass of the bot loop: reconcile the population to the
// configured count, then wander and occasionally fire.
func (r *Room) botPass(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reconcileBots()

	for _, id := range r.botOrder {
		b, ok := r.bots[id]
		if !ok || !b.Alive {
			continue
		}
		r.stepBot(b)
	}
}

// reconcileBots adds or removes bots at the tail until the population
// matches settings.BotCount.
func (r *Room) reconcileBots() {
	for len(r.botOrder) < r.settings.BotCount {
		r.spawnBotLocked()
	}
	for len(r.botOrder) > r.settings.BotCount {
		r.removeBotLocked(r.botOrder[len(r.botOrder)-1])
	}
}

// spawnBotLocked creates one bot and announces it
func (r *Room) spawnBotLocked() *Bot {
	r.botSerial++
	b := NewBot(r.botSerial, r.settings.BotHealth)
	r.bots[b.ID] = b
	r.botOrder = append(r.botOrder, b.ID)
	r.broadcastAll(EvCursorUpdate, CursorUpdateMsg{UserID: b.ID, CursorState: b.ToCursorState()})
	return b
}

// removeBotLocked drops one bot and announces its departure
func (r *Room) removeBotLocked(id string) bool {
	if _, ok := r.bots[id]; !ok {
		return false
	}
	delete(r.bots, id)
	for i, bid := range r.botOrder {
		if bid == id {
			r.botOrder = append(r.botOrder[:i], r.botOrder[i+1:]...)
			break
		}
	}
	r.broadcastAll(EvUserLeft, UserLeftMsg{UserID: id})
	return true
}

// stepBot advances one bot: heading jitter, a forward step with wall
// reflection, and a chance to fire along its heading.
func (r *Room) stepBot(b *Bot) {
	if randFloat() < botHeadingJitterChance {
		b.Heading += randRange(-botHeadingJitter, botHeadingJitter)
	}

	step := r.settings.BotSpeed * randRange(botStepMin, botStepMax)
	nx := b.X + math.Cos(b.Heading)*step
	ny := b.Y + math.Sin(b.Heading)*step

	if nx < -HalfMapW || nx > HalfMapW {
		b.Heading = math.Pi - b.Heading
		nx = Clamp(nx, -HalfMapW, HalfMapW)
	}
	if ny < -HalfMapH || ny > HalfMapH {
		b.Heading = -b.Heading
		ny = Clamp(ny, -HalfMapH, HalfMapH)
	}
	b.X = nx
	b.Y = ny

	r.broadcastAll(EvCursorUpdate, CursorUpdateMsg{UserID: b.ID, CursorState: b.ToCursorState()})

	if randFloat() < botFireChance && len(r.bullets) < maxBulletsPerRoom {
		angle := b.Heading + randRange(-botFireSpread, botFireSpread)
		bullet := NewBullet(b.ID, b.X, b.Y, angle, false)
		r.bullets[bullet.ID] = bullet
		r.broadcastAll(EvBulletSpawn, BulletSpawnMsg{
			BulletID: bullet.ID,
			UserID:   b.ID,
			X:        bullet.X,
			Y:        bullet.Y,
			VX:       bullet.VX,
			VY:       bullet.VY,
			Color:    "#888888",
		})
	}
}

// AddBot spawns one bot on admin request and raises the target count so
// the reconcile pass does not immediately cull it.
func (r *Room) AddBot() *Bot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings.BotCount++
	return r.spawnBotLocked()
}

// RemoveBot removes one bot by id on admin request
func (r *Room) RemoveBot(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.removeBotLocked(id) {
		return false
	}
	if r.settings.BotCount > 0 {
		r.settings.BotCount--
	}
	return true
}

// RemoveAllBots clears the bot population and zeroes the target count
func (r *Room) RemoveAllBots() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for len(r.botOrder) > 0 {
		if r.removeBotLocked(r.botOrder[len(r.botOrder)-1]) {
			removed++
		}
	}
	r.settings.BotCount = 0
	return removed
}
