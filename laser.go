package main

import (
	"math"
	"time"
)

const (
	LaserDuration      = 120 // ticks
	LaserLength        = 2000.0
	LaserHalfWidth     = 25.0
	LaserDamagePerTick = 2
)

// Laser is a continuous beam owned by one ship. The beam is re-raycast
// every tick from the owner's current position and rotation, so it
// sweeps as the ship turns.
type Laser struct {
	OwnerID   string
	Angle     float64
	TicksLeft int
}

// NewLaser arms a fresh beam; installing it replaces any prior beam
func NewLaser(ownerID string, angle float64) *Laser {
	return &Laser{OwnerID: ownerID, Angle: angle, TicksLeft: LaserDuration}
}

// advanceLasers applies one tick of every active beam
func (r *Room) advanceLasers(now time.Time) {
	for ownerID, l := range r.lasers {
		owner, ok := r.ships[ownerID]
		if !ok || !owner.Alive {
			delete(r.lasers, ownerID)
			continue
		}

		l.Angle = owner.Rotation
		x1, y1 := owner.X, owner.Y
		x2 := x1 + math.Cos(l.Angle)*LaserLength
		y2 := y1 + math.Sin(l.Angle)*LaserLength

		for _, s := range r.ships {
			if s.ID == ownerID || !s.Alive {
				continue
			}
			if PointSegmentDistance(s.X, s.Y, x1, y1, x2, y2) > LaserHalfWidth {
				continue
			}
			died := ApplyDamage(s, LaserDamagePerTick)
			r.broadcastAll(EvHealthUpdate, HealthUpdateMsg{
				UserID:     s.ID,
				Health:     s.Health,
				Shield:     s.Shield,
				AttackerID: ownerID,
			})
			if died {
				r.onDeath(s.ID, ownerID, now)
			}
		}

		for _, bot := range r.bots {
			if !bot.Alive {
				continue
			}
			if PointSegmentDistance(bot.X, bot.Y, x1, y1, x2, y2) > LaserHalfWidth {
				continue
			}
			r.hitBot(ownerID, bot, LaserDamagePerTick, now)
		}

		for id, m := range r.mines {
			if PointSegmentDistance(m.X, m.Y, x1, y1, x2, y2) <= m.TriggerRadius+MineLaserSlack {
				r.explodeMine(id, ownerID, now)
			}
		}

		l.TicksLeft--
		if l.TicksLeft <= 0 {
			delete(r.lasers, ownerID)
		}
	}
}
