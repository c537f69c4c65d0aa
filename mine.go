package main

import "time"

const (
	MineSpawnInterval = 2000 * time.Millisecond
	MaxMines          = 10
	MineTriggerRadius = 20.0
	MineDamageRadius  = 240.0
	MineDamage        = 40
	MineKnockback     = 20.0
	MineChainDelay    = 100 * time.Millisecond
	MineLaserSlack    = 10.0 // beam proximity added to the trigger radius
)

// Mine is a static explosive. It never moves; it is removed from the set
// before its explosion effects are applied, so a chain reaction can never
// detonate the same mine twice.
type Mine struct {
	ID            string
	X, Y          float64
	TriggerRadius float64
	DamageRadius  float64
	Damage        int
}

// NewMine places a mine uniformly within the map rectangle
func NewMine() *Mine {
	return &Mine{
		ID:            GenerateID(4),
		X:             randRange(-HalfMapW, HalfMapW),
		Y:             randRange(-HalfMapH, HalfMapH),
		TriggerRadius: MineTriggerRadius,
		DamageRadius:  MineDamageRadius,
		Damage:        MineDamage,
	}
}

// ToState converts to the wire shape
func (m *Mine) ToState() MineState {
	return MineState{MineID: m.ID, X: m.X, Y: m.Y}
}

// spawnMineMaybe places one mine when the cadence allows and the field
// is not saturated.
func (r *Room) spawnMineMaybe(now time.Time) {
	if len(r.mines) >= MaxMines || now.Sub(r.lastMineSpawn) < MineSpawnInterval {
		return
	}
	r.lastMineSpawn = now
	m := NewMine()
	r.mines[m.ID] = m
	r.broadcastAll(EvMineSpawn, m.ToState())
}

// mineSyncLocked builds the mine:sync payload
func (r *Room) mineSyncLocked() MineSyncMsg {
	out := MineSyncMsg{Mines: make([]MineState, 0, len(r.mines))}
	for _, m := range r.mines {
		out.Mines = append(out.Mines, m.ToState())
	}
	return out
}

// checkMineContact detonates any mine the ship has wandered onto
func (r *Room) checkMineContact(s *Ship, now time.Time) {
	for _, ref := range r.grid.Query(s.X, s.Y, ShipRadius+MineTriggerRadius) {
		if ref.Kind != KindMine {
			continue
		}
		m, ok := r.mines[ref.ID]
		if !ok {
			continue
		}
		if Distance(s.X, s.Y, m.X, m.Y) <= m.TriggerRadius+ShipRadius {
			r.explodeMine(m.ID, s.ID, now)
			if !s.Alive {
				return
			}
		}
	}
}

// explodeMine detonates one mine: the mine is removed first, damage and
// radial knockback hit everything inside the damage radius, and a chain
// check is scheduled 100 ms out so cascades rumble instead of firing all
// at once.
func (r *Room) explodeMine(mineID, triggeredBy string, now time.Time) {
	m, ok := r.mines[mineID]
	if !ok {
		return
	}
	delete(r.mines, mineID)
	r.broadcastAll(EvMineExplode, MineExplodeMsg{
		MineID:      m.ID,
		X:           m.X,
		Y:           m.Y,
		TriggeredBy: triggeredBy,
	})

	for _, s := range r.ships {
		if !s.Alive {
			continue
		}
		d := Distance(m.X, m.Y, s.X, s.Y)
		if d > m.DamageRadius {
			continue
		}
		strength := MineKnockback * (1 - d/m.DamageRadius)
		kx, ky := radialDir(m.X, m.Y, s.X, s.Y)
		s.ApplyKnockback(kx*strength, ky*strength)
		r.broadcastAll(EvKnockback, KnockbackMsg{UserID: s.ID, VX: s.VX, VY: s.VY})

		attacker := triggeredBy
		if attacker == s.ID {
			attacker = "" // walking onto your own trigger earns nobody credit
		}
		died := ApplyDamage(s, m.Damage)
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
		d := Distance(m.X, m.Y, bot.X, bot.Y)
		if d > m.DamageRadius {
			continue
		}
		r.hitBot(triggeredBy, bot, m.Damage, now)
	}

	// Chain reaction: neighbors within reach of this blast go off on the
	// next 100 ms boundary, attributed to the same trigger.
	epicX, epicY := m.X, m.Y
	reach := m.TriggerRadius + m.DamageRadius
	r.timers.Schedule(now.Add(MineChainDelay), func() {
		chainNow := r.clock()
		for id, other := range r.mines {
			if Distance(epicX, epicY, other.X, other.Y) <= reach {
				r.explodeMine(id, triggeredBy, chainNow)
			}
		}
	})
}
