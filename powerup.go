package main

import "time"

const (
	PowerupSpawnInterval = 3000 * time.Millisecond
	MaxPowerups          = 5
	PowerupRadius        = 30.0
	PowerupHealAmount    = 50
	PowerupShieldAmount  = 30
)

// Pickup kinds as they appear on the wire
const (
	PowerupWeapon = "weapon"
	PowerupHealth = "health"
	PowerupShield = "shield"
)

// specialWeapons are the kinds a weapon pickup can grant
var specialWeapons = []string{
	WeaponTripleShot,
	WeaponShotgun,
	WeaponRocket,
	WeaponLaser,
	WeaponHomingMissiles,
}

// Powerup is a one-shot collectible
type Powerup struct {
	ID         string
	X, Y       float64
	Kind       string
	WeaponKind string // set only for weapon pickups
}

// NewPowerup rolls a weighted kind (weapon 70%, health 20%, shield 10%)
// at a uniform map position.
func NewPowerup() *Powerup {
	p := &Powerup{
		ID: GenerateID(4),
		X:  randRange(-HalfMapW, HalfMapW),
		Y:  randRange(-HalfMapH, HalfMapH),
	}
	roll := randFloat()
	switch {
	case roll < 0.7:
		p.Kind = PowerupWeapon
		p.WeaponKind = specialWeapons[int(randFloat()*float64(len(specialWeapons)))%len(specialWeapons)]
	case roll < 0.9:
		p.Kind = PowerupHealth
	default:
		p.Kind = PowerupShield
	}
	return p
}

// ToState converts to the wire shape
func (p *Powerup) ToState() PowerupState {
	return PowerupState{
		PowerUpID:  p.ID,
		X:          p.X,
		Y:          p.Y,
		Type:       p.Kind,
		WeaponType: p.WeaponKind,
	}
}

// spawnPowerupMaybe places one pickup when the cadence allows
func (r *Room) spawnPowerupMaybe(now time.Time) {
	if len(r.powerups) >= MaxPowerups || now.Sub(r.lastPowerupSpawn) < PowerupSpawnInterval {
		return
	}
	r.lastPowerupSpawn = now
	p := NewPowerup()
	r.powerups[p.ID] = p
	r.broadcastAll(EvPowerupSpawn, p.ToState())
}

// powerupSyncLocked builds the powerup:sync payload
func (r *Room) powerupSyncLocked() PowerupSyncMsg {
	out := PowerupSyncMsg{Powerups: make([]PowerupState, 0, len(r.powerups))}
	for _, p := range r.powerups {
		out.Powerups = append(out.Powerups, p.ToState())
	}
	return out
}

// checkPowerupPickup collects any pickup the ship is touching
func (r *Room) checkPowerupPickup(s *Ship) {
	for _, ref := range r.grid.Query(s.X, s.Y, ShipRadius+PowerupRadius) {
		if ref.Kind != KindPowerup {
			continue
		}
		p, ok := r.powerups[ref.ID]
		if !ok {
			continue
		}
		if CheckCollision(s.X, s.Y, ShipRadius, p.X, p.Y, PowerupRadius) {
			r.collectPowerup(p, s)
		}
	}
}

// collectPowerup removes the pickup first, then applies its effect
func (r *Room) collectPowerup(p *Powerup, s *Ship) {
	delete(r.powerups, p.ID)

	switch p.Kind {
	case PowerupWeapon:
		s.GrantWeapon(p.WeaponKind)
	case PowerupHealth:
		s.Health += PowerupHealAmount
		if s.Health > MaxHealth {
			s.Health = MaxHealth
		}
		r.broadcastAll(EvHealthUpdate, HealthUpdateMsg{UserID: s.ID, Health: s.Health, Shield: s.Shield})
	case PowerupShield:
		s.Shield = PowerupShieldAmount
		r.broadcastAll(EvHealthUpdate, HealthUpdateMsg{UserID: s.ID, Health: s.Health, Shield: s.Shield})
	}

	r.broadcastAll(EvPowerupCollect, PowerupCollectMsg{
		PowerUpID:  p.ID,
		UserID:     s.ID,
		Type:       p.Kind,
		WeaponType: p.WeaponKind,
	})
}
