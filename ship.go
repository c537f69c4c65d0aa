package main

import "math"

const (
	MapWidth  = 4000.0
	MapHeight = 4000.0
	HalfMapW  = MapWidth / 2
	HalfMapH  = MapHeight / 2

	ShipRadius      = 25.0
	ShipFriction    = 0.92 // velocity multiplier per tick
	ShipMaxSpeed    = 15.0 // pixels/tick
	ShipStopEps     = 0.01 // below this the ship is considered stopped
	WallRestitution = 0.5  // knockback rebound damping off walls

	MaxHealth = 100
	MaxShield = 100

	SpecialWeaponAmmo = 3
	MachineGunDamage  = 10
	BulletKnockback   = 8.0

	RespawnDelayMs = 6000
)

// Weapon kinds as they appear on the wire
const (
	WeaponMachineGun     = "machineGun"
	WeaponTripleShot     = "tripleShot"
	WeaponShotgun        = "shotgun"
	WeaponRocket         = "rocket"
	WeaponLaser          = "laser"
	WeaponHomingMissiles = "homingMissiles"
)

// neonPalette colors ships by insertion order
var neonPalette = []string{
	"#39ff14", "#ff073a", "#00f5ff", "#ff61f6",
	"#ffe700", "#ff9100", "#8a2be2", "#00ff9f",
	"#ff2079", "#04d9ff", "#bfff00", "#ff5e00",
}

// Ship is one player-controlled entity. All mutation happens under the
// room lock; sockets only ever hold the id.
type Ship struct {
	ID        string
	PlayerKey string
	Label     string
	Color     string

	X, Y     float64
	Rotation float64
	VX, VY   float64

	Health int
	Shield int
	Alive  bool

	ActiveWeapon string
	Ammo         int // remaining shots for special weapons; ignored for machine gun

	Kills    int
	Deaths   int
	BotKills int

	PlacementPoints int
	ScoreSubmitted  bool
	scoreInFlight   bool // guards against concurrent endGame submissions

	joinSeq int // insertion order, breaks rank ties
}

// NewShip creates a ship at a random interior position
func NewShip(id, playerKey, label, color string, health, joinSeq int) *Ship {
	x, y := randomSpawnPoint()
	return &Ship{
		ID:           id,
		PlayerKey:    playerKey,
		Label:        label,
		Color:        color,
		X:            x,
		Y:            y,
		Health:       health,
		Alive:        true,
		ActiveWeapon: WeaponMachineGun,
		joinSeq:      joinSeq,
	}
}

// randomSpawnPoint returns a uniform point inside the map, clear of the walls
func randomSpawnPoint() (float64, float64) {
	const margin = 100.0
	x := randRange(-HalfMapW+margin, HalfMapW-margin)
	y := randRange(-HalfMapH+margin, HalfMapH-margin)
	return x, y
}

// Speed returns the ship's current speed in pixels/tick
func (s *Ship) Speed() float64 {
	return math.Sqrt(s.VX*s.VX + s.VY*s.VY)
}

// MoveTo stores a clamped position and rotation
func (s *Ship) MoveTo(x, y, rot float64) {
	s.X = Clamp(x, -HalfMapW, HalfMapW)
	s.Y = Clamp(y, -HalfMapH, HalfMapH)
	s.Rotation = rot
}

// ApplyKnockback adds an impulse to the ship's velocity
func (s *Ship) ApplyKnockback(dvx, dvy float64) {
	s.VX += dvx
	s.VY += dvy
}

// PhysicsStep integrates one tick of velocity, friction and wall rebound.
// Position moves before the cap, so a fresh knockback impulse lands at
// full strength for one tick and the capped velocity carries forward.
// Returns true if the ship moved at a non-trivial speed this tick.
func (s *Ship) PhysicsStep() bool {
	if s.Speed() < ShipStopEps {
		s.VX = 0
		s.VY = 0
		return false
	}

	s.X += s.VX
	s.Y += s.VY
	s.VX *= ShipFriction
	s.VY *= ShipFriction

	speed := s.Speed()
	if speed < ShipStopEps {
		s.VX = 0
		s.VY = 0
	} else if speed > ShipMaxSpeed {
		scale := ShipMaxSpeed / speed
		s.VX *= scale
		s.VY *= scale
	}

	// Knockback rebounds off walls: clamp the axis and reflect dampened
	if s.X < -HalfMapW {
		s.X = -HalfMapW
		s.VX = -s.VX * WallRestitution
	} else if s.X > HalfMapW {
		s.X = HalfMapW
		s.VX = -s.VX * WallRestitution
	}
	if s.Y < -HalfMapH {
		s.Y = -HalfMapH
		s.VY = -s.VY * WallRestitution
	} else if s.Y > HalfMapH {
		s.Y = HalfMapH
		s.VY = -s.VY * WallRestitution
	}
	return true
}

// GrantWeapon arms a picked-up weapon with its ammunition
func (s *Ship) GrantWeapon(kind string) {
	s.ActiveWeapon = kind
	if kind == WeaponMachineGun {
		s.Ammo = 0
	} else {
		s.Ammo = SpecialWeaponAmmo
	}
}

// ConsumeAmmo burns one shot of a special weapon, reverting to the
// machine gun when the magazine runs dry.
func (s *Ship) ConsumeAmmo() {
	if s.ActiveWeapon == WeaponMachineGun {
		return
	}
	s.Ammo--
	if s.Ammo <= 0 {
		s.ActiveWeapon = WeaponMachineGun
		s.Ammo = 0
	}
}

// ResetForRespawn restores the ship at a fresh random position
func (s *Ship) ResetForRespawn(health int) {
	s.X, s.Y = randomSpawnPoint()
	s.VX = 0
	s.VY = 0
	s.Health = health
	s.Shield = 0
	s.Alive = true
	s.ActiveWeapon = WeaponMachineGun
	s.Ammo = 0
}

// RankScore is the leaderboard sort key
func (s *Ship) RankScore() int {
	return s.Kills*100 - s.Deaths*50
}

// ToCursorState converts to the wire shape
func (s *Ship) ToCursorState() CursorState {
	return CursorState{
		X:            s.X,
		Y:            s.Y,
		Rotation:     s.Rotation,
		Color:        s.Color,
		Label:        s.Label,
		Health:       s.Health,
		Type:         "player",
		ActiveWeapon: s.ActiveWeapon,
		Shield:       s.Shield,
	}
}

// paletteColor returns the neon color for the n-th admitted ship
func paletteColor(n int) string {
	return neonPalette[n%len(neonPalette)]
}
