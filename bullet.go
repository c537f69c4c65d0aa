package main

import "math"

const (
	BulletSpeed        = 15.0 // pixels/tick
	RocketSpeed        = 6.0
	BulletLifetime     = 120 // ticks
	RocketLifetime     = 180
	BulletHitSlack     = 3.0 // added to ship radius for hit tests
	RocketBlastRadius  = 150.0
	RocketMaxDamage    = 100
	RocketMaxKnockback = 25.0
)

// Bullet is one in-flight projectile. Bullets bounce off the map walls
// and expire after a fixed number of ticks.
type Bullet struct {
	ID       string
	OwnerID  string
	X, Y     float64
	VX, VY   float64
	Life     int // remaining ticks
	IsRocket bool
}

// NewBullet creates a bullet heading along angle from (x, y)
func NewBullet(owner string, x, y, angle float64, isRocket bool) *Bullet {
	speed := BulletSpeed
	life := BulletLifetime
	if isRocket {
		speed = RocketSpeed
		life = RocketLifetime
	}
	return &Bullet{
		ID:       GenerateID(4),
		OwnerID:  owner,
		X:        Clamp(x, -HalfMapW, HalfMapW),
		Y:        Clamp(y, -HalfMapH, HalfMapH),
		VX:       math.Cos(angle) * speed,
		VY:       math.Sin(angle) * speed,
		Life:     life,
		IsRocket: isRocket,
	}
}

// Step integrates one tick. On wall contact the crossing axis is
// reflected and the bullet snaps to the wall. Returns false once the
// lifetime is spent.
func (b *Bullet) Step() bool {
	b.X += b.VX
	b.Y += b.VY

	if b.X < -HalfMapW {
		b.X = -HalfMapW
		b.VX = -b.VX
	} else if b.X > HalfMapW {
		b.X = HalfMapW
		b.VX = -b.VX
	}
	if b.Y < -HalfMapH {
		b.Y = -HalfMapH
		b.VY = -b.VY
	} else if b.Y > HalfMapH {
		b.Y = HalfMapH
		b.VY = -b.VY
	}

	b.Life--
	return b.Life > 0
}

// Direction returns the unit vector of travel, or (0, 0) when stationary
func (b *Bullet) Direction() (float64, float64) {
	speed := math.Sqrt(b.VX*b.VX + b.VY*b.VY)
	if speed == 0 {
		return 0, 0
	}
	return b.VX / speed, b.VY / speed
}
