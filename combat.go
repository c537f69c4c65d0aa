package main

// ApplyDamage reduces a ship's shield, then health, and returns true if
// the ship died this call. Dead ships absorb nothing.
func ApplyDamage(s *Ship, damage int) bool {
	if !s.Alive || damage <= 0 {
		return false
	}
	if s.Shield > 0 {
		absorbed := damage
		if absorbed > s.Shield {
			absorbed = s.Shield
		}
		s.Shield -= absorbed
		damage -= absorbed
	}
	if damage == 0 {
		return false
	}
	s.Health -= damage
	if s.Health <= 0 {
		s.Health = 0
		s.Alive = false
		return true
	}
	return false
}

// SetHealth clamps and stores an absolute health value, returning true if
// the ship transitioned to dead.
func SetHealth(s *Ship, health int) bool {
	if !s.Alive {
		return false
	}
	if health < 0 {
		health = 0
	}
	if health > MaxHealth {
		health = MaxHealth
	}
	s.Health = health
	if s.Health == 0 {
		s.Alive = false
		return true
	}
	return false
}
