package main

import "testing"

func TestApplyDamage(t *testing.T) {
	s := NewShip("u1", "", "Pilot", "#fff", 100, 0)

	died := ApplyDamage(s, 50)
	if died {
		t.Error("should not die from 50 damage")
	}
	if s.Health != 50 {
		t.Errorf("expected health 50, got %d", s.Health)
	}

	died = ApplyDamage(s, 60)
	if !died {
		t.Error("should die from 60 more damage")
	}
	if s.Health != 0 || s.Alive {
		t.Error("dead ship should have zero health")
	}
}

func TestApplyDamageToDeadShip(t *testing.T) {
	s := NewShip("u1", "", "Pilot", "#fff", 100, 0)
	s.Health = 0
	s.Alive = false
	if ApplyDamage(s, 50) {
		t.Error("dead ship should not die again")
	}
	if s.Health != 0 {
		t.Error("dead ship health should stay at zero")
	}
}

func TestShieldAbsorbsBeforeHealth(t *testing.T) {
	s := NewShip("u1", "", "Pilot", "#fff", 100, 0)
	s.Shield = 30

	ApplyDamage(s, 20)
	if s.Shield != 10 || s.Health != 100 {
		t.Errorf("expected shield 10 / health 100, got %d/%d", s.Shield, s.Health)
	}

	ApplyDamage(s, 20)
	if s.Shield != 0 || s.Health != 90 {
		t.Errorf("expected shield 0 / health 90, got %d/%d", s.Shield, s.Health)
	}
}

func TestSetHealthClampsAndKills(t *testing.T) {
	s := NewShip("u1", "", "Pilot", "#fff", 100, 0)

	if SetHealth(s, 150) {
		t.Error("overheal should not kill")
	}
	if s.Health != MaxHealth {
		t.Errorf("expected clamp to %d, got %d", MaxHealth, s.Health)
	}

	if !SetHealth(s, 0) {
		t.Error("setting health to zero should report death")
	}
	if s.Alive {
		t.Error("ship should be dead")
	}

	// Further updates on a dead ship are dropped
	if SetHealth(s, 50) {
		t.Error("dead ship should ignore health updates")
	}
	if s.Health != 0 {
		t.Error("dead ship health should stay at zero")
	}
}
