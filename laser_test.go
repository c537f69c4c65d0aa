package main

import (
	"math"
	"testing"
	"time"
)

func TestLaserInstallAndReplace(t *testing.T) {
	r := newTestRoom()
	_, mock := addTestShip(r, "a", 0, 0)

	r.HandleLaserShoot("a", LaserShootMsg{Angle: 0})
	if r.lasers["a"] == nil {
		t.Fatal("laser should be installed")
	}
	r.lasers["a"].TicksLeft = 5

	// Re-firing replaces the beam with a fresh one
	r.HandleLaserShoot("a", LaserShootMsg{Angle: 1})
	if r.lasers["a"].TicksLeft != LaserDuration {
		t.Error("re-firing should reset the beam duration")
	}
	if mock.count(EvLaserSpawn) != 2 {
		t.Error("each firing broadcasts laser:spawn")
	}
}

func TestLaserDamagesShipsOnBeam(t *testing.T) {
	r := newTestRoom()
	owner, _ := addTestShip(r, "a", 0, 0)
	owner.Rotation = 0
	victim, mock := addTestShip(r, "b", 500, 0) // dead ahead
	bystander, _ := addTestShip(r, "c", 500, 400)

	r.HandleLaserShoot("a", LaserShootMsg{Angle: 0})
	advance(r, testBase.Add(TickDuration))

	if victim.Health != MaxHealth-LaserDamagePerTick {
		t.Errorf("expected %d HP after one beam tick, got %d", MaxHealth-LaserDamagePerTick, victim.Health)
	}
	if bystander.Health != MaxHealth {
		t.Error("ships off the beam must be untouched")
	}
	if mock.count(EvHealthUpdate) == 0 {
		t.Error("beam damage should broadcast health:update")
	}

	// Damage accrues per tick
	advance(r, testBase.Add(2*TickDuration))
	if victim.Health != MaxHealth-2*LaserDamagePerTick {
		t.Errorf("expected %d HP after two ticks, got %d", MaxHealth-2*LaserDamagePerTick, victim.Health)
	}
}

func TestLaserSweepsWithOwnerRotation(t *testing.T) {
	r := newTestRoom()
	owner, _ := addTestShip(r, "a", 0, 0)
	victim, _ := addTestShip(r, "b", 500, 0)

	r.HandleLaserShoot("a", LaserShootMsg{Angle: 0})
	owner.Rotation = math.Pi / 2 // beam now points up, away from the victim
	advance(r, testBase.Add(TickDuration))

	if victim.Health != MaxHealth {
		t.Error("beam should track the owner's current rotation")
	}
}

func TestLaserNeverHitsOwner(t *testing.T) {
	r := newTestRoom()
	owner, _ := addTestShip(r, "a", 0, 0)
	r.HandleLaserShoot("a", LaserShootMsg{Angle: 0})
	advance(r, testBase.Add(TickDuration))
	if owner.Health != MaxHealth {
		t.Error("the beam originates at the owner and must not damage it")
	}
}

func TestLaserRemovedWhenOwnerDies(t *testing.T) {
	r := newTestRoom()
	owner, _ := addTestShip(r, "a", 0, 0)
	r.HandleLaserShoot("a", LaserShootMsg{Angle: 0})

	owner.Alive = false
	advance(r, testBase.Add(TickDuration))

	if _, ok := r.lasers["a"]; ok {
		t.Error("a dead owner's beam should be removed")
	}
}

func TestLaserExpiresAfterDuration(t *testing.T) {
	r := newTestRoom()
	addTestShip(r, "a", 0, 0)
	r.HandleLaserShoot("a", LaserShootMsg{Angle: 0})

	now := testBase
	for i := 0; i < LaserDuration; i++ {
		now = now.Add(TickDuration)
		advance(r, now)
	}
	if _, ok := r.lasers["a"]; ok {
		t.Errorf("beam should expire after %d ticks", LaserDuration)
	}
}

func TestLaserTriggersMines(t *testing.T) {
	r := newTestRoom()
	owner, mock := addTestShip(r, "a", 0, 0)
	owner.Rotation = 0
	placeMine(r, "m1", 800, MineTriggerRadius) // within trigger+slack of the beam line

	r.HandleLaserShoot("a", LaserShootMsg{Angle: 0})
	advance(r, testBase.Add(TickDuration))

	if _, ok := r.mines["m1"]; ok {
		t.Error("mine grazed by the beam should explode")
	}
	env, ok := mock.last(EvMineExplode)
	if !ok {
		t.Fatal("mine:explode should be broadcast")
	}
	if env.Data.(MineExplodeMsg).TriggeredBy != owner.ID {
		t.Error("beam-triggered mine is attributed to the beam owner")
	}
}

func TestLaserKillCreditsOwner(t *testing.T) {
	r := newTestRoom()
	owner, _ := addTestShip(r, "a", 0, 0)
	owner.Rotation = 0
	victim, _ := addTestShip(r, "b", 500, 0)
	victim.Health = LaserDamagePerTick

	advanceAt := testBase.Add(TickDuration)
	r.HandleLaserShoot("a", LaserShootMsg{Angle: 0})
	advance(r, advanceAt)

	if victim.Alive {
		t.Fatal("victim at minimal health should die to the beam")
	}
	if owner.Kills != 1 {
		t.Error("beam kill should credit the owner")
	}

	// Respawn is scheduled like any other death
	advance(r, advanceAt.Add(RespawnDelayMs*time.Millisecond+TickDuration))
	if !victim.Alive {
		t.Error("laser victim should respawn on schedule")
	}
}
