package main

import "time"

const (
	KillPoints        = 100
	DeathPointPenalty = 50
)

// onDeath is the single exit point for a player death: credit the kill,
// emit the kill and stats events, and schedule the respawn. attackerID
// may be empty (environmental or suicide death) or a bot id; placement
// credit only flows between distinct players. Callers hold the room lock.
func (r *Room) onDeath(victimID, attackerID string, now time.Time) {
	victim, ok := r.ships[victimID]
	if !ok {
		return
	}
	victim.Deaths++
	victim.Alive = false
	victim.Health = 0

	attackerName := ""
	if attackerID == victimID {
		attackerID = ""
	}
	attacker := r.ships[attackerID]
	if attacker != nil {
		attacker.Kills++
		attacker.PlacementPoints += KillPoints
		victim.PlacementPoints -= DeathPointPenalty
		if victim.PlacementPoints < 0 {
			victim.PlacementPoints = 0
		}
		attackerName = attacker.Label
	} else if bot, ok := r.bots[attackerID]; ok {
		attackerName = bot.Label
	}

	r.broadcastAll(EvPlayerKilled, PlayerKilledMsg{
		VictimID:     victimID,
		VictimName:   victim.Label,
		AttackerID:   attackerID,
		AttackerName: attackerName,
	})
	r.broadcastAll(EvStatsUpdate, StatsUpdateMsg{UserID: victimID, Kills: victim.Kills, Deaths: victim.Deaths})
	if attacker != nil {
		r.broadcastAll(EvStatsUpdate, StatsUpdateMsg{UserID: attacker.ID, Kills: attacker.Kills, Deaths: attacker.Deaths})
		r.broadcastAll(EvKill, KillMsg{
			KillerID:   attacker.ID,
			KillerName: attacker.Label,
			VictimID:   victimID,
			VictimName: victim.Label,
			Points:     KillPoints,
		})
	}
	r.broadcastAll(EvScoreUpdate, r.scoreSnapshotLocked())

	if r.stats != nil {
		r.stats.Track(StatDeath, victimID, attackerID)
		if attacker != nil {
			r.stats.Track(StatKill, attacker.ID, victimID)
		}
	}

	respawnAt := now.Add(RespawnDelayMs * time.Millisecond)
	r.broadcastAll(EvPlayerRespawn, PlayerRespawnMsg{
		UserID:      victimID,
		X:           0,
		Y:           0,
		RespawnTime: respawnAt.UnixMilli(),
	})
	r.timers.Schedule(respawnAt, func() {
		r.respawnShip(victimID)
	})
}

// respawnShip restores a dead ship at a fresh position. Runs from the
// timer queue, under the room lock.
func (r *Room) respawnShip(shipID string) {
	s, ok := r.ships[shipID]
	if !ok || s.Alive {
		return // disconnected while dead, or already restored
	}
	s.ResetForRespawn(r.settings.PlayerStartingHealth)
	r.broadcastAll(EvHealthUpdate, HealthUpdateMsg{UserID: shipID, Health: s.Health, Shield: s.Shield})
	r.broadcastAll(EvCursorUpdate, CursorUpdateMsg{UserID: shipID, CursorState: s.ToCursorState()})
}

// onBotDeath credits a bot kill and schedules the bot's respawn. Bot
// kills never count toward the kills column (that is player blood only),
// but they do earn placement points. Callers hold the room lock.
func (r *Room) onBotDeath(bot *Bot, attackerID string, now time.Time) {
	r.broadcastAll(EvHealthUpdate, HealthUpdateMsg{UserID: bot.ID, Health: 0, AttackerID: attackerID})

	if attacker, ok := r.ships[attackerID]; ok {
		attacker.BotKills++
		attacker.PlacementPoints += BotKillPoints
		r.broadcastAll(EvKill, KillMsg{
			KillerID:   attacker.ID,
			KillerName: attacker.Label,
			VictimID:   bot.ID,
			VictimName: bot.Label,
			Points:     BotKillPoints,
		})
		r.broadcastAll(EvStatsUpdate, StatsUpdateMsg{UserID: attacker.ID, Kills: attacker.Kills, Deaths: attacker.Deaths})
		if r.stats != nil {
			r.stats.Track(StatBotKill, attacker.ID, bot.ID)
		}
	}

	bot.RespawnDueAt = now.Add(BotRespawnDelay)
	botID := bot.ID
	r.timers.Schedule(bot.RespawnDueAt, func() {
		b, ok := r.bots[botID]
		if !ok || b.Alive {
			return // culled by reconcile or admin while dead
		}
		b.X, b.Y = randomSpawnPoint()
		b.Health = r.settings.BotHealth
		b.MaxHealth = r.settings.BotHealth
		b.Alive = true
		b.RespawnDueAt = time.Time{}
		r.broadcastAll(EvCursorUpdate, CursorUpdateMsg{UserID: b.ID, CursorState: b.ToCursorState()})
	})
}
