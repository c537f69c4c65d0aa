package main

import "encoding/json"

// Client -> Server event names
const (
	EvCursorMove   = "cursor:move"
	EvBulletShoot  = "bullet:shoot"
	EvLaserShoot   = "laser:shoot"
	EvHealthDamage = "health:damage"

	EvAdminLogin          = "admin:login"
	EvAdminGetPlayers     = "admin:getPlayers"
	EvAdminGetBots        = "admin:getBots"
	EvAdminGetSettings    = "admin:getSettings"
	EvAdminAddBot         = "admin:addBot"
	EvAdminRemoveBot      = "admin:removeBot"
	EvAdminRemoveAllBots  = "admin:removeAllBots"
	EvAdminKickPlayer     = "admin:kickPlayer"
	EvAdminKickAll        = "admin:kickAll"
	EvAdminUpdateSettings = "admin:updateSettings"
	EvAdminEndGame        = "admin:endGame"
	EvAdminGetStats       = "admin:getStats"
)

// Server -> Client event names
const (
	EvPlayerInfo     = "player:info"
	EvUserJoined     = "user:joined"
	EvUserLeft       = "user:left"
	EvCursorsSync    = "cursors:sync"
	EvCursorUpdate   = "cursor:update"
	EvBulletSpawn    = "bullet:spawn"
	EvHealthUpdate   = "health:update"
	EvKnockback      = "knockback"
	EvMineSpawn      = "mine:spawn"
	EvMineSync       = "mine:sync"
	EvMineExplode    = "mine:explode"
	EvPowerupSpawn   = "powerup:spawn"
	EvPowerupSync    = "powerup:sync"
	EvPowerupCollect = "powerup:collect"
	EvLaserSpawn     = "laser:spawn"
	EvPlayerKilled   = "player:killed"
	EvPlayerRespawn  = "player:respawn"
	EvStatsUpdate    = "stats:update"
	EvScoreUpdate    = "score:update"
	EvKill           = "kill"

	EvAdminLoginOK    = "admin:login:ok"
	EvAdminLoginError = "admin:login:error"
	EvAdminError      = "admin:error"
	EvAdminPlayers    = "admin:players"
	EvAdminBots       = "admin:bots"
	EvAdminSettings   = "admin:settings"
	EvAdminStats      = "admin:stats"
	EvAdminEndGameOK  = "admin:endGame:ok"
)

// Envelope wraps all outgoing messages with a named event
type Envelope struct {
	E    string      `json:"e"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	E string          `json:"e"`
	D json.RawMessage `json:"d,omitempty"`
}

// CursorMoveMsg is the client's position/rotation report
type CursorMoveMsg struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// BulletShootMsg spawns a bullet at the reported muzzle position
type BulletShootMsg struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	IsRocket bool    `json:"isRocket,omitempty"`
}

// LaserShootMsg installs or replaces the shooter's beam
type LaserShootMsg struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// HealthDamageMsg is an authoritative damage report routed through the server
type HealthDamageMsg struct {
	UserID     string  `json:"userId"`
	Health     float64 `json:"health"`
	AttackerID string  `json:"attackerId,omitempty"`
}

// PlayerInfoMsg is sent to a socket right after admit
type PlayerInfoMsg struct {
	UserID string `json:"userId"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
	Health int    `json:"health"`
}

// UserJoinedMsg announces a new ship to everyone else
type UserJoinedMsg struct {
	UserID string `json:"userId"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// UserLeftMsg announces a disconnect
type UserLeftMsg struct {
	UserID string `json:"userId"`
}

// CursorState is one ship or bot as the clients render it
type CursorState struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Rotation     float64 `json:"rotation"`
	Color        string  `json:"color"`
	Label        string  `json:"label"`
	Health       int     `json:"health"`
	Type         string  `json:"type"` // "player" or "bot"
	ActiveWeapon string  `json:"activeWeapon,omitempty"`
	Shield       int     `json:"shield,omitempty"`
}

// CursorsSyncMsg is the full roster sent to a newly admitted socket
type CursorsSyncMsg struct {
	Cursors map[string]CursorState `json:"cursors"`
}

// CursorUpdateMsg is one ship's state change
type CursorUpdateMsg struct {
	UserID string `json:"userId"`
	CursorState
}

// BulletSpawnMsg announces a new bullet
type BulletSpawnMsg struct {
	BulletID string  `json:"bulletId"`
	UserID   string  `json:"userId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Color    string  `json:"color"`
	IsRocket bool    `json:"isRocket,omitempty"`
}

// HealthUpdateMsg carries an authoritative health/shield value
type HealthUpdateMsg struct {
	UserID     string `json:"userId"`
	Health     int    `json:"health"`
	Shield     int    `json:"shield,omitempty"`
	AttackerID string `json:"attackerId,omitempty"`
}

// KnockbackMsg carries the ship's authoritative post-impulse velocity
type KnockbackMsg struct {
	UserID string  `json:"userId"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
}

// MineState describes one mine on the field
type MineState struct {
	MineID string  `json:"mineId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// MineSyncMsg is the full mine set
type MineSyncMsg struct {
	Mines []MineState `json:"mines"`
}

// MineExplodeMsg announces a detonation
type MineExplodeMsg struct {
	MineID      string  `json:"mineId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	TriggeredBy string  `json:"triggeredBy,omitempty"`
}

// PowerupState describes one pickup on the field
type PowerupState struct {
	PowerUpID  string  `json:"powerUpId"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Type       string  `json:"type"`
	WeaponType string  `json:"weaponType,omitempty"`
}

// PowerupSyncMsg is the full pickup set
type PowerupSyncMsg struct {
	Powerups []PowerupState `json:"powerups"`
}

// PowerupCollectMsg announces a collected pickup
type PowerupCollectMsg struct {
	PowerUpID  string `json:"powerUpId"`
	UserID     string `json:"userId"`
	Type       string `json:"type"`
	WeaponType string `json:"weaponType,omitempty"`
}

// LaserSpawnMsg announces a beam firing
type LaserSpawnMsg struct {
	UserID string  `json:"userId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
	Color  string  `json:"color"`
}

// PlayerKilledMsg announces a player death
type PlayerKilledMsg struct {
	VictimID     string `json:"victimId"`
	VictimName   string `json:"victimName"`
	AttackerID   string `json:"attackerId,omitempty"`
	AttackerName string `json:"attackerName,omitempty"`
}

// PlayerRespawnMsg schedules the client-side respawn countdown
type PlayerRespawnMsg struct {
	UserID      string  `json:"userId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	RespawnTime int64   `json:"respawnTime"` // unix ms
}

// StatsUpdateMsg carries one ship's kill/death counters
type StatsUpdateMsg struct {
	UserID string `json:"userId"`
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
}

// ScoreEntry is one row of the score snapshot
type ScoreEntry struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	BotKills   int    `json:"botKills,omitempty"`
}

// ScoreUpdateMsg is the full placement snapshot
type ScoreUpdateMsg struct {
	Scores []ScoreEntry `json:"scores"`
}

// KillMsg announces a credited kill with the points it was worth
type KillMsg struct {
	KillerID   string `json:"killerId"`
	KillerName string `json:"killerName"`
	VictimID   string `json:"victimId"`
	VictimName string `json:"victimName"`
	Points     int    `json:"points"`
}

// AdminLoginMsg authenticates an admin socket
type AdminLoginMsg struct {
	Password string `json:"password"`
}

// AdminTokenMsg is the common shape of authenticated admin commands
type AdminTokenMsg struct {
	Token string `json:"token"`
	ID    string `json:"id,omitempty"`
}

// AdminUpdateSettingsMsg patches game settings
type AdminUpdateSettingsMsg struct {
	Token    string          `json:"token"`
	Settings json.RawMessage `json:"settings"`
}

// AdminErrorMsg reports an admin command failure
type AdminErrorMsg struct {
	Error string `json:"error"`
	ID    string `json:"id,omitempty"`
}

// AdminPlayerRow is one player in the admin snapshot
type AdminPlayerRow struct {
	UserID    string `json:"userId"`
	Label     string `json:"label"`
	PlayerKey string `json:"playerKey,omitempty"`
	Kills     int    `json:"kills"`
	Deaths    int    `json:"deaths"`
	Health    int    `json:"health"`
	Score     int    `json:"score"`
}

// AdminBotRow is one bot in the admin snapshot
type AdminBotRow struct {
	BotID  string  `json:"botId"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Health int     `json:"health"`
}

// AdminEndGameOKMsg reports score submission results
type AdminEndGameOKMsg struct {
	Submitted int `json:"submitted"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}
