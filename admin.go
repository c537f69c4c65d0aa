package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
)

// adminReply sends one admin event back on the issuing socket
func (c *Client) adminReply(event string, data interface{}) {
	c.SendJSON(Envelope{E: event, Data: data})
}

// constEq is a constant-time string comparison for the shared secret
func constEq(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// handleAdminLogin checks the shared secret. The token handed back is
// the password itself; clients echo it on every further admin command.
func (c *Client) handleAdminLogin(raw json.RawMessage) {
	var msg AdminLoginMsg
	if json.Unmarshal(raw, &msg) != nil {
		c.adminReply(EvAdminLoginError, AdminErrorMsg{Error: "Malformed login"})
		return
	}
	if !constEq(msg.Password, c.hub.adminPass) {
		c.adminReply(EvAdminLoginError, AdminErrorMsg{Error: "Invalid password"})
		return
	}
	c.isAdmin.Store(true)
	c.adminReply(EvAdminLoginOK, map[string]string{"token": c.hub.adminPass})
}

// handleAdminCommand authorizes and dispatches one admin command. Every
// command carries the token; an unauthenticated command never mutates.
func (c *Client) handleAdminCommand(event string, raw json.RawMessage) {
	var tok AdminTokenMsg
	_ = json.Unmarshal(raw, &tok)
	if !c.isAdmin.Load() || !constEq(tok.Token, c.hub.adminPass) {
		c.adminReply(EvAdminError, AdminErrorMsg{Error: "Unauthorized"})
		return
	}

	room := c.hub.room
	switch event {
	case EvAdminGetPlayers:
		c.adminReply(EvAdminPlayers, room.AdminPlayers())

	case EvAdminGetBots:
		c.adminReply(EvAdminBots, room.AdminBots())

	case EvAdminGetSettings:
		c.adminReply(EvAdminSettings, room.Settings())

	case EvAdminAddBot:
		room.AddBot()
		c.adminReply(EvAdminBots, room.AdminBots())

	case EvAdminRemoveBot:
		if !room.RemoveBot(tok.ID) {
			c.adminReply(event+":error", AdminErrorMsg{Error: "Unknown bot", ID: tok.ID})
			return
		}
		c.adminReply(EvAdminBots, room.AdminBots())

	case EvAdminRemoveAllBots:
		room.RemoveAllBots()
		c.adminReply(EvAdminBots, room.AdminBots())

	case EvAdminKickPlayer:
		if isBotID(tok.ID) {
			c.adminReply(event+":error", AdminErrorMsg{Error: "Cannot kick a bot, use removeBot", ID: tok.ID})
			return
		}
		if !c.hub.KickShip(tok.ID) {
			c.adminReply(event+":error", AdminErrorMsg{Error: "Unknown player", ID: tok.ID})
			return
		}
		c.adminReply(EvAdminPlayers, room.AdminPlayers())

	case EvAdminKickAll:
		c.hub.KickAll()

	case EvAdminUpdateSettings:
		var msg AdminUpdateSettingsMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.adminReply(event+":error", AdminErrorMsg{Error: "Malformed settings"})
			return
		}
		settings, err := room.PatchSettings(msg.Settings)
		if err != nil {
			c.adminReply(event+":error", AdminErrorMsg{Error: err.Error()})
			return
		}
		c.adminReply(EvAdminSettings, settings)

	case EvAdminEndGame:
		go c.runEndGame()

	case EvAdminGetStats:
		counts, err := room.stats.EventCounts()
		if err != nil {
			c.adminReply(event+":error", AdminErrorMsg{Error: "stats unavailable"})
			return
		}
		if counts == nil {
			counts = map[string]int{}
		}
		c.adminReply(EvAdminStats, counts)
	}
}

// isBotID reports whether an id belongs to the bot namespace
func isBotID(id string) bool {
	return len(id) >= len(BotIDPrefix) && id[:len(BotIDPrefix)] == BotIDPrefix
}

// endGameTarget is one pending score submission
type endGameTarget struct {
	ID        string
	Name      string
	PlayerKey string
	Score     int
}

// EndGameTargets snapshots every ship eligible for score submission and
// marks it in flight so a concurrent endGame cannot double-submit.
func (r *Room) EndGameTargets() []endGameTarget {
	r.mu.Lock()
	defer r.mu.Unlock()

	var targets []endGameTarget
	for _, s := range r.ships {
		if s.PlayerKey == "" || s.ScoreSubmitted || s.scoreInFlight {
			continue
		}
		s.scoreInFlight = true
		targets = append(targets, endGameTarget{
			ID:        s.ID,
			Name:      s.Label,
			PlayerKey: s.PlayerKey,
			Score:     PlacementScore(r.rankLocked(s.ID)),
		})
	}
	return targets
}

// FinishSubmission records the outcome of one submission. Failures leave
// the ship eligible so a later endGame can retry.
func (r *Room) FinishSubmission(shipID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, found := r.ships[shipID]
	if !found {
		return
	}
	s.scoreInFlight = false
	if ok {
		s.ScoreSubmitted = true
	}
}

// runEndGame submits placement scores for every eligible ship and
// reports the tally. Runs off the tick path; only the bookkeeping
// touches room state.
func (c *Client) runEndGame() {
	room := c.hub.room
	targets := room.EndGameTargets()

	submitted, failed := 0, 0
	for _, t := range targets {
		if c.hub.scoreHub == nil {
			room.FinishSubmission(t.ID, false)
			failed++
			continue
		}
		err := c.hub.scoreHub.SubmitScore(context.Background(), t.Name, t.PlayerKey, t.Score)
		room.FinishSubmission(t.ID, err == nil)
		if err != nil {
			log.Printf("endGame: submit for %s failed: %v", t.ID, err)
			failed++
		} else {
			submitted++
		}
	}
	if room.stats != nil {
		room.stats.Track(StatEndGame, "", "")
	}
	c.adminReply(EvAdminEndGameOK, AdminEndGameOKMsg{
		Submitted: submitted,
		Failed:    failed,
		Total:     len(targets),
	})
}

// AdminPlayers builds the player snapshot for the admin channel
func (r *Room) AdminPlayers() []AdminPlayerRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]AdminPlayerRow, 0, len(r.ships))
	for _, s := range r.ships {
		rows = append(rows, AdminPlayerRow{
			UserID:    s.ID,
			Label:     s.Label,
			PlayerKey: s.PlayerKey,
			Kills:     s.Kills,
			Deaths:    s.Deaths,
			Health:    s.Health,
			Score:     s.PlacementPoints,
		})
	}
	return rows
}

// AdminBots builds the bot snapshot for the admin channel
func (r *Room) AdminBots() []AdminBotRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]AdminBotRow, 0, len(r.bots))
	for _, id := range r.botOrder {
		b, ok := r.bots[id]
		if !ok {
			continue
		}
		rows = append(rows, AdminBotRow{
			BotID:  b.ID,
			Label:  b.Label,
			X:      b.X,
			Y:      b.Y,
			Health: b.Health,
		})
	}
	return rows
}
