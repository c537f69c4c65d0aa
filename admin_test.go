package main

import "testing"

func TestEndGameTargetsEligibility(t *testing.T) {
	r := newTestRoom()
	keyed, _ := addTestShip(r, "a", 0, 0)
	keyed.PlayerKey = "key-a"
	addTestShip(r, "b", 100, 0) // no key, never eligible

	targets := r.EndGameTargets()
	if len(targets) != 1 || targets[0].ID != "a" {
		t.Fatalf("expected only the keyed ship, got %+v", targets)
	}
	if targets[0].Score != PlacementScore(1) {
		t.Errorf("expected rank-1 placement %d, got %d", PlacementScore(1), targets[0].Score)
	}
}

// Invoking endGame twice without intervening deaths submits each ship at
// most once total.
func TestEndGameSubmitsAtMostOnce(t *testing.T) {
	r := newTestRoom()
	keyed, _ := addTestShip(r, "a", 0, 0)
	keyed.PlayerKey = "key-a"

	first := r.EndGameTargets()
	if len(first) != 1 {
		t.Fatalf("expected 1 target, got %d", len(first))
	}

	// A concurrent second call sees the in-flight submission and skips it
	if second := r.EndGameTargets(); len(second) != 0 {
		t.Fatalf("in-flight ship must not be targeted again, got %d", len(second))
	}

	r.FinishSubmission("a", true)
	if third := r.EndGameTargets(); len(third) != 0 {
		t.Fatalf("submitted ship must not be targeted again, got %d", len(third))
	}
	if !keyed.ScoreSubmitted {
		t.Error("successful submission should set the flag")
	}
}

func TestEndGameFailureLeavesRetryable(t *testing.T) {
	r := newTestRoom()
	keyed, _ := addTestShip(r, "a", 0, 0)
	keyed.PlayerKey = "key-a"

	r.EndGameTargets()
	r.FinishSubmission("a", false)

	if keyed.ScoreSubmitted {
		t.Error("failure must not mark the score submitted")
	}
	if retry := r.EndGameTargets(); len(retry) != 1 {
		t.Errorf("failed ship should be retryable, got %d targets", len(retry))
	}
}

func TestFinishSubmissionUnknownShip(t *testing.T) {
	r := newTestRoom()
	r.FinishSubmission("vanished", true) // must not panic
}

func TestAdminPlayersSnapshot(t *testing.T) {
	r := newTestRoom()
	s, _ := addTestShip(r, "a", 0, 0)
	s.PlayerKey = "key-a"
	s.Kills = 2
	s.PlacementPoints = 200

	rows := r.AdminPlayers()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.UserID != "a" || row.Kills != 2 || row.Score != 200 || row.PlayerKey != "key-a" {
		t.Errorf("snapshot mismatch: %+v", row)
	}
}

func TestAdminBotsSnapshot(t *testing.T) {
	r := newTestRoom()
	addTestShip(r, "a", 0, 0)
	r.settings.BotCount = 2
	r.botPass(testBase)

	rows := r.AdminBots()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if !isBotID(row.BotID) {
			t.Errorf("bot row with non-bot id %q", row.BotID)
		}
	}
}

func TestConstEq(t *testing.T) {
	if !constEq("secret", "secret") {
		t.Error("equal strings should match")
	}
	if constEq("secret", "Secret") || constEq("secret", "secret ") {
		t.Error("different strings must not match")
	}
}
